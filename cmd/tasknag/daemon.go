package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dori/tasknag/internal/config"
	"github.com/dori/tasknag/internal/daemon"
	"github.com/dori/tasknag/internal/db"
	"github.com/dori/tasknag/internal/notify"
)

func daemonCmd() *cobra.Command {
	var configPath string
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the background reminder daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("interval") {
				cfg.PollInterval = config.Duration(interval)
			}
			if cmd.Flags().Changed("db") {
				cfg.DBPath = dbPath
			}

			database, err := db.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer database.Close()

			logger, logCloser, err := daemon.OpenLog(cfg.LogPath)
			if err != nil {
				return err
			}
			defer logCloser.Close()

			dispatcher := notify.NewDispatcher(notify.DefaultChannelTimeout, buildChannels(cfg)...)
			if len(dispatcher.ChannelNames()) == 0 {
				logger.Printf("warning: no notification channels available")
			}

			d := daemon.New(database, dispatcher, daemon.Config{
				Interval: cfg.PollInterval.Std(),
				Logger:   logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return d.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", config.DefaultPath(), "config file path")
	cmd.Flags().DurationVar(&interval, "interval", 60*time.Second, "poll interval")
	return cmd
}

// buildChannels assembles the static channel registry from config.
// Unconfigured channels simply never make it into the dispatcher.
func buildChannels(cfg *config.Config) []notify.Channel {
	var channels []notify.Channel

	if cfg.Desktop.Enabled {
		channels = append(channels, notify.NewDesktopChannel())
	}
	if cfg.Telegram.Token != "" {
		channels = append(channels, notify.NewTelegramChannel(cfg.Telegram.Token, cfg.Telegram.ChatID))
	}
	if cfg.Webhook.URL != "" {
		channels = append(channels, notify.NewWebhookChannel(cfg.Webhook.URL))
	}

	return channels
}
