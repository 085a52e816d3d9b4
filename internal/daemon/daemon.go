// Package daemon runs the background reminder scheduler: poll the store
// for due reminders, dispatch them, record the outcome, sleep, repeat.
// Correctness never depends on daemon memory; a reminder that was not
// marked notified simply reappears on the next tick, even after a crash.
package daemon

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/robfig/cron/v3"

	"github.com/dori/tasknag/internal/db"
	"github.com/dori/tasknag/internal/notify"
)

// Store is the narrow slice of the domain store the daemon is allowed to
// touch. Everything else (task fields, categories, reminder schedules)
// belongs to the front end; keeping the interface this small enforces
// the write-authority split at compile time.
type Store interface {
	DueReminders(asOf time.Time) ([]db.DueReminder, error)
	MarkNotified(id string, at time.Time) (bool, error)
	RecordDelivery(reminderID, channel, status, detail string) error
}

// TickStats summarizes one poll-dispatch cycle
type TickStats struct {
	Checked    int // due reminders found
	Dispatched int // delivered and marked notified
	Failed     int // all channels failed, left for retry
}

// Config holds daemon settings
type Config struct {
	Interval time.Duration
	LockPath string
	Logger   *log.Logger
	Now      func() time.Time
}

// Daemon is the reminder scheduler. One instance, single-threaded ticks.
type Daemon struct {
	store      Store
	dispatcher *notify.Dispatcher
	interval   time.Duration
	lockPath   string
	logger     *log.Logger
	now        func() time.Time
}

// New creates a daemon around a store and dispatcher
func New(store Store, dispatcher *notify.Dispatcher, cfg Config) *Daemon {
	if cfg.Interval <= 0 {
		cfg.Interval = 60 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard, "", 0)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.LockPath == "" {
		cfg.LockPath = filepath.Join(db.DefaultDataDir(), "tasknagd.lock")
	}

	return &Daemon{
		store:      store,
		dispatcher: dispatcher,
		interval:   cfg.Interval,
		lockPath:   cfg.LockPath,
		logger:     cfg.Logger,
		now:        cfg.Now,
	}
}

// Run executes the scheduler loop until ctx is cancelled. The in-flight
// tick is always drained before Run returns; a reminder is either fully
// dispatched-and-marked or left untouched for the next start.
func (d *Daemon) Run(ctx context.Context) error {
	lock, err := d.acquireLock()
	if err != nil {
		return err
	}
	defer lock.Unlock()

	d.logger.Printf("daemon started: interval=%s channels=%v", d.interval, d.dispatcher.ChannelNames())

	// Catch up on anything that came due while the daemon was down
	d.Tick(ctx)

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	spec := fmt.Sprintf("@every %ds", int(d.interval.Seconds()))
	if _, err := c.AddFunc(spec, func() { d.Tick(ctx) }); err != nil {
		return fmt.Errorf("schedule tick: %w", err)
	}
	c.Start()

	<-ctx.Done()

	// Stop() waits for the running tick to finish
	stopped := c.Stop()
	<-stopped.Done()

	d.logger.Printf("daemon stopped")
	return nil
}

// Tick performs one poll-dispatch cycle and logs a one-line summary.
// Store failures are logged and swallowed so the loop keeps running.
func (d *Daemon) Tick(ctx context.Context) TickStats {
	var stats TickStats
	now := d.now()

	due, err := d.store.DueReminders(now)
	if err != nil {
		d.logger.Printf("tick: checking reminders: %v", err)
		return stats
	}
	stats.Checked = len(due)

	for _, item := range due {
		// Finish the current dispatch on shutdown, never start another
		if ctx.Err() != nil {
			d.logger.Printf("tick: shutdown requested, deferring remaining reminders")
			break
		}
		d.dispatch(ctx, item, now, &stats)
	}

	d.logger.Printf("tick: checked=%d dispatched=%d failed=%d", stats.Checked, stats.Dispatched, stats.Failed)
	return stats
}

func (d *Daemon) dispatch(ctx context.Context, item db.DueReminder, now time.Time, stats *TickStats) {
	results := d.dispatcher.Dispatch(ctx, item.Task, item.Reminder)

	for _, r := range results {
		status, detail := "sent", ""
		if r.Err != nil {
			status, detail = "error", r.Err.Error()
		}
		if err := d.store.RecordDelivery(item.Reminder.ID, r.Channel, status, detail); err != nil {
			d.logger.Printf("tick: recording delivery for reminder %s: %v", item.Reminder.ID, err)
		}
	}

	if !notify.Delivered(results) {
		// Leave notified_at null; the reminder comes back next tick
		stats.Failed++
		d.logger.Printf("tick: reminder %s for task %q undelivered: %v",
			item.Reminder.ID, item.Task.Name, notify.Combined(results))
		return
	}

	ok, err := d.store.MarkNotified(item.Reminder.ID, now)
	if err != nil {
		stats.Failed++
		d.logger.Printf("tick: marking reminder %s notified: %v", item.Reminder.ID, err)
		return
	}
	if !ok {
		// Already claimed by a concurrent run; skip silently
		return
	}
	stats.Dispatched++
}

// acquireLock takes the exclusive daemon lock so two daemons never race
// the same store
func (d *Daemon) acquireLock() (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(d.lockPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	lock := flock.New(d.lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another tasknag daemon is already running")
	}
	return lock, nil
}

// OpenLog opens the append-only activity log and returns a logger that
// writes to both the file and stderr
func OpenLog(path string) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open activity log: %w", err)
	}

	return log.New(io.MultiWriter(f, os.Stderr), "", log.LstdFlags), f, nil
}
