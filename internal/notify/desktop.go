package notify

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/dori/tasknag/internal/model"
)

const notifySendTimeout = 15 * time.Second // on-screen display time

// DesktopChannel sends desktop notifications using notify-send
type DesktopChannel struct {
	appName string
}

// NewDesktopChannel creates a desktop notification channel
func NewDesktopChannel() *DesktopChannel {
	return &DesktopChannel{appName: "tasknag"}
}

// Name identifies the channel
func (c *DesktopChannel) Name() string { return "desktop" }

// Available reports whether notify-send exists on this system
func (c *DesktopChannel) Available() bool {
	_, err := exec.LookPath("notify-send")
	return err == nil
}

// Deliver sends the reminder as a desktop notification. Overdue tasks
// are raised at critical urgency.
func (c *DesktopChannel) Deliver(ctx context.Context, task model.Task, reminder model.Reminder) error {
	msg := RenderMessage(task, reminder)

	urgency := "normal"
	if task.IsOverdue(time.Now()) {
		urgency = "critical"
	}

	args := []string{
		"-a", c.appName,
		"-u", urgency,
		"-t", strconv.Itoa(int(notifySendTimeout.Milliseconds())),
		"-i", "appointment-soon-symbolic",
		msg.Title,
		msg.Body,
	}

	cmd := exec.CommandContext(ctx, "notify-send", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("notify-send: %w: %s", err, out)
	}
	return nil
}
