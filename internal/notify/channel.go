// Package notify delivers reminder notifications through pluggable
// channels. Channels are assembled into a Dispatcher once at daemon
// startup; there is no runtime discovery.
package notify

import (
	"context"
	"fmt"

	"github.com/dori/tasknag/internal/model"
)

// Channel is a single notification delivery mechanism
type Channel interface {
	// Name identifies the channel in logs and the delivery log
	Name() string
	// Available reports whether the channel can be used on this system
	Available() bool
	// Deliver sends a notification for a due reminder. It must respect
	// ctx cancellation; a hung transport fails the call, never the loop.
	Deliver(ctx context.Context, task model.Task, reminder model.Reminder) error
}

// Message is the rendered notification content shared by all channels
type Message struct {
	Title string
	Body  string
}

// RenderMessage builds the notification text for a due reminder
func RenderMessage(task model.Task, reminder model.Reminder) Message {
	body := fmt.Sprintf("Task: %s", task.Name)
	if task.DueDate != nil {
		body += fmt.Sprintf("\nDue: %s", task.DueDate.Format("2006-01-02"))
	}
	if task.Progress > 0 {
		body += fmt.Sprintf("\nProgress: %d%%", task.Progress)
	}

	return Message{
		Title: fmt.Sprintf("Reminder: %s", task.Name),
		Body:  body,
	}
}
