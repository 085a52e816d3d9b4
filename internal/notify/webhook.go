package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dori/tasknag/internal/model"
)

// WebhookChannel POSTs reminder payloads to a configured URL
type WebhookChannel struct {
	url    string
	client *http.Client
}

// NewWebhookChannel creates a webhook channel
func NewWebhookChannel(url string) *WebhookChannel {
	return &WebhookChannel{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Name identifies the channel
func (c *WebhookChannel) Name() string { return "webhook" }

// Available reports whether a URL is configured
func (c *WebhookChannel) Available() bool { return c.url != "" }

type webhookPayload struct {
	ReminderID string     `json:"reminder_id"`
	TaskID     string     `json:"task_id"`
	TaskName   string     `json:"task_name"`
	FireAt     time.Time  `json:"fire_at"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	Progress   int        `json:"progress"`
	Title      string     `json:"title"`
	Body       string     `json:"body"`
}

// Deliver POSTs the reminder as JSON
func (c *WebhookChannel) Deliver(ctx context.Context, task model.Task, reminder model.Reminder) error {
	msg := RenderMessage(task, reminder)
	payload := webhookPayload{
		ReminderID: reminder.ID,
		TaskID:     task.ID,
		TaskName:   task.Name,
		FireAt:     reminder.FireAt,
		DueDate:    task.DueDate,
		Progress:   task.Progress,
		Title:      msg.Title,
		Body:       msg.Body,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("webhook encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook post: unexpected status %s", resp.Status)
	}
	return nil
}
