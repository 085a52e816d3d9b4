package daemon

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/tasknag/internal/db"
	"github.com/dori/tasknag/internal/model"
	"github.com/dori/tasknag/internal/notify"
)

type stubChannel struct {
	name       string
	err        error
	deliveries int
}

func (c *stubChannel) Name() string    { return c.name }
func (c *stubChannel) Available() bool { return true }

func (c *stubChannel) Deliver(ctx context.Context, task model.Task, reminder model.Reminder) error {
	c.deliveries++
	return c.err
}

func openTestStore(t *testing.T) *db.DB {
	t.Helper()

	store, err := db.Open(t.TempDir() + "/test.db")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestDaemon(t *testing.T, store Store, now time.Time, channels ...notify.Channel) *Daemon {
	t.Helper()

	return New(store, notify.NewDispatcher(time.Second, channels...), Config{
		Interval: time.Minute,
		LockPath: t.TempDir() + "/test.lock",
		Now:      func() time.Time { return now },
	})
}

// End-to-end tick scenario: one due reminder is dispatched exactly once,
// a second tick finds nothing left to do.
func TestTickDispatchesDueReminderOnce(t *testing.T) {
	store := openTestStore(t)
	now := time.Now().UTC()

	category, err := store.CreateCategory("Chores", "", "")
	require.NoError(t, err)

	tomorrow := now.AddDate(0, 0, 1)
	task, err := store.CreateTask("Write report", category.ID, model.StatusNew, 0, &tomorrow)
	require.NoError(t, err)

	reminder, err := store.CreateReminder(task.ID, now.Add(-time.Minute))
	require.NoError(t, err)

	ch := &stubChannel{name: "stub"}
	d := newTestDaemon(t, store, now, ch)

	stats := d.Tick(context.Background())
	assert.Equal(t, TickStats{Checked: 1, Dispatched: 1}, stats)
	assert.Equal(t, 1, ch.deliveries)

	got, err := store.GetReminder(reminder.ID)
	require.NoError(t, err)
	assert.True(t, got.Notified())

	// Immediately running another tick dispatches nothing more
	stats = d.Tick(context.Background())
	assert.Equal(t, TickStats{}, stats)
	assert.Equal(t, 1, ch.deliveries)
}

func TestFailedDeliveryRetriedNextTick(t *testing.T) {
	store := openTestStore(t)
	now := time.Now().UTC()

	task, err := store.CreateTask("Flaky delivery", "work", model.StatusNew, 0, nil)
	require.NoError(t, err)
	reminder, err := store.CreateReminder(task.ID, now.Add(-time.Minute))
	require.NoError(t, err)

	ch := &stubChannel{name: "stub", err: errors.New("transport down")}
	d := newTestDaemon(t, store, now, ch)

	stats := d.Tick(context.Background())
	assert.Equal(t, TickStats{Checked: 1, Failed: 1}, stats)

	got, err := store.GetReminder(reminder.ID)
	require.NoError(t, err)
	assert.False(t, got.Notified(), "failed delivery must leave notified_at null")

	// Channel recovers; the reminder reappears and goes through
	ch.err = nil
	stats = d.Tick(context.Background())
	assert.Equal(t, TickStats{Checked: 1, Dispatched: 1}, stats)

	got, err = store.GetReminder(reminder.ID)
	require.NoError(t, err)
	assert.True(t, got.Notified())
}

func TestOneSucceedingChannelMarksNotified(t *testing.T) {
	store := openTestStore(t)
	now := time.Now().UTC()

	task, err := store.CreateTask("Two channels", "work", model.StatusNew, 0, nil)
	require.NoError(t, err)
	reminder, err := store.CreateReminder(task.ID, now.Add(-time.Minute))
	require.NoError(t, err)

	failing := &stubChannel{name: "failing", err: errors.New("boom")}
	working := &stubChannel{name: "working"}
	d := newTestDaemon(t, store, now, failing, working)

	stats := d.Tick(context.Background())
	assert.Equal(t, TickStats{Checked: 1, Dispatched: 1}, stats)
	assert.Equal(t, 1, failing.deliveries)
	assert.Equal(t, 1, working.deliveries, "the failing channel must not block the working one")

	got, err := store.GetReminder(reminder.ID)
	require.NoError(t, err)
	assert.True(t, got.Notified(), "one success is enough to mark the reminder")

	// Both attempts end up in the delivery log
	var sent, failed int
	require.NoError(t, store.QueryRow(
		`SELECT COUNT(*) FROM delivery_log WHERE reminder_id = ? AND status = 'sent'`, reminder.ID).Scan(&sent))
	require.NoError(t, store.QueryRow(
		`SELECT COUNT(*) FROM delivery_log WHERE reminder_id = ? AND status = 'error'`, reminder.ID).Scan(&failed))
	assert.Equal(t, 1, sent)
	assert.Equal(t, 1, failed)
}

func TestTickProcessesRemainingRemindersAfterFailure(t *testing.T) {
	store := openTestStore(t)
	now := time.Now().UTC()

	first, err := store.CreateTask("First", "work", model.StatusNew, 0, nil)
	require.NoError(t, err)
	second, err := store.CreateTask("Second", "work", model.StatusNew, 0, nil)
	require.NoError(t, err)

	_, err = store.CreateReminder(first.ID, now.Add(-2*time.Minute))
	require.NoError(t, err)
	r2, err := store.CreateReminder(second.ID, now.Add(-time.Minute))
	require.NoError(t, err)

	ch := &stubChannel{name: "stub", err: errors.New("boom")}
	d := newTestDaemon(t, store, now, ch)

	stats := d.Tick(context.Background())
	assert.Equal(t, 2, stats.Checked)
	assert.Equal(t, 2, ch.deliveries, "a failing reminder must not block later reminders in the tick")

	got, err := store.GetReminder(r2.ID)
	require.NoError(t, err)
	assert.False(t, got.Notified())
}

type failingStore struct{}

func (failingStore) DueReminders(time.Time) ([]db.DueReminder, error) {
	return nil, errors.New("disk unavailable")
}
func (failingStore) MarkNotified(string, time.Time) (bool, error) { return false, nil }
func (failingStore) RecordDelivery(string, string, string, string) error {
	return nil
}

func TestTickSurvivesStoreFailure(t *testing.T) {
	d := newTestDaemon(t, failingStore{}, time.Now())

	// Must log and move on, never panic or abort the loop
	stats := d.Tick(context.Background())
	assert.Equal(t, TickStats{}, stats)
}

func TestTickStopsStartingDispatchesOnShutdown(t *testing.T) {
	store := openTestStore(t)
	now := time.Now().UTC()

	task, err := store.CreateTask("Deferred", "work", model.StatusNew, 0, nil)
	require.NoError(t, err)
	_, err = store.CreateReminder(task.ID, now.Add(-time.Minute))
	require.NoError(t, err)

	ch := &stubChannel{name: "stub"}
	d := newTestDaemon(t, store, now, ch)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats := d.Tick(ctx)
	assert.Equal(t, 1, stats.Checked)
	assert.Zero(t, stats.Dispatched)
	assert.Zero(t, ch.deliveries, "no new dispatch may start after shutdown is requested")
}
