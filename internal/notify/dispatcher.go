package notify

import (
	"context"
	"time"

	"github.com/dori/tasknag/internal/apperr"
	"github.com/dori/tasknag/internal/model"
	"go.uber.org/multierr"
)

// DefaultChannelTimeout bounds a single channel invocation so an
// unresponsive transport fails its delivery instead of stalling the
// scheduler loop.
const DefaultChannelTimeout = 30 * time.Second

// Result is the outcome of one channel's delivery attempt
type Result struct {
	Channel string
	Err     error
}

// OK returns true if the channel delivered
func (r Result) OK() bool { return r.Err == nil }

// Dispatcher fans a reminder out to every registered channel. It is the
// static registry replacing the original plugin scan: channels are passed
// in once at startup and filtered by availability.
type Dispatcher struct {
	channels []Channel
	timeout  time.Duration
}

// NewDispatcher builds a dispatcher from the available channels. Channels
// reporting unavailable are dropped up front.
func NewDispatcher(timeout time.Duration, channels ...Channel) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultChannelTimeout
	}

	d := &Dispatcher{timeout: timeout}
	for _, ch := range channels {
		if ch.Available() {
			d.channels = append(d.channels, ch)
		}
	}
	return d
}

// ChannelNames returns the names of the registered channels
func (d *Dispatcher) ChannelNames() []string {
	names := make([]string, 0, len(d.channels))
	for _, ch := range d.channels {
		names = append(names, ch.Name())
	}
	return names
}

// Dispatch attempts delivery on every registered channel and returns one
// result per channel. A failing channel never prevents the remaining
// channels from being attempted.
func (d *Dispatcher) Dispatch(ctx context.Context, task model.Task, reminder model.Reminder) []Result {
	results := make([]Result, 0, len(d.channels))
	for _, ch := range d.channels {
		chCtx, cancel := context.WithTimeout(ctx, d.timeout)
		err := ch.Deliver(chCtx, task, reminder)
		cancel()

		if err != nil {
			err = apperr.Delivery(ch.Name(), err)
		}
		results = append(results, Result{Channel: ch.Name(), Err: err})
	}
	return results
}

// Delivered returns true if at least one channel succeeded. An empty
// result set counts as undelivered so the reminder is retried once a
// channel becomes available.
func Delivered(results []Result) bool {
	for _, r := range results {
		if r.OK() {
			return true
		}
	}
	return false
}

// Combined collapses all channel failures into one error for logging,
// nil when nothing failed
func Combined(results []Result) error {
	var err error
	for _, r := range results {
		err = multierr.Append(err, r.Err)
	}
	return err
}
