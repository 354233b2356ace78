package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/rulemakers-physics/rmleveltest/internal/results"
	"github.com/rulemakers-physics/rmleveltest/internal/variant"
)

// Dispatcher sends the staff summary for stored results and records the
// delivery state on the result. A failed send never affects the stored
// result or the caller's response.
type Dispatcher struct {
	Store    results.Store
	Sender   Sender // nil disables notifications
	Registry *variant.Registry
	Timeout  time.Duration
}

func NewDispatcher(store results.Store, sender Sender, reg *variant.Registry, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{Store: store, Sender: sender, Registry: reg, Timeout: timeout}
}

// Enabled reports whether a sender is configured.
func (d *Dispatcher) Enabled() bool { return d != nil && d.Sender != nil }

// Notify sends the summary for rec synchronously.
func (d *Dispatcher) Notify(ctx context.Context, rec results.Record) error {
	if !d.Enabled() {
		log.Printf("notify: no webhook configured, skipping result %s", rec.ID)
		return nil
	}
	if err := d.Store.MarkNotifyPending(ctx, rec.ID); err != nil {
		return fmt.Errorf("notify result %s: %w", rec.ID, err)
	}

	v, err := d.Registry.Lookup(rec.Breakdown.VariantID)
	if err != nil {
		_ = d.Store.MarkNotifyFailed(ctx, rec.ID, err.Error())
		return err
	}
	if err := d.Sender.Send(ctx, Compose(rec, v)); err != nil {
		_ = d.Store.MarkNotifyFailed(ctx, rec.ID, err.Error())
		return fmt.Errorf("notify result %s: %w", rec.ID, err)
	}
	return d.Store.MarkNotifyOK(ctx, rec.ID)
}

// Go runs Notify in the background with its own deadline, detached from
// any request context. done, if non-nil, is closed when the attempt ends.
func (d *Dispatcher) Go(rec results.Record, done chan<- struct{}) {
	if d == nil {
		if done != nil {
			close(done)
		}
		return
	}
	go func() {
		if done != nil {
			defer close(done)
		}
		ctx, cancel := context.WithTimeout(context.Background(), d.Timeout)
		defer cancel()
		if err := d.Notify(ctx, rec); err != nil {
			log.Printf("notify: %v", err)
		}
	}()
}
