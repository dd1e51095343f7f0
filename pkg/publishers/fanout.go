package publishers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

const defaultDispatchTimeout = 10 * time.Second

// Fanout dispatches events to all configured publishers.
type Fanout struct {
	publishers []Publisher
	log        Logger
	timeout    time.Duration
	wg         sync.WaitGroup
}

// NewFanout builds a dispatcher that fans out events across publishers.
func NewFanout(pubs []Publisher, log Logger) *Fanout {
	cp := make([]Publisher, 0, len(pubs))
	for _, p := range pubs {
		if p == nil {
			continue
		}
		cp = append(cp, p)
	}
	return &Fanout{publishers: cp, log: ensureLogger(log), timeout: defaultDispatchTimeout}
}

// Publish forwards the event to every registered publisher.
// It returns the number of publishers that successfully handled the event.
func (f *Fanout) Publish(ctx context.Context, evt Event) (int, error) {
	if f == nil || len(f.publishers) == 0 {
		return 0, nil
	}

	var errs []error
	successful := 0
	for _, p := range f.publishers {
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, fmt.Errorf("%s publisher[%s]: %w", p.Type(), p.ID(), err))
		} else {
			successful++
		}
	}
	return successful, errors.Join(errs...)
}

// Dispatch publishes in the background, detached from ctx cancellation but bounded
// by the dispatch timeout. Failures are logged only.
func (f *Fanout) Dispatch(ctx context.Context, evt Event) {
	if f == nil || len(f.publishers) == 0 {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)
		defer cancel()

		if _, err := f.Publish(dctx, evt); err != nil {
			f.log.WarnObj("event dispatch failed", "dispatch_error", map[string]any{
				"provider_id": evt.ProviderID,
				"error":       err.Error(),
			})
		}
	}()
}

// Wait blocks until in-flight dispatches finish.
func (f *Fanout) Wait() {
	if f == nil {
		return
	}
	f.wg.Wait()
}

// Size returns the number of active publishers.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.publishers)
}
