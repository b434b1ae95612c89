// Package hosting runs background services inside scenarios.
package hosting

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	scenario "github.com/pumped-fn/pumped-scenario"
)

// ErrTimeout is returned when a service does not reach the awaited state in time.
var ErrTimeout = errors.New("background service did not reach the expected state in time")

// Service is a long-running component that works until ctx is cancelled.
type Service interface {
	Run(ctx context.Context) error
}

// ServiceFunc adapts a function to Service.
type ServiceFunc func(ctx context.Context) error

func (f ServiceFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Host runs one service. It is disposable: the run that arranged it stops it.
type Host[S Service] struct {
	svc S

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
	err     error
}

func NewHost[S Service](svc S) *Host[S] {
	return &Host[S]{
		svc:  svc,
		done: make(chan struct{}),
	}
}

func (h *Host[S]) Service() S {
	return h.svc
}

// Start runs the service in the background. Later calls do nothing.
func (h *Host[S]) Start(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.started {
		return
	}
	h.started = true

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	h.cancel = cancel
	go func() {
		defer close(h.done)
		err := h.svc.Run(runCtx)
		if err != nil && !errors.Is(err, context.Canceled) {
			h.err = errors.Wrapf(err, "service %T", h.svc)
		}
	}()
}

// Done is closed when the service has returned.
func (h *Host[S]) Done() <-chan struct{} {
	return h.done
}

// Err returns the failure of a service that has returned.
func (h *Host[S]) Err() error {
	select {
	case <-h.done:
		return h.err
	default:
		return nil
	}
}

// Shutdown stops the service and waits for it to return or for ctx.
func (h *Host[S]) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	started := h.started
	cancel := h.cancel
	h.mu.Unlock()
	if !started {
		return nil
	}

	cancel()
	select {
	case <-h.done:
		return h.err
	case <-ctx.Done():
		return errors.Wrapf(ctx.Err(), "stopping service %T", h.svc)
	}
}

// GivenService arranges a host for the service built by factory. The service
// starts in the act step.
func GivenService[S Service](factory func() S) scenario.Arranged[*Host[S]] {
	return scenario.Produce(func(context.Context) (*Host[S], error) {
		return NewHost(factory()), nil
	})
}

const pollInterval = 10 * time.Millisecond

// WhenRunUntil starts the service and waits until cond holds for it.
func WhenRunUntil[S Service](a scenario.Arranged[*Host[S]], cond func(S) bool, timeout time.Duration) scenario.Acted[*Host[S], S] {
	return scenario.Transform(a, func(ctx context.Context, h *Host[S]) (S, error) {
		h.Start(ctx)

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()

		for {
			if cond(h.svc) {
				return h.svc, nil
			}
			select {
			case <-h.done:
				if cond(h.svc) {
					return h.svc, nil
				}
				if h.err != nil {
					return h.svc, h.err
				}
				return h.svc, errors.Errorf("service %T returned before the condition held", h.svc)
			case <-ctx.Done():
				return h.svc, errors.Wrapf(ErrTimeout, "after %s", timeout)
			case <-ticker.C:
			}
		}
	})
}

// WhenRunFor starts the service, lets it work for d and stops it.
func WhenRunFor[S Service](a scenario.Arranged[*Host[S]], d time.Duration) scenario.Acted[*Host[S], S] {
	return scenario.Transform(a, func(ctx context.Context, h *Host[S]) (S, error) {
		h.Start(ctx)

		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-h.done:
			return h.svc, h.err
		case <-ctx.Done():
			return h.svc, ctx.Err()
		}
		return h.svc, h.Shutdown(ctx)
	})
}
