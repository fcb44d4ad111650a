package dispatch

import (
	"sync/atomic"
	"time"
)

// Dispatcher delivers events to the registry's listeners synchronously in
// the caller's goroutine.
type Dispatcher struct {
	registry     *Registry
	executor     *Executor
	errorHandler ErrorHandler

	// Stats
	dispatched  atomic.Uint64
	delivered   atomic.Uint64
	succeeded   atomic.Uint64
	failed      atomic.Uint64
	panicked    atomic.Uint64
	totalTimeNs atomic.Int64
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithPanicHandler sets the panic handler for the dispatcher.
func WithPanicHandler(h PanicHandler) Option {
	return func(d *Dispatcher) {
		d.executor = NewExecutor(WithExecutorPanicHandler(h))
	}
}

// WithErrorHandler sets the handler for listener errors.
func WithErrorHandler(h ErrorHandler) Option {
	return func(d *Dispatcher) {
		if h != nil {
			d.errorHandler = h
		}
	}
}

// NewDispatcher creates a dispatcher over a registry.
// A nil registry gets a fresh empty one.
func NewDispatcher(registry *Registry, opts ...Option) *Dispatcher {
	if registry == nil {
		registry = NewRegistry()
	}
	d := &Dispatcher{
		registry:     registry,
		executor:     NewExecutor(),
		errorHandler: defaultErrorHandler,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registry returns the dispatcher's listener registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Dispatch runs every listener registered for the event's kind, in
// registration order, and returns their results.
func (d *Dispatcher) Dispatch(event Event) []Result {
	d.dispatched.Add(1)

	listeners := d.registry.Listeners(event.Kind)
	if len(listeners) == 0 {
		return nil
	}

	results := d.executor.ExecuteAll(event, listeners)
	for _, r := range results {
		d.delivered.Add(1)
		d.totalTimeNs.Add(r.Duration.Nanoseconds())

		switch {
		case r.Panicked:
			d.panicked.Add(1)
		case r.Error != nil:
			d.failed.Add(1)
			d.errorHandler(event, r.Error)
		default:
			d.succeeded.Add(1)
		}
	}
	return results
}

// Stats returns dispatch statistics.
func (d *Dispatcher) Stats() Stats {
	delivered := d.delivered.Load()
	totalNs := d.totalTimeNs.Load()

	var avgNs int64
	if delivered > 0 {
		avgNs = totalNs / int64(delivered)
	}

	return Stats{
		Dispatched:    d.dispatched.Load(),
		Delivered:     delivered,
		Succeeded:     d.succeeded.Load(),
		Failed:        d.failed.Load(),
		Panicked:      d.panicked.Load(),
		TotalDuration: time.Duration(totalNs),
		AvgDuration:   time.Duration(avgNs),
	}
}

// ResetStats resets all statistics to zero.
func (d *Dispatcher) ResetStats() {
	d.dispatched.Store(0)
	d.delivered.Store(0)
	d.succeeded.Store(0)
	d.failed.Store(0)
	d.panicked.Store(0)
	d.totalTimeNs.Store(0)
}

// Stats contains statistics for a dispatcher.
type Stats struct {
	// Dispatched is the number of events dispatched.
	Dispatched uint64

	// Delivered is the number of listener executions.
	Delivered uint64

	// Succeeded is the number of listeners that completed cleanly.
	Succeeded uint64

	// Failed is the number of listeners that returned errors.
	Failed uint64

	// Panicked is the number of listeners that panicked.
	Panicked uint64

	// TotalDuration is the cumulative time spent in listeners.
	TotalDuration time.Duration

	// AvgDuration is the average listener execution time.
	AvgDuration time.Duration
}
