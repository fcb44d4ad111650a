package dispatch

import (
	"runtime/debug"
	"time"
)

// Executor runs listeners with panic recovery and timing.
type Executor struct {
	panicHandler PanicHandler
	now          func() time.Time
}

// NewExecutor creates a new executor with the given options.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{
		panicHandler: defaultPanicHandler,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithExecutorPanicHandler sets the panic handler for the executor.
func WithExecutorPanicHandler(h PanicHandler) ExecutorOption {
	return func(e *Executor) {
		if h != nil {
			e.panicHandler = h
		}
	}
}

// WithExecutorClock sets the time source used to measure listener duration.
func WithExecutorClock(now func() time.Time) ExecutorOption {
	return func(e *Executor) {
		if now != nil {
			e.now = now
		}
	}
}

// Execute runs a listener with the given event and returns the result.
// It recovers from panics and captures timing information.
func (e *Executor) Execute(event Event, l Listener) (result Result) {
	start := e.now()

	defer func() {
		result.Duration = e.now().Sub(start)

		if r := recover(); r != nil {
			stack := debug.Stack()

			result.Success = false
			result.Panicked = true
			result.PanicValue = r
			result.PanicStack = stack

			// A panicking panic handler must not escape either.
			func() {
				defer func() {
					_ = recover()
				}()
				e.panicHandler(event, r, stack)
			}()
		}
	}()

	if err := l(event); err != nil {
		result.Error = err
		return result
	}
	result.Success = true
	return result
}

// ExecuteAll runs listeners in order and returns all results.
// A failing listener never prevents the following ones from running.
func (e *Executor) ExecuteAll(event Event, listeners []Listener) []Result {
	results := make([]Result, len(listeners))
	for i, l := range listeners {
		results[i] = e.Execute(event, l)
	}
	return results
}
