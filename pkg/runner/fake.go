package runner

import (
	"strings"
	"sync"
)

// Fake provides an in-memory Runner that records every invocation and
// replays scripted results. It enables development and testing on hosts
// where mutating real network state is not an option.
type Fake struct {
	mu       sync.Mutex
	calls    [][]string
	queued   map[string][]error
	sticky   map[string]error
	outputs  map[string]string
	outQueue map[string][]string
}

// NewFake creates an empty Fake. Unscripted commands succeed with no output.
func NewFake() *Fake {
	return &Fake{
		queued:   make(map[string][]error),
		sticky:   make(map[string]error),
		outputs:  make(map[string]string),
		outQueue: make(map[string][]string),
	}
}

func commandKey(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}

// QueueFailure makes the next invocation of the given command fail with err.
// Queued failures are consumed in order; once drained the command succeeds.
func (f *Fake) QueueFailure(err error, name string, args ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := commandKey(name, args)
	f.queued[key] = append(f.queued[key], err)
}

// AlwaysFail makes every invocation of the given command fail with err.
func (f *Fake) AlwaysFail(err error, name string, args ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sticky[commandKey(name, args)] = err
}

// SetOutput scripts the stdout returned for the given command.
func (f *Fake) SetOutput(out string, name string, args ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outputs[commandKey(name, args)] = out
}

// QueueOutput scripts stdout for successive invocations of the given
// command; once drained, the sticky output (if any) applies.
func (f *Fake) QueueOutput(out string, name string, args ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := commandKey(name, args)
	f.outQueue[key] = append(f.outQueue[key], out)
}

func (f *Fake) resultLocked(key string) error {
	if queue, ok := f.queued[key]; ok && len(queue) > 0 {
		err := queue[0]
		f.queued[key] = queue[1:]
		return err
	}
	if err, ok := f.sticky[key]; ok {
		return err
	}
	return nil
}

// Run records the invocation and returns the scripted result.
func (f *Fake) Run(name string, args ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.resultLocked(commandKey(name, args))
}

// Output records the invocation and returns the scripted stdout and result.
func (f *Fake) Output(name string, args ...string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string{name}, args...))

	key := commandKey(name, args)
	err := f.resultLocked(key)

	if queue, ok := f.outQueue[key]; ok && len(queue) > 0 {
		out := queue[0]
		f.outQueue[key] = queue[1:]
		return out, err
	}
	return f.outputs[key], err
}

// Calls returns every recorded invocation, one argv per entry.
func (f *Fake) Calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([][]string, len(f.calls))
	for i, call := range f.calls {
		result[i] = append([]string(nil), call...)
	}
	return result
}

// CallLines returns recorded invocations as joined command lines,
// which keeps ordering assertions in tests readable.
func (f *Fake) CallLines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]string, len(f.calls))
	for i, call := range f.calls {
		result[i] = strings.Join(call, " ")
	}
	return result
}

// Reset clears recorded calls but keeps scripted results.
func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}
