// Package remotetest provides a recording Executor for tests.
package remotetest

import (
	"context"
	"sync"
)

// Call is one recorded executor invocation.
type Call struct {
	Op  string // "run" or "put"
	Arg string // the command, or "local -> remote" for puts
}

// Recorder records every call. Handler answers Run; a nil Handler returns
// empty output. PutErr is returned from every Put.
type Recorder struct {
	Name    string
	Handler func(command string) (string, error)
	PutErr  error

	mu     sync.Mutex
	calls  []Call
	closed bool
}

func New(name string) *Recorder { return &Recorder{Name: name} }

func (r *Recorder) Host() string { return r.Name }

func (r *Recorder) Run(_ context.Context, command string) (string, error) {
	r.record(Call{Op: "run", Arg: command})
	if r.Handler == nil {
		return "", nil
	}
	return r.Handler(command)
}

func (r *Recorder) Put(_ context.Context, localPath, remotePath string) error {
	r.record(Call{Op: "put", Arg: localPath + " -> " + remotePath})
	return r.PutErr
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	return nil
}

func (r *Recorder) record(c Call) {
	r.mu.Lock()
	r.calls = append(r.calls, c)
	r.mu.Unlock()
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Commands returns only the Run commands, in order.
func (r *Recorder) Commands() []string {
	var out []string
	for _, c := range r.Calls() {
		if c.Op == "run" {
			out = append(out, c.Arg)
		}
	}
	return out
}

// Closed reports whether Close was called.
func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
