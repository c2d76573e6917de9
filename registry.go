// Package verstub provides a stub and verify engine for Go test doubles.
//
// A Registry is created per test and owns every fake made from it: the
// stub rules configured on each fake and the log of calls made against it.
// Fakes are lightweight handles; method calls are dispatched by name, so
// any interface can be faked by a struct that embeds Double and forwards
// each method to Call0..Call4 (see cmd/fakegen, which writes those methods).
//
//	reg := verstub.NewRegistry(t)
//	station := verstub.New[weather.FakeStation](reg, "station")
//	station.Stub("Forecast").Returns("cloudy")
//	station.Stub("Forecast").With("today").Returns("sunny")
//
//	// exercise code that uses station ...
//
//	station.Received("Forecast").With("today").Once().Verify(t)
package verstub

import (
	"fmt"
	"slices"
	"sync"
	"testing"
)

// Registry owns the stub rules and call records of the fakes created from
// it. It must not be shared between tests; NewRegistry ties its lifetime to
// a single testing.TB.
type Registry struct {
	t       testing.TB
	mu      sync.Mutex
	entries map[*Fake]*entry
	log     []CallRecord
	seq     int
	order   int
	logf    func(format string, args ...any)
}

// entry holds the per-fake tables: one delegate per stubbed method name.
type entry struct {
	delegates map[string]*delegate
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger routes call traces to logf instead of t.Logf.
func WithLogger(logf func(format string, args ...any)) RegistryOption {
	return func(r *Registry) {
		r.logf = logf
	}
}

// NewRegistry creates an empty Registry bound to t. The registry is torn
// down when t completes.
func NewRegistry(t testing.TB, opts ...RegistryOption) *Registry {
	r := &Registry{
		t:       t,
		entries: make(map[*Fake]*entry),
		logf:    t.Logf,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(r)
	}
	t.Cleanup(r.teardown)
	return r
}

func (r *Registry) teardown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[*Fake]*entry)
	r.log = nil
}

// NewFake creates a fake with no stubbed methods and an empty call log.
// The label only appears in diagnostics.
func (r *Registry) NewFake(label string, opts ...FakeOption) *Fake {
	f := &Fake{reg: r, label: label}
	f.self = f
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(f)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[f] = &entry{delegates: make(map[string]*delegate)}
	return f
}

// NewNullFake creates a null-object fake: any call that no stub rule
// answers returns the fake itself.
func (r *Registry) NewNullFake(label string) *Fake {
	return r.NewFake(label, NullObject())
}

// Wrap creates a fake around a real value. Calls answered by a stub rule
// never reach real; all other calls are forwarded to the method of real
// with the same name.
func (r *Registry) Wrap(label string, real any) *Fake {
	return r.NewFake(label, Wrapping(real))
}

// Stub registers a stub rule for method on the fake behind h. A nil matcher
// matches any argument list. Registering another rule for the same method
// adds to the existing rules; it never replaces them.
func (r *Registry) Stub(h Handle, method string, matcher ArgsMatcher, response Response) error {
	f := h.Fake()
	if method == "" {
		return fmt.Errorf("%w: empty method name for %s", ErrInvalidStubConfiguration, f)
	}
	if response == nil {
		return fmt.Errorf("%w: no response for %s.%s", ErrInvalidStubConfiguration, f, method)
	}
	if err := response.validate(); err != nil {
		return fmt.Errorf("%w: %s.%s: %v", ErrInvalidStubConfiguration, f, method, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[f]
	if !ok {
		return fmt.Errorf("%w: %s", ErrForeignFake, f)
	}
	r.order++
	delegateByName(e, method).append(&rule{
		matcher:  matcher,
		response: response,
		order:    r.order,
	})
	return nil
}

// Invoke records a call to method on the fake behind h and returns the
// response of the best matching stub rule. When no rule matches, a
// null-object fake returns itself, a wrapping fake forwards the call and an
// ordinary fake returns nil.
func (r *Registry) Invoke(h Handle, method string, args ...any) any {
	r.t.Helper()
	return r.invoke(h.Fake(), method, args)
}

func (r *Registry) invoke(f *Fake, method string, args []any) any {
	r.t.Helper()
	args = slices.Clone(args)

	r.mu.Lock()
	e, ok := r.entries[f]
	if !ok {
		r.mu.Unlock()
		r.t.Errorf("unexpected call to %s.%s: %v", f, method, ErrForeignFake)
		return nil
	}
	r.seq++
	seq := r.seq
	r.log = append(r.log, CallRecord{
		fake:   f,
		Fake:   f.label,
		Method: method,
		Args:   args,
		Seq:    seq,
	})
	var (
		matched *rule
		hit     int
	)
	if d, ok := e.delegates[method]; ok {
		if matched = d.best(args); matched != nil {
			hit = matched.hits
			matched.hits++
		}
	}
	r.mu.Unlock()

	var out any
	switch {
	case matched != nil:
		out = matched.response.respond(hit, args)
	case f.null:
		out = f.self
	case f.real.IsValid():
		out = r.forward(f, method, args)
	}
	r.logf("call to %s.%s(%s) #%d => %v", f, method, formatArgs(args), seq, describe(out, f))
	return out
}

// HasReceived reports whether the call log holds calls to method on the
// fake behind h whose arguments satisfy matcher, in a number satisfying
// count. A nil matcher matches any arguments; a nil count means at least
// once.
func (r *Registry) HasReceived(h Handle, method string, matcher ArgsMatcher, count Expectation) bool {
	return Query{fake: h.Fake(), method: method, matcher: matcher, expect: count}.Check()
}

// Calls returns a copy of every call recorded by the registry, in order.
func (r *Registry) Calls() []CallRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneRecords(r.log)
}

func (r *Registry) callsTo(f *Fake, method string) []CallRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []CallRecord
	for _, rec := range r.log {
		if rec.fake == f && (method == "" || rec.Method == method) {
			out = append(out, rec.clone())
		}
	}
	return out
}
