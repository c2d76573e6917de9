package verstub

import (
	"fmt"
	"reflect"
)

// Handle is anything that resolves to a Fake: a *Fake itself or a typed
// fake embedding Double.
type Handle interface {
	Fake() *Fake
}

// Fake is a handle to a fake object owned by a Registry. Its stub rules and
// recorded calls live in the registry; the handle only carries identity and
// the fallback behaviour for calls no rule answers.
type Fake struct {
	reg   *Registry
	label string
	null  bool
	real  reflect.Value
	self  any
}

// FakeOption configures a fake at construction.
type FakeOption func(*Fake)

// NullObject makes a fake return itself from any call no stub rule answers.
func NullObject() FakeOption {
	return func(f *Fake) {
		f.null = true
	}
}

// Wrapping makes a fake forward calls no stub rule answers to real.
func Wrapping(real any) FakeOption {
	return func(f *Fake) {
		if real != nil {
			f.real = reflect.ValueOf(real)
		}
	}
}

// Fake returns f, so a *Fake is its own Handle.
func (f *Fake) Fake() *Fake { return f }

// Label returns the diagnostic label given at construction.
func (f *Fake) Label() string { return f.label }

// Self returns the value a null-object fake answers with: the typed fake
// for fakes made by New, otherwise f.
func (f *Fake) Self() any { return f.self }

// IsNullObject reports whether f was created as a null-object fake.
func (f *Fake) IsNullObject() bool { return f.null }

func (f *Fake) String() string {
	if f == nil {
		return "<nil fake>"
	}
	if f.label == "" {
		return fmt.Sprintf("fake@%p", f)
	}
	return f.label
}

// Stub starts configuring a stub rule for method.
func (f *Fake) Stub(method string) *StubBuilder {
	return &StubBuilder{fake: f, method: method}
}

// Invoke calls method on f with args, see Registry.Invoke.
func (f *Fake) Invoke(method string, args ...any) any {
	f.reg.t.Helper()
	return f.reg.invoke(f, method, args)
}

// Received starts a verification query over the calls to method on f.
func (f *Fake) Received(method string) Query {
	return Query{fake: f, method: method}
}

// Calls returns a copy of every call recorded against f, in order.
func (f *Fake) Calls() []CallRecord {
	return f.reg.callsTo(f, "")
}

// Double is embedded by typed fakes. New binds it to a Fake, after which
// the typed fake can be stubbed and verified like the Fake itself.
type Double struct {
	fake *Fake
}

// Fake returns the bound fake, or nil before New has bound it.
func (d *Double) Fake() *Fake { return d.fake }

func (d *Double) bind(f *Fake) { d.fake = f }

// Stub starts configuring a stub rule for method.
func (d *Double) Stub(method string) *StubBuilder { return bound(d).Stub(method) }

// Received starts a verification query over the calls to method.
func (d *Double) Received(method string) Query { return bound(d).Received(method) }

// Calls returns a copy of every call recorded against the fake.
func (d *Double) Calls() []CallRecord { return bound(d).Calls() }

// bound returns the fake behind h. Panics if h is a Double New never bound.
func bound(h Handle) *Fake {
	f := h.Fake()
	if f == nil {
		panic("verstub.Double: not bound, create the fake with verstub.New")
	}
	return f
}

type binder interface {
	Handle
	bind(*Fake)
}

// New creates a typed fake of type T owned by reg. T must embed Double.
// Null-object fakes made by New answer unstubbed calls with the *T itself.
// Panics if T does not embed Double.
func New[T any](reg *Registry, label string, opts ...FakeOption) *T {
	key := new(T)
	b, ok := any(key).(binder)
	if !ok {
		panic(fmt.Sprintf("verstub.New: %T does not embed verstub.Double", key))
	}
	f := reg.NewFake(label, opts...)
	f.self = key
	b.bind(f)
	return key
}

// forward calls the method of the wrapped value named method. Missing
// methods and arity mismatches are reported and answered with nil.
func (r *Registry) forward(f *Fake, method string, args []any) any {
	r.t.Helper()
	fn := f.real.MethodByName(method)
	if !fn.IsValid() {
		return nil
	}
	fnType := fn.Type()
	// variadic arguments arrive packed in a single slice
	if len(args) != fnType.NumIn() {
		r.t.Errorf("cannot forward %s.%s: expected %d arguments, got %d", f, method, fnType.NumIn(), len(args))
		return nil
	}
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		if arg == nil {
			in[i] = reflect.Zero(fnType.In(i))
			continue
		}
		in[i] = reflect.ValueOf(arg)
		if !in[i].Type().AssignableTo(fnType.In(i)) {
			r.t.Errorf("cannot forward %s.%s: argument %d: cannot use %T as %v", f, method, i, arg, fnType.In(i))
			return nil
		}
	}
	var out []reflect.Value
	if fnType.IsVariadic() {
		out = fn.CallSlice(in)
	} else {
		out = fn.Call(in)
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0].Interface()
	}
	results := make(Results, len(out))
	for i, v := range out {
		results[i] = v.Interface()
	}
	return results
}
