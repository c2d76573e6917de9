package verstub

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// recordingT captures failures instead of failing the enclosing test.
type recordingT struct {
	testing.TB
	errors []string
	fatals []string
	logs   []string
}

type fatalPanic struct{}

func (r *recordingT) Helper() {}

func (r *recordingT) Error(args ...any) {
	r.errors = append(r.errors, fmt.Sprint(args...))
}

func (r *recordingT) Errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *recordingT) Fatalf(format string, args ...any) {
	r.fatals = append(r.fatals, fmt.Sprintf(format, args...))
	panic(fatalPanic{})
}

func (r *recordingT) Logf(format string, args ...any) {
	r.logs = append(r.logs, fmt.Sprintf(format, args...))
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry(t)
	fake := reg.NewFake("fake")
	if _, ok := reg.entries[fake]; !ok {
		t.Fatalf("fake not found")
	}
	if fake.reg != reg {
		t.Errorf("fake not bound to its registry")
	}
}

func TestNewRegistry_teardown(t *testing.T) {
	var (
		reg  *Registry
		fake *Fake
	)
	t.Run("scope", func(t *testing.T) {
		reg = NewRegistry(t)
		fake = reg.NewFake("fake")
		fake.Stub("Read").Returns(1)
		fake.Invoke("Read")
	})
	if len(reg.entries) != 0 {
		t.Errorf("expected no entries after teardown, got %d", len(reg.entries))
	}
	if len(reg.log) != 0 {
		t.Errorf("expected empty log after teardown, got %d records", len(reg.log))
	}
	err := reg.Stub(fake, "Read", nil, Return(2))
	if !errors.Is(err, ErrForeignFake) {
		t.Errorf("expected ErrForeignFake, got %v", err)
	}
}

func TestRegistry_Stub(t *testing.T) {
	reg := NewRegistry(t)
	fake := reg.NewFake("fake")
	other := NewRegistry(t).NewFake("other")

	tests := []struct {
		name     string
		fake     *Fake
		method   string
		response Response
		want     error
	}{
		{"valid", fake, "Read", Return(1), nil},
		{"valid sequence", fake, "Read", ReturnInOrder(1, 2), nil},
		{"empty method", fake, "", Return(1), ErrInvalidStubConfiguration},
		{"nil response", fake, "Read", nil, ErrInvalidStubConfiguration},
		{"empty sequence", fake, "Read", ReturnInOrder(), ErrInvalidStubConfiguration},
		{"nil func", fake, "Read", Do(nil), ErrInvalidStubConfiguration},
		{"foreign fake", other, "Read", Return(1), ErrForeignFake},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.Stub(tt.fake, tt.method, nil, tt.response)
			if tt.want == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			} else if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRegistry_Stub_addsRules(t *testing.T) {
	reg := NewRegistry(t)
	fake := reg.NewFake("fake")
	fake.Stub("Forecast").Returns("B")
	fake.Stub("Forecast").With("today").Returns("A")

	d, ok := reg.entries[fake].delegates["Forecast"]
	if !ok {
		t.Fatalf("delegate not found")
	}
	if len(d.rules) != 2 {
		t.Fatalf("expected two rules, got %d", len(d.rules))
	}
	if d.rules[0].order >= d.rules[1].order {
		t.Errorf("rules out of registration order: %d, %d", d.rules[0].order, d.rules[1].order)
	}
}

func TestStubBuilder_fatal(t *testing.T) {
	mockT := &recordingT{TB: t}
	reg := NewRegistry(mockT)
	fake := reg.NewFake("fake")

	func() {
		defer func() {
			if r := recover(); r != (fatalPanic{}) {
				t.Errorf("expected fatal, got %v", r)
			}
		}()
		fake.Stub("Read").ReturnsInOrder()
	}()

	if len(mockT.fatals) != 1 {
		t.Fatalf("expected one fatal, got %v", mockT.fatals)
	}
	if want := "fake.Read: empty response sequence"; !strings.Contains(mockT.fatals[0], want) {
		t.Errorf("expected %q in %q", want, mockT.fatals[0])
	}
}

func TestRegistry_Invoke_traces(t *testing.T) {
	mockT := &recordingT{TB: t}
	reg := NewRegistry(mockT)
	fake := reg.NewNullFake("logger")
	fake.Stub("Level").Returns("debug")

	fake.Invoke("Level")
	fake.Invoke("Write", "rain", 2)

	want := []string{
		`call to logger.Level() #1 => "debug"`,
		`call to logger.Write("rain", 2) #2 => self`,
	}
	if len(mockT.logs) != len(want) {
		t.Fatalf("expected %d traces, got %v", len(want), mockT.logs)
	}
	for i := range want {
		if mockT.logs[i] != want[i] {
			t.Errorf("trace %d: expected %q, got %q", i, want[i], mockT.logs[i])
		}
	}
}

func TestWithLogger(t *testing.T) {
	var traces []string
	reg := NewRegistry(t, WithLogger(func(format string, args ...any) {
		traces = append(traces, fmt.Sprintf(format, args...))
	}))
	reg.NewFake("fake").Invoke("Read")
	if len(traces) != 1 || traces[0] != "call to fake.Read() #1 => <nil>" {
		t.Errorf("unexpected traces: %q", traces)
	}
}

func TestDelegate_best(t *testing.T) {
	anything := &rule{order: 0, matcher: Args(Anything()), response: Return("anything")}
	exact := &rule{order: 1, matcher: Args(map[string]any{"event": "storm"}), response: Return("exact")}
	catchAll := &rule{order: 2, response: Return("catch-all")}
	anyArgs := &rule{order: 3, matcher: AnyArgs(), response: Return("any")}
	partial := &rule{order: 4, matcher: Args(HashIncluding("event")), response: Return("partial")}

	tests := []struct {
		name  string
		rules []*rule
		args  []any
		want  *rule
	}{
		{"none", nil, []any{1}, nil},
		{"catch-all", []*rule{catchAll}, []any{1}, catchAll},
		{"latest catch-all", []*rule{catchAll, anyArgs}, []any{1}, anyArgs},
		{"explicit beats later catch-all", []*rule{anything, anyArgs}, []any{1}, anything},
		{"exact beats partial", []*rule{exact, partial}, []any{map[string]any{"event": "storm"}}, exact},
		{"partial beats anything", []*rule{partial, anything}, []any{map[string]any{"event": "rain"}}, partial},
		{"non-matching explicit skipped", []*rule{catchAll, exact}, []any{map[string]any{"event": "rain"}}, catchAll},
		{"arity mismatch", []*rule{anything}, []any{1, 2}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &delegate{rules: tt.rules}
			if got := d.best(tt.args); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
