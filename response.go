package verstub

import (
	"errors"
	"fmt"
	"strings"
)

// Response produces the value a stub rule answers with. The n passed to a
// Response counts the calls previously answered by the same rule, starting
// at 0.
type Response interface {
	respond(n int, args []any) any
	validate() error
	fmt.Stringer
}

// Results groups the values answered to a method with more than one result.
type Results []any

func (r Results) String() string {
	return "Results(" + formatArgs(r) + ")"
}

type fixed struct {
	value any
}

// Return answers every call with value.
func Return(value any) Response {
	return fixed{value}
}

func (f fixed) respond(int, []any) any { return f.value }
func (fixed) validate() error          { return nil }
func (f fixed) String() string         { return "Return(" + formatValue(f.value) + ")" }

type sequence []any

// ReturnInOrder answers the n-th call with values[n] until the values are
// exhausted, after which the last value repeats. At least one value is
// required.
func ReturnInOrder(values ...any) Response {
	return sequence(values)
}

func (s sequence) respond(n int, _ []any) any {
	return s[min(n, len(s)-1)]
}

func (s sequence) validate() error {
	if len(s) == 0 {
		return errors.New("empty response sequence")
	}
	return nil
}

func (s sequence) String() string {
	return "ReturnInOrder(" + formatArgs(s) + ")"
}

type computed func(args []any) any

// Do answers each call with the result of fn applied to the call arguments.
func Do(fn func(args []any) any) Response {
	return computed(fn)
}

func (c computed) respond(_ int, args []any) any { return c(args) }

func (c computed) validate() error {
	if c == nil {
		return errors.New("nil response function")
	}
	return nil
}

func (computed) String() string { return "Do(func)" }

// formatArgs renders an argument list for diagnostics.
func formatArgs(args []any) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = formatValue(arg)
	}
	return strings.Join(parts, ", ")
}

func formatValue(v any) string {
	switch v := v.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// describe renders a response, naming the fake instead of printing it when
// a null-object fake answers with itself.
func describe(out any, f *Fake) string {
	if out != nil && out == f.self {
		return "self"
	}
	return formatValue(out)
}
