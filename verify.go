package verstub

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/akedrou/textdiff"
)

// CallRecord is one observed call. Records are appended to the registry's
// log as calls happen and never change afterwards; the registry hands out
// copies.
type CallRecord struct {
	fake *Fake

	// Fake is the label of the fake that received the call.
	Fake string
	// Method is the name of the called method.
	Method string
	// Args are the call arguments.
	Args []any
	// Seq orders the call among all calls recorded by the registry,
	// starting at 1.
	Seq int
}

func (c CallRecord) clone() CallRecord {
	c.Args = slices.Clone(c.Args)
	return c
}

func (c CallRecord) String() string {
	return fmt.Sprintf("#%d %s(%s)", c.Seq, c.Method, formatArgs(c.Args))
}

func cloneRecords(records []CallRecord) []CallRecord {
	out := make([]CallRecord, len(records))
	for i, rec := range records {
		out[i] = rec.clone()
	}
	return out
}

// Query selects calls to one method of a fake for verification. A Query is
// a value: every refinement returns a new Query and evaluating one never
// changes the call log, so the same Query may be checked repeatedly.
type Query struct {
	fake    *Fake
	method  string
	matcher ArgsMatcher
	expect  Expectation
}

// With restricts the query to calls whose arguments match args, with the
// same conventions as StubBuilder.With.
func (q Query) With(args ...any) Query {
	q.matcher = toArgsMatcher(args)
	return q
}

// Matching restricts the query to calls whose arguments satisfy m.
func (q Query) Matching(m ArgsMatcher) Query {
	q.matcher = m
	return q
}

// Expect sets the expected number of selected calls.
func (q Query) Expect(e Expectation) Query {
	q.expect = e
	return q
}

// Times expects exactly n selected calls.
func (q Query) Times(n int) Query { return q.Expect(Exactly(n)) }

// Once expects exactly one selected call.
func (q Query) Once() Query { return q.Expect(Once()) }

// Twice expects exactly two selected calls.
func (q Query) Twice() Query { return q.Expect(Twice()) }

// AtLeast expects n or more selected calls.
func (q Query) AtLeast(n int) Query { return q.Expect(AtLeast(n)) }

// AtMost expects at most n selected calls.
func (q Query) AtMost(n int) Query { return q.Expect(AtMost(n)) }

// Between expects at least min and at most max selected calls.
func (q Query) Between(min, max int) Query { return q.Expect(Between(min, max)) }

// Never expects no selected calls.
func (q Query) Never() Query { return q.Expect(Never()) }

func (q Query) expectation() Expectation {
	if q.expect == nil {
		return AtLeast(1)
	}
	return q.expect
}

// Calls returns copies of the selected calls, in order.
func (q Query) Calls() []CallRecord {
	all := q.fake.reg.callsTo(q.fake, q.method)
	if q.matcher == nil {
		return all
	}
	selected := all[:0]
	for _, rec := range all {
		if q.matcher.MatchesArgs(rec.Args) {
			selected = append(selected, rec)
		}
	}
	return selected
}

// Count returns the number of selected calls.
func (q Query) Count() int {
	return len(q.Calls())
}

// Check reports whether the number of selected calls meets the
// expectation, at least once if none was set.
func (q Query) Check() bool {
	return q.expectation().Met(q.Count())
}

// Err returns a *VerificationFailure if Check would return false.
func (q Query) Err() error {
	found := q.Count()
	if q.expectation().Met(found) {
		return nil
	}
	return &VerificationFailure{
		Fake:     q.fake.String(),
		Method:   q.method,
		Expected: q.pattern(),
		Count:    q.expectation(),
		Found:    found,
		Calls:    q.fake.reg.callsTo(q.fake, q.method),
		want:     q.wantCall(),
	}
}

// Verify reports a failed check on t and returns whether the check passed.
func (q Query) Verify(t testing.TB) bool {
	t.Helper()
	if err := q.Err(); err != nil {
		t.Error(err)
		return false
	}
	return true
}

func (q Query) pattern() string {
	if q.matcher == nil {
		return q.method + "(AnyArgs)"
	}
	if _, ok := q.matcher.(argsMatcher); ok {
		return q.method + q.matcher.String()
	}
	return q.method + "(" + q.matcher.String() + ")"
}

// wantCall renders the expected call for a diff when the query names exact
// arguments.
func (q Query) wantCall() string {
	l, ok := q.matcher.(argsMatcher)
	if !ok {
		return ""
	}
	values, ok := l.exact()
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s(%s)", q.method, formatArgs(values))
}

func (q Query) String() string {
	return fmt.Sprintf("%s.%s %v", q.fake, q.pattern(), q.expectation())
}

// VerificationFailure describes a failed verification: what was expected
// and every call the method actually received.
type VerificationFailure struct {
	Fake     string
	Method   string
	Expected string
	Count    Expectation
	Found    int
	Calls    []CallRecord
	want     string
}

func (e *VerificationFailure) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: expected %s %v, found %d calls", e.Fake, e.Expected, e.Count, e.Found)
	if len(e.Calls) == 0 {
		fmt.Fprintf(&sb, "\nno calls to %s.%s were recorded", e.Fake, e.Method)
		return sb.String()
	}
	fmt.Fprintf(&sb, "\nrecorded calls to %s.%s:", e.Fake, e.Method)
	var got strings.Builder
	for _, rec := range e.Calls {
		fmt.Fprintf(&sb, "\n  %v", rec)
		fmt.Fprintf(&got, "%s(%s)\n", rec.Method, formatArgs(rec.Args))
	}
	if e.want != "" && e.Found == 0 {
		sb.WriteString("\n")
		sb.WriteString(textdiff.Unified("expected", "recorded", e.want+"\n", got.String()))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// IsVerificationFailure reports whether err is or wraps a
// *VerificationFailure.
func IsVerificationFailure(err error) bool {
	var vf *VerificationFailure
	return errors.As(err, &vf)
}
