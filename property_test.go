package verstub_test

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/Versent/go-verstub"
)

func quiet(string, ...any) {}

func TestProperty_sequenceRepeatsLast(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		values := rapid.SliceOfN(rapid.Int(), 1, 10).Draw(rt, "values")
		calls := rapid.IntRange(0, 30).Draw(rt, "calls")

		fake := verstub.NewRegistry(t, verstub.WithLogger(quiet)).NewFake("sensor")
		in := make([]any, len(values))
		for i, v := range values {
			in[i] = v
		}
		fake.Stub("read").ReturnsInOrder(in...)

		for n := 0; n < calls; n++ {
			want := values[min(n, len(values)-1)]
			if got := fake.Invoke("read"); got != want {
				rt.Fatalf("call %d: expected %d, got %v", n, want, got)
			}
		}
	})
}

func TestProperty_everyCallRecorded(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		methods := rapid.SliceOfN(rapid.SampledFrom([]string{"temperature", "humidity", "forecast"}), 0, 20).Draw(rt, "methods")
		stubbed := rapid.Bool().Draw(rt, "stubbed")

		fake := verstub.NewRegistry(t, verstub.WithLogger(quiet)).NewFake("station")
		if stubbed {
			fake.Stub("humidity").Returns(55)
		}

		counts := map[string]int{}
		for i, m := range methods {
			fake.Invoke(m, fmt.Sprint(i))
			counts[m]++
		}

		calls := fake.Calls()
		if len(calls) != len(methods) {
			rt.Fatalf("expected %d records, got %d", len(methods), len(calls))
		}
		for i, rec := range calls {
			if rec.Seq != i+1 || rec.Method != methods[i] {
				rt.Fatalf("record %d out of order: %v", i, rec)
			}
		}
		for m, n := range counts {
			if !fake.Received(m).Times(n).Check() {
				rt.Fatalf("expected %s to be received %d times", m, n)
			}
		}
	})
}

func TestProperty_explicitBeatsCatchAll(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		day := rapid.StringMatching(`[a-z]{1,8}`).Draw(rt, "day")
		catchAllFirst := rapid.Bool().Draw(rt, "catchAllFirst")
		useAnyArgs := rapid.Bool().Draw(rt, "useAnyArgs")

		fake := verstub.NewRegistry(t, verstub.WithLogger(quiet)).NewFake("station")
		stubCatchAll := func() {
			if useAnyArgs {
				fake.Stub("forecast").With(verstub.AnyArgs()).Returns("B")
			} else {
				fake.Stub("forecast").Returns("B")
			}
		}
		if catchAllFirst {
			stubCatchAll()
		}
		fake.Stub("forecast").With(day).Returns("A")
		if !catchAllFirst {
			stubCatchAll()
		}

		if got := fake.Invoke("forecast", day); got != "A" {
			rt.Fatalf("expected explicit rule for %q, got %v", day, got)
		}
		if got := fake.Invoke("forecast", day+"x"); got != "B" {
			rt.Fatalf("expected catch-all rule, got %v", got)
		}
	})
}

func TestProperty_verificationIsPure(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 10).Draw(rt, "n")
		checks := rapid.IntRange(1, 5).Draw(rt, "checks")

		reg := verstub.NewRegistry(t, verstub.WithLogger(quiet))
		fake := reg.NewFake("logger")
		for i := 0; i < n; i++ {
			fake.Invoke("log_event", "rain")
		}

		q := fake.Received("log_event").With("rain").Times(n)
		for i := 0; i < checks; i++ {
			if !q.Check() || q.Err() != nil {
				rt.Fatalf("check %d failed", i)
			}
		}
		if len(reg.Calls()) != n {
			rt.Fatalf("verification changed the log: %d records", len(reg.Calls()))
		}
	})
}
