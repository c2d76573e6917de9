package verstub

import "fmt"

// An Expectation verifies a call count.
type Expectation interface {
	// Met reports whether count satisfies the expectation.
	Met(count int) bool
}

type calledExactly int

func (times calledExactly) Met(count int) bool {
	return count == int(times)
}

func (times calledExactly) String() string {
	switch times {
	case 0:
		return "never"
	case 1:
		return "once"
	case 2:
		return "twice"
	}
	return fmt.Sprintf("exactly %d times", int(times))
}

type calledAtLeast int

func (times calledAtLeast) Met(count int) bool {
	return count >= int(times)
}

func (times calledAtLeast) String() string {
	if times == 1 {
		return "at least once"
	}
	return fmt.Sprintf("at least %d times", int(times))
}

type calledBetween struct {
	atLeast int
	atMost  int
}

func (c calledBetween) Met(count int) bool {
	return count >= c.atLeast && count <= c.atMost
}

func (c calledBetween) String() string {
	if c.atLeast <= 0 {
		return fmt.Sprintf("at most %d times", c.atMost)
	}
	return fmt.Sprintf("between %d and %d times", c.atLeast, c.atMost)
}

// Exactly expects exactly n calls.
func Exactly(n int) Expectation {
	return calledExactly(n)
}

// Once is shorthand for Exactly(1).
func Once() Expectation {
	return Exactly(1)
}

// Twice is shorthand for Exactly(2).
func Twice() Expectation {
	return Exactly(2)
}

// Never is shorthand for Exactly(0).
func Never() Expectation {
	return calledExactly(0)
}

// AtLeast expects n or more calls.
func AtLeast(n int) Expectation {
	return calledAtLeast(n)
}

// AtMost expects no more than n calls.
func AtMost(n int) Expectation {
	return Between(0, n)
}

// Between expects at least min and at most max calls.
func Between(min, max int) Expectation {
	return calledBetween{min, max}
}
