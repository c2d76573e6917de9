package verstub

import "fmt"

// InOrder verifies that each query selects a call made after the call
// selected by the query before it. Counts set on the queries are ignored;
// only the earliest qualifying call of each query is considered.
func InOrder(queries ...Query) error {
	last := CallRecord{}
	for _, q := range queries {
		var next *CallRecord
		calls := q.Calls()
		for j := range calls {
			if calls[j].Seq > last.Seq {
				next = &calls[j]
				break
			}
		}
		if next == nil {
			if len(calls) == 0 {
				return fmt.Errorf("%w: %s.%s was never called", ErrOutOfOrder, q.fake, q.pattern())
			}
			return fmt.Errorf("%w: expected %s.%s after %s call %v", ErrOutOfOrder, q.fake, q.pattern(), last.Fake, last)
		}
		last = *next
	}
	return nil
}

// VerifyInOrder reports an InOrder failure on t.
func (r *Registry) VerifyInOrder(queries ...Query) bool {
	r.t.Helper()
	if err := InOrder(queries...); err != nil {
		r.t.Error(err)
		return false
	}
	return true
}
