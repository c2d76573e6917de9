package verstub

// StubBuilder configures one stub rule. The rule is registered when one of
// Returns, ReturnsInOrder, Responds or Does is called; configuration errors
// fail the test immediately.
type StubBuilder struct {
	fake    *Fake
	method  string
	matcher ArgsMatcher
}

// With restricts the rule to calls whose arguments match args. Each arg is
// a Matcher or a literal compared with ExactValue; a single ArgsMatcher
// (such as AnyArgs) is used as the whole matcher.
func (s *StubBuilder) With(args ...any) *StubBuilder {
	s.matcher = toArgsMatcher(args)
	return s
}

// Matching restricts the rule to calls whose arguments satisfy m.
func (s *StubBuilder) Matching(m ArgsMatcher) *StubBuilder {
	s.matcher = m
	return s
}

// Returns registers the rule answering every matching call with values:
// nil for no values, the value itself for one, and Results for several.
func (s *StubBuilder) Returns(values ...any) {
	s.fake.reg.t.Helper()
	switch len(values) {
	case 0:
		s.Responds(Return(nil))
	case 1:
		s.Responds(Return(values[0]))
	default:
		s.Responds(Return(Results(values)))
	}
}

// ReturnsInOrder registers the rule answering matching calls with values
// in turn, repeating the last value once they are exhausted.
func (s *StubBuilder) ReturnsInOrder(values ...any) {
	s.fake.reg.t.Helper()
	s.Responds(ReturnInOrder(values...))
}

// Does registers the rule answering matching calls with fn(args).
func (s *StubBuilder) Does(fn func(args []any) any) {
	s.fake.reg.t.Helper()
	s.Responds(Do(fn))
}

// Responds registers the rule with response.
func (s *StubBuilder) Responds(response Response) {
	reg := s.fake.reg
	reg.t.Helper()
	if err := reg.Stub(s.fake, s.method, s.matcher, response); err != nil {
		reg.t.Fatalf("%v", err)
	}
}
