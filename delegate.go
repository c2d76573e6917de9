package verstub

// rule is a stub rule: an optional argument matcher, a response and the
// number of calls it has answered so far.
type rule struct {
	matcher  ArgsMatcher
	response Response
	order    int
	hits     int
}

func (r *rule) matches(args []any) bool {
	return r.matcher == nil || r.matcher.MatchesArgs(args)
}

func (r *rule) specificity() Specificity {
	if r.matcher == nil {
		return Specificity{}
	}
	return r.matcher.Specificity()
}

// delegate holds the stub rules registered for one method name.
type delegate struct {
	rules []*rule
}

func (d *delegate) append(r ...*rule) {
	d.rules = append(d.rules, r...)
}

// best returns the matching rule with the highest specificity, preferring
// the most recently registered among equals. Returns nil if none match.
func (d *delegate) best(args []any) (best *rule) {
	var bestSpec Specificity
	for _, r := range d.rules {
		if !r.matches(args) {
			continue
		}
		spec := r.specificity()
		if best == nil || !spec.Less(bestSpec) && (bestSpec.Less(spec) || r.order > best.order) {
			best, bestSpec = r, spec
		}
	}
	return
}

// delegateByName retrieves or creates the delegate for a method name. The
// caller must hold the registry lock.
func delegateByName(e *entry, name string) *delegate {
	d, ok := e.delegates[name]
	if !ok {
		d = new(delegate)
		e.delegates[name] = d
	}
	return d
}
