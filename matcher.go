package verstub

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/onsi/gomega/types"
)

// Specificity ranks how narrowly a matcher constrains a call. Rules with an
// explicit matcher beat catch-all rules; after that more exact arguments
// win, then more partial constraints.
type Specificity struct {
	// Explicit is false only for catch-all matchers.
	Explicit bool
	// Exact counts arguments constrained to a single value.
	Exact int
	// Partial counts constraints that accept many values (keys required in
	// a map, elements required in a slice, predicates).
	Partial int
}

// Less reports whether s is less specific than o.
func (s Specificity) Less(o Specificity) bool {
	if s.Explicit != o.Explicit {
		return !s.Explicit
	}
	if s.Exact != o.Exact {
		return s.Exact < o.Exact
	}
	return s.Partial < o.Partial
}

func (s Specificity) add(o Specificity) Specificity {
	return Specificity{
		Explicit: s.Explicit || o.Explicit,
		Exact:    s.Exact + o.Exact,
		Partial:  s.Partial + o.Partial,
	}
}

// Matcher matches a single argument.
type Matcher interface {
	// Matches returns true if arg satisfies this matcher.
	Matches(arg any) bool
	Specificity() Specificity
	fmt.Stringer
}

// ArgsMatcher matches a whole argument list.
type ArgsMatcher interface {
	// MatchesArgs returns true if args satisfies this matcher.
	MatchesArgs(args []any) bool
	Specificity() Specificity
	fmt.Stringer
}

// toMatcher converts a literal to ExactValue, leaving matchers as they are.
func toMatcher(v any) Matcher {
	if m, ok := v.(Matcher); ok {
		return m
	}
	return ExactValue(v)
}

// toArgsMatcher builds the matcher used by With: a lone ArgsMatcher is used
// as is, anything else becomes a positional Args matcher.
func toArgsMatcher(args []any) ArgsMatcher {
	if len(args) == 1 {
		if m, ok := args[0].(ArgsMatcher); ok {
			return m
		}
	}
	return Args(args...)
}

type anyArgsMatcher struct{}

func (anyArgsMatcher) MatchesArgs([]any) bool   { return true }
func (anyArgsMatcher) Specificity() Specificity { return Specificity{} }
func (anyArgsMatcher) String() string           { return "AnyArgs" }

// AnyArgs matches any argument list of any length. A rule stubbed with
// AnyArgs is a catch-all, the same as a rule with no matcher.
func AnyArgs() ArgsMatcher {
	return anyArgsMatcher{}
}

type argsMatcher []Matcher

// Args matches an argument list of exactly len(matchers) arguments, each
// satisfying the matcher in the same position. Values that are not a
// Matcher are compared with ExactValue.
func Args(matchers ...any) ArgsMatcher {
	l := make(argsMatcher, len(matchers))
	for i, m := range matchers {
		l[i] = toMatcher(m)
	}
	return l
}

// NoArgs matches an empty argument list.
func NoArgs() ArgsMatcher {
	return argsMatcher{}
}

func (l argsMatcher) MatchesArgs(args []any) bool {
	if len(args) != len(l) {
		return false
	}
	for i, m := range l {
		if !m.Matches(args[i]) {
			return false
		}
	}
	return true
}

func (l argsMatcher) Specificity() Specificity {
	s := Specificity{Explicit: true}
	for _, m := range l {
		s = s.add(m.Specificity())
	}
	return s
}

func (l argsMatcher) String() string {
	parts := make([]string, len(l))
	for i, m := range l {
		parts[i] = m.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// exact returns the expected argument values if every position is an
// ExactValue.
func (l argsMatcher) exact() ([]any, bool) {
	values := make([]any, len(l))
	for i, m := range l {
		ev, ok := m.(exactMatcher)
		if !ok {
			return nil, false
		}
		values[i] = ev.v
	}
	return values, true
}

type anythingMatcher struct{}

func (anythingMatcher) Matches(any) bool         { return true }
func (anythingMatcher) Specificity() Specificity { return Specificity{} }
func (anythingMatcher) String() string           { return "Anything" }

// Anything matches any single argument, including nil.
func Anything() Matcher {
	return anythingMatcher{}
}

type exactMatcher struct {
	v any
}

// ExactValue matches an argument equal to v by reflect.DeepEqual. Literals
// given where a Matcher is expected are wrapped with ExactValue.
func ExactValue(v any) Matcher {
	return exactMatcher{v}
}

func (e exactMatcher) Matches(arg any) bool {
	return reflect.DeepEqual(arg, e.v)
}

func (exactMatcher) Specificity() Specificity {
	return Specificity{Explicit: true, Exact: 1}
}

func (e exactMatcher) String() string {
	return formatValue(e.v)
}

type hashMatcher struct {
	keys   []any
	values map[int]Matcher
}

// HashIncluding matches a map argument containing at least the given keys.
// Values are unconstrained.
func HashIncluding(keys ...any) Matcher {
	return hashMatcher{keys: keys}
}

// HashIncludingPairs matches a map argument containing at least the keys of
// pairs, each with a value satisfying the corresponding value of pairs
// (a Matcher, or a literal compared with ExactValue). Panics if pairs is
// not a map.
func HashIncludingPairs(pairs any) Matcher {
	v := reflect.ValueOf(pairs)
	if v.Kind() != reflect.Map {
		panic(fmt.Sprintf("verstub.HashIncludingPairs: expected map, got %T", pairs))
	}
	h := hashMatcher{values: make(map[int]Matcher, v.Len())}
	iter := v.MapRange()
	for iter.Next() {
		h.values[len(h.keys)] = toMatcher(iter.Value().Interface())
		h.keys = append(h.keys, iter.Key().Interface())
	}
	return h
}

func (h hashMatcher) Matches(arg any) bool {
	m := reflect.ValueOf(arg)
	if m.Kind() != reflect.Map || m.IsNil() {
		return false
	}
	for i, key := range h.keys {
		value, ok := mapLookup(m, key)
		if !ok {
			return false
		}
		if vm, constrained := h.values[i]; constrained && !vm.Matches(value) {
			return false
		}
	}
	return true
}

// Specificity counts the required keys and the constrained values as
// partial constraints. A map matcher never counts as exact, so ExactValue on
// the whole argument outranks it.
func (h hashMatcher) Specificity() Specificity {
	s := Specificity{Explicit: true, Partial: len(h.keys)}
	for _, vm := range h.values {
		s.Partial += partialWeight(vm)
	}
	return s
}

func (h hashMatcher) String() string {
	parts := make([]string, len(h.keys))
	for i, key := range h.keys {
		if vm, ok := h.values[i]; ok {
			parts[i] = fmt.Sprintf("%s: %s", formatValue(key), vm)
		} else {
			parts[i] = formatValue(key)
		}
	}
	return "HashIncluding(" + strings.Join(parts, ", ") + ")"
}

// mapLookup finds key in m, comparing keys with reflect.DeepEqual so that
// untyped literals like "event" find keys of named string types.
func mapLookup(m reflect.Value, key any) (any, bool) {
	kv := reflect.ValueOf(key)
	if kv.IsValid() && kv.Type().Comparable() && kv.Type().AssignableTo(m.Type().Key()) {
		if v := m.MapIndex(kv); v.IsValid() {
			return v.Interface(), true
		}
	}
	iter := m.MapRange()
	for iter.Next() {
		k := iter.Key()
		if k.Kind() == reflect.Interface {
			k = k.Elem()
		}
		if k.IsValid() && reflect.DeepEqual(k.Interface(), key) {
			return iter.Value().Interface(), true
		}
		if kv.Kind() == reflect.String && k.Kind() == reflect.String && k.String() == kv.String() {
			return iter.Value().Interface(), true
		}
	}
	return nil, false
}

type arrayMatcher []Matcher

// ArrayIncluding matches a slice or array argument containing at least the
// given elements, in any order. Elements may be Matchers.
func ArrayIncluding(elements ...any) Matcher {
	l := make(arrayMatcher, len(elements))
	for i, e := range elements {
		l[i] = toMatcher(e)
	}
	return l
}

func (a arrayMatcher) Matches(arg any) bool {
	v := reflect.ValueOf(arg)
	switch v.Kind() {
	case reflect.Array, reflect.Slice:
	default:
		return false
	}
	for _, m := range a {
		found := false
		for i := 0; i < v.Len() && !found; i++ {
			found = m.Matches(v.Index(i).Interface())
		}
		if !found {
			return false
		}
	}
	return true
}

// Specificity counts each constrained element as partial; Anything
// elements count for nothing.
func (a arrayMatcher) Specificity() Specificity {
	s := Specificity{Explicit: true}
	for _, m := range a {
		s.Partial += partialWeight(m)
	}
	return s
}

// partialWeight folds the specificity of a matcher nested in a collection
// matcher into a partial count: zero for wildcards, at least one otherwise.
func partialWeight(m Matcher) int {
	s := m.Specificity()
	if !s.Explicit {
		return 0
	}
	return max(1, s.Exact+s.Partial)
}

func (a arrayMatcher) String() string {
	parts := make([]string, len(a))
	for i, m := range a {
		parts[i] = m.String()
	}
	return "ArrayIncluding(" + strings.Join(parts, ", ") + ")"
}

type satisfyMatcher[T any] struct {
	predicate func(T) error
}

// Satisfy returns a matcher that uses a predicate function to check for a
// match. The predicate returns nil if the value matches. Arguments not of
// type T never match.
func Satisfy[T any](predicate func(T) error) Matcher {
	return satisfyMatcher[T]{predicate}
}

func (m satisfyMatcher[T]) Matches(arg any) bool {
	v, ok := arg.(T)
	if !ok {
		return false
	}
	return m.predicate(v) == nil
}

func (satisfyMatcher[T]) Specificity() Specificity {
	return Specificity{Explicit: true, Partial: 1}
}

func (satisfyMatcher[T]) String() string {
	return fmt.Sprintf("Satisfy(func(%v) error)", reflect.TypeOf((*T)(nil)).Elem())
}

type gomegaMatcher struct {
	types.GomegaMatcher
}

// Gomega adapts a gomega matcher to match a single argument. A matcher that
// returns an error is treated as not matching.
func Gomega(m types.GomegaMatcher) Matcher {
	return gomegaMatcher{m}
}

func (g gomegaMatcher) Matches(arg any) bool {
	ok, err := g.Match(arg)
	return err == nil && ok
}

func (gomegaMatcher) Specificity() Specificity {
	return Specificity{Explicit: true, Partial: 1}
}

func (g gomegaMatcher) String() string {
	return fmt.Sprintf("Gomega(%T)", g.GomegaMatcher)
}
