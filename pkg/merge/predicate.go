package merge

import (
	"github.com/matzehuels/geograph/pkg/attr"
	"github.com/matzehuels/geograph/pkg/point"
)

// Predicate decides whether a rule applies to an existing point and the
// candidate being merged. Predicates must be pure: they are evaluated again
// for every colocated point and every rule.
type Predicate func(existing, candidate *point.Point) bool

// Side selects which point of the pair a one-sided predicate inspects.
type Side int

const (
	// Old is the point already in the index.
	Old Side = iota
	// New is the candidate.
	New
)

func (s Side) pick(existing, candidate *point.Point) *point.Point {
	if s == New {
		return candidate
	}
	return existing
}

// String returns "old" or "new".
func (s Side) String() string {
	if s == New {
		return "new"
	}
	return "old"
}

// HasAttribute reports whether any attribute set of p defines key.
func HasAttribute(key string, p *point.Point) bool {
	return p != nil && p.HasAttribute(key)
}

// AttributeMatchesBetween reports whether some attribute set of a and some
// attribute set of b both define key with equal values.
func AttributeMatchesBetween(key string, a, b *point.Point) bool {
	if a == nil || b == nil {
		return false
	}
	for _, va := range a.Values(key) {
		for _, vb := range b.Values(key) {
			if attr.Equal(va, vb) {
				return true
			}
		}
	}
	return false
}

// AttributeMatches holds when both points define key with an equal value in
// at least one of their per-feature attribute sets.
func AttributeMatches(key string) Predicate {
	return func(existing, candidate *point.Point) bool {
		return AttributeMatchesBetween(key, existing, candidate)
	}
}

// OldHas holds when the existing point defines key.
func OldHas(key string) Predicate { return Has(key, Old) }

// NewHas holds when the candidate defines key.
func NewHas(key string) Predicate { return Has(key, New) }

// Has holds when the point on side defines key.
func Has(key string, side Side) Predicate {
	return func(existing, candidate *point.Point) bool {
		return HasAttribute(key, side.pick(existing, candidate))
	}
}

// AttributeEquals holds when some attribute set on side maps key to value.
func AttributeEquals(key string, value any, side Side) Predicate {
	return func(existing, candidate *point.Point) bool {
		p := side.pick(existing, candidate)
		if p == nil {
			return false
		}
		for _, v := range p.Values(key) {
			if attr.Equal(v, value) {
				return true
			}
		}
		return false
	}
}

// Always holds for every pair.
func Always() Predicate {
	return func(_, _ *point.Point) bool { return true }
}

// Not negates p.
func Not(p Predicate) Predicate {
	return func(existing, candidate *point.Point) bool {
		return !p(existing, candidate)
	}
}

// All holds when every predicate holds. All() with no arguments holds.
func All(ps ...Predicate) Predicate {
	return func(existing, candidate *point.Point) bool {
		for _, p := range ps {
			if !p(existing, candidate) {
				return false
			}
		}
		return true
	}
}

// Any holds when at least one predicate holds.
func Any(ps ...Predicate) Predicate {
	return func(existing, candidate *point.Point) bool {
		for _, p := range ps {
			if p(existing, candidate) {
				return true
			}
		}
		return false
	}
}
