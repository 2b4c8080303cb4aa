package merge

import (
	"github.com/matzehuels/geograph/pkg/point"
)

// Index is the part of the spatial index the chain needs.
// *spatial.Index implements it.
type Index interface {
	Add(p *point.Point)
	Remove(p *point.Point) bool
	Contains(p *point.Point) bool
	SearchAt(x, y float64) []*point.Point
}

// Observer is told about every rule application. It is optional.
type Observer func(rule Rule, existing, candidate, result *point.Point)

// Chain is an ordered list of merge rules. Order matters: a rule sees the
// attribute sets left behind by the merges of the rules before it.
type Chain struct {
	rules    []Rule
	observer Observer
}

// NewChain creates a chain from rules in evaluation order.
func NewChain(rules ...Rule) *Chain {
	return &Chain{rules: append([]Rule(nil), rules...)}
}

// Rules returns a copy of the rules in evaluation order.
func (c *Chain) Rules() []Rule {
	if c == nil {
		return nil
	}
	return append([]Rule(nil), c.rules...)
}

// Len returns the number of rules.
func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.rules)
}

// Observe installs fn as the chain's observer and returns the chain.
func (c *Chain) Observe(fn Observer) *Chain {
	c.observer = fn
	return c
}

// Merge resolves the canonical identity of candidate against the points
// already in ix and makes sure the result is stored.
//
// For every rule in order the colocated points are fetched again; when there
// are none the remaining rules are skipped. Each colocated point the rule
// matches is merged with the current candidate, and the surviving point
// becomes the candidate for the next comparison.
//
// Merge always runs to completion: there is no cancellation inside a chain.
// A nil or empty chain never merges anything. The only error is a node
// binding conflict from [Rule.Apply]; the candidate is then not stored.
func (c *Chain) Merge(candidate *point.Point, ix Index) (*point.Point, error) {
	if c != nil {
		for _, rule := range c.rules {
			colocated := ix.SearchAt(candidate.X(), candidate.Y())
			if len(colocated) == 0 {
				break
			}
			for _, existing := range colocated {
				if existing == candidate || existing.IsSuperseded() {
					continue
				}
				if !rule.Matches(existing, candidate) {
					continue
				}
				result, err := rule.Apply(existing, candidate, ix)
				if err != nil {
					return nil, err
				}
				if c.observer != nil {
					c.observer(rule, existing, candidate, result)
				}
				candidate = result
			}
		}
	}

	if !ix.Contains(candidate) {
		ix.Add(candidate)
	}
	return candidate, nil
}
