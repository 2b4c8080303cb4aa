package merge

import (
	"fmt"
	"strings"

	"github.com/matzehuels/geograph/pkg/errors"
)

// RuleSpec is the declarative form of a [Rule], as read from a config file.
type RuleSpec struct {
	Name   string       `toml:"name" json:"name"`
	Action string       `toml:"action" json:"action"`
	When   []ClauseSpec `toml:"when,omitempty" json:"when,omitempty"`
}

// ClauseSpec is one condition of a rule. All clauses of a rule must hold.
type ClauseSpec struct {
	Predicate string `toml:"predicate" json:"predicate"`
	Key       string `toml:"key,omitempty" json:"key,omitempty"`
	Side      string `toml:"side,omitempty" json:"side,omitempty"`
	Value     any    `toml:"value,omitempty" json:"value,omitempty"`
	Negate    bool   `toml:"negate,omitempty" json:"negate,omitempty"`
}

// Predicate names accepted in [ClauseSpec.Predicate].
const (
	PredAttributeMatches = "attribute_matches"
	PredHasAttribute     = "has_attribute"
	PredAttributeEquals  = "attribute_equals"
	PredAlways           = "always"
)

// Compile turns rule specs into a chain, keeping their order.
func Compile(specs []RuleSpec) (*Chain, error) {
	rules := make([]Rule, 0, len(specs))
	for i, s := range specs {
		r, err := s.Compile()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "rule %d (%s)", i+1, s.label())
		}
		rules = append(rules, r)
	}
	return NewChain(rules...), nil
}

// Compile builds the rule. A rule without clauses never matches unless its
// only intent is stated with the "always" predicate.
func (s RuleSpec) Compile() (Rule, error) {
	action, err := ParseAction(s.Action)
	if err != nil {
		return Rule{}, err
	}
	if len(s.When) == 0 {
		return Rule{}, fmt.Errorf("no when clauses; use predicate %q to match every pair", PredAlways)
	}
	preds := make([]Predicate, 0, len(s.When))
	for j, c := range s.When {
		p, err := c.Compile()
		if err != nil {
			return Rule{}, fmt.Errorf("clause %d: %w", j+1, err)
		}
		preds = append(preds, p)
	}
	match := preds[0]
	if len(preds) > 1 {
		match = All(preds...)
	}
	return Rule{Name: s.Name, Match: match, Action: action}, nil
}

func (s RuleSpec) label() string {
	if s.Name != "" {
		return s.Name
	}
	return "unnamed"
}

// Compile builds the clause predicate.
func (c ClauseSpec) Compile() (Predicate, error) {
	name := strings.ToLower(strings.TrimSpace(c.Predicate))
	needKey := name != PredAlways
	if needKey && c.Key == "" {
		return nil, fmt.Errorf("predicate %q needs a key", c.Predicate)
	}

	var p Predicate
	switch name {
	case PredAttributeMatches:
		p = AttributeMatches(c.Key)
	case PredHasAttribute:
		side, err := ParseSide(c.Side)
		if err != nil {
			return nil, err
		}
		p = Has(c.Key, side)
	case PredAttributeEquals:
		side, err := ParseSide(c.Side)
		if err != nil {
			return nil, err
		}
		if c.Value == nil {
			return nil, fmt.Errorf("predicate %q needs a value", c.Predicate)
		}
		p = AttributeEquals(c.Key, c.Value, side)
	case PredAlways:
		p = Always()
	default:
		return nil, fmt.Errorf("unknown predicate %q", c.Predicate)
	}

	if c.Negate {
		p = Not(p)
	}
	return p, nil
}

// ParseSide parses "old" or "new". Empty means old.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "old", "existing":
		return Old, nil
	case "new", "candidate":
		return New, nil
	}
	return Old, fmt.Errorf("unknown side %q (want old or new)", s)
}

// Describe renders a clause for listings, e.g. "not has_attribute(ADDR_ST, new)".
func (c ClauseSpec) Describe() string {
	name := strings.ToLower(strings.TrimSpace(c.Predicate))
	var b strings.Builder
	if c.Negate {
		b.WriteString("not ")
	}
	b.WriteString(name)
	if name == PredAlways {
		return b.String()
	}
	b.WriteString("(")
	b.WriteString(c.Key)
	switch name {
	case PredHasAttribute:
		b.WriteString(", ")
		b.WriteString(sideName(c.Side))
	case PredAttributeEquals:
		fmt.Fprintf(&b, ", %s=%v", sideName(c.Side), c.Value)
	}
	b.WriteString(")")
	return b.String()
}

func sideName(s string) string {
	side, err := ParseSide(s)
	if err != nil {
		return s
	}
	return side.String()
}
