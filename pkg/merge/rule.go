package merge

import (
	"fmt"
	"strings"

	"github.com/matzehuels/geograph/pkg/point"
)

// Action says what happens to a matched (existing, candidate) pair.
type Action int

const (
	// Nothing leaves both points untouched.
	Nothing Action = iota
	// DeleteNew folds the candidate into the existing point and drops it.
	DeleteNew
	// DeleteOld folds the existing point into the candidate and removes the
	// existing point from the index.
	DeleteOld
	// KeepOld folds the candidate into the existing point; nothing is removed.
	KeepOld
	// KeepNew folds the existing point into the candidate; nothing is removed.
	KeepNew
)

var actionNames = map[Action]string{
	Nothing:   "nothing",
	DeleteNew: "delete_new",
	DeleteOld: "delete_old",
	KeepOld:   "keep_old",
	KeepNew:   "keep_new",
}

// String returns the configuration spelling of the action.
func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// ParseAction parses an action name such as "keep_old" or "DELETE_NEW".
func ParseAction(s string) (Action, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for a, name := range actionNames {
		if name == norm {
			return a, nil
		}
	}
	return Nothing, fmt.Errorf("unknown merge action %q", s)
}

// Rule pairs a predicate with the action to apply when it holds.
type Rule struct {
	Name   string
	Match  Predicate
	Action Action
}

// Matches evaluates the rule predicate. A nil predicate never matches.
func (r Rule) Matches(existing, candidate *point.Point) bool {
	if r.Match == nil {
		return false
	}
	return r.Match(existing, candidate)
}

// Apply performs the rule action on a matched pair and returns the point
// that carries the candidate's identity from now on.
//
// The losing point of a merge is marked superseded so colocation queries no
// longer return it. When the winner has no graph node yet it takes over the
// loser's, so edges already attached to that node stay reachable. When both
// are bound to different nodes Apply fails before changing anything.
func (r Rule) Apply(existing, candidate *point.Point, ix Index) (*point.Point, error) {
	var winner, loser *point.Point
	switch r.Action {
	case DeleteNew, KeepOld:
		winner, loser = existing, candidate
	case DeleteOld, KeepNew:
		winner, loser = candidate, existing
	default:
		return candidate, nil
	}
	if err := winner.InheritNode(loser); err != nil {
		return nil, fmt.Errorf("rule %s: %w", r, err)
	}
	winner.Merge(loser)

	switch r.Action {
	case DeleteNew:
		if ix.Contains(candidate) {
			ix.Remove(candidate)
		}
	case DeleteOld:
		ix.Remove(existing)
	}
	loser.Supersede(winner)
	return winner, nil
}

func (r Rule) String() string {
	if r.Name == "" {
		return r.Action.String()
	}
	return r.Name + ":" + r.Action.String()
}
