// Package attr holds the attribute sets that features contribute to points,
// nodes and edges, and the KEEP/FILTER name filters applied at each of those
// three sites.
package attr

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
)

// Set maps attribute names to values. Values come straight from a feature's
// property bag, so they are whatever the source decoded (strings, float64
// from JSON, int64 from TOML fixtures).
type Set map[string]any

// Get returns the value stored under key.
func (s Set) Get(key string) (any, bool) {
	v, ok := s[key]
	return v, ok
}

// Has reports whether key is defined.
func (s Set) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Clone returns a shallow copy. A nil set clones to an empty one.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	maps.Copy(out, s)
	return out
}

// Keys returns the attribute names in sorted order.
func (s Set) Keys() []string {
	return slices.Sorted(maps.Keys(s))
}

// Equal compares two values the way attribute matching does: deep equality,
// except that numbers of different Go types compare by value so a 1 decoded
// from TOML equals a 1 decoded from JSON.
func Equal(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// Mode selects how a [Filter] interprets its name set.
type Mode int

const (
	// ModeNone keeps every attribute; the name set is ignored.
	ModeNone Mode = iota
	// ModeKeep keeps only the listed attributes.
	ModeKeep
	// ModeFilter drops the listed attributes and keeps the rest.
	ModeFilter
)

// String returns the configuration spelling of the mode.
func (m Mode) String() string {
	switch m {
	case ModeKeep:
		return "keep"
	case ModeFilter:
		return "filter"
	default:
		return "none"
	}
}

// ParseMode parses "keep", "filter" or "none" (case-insensitive, empty is none).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "all":
		return ModeNone, nil
	case "keep":
		return ModeKeep, nil
	case "filter", "drop":
		return ModeFilter, nil
	}
	return ModeNone, fmt.Errorf("unknown filter mode %q (want keep or filter)", s)
}

// Filter decides which attributes survive at an extraction site.
// The zero value keeps everything.
type Filter struct {
	Mode  Mode
	names map[string]struct{}
}

// NewFilter creates a filter over an explicit name set.
func NewFilter(mode Mode, names ...string) Filter {
	f := Filter{Mode: mode, names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		f.names[n] = struct{}{}
	}
	return f
}

// Keep returns a filter that keeps only names.
func Keep(names ...string) Filter { return NewFilter(ModeKeep, names...) }

// Drop returns a filter that removes names.
func Drop(names ...string) Filter { return NewFilter(ModeFilter, names...) }

// IsKept reports whether an attribute called name passes the filter.
func (f Filter) IsKept(name string) bool {
	_, listed := f.names[name]
	switch f.Mode {
	case ModeKeep:
		return listed
	case ModeFilter:
		return !listed
	default:
		return true
	}
}

// Names returns the configured names in sorted order.
func (f Filter) Names() []string {
	return slices.Sorted(maps.Keys(f.names))
}

// Apply returns a new set holding only the kept attributes of s.
func (f Filter) Apply(s Set) Set {
	out := make(Set, len(s))
	for k, v := range s {
		if f.IsKept(k) {
			out[k] = v
		}
	}
	return out
}
