package merge

import (
	"strings"
	"testing"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/geograph/pkg/attr"
	"github.com/matzehuels/geograph/pkg/errors"
)

const addressRulesTOML = `
[[rules]]
name = "same-level-keeps-address"
action = "keep_old"
  [[rules.when]]
  predicate = "attribute_matches"
  key = "Z_LEVEL"
  [[rules.when]]
  predicate = "has_attribute"
  key = "ADDR_ST"
  side = "old"
  [[rules.when]]
  predicate = "has_attribute"
  key = "ADDR_ST"
  side = "new"
  negate = true
`

func TestCompileFromTOML(t *testing.T) {
	var doc struct {
		Rules []RuleSpec `toml:"rules"`
	}
	if _, err := toml.Decode(addressRulesTOML, &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	chain, err := Compile(doc.Rules)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if chain.Len() != 1 {
		t.Fatalf("Len = %d, want 1", chain.Len())
	}
	rule := chain.Rules()[0]
	if rule.Action != KeepOld || rule.Name != "same-level-keeps-address" {
		t.Errorf("rule = %s", rule)
	}

	tests := []struct {
		name string
		old  attr.Set
		new  attr.Set
		want bool
	}{
		{"match", attr.Set{"Z_LEVEL": "1", "ADDR_ST": "Main St"}, attr.Set{"Z_LEVEL": "1"}, true},
		{"level mismatch", attr.Set{"Z_LEVEL": "1", "ADDR_ST": "Main St"}, attr.Set{"Z_LEVEL": "2"}, false},
		{"both addressed", attr.Set{"Z_LEVEL": "1", "ADDR_ST": "Main St"}, attr.Set{"Z_LEVEL": "1", "ADDR_ST": "Elm"}, false},
		{"old unaddressed", attr.Set{"Z_LEVEL": "1"}, attr.Set{"Z_LEVEL": "1"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rule.Matches(at("o", "F1", 0, 0, tt.old), at("n", "F2", 0, 0, tt.new))
			if got != tt.want {
				t.Errorf("Matches = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		spec RuleSpec
		want string
	}{
		{"bad action", RuleSpec{Action: "merge", When: []ClauseSpec{{Predicate: "always"}}}, "unknown merge action"},
		{"no clauses", RuleSpec{Action: "keep_old"}, "no when clauses"},
		{"missing key", RuleSpec{Action: "keep_old", When: []ClauseSpec{{Predicate: "has_attribute"}}}, "needs a key"},
		{"bad side", RuleSpec{Action: "keep_old", When: []ClauseSpec{{Predicate: "has_attribute", Key: "k", Side: "left"}}}, "unknown side"},
		{"missing value", RuleSpec{Action: "keep_old", When: []ClauseSpec{{Predicate: "attribute_equals", Key: "k"}}}, "needs a value"},
		{"bad predicate", RuleSpec{Action: "keep_old", When: []ClauseSpec{{Predicate: "near", Key: "k"}}}, "unknown predicate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile([]RuleSpec{tt.spec})
			if err == nil {
				t.Fatal("expected an error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("code = %s, want INVALID_CONFIG", errors.GetCode(err))
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestAttributeEqualsNumeric(t *testing.T) {
	p := AttributeEquals("lanes", 2, New)
	if !p(nil, at("n", "F1", 0, 0, attr.Set{"lanes": float64(2)})) {
		t.Error("int 2 should equal float64 2")
	}
	if p(nil, at("n", "F1", 0, 0, attr.Set{"lanes": "2"})) {
		t.Error("int 2 should not equal string \"2\"")
	}
}

func TestParseAction(t *testing.T) {
	for _, a := range []Action{Nothing, DeleteNew, DeleteOld, KeepOld, KeepNew} {
		got, err := ParseAction(strings.ToUpper(a.String()))
		if err != nil || got != a {
			t.Errorf("ParseAction(%q) = %v, %v", strings.ToUpper(a.String()), got, err)
		}
	}
	if got, _ := ParseAction("keep-new"); got != KeepNew {
		t.Errorf("ParseAction(keep-new) = %v", got)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		clause ClauseSpec
		want   string
	}{
		{ClauseSpec{Predicate: "always"}, "always"},
		{ClauseSpec{Predicate: "Always"}, "always"},
		{ClauseSpec{Predicate: " Has_Attribute ", Key: "ADDR_ST"}, "has_attribute(ADDR_ST, old)"},
		{ClauseSpec{Predicate: "attribute_matches", Key: "Z_LEVEL"}, "attribute_matches(Z_LEVEL)"},
		{ClauseSpec{Predicate: "has_attribute", Key: "ADDR_ST", Side: "new", Negate: true}, "not has_attribute(ADDR_ST, new)"},
		{ClauseSpec{Predicate: "attribute_equals", Key: "ONEWAY", Value: "yes"}, "attribute_equals(ONEWAY, old=yes)"},
	}
	for _, tt := range tests {
		if got := tt.clause.Describe(); got != tt.want {
			t.Errorf("Describe() = %q, want %q", got, tt.want)
		}
	}
}
