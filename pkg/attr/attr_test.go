package attr

import (
	"slices"
	"testing"
)

func TestFilterIsKept(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		attr   string
		want   bool
	}{
		{"zero value keeps", Filter{}, "ANY", true},
		{"keep listed", Keep("Z_LEVEL"), "Z_LEVEL", true},
		{"keep unlisted", Keep("Z_LEVEL"), "ADDR_ST", false},
		{"drop listed", Drop("SHAPE_LEN"), "SHAPE_LEN", false},
		{"drop unlisted", Drop("SHAPE_LEN"), "ADDR_ST", true},
		{"none ignores names", NewFilter(ModeNone, "X"), "Y", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.IsKept(tt.attr); got != tt.want {
				t.Errorf("IsKept(%q) = %v, want %v", tt.attr, got, tt.want)
			}
		})
	}
}

func TestFilterApply(t *testing.T) {
	s := Set{"Z_LEVEL": "1", "ADDR_ST": "Main St", "SHAPE_LEN": 12.5}

	kept := Keep("Z_LEVEL", "ADDR_ST").Apply(s)
	if got := kept.Keys(); !slices.Equal(got, []string{"ADDR_ST", "Z_LEVEL"}) {
		t.Errorf("Keep().Apply keys = %v", got)
	}

	dropped := Drop("SHAPE_LEN").Apply(s)
	if dropped.Has("SHAPE_LEN") {
		t.Error("Drop().Apply should remove SHAPE_LEN")
	}
	if len(s) != 3 {
		t.Error("Apply must not modify its input")
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"keep", ModeKeep, false},
		{"FILTER", ModeFilter, false},
		{"", ModeNone, false},
		{"sometimes", ModeNone, true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		a, b any
		want bool
	}{
		{"1", "1", true},
		{"1", "2", false},
		{int64(1), float64(1), true},
		{1, "1", false},
		{[]any{"a"}, []any{"a"}, true},
		{nil, nil, true},
	}

	for _, tt := range tests {
		if got := Equal(tt.a, tt.b); got != tt.want {
			t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSetClone(t *testing.T) {
	s := Set{"a": 1}
	c := s.Clone()
	c["b"] = 2
	if s.Has("b") {
		t.Error("Clone should not share storage")
	}
	if Set(nil).Clone() == nil {
		t.Error("Clone of nil should be an empty set")
	}
}
