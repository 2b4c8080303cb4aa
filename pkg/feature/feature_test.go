package feature

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/paulmach/orb"

	"github.com/matzehuels/geograph/pkg/attr"
)

func TestSliceSource(t *testing.T) {
	src := NewSliceSource(
		NewPoint("p", orb.Point{1, 2}, attr.Set{"k": "v"}),
		NewLine("l", []orb.Point{{0, 0}, {1, 1}}, nil),
	)
	ctx := context.Background()

	got, err := Collect(ctx, src)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(got) != 2 || got[0].Kind() != KindPoint || got[1].Kind() != KindLine {
		t.Fatalf("Collect = %v", got)
	}
	if _, err := src.Next(ctx); err != io.EOF {
		t.Errorf("Next after end = %v, want io.EOF", err)
	}
	if got[1].Attributes() == nil {
		t.Error("Attributes() must never be nil")
	}
	if v, ok := got[0].Attribute("k"); !ok || v != "v" {
		t.Errorf("Attribute(k) = %v, %v", v, ok)
	}
}

func TestSliceSourceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSliceSource(NewPoint("p", orb.Point{}, nil)).Next(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Next = %v, want context.Canceled", err)
	}
}

func TestKindString(t *testing.T) {
	tests := map[Kind]string{KindPoint: "point", KindLine: "line", KindUnknown: "unknown", Kind(9): "unknown"}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
