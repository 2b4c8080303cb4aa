package geojson

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/geograph/pkg/errors"
	"github.com/matzehuels/geograph/pkg/feature"
)

const streets = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "id": "F1",
     "geometry": {"type": "LineString", "coordinates": [[0, 0], [10, 10]]},
     "properties": {"Z_LEVEL": "1", "ADDR_ST": "Main St"}},
    {"type": "Feature", "id": 7,
     "geometry": {"type": "Point", "coordinates": [10, 10]},
     "properties": {"kind": "signal"}},
    {"type": "Feature",
     "geometry": {"type": "Polygon", "coordinates": [[[0, 0], [1, 0], [1, 1], [0, 0]]]},
     "properties": {"id": "park"}},
    {"type": "Feature",
     "geometry": {"type": "LineString", "coordinates": [[10, 10], [20, 0]]},
     "properties": null}
  ]
}`

func TestParse(t *testing.T) {
	fs, err := Parse([]byte(streets), Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(fs) != 4 {
		t.Fatalf("got %d features, want 4", len(fs))
	}

	tests := []struct {
		id     string
		kind   feature.Kind
		coords int
	}{
		{"F1", feature.KindLine, 2},
		{"7", feature.KindPoint, 1},
		{"park", feature.KindUnknown, 0},
		{"#3", feature.KindLine, 2},
	}
	for i, tt := range tests {
		f := fs[i]
		if f.ID() != tt.id || f.Kind() != tt.kind || len(f.Coordinates()) != tt.coords {
			t.Errorf("feature %d = (%s, %s, %d coords), want (%s, %s, %d)",
				i, f.ID(), f.Kind(), len(f.Coordinates()), tt.id, tt.kind, tt.coords)
		}
	}
	if v, _ := fs[0].Attribute("ADDR_ST"); v != "Main St" {
		t.Errorf("ADDR_ST = %v", v)
	}
	if fs[3].Attributes() == nil {
		t.Error("null properties should decode to an empty set")
	}
	if got := fs[2].(*feature.Simple).Geometry; got != "Polygon" {
		t.Errorf("Geometry = %q, want Polygon", got)
	}
}

func TestParseSingleFeature(t *testing.T) {
	doc := `{"type": "Feature", "properties": {"name": "x"},
	         "geometry": {"type": "Point", "coordinates": [1, 2]}}`
	fs, err := Parse([]byte(doc), Options{IDProperty: "name"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(fs) != 1 || fs[0].ID() != "x" {
		t.Fatalf("Parse = %v", fs)
	}
}

func TestParseInvalid(t *testing.T) {
	_, err := Decode(strings.NewReader("{not json"), Options{})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestParseRejectsDuplicateIDs(t *testing.T) {
	line := func(id string) string {
		return `{"type": "Feature", ` + id + `"geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 1]]}, "properties": {}}`
	}
	tests := []struct {
		name    string
		ids     []string
		wantErr bool
	}{
		{"explicit f1 next to unnamed", []string{`"id": "f1", `, ``}, false},
		{"explicit id shaped like a fallback", []string{``, `"id": "#0", `}, true},
		{"repeated explicit id", []string{`"id": "a", `, `"id": "a", `}, true},
		{"numeric and string id", []string{`"id": 7, `, `"id": "7", `}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `{"type": "FeatureCollection", "features": [` + line(tt.ids[0]) + `, ` + line(tt.ids[1]) + `]}`
			fs, err := Parse([]byte(doc), Options{})
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Parse: %v", err)
				}
				if fs[0].ID() == fs[1].ID() {
					t.Errorf("both features got id %q", fs[0].ID())
				}
				return
			}
			if !errors.Is(err, errors.ErrCodeInvalidInput) || !strings.Contains(err.Error(), "share id") {
				t.Errorf("Parse = %v, want INVALID_INPUT duplicate id", err)
			}
		})
	}
}

func TestEncodeSkipsUnknown(t *testing.T) {
	fs, err := Parse([]byte(streets), Options{})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, fs); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back, err := Parse(buf.Bytes(), Options{})
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	if len(back) != 3 {
		t.Errorf("round trip kept %d features, want 3", len(back))
	}
}
