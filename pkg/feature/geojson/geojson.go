// Package geojson adapts GeoJSON documents to [feature.Feature] values.
//
// Point geometries become point features and LineString geometries become
// line features. Every other geometry type is passed through with
// [feature.KindUnknown] so the topology builder can report and skip it.
package geojson

import (
	"fmt"
	"io"
	"maps"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/matzehuels/geograph/pkg/attr"
	"github.com/matzehuels/geograph/pkg/errors"
	"github.com/matzehuels/geograph/pkg/feature"
)

// FallbackIDPrefix starts the id of a feature that has neither a top-level
// id nor the id property: "#" plus its position in the collection.
const FallbackIDPrefix = "#"

// Options controls how GeoJSON features are converted.
type Options struct {
	// IDProperty names the property used as feature id when the GeoJSON
	// feature has no top-level "id". Defaults to "id".
	IDProperty string
}

// Decode reads a FeatureCollection (or a single Feature) from r.
func Decode(r io.Reader, opts Options) ([]feature.Feature, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read geojson")
	}
	return Parse(data, opts)
}

// Parse converts a FeatureCollection (or a single Feature) document.
func Parse(data []byte, opts Options) ([]feature.Feature, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil || fc.Type != "FeatureCollection" {
		f, ferr := geojson.UnmarshalFeature(data)
		if ferr != nil {
			if err == nil {
				err = ferr
			}
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse geojson")
		}
		fc = geojson.NewFeatureCollection().Append(f)
	}

	out := make([]feature.Feature, 0, len(fc.Features))
	seen := make(map[string]int, len(fc.Features))
	for i, f := range fc.Features {
		if f == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "feature %d is null", i)
		}
		conv := Convert(f, i, opts)
		// Points keep one attribute set per feature id; a repeated id would
		// overwrite another feature's attributes.
		if j, dup := seen[conv.FID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"features %d and %d share id %q", j, i, conv.FID)
		}
		seen[conv.FID] = i
		out = append(out, conv)
	}
	return out, nil
}

// NewSource decodes r and serves its features in document order.
func NewSource(r io.Reader, opts Options) (feature.Source, error) {
	fs, err := Decode(r, opts)
	if err != nil {
		return nil, err
	}
	return feature.NewSliceSource(fs...), nil
}

// Convert turns one GeoJSON feature into a [feature.Simple]. index is the
// position in the collection and serves as fallback id.
func Convert(f *geojson.Feature, index int, opts Options) *feature.Simple {
	out := &feature.Simple{
		FID:   featureID(f, index, opts),
		Attrs: attr.Set(maps.Clone(map[string]any(f.Properties))),
	}
	if out.Attrs == nil {
		out.Attrs = attr.Set{}
	}

	switch g := f.Geometry.(type) {
	case orb.Point:
		out.FKind = feature.KindPoint
		out.Coords = []orb.Point{g}
	case orb.LineString:
		out.FKind = feature.KindLine
		out.Coords = []orb.Point(g)
	case nil:
		out.Geometry = "null"
	default:
		out.Geometry = g.GeoJSONType()
	}
	return out
}

func featureID(f *geojson.Feature, index int, opts Options) string {
	if id := stringID(f.ID); id != "" {
		return id
	}
	prop := opts.IDProperty
	if prop == "" {
		prop = "id"
	}
	if id := stringID(f.Properties[prop]); id != "" {
		return id
	}
	return FallbackIDPrefix + strconv.Itoa(index)
}

func stringID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return fmt.Sprint(id)
	}
}

// Encode writes features back out as a FeatureCollection.
func Encode(w io.Writer, fs []feature.Feature) error {
	fc := geojson.NewFeatureCollection()
	for _, f := range fs {
		coords := f.Coordinates()
		var g orb.Geometry
		switch {
		case f.Kind() == feature.KindPoint && len(coords) == 1:
			g = coords[0]
		case f.Kind() == feature.KindLine && len(coords) >= 2:
			g = orb.LineString(coords)
		default:
			continue
		}
		gf := geojson.NewFeature(g)
		gf.ID = f.ID()
		gf.Properties = geojson.Properties(maps.Clone(map[string]any(f.Attributes())))
		fc.Append(gf)
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	_, err = w.Write(data)
	return err
}
