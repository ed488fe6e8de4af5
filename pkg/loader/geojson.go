package loader

import (
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/lintang-b-s/navigatorx-lastmile/pkg"
	da "github.com/lintang-b-s/navigatorx-lastmile/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/geo"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/util"
)

func readFeatureCollection(r io.Reader) (*geojson.FeatureCollection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "invalid geojson feature collection: %v", err)
	}
	return fc, nil
}

// LoadGraphGeoJSON. builds a graph from LineString features, one edge per feature.
// from/to properties name the end vertices, when missing the end coordinates identify them.
// length (meter) defaults to the measured geometry length, oneway defaults to false.
func LoadGraphGeoJSON(r io.Reader) (*da.Graph, error) {
	fc, err := readFeatureCollection(r)
	if err != nil {
		return nil, err
	}

	b := da.NewGraphBuilderWithSize(2*len(fc.Features), len(fc.Features))
	vertexIds := make(map[string]da.Index)

	vertex := func(key string, p orb.Point) (da.Index, error) {
		if id, ok := vertexIds[key]; ok {
			return id, nil
		}
		id, err := b.AddVertex(p.Lat(), p.Lon())
		if err != nil {
			return 0, err
		}
		vertexIds[key] = id
		return id, nil
	}

	for i, f := range fc.Features {
		ls, ok := f.Geometry.(orb.LineString)
		if !ok || len(ls) < 2 {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "graph feature %d is not a LineString with at least 2 points", i)
		}
		first, last := ls[0], ls[len(ls)-1]

		tail, err := vertex(nodeKey(f.Properties, "from", first), first)
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrBadParamInput, "graph feature %d: %v", i, err)
		}
		head, err := vertex(nodeKey(f.Properties, "to", last), last)
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrBadParamInput, "graph feature %d: %v", i, err)
		}

		interior := make([]geo.Coordinate, 0, len(ls)-2)
		for _, p := range ls[1 : len(ls)-1] {
			interior = append(interior, geo.FromPoint(p))
		}

		length := f.Properties.MustFloat64("length", geo.LineStringLength(ls))
		oneway := f.Properties.MustBool("oneway", false)
		if _, err := b.AddEdge(tail, head, length, interior, !oneway); err != nil {
			return nil, util.WrapErrorf(err, util.ErrBadParamInput, "graph feature %d: %v", i, err)
		}
	}

	return b.Build(), nil
}

func nodeKey(props geojson.Properties, key string, p orb.Point) string {
	if v, ok := props[key]; ok && v != nil {
		return fmt.Sprintf("id:%v", v)
	}
	q := geo.QuantizePoint(p, pkg.COORD_PRECISION)
	return fmt.Sprintf("pt:%v,%v", q[0], q[1])
}

// LoadInfrastructureGeoJSON. LineString and MultiLineString features become infrastructure features,
// other geometries are ignored. the feature name is read from NAME (or name).
func LoadInfrastructureGeoJSON(r io.Reader) (*da.InfrastructureLayer, error) {
	fc, err := readFeatureCollection(r)
	if err != nil {
		return nil, err
	}

	features := make([]da.InfrastructureFeature, 0, len(fc.Features))
	for _, f := range fc.Features {
		var mls orb.MultiLineString
		switch g := f.Geometry.(type) {
		case orb.LineString:
			mls = orb.MultiLineString{g}
		case orb.MultiLineString:
			mls = g
		default:
			continue
		}
		name := f.Properties.MustString("NAME", f.Properties.MustString("name", ""))
		features = append(features, da.InfrastructureFeature{Name: name, Geometry: mls})
	}
	return da.NewInfrastructureLayer(features), nil
}

// WriteDetailedGeoJSON. one feature per classified sub-segment of every solved result.
func WriteDetailedGeoJSON(w io.Writer, results []da.RouteResult) error {
	fc := geojson.NewFeatureCollection()
	for i := range results {
		r := &results[i]
		if !r.IsSolved() {
			continue
		}
		for j, s := range r.SubSegments {
			f := geojson.NewFeature(s.Geometry)
			f.Properties["seq"] = r.Seq
			f.Properties["fe_name"] = r.FarEndName
			f.Properties["ne_name"] = r.NearEndName
			f.Properties["part"] = j
			f.Properties["type"] = s.Tag.String()
			f.Properties["label"] = s.Tag.Label()
			f.Properties["distance_m"] = s.Length
			f.Properties["start_m"] = s.Start
			f.Properties["end_m"] = s.End
			fc.Append(f)
		}
	}
	return writeFeatureCollection(w, fc)
}

// WriteDissolvedGeoJSON. one MultiLineString feature per dissolved group.
func WriteDissolvedGeoJSON(w io.Writer, groups []da.DissolvedGroup) error {
	fc := geojson.NewFeatureCollection()
	for _, g := range groups {
		f := geojson.NewFeature(g.Geometry)
		f.Properties["type"] = g.Tag.String()
		f.Properties["label"] = g.Label
		f.Properties["total_distance_m"] = g.Length
		f.Properties["segment_count"] = g.SegmentCount
		f.Properties["requests"] = g.Requests
		fc.Append(f)
	}
	return writeFeatureCollection(w, fc)
}

func writeFeatureCollection(w io.Writer, fc *geojson.FeatureCollection) error {
	data, err := fc.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
