package geometry

import (
	"encoding/binary"
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"
	"github.com/twpayne/go-geom/encoding/wkt"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Drawing is a parsed user geometry: a 2D section line, or a 3D line when the
// input carried a Z coordinate.
type Drawing struct {
	Line2 Line2
	Line3 Line3
	HasZ  bool
}

// ParseWKT parses a POINT or LINESTRING in well-known text, with or without Z.
func ParseWKT(s string) (Drawing, error) {
	g, err := wkt.Unmarshal(s)
	if err != nil {
		return Drawing{}, fmt.Errorf("failed to parse WKT: %w", err)
	}

	var flat []float64
	switch t := g.(type) {
	case *geom.LineString:
		flat = t.FlatCoords()
	case *geom.Point:
		flat = t.FlatCoords()
	default:
		return Drawing{}, fmt.Errorf("unsupported geometry type %T", g)
	}

	layout := g.Layout()
	stride := layout.Stride()
	if len(flat) == 0 {
		return Drawing{}, fmt.Errorf("empty geometry")
	}

	var d Drawing
	d.HasZ = layout.ZIndex() >= 0
	for i := 0; i+stride <= len(flat); i += stride {
		if d.HasZ {
			d.Line3 = append(d.Line3, r3.Vec{X: flat[i], Y: flat[i+1], Z: flat[i+layout.ZIndex()]})
		} else {
			d.Line2 = append(d.Line2, r2.Vec{X: flat[i], Y: flat[i+1]})
		}
	}
	return d, nil
}

// WKT renders the line as LINESTRING Z.
func (l Line3) WKT() (string, error) {
	return wkt.Marshal(l.lineString())
}

// WKT renders the line as LINESTRING.
func (l Line2) WKT() (string, error) {
	return wkt.Marshal(l.lineString())
}

// EncodeWKB encodes the line as little-endian WKB.
func (l Line3) EncodeWKB() ([]byte, error) {
	return wkb.Marshal(l.lineString(), binary.LittleEndian)
}

// EncodeWKB encodes the line as little-endian WKB.
func (l Line2) EncodeWKB() ([]byte, error) {
	return wkb.Marshal(l.lineString(), binary.LittleEndian)
}

// DecodeLine3 decodes a WKB LINESTRING Z. A nil or empty buffer yields a nil line.
func DecodeLine3(b []byte) (Line3, error) {
	ls, err := decodeLineString(b)
	if err != nil || ls == nil {
		return nil, err
	}
	z := ls.Layout().ZIndex()
	if z < 0 {
		return nil, fmt.Errorf("expected a 3D line, got layout %v", ls.Layout())
	}
	flat, stride := ls.FlatCoords(), ls.Stride()
	out := make(Line3, 0, len(flat)/stride)
	for i := 0; i+stride <= len(flat); i += stride {
		out = append(out, r3.Vec{X: flat[i], Y: flat[i+1], Z: flat[i+z]})
	}
	return out, nil
}

// DecodeLine2 decodes a WKB LINESTRING, ignoring any Z or M ordinate.
func DecodeLine2(b []byte) (Line2, error) {
	ls, err := decodeLineString(b)
	if err != nil || ls == nil {
		return nil, err
	}
	flat, stride := ls.FlatCoords(), ls.Stride()
	out := make(Line2, 0, len(flat)/stride)
	for i := 0; i+stride <= len(flat); i += stride {
		out = append(out, r2.Vec{X: flat[i], Y: flat[i+1]})
	}
	return out, nil
}

func decodeLineString(b []byte) (*geom.LineString, error) {
	if len(b) == 0 {
		return nil, nil
	}
	g, err := wkb.Unmarshal(b)
	if err != nil {
		return nil, fmt.Errorf("failed to decode WKB: %w", err)
	}
	ls, ok := g.(*geom.LineString)
	if !ok {
		return nil, fmt.Errorf("expected LINESTRING, got %T", g)
	}
	return ls, nil
}

func (l Line3) lineString() *geom.LineString {
	flat := make([]float64, 0, 3*len(l))
	for _, p := range l {
		flat = append(flat, p.X, p.Y, p.Z)
	}
	return geom.NewLineStringFlat(geom.XYZ, flat)
}

func (l Line2) lineString() *geom.LineString {
	flat := make([]float64, 0, 2*len(l))
	for _, p := range l {
		flat = append(flat, p.X, p.Y)
	}
	return geom.NewLineStringFlat(geom.XY, flat)
}
