package scene

import (
	"math"
	"testing"
)

func TestConversionFactor(t *testing.T) {
	cases := []struct {
		from, to SystemUnit
		want     float64
	}{
		{Centimeter, Meter, 0.01},
		{Meter, Centimeter, 100},
		{Inch, Centimeter, 2.54},
		{Millimeter, Meter, 0.001},
		{SystemUnit{}, Centimeter, 1},
		{SystemUnit{ScaleFactor: 1, Multiplier: 3}, Meter, 0.03},
	}
	for _, c := range cases {
		if got := c.from.ConversionFactorTo(c.to); math.Abs(got-c.want) > 1e-12 {
			t.Fatalf("%s -> %s: got %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestParseSystemUnit(t *testing.T) {
	u, err := ParseSystemUnit("m")
	if err != nil || !u.Equal(Meter) || u.String() != "m" {
		t.Fatalf("parse m: %v %v", u, err)
	}
	if _, err := ParseSystemUnit("furlong"); err == nil {
		t.Fatalf("expected error")
	}
	if s := (SystemUnit{ScaleFactor: 3, Multiplier: 1}).String(); s != "3cm" {
		t.Fatalf("custom unit name: %q", s)
	}
}

func TestAxisSystemNames(t *testing.T) {
	for _, a := range []AxisSystem{MayaYUp, MayaZUp, EngineAxis, {Up: -XAxis, Front: -ParityEven, Coord: LeftHanded}} {
		up, front, coord := a.Names()
		got, err := ParseAxisSystem(up, front, coord)
		if err != nil || got != a {
			t.Fatalf("round trip %v: got %v, %v", a, got, err)
		}
	}
	if EngineAxis.String() != "[up=y, front=odd, left-handed]" {
		t.Fatalf("string: %s", EngineAxis)
	}
	bad := [][3]string{{"w", "odd", "left"}, {"y", "sideways", "left"}, {"y", "odd", "ambidextrous"}}
	for _, b := range bad {
		if _, err := ParseAxisSystem(b[0], b[1], b[2]); err == nil {
			t.Fatalf("expected error for %v", b)
		}
	}
}

func TestParseModes(t *testing.T) {
	if m, err := ParseMappingMode(ByControlPoint.String()); err != nil || m != ByControlPoint {
		t.Fatalf("mapping: %v %v", m, err)
	}
	if r, err := ParseReferenceMode(IndexToDirect.String()); err != nil || r != IndexToDirect {
		t.Fatalf("reference: %v %v", r, err)
	}
	if e, err := ParseElementType("Emissive"); err != nil || e != TextureEmissive {
		t.Fatalf("element: %v %v", e, err)
	}
	if e, err := ParseElementType("type_count"); err != nil || e != TypeCount {
		t.Fatalf("type count: %v %v", e, err)
	}
	if _, err := ParseMappingMode("by_magic"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestMeshAccessors(t *testing.T) {
	m := &Mesh{Polygons: [][]int{{0, 1, 2}, {2, 1, 3}}}
	if got := m.PolygonVertices(); len(got) != 6 || got[3] != 2 || got[5] != 3 {
		t.Fatalf("polygon vertices: %v", got)
	}
	if m.Layer(0) != nil || m.Layer(-1) != nil {
		t.Fatalf("expected nil layer")
	}
	var l Layer
	if l.UVs() != nil {
		t.Fatalf("expected no uvs")
	}
	el := &UVElement{Name: "map1"}
	l.SetUVs(TextureDiffuse, el)
	if l.UVs() != el || l.UVsOf(TextureAmbient) != nil {
		t.Fatalf("uv lookup")
	}
}
