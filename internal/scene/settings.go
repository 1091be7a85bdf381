package scene

import "fmt"

// SystemUnit is a length unit expressed, like the SDK does, as a number of
// centimetres times a multiplier.
type SystemUnit struct {
	ScaleFactor float64
	Multiplier  float64
}

var (
	Millimeter = SystemUnit{ScaleFactor: 0.1, Multiplier: 1}
	Centimeter = SystemUnit{ScaleFactor: 1, Multiplier: 1}
	Decimeter  = SystemUnit{ScaleFactor: 10, Multiplier: 1}
	Meter      = SystemUnit{ScaleFactor: 100, Multiplier: 1}
	Kilometer  = SystemUnit{ScaleFactor: 100000, Multiplier: 1}
	Inch       = SystemUnit{ScaleFactor: 2.54, Multiplier: 1}
	Foot       = SystemUnit{ScaleFactor: 30.48, Multiplier: 1}
	Yard       = SystemUnit{ScaleFactor: 91.44, Multiplier: 1}
	Mile       = SystemUnit{ScaleFactor: 160934.4, Multiplier: 1}
)

var unitNames = map[string]SystemUnit{
	"mm": Millimeter, "cm": Centimeter, "dm": Decimeter, "m": Meter,
	"km": Kilometer, "inch": Inch, "foot": Foot, "yard": Yard, "mile": Mile,
}

// ParseSystemUnit looks up a unit by its short name ("cm", "m", "inch", ...).
func ParseSystemUnit(s string) (SystemUnit, error) {
	u, ok := unitNames[s]
	if !ok {
		return SystemUnit{}, fmt.Errorf("scene: unknown system unit %q", s)
	}
	return u, nil
}

// centimeters is the length of one unit in centimetres. A zero multiplier
// counts as 1 so zero-value units read like the SDK's defaults.
func (u SystemUnit) centimeters() float64 {
	m := u.Multiplier
	if m == 0 {
		m = 1
	}
	sf := u.ScaleFactor
	if sf == 0 {
		sf = 1
	}
	return sf * m
}

// ConversionFactorTo returns the factor a length in u must be multiplied by
// to be expressed in target.
func (u SystemUnit) ConversionFactorTo(target SystemUnit) float64 {
	return u.centimeters() / target.centimeters()
}

// Equal compares the effective length of both units.
func (u SystemUnit) Equal(o SystemUnit) bool {
	return u.centimeters() == o.centimeters()
}

func (u SystemUnit) String() string {
	for name, known := range unitNames {
		if known.Equal(u) {
			return name
		}
	}
	return fmt.Sprintf("%gcm", u.centimeters())
}

// UpVector is the signed up axis.
type UpVector int

const (
	XAxis UpVector = 1
	YAxis UpVector = 2
	ZAxis UpVector = 3
)

// FrontVector is the signed parity of the front axis relative to up.
type FrontVector int

const (
	ParityEven FrontVector = 1
	ParityOdd  FrontVector = 2
)

// CoordSystem is the handedness of the frame.
type CoordSystem int

const (
	RightHanded CoordSystem = iota
	LeftHanded
)

// AxisSystem is the (up, front, handedness) triple of a file.
// Negative Up or Front values mean the negative direction.
type AxisSystem struct {
	Up    UpVector
	Front FrontVector
	Coord CoordSystem
}

var (
	// MayaYUp is the default of most DCC exporters.
	MayaYUp = AxisSystem{Up: YAxis, Front: ParityOdd, Coord: RightHanded}
	// MayaZUp and Max share the Z-up right-handed convention.
	MayaZUp = AxisSystem{Up: ZAxis, Front: ParityOdd, Coord: RightHanded}
	// EngineAxis is Y up, Z forward, X right, left handed.
	EngineAxis = AxisSystem{Up: YAxis, Front: ParityOdd, Coord: LeftHanded}
)

var (
	upNames    = map[UpVector]string{XAxis: "x", YAxis: "y", ZAxis: "z", -XAxis: "-x", -YAxis: "-y", -ZAxis: "-z"}
	frontNames = map[FrontVector]string{ParityEven: "even", ParityOdd: "odd", -ParityEven: "-even", -ParityOdd: "-odd"}
)

// Names returns the up, front and handedness names ParseAxisSystem accepts.
func (a AxisSystem) Names() (up, front, coord string) {
	coord = "right"
	if a.Coord == LeftHanded {
		coord = "left"
	}
	return upNames[a.Up], frontNames[a.Front], coord
}

func (a AxisSystem) String() string {
	up, front, coord := a.Names()
	return fmt.Sprintf("[up=%s, front=%s, %s-handed]", up, front, coord)
}

// ParseAxisSystem reads the names returned by Names.
func ParseAxisSystem(up, front, coord string) (AxisSystem, error) {
	var a AxisSystem
	for v, n := range upNames {
		if n == up {
			a.Up = v
		}
	}
	if a.Up == 0 {
		return AxisSystem{}, fmt.Errorf("scene: unknown up axis %q", up)
	}
	for v, n := range frontNames {
		if n == front {
			a.Front = v
		}
	}
	if a.Front == 0 {
		return AxisSystem{}, fmt.Errorf("scene: unknown front parity %q", front)
	}
	switch coord {
	case "right":
		a.Coord = RightHanded
	case "left":
		a.Coord = LeftHanded
	default:
		return AxisSystem{}, fmt.Errorf("scene: unknown handedness %q", coord)
	}
	return a, nil
}
