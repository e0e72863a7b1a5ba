package widget

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Type enumerates property value types.
type Type int

const (
	FloatT Type = iota
	IntT
	BoolT
	StringT
	ColorT
	FloatsT
	DatasetT // a dataset name in the registry
)

func (t Type) String() string {
	return []string{"float", "int", "bool", "string", "color", "floats", "dataset"}[int(t)]
}

// Key names a property. The valid keys per node kind are fixed by the
// schema below.
type Key string

// Common keys.
const (
	KeyHidden  Key = "hidden"
	KeyOverlay Key = "overlay"

	// Grid.
	KeyRows      Key = "rows"
	KeyColumns   Key = "columns"
	KeyRowRatios Key = "rowRatios"
	KeyColRatios Key = "colRatios"

	// Graph.
	KeyTitle Key = "title"

	// Axis.
	KeyDirection  Key = "direction" // "horizontal" or "vertical"
	KeyAxisLabel  Key = "label"
	KeyMin        Key = "min"
	KeyMax        Key = "max"
	KeyScaleKind  Key = "scale" // linear, log, date, function
	KeyScaleFunc  Key = "scaleFunction"
	KeyTickTarget Key = "tickTarget"
	KeyLink       Key = "link"
	KeyBreaks     Key = "breaks"      // flattened lo,hi pairs in data space
	KeyBreakComp  Key = "breakScales" // per-break compression factors
	KeyGridLines  Key = "gridLines"

	// Plot elements.
	KeyXData    Key = "xData"
	KeyYData    Key = "yData"
	KeyUData    Key = "uData"
	KeyVData    Key = "vData"
	KeyZData    Key = "zData" // grid values for contour/image
	KeyAData    Key = "aData" // ternary fractions
	KeyBData    Key = "bData"
	KeyCData    Key = "cData"
	KeyRData    Key = "rData"     // polar radius
	KeyThData   Key = "thetaData" // polar angle, radians
	KeyGridCols Key = "gridColumns"
	KeyFunction Key = "function"
	KeySamples  Key = "samples"
	KeyLevels   Key = "levels" // contour level count

	// Style.
	KeyColor      Key = "color"
	KeyFillColor  Key = "fillColor"
	KeyLineWidth  Key = "lineWidth"
	KeyDashes     Key = "dashes"
	KeyMarker     Key = "marker" // none, circle, square, diamond, cross, plus
	KeyMarkerSize Key = "markerSize"
	KeyStep       Key = "step" // off, left, right, center
	KeyColorMap   Key = "colorMap"
	KeyBarWidth   Key = "barWidth"
	KeyHorizontal Key = "horizontal"

	// Label / Shape. Positions are fractions of the parent rectangle.
	KeyText   Key = "text"
	KeyXPos   Key = "xPos"
	KeyYPos   Key = "yPos"
	KeyWidth  Key = "width"
	KeyHeight Key = "height"
	KeyForm   Key = "form" // rectangle or ellipse
	KeyAngle  Key = "angle"
	KeyFont   Key = "font"
	KeySize   Key = "size"
)

// A Value is a typed property value.
type Value struct {
	typ Type
	f   float64
	i   int
	b   bool
	s   string
	c   color.RGBA
	fs  []float64
}

func Float(x float64) Value    { return Value{typ: FloatT, f: x} }
func Int(i int) Value          { return Value{typ: IntT, i: i} }
func Bool(b bool) Value        { return Value{typ: BoolT, b: b} }
func String(s string) Value    { return Value{typ: StringT, s: s} }
func Color(c color.RGBA) Value { return Value{typ: ColorT, c: c} }
func Floats(fs ...float64) Value {
	return Value{typ: FloatsT, fs: append([]float64(nil), fs...)}
}
func DatasetRef(name string) Value { return Value{typ: DatasetT, s: name} }

// ParseColor builds a color value from a name known to
// x/image/colornames or a #rrggbb / #rrggbbaa hex string.
func ParseColor(s string) (Value, error) {
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return Color(c), nil
	}
	if strings.HasPrefix(s, "#") && (len(s) == 7 || len(s) == 9) {
		v, err := strconv.ParseUint(s[1:], 16, 64)
		if err != nil {
			return Value{}, fmt.Errorf("widget: bad color %q: %w", s, err)
		}
		c := color.RGBA{A: 0xff}
		if len(s) == 9 {
			c.A = uint8(v)
			v >>= 8
		}
		c.B = uint8(v)
		c.G = uint8(v >> 8)
		c.R = uint8(v >> 16)
		return Color(c), nil
	}
	return Value{}, fmt.Errorf("widget: unknown color %q", s)
}

func (v Value) Type() Type         { return v.typ }
func (v Value) Float() float64     { return v.f }
func (v Value) Int() int           { return v.i }
func (v Value) Bool() bool         { return v.b }
func (v Value) Str() string        { return v.s }
func (v Value) Color() color.RGBA  { return v.c }
func (v Value) Floats() []float64  { return append([]float64(nil), v.fs...) }
func (v Value) Dataset() string    { return v.s }

func (v Value) String() string {
	switch v.typ {
	case FloatT:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case IntT:
		return strconv.Itoa(v.i)
	case BoolT:
		return strconv.FormatBool(v.b)
	case StringT, DatasetT:
		return v.s
	case ColorT:
		return fmt.Sprintf("#%02x%02x%02x", v.c.R, v.c.G, v.c.B)
	case FloatsT:
		return fmt.Sprint(v.fs)
	}
	return "?"
}

// schema fixes the set of valid keys and their types per node kind.
var schema = map[Kind]map[Key]Type{
	Root: {},
	Page: {KeyHidden: BoolT, KeyTitle: StringT},
	Grid: {
		KeyHidden: BoolT, KeyOverlay: BoolT, KeyRows: IntT, KeyColumns: IntT,
		KeyRowRatios: FloatsT, KeyColRatios: FloatsT,
	},
	Graph: {
		KeyHidden: BoolT, KeyTitle: StringT, KeyOverlay: BoolT,
		KeyFillColor: ColorT,
		KeyXPos:      FloatT, KeyYPos: FloatT, KeyWidth: FloatT, KeyHeight: FloatT,
	},
	Axis: {
		KeyHidden: BoolT, KeyDirection: StringT, KeyAxisLabel: StringT,
		KeyMin: FloatT, KeyMax: FloatT, KeyScaleKind: StringT,
		KeyScaleFunc: StringT, KeyTickTarget: IntT, KeyLink: StringT,
		KeyBreaks: FloatsT, KeyBreakComp: FloatsT, KeyGridLines: BoolT,
		KeyColor: ColorT, KeyLineWidth: FloatT,
	},
	XY: {
		KeyHidden: BoolT, KeyXData: DatasetT, KeyYData: DatasetT,
		KeyColor: ColorT, KeyFillColor: ColorT, KeyLineWidth: FloatT,
		KeyDashes: FloatsT, KeyMarker: StringT, KeyMarkerSize: FloatT,
		KeyStep: StringT,
	},
	Bar: {
		KeyHidden: BoolT, KeyXData: DatasetT, KeyYData: DatasetT,
		KeyColor: ColorT, KeyFillColor: ColorT, KeyLineWidth: FloatT,
		KeyBarWidth: FloatT, KeyHorizontal: BoolT,
	},
	Box: {
		KeyHidden: BoolT, KeyXPos: FloatT, KeyYData: DatasetT,
		KeyColor: ColorT, KeyFillColor: ColorT, KeyLineWidth: FloatT,
		KeyBarWidth: FloatT, KeyMarkerSize: FloatT,
	},
	Contour: {
		KeyHidden: BoolT, KeyZData: DatasetT, KeyGridCols: IntT,
		KeyXData: DatasetT, KeyYData: DatasetT,
		KeyLevels: IntT, KeyColorMap: StringT, KeyLineWidth: FloatT,
	},
	Image: {
		KeyHidden: BoolT, KeyZData: DatasetT, KeyGridCols: IntT,
		KeyXData: DatasetT, KeyYData: DatasetT, KeyColorMap: StringT,
	},
	VectorField: {
		KeyHidden: BoolT, KeyXData: DatasetT, KeyYData: DatasetT,
		KeyUData: DatasetT, KeyVData: DatasetT,
		KeyColor: ColorT, KeyLineWidth: FloatT, KeyMarkerSize: FloatT,
	},
	Polar: {
		KeyHidden: BoolT, KeyRData: DatasetT, KeyThData: DatasetT,
		KeyColor: ColorT, KeyLineWidth: FloatT, KeyMarker: StringT,
		KeyMarkerSize: FloatT,
	},
	Ternary: {
		KeyHidden: BoolT, KeyAData: DatasetT, KeyBData: DatasetT,
		KeyCData: DatasetT, KeyColor: ColorT, KeyLineWidth: FloatT,
		KeyMarker: StringT, KeyMarkerSize: FloatT,
	},
	Function: {
		KeyHidden: BoolT, KeyFunction: StringT, KeySamples: IntT,
		KeyColor: ColorT, KeyLineWidth: FloatT, KeyDashes: FloatsT,
	},
	Label: {
		KeyHidden: BoolT, KeyText: StringT, KeyXPos: FloatT, KeyYPos: FloatT,
		KeyColor: ColorT, KeySize: FloatT, KeyAngle: FloatT, KeyFont: StringT,
	},
	Shape: {
		KeyHidden: BoolT, KeyForm: StringT, KeyXPos: FloatT, KeyYPos: FloatT,
		KeyWidth: FloatT, KeyHeight: FloatT,
		KeyColor: ColorT, KeyFillColor: ColorT, KeyLineWidth: FloatT,
	},
}

// A PropertyError reports an edit with an unknown key or a value of
// the wrong type for the node's kind.
type PropertyError struct {
	Kind    Kind
	Key     Key
	Got     Type
	Want    Type
	Unknown bool
}

func (e *PropertyError) Error() string {
	if e.Unknown {
		return fmt.Sprintf("widget: kind %s has no property %q", e.Kind, e.Key)
	}
	return fmt.Sprintf("widget: property %q of kind %s wants %s, got %s",
		e.Key, e.Kind, e.Want, e.Got)
}

// validate checks key/value against the schema for kind.
func validate(kind Kind, key Key, v Value) error {
	want, ok := schema[kind][key]
	if !ok {
		return &PropertyError{Kind: kind, Key: key, Unknown: true}
	}
	if v.typ != want {
		return &PropertyError{Kind: kind, Key: key, Got: v.typ, Want: want}
	}
	return nil
}
