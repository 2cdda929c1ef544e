// Package paint models paint-server variants (gradients, patterns,
// clip paths, masks, markers, filters) as plain records; the PDL
// shading and pattern dictionaries are built from them by pkg/compile.
package paint

import "github.com/inkdoc/inkdoc/pkg/color"

// SpreadMethod is a gradient's spread behavior beyond its 0..1 domain.
type SpreadMethod int

const (
	SpreadPad SpreadMethod = iota
	SpreadReflect
	SpreadRepeat
)

// UnitSpace selects whether coordinates are relative to a bounding box
// ([0,1]) or given directly in user space.
type UnitSpace int

const (
	ObjectBoundingBox UnitSpace = iota
	UserSpaceOnUse
)

// Stop is one gradient color stop.
type Stop struct {
	Offset  float64 // 0..1
	Color   color.RGB
	Opacity float64 // 0..1
}

// Gradient is the flattened, self-contained gradient record (href
// inheritance already resolved at parse time, per spec §9).
type Gradient struct {
	ID     string
	Linear bool // false => radial

	// Linear.
	X1, Y1, X2, Y2 float64

	// Radial.
	CX, CY, R, FX, FY, FR float64

	Stops      []Stop
	Spread     SpreadMethod
	Units      UnitSpace
	Transform  [6]float64 // a b c d e f; all zero unless HasMatrix
	HasMatrix  bool
}

// Pattern is a tile-rectangle paint server with nested content elements.
// Content is an opaque reference resolved by the caller (pkg/compile)
// to avoid an import cycle back to pkg/scene's element tree.
type Pattern struct {
	ID                    string
	X, Y, Width, Height   float64
	Units                 UnitSpace
	ContentUnits          UnitSpace
	PatternTransform      [6]float64
	HasMatrix             bool
	ContentElementIDs     []string // populated by the scene parser; content is looked up in the document
}

type ClipRule int

const (
	ClipNonzero ClipRule = iota
	ClipEvenOdd
)

type ClipPath struct {
	ID   string
	Rule ClipRule
	// Content element ids are resolved against the owning document by
	// the compiler, mirroring Pattern's ContentElementIDs.
}

type MaskType int

const (
	MaskLuminance MaskType = iota
	MaskAlpha
)

type Mask struct {
	ID                  string
	Type                MaskType
	X, Y, Width, Height float64
	HasRegion           bool
}

// Filter models the one `<filter>` shape spec §1 singles out as
// supported: a simplified offset-copy drop shadow (an feDropShadow
// primitive, or the feOffset+feGaussianBlur+feMerge idiom that
// approximates one). Blur radius is deliberately not modeled — the
// approximation is a flat-color offset copy, not a blurred one. Every
// other filter primitive is data-only: recognized by
// collectDefinitions (so a document round-trips through the
// side-table) but never emitted, per §3's "filters (data only)".
type Filter struct {
	ID           string
	IsDropShadow bool
	DX, DY       float64
	FloodColor   color.RGB
	FloodOpacity float64
}

type MarkerOrient int

const (
	OrientAuto MarkerOrient = iota
	OrientAutoStartReverse
	OrientAngle
)

type MarkerUnits int

const (
	MarkerUnitsStrokeWidth MarkerUnits = iota
	MarkerUnitsUserSpaceOnUse
)

type Marker struct {
	ID                  string
	RefX, RefY          float64
	Width, Height       float64
	Units               MarkerUnits
	Orient              MarkerOrient
	OrientAngleDegrees   float64
	HasViewBox          bool
	ViewBox             [4]float64 // minX minY w h
}
