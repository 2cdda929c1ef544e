package compile

import (
	"strings"

	"github.com/inkdoc/inkdoc/pkg/paint"
)

// buildShading constructs a PDL shading dictionary for a gradient,
// resolving gradientUnits against bb and honoring spreadMethod via the
// Extend array, per spec §4.6 "Gradient -> shading". Grounded on the
// teacher's Shading/ShadingFunction model (pkg/gopdf/shading.go),
// reworked from an interpreter's object model into a dictionary
// serializer since the compiler only needs to emit the bytes.
func buildShading(g *paint.Gradient, bb bbox) []byte {
	var b strings.Builder
	extend := extendFor(g.Spread)

	resolve := func(x, y float64) (float64, float64) {
		if g.Units == paint.UserSpaceOnUse {
			return x, y
		}
		if !bb.Valid {
			return x, y
		}
		return bb.X + x*bb.W, bb.Y + y*bb.H
	}

	b.WriteString("<< /ShadingType ")
	if g.Linear {
		x0, y0 := resolve(g.X1, g.Y1)
		x1, y1 := resolve(g.X2, g.Y2)
		b.WriteString("2 /ColorSpace /DeviceRGB /Coords [" + fnums(x0, y0, x1, y1) + "]")
	} else {
		fx, fy := resolve(g.FX, g.FY)
		cx, cy := resolve(g.CX, g.CY)
		var r float64
		if g.Units == paint.UserSpaceOnUse {
			r = g.R
		} else if bb.Valid {
			r = g.R * (bb.W + bb.H) / 2
		} else {
			r = g.R
		}
		b.WriteString("3 /ColorSpace /DeviceRGB /Coords [" + fnums(fx, fy, g.FR, cx, cy, r) + "]")
	}
	b.WriteString(" /Extend [" + extend + "]")
	b.WriteString(" /Function " + string(buildStitchingFunction(g.Stops)))
	b.WriteString(" >>")
	return []byte(b.String())
}

func extendFor(s paint.SpreadMethod) string {
	switch s {
	case paint.SpreadPad:
		return "true true"
	default:
		// Reflect/repeat beyond the gradient vector aren't representable
		// by Extend alone; for them the shading is not extended, so
		// nothing is painted beyond the ends of the gradient vector.
		return "false false"
	}
}

// buildStitchingFunction builds a Function Type 3 stitching adjacent
// stops with Function Type 2 (N=1, linear) pieces, per spec §4.6.
func buildStitchingFunction(stops []paint.Stop) []byte {
	if len(stops) == 0 {
		return []byte("<< /FunctionType 2 /Domain [0 1] /C0 [0 0 0] /C1 [0 0 0] /N 1 >>")
	}
	if len(stops) == 1 {
		c := fnums(stops[0].Color.R, stops[0].Color.G, stops[0].Color.B)
		return []byte("<< /FunctionType 2 /Domain [0 1] /C0 [" + c + "] /C1 [" + c + "] /N 1 >>")
	}

	var funcs, bounds, encode []string
	for i := 0; i+1 < len(stops); i++ {
		a, z := stops[i], stops[i+1]
		c0 := fnums(a.Color.R, a.Color.G, a.Color.B)
		c1 := fnums(z.Color.R, z.Color.G, z.Color.B)
		funcs = append(funcs, "<< /FunctionType 2 /Domain [0 1] /C0 ["+c0+"] /C1 ["+c1+"] /N 1 >>")
		if i > 0 {
			bounds = append(bounds, fnum(a.Offset))
		}
		encode = append(encode, "0 1")
	}

	var b strings.Builder
	b.WriteString("<< /FunctionType 3 /Domain [0 1]")
	b.WriteString(" /Functions [" + strings.Join(funcs, " ") + "]")
	if len(bounds) > 0 {
		b.WriteString(" /Bounds [" + strings.Join(bounds, " ") + "]")
	} else {
		b.WriteString(" /Bounds []")
	}
	b.WriteString(" /Encode [" + strings.Join(encode, " ") + "]")
	b.WriteString(" >>")
	return []byte(b.String())
}
