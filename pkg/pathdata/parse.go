package pathdata

import "math"

// Parse tokenizes and interprets d per spec's M/L/H/V/C/S/Q/T/A/Z
// grammar, converting quadratic curves and elliptical arcs to cubic
// Bezier segments, and returns the resulting command stream.
func Parse(d string) *Path {
	p := &Path{}
	toks := tokenize(d)

	var curX, curY float64
	var startX, startY float64
	var lastCtrlX, lastCtrlY float64
	var prevCmd byte
	haveCurrent := false

	i := 0
	n := len(toks)
	nextNum := func() (float64, bool) {
		if i >= n || toks[i].isCmd {
			return 0, false
		}
		v := toks[i].num
		i++
		return v, true
	}

	for i < n {
		if !toks[i].isCmd {
			// Stray number with no command context: ignore.
			i++
			continue
		}
		cmd := toks[i].cmd
		i++

		switch cmd {
		case 'M', 'm':
			x, ok1 := nextNum()
			y, ok2 := nextNum()
			if !ok1 || !ok2 {
				break
			}
			if cmd == 'm' && haveCurrent {
				x += curX
				y += curY
			}
			p.moveTo(x, y)
			curX, curY = x, y
			startX, startY = x, y
			haveCurrent = true
			prevCmd = cmd
			// Subsequent coordinate pairs after M degrade to L (or l).
			lineCmd := byte('L')
			if cmd == 'm' {
				lineCmd = 'l'
			}
			for i < n && !toks[i].isCmd {
				x2, ok1 := nextNum()
				y2, ok2 := nextNum()
				if !ok1 || !ok2 {
					break
				}
				if lineCmd == 'l' {
					x2 += curX
					y2 += curY
				}
				p.lineTo(x2, y2)
				curX, curY = x2, y2
				prevCmd = lineCmd
			}

		case 'L', 'l':
			for {
				x, ok1 := nextNum()
				y, ok2 := nextNum()
				if !ok1 || !ok2 {
					break
				}
				if cmd == 'l' {
					x += curX
					y += curY
				}
				p.lineTo(x, y)
				curX, curY = x, y
				prevCmd = cmd
			}

		case 'H', 'h':
			for {
				x, ok := nextNum()
				if !ok {
					break
				}
				if cmd == 'h' {
					x += curX
				}
				p.lineTo(x, curY)
				curX = x
				prevCmd = cmd
			}

		case 'V', 'v':
			for {
				y, ok := nextNum()
				if !ok {
					break
				}
				if cmd == 'v' {
					y += curY
				}
				p.lineTo(curX, y)
				curY = y
				prevCmd = cmd
			}

		case 'C', 'c':
			for {
				x1, ok1 := nextNum()
				y1, ok2 := nextNum()
				x2, ok3 := nextNum()
				y2, ok4 := nextNum()
				x3, ok5 := nextNum()
				y3, ok6 := nextNum()
				if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
					break
				}
				if cmd == 'c' {
					x1 += curX
					y1 += curY
					x2 += curX
					y2 += curY
					x3 += curX
					y3 += curY
				}
				p.curveTo(x1, y1, x2, y2, x3, y3)
				lastCtrlX, lastCtrlY = x2, y2
				curX, curY = x3, y3
				prevCmd = cmd
			}

		case 'S', 's':
			for {
				x2, ok1 := nextNum()
				y2, ok2 := nextNum()
				x3, ok3 := nextNum()
				y3, ok4 := nextNum()
				if !(ok1 && ok2 && ok3 && ok4) {
					break
				}
				if cmd == 's' {
					x2 += curX
					y2 += curY
					x3 += curX
					y3 += curY
				}
				var x1, y1 float64
				if isCubicFamily(prevCmd) {
					x1 = 2*curX - lastCtrlX
					y1 = 2*curY - lastCtrlY
				} else {
					x1, y1 = curX, curY
				}
				p.curveTo(x1, y1, x2, y2, x3, y3)
				lastCtrlX, lastCtrlY = x2, y2
				curX, curY = x3, y3
				prevCmd = cmd
			}

		case 'Q', 'q':
			for {
				qx, ok1 := nextNum()
				qy, ok2 := nextNum()
				x3, ok3 := nextNum()
				y3, ok4 := nextNum()
				if !(ok1 && ok2 && ok3 && ok4) {
					break
				}
				if cmd == 'q' {
					qx += curX
					qy += curY
					x3 += curX
					y3 += curY
				}
				x1, y1, x2, y2 := quadraticToCubic(curX, curY, qx, qy, x3, y3)
				p.curveTo(x1, y1, x2, y2, x3, y3)
				lastCtrlX, lastCtrlY = qx, qy
				curX, curY = x3, y3
				prevCmd = cmd
			}

		case 'T', 't':
			for {
				x3, ok1 := nextNum()
				y3, ok2 := nextNum()
				if !(ok1 && ok2) {
					break
				}
				if cmd == 't' {
					x3 += curX
					y3 += curY
				}
				var qx, qy float64
				if isQuadFamily(prevCmd) {
					qx = 2*curX - lastCtrlX
					qy = 2*curY - lastCtrlY
				} else {
					qx, qy = curX, curY
				}
				x1, y1, x2, y2 := quadraticToCubic(curX, curY, qx, qy, x3, y3)
				p.curveTo(x1, y1, x2, y2, x3, y3)
				lastCtrlX, lastCtrlY = qx, qy
				curX, curY = x3, y3
				prevCmd = cmd
			}

		case 'A', 'a':
			for {
				rx, ok1 := nextNum()
				ry, ok2 := nextNum()
				rot, ok3 := nextNum()
				large, ok4 := nextNum()
				sweep, ok5 := nextNum()
				x, ok6 := nextNum()
				y, ok7 := nextNum()
				if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6 && ok7) {
					break
				}
				if cmd == 'a' {
					x += curX
					y += curY
				}
				arcToCubics(p, curX, curY, rx, ry, rot, large != 0, sweep != 0, x, y)
				curX, curY = x, y
				prevCmd = cmd
			}

		case 'Z', 'z':
			p.closePath()
			curX, curY = startX, startY
			prevCmd = cmd
		}
	}

	return p
}

func isCubicFamily(cmd byte) bool {
	switch cmd {
	case 'C', 'c', 'S', 's':
		return true
	}
	return false
}

func isQuadFamily(cmd byte) bool {
	switch cmd {
	case 'Q', 'q', 'T', 't':
		return true
	}
	return false
}

// quadraticToCubic converts a quadratic Bezier (p0, q, p3) to the
// equivalent cubic's two control points, per
// C1 = P0 + (2/3)(Q-P0), C2 = P3 + (2/3)(Q-P3).
func quadraticToCubic(x0, y0, qx, qy, x3, y3 float64) (x1, y1, x2, y2 float64) {
	x1 = x0 + 2.0/3.0*(qx-x0)
	y1 = y0 + 2.0/3.0*(qy-y0)
	x2 = x3 + 2.0/3.0*(qx-x3)
	y2 = y3 + 2.0/3.0*(qy-y3)
	return
}

// arcToCubics implements the elliptical-arc -> cubic conversion per
// spec §4.4 steps 1-7 (endpoint parameterization -> center
// parameterization -> quadrant-sized cubic segments).
func arcToCubics(p *Path, x0, y0, rx, ry, rotDeg float64, largeArc, sweep bool, x, y float64) {
	if x0 == x && y0 == y {
		return
	}
	rx = math.Abs(rx)
	ry = math.Abs(ry)
	if rx == 0 || ry == 0 {
		p.lineTo(x, y)
		return
	}

	phi := rotDeg * math.Pi / 180.0
	cosPhi := math.Cos(phi)
	sinPhi := math.Sin(phi)

	dx2 := (x0 - x) / 2.0
	dy2 := (y0 - y) / 2.0
	x1p := cosPhi*dx2 + sinPhi*dy2
	y1p := -sinPhi*dx2 + cosPhi*dy2

	lambda := (x1p*x1p)/(rx*rx) + (y1p*y1p)/(ry*ry)
	if lambda > 1 {
		s := math.Sqrt(lambda)
		rx *= s
		ry *= s
	}

	sign := -1.0
	if largeArc != sweep {
		sign = 1.0
	}
	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	co := 0.0
	if den != 0 && num > 0 {
		co = sign * math.Sqrt(num/den)
	}
	cxp := co * (rx * y1p / ry)
	cyp := co * -(ry * x1p / rx)

	cx := cosPhi*cxp - sinPhi*cyp + (x0+x)/2.0
	cy := sinPhi*cxp + cosPhi*cyp + (y0+y)/2.0

	angle := func(ux, uy, vx, vy float64) float64 {
		dot := ux*vx + uy*vy
		lenU := math.Hypot(ux, uy)
		lenV := math.Hypot(vx, vy)
		cosA := dot / (lenU * lenV)
		if cosA > 1 {
			cosA = 1
		} else if cosA < -1 {
			cosA = -1
		}
		a := math.Acos(cosA)
		if ux*vy-uy*vx < 0 {
			a = -a
		}
		return a
	}

	theta1 := angle(1, 0, (x1p-cxp)/rx, (y1p-cyp)/ry)
	dtheta := angle((x1p-cxp)/rx, (y1p-cyp)/ry, (-x1p-cxp)/rx, (-y1p-cyp)/ry)

	if !sweep && dtheta > 0 {
		dtheta -= 2 * math.Pi
	} else if sweep && dtheta < 0 {
		dtheta += 2 * math.Pi
	}

	segments := int(math.Ceil(math.Abs(dtheta) / (math.Pi / 2)))
	if segments < 1 {
		segments = 1
	}
	delta := dtheta / float64(segments)

	t1 := theta1
	for s := 0; s < segments; s++ {
		t2 := t1 + delta
		alpha := math.Sin(t2-t1) * (math.Sqrt(4+3*math.Pow(math.Tan((t2-t1)/2), 2)) - 1) / 3.0

		cosT1, sinT1 := math.Cos(t1), math.Sin(t1)
		cosT2, sinT2 := math.Cos(t2), math.Sin(t2)

		e1x, e1y := rx*cosT1, ry*sinT1
		e2x, e2y := rx*cosT2, ry*sinT2
		d1x, d1y := -rx*sinT1, ry*cosT1
		d2x, d2y := -rx*sinT2, ry*cosT2

		q1x, q1y := e1x+alpha*d1x, e1y+alpha*d1y
		q2x, q2y := e2x-alpha*d2x, e2y-alpha*d2y

		toUser := func(px, py float64) (float64, float64) {
			return cosPhi*px - sinPhi*py + cx, sinPhi*px + cosPhi*py + cy
		}

		c1x, c1y := toUser(q1x, q1y)
		c2x, c2y := toUser(q2x, q2y)
		ex, ey := toUser(e2x, e2y)

		p.curveTo(c1x, c1y, c2x, c2y, ex, ey)
		t1 = t2
	}
}
