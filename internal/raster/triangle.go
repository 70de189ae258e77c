package raster

import "math"

// Directional light for flat shading, pointing from the surface toward
// the light. Pre-normalized.
var lightDir = [3]float64{-0.371, 0.557, 0.743}

const (
	ambient = 0.35
	direct  = 0.65
)

// rasterizeTriangle draws one flat-shaded triangle with a z-buffer test.
// Lighting is two-sided, so winding order does not matter. The inner
// loop allocates nothing.
func rasterizeTriangle(fb *FrameBuffer, px, py, pz []float64, vi [3]int32, r, g, b uint8) {
	nv := int32(len(px))
	for _, i := range vi {
		if i < 0 || i >= nv {
			return
		}
	}

	x0, y0, z0 := px[vi[0]], py[vi[0]], pz[vi[0]]
	x1, y1, z1 := px[vi[1]], py[vi[1]], pz[vi[1]]
	x2, y2, z2 := px[vi[2]], py[vi[2]], pz[vi[2]]

	// Face normal for flat shading
	e1x, e1y, e1z := x1-x0, y1-y0, z1-z0
	e2x, e2y, e2z := x2-x0, y2-y0, z2-z0
	nx := e1y*e2z - e1z*e2y
	ny := e1z*e2x - e1x*e2z
	nz := e1x*e2y - e1y*e2x
	nl := math.Sqrt(nx*nx + ny*ny + nz*nz)
	if nl < 1e-8 {
		return
	}
	nx /= nl
	ny /= nl
	nz /= nl

	shade := ambient + direct*math.Abs(nx*lightDir[0]+ny*lightDir[1]+nz*lightDir[2])

	// Bounding box clipped to the frame
	minX := int(math.Min(math.Min(x0, x1), x2))
	maxX := int(math.Max(math.Max(x0, x1), x2)) + 1
	minY := int(math.Min(math.Min(y0, y1), y2))
	maxY := int(math.Max(math.Max(y0, y1), y2)) + 1
	if minX < 0 {
		minX = 0
	}
	if maxX >= fb.Width {
		maxX = fb.Width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= fb.Height {
		maxY = fb.Height - 1
	}
	if minX >= maxX || minY >= maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	fr := float64(r) * shade
	fg := float64(g) * shade
	fbl := float64(b) * shade

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}
			fb.ZBuf[zIdx] = z

			pxIdx := zIdx * 4
			fb.Color[pxIdx] = clamp255(fr)
			fb.Color[pxIdx+1] = clamp255(fg)
			fb.Color[pxIdx+2] = clamp255(fbl)
			fb.Color[pxIdx+3] = 255
		}
	}
}

// splatPoint paints a z-tested square around a projected point.
func splatPoint(fb *FrameBuffer, x, y, z float64, radius int, r, g, b uint8) {
	cx := int(x + 0.5)
	cy := int(y + 0.5)
	for sy := cy - radius; sy <= cy+radius; sy++ {
		if sy < 0 || sy >= fb.Height {
			continue
		}
		for sx := cx - radius; sx <= cx+radius; sx++ {
			if sx < 0 || sx >= fb.Width {
				continue
			}
			zIdx := sy*fb.Width + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}
			fb.ZBuf[zIdx] = z

			pxIdx := zIdx * 4
			fb.Color[pxIdx] = r
			fb.Color[pxIdx+1] = g
			fb.Color[pxIdx+2] = b
			fb.Color[pxIdx+3] = 255
		}
	}
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
