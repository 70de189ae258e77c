package raster

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/Faultbox/plykit/pkg/mesh"
)

// Options control a preview render.
type Options struct {
	Size        int      // output edge length in pixels
	Supersample int      // render at Size*Supersample, then downscale
	Background  [3]uint8 // opaque fill color
}

// DefaultOptions returns the preview defaults.
func DefaultOptions() Options {
	return Options{
		Size:        512,
		Supersample: 2,
		Background:  [3]uint8{30, 30, 34},
	}
}

// defaultGray colors meshes that carry no vertex colors.
var defaultGray = [3]uint8{160, 160, 170}

// Render draws an orthographic, flat-shaded preview of the mesh looking
// down the -Z axis, fit to frame. Point clouds render as square splats.
func Render(m *mesh.Mesh, opts Options) *image.NRGBA {
	if opts.Size <= 0 {
		opts.Size = 512
	}
	if opts.Supersample < 1 {
		opts.Supersample = 1
	}

	renderSize := opts.Size * opts.Supersample
	fb := NewFrameBuffer(renderSize, renderSize, opts.Background)

	if m.PointCount() > 0 {
		px, py, pz := projectPoints(m, renderSize, opts.Supersample)

		if m.IsPointCloud() {
			radius := opts.Supersample
			for i := range px {
				r, g, b := pointColor(m, i)
				splatPoint(fb, px[i], py[i], pz[i], radius, r, g, b)
			}
		} else {
			for _, tri := range m.Tris {
				r, g, b := faceColor(m, tri)
				rasterizeTriangle(fb, px, py, pz, tri, r, g, b)
			}
		}
	}

	img := image.NewNRGBA(image.Rect(0, 0, renderSize, renderSize))
	copy(img.Pix, fb.Color)

	return downsample(img, opts.Size)
}

// projectPoints maps mesh points to screen space: centered, scaled to
// fit the frame minus a margin, Y flipped so +Y is up. Depth keeps +Z
// toward the viewer, so larger z wins the depth test.
func projectPoints(m *mesh.Mesh, renderSize, supersample int) (px, py, pz []float64) {
	min, max := m.Bounds()
	center := min.Add(max).Mul(0.5)

	span := float64(max.X() - min.X())
	if dy := float64(max.Y() - min.Y()); dy > span {
		span = dy
	}
	if span < 0.001 {
		span = 0.001
	}

	margin := 16 * supersample
	scale := float64(renderSize-2*margin) / span
	half := float64(renderSize) / 2

	n := len(m.Points)
	px = make([]float64, n)
	py = make([]float64, n)
	pz = make([]float64, n)
	for i, p := range m.Points {
		px[i] = float64(p.X()-center.X())*scale + half
		py[i] = half - float64(p.Y()-center.Y())*scale
		pz[i] = float64(p.Z()-center.Z()) * scale
	}
	return px, py, pz
}

// faceColor averages the face's vertex colors, or falls back to gray.
func faceColor(m *mesh.Mesh, tri [3]int32) (uint8, uint8, uint8) {
	if !m.HasColors() {
		return defaultGray[0], defaultGray[1], defaultGray[2]
	}
	var r, g, b int
	for _, i := range tri {
		if i < 0 || int(i) >= len(m.Colors) {
			return defaultGray[0], defaultGray[1], defaultGray[2]
		}
		c := m.Colors[i]
		r += int(c[0])
		g += int(c[1])
		b += int(c[2])
	}
	return uint8(r / 3), uint8(g / 3), uint8(b / 3)
}

func pointColor(m *mesh.Mesh, i int) (uint8, uint8, uint8) {
	if i < len(m.Colors) {
		c := m.Colors[i]
		return c[0], c[1], c[2]
	}
	return defaultGray[0], defaultGray[1], defaultGray[2]
}

// downsample scales the supersampled frame to the target size. Every
// pixel is opaque, so no premultiply pass is needed.
func downsample(img *image.NRGBA, targetSize int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() <= targetSize && b.Dy() <= targetSize {
		return img
	}
	dst := image.NewNRGBA(image.Rect(0, 0, targetSize, targetSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
