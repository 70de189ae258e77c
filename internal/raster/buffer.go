// Package raster renders mesh previews with a z-buffered software
// rasterizer.
package raster

import "math"

// FrameBuffer holds the render target as flat slices for cache locality.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8   // RGBA interleaved, len = W*H*4
	ZBuf   []float64 // depth per pixel, len = W*H, initialized to -inf
}

// NewFrameBuffer allocates a frame buffer filled with an opaque
// background color and a -inf z-buffer.
func NewFrameBuffer(w, h int, bg [3]uint8) *FrameBuffer {
	n := w * h
	zbuf := make([]float64, n)
	for i := range zbuf {
		zbuf[i] = math.Inf(-1)
	}
	color := make([]uint8, n*4)
	for i := 0; i < n; i++ {
		color[i*4] = bg[0]
		color[i*4+1] = bg[1]
		color[i*4+2] = bg[2]
		color[i*4+3] = 255
	}
	return &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  color,
		ZBuf:   zbuf,
	}
}
