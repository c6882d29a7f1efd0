package raster

import (
	"image"
	"math"
)

// FrameBuffer is the render target: interleaved RGBA plus one depth value
// per pixel. Larger depth is nearer; empty pixels hold -Inf.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8
	ZBuf   []float64
}

// NewFrameBuffer allocates a transparent w×h target.
func NewFrameBuffer(w, h int) *FrameBuffer {
	fb := &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]uint8, w*h*4),
		ZBuf:   make([]float64, w*h),
	}
	for i := range fb.ZBuf {
		fb.ZBuf[i] = math.Inf(-1)
	}
	return fb
}

// Image wraps the color buffer without copying.
func (fb *FrameBuffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    fb.Color,
		Stride: fb.Width * 4,
		Rect:   image.Rect(0, 0, fb.Width, fb.Height),
	}
}
