package raster

import(
	"fmt"
)

// A Frame is a single-band grid of raw digital numbers, as decoded
// from one input file. Samples are row-major, 16 bits each. A Frame
// is never mutated once loaded; pipeline stages build replacements.
type Frame struct {
	Width, Height int
	Depth         int     // bits per sample
	NoData        *uint16 // background sentinel, nil when the product has none
	Pix           []uint16
}

func NewFrame(w, h int) *Frame {
	return &Frame{
		Width:  w,
		Height: h,
		Depth:  16,
		Pix:    make([]uint16, w*h),
	}
}

// NewLike returns an empty frame with f's dimensions, depth and
// nodata sentinel.
func NewLike(f *Frame) *Frame {
	g := NewFrame(f.Width, f.Height)
	g.Depth = f.Depth
	if f.NoData != nil {
		nd := *f.NoData
		g.NoData = &nd
	}
	return g
}

func (f *Frame)At(x, y int) uint16     { return f.Pix[y*f.Width+x] }
func (f *Frame)Set(x, y int, v uint16) { f.Pix[y*f.Width+x] = v }

// MaxDN is the largest representable sample value at this depth.
func (f *Frame)MaxDN() uint16 { return uint16(1<<uint(f.Depth) - 1) }

func (f *Frame)IsNoData(v uint16) bool {
	return f.NoData != nil && v == *f.NoData
}

// SetNoData marks v as the frame's background sentinel.
func (f *Frame)SetNoData(v uint16) {
	f.NoData = &v
}

func (f *Frame)String() string {
	nd := "none"
	if f.NoData != nil {
		nd = fmt.Sprintf("%d", *f.NoData)
	}
	return fmt.Sprintf("frame[%dx%d, %d-bit, nodata=%s]", f.Width, f.Height, f.Depth, nd)
}
