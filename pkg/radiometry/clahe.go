package radiometry

import(
	"math"

	"github.com/radgeo/radprep/pkg/raster"
)

// Histogram resolution of the native engine. Matching the 8-bit
// detour the OpenCV path takes keeps the two engines comparable.
const claheBins = 256

// CLAHE is the native contrast-limited adaptive histogram
// equalization engine. The plane is cut into Tiles x Tiles tiles,
// each tile's histogram is clipped at ClipLimit times the mean bin
// count with the excess redistributed, and every pixel is remapped by
// bilinear interpolation between the four surrounding tile lookup
// tables, which is what keeps tile boundaries from showing.
type CLAHE struct {
	ClipLimit float64
	Tiles     int
}

func (c CLAHE)Name() string { return "native" }

func (c CLAHE)Apply(g *raster.FloatGrid) (raster.FloatGrid, error) {
	w, h := g.Dx(), g.Dy()

	tiles := c.Tiles
	if tiles > w { tiles = w }
	if tiles > h { tiles = h }
	if tiles < 1 { tiles = 1 }

	tileW := (w + tiles - 1) / tiles
	tileH := (h + tiles - 1) / tiles

	// One lookup table per tile
	luts := make([][][]float64, tiles)
	for ty := 0; ty < tiles; ty++ {
		luts[ty] = make([][]float64, tiles)
		y0, y1 := clampSpan(ty*tileH, tileH, h)

		for tx := 0; tx < tiles; tx++ {
			x0, x1 := clampSpan(tx*tileW, tileW, w)

			hist := make([]int, claheBins)
			n := 0
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					hist[binOf(g.Get(x, y))]++
					n++
				}
			}
			luts[ty][tx] = equalizeTile(hist, n, c.ClipLimit)
		}
	}

	// Remap every pixel through the four nearest tile LUTs
	out := g.NewFromThis()
	for y := 0; y < h; y++ {
		tyf := (float64(y) - float64(tileH)/2.0) / float64(tileH)
		ty0 := int(math.Floor(tyf))
		fy := tyf - float64(ty0)
		ty1 := ty0 + 1
		if ty0 < 0 { ty0 = 0 }
		if ty1 > tiles-1 { ty1 = tiles - 1 }
		if ty0 > tiles-1 { ty0 = tiles - 1 }

		for x := 0; x < w; x++ {
			txf := (float64(x) - float64(tileW)/2.0) / float64(tileW)
			tx0 := int(math.Floor(txf))
			fx := txf - float64(tx0)
			tx1 := tx0 + 1
			if tx0 < 0 { tx0 = 0 }
			if tx1 > tiles-1 { tx1 = tiles - 1 }
			if tx0 > tiles-1 { tx0 = tiles - 1 }

			b := binOf(g.Get(x, y))
			top := luts[ty0][tx0][b]*(1-fx) + luts[ty0][tx1][b]*fx
			bot := luts[ty1][tx0][b]*(1-fx) + luts[ty1][tx1][b]*fx
			out.Set(x, y, top*(1-fy)+bot*fy)
		}
	}

	return out, nil
}

func binOf(v float64) int {
	if v < 0 { v = 0 }
	if v > 1 { v = 1 }
	return int(v*float64(claheBins-1) + 0.5)
}

func clampSpan(start, span, limit int) (int, int) {
	end := start + span
	if end > limit { end = limit }
	if start > limit { start = limit }
	return start, end
}

// equalizeTile turns one tile's histogram into a [0,1] lookup table:
// clip, redistribute the excess uniformly, then map through the CDF.
// The histogram is consumed in place.
func equalizeTile(hist []int, n int, clip float64) []float64 {
	bins := len(hist)
	lut := make([]float64, bins)

	if n == 0 {
		// Empty tiles can exist past the edge of a grid whose size
		// doesn't divide evenly; they are never selected by the
		// interpolation, but give them the identity anyway.
		for i := range lut {
			lut[i] = float64(i) / float64(bins-1)
		}
		return lut
	}

	limit := int(clip * float64(n) / float64(bins))
	if limit < 1 { limit = 1 }

	excess := 0
	for i, c := range hist {
		if c > limit {
			excess += c - limit
			hist[i] = limit
		}
	}

	share, rem := excess/bins, excess%bins
	for i := range hist {
		hist[i] += share
	}
	for i := 0; i < rem; i++ {
		hist[i]++
	}

	cdf := 0
	scale := float64(bins-1) / float64(n)
	for i, c := range hist {
		cdf += c
		lut[i] = math.Round(float64(cdf)*scale) / float64(bins-1)
		if lut[i] > 1 { lut[i] = 1 }
	}

	return lut
}
