package radiometry

import(
	"github.com/radgeo/radprep/pkg/raster"
)

// Requantize maps the final normalized plane back to the source
// frame's integer depth, rounding to nearest. Wherever the source
// carried the nodata sentinel, the sentinel is written back exactly,
// untouched by any of the stage arithmetic. Output values never
// exceed the representable range.
func Requantize(src *raster.Frame, g *raster.FloatGrid) *raster.Frame {
	out := raster.NewLike(src)
	maxDN := float64(src.MaxDN())

	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			if v := src.At(x, y); src.IsNoData(v) {
				out.Set(x, y, v)
				continue
			}
			n := g.Get(x, y)
			if n < 0 { n = 0 }
			if n > 1 { n = 1 }
			out.Set(x, y, uint16(n*maxDN+0.5))
		}
	}

	return out
}
