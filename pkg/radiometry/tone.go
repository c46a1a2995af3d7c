package radiometry

import(
	"github.com/radgeo/radprep/pkg/raster"
)

// ToneCurve remaps one normalized intensity through the shadow-lift /
// highlight-protect curve:
//
//	f(y) = y + s/2*(1-y)^2 - h/2*y^2
//
// The lift term raises values near 0 and fades out by the midtones;
// the compression term pulls values near 1 down and likewise fades
// out. f'(y) = 1 - s*(1-y) - h*y stays non-negative everywhere on
// [0,1] for any s,h in [0,1], so the curve never inverts ordering.
// f(0) = s/2 and f(1) = 1 - h/2; at s = h = 0 it is the identity.
func ToneCurve(y, s, h float64) float64 {
	y = y + 0.5*s*(1-y)*(1-y) - 0.5*h*y*y
	if y < 0 { y = 0 }
	if y > 1 { y = 1 }
	return y
}

// ApplyToneCurve runs the curve over a whole normalized plane,
// returning a replacement grid.
func ApplyToneCurve(g *raster.FloatGrid, s, h float64) raster.FloatGrid {
	out := g.NewFromThis()
	for y := 0; y < g.Dy(); y++ {
		for x := 0; x < g.Dx(); x++ {
			out.Set(x, y, ToneCurve(g.Get(x, y), s, h))
		}
	}
	return out
}
