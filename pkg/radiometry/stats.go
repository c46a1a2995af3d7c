package radiometry

import(
	"fmt"
	"sort"

	"github.com/codahale/hdrhistogram"
	"gonum.org/v1/gonum/stat"

	"github.com/radgeo/radprep/pkg/raster"
)

// Bounds is the raw-DN range the stretch maps onto full contrast.
// Always Lo < Hi; the estimators repair degenerate populations rather
// than hand a zero-width range downstream.
type Bounds struct {
	Lo, Hi float64
}

func (b Bounds)Width() float64 { return b.Hi - b.Lo }

func (b Bounds)String() string {
	return fmt.Sprintf("bounds[%.1f, %.1f]", b.Lo, b.Hi)
}

// A BoundsFunc computes percentile bounds over a frame's valid
// samples. Valid means not the nodata sentinel and not full-scale;
// saturated photosites carry no radiometric information and a large
// background region would otherwise drag the stretch around.
type BoundsFunc func(f *raster.Frame, pmin, pmax float64) Bounds

// EstimateExact sorts the valid samples and interpolates the
// percentiles, the way offline numeric packages do it. Costs a full
// copy of the frame.
func EstimateExact(f *raster.Frame, pmin, pmax float64) Bounds {
	sat := f.MaxDN()
	vals := make([]float64, 0, len(f.Pix))
	for _, v := range f.Pix {
		if v == sat || f.IsNoData(v) {
			continue
		}
		vals = append(vals, float64(v))
	}

	if len(vals) == 0 {
		return Bounds{0, float64(sat)}
	}

	sort.Float64s(vals)
	lo := stat.Quantile(pmin/100.0, stat.LinInterp, vals, nil)
	hi := stat.Quantile(pmax/100.0, stat.LinInterp, vals, nil)

	return repairBounds(lo, hi, vals[0], vals[len(vals)-1])
}

// EstimateStreaming runs the samples through an HDR histogram
// instead of sorting them. At 5 significant figures every 16-bit DN
// lands in its own sub-bucket, so the quantiles are exact
// nearest-rank values, and memory stays flat however big the frame.
func EstimateStreaming(f *raster.Frame, pmin, pmax float64) Bounds {
	sat := f.MaxDN()
	hist := hdrhistogram.New(1, int64(sat), 5)

	n := 0
	for _, v := range f.Pix {
		if v == sat || f.IsNoData(v) {
			continue
		}
		hist.RecordValue(int64(v))
		n++
	}

	if n == 0 {
		return Bounds{0, float64(sat)}
	}

	lo := float64(hist.ValueAtQuantile(pmin))
	hi := float64(hist.ValueAtQuantile(pmax))

	return repairBounds(lo, hi, float64(hist.Min()), float64(hist.Max()))
}

// repairBounds enforces Lo < Hi. Percentiles over a heavily
// concentrated population can collapse; fall back to the observed
// value range, and from there to an epsilon expansion around the
// single observed value.
func repairBounds(lo, hi, min, max float64) Bounds {
	if hi <= lo {
		lo, hi = min, max
	}
	if hi <= lo {
		return Bounds{lo - 0.5, lo + 0.5}
	}
	return Bounds{lo, hi}
}
