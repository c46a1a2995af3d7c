package prep

import(
	"fmt"

	"github.com/skypies/util/histogram"

	"github.com/radgeo/radprep/pkg/raster"
)

// DNReport summarizes an output frame's digital numbers as a coarse
// histogram, for eyeballing whether the stretch landed the mass where
// it should. Nodata samples are counted separately, not binned.
func DNReport(f *raster.Frame) string {
	hist := histogram.Histogram{NumBuckets: 32, ValMin: 0, ValMax: 65536}

	nodata := 0
	for _, v := range f.Pix {
		if f.IsNoData(v) {
			nodata++
			continue
		}
		hist.Add(histogram.ScalarVal(int(v)))
	}

	return fmt.Sprintf("DN %s, nodata=%d", hist.String(), nodata)
}
