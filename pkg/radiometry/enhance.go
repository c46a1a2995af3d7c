package radiometry

import(
	"github.com/radgeo/radprep/pkg/raster"
)

// An Enhancer is the optional local-contrast stage, one seam with
// interchangeable implementations: a pass-through, the native CLAHE
// below, and an OpenCV-backed engine behind the `opencv` build tag.
// Implementations take the normalized [0,1] plane and return a
// replacement in [0,1]; they never mutate their input.
type Enhancer interface {
	Name() string
	Apply(g *raster.FloatGrid) (raster.FloatGrid, error)
}

// Passthrough is what the pipeline runs when enhancement is disabled
// or its engine is unavailable. Output is the input, bit for bit.
type Passthrough struct{}

func (p Passthrough)Name() string { return "none" }

func (p Passthrough)Apply(g *raster.FloatGrid) (raster.FloatGrid, error) {
	return *g, nil
}
