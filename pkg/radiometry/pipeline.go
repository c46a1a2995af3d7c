package radiometry

import(
	"fmt"
	"log"

	"github.com/radgeo/radprep/pkg/raster"
)

// A Pipeline normalizes one frame at a time: estimate percentile
// bounds over the valid samples, stretch into [0,1], optionally
// equalize local contrast, run the tone curve, requantize back to the
// source depth. It is a pure transformation of (frame, settings) into
// a new frame, which is what makes running frames in parallel safe.
type Pipeline struct {
	Settings
	estimate BoundsFunc
	enhance  Enhancer
}

// NewPipeline validates the settings and resolves the strategy names
// once, up front. A requested enhancement engine that is not
// available in this build gets a diagnostic and a pass-through, not
// an error; nothing else is allowed to degrade.
func NewPipeline(s Settings) (*Pipeline, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline settings: %v", err)
	}

	p := Pipeline{
		Settings: s,
		estimate: s.GetEstimator(),
	}

	if enh, err := s.GetEnhancer(); err != nil {
		log.Printf("local contrast enhancement unavailable, frames pass through unenhanced: %v", err)
		p.enhance = Passthrough{}
	} else {
		p.enhance = enh
	}

	return &p, nil
}

// Normalize runs the stage chain over one frame, returning the
// replacement frame and the bounds the stretch used. The input frame
// is left untouched. A failing enhancement stage is skipped with a
// diagnostic; anything else fails the whole frame, never a partial
// application of some stages.
func (p *Pipeline)Normalize(f *raster.Frame) (*raster.Frame, Bounds, error) {
	if f == nil || len(f.Pix) == 0 {
		return nil, Bounds{}, fmt.Errorf("empty frame")
	}
	if len(f.Pix) != f.Width*f.Height {
		return nil, Bounds{}, fmt.Errorf("%s: have %d samples", f, len(f.Pix))
	}

	bounds := p.estimate(f, p.PMin, p.PMax)

	norm := Stretch(f, bounds)

	if enhanced, err := p.enhance.Apply(&norm); err != nil {
		log.Printf("enhance (%s) failed, frame left unenhanced: %v", p.enhance.Name(), err)
	} else {
		norm = enhanced
	}

	toned := ApplyToneCurve(&norm, p.ShadowBoost, p.HighlightComp)

	return Requantize(f, &toned), bounds, nil
}

// NormalizedPlane stops the chain just before requantization, for
// debug dumps of the floating point intermediate.
func (p *Pipeline)NormalizedPlane(f *raster.Frame) (raster.FloatGrid, error) {
	if f == nil || len(f.Pix) == 0 {
		return raster.FloatGrid{}, fmt.Errorf("empty frame")
	}

	bounds := p.estimate(f, p.PMin, p.PMax)
	norm := Stretch(f, bounds)
	if enhanced, err := p.enhance.Apply(&norm); err != nil {
		log.Printf("enhance (%s) failed, frame left unenhanced: %v", p.enhance.Name(), err)
	} else {
		norm = enhanced
	}
	return ApplyToneCurve(&norm, p.ShadowBoost, p.HighlightComp), nil
}
