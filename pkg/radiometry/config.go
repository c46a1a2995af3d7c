package radiometry

import(
	"fmt"
	"log"
)

// Settings is the validated configuration bundle the pipeline runs
// under. Callers fill it in (YAML, flags, whatever), call Validate,
// and pass it to NewPipeline; nothing here is read from global state.
type Settings struct {
	PMin          float64 // lower stretch percentile, in (0,100)
	PMax          float64 // upper stretch percentile, in (0,100), > PMin
	Estimator     string  // percentile engine: "exact" or "histogram"
	ShadowBoost   float64 // tone curve shadow lift strength, [0,1]
	HighlightComp float64 // tone curve highlight compression strength, [0,1]
	Enhance       EnhanceSettings
}

// EnhanceSettings configures the optional local-contrast stage. The
// whole stage is skipped when Engine is empty/"none" or ClipLimit is
// zero or below; the remaining values are then ignored entirely.
type EnhanceSettings struct {
	Engine    string  // "none", "native" or "opencv"
	ClipLimit float64
	Tiles     int // tile grid size, same in both axes
}

func NewSettings() Settings {
	return Settings{
		PMin:          1.0,
		PMax:          99.0,
		Estimator:     "exact",
		ShadowBoost:   0.20,
		HighlightComp: 0.10,
		Enhance: EnhanceSettings{
			Engine:    "native",
			ClipLimit: 3.0,
			Tiles:     8,
		},
	}
}

func (s Settings)EnhanceEnabled() bool {
	switch s.Enhance.Engine {
	case "", "none":
		return false
	}
	return s.Enhance.ClipLimit > 0
}

// Validate rejects a bad bundle before any frame is touched. Enhance
// parameters are only checked when the stage is actually enabled.
func (s Settings)Validate() error {
	if s.PMin <= 0 || s.PMax >= 100 || s.PMin >= s.PMax {
		return fmt.Errorf("percentiles must satisfy 0 < pmin < pmax < 100, got (%g, %g)", s.PMin, s.PMax)
	}
	if s.ShadowBoost < 0 || s.ShadowBoost > 1 {
		return fmt.Errorf("shadow boost must be in [0,1], got %g", s.ShadowBoost)
	}
	if s.HighlightComp < 0 || s.HighlightComp > 1 {
		return fmt.Errorf("highlight compression must be in [0,1], got %g", s.HighlightComp)
	}

	switch s.Estimator {
	case "", "exact", "histogram":
	default:
		return fmt.Errorf("no estimator engine named '%s'", s.Estimator)
	}

	if s.EnhanceEnabled() {
		switch s.Enhance.Engine {
		case "native", "opencv":
		default:
			return fmt.Errorf("no enhancement engine named '%s'", s.Enhance.Engine)
		}
		if s.Enhance.Tiles < 1 {
			return fmt.Errorf("enhancement tile count must be >= 1, got %d", s.Enhance.Tiles)
		}
	}

	return nil
}

func (s Settings)GetEstimator() BoundsFunc {
	switch s.Estimator {
	case "", "exact":
		return EstimateExact
	case "histogram":
		return EstimateStreaming
	default:
		log.Fatalf("no estimator engine named '%s'", s.Estimator)
		return nil
	}
}

// GetEnhancer resolves the configured enhancement engine. A missing
// optional capability comes back as an error so the caller can decide
// to degrade rather than die.
func (s Settings)GetEnhancer() (Enhancer, error) {
	if !s.EnhanceEnabled() {
		return Passthrough{}, nil
	}

	switch s.Enhance.Engine {
	case "native":
		return CLAHE{ClipLimit: s.Enhance.ClipLimit, Tiles: s.Enhance.Tiles}, nil
	case "opencv":
		return newOpenCVEnhancer(s.Enhance.ClipLimit, s.Enhance.Tiles)
	default:
		return nil, fmt.Errorf("no enhancement engine named '%s'", s.Enhance.Engine)
	}
}
