package prep

import(
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/radgeo/radprep/pkg/radiometry"
	"github.com/radgeo/radprep/pkg/raster"
)

// A Prepper runs the radiometric pipeline over batches of frames and
// handles everything around it: discovery, sidecars, RPC carriage,
// and the optional QA outputs. Built once per run from a finalized
// config; read-only afterwards, so workers can share it.
type Prepper struct {
	Config
	pipeline *radiometry.Pipeline
}

func NewPrepper(c Config) (*Prepper, error) {
	p, err := radiometry.NewPipeline(c.Settings())
	if err != nil {
		return nil, err
	}
	return &Prepper{Config: c, pipeline: p}, nil
}

// FrameStatus is one frame's outcome. A batch returns one of these
// per input; a failed frame never takes its siblings down with it.
type FrameStatus struct {
	Src      string
	Out      string
	Bounds   radiometry.Bounds
	Sidecars []string
	RPCFrom  string // carrier the camera model was recovered from, "" if none
	Err      error
}

func (fs FrameStatus)OK() bool { return fs.Err == nil }

func (fs FrameStatus)String() string {
	if fs.Err != nil {
		return fmt.Sprintf("FAIL %s: %v", filepath.Base(fs.Src), fs.Err)
	}
	return fmt.Sprintf("ok   %s -> %s, %s", filepath.Base(fs.Src), filepath.Base(fs.Out), fs.Bounds)
}

// ProcessOne takes one source frame through the whole prep: pipeline,
// output raster, sidecars, RPC, and whichever optional steps are
// configured. Missing RPC and failed optional steps are warnings;
// anything touching the frame's own data fails the frame.
func (pr *Prepper)ProcessOne(src, outDir string) FrameStatus {
	st := FrameStatus{Src: src}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		st.Err = fmt.Errorf("mkdir '%s': %v", outDir, err)
		return st
	}

	frame, err := raster.LoadTIFF(src)
	if err != nil {
		st.Err = err
		return st
	}
	if nd := pr.NoDataSentinel(); nd != nil {
		frame.SetNoData(*nd)
	}

	out, bounds, err := pr.pipeline.Normalize(frame)
	if err != nil {
		st.Err = fmt.Errorf("normalize: %v", err)
		return st
	}
	st.Bounds = bounds

	st.Out = OutputName(src, outDir)
	if err := raster.SaveTIFF(out, st.Out); err != nil {
		st.Err = err
		return st
	}

	if copied, err := CopySidecars(src, outDir); err != nil {
		st.Err = fmt.Errorf("sidecars: %v", err)
		return st
	} else {
		st.Sidecars = copied
	}

	// RPC carriage. A scene without a camera model is still a valid
	// radiometric product, so warn and carry on.
	if model, from, err := RecoverRPC(src); err != nil {
		log.Printf("[WARN] %s: no RPC carried: %v\n", filepath.Base(src), err)
	} else if _, err := EmbedRPC(model, st.Out); err != nil {
		log.Printf("[WARN] %s: RPC embed failed: %v\n", filepath.Base(src), err)
	} else {
		st.RPCFrom = from
	}

	pr.optionalSteps(frame, out, st.Out)

	if pr.Verbosity > 0 {
		log.Printf("%s: %s\n", filepath.Base(st.Out), DNReport(out))
	}

	return st
}

// optionalSteps are QA conveniences; each failure is a diagnostic,
// never a frame failure.
func (pr *Prepper)optionalSteps(src, out *raster.Frame, outTif string) {
	name := filepath.Base(outTif)

	if pr.Pyramids {
		if err := BuildPyramids(outTif); err != nil {
			log.Printf("[WARN] %s: %v\n", name, err)
		}
	}

	if pr.Quicklook {
		if ql, err := RPCQuicklook(outTif, pr.DEM, pr.TargetSRS, pr.QuicklookRes); err != nil {
			log.Printf("[WARN] %s: %v\n", name, err)
		} else if pr.RmQuicklook {
			if err := os.Remove(ql); err != nil {
				log.Printf("[WARN] %s: remove quicklook: %v\n", name, err)
			}
		}
	}

	if pr.Preview {
		png := strings.TrimSuffix(outTif, filepath.Ext(outTif)) + "_preview.png"
		if err := WritePreview(out, name, png); err != nil {
			log.Printf("[WARN] %s: preview: %v\n", name, err)
		}
	}

	if pr.DumpNorm {
		plane, err := pr.pipeline.NormalizedPlane(src)
		if err == nil {
			err = WriteNormalizedHDR(&plane, strings.TrimSuffix(outTif, filepath.Ext(outTif))+"_norm.hdr")
		}
		if err != nil {
			log.Printf("[WARN] %s: normalized dump: %v\n", name, err)
		}
	}
}
