package main

import(
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/radgeo/radprep/pkg/prep"
)

var(
	fConfig string
	fVerbosity int
	fWorkers int

	fPair1Src string
	fPair1Out string
	fPair2Src string
	fPair2Out string

	fPMin float64
	fPMax float64
	fEstimator string
	fCLAHE float64
	fCLAHEEngine string
	fTiles int
	fShadowBoost float64
	fHighlightComp float64
	fNoData int

	fPyramids bool
	fQuicklook bool
	fRmQuicklook bool
	fDEM string
	fTargetSRS string
	fQLRes float64
	fPreview bool
	fDumpNorm bool
)

func init() {
	// A .env next to the binary can hold site-local defaults (DEM
	// path, target SRS) so operators don't retype them per run.
	godotenv.Load()

	flag.StringVar(&fConfig, "config", "", "YAML config file; flags override its values")
	flag.IntVar(&fVerbosity, "v", 0, "how verbose to get")
	flag.IntVar(&fWorkers, "workers", 4, "how many frames to process in parallel")

	flag.StringVar(&fPair1Src, "pair1-src", "", "source dir for the first stereo pair")
	flag.StringVar(&fPair1Out, "pair1-out", "", "output dir for the first stereo pair")
	flag.StringVar(&fPair2Src, "pair2-src", "", "source dir for the second stereo pair")
	flag.StringVar(&fPair2Out, "pair2-out", "", "output dir for the second stereo pair")

	flag.Float64Var(&fPMin, "pmin", 1.0, "lower stretch percentile")
	flag.Float64Var(&fPMax, "pmax", 99.0, "upper stretch percentile")
	flag.StringVar(&fEstimator, "estimator", "exact", "percentile engine: exact or histogram")
	flag.Float64Var(&fCLAHE, "clahe", 3.0, "CLAHE clip limit (<=0 disables)")
	flag.StringVar(&fCLAHEEngine, "clahe-engine", "native", "CLAHE engine: none, native or opencv")
	flag.IntVar(&fTiles, "tiles", 8, "CLAHE tile grid (NxN)")
	flag.Float64Var(&fShadowBoost, "shadow-boost", 0.20, "lift shadows (0..1)")
	flag.Float64Var(&fHighlightComp, "highlight-comp", 0.10, "protect highlights (0..1)")
	flag.IntVar(&fNoData, "nodata", 0, "background sentinel DN (-1 for none)")

	flag.BoolVar(&fPyramids, "pyramids", false, "build overview pyramids on outputs")
	flag.BoolVar(&fQuicklook, "quicklook", false, "create RPC-warped quicklooks")
	flag.BoolVar(&fRmQuicklook, "rm-quicklook", false, "remove each quicklook after creation")
	flag.StringVar(&fDEM, "dem", os.Getenv("RADPREP_DEM"), "DEM for RPC warping (ellipsoidal heights recommended)")
	flag.StringVar(&fTargetSRS, "t-srs", os.Getenv("RADPREP_T_SRS"), "quicklook target CRS (e.g. EPSG:32608)")
	flag.Float64Var(&fQLRes, "ql-res", 1.0, "quicklook resolution, map units")
	flag.BoolVar(&fPreview, "preview", false, "write a false-color preview PNG per output")
	flag.BoolVar(&fDumpNorm, "dump-norm", false, "dump the normalized plane as Radiance HDR, for debugging")
	flag.Parse()

	log.Printf("radprep starting\n")
}

func main() {
	cfg := loadConfig()

	if err := cfg.Finalize(); err != nil {
		log.Fatalf("configuration: %v\n", err)
	}
	if cfg.Verbosity > 0 {
		log.Printf("Final configuration:-\n\n%s\n", cfg.AsYaml())
	}

	prepper, err := prep.NewPrepper(cfg)
	if err != nil {
		log.Fatalf("configuration: %v\n", err)
	}

	statuses := prepper.RunBatch()
	ok, failed := prep.Summarize(statuses)
	if ok == 0 && failed > 0 {
		os.Exit(1)
	}
}

// loadConfig starts from the YAML file (or defaults), then lets any
// flag the user actually passed override it.
func loadConfig() prep.Config {
	cfg := prep.NewConfig()
	if fConfig != "" {
		var err error
		if cfg, err = prep.LoadConfig(fConfig); err != nil {
			log.Fatalf("%v\n", err)
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "v":              cfg.Verbosity = fVerbosity
		case "workers":        cfg.Workers = fWorkers
		case "pmin":           cfg.PMin = fPMin
		case "pmax":           cfg.PMax = fPMax
		case "estimator":      cfg.Estimator = fEstimator
		case "clahe":          cfg.CLAHEClip = fCLAHE
		case "clahe-engine":   cfg.CLAHEEngine = fCLAHEEngine
		case "tiles":          cfg.CLAHETiles = fTiles
		case "shadow-boost":   cfg.ShadowBoost = fShadowBoost
		case "highlight-comp": cfg.HighlightComp = fHighlightComp
		case "nodata":         cfg.NoData = fNoData
		case "pyramids":       cfg.Pyramids = fPyramids
		case "quicklook":      cfg.Quicklook = fQuicklook
		case "rm-quicklook":   cfg.RmQuicklook = fRmQuicklook
		case "dem":            cfg.DEM = fDEM
		case "t-srs":          cfg.TargetSRS = fTargetSRS
		case "ql-res":         cfg.QuicklookRes = fQLRes
		case "preview":        cfg.Preview = fPreview
		case "dump-norm":      cfg.DumpNorm = fDumpNorm
		}
	})

	// Env-derived defaults apply even when the flag wasn't passed
	if cfg.DEM == "" { cfg.DEM = fDEM }
	if cfg.TargetSRS == "" { cfg.TargetSRS = fTargetSRS }

	if fPair1Src != "" || fPair1Out != "" {
		cfg.Pairs = append(cfg.Pairs, prep.Pair{Src: fPair1Src, Out: fPair1Out})
	}
	if fPair2Src != "" || fPair2Out != "" {
		cfg.Pairs = append(cfg.Pairs, prep.Pair{Src: fPair2Src, Out: fPair2Out})
	}

	return cfg
}
