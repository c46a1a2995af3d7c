package prep

import(
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/radgeo/radprep/pkg/radiometry"
)

/* Example config file ...

verbosity: 1
workers: 4

pairs:
  - src: /data/collect1/pair1
    out: /data/prep/pair1
  - src: /data/collect1/pair2
    out: /data/prep/pair2

pmin: 1.0
pmax: 99.0
estimator: exact
claheengine: native
claheclip: 3.0
clahetiles: 8
shadowboost: 0.20
highlightcomp: 0.10
nodata: 0

pyramids: true
quicklook: true
dem: /data/dem/copernicus_ellipsoidal.tif
targetsrs: EPSG:32608
quicklookres: 1.0

*/

// A Pair is one source directory of raw frames and the directory
// their prepped counterparts land in.
type Pair struct {
	Src string
	Out string
}

type Config struct {
	Verbosity int
	Workers   int
	Pairs     []Pair

	// Radiometric knobs, handed to the pipeline after Finalize
	PMin          float64
	PMax          float64
	Estimator     string
	CLAHEEngine   string  `yaml:"claheengine"`
	CLAHEClip     float64 `yaml:"claheclip"`
	CLAHETiles    int     `yaml:"clahetiles"`
	ShadowBoost   float64
	HighlightComp float64
	NoData        int // background sentinel DN; -1 means the product has none

	// Optional output-side steps
	Pyramids     bool
	Quicklook    bool
	RmQuicklook  bool
	DEM          string
	TargetSRS    string  `yaml:"targetsrs"`
	QuicklookRes float64 `yaml:"quicklookres"`
	Preview      bool
	DumpNorm     bool `yaml:"dumpnorm"`

	// Derived at Finalize
	settings radiometry.Settings
}

func NewConfig() Config {
	s := radiometry.NewSettings()
	return Config{
		Workers:       4,
		Pairs:         []Pair{},
		PMin:          s.PMin,
		PMax:          s.PMax,
		Estimator:     s.Estimator,
		CLAHEEngine:   s.Enhance.Engine,
		CLAHEClip:     s.Enhance.ClipLimit,
		CLAHETiles:    s.Enhance.Tiles,
		ShadowBoost:   s.ShadowBoost,
		HighlightComp: s.HighlightComp,
		NoData:        0,
		QuicklookRes:  1.0,
	}
}

func LoadConfig(filename string) (Config, error) {
	c := NewConfig()

	contents, err := os.ReadFile(filename)
	if err != nil {
		return c, fmt.Errorf("read '%s': %v", filename, err)
	}
	if err := yaml.Unmarshal(contents, &c); err != nil {
		return c, fmt.Errorf("parse '%s': %v", filename, err)
	}

	return c, nil
}

func (c Config)AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		log.Fatalf("Can't marshal config yaml: %v\n", err)
	}
	return string(b)
}

// Finalize does sanity checks and builds the pipeline settings. Call
// it once, after the YAML file and any flag overlays have been
// applied; nothing may mutate the config after the batch starts.
func (c *Config)Finalize() error {
	if len(c.Pairs) == 0 {
		return fmt.Errorf("no source/output directory pairs configured")
	}
	for i, p := range c.Pairs {
		if p.Src == "" || p.Out == "" {
			return fmt.Errorf("pair %d: both src and out are required", i+1)
		}
	}

	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	if c.NoData < -1 || c.NoData > 65535 {
		return fmt.Errorf("nodata must be a 16-bit DN or -1, got %d", c.NoData)
	}

	if c.Quicklook {
		if c.DEM == "" || c.TargetSRS == "" {
			return fmt.Errorf("quicklooks need both a dem and a targetsrs")
		}
		if c.QuicklookRes <= 0 {
			return fmt.Errorf("quicklookres must be positive, got %g", c.QuicklookRes)
		}
	}

	c.settings = radiometry.Settings{
		PMin:          c.PMin,
		PMax:          c.PMax,
		Estimator:     c.Estimator,
		ShadowBoost:   c.ShadowBoost,
		HighlightComp: c.HighlightComp,
		Enhance: radiometry.EnhanceSettings{
			Engine:    c.CLAHEEngine,
			ClipLimit: c.CLAHEClip,
			Tiles:     c.CLAHETiles,
		},
	}
	if err := c.settings.Validate(); err != nil {
		return err
	}

	return nil
}

// Settings is only meaningful after Finalize has succeeded.
func (c *Config)Settings() radiometry.Settings { return c.settings }

// NoDataSentinel returns the configured sentinel, or nil when the
// product carries none.
func (c *Config)NoDataSentinel() *uint16 {
	if c.NoData < 0 {
		return nil
	}
	nd := uint16(c.NoData)
	return &nd
}
