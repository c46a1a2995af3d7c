package rpc

import(
	"fmt"
)

// A Model holds the rational polynomial camera coefficients for one
// scene, as defined by the RPC00B layout: offsets and scales that
// normalize image/ground coordinates, plus four 20-term cubic
// polynomials. The prep tool never evaluates these; it only recovers
// them from the source scene and carries them to the output intact,
// because downstream orthorectification is lost without them.
type Model struct {
	ErrBias     float64 // meters, 0 when the vendor didn't supply one
	ErrRand     float64 // meters
	LineOff     float64 // pixels
	SampOff     float64 // pixels
	LatOff      float64 // degrees
	LongOff     float64 // degrees
	HeightOff   float64 // meters
	LineScale   float64 // pixels
	SampScale   float64 // pixels
	LatScale    float64 // degrees
	LongScale   float64 // degrees
	HeightScale float64 // meters

	LineNumCoeff [20]float64
	LineDenCoeff [20]float64
	SampNumCoeff [20]float64
	SampDenCoeff [20]float64
}

// Validate checks the model is usable by a warper: non-zero
// normalization scales, and denominators that aren't identically
// zero. It does not judge geometric plausibility.
func (m *Model)Validate() error {
	scales := map[string]float64{
		"lineScale":   m.LineScale,
		"sampScale":   m.SampScale,
		"latScale":    m.LatScale,
		"longScale":   m.LongScale,
		"heightScale": m.HeightScale,
	}
	for name, v := range scales {
		if v == 0 {
			return fmt.Errorf("rpc %s is zero", name)
		}
	}

	if allZero(m.LineDenCoeff) {
		return fmt.Errorf("rpc line denominator is identically zero")
	}
	if allZero(m.SampDenCoeff) {
		return fmt.Errorf("rpc sample denominator is identically zero")
	}

	return nil
}

func allZero(c [20]float64) bool {
	for _, v := range c {
		if v != 0 {
			return false
		}
	}
	return true
}

func (m *Model)String() string {
	return fmt.Sprintf("rpc[line %.1f±%.1f, samp %.1f±%.1f, ll (%.4f,%.4f)]",
		m.LineOff, m.LineScale, m.SampOff, m.SampScale, m.LatOff, m.LongOff)
}
