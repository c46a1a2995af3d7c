package rpc

import(
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// The `_RPC.TXT` sidecar is the plain-text RPC00B rendition that GDAL
// and most photogrammetric suites pick up automatically when it sits
// next to the raster. One `KEY: value [unit]` line per scalar, one
// line per polynomial term.

// scalarFields maps sidecar keys to model fields, with the unit the
// canonical writer appends.
type scalarField struct {
	key  string
	unit string
	get  func(m *Model) *float64
}

var scalarFields = []scalarField{
	{"ERR_BIAS", "meters", func(m *Model) *float64 { return &m.ErrBias }},
	{"ERR_RAND", "meters", func(m *Model) *float64 { return &m.ErrRand }},
	{"LINE_OFF", "pixels", func(m *Model) *float64 { return &m.LineOff }},
	{"SAMP_OFF", "pixels", func(m *Model) *float64 { return &m.SampOff }},
	{"LAT_OFF", "degrees", func(m *Model) *float64 { return &m.LatOff }},
	{"LONG_OFF", "degrees", func(m *Model) *float64 { return &m.LongOff }},
	{"HEIGHT_OFF", "meters", func(m *Model) *float64 { return &m.HeightOff }},
	{"LINE_SCALE", "pixels", func(m *Model) *float64 { return &m.LineScale }},
	{"SAMP_SCALE", "pixels", func(m *Model) *float64 { return &m.SampScale }},
	{"LAT_SCALE", "degrees", func(m *Model) *float64 { return &m.LatScale }},
	{"LONG_SCALE", "degrees", func(m *Model) *float64 { return &m.LongScale }},
	{"HEIGHT_SCALE", "meters", func(m *Model) *float64 { return &m.HeightScale }},
}

var coeffFields = []struct {
	prefix string
	get    func(m *Model) *[20]float64
}{
	{"LINE_NUM_COEFF", func(m *Model) *[20]float64 { return &m.LineNumCoeff }},
	{"LINE_DEN_COEFF", func(m *Model) *[20]float64 { return &m.LineDenCoeff }},
	{"SAMP_NUM_COEFF", func(m *Model) *[20]float64 { return &m.SampNumCoeff }},
	{"SAMP_DEN_COEFF", func(m *Model) *[20]float64 { return &m.SampDenCoeff }},
}

// FormatText renders the model in the canonical sidecar layout.
func (m *Model)FormatText() string {
	var sb strings.Builder

	for _, f := range scalarFields {
		fmt.Fprintf(&sb, "%s: %+.9E %s\n", f.key, *f.get(m), f.unit)
	}
	for _, cf := range coeffFields {
		c := cf.get(m)
		for i := 0; i < 20; i++ {
			fmt.Fprintf(&sb, "%s_%d: %+.12E\n", cf.prefix, i+1, c[i])
		}
	}

	return sb.String()
}

// ParseText reads a `_RPC.TXT`-style sidecar. Keys it doesn't know
// are skipped; ERR_BIAS/ERR_RAND are optional (not every vendor
// writes them); any missing polynomial term fails the parse.
func ParseText(r io.Reader) (*Model, error) {
	m := Model{}
	seen := map[string]bool{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		colon := strings.Index(line, ":")
		if colon < 0 {
			continue
		}
		key := strings.TrimSpace(line[:colon])
		val := strings.Fields(line[colon+1:])
		if len(val) == 0 {
			return nil, fmt.Errorf("rpc text: key '%s' has no value", key)
		}

		num, err := strconv.ParseFloat(val[0], 64)
		if err != nil {
			return nil, fmt.Errorf("rpc text: key '%s': %v", key, err)
		}

		if err := assign(&m, key, num); err == nil {
			seen[key] = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("rpc text read: %v", err)
	}

	for _, f := range scalarFields {
		if f.key == "ERR_BIAS" || f.key == "ERR_RAND" {
			continue
		}
		if !seen[f.key] {
			return nil, fmt.Errorf("rpc text: missing %s", f.key)
		}
	}
	for _, cf := range coeffFields {
		for i := 1; i <= 20; i++ {
			if key := fmt.Sprintf("%s_%d", cf.prefix, i); !seen[key] {
				return nil, fmt.Errorf("rpc text: missing %s", key)
			}
		}
	}

	return &m, nil
}

func assign(m *Model, key string, v float64) error {
	for _, f := range scalarFields {
		if f.key == key {
			*f.get(m) = v
			return nil
		}
	}
	for _, cf := range coeffFields {
		if strings.HasPrefix(key, cf.prefix+"_") {
			i, err := strconv.Atoi(key[len(cf.prefix)+1:])
			if err != nil || i < 1 || i > 20 {
				return fmt.Errorf("rpc text: bad coefficient index '%s'", key)
			}
			cf.get(m)[i-1] = v
			return nil
		}
	}
	return fmt.Errorf("unknown key '%s'", key)
}

func LoadText(filename string) (*Model, error) {
	reader, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open+r '%s': %v", filename, err)
	}
	defer reader.Close()

	m, err := ParseText(reader)
	if err != nil {
		return nil, fmt.Errorf("rpc parsing '%s': %v", filename, err)
	}
	return m, nil
}

func SaveText(m *Model, filename string) error {
	writer, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	}
	defer writer.Close()

	if _, err := io.WriteString(writer, m.FormatText()); err != nil {
		return fmt.Errorf("rpc writing '%s': %v", filename, err)
	}
	return nil
}
