package rpc

import(
	"fmt"
	"os"
	"strconv"
	"strings"
)

// The `.RPB` sidecar is the other common carrier: `key = value;`
// assignments, with the four polynomials written as parenthesized,
// comma-separated 20-term lists that usually span lines. We only
// read this form, never write it; the canonical output sidecar is
// `_RPC.TXT`.

var rpbScalars = map[string]func(m *Model) *float64{
	"errbias":      func(m *Model) *float64 { return &m.ErrBias },
	"errrand":      func(m *Model) *float64 { return &m.ErrRand },
	"lineoffset":   func(m *Model) *float64 { return &m.LineOff },
	"sampoffset":   func(m *Model) *float64 { return &m.SampOff },
	"latoffset":    func(m *Model) *float64 { return &m.LatOff },
	"longoffset":   func(m *Model) *float64 { return &m.LongOff },
	"heightoffset": func(m *Model) *float64 { return &m.HeightOff },
	"linescale":    func(m *Model) *float64 { return &m.LineScale },
	"sampscale":    func(m *Model) *float64 { return &m.SampScale },
	"latscale":     func(m *Model) *float64 { return &m.LatScale },
	"longscale":    func(m *Model) *float64 { return &m.LongScale },
	"heightscale":  func(m *Model) *float64 { return &m.HeightScale },
}

var rpbCoeffs = map[string]func(m *Model) *[20]float64{
	"linenumcoef": func(m *Model) *[20]float64 { return &m.LineNumCoeff },
	"linedencoef": func(m *Model) *[20]float64 { return &m.LineDenCoeff },
	"sampnumcoef": func(m *Model) *[20]float64 { return &m.SampNumCoeff },
	"sampdencoef": func(m *Model) *[20]float64 { return &m.SampDenCoeff },
}

// ParseRPB reads the whole sidecar text. Statements are terminated by
// ';', so the polynomial lists can be reassembled regardless of how
// the writer wrapped them. The BEGIN_GROUP/END_GROUP/END structure
// lines are not ';'-terminated and have to go first, or the group
// header merges into the assignment that follows it.
func ParseRPB(text string) (*Model, error) {
	m := Model{}
	seen := map[string]bool{}

	for _, stmt := range strings.Split(stripGroupLines(text), ";") {
		eq := strings.Index(stmt, "=")
		if eq < 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(stmt[:eq]))
		val := strings.TrimSpace(stmt[eq+1:])

		if get, ok := rpbScalars[key]; ok {
			num, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return nil, fmt.Errorf("rpb: key '%s': %v", key, err)
			}
			*get(&m) = num
			seen[key] = true

		} else if get, ok := rpbCoeffs[key]; ok {
			val = strings.TrimPrefix(val, "(")
			val = strings.TrimSuffix(val, ")")
			terms := strings.Split(val, ",")
			if len(terms) != 20 {
				return nil, fmt.Errorf("rpb: key '%s': want 20 terms, got %d", key, len(terms))
			}
			c := get(&m)
			for i, t := range terms {
				num, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
				if err != nil {
					return nil, fmt.Errorf("rpb: key '%s' term %d: %v", key, i+1, err)
				}
				c[i] = num
			}
			seen[key] = true
		}
	}

	for key := range rpbScalars {
		if key == "errbias" || key == "errrand" {
			continue
		}
		if !seen[key] {
			return nil, fmt.Errorf("rpb: missing %s", key)
		}
	}
	for key := range rpbCoeffs {
		if !seen[key] {
			return nil, fmt.Errorf("rpb: missing %s", key)
		}
	}

	return &m, nil
}

func stripGroupLines(text string) string {
	keep := []string{}
	for _, line := range strings.Split(text, "\n") {
		t := strings.ToUpper(strings.TrimSpace(line))
		if strings.HasPrefix(t, "BEGIN_GROUP") || strings.HasPrefix(t, "END_GROUP") || t == "END" || t == "END;" {
			continue
		}
		keep = append(keep, line)
	}
	return strings.Join(keep, "\n")
}

func LoadRPB(filename string) (*Model, error) {
	contents, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("open+r '%s': %v", filename, err)
	}

	m, err := ParseRPB(string(contents))
	if err != nil {
		return nil, fmt.Errorf("rpb parsing '%s': %v", filename, err)
	}
	return m, nil
}
