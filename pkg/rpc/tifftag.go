package rpc

import(
	"fmt"
	"os"

	exiftiff "github.com/rwcarlsen/goexif/tiff"
)

// RPCCoefficientTag is the private TIFF tag some vendors embed the
// model in: 92 doubles laid out as ERR_BIAS, ERR_RAND, the ten
// offset/scale scalars, then the four 20-term polynomials.
const RPCCoefficientTag = 50844

const rpcTagCount = 92

// LoadTIFFTag walks the source TIFF's directories looking for the RPC
// coefficient tag. Returns an error when the tag is absent; callers
// treat that as "try the next recovery source", not a failed frame.
func LoadTIFFTag(filename string) (*Model, error) {
	reader, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open+r '%s': %v", filename, err)
	}
	defer reader.Close()

	tf, err := exiftiff.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("tiff ifd parsing '%s': %v", filename, err)
	}

	for _, dir := range tf.Dirs {
		for _, tag := range dir.Tags {
			if tag.Id != RPCCoefficientTag {
				continue
			}
			m, err := modelFromTagValues(tag)
			if err != nil {
				return nil, fmt.Errorf("rpc tag in '%s': %v", filename, err)
			}
			return m, nil
		}
	}

	return nil, fmt.Errorf("'%s' carries no RPC coefficient tag", filename)
}

func modelFromTagValues(tag *exiftiff.Tag) (*Model, error) {
	if tag.Count != rpcTagCount {
		return nil, fmt.Errorf("want %d doubles, got %d", rpcTagCount, tag.Count)
	}

	vals := make([]float64, rpcTagCount)
	for i := range vals {
		v, err := tag.Float(i)
		if err != nil {
			return nil, fmt.Errorf("double %d: %v", i, err)
		}
		vals[i] = v
	}

	m := Model{
		ErrBias:     vals[0],
		ErrRand:     vals[1],
		LineOff:     vals[2],
		SampOff:     vals[3],
		LatOff:      vals[4],
		LongOff:     vals[5],
		HeightOff:   vals[6],
		LineScale:   vals[7],
		SampScale:   vals[8],
		LatScale:    vals[9],
		LongScale:   vals[10],
		HeightScale: vals[11],
	}
	copy(m.LineNumCoeff[:], vals[12:32])
	copy(m.LineDenCoeff[:], vals[32:52])
	copy(m.SampNumCoeff[:], vals[52:72])
	copy(m.SampDenCoeff[:], vals[72:92])

	return &m, nil
}
