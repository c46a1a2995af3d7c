package prep

import(
	"fmt"
	"path/filepath"
	"strings"

	"github.com/radgeo/radprep/pkg/rpc"
)

// RecoverRPC pulls the camera model out of whichever carrier the
// source scene has, in order of trustworthiness: the `_RPC.TXT`
// sidecar, then the `.RPB` sidecar, then the private TIFF tag in the
// raster itself. Returns the model and the carrier it came from.
func RecoverRPC(srcTif string) (*rpc.Model, string, error) {
	stem := strings.TrimSuffix(srcTif, filepath.Ext(srcTif))

	for _, cand := range []string{stem + "_RPC.TXT", stem + "_rpc.txt"} {
		if fileExists(cand) {
			m, err := rpc.LoadText(cand)
			if err != nil {
				return nil, "", err
			}
			return m, filepath.Base(cand), nil
		}
	}

	for _, cand := range []string{stem + ".RPB", stem + ".rpb"} {
		if fileExists(cand) {
			m, err := rpc.LoadRPB(cand)
			if err != nil {
				return nil, "", err
			}
			return m, filepath.Base(cand), nil
		}
	}

	if m, err := rpc.LoadTIFFTag(srcTif); err == nil {
		return m, "tiff tag", nil
	}

	return nil, "", fmt.Errorf("no RPC carrier found for '%s'", filepath.Base(srcTif))
}

// EmbedRPC writes the canonical `_RPC.TXT` sidecar next to the output
// raster and verifies it by re-parsing what landed on disk. Warpers
// pick the sidecar up automatically, which is as good as an embedded
// tag and doesn't need a TIFF writer that handles private tags.
func EmbedRPC(m *rpc.Model, outTif string) (string, error) {
	if err := m.Validate(); err != nil {
		return "", fmt.Errorf("refusing to embed: %v", err)
	}

	sidecar := strings.TrimSuffix(outTif, filepath.Ext(outTif)) + "_RPC.TXT"
	if err := rpc.SaveText(m, sidecar); err != nil {
		return "", err
	}

	readBack, err := rpc.LoadText(sidecar)
	if err != nil {
		return "", fmt.Errorf("verify '%s': %v", sidecar, err)
	}
	if *readBack != *m {
		return "", fmt.Errorf("verify '%s': read-back differs from what was written", sidecar)
	}

	return sidecar, nil
}
