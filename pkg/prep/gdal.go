package prep

import(
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// The two GDAL steps are deliberately shell-outs, not library calls:
// they are optional QA conveniences, and linking GDAL in would drag a
// cgo dependency into a tool whose own raster I/O is pure Go.

// BuildPyramids adds averaged overview levels to an output raster so
// viewers can pan it quickly.
func BuildPyramids(tifPath string) error {
	cmd := exec.Command("gdaladdo", "-r", "average", tifPath, "2", "4", "8", "16", "32")
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("gdaladdo '%s': %v: %s", filepath.Base(tifPath), err, firstLine(out))
	}
	return nil
}

// RPCQuicklook warps an output raster through its RPC model into an
// approximate orthorectified preview. Purely a QA aid; the prepped
// frame itself is never resampled.
func RPCQuicklook(tifPath, dem, targetSRS string, res float64) (string, error) {
	out := strings.TrimSuffix(tifPath, filepath.Ext(tifPath)) + "_ql.tif"

	args := []string{
		"-rpc",
		"-t_srs", targetSRS,
		"-tr", fmt.Sprintf("%g", res), fmt.Sprintf("%g", res),
		"-r", "bilinear",
		"-multi", "-wm", "2048",
		"-overwrite",
		"-co", "TILED=YES",
		"-co", "COMPRESS=DEFLATE",
		"-co", "PREDICTOR=2",
		"-co", "ZLEVEL=6",
		"-co", "BIGTIFF=IF_SAFER",
	}
	if dem != "" {
		args = append(args, "-wo", "RPC_DEM="+dem)
	}
	args = append(args, tifPath, out)

	cmd := exec.Command("gdalwarp", args...)
	if cmdOut, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("gdalwarp '%s': %v: %s", filepath.Base(tifPath), err, firstLine(cmdOut))
	}
	return out, nil
}

func firstLine(b []byte) string {
	s := strings.TrimSpace(string(b))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
