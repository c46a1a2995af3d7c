//go:build opencv

package radiometry

import(
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/radgeo/radprep/pkg/raster"
)

// OpenCVCLAHE runs the enhancement stage through OpenCV, on the same
// 8-bit detour the reference tooling for this product family uses:
// quantize to [0,255], apply, divide back out.
type OpenCVCLAHE struct {
	ClipLimit float64
	Tiles     int
}

func (c OpenCVCLAHE)Name() string { return "opencv" }

func (c OpenCVCLAHE)Apply(g *raster.FloatGrid) (raster.FloatGrid, error) {
	w, h := g.Dx(), g.Dy()

	src := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC1)
	defer src.Close()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src.SetUCharAt(y, x, uint8(g.Get(x, y)*255.0+0.5))
		}
	}

	clahe := gocv.NewCLAHEWithParams(c.ClipLimit, image.Point{X: c.Tiles, Y: c.Tiles})
	defer clahe.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	clahe.Apply(src, &dst)
	if dst.Empty() {
		return raster.FloatGrid{}, fmt.Errorf("opencv clahe produced an empty mat")
	}

	out := g.NewFromThis()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Set(x, y, float64(dst.GetUCharAt(y, x))/255.0)
		}
	}

	return out, nil
}

func newOpenCVEnhancer(clip float64, tiles int) (Enhancer, error) {
	return OpenCVCLAHE{ClipLimit: clip, Tiles: tiles}, nil
}
