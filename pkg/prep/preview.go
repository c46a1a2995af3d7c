package prep

import(
	"image"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"

	"github.com/radgeo/radprep/pkg/raster"
)

// Longest edge of a preview PNG. Full frames are far too big to eyeball.
const previewMaxEdge = 1024

// False-color ramp stops for the preview: shadows cold, midtones
// warm, highlights near white. Blended in Lab so the perceived
// brightness climbs smoothly.
var rampStops = []colorful.Color{
	{R: 0.05, G: 0.05, B: 0.15},
	{R: 0.10, G: 0.25, B: 0.55},
	{R: 0.85, G: 0.65, B: 0.15},
	{R: 0.98, G: 0.98, B: 0.92},
}

func rampColor(t float64) colorful.Color {
	if t < 0 { t = 0 }
	if t > 1 { t = 1 }

	segs := len(rampStops) - 1
	pos := t * float64(segs)
	i := int(pos)
	if i >= segs { i = segs - 1 }

	return rampStops[i].BlendLab(rampStops[i+1], pos-float64(i)).Clamped()
}

// WritePreview renders a captioned false-color PNG of an output
// frame, for quick visual QA without any GDAL tooling. Nodata stays
// black so dropouts are obvious.
func WritePreview(f *raster.Frame, caption, filename string) error {
	w, h := previewSize(f.Width, f.Height)

	// Downsample the 16-bit frame first, then colorize the small image
	small := image.NewGray16(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(small, small.Bounds(), f.GrayImage(), image.Rect(0, 0, f.Width, f.Height), draw.Src, nil)

	maxDN := float64(f.MaxDN())
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := small.Gray16At(x, y).Y
			if f.IsNoData(v) {
				continue // leave it black
			}
			img.Set(x, y, rampColor(float64(v)/maxDN))
		}
	}

	dc := gg.NewContextForImage(img)
	dc.SetRGB(1, 1, 1)
	dc.DrawString(caption, 10, 20)
	return dc.SavePNG(filename)
}

func previewSize(w, h int) (int, int) {
	long := w
	if h > long { long = h }
	if long <= previewMaxEdge {
		return w, h
	}

	scale := float64(previewMaxEdge) / float64(long)
	pw, ph := int(float64(w)*scale), int(float64(h)*scale)
	if pw < 1 { pw = 1 }
	if ph < 1 { ph = 1 }
	return pw, ph
}
