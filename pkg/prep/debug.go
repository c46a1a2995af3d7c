package prep

import(
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/mdouchement/hdr/hdrcolor"

	"github.com/radgeo/radprep/pkg/raster"
)

// normalizedImage presents the [0,1] intermediate plane as an HDR
// image, so it can be dumped losslessly and inspected in HDR tooling
// before requantization has flattened it.
type normalizedImage struct {
	g *raster.FloatGrid
}

// Implement image.Image
func (ni normalizedImage)ColorModel() color.Model { return hdrcolor.RGBModel }
func (ni normalizedImage)Bounds() image.Rectangle { return image.Rect(0, 0, ni.g.Dx(), ni.g.Dy()) }
func (ni normalizedImage)At(x, y int) color.Color { return ni.HDRAt(x, y) }

// Implement hdr.Image
func (ni normalizedImage)HDRAt(x, y int) hdrcolor.Color {
	v := ni.g.Get(x, y)
	return hdrcolor.RGB{R: v, G: v, B: v}
}
func (ni normalizedImage)Size() int { return ni.g.Dx() * ni.g.Dy() }

// WriteNormalizedHDR dumps the normalized plane as a Radiance HDR
// file. Debug aid only; nothing downstream reads it.
func WriteNormalizedHDR(g *raster.FloatGrid, filename string) error {
	writer, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	}
	defer writer.Close()

	if err := rgbe.Encode(writer, normalizedImage{g}); err != nil {
		return fmt.Errorf("rgbe encoding '%s': %v", filename, err)
	}
	return nil
}
