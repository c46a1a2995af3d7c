package raster

import (
	"fmt"
	"image"
	"io"
	"os"

	"golang.org/x/image/tiff"
)

// LoadTIFF reads a single-band 16-bit grayscale TIFF into a Frame.
// The nodata sentinel is not stored in baseline TIFF, so the caller
// assigns it from product configuration after loading.
func LoadTIFF(filename string) (*Frame, error) {
	reader, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open+r '%s': %v", filename, err)
	}
	defer reader.Close()

	f, err := DecodeTIFF(reader)
	if err != nil {
		return nil, fmt.Errorf("tiff loading '%s': %v", filename, err)
	}
	return f, nil
}

func DecodeTIFF(r io.Reader) (*Frame, error) {
	img, err := tiff.Decode(r)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	f := NewFrame(b.Dx(), b.Dy())

	switch src := img.(type) {
	case *image.Gray16:
		// Gray16 pixels are big-endian byte pairs
		for y := 0; y < f.Height; y++ {
			o := y * src.Stride
			for x := 0; x < f.Width; x++ {
				f.Pix[y*f.Width+x] = uint16(src.Pix[o])<<8 | uint16(src.Pix[o+1])
				o += 2
			}
		}
	case *image.Gray:
		for y := 0; y < f.Height; y++ {
			for x := 0; x < f.Width; x++ {
				f.Pix[y*f.Width+x] = uint16(src.GrayAt(x+b.Min.X, y+b.Min.Y).Y) << 8
			}
		}
	default:
		return nil, fmt.Errorf("want single-band grayscale, got %T", img)
	}

	return f, nil
}

// GrayImage renders the frame as a stdlib 16-bit grayscale image.
func (f *Frame)GrayImage() *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, f.Width, f.Height))
	for i, v := range f.Pix {
		img.Pix[2*i] = uint8(v >> 8)
		img.Pix[2*i+1] = uint8(v)
	}
	return img
}

// SaveTIFF writes the frame as a losslessly compressed 16-bit
// grayscale TIFF (deflate with horizontal predictor).
func SaveTIFF(f *Frame, filename string) error {
	writer, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	}
	defer writer.Close()

	if err := EncodeTIFF(writer, f); err != nil {
		return fmt.Errorf("tiff writing '%s': %v", filename, err)
	}
	return nil
}

func EncodeTIFF(w io.Writer, f *Frame) error {
	opts := tiff.Options{Compression: tiff.Deflate, Predictor: true}
	return tiff.Encode(w, f.GrayImage(), &opts)
}
