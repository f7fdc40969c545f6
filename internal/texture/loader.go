package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned for files whose extension has no decoder.
var ErrUnsupportedFormat = errors.New("texture: unsupported format")

// extensions maps supported file extensions to their priority when several
// files share a stem. Formats with an alpha channel win.
var extensions = map[string]int{
	".png":  3,
	".tga":  3,
	".webp": 3,
	".gif":  2,
	".jpg":  1,
	".jpeg": 1,
	".bmp":  1,
}

// decoders picks the decoder by extension. TGA has no magic number and
// registers itself for every input, so image.Decode sniffing is not used.
var decoders = map[string]func(io.Reader) (image.Image, error){
	".png":  png.Decode,
	".tga":  tga.Decode,
	".webp": webp.Decode,
	".gif":  gif.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".bmp":  bmp.Decode,
}

// Supported reports whether path has a decodable extension.
func Supported(path string) bool {
	_, ok := decoders[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Load reads an image file and returns it as NRGBA with its origin at (0, 0).
func Load(path string) (*image.NRGBA, error) {
	ext := filepath.Ext(path)
	if !Supported(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}
	img, err := Decode(bytes.NewReader(raw), ext)
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return img, nil
}

// Decode decodes r as the format named by ext (".png", ".tga", ...) into
// NRGBA.
func Decode(r io.Reader, ext string) (*image.NRGBA, error) {
	decode, ok := decoders[strings.ToLower(ext)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	img, err := decode(r)
	if err != nil {
		return nil, err
	}
	return toNRGBA(img), nil
}

// toNRGBA converts any image to NRGBA format.
func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
