// Package imageio loads and saves the raster formats the editor supports.
package imageio

import (
	"bufio"
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

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/example/shineypaint/internal/layers"
	"github.com/example/shineypaint/internal/logging"
)

// ErrUnsupportedFormat is returned for file extensions with no codec.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Format identifies an image encoding.
type Format int

const (
	FormatNone Format = iota
	FormatPNG
	FormatJPEG
	FormatGIF
	FormatBMP
	FormatTIFF
	FormatWebP
	FormatPDF
)

var formatNames = map[Format]string{
	FormatPNG:  "png",
	FormatJPEG: "jpeg",
	FormatGIF:  "gif",
	FormatBMP:  "bmp",
	FormatTIFF: "tiff",
	FormatWebP: "webp",
	FormatPDF:  "pdf",
}

func (f Format) String() string {
	if n, ok := formatNames[f]; ok {
		return n
	}
	return "none"
}

// CanEncode reports whether Write supports f. WebP is decode only.
func (f Format) CanEncode() bool {
	return f != FormatNone && f != FormatWebP
}

// FormatFromExt maps a file extension, with or without the dot, to a Format.
func FormatFromExt(ext string) (Format, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	switch ext {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "gif":
		return FormatGIF, nil
	case "bmp":
		return FormatBMP, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	case "webp":
		return FormatWebP, nil
	case "pdf":
		return FormatPDF, nil
	}
	return FormatNone, fmt.Errorf("%w: extension %q", ErrUnsupportedFormat, ext)
}

// FormatFromPath picks the Format for path from its extension.
func FormatFromPath(path string) (Format, error) {
	return FormatFromExt(filepath.Ext(path))
}

// ProbeSize reads only the header of r and returns the image dimensions.
func ProbeSize(r io.Reader) (image.Point, Format, error) {
	cfg, name, err := image.DecodeConfig(r)
	if err != nil {
		return image.Point{}, FormatNone, fmt.Errorf("decode config: %w", err)
	}
	f, _ := FormatFromExt(name)
	return image.Pt(cfg.Width, cfg.Height), f, nil
}

// Read decodes an image from r after checking that its declared size is
// within maxSize on both axes. A maxSize of zero means the default limit.
func Read(r io.Reader, maxSize int) (image.Image, Format, error) {
	var head bytes.Buffer
	size, f, err := ProbeSize(io.TeeReader(r, &head))
	if err != nil {
		return nil, FormatNone, err
	}
	if err := layers.CheckSize(size.X, size.Y, maxSize); err != nil {
		return nil, f, err
	}
	img, _, err := image.Decode(io.MultiReader(&head, r))
	if err != nil {
		return nil, f, fmt.Errorf("decode %s: %w", f, err)
	}
	return img, f, nil
}

// Open decodes the image stored at path.
func Open(path string, maxSize int) (image.Image, Format, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, FormatNone, err
	}
	defer fh.Close()
	img, f, err := Read(bufio.NewReader(fh), maxSize)
	if err != nil {
		return nil, f, fmt.Errorf("%s: %w", path, err)
	}
	logging.Logger().Info("image loaded", "path", path, "format", f, "size", img.Bounds().Size())
	return img, f, nil
}

// Load opens path as a single layer image.
func Load(path string, maxSize int) (*layers.Image, error) {
	img, _, err := Open(path, maxSize)
	if err != nil {
		return nil, err
	}
	return layers.FromImage(img, maxSize)
}

// Codec writes images, choosing the format from the file extension.
type Codec struct {
	// JPEGQuality is used for JPEG output; zero means 90.
	JPEGQuality int
}

// Encode writes img to path.
func (c Codec) Encode(path string, img image.Image) (err error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if !f.CanEncode() {
		return fmt.Errorf("%w: cannot write %s", ErrUnsupportedFormat, f)
	}
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := fh.Close(); err == nil {
			err = cerr
		}
	}()
	bw := bufio.NewWriter(fh)
	if err := c.Write(bw, img, f); err != nil {
		return err
	}
	return bw.Flush()
}

// Write encodes img to w in format f.
func (c Codec) Write(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatJPEG:
		q := c.JPEGQuality
		if q <= 0 {
			q = 90
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: q})
	case FormatGIF:
		return gif.Encode(w, img, nil)
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case FormatPDF:
		return writePDF(w, img)
	}
	return fmt.Errorf("%w: cannot write %s", ErrUnsupportedFormat, f)
}

// EncodePNG returns img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writePDF places img on a single page of the same size, one point per pixel.
func writePDF(w io.Writer, img image.Image) error {
	data, err := EncodePNG(img)
	if err != nil {
		return err
	}
	b := img.Bounds()
	wd, ht := float64(b.Dx()), float64(b.Dy())
	// Portrait keeps Wd and Ht as given; landscape would swap them.
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: wd, Ht: ht},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("canvas", opts, bytes.NewReader(data))
	pdf.ImageOptions("canvas", 0, 0, wd, ht, false, opts, 0, "")
	return pdf.Output(w)
}
