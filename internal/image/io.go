package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when the image format is not supported.
	ErrUnsupportedFormat = errors.New("image: unsupported format")

	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("image: empty data")
)

// LoadPNG loads a PNG image from the given file path.
func LoadPNG(path string) (*ImageBuf, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("image: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return DecodePNG(f)
}

// LoadImageFromBytes decodes a PNG image from a byte slice.
func LoadImageFromBytes(data []byte) (*ImageBuf, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	return DecodePNG(bytes.NewReader(data))
}

// DecodePNG decodes a PNG image from the given reader into an RGBA8
// ImageBuf (spec §4.7: the only ingest format the pipeline accepts).
func DecodePNG(r io.Reader) (*ImageBuf, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("image: decode PNG: %w", err)
	}
	return FromStdImage(img), nil
}

// DecodePNGWithHints decodes a PNG into an RGBA8 ImageBuf alongside the
// content flags the pipeline's PNG ingest path needs (spec §4.7: "If
// PNG, consult the PNG interface only for RGBA8 bytes plus
// hasColor/hasAlpha/hasPalette flags"). hasColor is false only for a
// strictly grayscale source; hasAlpha reflects the source color model,
// not whether any decoded pixel is actually translucent.
func DecodePNGWithHints(r io.Reader) (buf *ImageBuf, hasColor, hasAlpha, hasPalette bool, err error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, false, false, false, fmt.Errorf("image: decode PNG: %w", err)
	}
	switch img.ColorModel() {
	case color.GrayModel, color.Gray16Model:
		hasColor, hasAlpha = false, false
	case color.NRGBAModel, color.RGBAModel, color.NRGBA64Model, color.RGBA64Model:
		hasColor, hasAlpha = true, true
	default:
		hasColor = true
		if _, ok := img.(*image.Paletted); ok {
			hasPalette = true
			hasAlpha = paletteHasAlpha(img.(*image.Paletted).Palette)
		}
	}
	return FromStdImage(img), hasColor, hasAlpha, hasPalette, nil
}

func paletteHasAlpha(pal color.Palette) bool {
	for _, c := range pal {
		_, _, _, a := c.RGBA()
		if a != 0xffff {
			return true
		}
	}
	return false
}

// SavePNG saves the image as a PNG file.
func (b *ImageBuf) SavePNG(path string) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("image: create file: %w", err)
	}

	if err := b.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

// EncodePNG encodes the image as PNG to the given writer. Float-format
// buffers are tone-mapped to 8-bit range by simple clamping; callers
// that need correct HDR preview output should run them through the
// imagebuffer package's ToSRGBFromLinear first.
func (b *ImageBuf) EncodePNG(w io.Writer) error {
	img := b.ToStdImage()
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("image: encode PNG: %w", err)
	}
	return nil
}

// FromStdImage creates an ImageBuf from a standard library image.Image.
// The resulting ImageBuf is always RGBA8.
func FromStdImage(img image.Image) *ImageBuf {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	buf, _ := NewImageBuf(width, height, FormatRGBA8)

	// Fast path for RGBA images
	if rgba, ok := img.(*image.RGBA); ok {
		if rgba.Stride == buf.Stride() {
			copy(buf.Data(), rgba.Pix)
			return buf
		}
		for y := range height {
			srcStart := y * rgba.Stride
			copy(buf.RowBytes(y), rgba.Pix[srcStart:srcStart+width*4])
		}
		return buf
	}

	// Fast path for NRGBA images
	if nrgba, ok := img.(*image.NRGBA); ok {
		if nrgba.Stride == buf.Stride() {
			copy(buf.Data(), nrgba.Pix)
			return buf
		}
		for y := range height {
			srcStart := y * nrgba.Stride
			copy(buf.RowBytes(y), nrgba.Pix[srcStart:srcStart+width*4])
		}
		return buf
	}

	// Generic slow path for any image type, including Gray/Gray16.
	for y := range height {
		for x := range width {
			c := img.At(bounds.Min.X+x, bounds.Min.Y+y)
			r, g, bl, a := c.RGBA()
			// RGBA() returns 16-bit values; shifting by 8 fits uint8.
			_ = buf.SetRGBA(x, y, byte(r>>8), byte(g>>8), byte(bl>>8), byte(a>>8))
		}
	}

	return buf
}

// ToStdImage converts the ImageBuf to a standard library image.Image.
// RGBA8 buffers map to *image.NRGBA (non-premultiplied); RGBA32F
// buffers are clamped to [0,1] and converted through the same path.
func (b *ImageBuf) ToStdImage() image.Image {
	rect := image.Rect(0, 0, b.width, b.height)

	if b.format == FormatRGBA8 {
		nrgba := image.NewNRGBA(rect)
		if b.stride == nrgba.Stride {
			copy(nrgba.Pix, b.data)
		} else {
			for y := range b.height {
				copy(nrgba.Pix[y*nrgba.Stride:], b.RowBytes(y))
			}
		}
		return nrgba
	}

	nrgba := image.NewNRGBA(rect)
	for y := range b.height {
		for x := range b.width {
			r, g, bl, a := b.GetRGBA(x, y)
			off := y*nrgba.Stride + x*4
			nrgba.Pix[off] = r
			nrgba.Pix[off+1] = g
			nrgba.Pix[off+2] = bl
			nrgba.Pix[off+3] = a
		}
	}
	return nrgba
}

// EncodeToBytes encodes the image to PNG format and returns the bytes.
func (b *ImageBuf) EncodeToBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := b.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
