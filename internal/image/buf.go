package image

import (
	"sync"

	"github.com/gogpu/texpack/internal/color"
)

// Common errors for image operations.
var (
	ErrInvalidDimensions = invalidArgError("invalid dimensions")
	ErrInvalidFormat     = invalidArgError("invalid format")
	ErrInvalidStride     = invalidArgError("stride too small for width")
	ErrDataTooSmall      = invalidArgError("data buffer too small")
	ErrOutOfBounds       = invalidArgError("coordinates out of bounds")
)

type invalidArgError string

func (e invalidArgError) Error() string { return "image: " + string(e) }

// ImageBuf is a single 2D pixel surface: one chunk of one mip level of
// an ImageBuffer (spec §3, §4). It stores either RGBA8 bytes or RGBA32F
// floats, never both, selected by Format. Premultiplied-alpha data is
// computed lazily and cached, since most pipeline stages never need it.
//
// Thread safety: ImageBuf is safe for concurrent read access. Write
// operations (Set*, Clear, InvalidatePremulCache) require external
// synchronization.
type ImageBuf struct {
	data   []byte    // valid when format == FormatRGBA8
	dataF  []float32 // valid when format == FormatRGBA32F
	width  int
	height int
	stride int // byte stride; for RGBA32F this is width*16 always (no custom-stride float buffers)
	format Format
	space  color.ColorSpace

	premulMu    sync.RWMutex
	premulReady bool
	premulData  []byte
	premulDataF []float32
}

// NewImageBuf creates a new image buffer with the given dimensions and format.
func NewImageBuf(width, height int, format Format) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}

	buf := &ImageBuf{width: width, height: height, format: format, space: color.ColorSpaceSRGB}
	if format.IsFloat() {
		buf.stride = width * 16
		buf.dataF = make([]float32, width*height*4)
	} else {
		buf.stride = format.RowBytes(width)
		buf.data = make([]byte, buf.stride*height)
	}
	return buf, nil
}

// NewImageBufWithStride creates an RGBA8 buffer with custom byte stride
// for alignment. Float buffers never carry a custom stride.
func NewImageBufWithStride(width, height int, format Format, stride int) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() || format.IsFloat() {
		return nil, ErrInvalidFormat
	}
	minStride := format.RowBytes(width)
	if stride < minStride {
		return nil, ErrInvalidStride
	}
	return &ImageBuf{
		data:   make([]byte, stride*height),
		width:  width,
		height: height,
		stride: stride,
		format: format,
		space:  color.ColorSpaceSRGB,
	}, nil
}

// FromRaw creates an RGBA8 ImageBuf from existing data without copying.
// The caller must ensure data remains valid for the lifetime of the ImageBuf.
func FromRaw(data []byte, width, height int, format Format, stride int) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() || format.IsFloat() {
		return nil, ErrInvalidFormat
	}
	minStride := format.RowBytes(width)
	if stride < minStride {
		return nil, ErrInvalidStride
	}
	required := stride * height
	if len(data) < required {
		return nil, ErrDataTooSmall
	}
	return &ImageBuf{
		data:   data[:required],
		width:  width,
		height: height,
		stride: stride,
		format: format,
		space:  color.ColorSpaceSRGB,
	}, nil
}

// Clone creates a deep copy of the image buffer.
func (b *ImageBuf) Clone() *ImageBuf {
	out := &ImageBuf{width: b.width, height: b.height, stride: b.stride, format: b.format, space: b.space}
	if b.format.IsFloat() {
		out.dataF = append([]float32(nil), b.dataF...)
	} else {
		out.data = append([]byte(nil), b.data...)
	}
	return out
}

func (b *ImageBuf) Width() int        { return b.width }
func (b *ImageBuf) Height() int       { return b.height }
func (b *ImageBuf) Stride() int       { return b.stride }
func (b *ImageBuf) Format() Format    { return b.format }
func (b *ImageBuf) Bounds() (int, int) { return b.width, b.height }

// ColorSpace reports whether RGB channels are currently sRGB-encoded or
// linear. Alpha is always linear regardless of this value.
func (b *ImageBuf) ColorSpace() color.ColorSpace { return b.space }

// SetColorSpace retags the buffer's color space without converting any
// data. Callers that actually transform pixel values (ToLinearFromSRGB,
// ToSRGBFromLinear) call this after the conversion loop.
func (b *ImageBuf) SetColorSpace(s color.ColorSpace) { b.space = s }

// Data returns the raw RGBA8 pixel bytes. Panics if the format is RGBA32F.
func (b *ImageBuf) Data() []byte {
	if b.format.IsFloat() {
		panic("image: Data() called on a float32 buffer")
	}
	return b.data
}

// DataF returns the raw RGBA32F pixel floats. Panics if the format is RGBA8.
func (b *ImageBuf) DataF() []float32 {
	if !b.format.IsFloat() {
		panic("image: DataF() called on a byte buffer")
	}
	return b.dataF
}

// RowBytes returns a slice of the pixel data for row y (RGBA8 only).
func (b *ImageBuf) RowBytes(y int) []byte {
	if b.format.IsFloat() || y < 0 || y >= b.height {
		return nil
	}
	start := y * b.stride
	end := start + b.format.RowBytes(b.width)
	return b.data[start:end]
}

// PixelOffset returns the element offset of pixel (x, y): a byte offset
// for RGBA8, a float32-slice offset for RGBA32F. Returns -1 if out of bounds.
func (b *ImageBuf) PixelOffset(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return -1
	}
	if b.format.IsFloat() {
		return (y*b.width + x) * 4
	}
	return y*b.stride + x*b.format.BytesPerPixel()
}

// PixelBytes returns the raw RGBA8 bytes for pixel (x, y), or nil if the
// format is RGBA32F or coordinates are out of bounds.
func (b *ImageBuf) PixelBytes(x, y int) []byte {
	if b.format.IsFloat() {
		return nil
	}
	offset := b.PixelOffset(x, y)
	if offset < 0 {
		return nil
	}
	bpp := b.format.BytesPerPixel()
	return b.data[offset : offset+bpp]
}

// SetPixelBytes sets the raw RGBA8 bytes for pixel (x, y).
func (b *ImageBuf) SetPixelBytes(x, y int, pixel []byte) error {
	if b.format.IsFloat() {
		return ErrInvalidFormat
	}
	offset := b.PixelOffset(x, y)
	if offset < 0 {
		return ErrOutOfBounds
	}
	bpp := b.format.BytesPerPixel()
	copy(b.data[offset:offset+bpp], pixel)
	b.InvalidatePremulCache()
	return nil
}

// GetRGBA returns the 8-bit color at (x, y). For an RGBA32F buffer the
// float components are clamped to [0,1] and rounded to the nearest
// 8-bit value.
// Returns (0,0,0,0) if coordinates are out of bounds.
func (b *ImageBuf) GetRGBA(x, y int) (r, g, bl, a uint8) {
	if b.format.IsFloat() {
		rf, gf, blf, af := b.GetRGBAF(x, y)
		c := color.F32ToU8(color.ColorF32{R: rf, G: gf, B: blf, A: af})
		return c.R, c.G, c.B, c.A
	}
	pixel := b.PixelBytes(x, y)
	if pixel == nil {
		return 0, 0, 0, 0
	}
	return pixel[0], pixel[1], pixel[2], pixel[3]
}

// SetRGBA sets the 8-bit color at (x, y). For an RGBA32F buffer the
// components are converted to [0,1] floats first.
func (b *ImageBuf) SetRGBA(x, y int, r, g, bl, a uint8) error {
	if b.format.IsFloat() {
		c := color.U8ToF32(color.ColorU8{R: r, G: g, B: bl, A: a})
		return b.SetRGBAF(x, y, c.R, c.G, c.B, c.A)
	}
	offset := b.PixelOffset(x, y)
	if offset < 0 {
		return ErrOutOfBounds
	}
	b.data[offset] = r
	b.data[offset+1] = g
	b.data[offset+2] = bl
	b.data[offset+3] = a
	b.InvalidatePremulCache()
	return nil
}

// GetRGBAF returns the float32 color at (x, y). Values are not clamped:
// an RGBA32F buffer may legitimately carry HDR values above 1.0.
func (b *ImageBuf) GetRGBAF(x, y int) (r, g, bl, a float32) {
	if !b.format.IsFloat() {
		ru, gu, blu, au := b.GetRGBA(x, y)
		c := color.U8ToF32(color.ColorU8{R: ru, G: gu, B: blu, A: au})
		return c.R, c.G, c.B, c.A
	}
	offset := b.PixelOffset(x, y)
	if offset < 0 {
		return 0, 0, 0, 0
	}
	return b.dataF[offset], b.dataF[offset+1], b.dataF[offset+2], b.dataF[offset+3]
}

// SetRGBAF sets the float32 color at (x, y).
func (b *ImageBuf) SetRGBAF(x, y int, r, g, bl, a float32) error {
	if !b.format.IsFloat() {
		c := color.F32ToU8(color.ColorF32{R: r, G: g, B: bl, A: a})
		return b.SetRGBA(x, y, c.R, c.G, c.B, c.A)
	}
	offset := b.PixelOffset(x, y)
	if offset < 0 {
		return ErrOutOfBounds
	}
	b.dataF[offset] = r
	b.dataF[offset+1] = g
	b.dataF[offset+2] = bl
	b.dataF[offset+3] = a
	b.InvalidatePremulCache()
	return nil
}

// Clear sets all pixels to zero (transparent black).
func (b *ImageBuf) Clear() {
	if b.format.IsFloat() {
		clear(b.dataF)
	} else {
		clear(b.data)
	}
	b.InvalidatePremulCache()
}

// Fill sets all pixels to the given 8-bit RGBA color.
func (b *ImageBuf) Fill(r, g, bl, a uint8) {
	for y := range b.height {
		for x := range b.width {
			_ = b.SetRGBA(x, y, r, g, bl, a)
		}
	}
}

// InvalidatePremulCache marks the premultiplication cache as stale.
func (b *ImageBuf) InvalidatePremulCache() {
	b.premulMu.Lock()
	b.premulReady = false
	b.premulMu.Unlock()
}

// PremultipliedData returns RGBA8 pixel data with premultiplied alpha.
// Only valid for RGBA8 buffers; panics for RGBA32F (use
// imagebuffer.ImageBuffer's PremultiplyAlpha method instead, which
// operates in linear float space per spec §4.5).
func (b *ImageBuf) PremultipliedData() []byte {
	if b.format.IsFloat() {
		panic("image: PremultipliedData() not supported on float32 buffers")
	}

	b.premulMu.RLock()
	if b.premulReady {
		data := b.premulData
		b.premulMu.RUnlock()
		return data
	}
	b.premulMu.RUnlock()

	b.premulMu.Lock()
	defer b.premulMu.Unlock()
	if b.premulReady {
		return b.premulData
	}
	if len(b.premulData) != len(b.data) {
		b.premulData = make([]byte, len(b.data))
	}
	b.computePremultiplied()
	b.premulReady = true
	return b.premulData
}

func (b *ImageBuf) computePremultiplied() {
	bpp := b.format.BytesPerPixel()
	for y := range b.height {
		srcRow := y * b.stride
		for x := range b.width {
			offset := srcRow + x*bpp
			b.premulPixel(offset)
		}
	}
}

func (b *ImageBuf) premulPixel(offset int) {
	r := uint16(b.data[offset])
	g := uint16(b.data[offset+1])
	bl := uint16(b.data[offset+2])
	a := uint16(b.data[offset+3])

	b.premulData[offset] = byte((r*a + 127) / 255)
	b.premulData[offset+1] = byte((g*a + 127) / 255)
	b.premulData[offset+2] = byte((bl*a + 127) / 255)
	b.premulData[offset+3] = byte(a)
}

// IsPremulCached returns true if premultiplied data is currently cached.
func (b *ImageBuf) IsPremulCached() bool {
	b.premulMu.RLock()
	ready := b.premulReady
	b.premulMu.RUnlock()
	return ready
}

// SubImage returns a view into a rectangular region of the image. The
// returned ImageBuf shares the underlying data with the original.
// Returns nil if the bounds are invalid or outside the image.
func (b *ImageBuf) SubImage(x, y, width, height int) *ImageBuf {
	if x < 0 || y < 0 || width <= 0 || height <= 0 {
		return nil
	}
	if x+width > b.width || y+height > b.height {
		return nil
	}

	if b.format.IsFloat() {
		// Float buffers are always tightly packed (no custom stride), so a
		// rectangular sub-view cannot be a contiguous slice unless it spans
		// full rows; instead return an independent copy.
		out, _ := NewImageBuf(width, height, b.format)
		for dy := range height {
			for dx := range width {
				r, g, bl, a := b.GetRGBAF(x+dx, y+dy)
				_ = out.SetRGBAF(dx, dy, r, g, bl, a)
			}
		}
		return out
	}

	offset := y*b.stride + x*b.format.BytesPerPixel()
	endOffset := (y+height-1)*b.stride + (x+width)*b.format.BytesPerPixel()
	return &ImageBuf{
		data:   b.data[offset:endOffset],
		width:  width,
		height: height,
		stride: b.stride,
		format: b.format,
		space:  b.space,
	}
}

// ByteSize returns the total size of the image data in bytes.
func (b *ImageBuf) ByteSize() int {
	if b.format.IsFloat() {
		return len(b.dataF) * 4
	}
	return len(b.data)
}

// IsEmpty returns true if the image has zero dimensions.
func (b *ImageBuf) IsEmpty() bool {
	return b.width == 0 || b.height == 0
}
