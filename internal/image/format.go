// Package image provides the ImageBuffer storage primitive that backs
// texpack's preprocessing pipeline: RGBA8 and RGBA32F pixel storage,
// resize filtering, mip downsampling, and PNG I/O (spec §4).
package image

// Format is the in-memory pixel storage format of an ImageBuf. Unlike
// pixelformat.Format (which enumerates every on-disk/GPU format a
// container can hold, including block-compressed ones), Format here
// only ever takes one of two values: ImageBuffer preprocessing always
// operates on uncompressed RGBA, either as bytes or as floats.
type Format uint8

const (
	// FormatRGBA8 stores 4 uint8 channels per pixel, sRGB-encoded unless
	// the buffer has been explicitly linearized.
	FormatRGBA8 Format = iota

	// FormatRGBA32F stores 4 float32 channels per pixel, always in
	// linear light. Used for HDR sources and as the working format for
	// filters that need headroom beyond [0,255] (e.g. Lanczos ringing).
	FormatRGBA32F

	formatCount
)

// FormatInfo describes the storage layout of a Format.
type FormatInfo struct {
	BytesPerPixel int
	Channels      int
	Float         bool
}

var formatInfoTable = [formatCount]FormatInfo{
	FormatRGBA8:   {BytesPerPixel: 4, Channels: 4, Float: false},
	FormatRGBA32F: {BytesPerPixel: 16, Channels: 4, Float: true},
}

// Info returns the FormatInfo for this format.
func (f Format) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{}
	}
	return formatInfoTable[f]
}

// BytesPerPixel returns the number of bytes per pixel for this format.
func (f Format) BytesPerPixel() int { return f.Info().BytesPerPixel }

// Channels returns the number of color channels (always 4: RGBA).
func (f Format) Channels() int { return f.Info().Channels }

// IsFloat reports whether pixels are stored as float32 components.
func (f Format) IsFloat() bool { return f.Info().Float }

// String returns a string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatRGBA8:
		return "RGBA8"
	case FormatRGBA32F:
		return "RGBA32F"
	default:
		return "Unknown"
	}
}

// IsValid returns true if the format is a valid known format.
func (f Format) IsValid() bool { return f < formatCount }

// RowBytes calculates the number of bytes needed for a row of the given width.
func (f Format) RowBytes(width int) int { return width * f.BytesPerPixel() }

// ImageBytes calculates the total number of bytes needed for an image.
func (f Format) ImageBytes(width, height int) int { return f.RowBytes(width) * height }
