// Package pixelformat catalogs the pixel formats texpack can read, write,
// and encode into: channel count, block dimensions, bytes per block, and
// the sRGB/signed/float/HDR/block-compressed flags that the rest of the
// toolchain (image, mipmap, encoder, ktx) dispatches on.
//
// The registry is pure: every lookup is a table read, so it may be
// called concurrently from any number of script workers without
// synchronization.
package pixelformat

import (
	"fmt"
	"strings"
)

// Format identifies a pixel storage scheme by an opaque, stable value.
// Zero is not a valid format; use Unknown only to detect the absence of
// a value.
type Format uint16

// Explicit, non-block formats. Block dimensions are 1x1.
const (
	Unknown Format = iota

	R8
	RG8
	RGBA8
	R8SRGB
	RG8SRGB
	RGBA8SRGB

	R16F
	RG16F
	RGBA16F
	R32F
	RG32F
	RGBA32F
)

// Block-compressed LDR formats (4x4 blocks unless noted).
const (
	BC1 Format = iota + 100
	BC1SRGB
	BC3
	BC3SRGB
	BC4
	BC5
	BC7
	BC7SRGB
)

// Block-compressed HDR formats.
const (
	BC6H Format = iota + 200
)

// ETC2 formats (4x4 blocks).
const (
	ETC2R Format = iota + 300
	ETC2RG
	ETC2RGB
	ETC2RGBA
	ETC2RGBSRGB
	ETC2RGBASRGB
)

// ASTC formats. Block footprint varies; see FormatInfo.BlockW/BlockH.
const (
	ASTC4x4 Format = iota + 400
	ASTC4x4SRGB
	ASTC8x8
	ASTC8x8SRGB
	ASTC4x4HDR
	ASTC8x8HDR
)

// FormatInfo describes the storage layout and semantic flags of a
// Format, per spec §3 "PixelFormat". BlockW/BlockH are 1x1 for explicit
// formats.
type FormatInfo struct {
	Format     Format
	Name       string // stable, human-readable identifier, e.g. "BC7_SRGB"
	Channels   int    // 1..4
	BlockW     int
	BlockH     int
	BytesPerBlock int

	SRGB             bool
	Signed           bool
	Float            bool
	HDR              bool
	BlockCompressed  bool
	Explicit         bool
}

// RowBytesForWidth returns the byte stride of one row of blocks spanning
// width pixels: ceil(width/BlockW) * BytesPerBlock.
func (fi FormatInfo) RowBytesForWidth(width int) int {
	return blocksAcross(width, fi.BlockW) * fi.BytesPerBlock
}

// LevelSize returns the total encoded byte length of one chunk at the
// given pixel dimensions: spec §8 "describe(f).bytesPerBlock *
// ceil(w/bx)*ceil(h/by) equals the size of any encoded level".
func (fi FormatInfo) LevelSize(width, height int) int {
	return blocksAcross(width, fi.BlockW) * blocksAcross(height, fi.BlockH) * fi.BytesPerBlock
}

func blocksAcross(extent, block int) int {
	if block <= 1 {
		return extent
	}
	return (extent + block - 1) / block
}

var table = map[Format]FormatInfo{
	R8:        {Format: R8, Name: "R8", Channels: 1, BlockW: 1, BlockH: 1, BytesPerBlock: 1, Explicit: true},
	RG8:       {Format: RG8, Name: "RG8", Channels: 2, BlockW: 1, BlockH: 1, BytesPerBlock: 2, Explicit: true},
	RGBA8:     {Format: RGBA8, Name: "RGBA8", Channels: 4, BlockW: 1, BlockH: 1, BytesPerBlock: 4, Explicit: true},
	R8SRGB:    {Format: R8SRGB, Name: "R8_SRGB", Channels: 1, BlockW: 1, BlockH: 1, BytesPerBlock: 1, SRGB: true, Explicit: true},
	RG8SRGB:   {Format: RG8SRGB, Name: "RG8_SRGB", Channels: 2, BlockW: 1, BlockH: 1, BytesPerBlock: 2, SRGB: true, Explicit: true},
	RGBA8SRGB: {Format: RGBA8SRGB, Name: "RGBA8_SRGB", Channels: 4, BlockW: 1, BlockH: 1, BytesPerBlock: 4, SRGB: true, Explicit: true},

	R16F:    {Format: R16F, Name: "R16F", Channels: 1, BlockW: 1, BlockH: 1, BytesPerBlock: 2, Float: true, Explicit: true},
	RG16F:   {Format: RG16F, Name: "RG16F", Channels: 2, BlockW: 1, BlockH: 1, BytesPerBlock: 4, Float: true, Explicit: true},
	RGBA16F: {Format: RGBA16F, Name: "RGBA16F", Channels: 4, BlockW: 1, BlockH: 1, BytesPerBlock: 8, Float: true, Explicit: true},
	R32F:    {Format: R32F, Name: "R32F", Channels: 1, BlockW: 1, BlockH: 1, BytesPerBlock: 4, Float: true, Explicit: true},
	RG32F:   {Format: RG32F, Name: "RG32F", Channels: 2, BlockW: 1, BlockH: 1, BytesPerBlock: 8, Float: true, Explicit: true},
	RGBA32F: {Format: RGBA32F, Name: "RGBA32F", Channels: 4, BlockW: 1, BlockH: 1, BytesPerBlock: 16, Float: true, Explicit: true},

	BC1:     {Format: BC1, Name: "BC1", Channels: 4, BlockW: 4, BlockH: 4, BytesPerBlock: 8, BlockCompressed: true},
	BC1SRGB: {Format: BC1SRGB, Name: "BC1_SRGB", Channels: 4, BlockW: 4, BlockH: 4, BytesPerBlock: 8, SRGB: true, BlockCompressed: true},
	BC3:     {Format: BC3, Name: "BC3", Channels: 4, BlockW: 4, BlockH: 4, BytesPerBlock: 16, BlockCompressed: true},
	BC3SRGB: {Format: BC3SRGB, Name: "BC3_SRGB", Channels: 4, BlockW: 4, BlockH: 4, BytesPerBlock: 16, SRGB: true, BlockCompressed: true},
	BC4:     {Format: BC4, Name: "BC4", Channels: 1, BlockW: 4, BlockH: 4, BytesPerBlock: 8, BlockCompressed: true},
	BC5:     {Format: BC5, Name: "BC5", Channels: 2, BlockW: 4, BlockH: 4, BytesPerBlock: 16, BlockCompressed: true},
	BC7:     {Format: BC7, Name: "BC7", Channels: 4, BlockW: 4, BlockH: 4, BytesPerBlock: 16, BlockCompressed: true},
	BC7SRGB: {Format: BC7SRGB, Name: "BC7_SRGB", Channels: 4, BlockW: 4, BlockH: 4, BytesPerBlock: 16, SRGB: true, BlockCompressed: true},

	BC6H: {Format: BC6H, Name: "BC6H", Channels: 3, BlockW: 4, BlockH: 4, BytesPerBlock: 16, Float: true, HDR: true, BlockCompressed: true},

	ETC2R:        {Format: ETC2R, Name: "ETC2_R", Channels: 1, BlockW: 4, BlockH: 4, BytesPerBlock: 8, BlockCompressed: true},
	ETC2RG:       {Format: ETC2RG, Name: "ETC2_RG", Channels: 2, BlockW: 4, BlockH: 4, BytesPerBlock: 16, BlockCompressed: true},
	ETC2RGB:      {Format: ETC2RGB, Name: "ETC2_RGB", Channels: 3, BlockW: 4, BlockH: 4, BytesPerBlock: 8, BlockCompressed: true},
	ETC2RGBA:     {Format: ETC2RGBA, Name: "ETC2_RGBA", Channels: 4, BlockW: 4, BlockH: 4, BytesPerBlock: 16, BlockCompressed: true},
	ETC2RGBSRGB:  {Format: ETC2RGBSRGB, Name: "ETC2_RGB_SRGB", Channels: 3, BlockW: 4, BlockH: 4, BytesPerBlock: 8, SRGB: true, BlockCompressed: true},
	ETC2RGBASRGB: {Format: ETC2RGBASRGB, Name: "ETC2_RGBA_SRGB", Channels: 4, BlockW: 4, BlockH: 4, BytesPerBlock: 16, SRGB: true, BlockCompressed: true},

	ASTC4x4:     {Format: ASTC4x4, Name: "ASTC_4x4", Channels: 4, BlockW: 4, BlockH: 4, BytesPerBlock: 16, BlockCompressed: true},
	ASTC4x4SRGB: {Format: ASTC4x4SRGB, Name: "ASTC_4x4_SRGB", Channels: 4, BlockW: 4, BlockH: 4, BytesPerBlock: 16, SRGB: true, BlockCompressed: true},
	ASTC8x8:     {Format: ASTC8x8, Name: "ASTC_8x8", Channels: 4, BlockW: 8, BlockH: 8, BytesPerBlock: 16, BlockCompressed: true},
	ASTC8x8SRGB: {Format: ASTC8x8SRGB, Name: "ASTC_8x8_SRGB", Channels: 4, BlockW: 8, BlockH: 8, BytesPerBlock: 16, SRGB: true, BlockCompressed: true},
	ASTC4x4HDR:  {Format: ASTC4x4HDR, Name: "ASTC_4x4_HDR", Channels: 4, BlockW: 4, BlockH: 4, BytesPerBlock: 16, Float: true, HDR: true, BlockCompressed: true},
	ASTC8x8HDR:  {Format: ASTC8x8HDR, Name: "ASTC_8x8_HDR", Channels: 4, BlockW: 8, BlockH: 8, BytesPerBlock: 16, Float: true, HDR: true, BlockCompressed: true},
}

func init() {
	// Invariants (spec §3): an sRGB format is never signed or float, an
	// HDR format is always float, and each table key matches its entry.
	for f, fi := range table {
		if fi.SRGB && (fi.Signed || fi.Float) {
			panic(fmt.Sprintf("pixelformat: %s violates sRGB/signed/float invariant", fi.Name))
		}
		if fi.HDR && !fi.Float {
			panic(fmt.Sprintf("pixelformat: %s is HDR but not float", fi.Name))
		}
		if f != fi.Format {
			panic(fmt.Sprintf("pixelformat: table key/value mismatch for %s", fi.Name))
		}
	}
}

// Describe returns the FormatInfo for f. ok is false for Unknown or any
// value not present in the registry.
func Describe(f Format) (info FormatInfo, ok bool) {
	info, ok = table[f]
	return info, ok
}

// IsValid reports whether f names a registered format.
func (f Format) IsValid() bool {
	_, ok := table[f]
	return ok
}

// String returns the format's stable name, or "Unknown" / a numeric
// placeholder for unregistered values.
func (f Format) String() string {
	if info, ok := table[f]; ok {
		return info.Name
	}
	if f == Unknown {
		return "Unknown"
	}
	return fmt.Sprintf("Format(%d)", uint16(f))
}

// ParseFormat resolves a format by its stable Name, case-insensitively
// and accepting '-' as well as '_' between components (so the CLI can
// take "bc7-srgb" or "BC7_SRGB" alike). ok is false for any name not in
// the registry.
func ParseFormat(name string) (f Format, ok bool) {
	normalized := strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
	for candidate, fi := range table {
		if strings.ToUpper(fi.Name) == normalized {
			return candidate, true
		}
	}
	return Unknown, false
}

// All returns every registered format, in ascending Format order, for
// callers that enumerate the full catalog (e.g. `info`'s support list).
func All() []Format {
	out := make([]Format, 0, len(table))
	for f := range table {
		out = append(out, f)
	}
	// Insertion order isn't guaranteed by map iteration; sort for a
	// deterministic CLI listing.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
