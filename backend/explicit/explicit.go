// Package explicit is texpack's built-in adapter for formats with no
// block compression: 8-bit UNORM and 16/32-bit float, 1 to 4 channels
// (spec §4.5 "Explicit 8-bit" / "Explicit float" families). It is the
// only backend the feasibility table allows for these families, since
// they require no compression heuristics at all — just a channel-count
// repack.
package explicit

import (
	"fmt"
	"math"

	"github.com/gogpu/texpack"
	"github.com/gogpu/texpack/backend"
	"github.com/gogpu/texpack/internal/blockcodec"
	internalimage "github.com/gogpu/texpack/internal/image"
	"github.com/gogpu/texpack/pixelformat"
)

var formats = []pixelformat.Format{
	pixelformat.R8, pixelformat.RG8, pixelformat.RGBA8,
	pixelformat.R8SRGB, pixelformat.RG8SRGB, pixelformat.RGBA8SRGB,
	pixelformat.R16F, pixelformat.RG16F, pixelformat.RGBA16F,
	pixelformat.R32F, pixelformat.RG32F, pixelformat.RGBA32F,
}

// Adapter is the built-in explicit-format backend. The zero value is
// ready to use.
type Adapter struct{}

// Capability describes the explicit adapter (spec §4.6).
func (Adapter) Capability() backend.Capability {
	return backend.Capability{
		Name:       "explicit",
		Formats:    formats,
		LDR:        true,
		HDR:        true,
		MinQuality: 0,
		MaxQuality: 100,
	}
}

// Encode repacks src's pixels into format's channel layout. There is no
// quality knob for an uncompressed repack, so the requested quality is
// reported back unchanged.
func (Adapter) Encode(src *internalimage.ImageBuf, format pixelformat.Format, quality int, _ backend.Hints, dst []byte) (int, error) {
	const op = "explicit.Encode"
	fi, ok := pixelformat.Describe(format)
	if !ok || !fi.Explicit {
		return 0, texpack.NewError(op, texpack.KindUnmappedFormat, fmt.Errorf("format %v is not explicit", format))
	}
	w, h := src.Bounds()
	want := fi.LevelSize(w, h)
	if len(dst) < want {
		return 0, texpack.NewError(op, texpack.KindOutOfMemory, fmt.Errorf("dst is %d bytes, want >= %d", len(dst), want))
	}

	if fi.Float {
		encodeFloat(src, fi, w, h, dst)
	} else {
		encodeByte(src, fi, w, h, dst)
	}
	return quality, nil
}

func encodeByte(src *internalimage.ImageBuf, fi pixelformat.FormatInfo, w, h int, dst []byte) {
	i := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := src.GetRGBA(x, y)
			switch fi.Channels {
			case 1:
				dst[i] = r
			case 2:
				dst[i], dst[i+1] = r, g
			default:
				dst[i], dst[i+1], dst[i+2], dst[i+3] = r, g, b, a
			}
			i += fi.Channels
		}
	}
}

func encodeFloat(src *internalimage.ImageBuf, fi pixelformat.FormatInfo, w, h int, dst []byte) {
	bytesPerChannel := fi.BytesPerBlock / fi.Channels
	i := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := src.GetRGBAF(x, y)
			vals := [4]float32{r, g, b, a}
			for c := 0; c < fi.Channels; c++ {
				writeFloatChannel(dst[i:], bytesPerChannel, vals[c])
				i += bytesPerChannel
			}
		}
	}
}

func writeFloatChannel(dst []byte, bytesPerChannel int, v float32) {
	if bytesPerChannel == 2 {
		h := blockcodec.Float32ToHalf(v)
		dst[0] = byte(h)
		dst[1] = byte(h >> 8)
		return
	}
	bits := math.Float32bits(v)
	dst[0] = byte(bits)
	dst[1] = byte(bits >> 8)
	dst[2] = byte(bits >> 16)
	dst[3] = byte(bits >> 24)
}
