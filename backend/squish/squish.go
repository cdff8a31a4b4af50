// Package squish is texpack's first-choice backend for the BC1/BC3/
// BC4/BC5/BC7 LDR family (spec §4.5's "squish, bcenc, ate" group). It
// is the default pick when no backend is pinned: the registry tries
// backends in registration order, and squish registers first.
package squish

import (
	"fmt"

	"github.com/gogpu/texpack"
	"github.com/gogpu/texpack/backend"
	"github.com/gogpu/texpack/internal/blockcodec"
	internalimage "github.com/gogpu/texpack/internal/image"
	"github.com/gogpu/texpack/pixelformat"
)

var formats = []pixelformat.Format{
	pixelformat.BC1, pixelformat.BC1SRGB,
	pixelformat.BC3, pixelformat.BC3SRGB,
	pixelformat.BC4,
	pixelformat.BC5,
	pixelformat.BC7, pixelformat.BC7SRGB,
}

// Adapter is the squish-style BC encoder. The zero value is ready to
// use; 3-color punch-through BC1 mode instead of opaque 4-color mode is
// selected per call from the Hints the encoder package passes to Encode
// (spec §4.5's premultiplied/opaque rule).
type Adapter struct{}

func (Adapter) Capability() backend.Capability {
	return backend.Capability{
		Name:       "squish",
		Formats:    formats,
		LDR:        true,
		MinQuality: 0,
		MaxQuality: 100,
	}
}

// Encode writes one BC1/BC3/BC4/BC5/BC7 level into dst. BC1's 3-color
// punch-through mode is selected per spec §4.5: premultiplied alpha
// content uses it, opaque content always gets 4-color mode.
func (Adapter) Encode(src *internalimage.ImageBuf, format pixelformat.Format, quality int, hints backend.Hints, dst []byte) (int, error) {
	threeColor := hints.Premultiplied && hints.HasAlpha
	return EncodeBC(src, format, quality, threeColor, dst)
}

// EncodeBC is the shared BC1/BC3/BC4/BC5/BC7 block loop every BC-family
// adapter (squish, bcenc, ate) drives, parameterized only by whether
// BC1 should use its 3-color punch-through-alpha mode.
func EncodeBC(src *internalimage.ImageBuf, format pixelformat.Format, quality int, bc1ThreeColor bool, dst []byte) (int, error) {
	const op = "squish.EncodeBC"
	fi, ok := pixelformat.Describe(format)
	if !ok || !fi.BlockCompressed || fi.HDR {
		return 0, texpack.NewError(op, texpack.KindUnmappedFormat, fmt.Errorf("format %v is not a BC LDR format", format))
	}
	w, h := src.Bounds()
	want := fi.LevelSize(w, h)
	if len(dst) < want {
		return 0, texpack.NewError(op, texpack.KindOutOfMemory, fmt.Errorf("dst is %d bytes, want >= %d", len(dst), want))
	}

	blocksX := (w + 3) / 4
	blocksY := (h + 3) / 4
	i := 0
	for by := 0; by < blocksY; by++ {
		for bx := 0; bx < blocksX; bx++ {
			block := backend.ExtractBlock(src, bx*4, by*4)
			switch format {
			case pixelformat.BC1, pixelformat.BC1SRGB:
				out := blockcodec.EncodeBC1(block, bc1ThreeColor)
				copy(dst[i:], out[:])
			case pixelformat.BC3, pixelformat.BC3SRGB:
				out := blockcodec.EncodeBC3(block)
				copy(dst[i:], out[:])
			case pixelformat.BC4:
				var values [16]uint8
				for p, px := range block {
					values[p] = px[0]
				}
				out := blockcodec.EncodeBC4Channel(values)
				copy(dst[i:], out[:])
			case pixelformat.BC5:
				out := blockcodec.EncodeBC5(block)
				copy(dst[i:], out[:])
			case pixelformat.BC7, pixelformat.BC7SRGB:
				out := blockcodec.EncodeBC7Mode6(block)
				copy(dst[i:], out[:])
			}
			i += fi.BytesPerBlock
		}
	}
	return quality, nil
}
