// Package etcenc is texpack's sole backend for the ETC2 r/rg/rgb/rgba
// family (spec §4.5: "ETC2 r/rg/rgb/rgba | RGBA8 | etcenc").
package etcenc

import (
	"fmt"

	"github.com/gogpu/texpack"
	"github.com/gogpu/texpack/backend"
	"github.com/gogpu/texpack/internal/blockcodec"
	internalimage "github.com/gogpu/texpack/internal/image"
	"github.com/gogpu/texpack/pixelformat"
)

var formats = []pixelformat.Format{
	pixelformat.ETC2R, pixelformat.ETC2RG,
	pixelformat.ETC2RGB, pixelformat.ETC2RGBSRGB,
	pixelformat.ETC2RGBA, pixelformat.ETC2RGBASRGB,
}

// Adapter is the ETC2/EAC encoder. The zero value is ready to use.
type Adapter struct{}

func (Adapter) Capability() backend.Capability {
	return backend.Capability{
		Name:       "etcenc",
		Formats:    formats,
		LDR:        true,
		MinQuality: 0,
		MaxQuality: 100,
	}
}

func (Adapter) Encode(src *internalimage.ImageBuf, format pixelformat.Format, quality int, _ backend.Hints, dst []byte) (int, error) {
	const op = "etcenc.Encode"
	fi, ok := pixelformat.Describe(format)
	if !ok || !fi.BlockCompressed {
		return 0, texpack.NewError(op, texpack.KindUnmappedFormat, fmt.Errorf("format %v is not an ETC2 format", format))
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
			case pixelformat.ETC2R:
				var r [16]uint8
				for p, px := range block {
					r[p] = px[0]
				}
				out := blockcodec.EncodeEACPlane(r)
				copy(dst[i:], out[:])
			case pixelformat.ETC2RG:
				var r, g [16]uint8
				for p, px := range block {
					r[p], g[p] = px[0], px[1]
				}
				outR := blockcodec.EncodeEACPlane(r)
				outG := blockcodec.EncodeEACPlane(g)
				copy(dst[i:], outR[:])
				copy(dst[i+8:], outG[:])
			case pixelformat.ETC2RGB, pixelformat.ETC2RGBSRGB:
				out := blockcodec.EncodeETC2RGB(block)
				copy(dst[i:], out[:])
			case pixelformat.ETC2RGBA, pixelformat.ETC2RGBASRGB:
				out := blockcodec.EncodeETC2RGBA(block)
				copy(dst[i:], out[:])
			}
			i += fi.BytesPerBlock
		}
	}
	return quality, nil
}
