// Package ate is a fixed-quality backend covering both the BC1/BC3/
// BC4/BC5/BC7 LDR family and ASTC 4x4/8x8 LDR (spec §4.5: BC LDR allows
// "squish, bcenc, ate"; ASTC 4x4..8x8 LDR allows "astcenc, ate (4x4,
// 8x8)"). It has no quality knob at all — every request is served at
// its single internal preset, demonstrating the "nearest supported
// setting" fallback path for a backend with MinQuality == MaxQuality.
package ate

import (
	"fmt"

	"github.com/gogpu/texpack"
	"github.com/gogpu/texpack/backend"
	"github.com/gogpu/texpack/backend/squish"
	"github.com/gogpu/texpack/internal/blockcodec"
	internalimage "github.com/gogpu/texpack/internal/image"
	"github.com/gogpu/texpack/pixelformat"
)

const presetQuality = 50

var formats = []pixelformat.Format{
	pixelformat.BC1, pixelformat.BC1SRGB,
	pixelformat.BC3, pixelformat.BC3SRGB,
	pixelformat.BC4,
	pixelformat.BC5,
	pixelformat.BC7, pixelformat.BC7SRGB,
	pixelformat.ASTC4x4, pixelformat.ASTC4x4SRGB,
	pixelformat.ASTC8x8, pixelformat.ASTC8x8SRGB,
}

// Adapter is the ate-style fixed-preset encoder. The zero value is
// ready to use.
type Adapter struct{}

func (Adapter) Capability() backend.Capability {
	return backend.Capability{
		Name:       "ate",
		Formats:    formats,
		LDR:        true,
		MinQuality: presetQuality,
		MaxQuality: presetQuality,
	}
}

func (Adapter) Encode(src *internalimage.ImageBuf, format pixelformat.Format, quality int, hints backend.Hints, dst []byte) (int, error) {
	const op = "ate.Encode"
	fi, ok := pixelformat.Describe(format)
	if !ok {
		return 0, texpack.NewError(op, texpack.KindUnmappedFormat, fmt.Errorf("format %v is not registered", format))
	}

	switch format {
	case pixelformat.ASTC4x4, pixelformat.ASTC4x4SRGB, pixelformat.ASTC8x8, pixelformat.ASTC8x8SRGB:
		return presetQuality, encodeASTCVoidExtent(src, fi, dst)
	default:
		threeColor := hints.Premultiplied && hints.HasAlpha
		return squish.EncodeBC(src, format, presetQuality, threeColor, dst)
	}
}

// encodeASTCVoidExtent fills dst with one void-extent block per
// fi.BlockW x fi.BlockH footprint, each block's color the average of
// its covered pixels (spec §1: a valid, decodable stream at the
// requested quality, not bit-exact reference parity).
func encodeASTCVoidExtent(src *internalimage.ImageBuf, fi pixelformat.FormatInfo, dst []byte) error {
	const op = "ate.encodeASTCVoidExtent"
	w, h := src.Bounds()
	want := fi.LevelSize(w, h)
	if len(dst) < want {
		return texpack.NewError(op, texpack.KindOutOfMemory, fmt.Errorf("dst is %d bytes, want >= %d", len(dst), want))
	}

	blocksX := (w + fi.BlockW - 1) / fi.BlockW
	blocksY := (h + fi.BlockH - 1) / fi.BlockH
	i := 0
	for by := 0; by < blocksY; by++ {
		for bx := 0; bx < blocksX; bx++ {
			avg := averageBlock(src, bx*fi.BlockW, by*fi.BlockH, fi.BlockW, fi.BlockH, w, h)
			out := blockcodec.EncodeASTCVoidExtentLDR(avg)
			copy(dst[i:], out[:])
			i += fi.BytesPerBlock
		}
	}
	return nil
}

func averageBlock(src *internalimage.ImageBuf, x0, y0, bw, bh, w, h int) [4]uint8 {
	var sr, sg, sb, sa, count int
	for dy := 0; dy < bh; dy++ {
		y := y0 + dy
		if y >= h {
			break
		}
		for dx := 0; dx < bw; dx++ {
			x := x0 + dx
			if x >= w {
				break
			}
			r, g, b, a := src.GetRGBA(x, y)
			sr += int(r)
			sg += int(g)
			sb += int(b)
			sa += int(a)
			count++
		}
	}
	if count == 0 {
		return [4]uint8{0, 0, 0, 0}
	}
	return [4]uint8{uint8(sr / count), uint8(sg / count), uint8(sb / count), uint8(sa / count)}
}
