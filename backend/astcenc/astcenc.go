// Package astcenc wraps the arm-software/astc-encoder pure-Go ASTC
// codec as texpack's ASTC backend (spec §4.5: "ASTC 4x4..8x8 LDR |
// RGBA8 | astcenc, ate"; "ASTC HDR | RGBA32F | astcenc only" — the only
// family where a single backend covers both LDR and HDR).
package astcenc

import (
	"fmt"

	"github.com/arm-software/astc-encoder/astc"
	"github.com/gogpu/texpack"
	"github.com/gogpu/texpack/backend"
	internalimage "github.com/gogpu/texpack/internal/image"
	"github.com/gogpu/texpack/pixelformat"
)

var formats = []pixelformat.Format{
	pixelformat.ASTC4x4, pixelformat.ASTC4x4SRGB,
	pixelformat.ASTC8x8, pixelformat.ASTC8x8SRGB,
	pixelformat.ASTC4x4HDR, pixelformat.ASTC8x8HDR,
}

// Adapter is the astc-encoder-backed ASTC codec. The zero value is
// ready to use.
type Adapter struct{}

func (Adapter) Capability() backend.Capability {
	return backend.Capability{
		Name:       "astcenc",
		Formats:    formats,
		LDR:        true,
		HDR:        true,
		MinQuality: 0,
		MaxQuality: 100,
	}
}

// qualityBuckets maps texpack's [0,100] quality to astc-encoder's five
// search-effort presets, reporting back the bucket's representative
// value rather than the exact request (spec §4.5 "nearest supported
// setting").
var qualityBuckets = []struct {
	max     int
	level   astc.EncodeQuality
	reports int
}{
	{19, astc.EncodeFastest, 10},
	{39, astc.EncodeFast, 30},
	{59, astc.EncodeMedium, 50},
	{79, astc.EncodeThorough, 70},
	{100, astc.EncodeExhaustive, 90},
}

func bucketFor(quality int) (astc.EncodeQuality, int) {
	for _, b := range qualityBuckets {
		if quality <= b.max {
			return b.level, b.reports
		}
	}
	last := qualityBuckets[len(qualityBuckets)-1]
	return last.level, last.reports
}

func blockDims(format pixelformat.Format) (bx, by int, ok bool) {
	switch format {
	case pixelformat.ASTC4x4, pixelformat.ASTC4x4SRGB, pixelformat.ASTC4x4HDR:
		return 4, 4, true
	case pixelformat.ASTC8x8, pixelformat.ASTC8x8SRGB, pixelformat.ASTC8x8HDR:
		return 8, 8, true
	default:
		return 0, 0, false
	}
}

func profileFor(format pixelformat.Format) astc.Profile {
	switch format {
	case pixelformat.ASTC4x4SRGB, pixelformat.ASTC8x8SRGB:
		return astc.ProfileLDRSRGB
	case pixelformat.ASTC4x4HDR, pixelformat.ASTC8x8HDR:
		return astc.ProfileHDR
	default:
		return astc.ProfileLDR
	}
}

func (Adapter) Encode(src *internalimage.ImageBuf, format pixelformat.Format, quality int, _ backend.Hints, dst []byte) (int, error) {
	const op = "astcenc.Encode"
	fi, ok := pixelformat.Describe(format)
	if !ok || !fi.BlockCompressed {
		return 0, texpack.NewError(op, texpack.KindUnmappedFormat, fmt.Errorf("format %v is not an ASTC format", format))
	}
	bx, by, ok := blockDims(format)
	if !ok {
		return 0, texpack.NewError(op, texpack.KindUnmappedFormat, fmt.Errorf("format %v has no known ASTC block size", format))
	}
	w, h := src.Bounds()
	want := fi.LevelSize(w, h)
	if len(dst) < want {
		return 0, texpack.NewError(op, texpack.KindOutOfMemory, fmt.Errorf("dst is %d bytes, want >= %d", len(dst), want))
	}

	level, reported := bucketFor(quality)
	profile := profileFor(format)

	var file []byte
	var err error
	if fi.HDR {
		pix := make([]float32, w*h*4)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, g, b, a := src.GetRGBAF(x, y)
				i := (y*w + x) * 4
				pix[i], pix[i+1], pix[i+2], pix[i+3] = r, g, b, a
			}
		}
		file, err = astc.EncodeRGBAF32WithProfileAndQuality(pix, w, h, bx, by, profile, level)
	} else {
		pix := make([]byte, w*h*4)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, g, b, a := src.GetRGBA(x, y)
				i := (y*w + x) * 4
				pix[i], pix[i+1], pix[i+2], pix[i+3] = r, g, b, a
			}
		}
		file, err = astc.EncodeRGBA8WithProfileAndQuality(pix, w, h, bx, by, profile, level)
	}
	if err != nil {
		return 0, texpack.NewError(op, texpack.KindUnsupportedByAllBackends, err)
	}

	blocks := file[astc.HeaderSize:]
	if len(blocks) != want {
		return 0, texpack.NewError(op, texpack.KindOutOfMemory,
			fmt.Errorf("astc-encoder produced %d block bytes, want %d", len(blocks), want))
	}
	copy(dst, blocks)
	return reported, nil
}
