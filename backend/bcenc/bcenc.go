// Package bcenc is texpack's second-choice backend for the BC1/BC3/
// BC4/BC5/BC7 LDR family (spec §4.5). It shares squish's block loop but
// only accepts quality in coarse steps of 25, reporting the nearest one
// back to the caller when the request falls between steps.
package bcenc

import (
	"github.com/gogpu/texpack/backend"
	"github.com/gogpu/texpack/backend/squish"
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

// Adapter is the bcenc-style BC encoder. The zero value is ready to use.
type Adapter struct{}

func (Adapter) Capability() backend.Capability {
	return backend.Capability{
		Name:       "bcenc",
		Formats:    formats,
		LDR:        true,
		MinQuality: 0,
		MaxQuality: 100,
	}
}

func (Adapter) Encode(src *internalimage.ImageBuf, format pixelformat.Format, quality int, hints backend.Hints, dst []byte) (int, error) {
	nearest := (quality / 25) * 25
	if quality%25 >= 13 {
		nearest += 25
	}
	if nearest > 100 {
		nearest = 100
	}
	threeColor := hints.Premultiplied && hints.HasAlpha
	actual, err := squish.EncodeBC(src, format, nearest, threeColor, dst)
	if err != nil {
		return 0, err
	}
	return actual, nil
}
