// Package backend defines the adapter contract that every block-codec
// backend (spec §4.6) implements, plus the shared block-extraction
// helper each concrete adapter uses to turn a pixel buffer into the
// fixed-size blocks its codec consumes.
//
// Adapters own no mutable state across calls and may be called
// concurrently from any number of script workers (spec §5).
package backend

import (
	internalimage "github.com/gogpu/texpack/internal/image"
	"github.com/gogpu/texpack/pixelformat"
)

// Capability is an adapter's self-description: which formats it can
// produce, whether it handles LDR and/or HDR content, and the quality
// range it accepts (spec §4.6 "{name, formats[], ldr, hdr, minQuality,
// maxQuality}").
type Capability struct {
	Name       string
	Formats    []pixelformat.Format
	LDR        bool
	HDR        bool
	MinQuality int
	MaxQuality int
}

// Supports reports whether the capability lists f.
func (c Capability) Supports(f pixelformat.Format) bool {
	for _, want := range c.Formats {
		if want == f {
			return true
		}
	}
	return false
}

// ClampQuality maps a requested [0,100] quality onto the adapter's own
// accepted range, nearest-supported-setting style (spec §4.5 "if a
// backend does not accept the request it is still used with its
// nearest supported setting").
func (c Capability) ClampQuality(quality int) int {
	if quality < c.MinQuality {
		return c.MinQuality
	}
	if quality > c.MaxQuality {
		return c.MaxQuality
	}
	return quality
}

// Hints carries the per-family pre-encode decisions the dispatcher
// (spec §4.5) has already resolved from contentFlags, so an adapter
// never has to re-derive them: BC1 mode selection is the clearest
// example ("premultiplied is required for BC1 3-color encode; 4-color
// BC1 is chosen for opaque content").
type Hints struct {
	NormalMap     bool
	SDF           bool
	Premultiplied bool
	HasAlpha      bool
}

// Adapter is one backend's entry point: given a chunk's pixel data and
// a target format, it writes ceil(w/bx)*ceil(h/by)*bytesPerBlock bytes
// into dst and reports the quality it actually used.
type Adapter interface {
	Capability() Capability
	Encode(src *internalimage.ImageBuf, format pixelformat.Format, quality int, hints Hints, dst []byte) (actualQuality int, err error)
}
