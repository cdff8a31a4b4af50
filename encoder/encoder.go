// Package encoder implements encodeLevelChunk dispatch (spec §4.5): given
// one chunk's pixel data and a target format, it selects a backend from
// the registry (§4.6), applies the family's pre-encode rules, and
// returns the resulting BlockStream.
package encoder

import (
	"fmt"

	"github.com/gogpu/texpack"
	"github.com/gogpu/texpack/backend"
	internalimage "github.com/gogpu/texpack/internal/image"
	"github.com/gogpu/texpack/pixelformat"
)

// ContentFlags carries the caller's semantic knowledge about a chunk's
// content into the dispatcher, per spec §4.5 ("contentFlags includes
// normalMap, sdf, hdr, premultiplied"). HasAlpha is an additional signal
// the dispatcher needs for BC1's 3-color/4-color choice; it is not named
// in the contentFlags vocabulary but is always available from the
// source ImageBuffer.
type ContentFlags struct {
	NormalMap     bool
	SDF           bool
	HDR           bool
	Premultiplied bool
	HasAlpha      bool
}

func (f ContentFlags) toHints() backend.Hints {
	return backend.Hints{
		NormalMap:     f.NormalMap,
		SDF:           f.SDF,
		Premultiplied: f.Premultiplied,
		HasAlpha:      f.HasAlpha,
	}
}

// BlockStream is one chunk's encoded block bytes, plus provenance about
// which backend produced them and at what quality (spec §3 "BlockStream").
type BlockStream struct {
	Format        pixelformat.Format
	Bytes         []byte
	Backend       string
	ActualQuality int
}

// EncodeLevelChunk dispatches src (one mip level's one chunk) to the
// first registry backend that supports format and accepts src's storage
// kind, applying family pre-encode rules from flags first (spec §4.5).
// If pinnedBackend is non-empty, only that backend is considered.
func EncodeLevelChunk(reg *Registry, src *internalimage.ImageBuf, format pixelformat.Format, quality int, flags ContentFlags, pinnedBackend string) (BlockStream, error) {
	const op = "encoder.EncodeLevelChunk"

	fi, ok := pixelformat.Describe(format)
	if !ok {
		return BlockStream{}, texpack.NewError(op, texpack.KindUnmappedFormat, fmt.Errorf("format %v is not registered", format))
	}

	if format == pixelformat.BC6H {
		// Spec §4.5 feasibility table names no backend at all for BC6H,
		// regardless of what else is registered.
		return BlockStream{}, texpack.NewError(op, texpack.KindNoHDRBC6Backend, fmt.Errorf("no backend encodes %s", fi.Name))
	}

	wantStorage := internalimage.FormatRGBA8
	if fi.Float {
		wantStorage = internalimage.FormatRGBA32F
	}
	if src.Format() != wantStorage {
		return BlockStream{}, texpack.NewError(op, texpack.KindUnsupportedByAllBackends,
			fmt.Errorf("%s requires %v storage, chunk is %v", fi.Name, wantStorage, src.Format()))
	}

	prepped, err := preEncode(src, fi, flags)
	if err != nil {
		return BlockStream{}, err
	}

	candidates := reg.adapters
	if pinnedBackend != "" {
		a, ok := reg.byName[pinnedBackend]
		if !ok {
			return BlockStream{}, texpack.NewError(op, texpack.KindUnsupportedByAllBackends, fmt.Errorf("no registered backend named %q", pinnedBackend))
		}
		candidates = []backend.Adapter{a}
	}

	for _, a := range candidates {
		cap := a.Capability()
		if !cap.Supports(format) {
			continue
		}
		if fi.HDR && !cap.HDR {
			continue
		}
		if !fi.HDR && !cap.LDR {
			continue
		}

		w, h := prepped.Bounds()
		dst := make([]byte, fi.LevelSize(w, h))
		clamped := cap.ClampQuality(quality)
		actual, err := a.Encode(prepped, format, clamped, flags.toHints(), dst)
		if err != nil {
			return BlockStream{}, err
		}
		texpack.Logger().Debug("encoded chunk", "format", fi.Name, "backend", cap.Name, "requestedQuality", quality, "actualQuality", actual, "bytes", len(dst))
		return BlockStream{Format: format, Bytes: dst, Backend: cap.Name, ActualQuality: actual}, nil
	}

	return BlockStream{}, texpack.NewError(op, texpack.KindUnsupportedByAllBackends,
		fmt.Errorf("no registered backend supports %s", fi.Name))
}

// preEncode applies the per-family pixel transforms the dispatcher
// attaches from contentFlags (spec §4.5), returning the chunk those
// transforms should run against. It never mutates src: a clone is made
// only when a transform is actually required.
func preEncode(src *internalimage.ImageBuf, fi pixelformat.FormatInfo, flags ContentFlags) (*internalimage.ImageBuf, error) {
	if !flags.NormalMap && !flags.SDF {
		return src, nil
	}

	out := src.Clone()
	w, h := out.Bounds()

	if flags.NormalMap {
		// Collapse the non-principal (g, b) channels to their 4x4 block
		// average, preserving r (and a, if present) per-pixel (spec §4.5
		// "forces a channel-average prepass on the non-principal channels").
		averageNonPrincipalChannels(out, w, h, 4, 4)
	}

	if flags.SDF && fi.Channels > 1 {
		// sdf forces R8 semantics presented through a rrr1 swizzle on any
		// format wider than single-channel (spec §4.5).
		swizzleRRR1(out, w, h)
	}

	return out, nil
}

func averageNonPrincipalChannels(buf *internalimage.ImageBuf, w, h, bx, by int) {
	for blockY := 0; blockY < h; blockY += by {
		for blockX := 0; blockX < w; blockX += bx {
			y1 := min(blockY+by, h)
			x1 := min(blockX+bx, w)
			var sg, sb float32
			count := 0
			for y := blockY; y < y1; y++ {
				for x := blockX; x < x1; x++ {
					_, g, bch, _ := buf.GetRGBAF(x, y)
					sg += g
					sb += bch
					count++
				}
			}
			if count == 0 {
				continue
			}
			avgG, avgB := sg/float32(count), sb/float32(count)
			for y := blockY; y < y1; y++ {
				for x := blockX; x < x1; x++ {
					r, _, _, a := buf.GetRGBAF(x, y)
					_ = buf.SetRGBAF(x, y, r, avgG, avgB, a)
				}
			}
		}
	}
}

func swizzleRRR1(buf *internalimage.ImageBuf, w, h int) {
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, _, _, _ := buf.GetRGBAF(x, y)
			_ = buf.SetRGBAF(x, y, r, r, r, 1)
		}
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
