// Package mipmap generates a policy-driven mip chain from an
// ImageBuffer (spec §4.4): level 0 is always emitted, each subsequent
// level halves width and height, and a min/max pixel window together
// with a pow2-rounding rule decide which levels are kept. Every chunk
// (face, array layer or depth slice) is downsampled on its own, so each
// level has as many chunks as level 0: a 3D texture's depth is not
// reduced.
package mipmap

import (
	"fmt"

	"github.com/gogpu/texpack"
	"github.com/gogpu/texpack/imagebuffer"
	"github.com/gogpu/texpack/internal/color"
	internalimage "github.com/gogpu/texpack/internal/image"
)

// Policy controls mip chain generation.
type Policy struct {
	// Enabled, when false, produces only level 0.
	Enabled bool
	// MinPx skips (does not emit) any level where either dimension is
	// smaller than MinPx. 0 disables the lower clamp.
	MinPx int
	// MaxPx skips any level where either dimension exceeds MaxPx. 0
	// disables the upper clamp.
	MaxPx int
	// Filter is the downsample reconstruction kernel.
	Filter imagebuffer.Filter
	// KeepNonPow2, when false, resizes a non-power-of-two level 0 down
	// to the nearest lower power of two before mipping.
	KeepNonPow2 bool
}

// MipChain is the ordered sequence of ImageBuffers Generate produces,
// level 0 first.
type MipChain struct {
	levels []*imagebuffer.ImageBuffer
}

// LevelCount returns the number of retained levels.
func (c *MipChain) LevelCount() int {
	if c == nil {
		return 0
	}
	return len(c.levels)
}

// Level returns the ImageBuffer for retained level i, or nil if out of
// range. Levels are numbered by retention order (0 is always the
// largest retained level, which is not necessarily mip level 0 if a
// MaxPx clamp skipped it).
func (c *MipChain) Level(i int) *imagebuffer.ImageBuffer {
	if c == nil || i < 0 || i >= len(c.levels) {
		return nil
	}
	return c.levels[i]
}

// Generate builds the mip chain for src under policy (spec §4.4).
func Generate(src *imagebuffer.ImageBuffer, policy Policy) (*MipChain, error) {
	const op = "mipmap.Generate"
	if src == nil {
		return nil, texpack.NewError(op, texpack.KindBadFlag, fmt.Errorf("nil source buffer"))
	}
	if !policy.Enabled {
		return &MipChain{levels: []*imagebuffer.ImageBuffer{src}}, nil
	}

	base := src
	if !policy.KeepNonPow2 && (!isPow2(src.Width()) || !isPow2(src.Height())) {
		base = src.Clone()
		if err := base.Resize(src.Width(), src.Height(), true, policy.Filter); err != nil {
			return nil, err
		}
	}

	var levels []*imagebuffer.ImageBuffer
	current := base
	for {
		w, h := current.Width(), current.Height()
		if inWindow(w, h, policy.MinPx, policy.MaxPx) {
			levels = append(levels, current)
		}
		if min(w, h) <= 1 {
			break
		}
		next, err := downsampleOnce(current, policy.Filter)
		if err != nil {
			return nil, err
		}
		current = next
	}

	if len(levels) == 0 {
		// The min/max window excluded every level; spec §4.4 guarantees
		// level 0 is always emitted, so fall back to it alone.
		levels = []*imagebuffer.ImageBuffer{base}
	}
	return &MipChain{levels: levels}, nil
}

func inWindow(w, h, minPx, maxPx int) bool {
	if minPx > 0 && (w < minPx || h < minPx) {
		return false
	}
	if maxPx > 0 && (w > maxPx || h > maxPx) {
		return false
	}
	return true
}

func isPow2(v int) bool { return v > 0 && v&(v-1) == 0 }

// downsampleOnce halves every chunk of cur, downsampling sRGB-tagged
// 8-bit content in linear light and re-encoding to sRGB afterward (spec
// §4.4 "sRGB content is downsampled in linear space and re-encoded to
// sRGB"); HDR/linear content downsamples directly.
func downsampleOnce(cur *imagebuffer.ImageBuffer, filter imagebuffer.Filter) (*imagebuffer.ImageBuffer, error) {
	const op = "mipmap.downsampleOnce"
	w, h := cur.Width(), cur.Height()
	nw, nh := max(1, w/2), max(1, h/2)
	rf := filter.Internal()

	chunks := make([]*internalimage.ImageBuf, cur.ChunkCount())
	for i := 0; i < cur.ChunkCount(); i++ {
		src := cur.Chunk(i)
		resized := downsampleChunk(src, nw, nh, rf)
		if resized == nil {
			return nil, texpack.NewError(op, texpack.KindOutOfMemory, fmt.Errorf("chunk %d downsample failed", i))
		}
		chunks[i] = resized
	}
	return imagebuffer.FromChunks(nw, nh, chunks, cur.Storage()), nil
}

func downsampleChunk(src *internalimage.ImageBuf, nw, nh int, filter internalimage.ResizeFilter) *internalimage.ImageBuf {
	if src.Format().IsFloat() || src.ColorSpace() != color.ColorSpaceSRGB {
		return internalimage.Resize(src, nw, nh, filter)
	}

	linear := src.Clone()
	linearizeInPlace(linear)
	resized := internalimage.Resize(linear, nw, nh, filter)
	if resized == nil {
		return nil
	}
	srgbifyInPlace(resized)
	return resized
}

// linearizeInPlace converts an 8-bit sRGB chunk to linear light in
// place, using the SRGBToLinearFast LUT since the source is still
// uint8-keyed at this point (spec §4.3). The buffer keeps its RGBA8
// format, so the linear values are stored rounded to 8 bits.
func linearizeInPlace(buf *internalimage.ImageBuf) {
	w, h := buf.Bounds()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := buf.GetRGBA(x, y)
			lr := color.SRGBToLinearFast(r)
			lg := color.SRGBToLinearFast(g)
			lb := color.SRGBToLinearFast(b)
			_ = buf.SetRGBAF(x, y, lr, lg, lb, float32(a)/255.0)
		}
	}
	buf.SetColorSpace(color.ColorSpaceLinear)
}

// srgbifyInPlace re-encodes a linear-float chunk back to 8-bit sRGB in
// place, using the LinearToSRGBFast LUT for the final uint8 write.
func srgbifyInPlace(buf *internalimage.ImageBuf) {
	w, h := buf.Bounds()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := buf.GetRGBAF(x, y)
			sr := color.LinearToSRGBFast(r)
			sg := color.LinearToSRGBFast(g)
			sb := color.LinearToSRGBFast(b)
			_ = buf.SetRGBA(x, y, sr, sg, sb, color.F32ToU8(color.ColorF32{A: a}).A)
		}
	}
	buf.SetColorSpace(color.ColorSpaceSRGB)
}
