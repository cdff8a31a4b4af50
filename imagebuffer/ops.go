package imagebuffer

import (
	"fmt"
	"strings"

	"github.com/gogpu/texpack"
	"github.com/gogpu/texpack/internal/color"
	internalimage "github.com/gogpu/texpack/internal/image"
)

// Filter selects a resize reconstruction kernel (spec §4.3 "resize").
type Filter int

const (
	FilterPoint Filter = iota
	FilterBox
	FilterTent
	FilterMitchell
	FilterLanczos4
	FilterKaiser
)

// Internal returns the internal/image resize kernel for f, for reuse by
// other packages in this module (mipmap's per-level downsample) that
// need to resize without mutating an ImageBuffer in place.
func (f Filter) Internal() internalimage.ResizeFilter {
	return f.internal()
}

func (f Filter) internal() internalimage.ResizeFilter {
	switch f {
	case FilterBox:
		return internalimage.BoxFilter
	case FilterTent:
		return internalimage.TentFilter
	case FilterMitchell:
		return internalimage.MitchellFilter
	case FilterLanczos4:
		return internalimage.Lanczos4Filter
	case FilterKaiser:
		return internalimage.KaiserFilter
	default:
		return internalimage.PointFilter
	}
}

func (f Filter) String() string {
	return f.internal().Name
}

// nearestLowerPow2 rounds v down to the nearest power of two >= 1.
func nearestLowerPow2(v int) int {
	if v < 1 {
		return 1
	}
	p := 1
	for p*2 <= v {
		p *= 2
	}
	return p
}

// Resize resamples every chunk to newW x newH in place, preserving
// chunk count (spec §4.3 "resize"). When pow2 is set, newW/newH are
// first rounded down to the nearest power of two >= 1.
func (b *ImageBuffer) Resize(newW, newH int, pow2 bool, filter Filter) error {
	const op = "imagebuffer.Resize"
	if pow2 {
		newW = nearestLowerPow2(newW)
		newH = nearestLowerPow2(newH)
	}
	if newW <= 0 || newH <= 0 {
		return texpack.NewError(op, texpack.KindBadResizeSpec, fmt.Errorf("invalid target size %dx%d", newW, newH))
	}

	rf := filter.internal()
	resized := make([]*internalimage.ImageBuf, len(b.chunks))
	for i, c := range b.chunks {
		r := internalimage.Resize(c, newW, newH, rf)
		if r == nil {
			return texpack.NewError(op, texpack.KindBadResizeSpec, fmt.Errorf("resize of chunk %d failed", i))
		}
		resized[i] = r
	}
	b.chunks = resized
	b.width, b.height = newW, newH
	return nil
}

var swizzleTokens = map[byte]bool{'r': true, 'g': true, 'b': true, 'a': true, '0': true, '1': true}

// Swizzle permutes or replaces each output channel according to a
// 4-character pattern drawn from {r,g,b,a,0,1} (spec §4.3 "swizzle").
func (b *ImageBuffer) Swizzle(pattern string) error {
	const op = "imagebuffer.Swizzle"
	if len(pattern) != 4 {
		return texpack.NewError(op, texpack.KindBadSwizzleSpec, fmt.Errorf("pattern must be exactly 4 characters, got %q", pattern))
	}
	for i := 0; i < 4; i++ {
		if !swizzleTokens[pattern[i]] {
			return texpack.NewError(op, texpack.KindBadSwizzleSpec, fmt.Errorf("invalid swizzle token %q in %q", pattern[i], pattern))
		}
	}

	pick := func(tok byte, r, g, bl, a float32) float32 {
		switch tok {
		case 'r':
			return r
		case 'g':
			return g
		case 'b':
			return bl
		case 'a':
			return a
		case '1':
			return 1
		default:
			return 0
		}
	}

	for _, c := range b.chunks {
		w, h := c.Bounds()
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, g, bl, a := c.GetRGBAF(x, y)
				out := [4]float32{
					pick(pattern[0], r, g, bl, a),
					pick(pattern[1], r, g, bl, a),
					pick(pattern[2], r, g, bl, a),
					pick(pattern[3], r, g, bl, a),
				}
				_ = c.SetRGBAF(x, y, out[0], out[1], out[2], out[3])
			}
		}
	}
	return nil
}

// AveragePerBlock replaces every pixel in each bx x by block with the
// block's mean, restricted to the channels named in mask (any of
// "rgba"). Used to collapse normal-map redundancy before block codecs
// (spec §4.3 "averagePerBlock").
func (b *ImageBuffer) AveragePerBlock(mask string, bx, by int) error {
	const op = "imagebuffer.AveragePerBlock"
	if bx <= 0 || by <= 0 {
		return texpack.NewError(op, texpack.KindBadFlag, fmt.Errorf("invalid block size %dx%d", bx, by))
	}
	maskR := strings.ContainsRune(mask, 'r')
	maskG := strings.ContainsRune(mask, 'g')
	maskB := strings.ContainsRune(mask, 'b')
	maskA := strings.ContainsRune(mask, 'a')

	for _, c := range b.chunks {
		w, h := c.Bounds()
		for blockY := 0; blockY < h; blockY += by {
			for blockX := 0; blockX < w; blockX += bx {
				y1 := min(blockY+by, h)
				x1 := min(blockX+bx, w)

				var sr, sg, sb, sa float32
				count := 0
				for y := blockY; y < y1; y++ {
					for x := blockX; x < x1; x++ {
						r, g, bl, a := c.GetRGBAF(x, y)
						sr += r
						sg += g
						sb += bl
						sa += a
						count++
					}
				}
				if count == 0 {
					continue
				}
				avgR, avgG, avgB, avgA := sr/float32(count), sg/float32(count), sb/float32(count), sa/float32(count)

				for y := blockY; y < y1; y++ {
					for x := blockX; x < x1; x++ {
						r, g, bl, a := c.GetRGBAF(x, y)
						if maskR {
							r = avgR
						}
						if maskG {
							g = avgG
						}
						if maskB {
							bl = avgB
						}
						if maskA {
							a = avgA
						}
						_ = c.SetRGBAF(x, y, r, g, bl, a)
					}
				}
			}
		}
	}
	return nil
}

// PremultiplyAlpha multiplies color channels by alpha, in linear
// fractional space for both storage kinds. Idempotent: a second call is
// a no-op, tracked by the buffer's premultiplied flag (spec §4.3
// invariant "premultiply ... idempotent only relative to a tracked
// flag").
func (b *ImageBuffer) PremultiplyAlpha() error {
	if b.premultiplied {
		return nil
	}
	for _, c := range b.chunks {
		w, h := c.Bounds()
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, g, bl, a := c.GetRGBAF(x, y)
				_ = c.SetRGBAF(x, y, r*a, g*a, bl*a, a)
			}
		}
	}
	b.premultiplied = true
	return nil
}

// ToLinearFromSRGB converts RGB channels from sRGB to linear light
// (alpha is untouched, always linear). Idempotent relative to the
// buffer's tracked color space.
func (b *ImageBuffer) ToLinearFromSRGB() error {
	if b.ColorSpace() == color.ColorSpaceLinear {
		return nil
	}
	for _, c := range b.chunks {
		convertColorSpace(c, color.SRGBToLinearColor)
		c.SetColorSpace(color.ColorSpaceLinear)
	}
	return nil
}

// ToSRGBFromLinear converts RGB channels from linear light to sRGB.
// Idempotent relative to the buffer's tracked color space.
func (b *ImageBuffer) ToSRGBFromLinear() error {
	if b.ColorSpace() == color.ColorSpaceSRGB {
		return nil
	}
	for _, c := range b.chunks {
		convertColorSpace(c, color.LinearToSRGBColor)
		c.SetColorSpace(color.ColorSpaceSRGB)
	}
	return nil
}

func convertColorSpace(c *internalimage.ImageBuf, f func(color.ColorF32) color.ColorF32) {
	w, h := c.Bounds()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, a := c.GetRGBAF(x, y)
			out := f(color.ColorF32{R: r, G: g, B: bl, A: a})
			_ = c.SetRGBAF(x, y, out.R, out.G, out.B, out.A)
		}
	}
}
