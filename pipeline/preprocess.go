package pipeline

import (
	"github.com/gogpu/texpack/imagebuffer"
	"github.com/gogpu/texpack/pixelformat"
)

// preprocess runs the fixed preprocessing order from spec §4.7 step 2:
// swizzle, average-per-block, resize, colorspace adjust, premultiply,
// SDF. Each stage is a no-op when its corresponding option is unset.
// buf is mutated in place except for SDF, which replaces *buf with a new
// single-chunk R8-semantics buffer.
func preprocess(opts *Options, buf *imagebuffer.ImageBuffer) error {
	if opts.Swizzle != "" {
		if err := buf.Swizzle(opts.Swizzle); err != nil {
			return err
		}
	}

	if opts.AvgMask != "" {
		bx, by := opts.AvgBlockW, opts.AvgBlockH
		if bx <= 0 {
			bx = 4
		}
		if by <= 0 {
			by = 4
		}
		if err := buf.AveragePerBlock(opts.AvgMask, bx, by); err != nil {
			return err
		}
	}

	if opts.ResizeW > 0 && opts.ResizeH > 0 {
		if err := buf.Resize(opts.ResizeW, opts.ResizeH, opts.ResizePow2, opts.ResizeFilter); err != nil {
			return err
		}
	}

	if err := adjustColorSpace(opts, buf); err != nil {
		return err
	}

	if opts.Premultiply {
		if err := buf.PremultiplyAlpha(); err != nil {
			return err
		}
	}

	if opts.SDF {
		sdf, err := buf.SignedDistanceField(opts.SDFMaxRadius)
		if err != nil {
			return err
		}
		*buf = *sdf
	}

	return nil
}

// adjustColorSpace converts buf to whichever color space the target
// format expects: sRGB formats keep (or re-encode to) sRGB, every other
// format is converted to linear before encoding (spec §4.7 step 2
// "colorspace adjust").
func adjustColorSpace(opts *Options, buf *imagebuffer.ImageBuffer) error {
	fi, ok := pixelformat.Describe(opts.Format)
	if !ok {
		return nil // resolveFormat validates the format later; nothing to adjust yet
	}
	if fi.SRGB {
		return buf.ToSRGBFromLinear()
	}
	return buf.ToLinearFromSRGB()
}
