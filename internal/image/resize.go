package image

import (
	stdimage "image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Resize produces a new ImageBuf of dstW x dstH sampled from src with
// filter (spec §4.3 "resize(newW, newH, pow2?, filter)"). Point and Tent
// route through golang.org/x/image/draw when src is RGBA8, since that
// library's NearestNeighbor/BiLinear kernels are exactly those two
// cases; every other filter, and every RGBA32F buffer regardless of
// filter, goes through the hand-rolled separable kernel in kernel.go so
// float precision and linear-space HDR values survive the resize.
func Resize(src *ImageBuf, dstW, dstH int, filter ResizeFilter) *ImageBuf {
	if src == nil || dstW <= 0 || dstH <= 0 {
		return nil
	}
	if dstW == src.Width() && dstH == src.Height() {
		return src.Clone()
	}

	if !src.Format().IsFloat() {
		switch filter.Name {
		case PointFilter.Name:
			return resizeWithXDraw(src, dstW, dstH, xdraw.NearestNeighbor)
		case TentFilter.Name:
			return resizeWithXDraw(src, dstW, dstH, xdraw.BiLinear)
		}
	}

	return resizeSeparable(src, dstW, dstH, filter)
}

// resizeWithXDraw draws src into a dstW x dstH *image.NRGBA using a
// golang.org/x/image/draw scaler, then wraps the result back into an
// RGBA8 ImageBuf.
func resizeWithXDraw(src *ImageBuf, dstW, dstH int, scaler xdraw.Scaler) *ImageBuf {
	dstImg := stdimage.NewNRGBA(stdimage.Rect(0, 0, dstW, dstH))
	scaler.Scale(dstImg, dstImg.Bounds(), src.ToStdImage(), src.ToStdImage().Bounds(), draw.Src, nil)
	return FromStdImage(dstImg)
}

// resizeSeparable performs a two-pass (horizontal then vertical)
// separable convolution with filter's kernel, in float32 throughout so
// RGBA32F HDR values are never clamped mid-resize.
func resizeSeparable(src *ImageBuf, dstW, dstH int, filter ResizeFilter) *ImageBuf {
	srcW, srcH := src.Bounds()

	// Horizontal pass: srcW x srcH -> dstW x srcH, float32 intermediate.
	horiz := make([][4]float32, dstW*srcH)
	scaleX := float64(srcW) / float64(dstW)
	for dx := 0; dx < dstW; dx++ {
		center := (float64(dx) + 0.5) * scaleX
		lo, hi, weights := filterTaps(center, scaleX, filter, srcW)
		for y := 0; y < srcH; y++ {
			var r, g, b, a float32
			for sx := lo; sx <= hi; sx++ {
				sr, sg, sb, sa := src.GetRGBAF(sx, y)
				wgt := float32(weights[sx-lo])
				r += sr * wgt
				g += sg * wgt
				b += sb * wgt
				a += sa * wgt
			}
			horiz[y*dstW+dx] = [4]float32{r, g, b, a}
		}
	}

	dst := GetFromDefault(dstW, dstH, src.Format())
	if dst == nil {
		dst, _ = NewImageBuf(dstW, dstH, src.Format())
	}
	dst.SetColorSpace(src.ColorSpace())

	// Vertical pass: dstW x srcH -> dstW x dstH.
	scaleY := float64(srcH) / float64(dstH)
	for dy := 0; dy < dstH; dy++ {
		center := (float64(dy) + 0.5) * scaleY
		lo, hi, weights := filterTaps(center, scaleY, filter, srcH)
		for dx := 0; dx < dstW; dx++ {
			var r, g, b, a float32
			for sy := lo; sy <= hi; sy++ {
				px := horiz[sy*dstW+dx]
				wgt := float32(weights[sy-lo])
				r += px[0] * wgt
				g += px[1] * wgt
				b += px[2] * wgt
				a += px[3] * wgt
			}
			_ = dst.SetRGBAF(dx, dy, r, g, b, a)
		}
	}

	return dst
}

// filterTaps returns the inclusive [lo,hi] source-pixel range and
// normalized weights contributing to a destination sample centered at
// srcCenter, for a filter whose support is scaled by scale (> 1 when
// downsampling, widening the kernel to avoid aliasing).
func filterTaps(srcCenter, scale float64, filter ResizeFilter, srcExtent int) (lo, hi int, weights []float64) {
	if filter.Support == 0 {
		// Point filter: take the single source pixel under srcCenter.
		lo = min(int(srcCenter), srcExtent-1)
		return lo, lo, []float64{1}
	}
	support := filter.Support
	if scale > 1 {
		support *= scale
	}
	lo = int(srcCenter - support)
	hi = int(srcCenter + support)
	if lo < 0 {
		lo = 0
	}
	if hi >= srcExtent {
		hi = srcExtent - 1
	}
	if hi < lo {
		hi = lo
	}

	invScale := 1.0
	if scale > 1 {
		invScale = 1 / scale
	}

	weights = make([]float64, hi-lo+1)
	var total float64
	for i := range weights {
		sx := float64(lo+i) + 0.5
		w := filter.Weight((sx - srcCenter) * invScale)
		weights[i] = w
		total += w
	}
	if total != 0 {
		for i := range weights {
			weights[i] /= total
		}
	}
	return lo, hi, weights
}

