package image

import "math"

// InterpolationMode selects how ImageBuf is point-sampled at
// non-integer coordinates by Sample. Resize does not use it; the
// separable ResizeFilter kernels in kernel.go drive the actual Resize
// operation (spec §4.2).
type InterpolationMode uint8

const (
	// InterpNearest selects the closest pixel (no interpolation).
	InterpNearest InterpolationMode = iota

	// InterpBilinear linearly blends the 4 neighboring pixels.
	InterpBilinear

	// InterpBicubic blends a 4x4 neighborhood with Catmull-Rom weights.
	InterpBicubic
)

// String returns a string representation of the interpolation mode.
func (m InterpolationMode) String() string {
	switch m {
	case InterpNearest:
		return "Nearest"
	case InterpBilinear:
		return "Bilinear"
	case InterpBicubic:
		return "Bicubic"
	default:
		return "Unknown"
	}
}

// Sample samples img at normalized coordinates (u, v) — (0,0) is
// top-left, (1,1) is bottom-right — using mode. Works uniformly across
// RGBA8 and RGBA32F buffers via GetRGBAF. Out-of-bounds coordinates
// clamp to the edge.
func Sample(img *ImageBuf, u, v float64, mode InterpolationMode) (r, g, b, a float32) {
	switch mode {
	case InterpNearest:
		return SampleNearest(img, u, v)
	case InterpBilinear:
		return SampleBilinear(img, u, v)
	case InterpBicubic:
		return SampleBicubic(img, u, v)
	default:
		return 0, 0, 0, 0
	}
}

// SampleNearest performs nearest-neighbor sampling at (u, v).
func SampleNearest(img *ImageBuf, u, v float64) (r, g, b, a float32) {
	w, h := img.Bounds()

	x := int(math.Floor(u * float64(w)))
	y := int(math.Floor(v * float64(h)))

	x = clamp(x, 0, w-1)
	y = clamp(y, 0, h-1)

	return img.GetRGBAF(x, y)
}

// SampleBilinear performs bilinear interpolation at (u, v), blending
// the 4 nearest pixels with linear weights.
func SampleBilinear(img *ImageBuf, u, v float64) (r, g, b, a float32) {
	w, h := img.Bounds()

	fx := u*float64(w) - 0.5
	fy := v*float64(h) - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	x1 := x0 + 1
	y1 := y0 + 1

	x0 = clamp(x0, 0, w-1)
	y0 = clamp(y0, 0, h-1)
	x1 = clamp(x1, 0, w-1)
	y1 = clamp(y1, 0, h-1)

	r00, g00, b00, a00 := img.GetRGBAF(x0, y0)
	r10, g10, b10, a10 := img.GetRGBAF(x1, y0)
	r01, g01, b01, a01 := img.GetRGBAF(x0, y1)
	r11, g11, b11, a11 := img.GetRGBAF(x1, y1)

	r = float32(lerp2D(float64(r00), float64(r10), float64(r01), float64(r11), tx, ty))
	g = float32(lerp2D(float64(g00), float64(g10), float64(g01), float64(g11), tx, ty))
	b = float32(lerp2D(float64(b00), float64(b10), float64(b01), float64(b11), tx, ty))
	a = float32(lerp2D(float64(a00), float64(a10), float64(a01), float64(a11), tx, ty))

	return r, g, b, a
}

// SampleBicubic performs bicubic interpolation at (u, v) using
// Catmull-Rom weights over a 4x4 pixel neighborhood. Output channels
// for RGBA8-backed buffers are clamped to [0, 1] before the caller
// converts back to byte range.
func SampleBicubic(img *ImageBuf, u, v float64) (r, g, b, a float32) {
	w, h := img.Bounds()
	float := img.Format().IsFloat()

	fx := u*float64(w) - 0.5
	fy := v*float64(h) - 0.5

	x := int(math.Floor(fx))
	y := int(math.Floor(fy))
	tx := fx - float64(x)
	ty := fy - float64(y)

	var rVals, gVals, bVals, aVals [4][4]float64

	for dy := -1; dy <= 2; dy++ {
		for dx := -1; dx <= 2; dx++ {
			px := clamp(x+dx, 0, w-1)
			py := clamp(y+dy, 0, h-1)

			pr, pg, pb, pa := img.GetRGBAF(px, py)
			rVals[dy+1][dx+1] = float64(pr)
			gVals[dy+1][dx+1] = float64(pg)
			bVals[dy+1][dx+1] = float64(pb)
			aVals[dy+1][dx+1] = float64(pa)
		}
	}

	rf := bicubicInterp(rVals, tx, ty)
	gf := bicubicInterp(gVals, tx, ty)
	bf := bicubicInterp(bVals, tx, ty)
	af := bicubicInterp(aVals, tx, ty)

	if !float {
		rf = clampFloat(rf, 0, 1)
		gf = clampFloat(gf, 0, 1)
		bf = clampFloat(bf, 0, 1)
		af = clampFloat(af, 0, 1)
	}

	return float32(rf), float32(gf), float32(bf), float32(af)
}

// clamp clamps an integer value to [minVal, maxVal].
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// clampFloat clamps a float64 value to [minVal, maxVal].
func clampFloat(val, minVal, maxVal float64) float64 {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// lerp performs linear interpolation between a and b.
func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// lerp2D performs bilinear interpolation on a 2x2 grid.
func lerp2D(v00, v10, v01, v11, tx, ty float64) float64 {
	v0 := lerp(v00, v10, tx)
	v1 := lerp(v01, v11, tx)
	return lerp(v0, v1, ty)
}

// bicubicInterp performs bicubic interpolation on a 4x4 grid using the
// Catmull-Rom member of the Mitchell-Netravali filter family.
func bicubicInterp(vals [4][4]float64, tx, ty float64) float64 {
	wx := [4]float64{
		mitchellWeight(tx+1, 0, 0.5),
		mitchellWeight(tx, 0, 0.5),
		mitchellWeight(tx-1, 0, 0.5),
		mitchellWeight(tx-2, 0, 0.5),
	}
	wy := [4]float64{
		mitchellWeight(ty+1, 0, 0.5),
		mitchellWeight(ty, 0, 0.5),
		mitchellWeight(ty-1, 0, 0.5),
		mitchellWeight(ty-2, 0, 0.5),
	}

	var result float64
	for i := range 4 {
		for j := range 4 {
			result += vals[i][j] * wx[j] * wy[i]
		}
	}

	return result
}
