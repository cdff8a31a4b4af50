package imagebuffer

import (
	"math"

	"github.com/gogpu/texpack"
)

// SignedDistanceField produces a 1-channel R8 SDF from chunk 0's binary
// source (a pixel is "inside" when its red channel is >= 0.5) by a
// two-pass separable squared-Euclidean distance transform: the
// Felzenszwalb-Huttenlocher lower envelope of shifted parabolas, run
// once per row and once per column (spec §4.3 "signedDistanceField").
//
// maxRadius clamps the normalization range in source texels; 0 selects
// it automatically from the actual maximum distance found, so the full
// unorm8 range is used without wasting precision on large empty areas.
// The result is mapped to unorm8 via round(v*127)+128.
func (b *ImageBuffer) SignedDistanceField(maxRadius int) (*ImageBuffer, error) {
	const op = "imagebuffer.SignedDistanceField"
	if len(b.chunks) == 0 {
		return nil, texpack.NewError(op, texpack.KindBadFlag, errEmptyBuffer)
	}

	w, h := b.width, b.height
	mask := make([]bool, w*h)
	src := b.chunks[0]
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, _, _, _ := src.GetRGBAF(x, y)
			mask[y*w+x] = r >= 0.5
		}
	}

	inv := make([]bool, w*h)
	for i, v := range mask {
		inv[i] = !v
	}

	distToBackground := squaredDistanceTransform(inv, w, h)  // distance to nearest background (0) pixel
	distToForeground := squaredDistanceTransform(mask, w, h) // distance to nearest foreground (1) pixel

	// Outside (background) pixels get a positive value (distance to the
	// nearest foreground pixel); inside (foreground) pixels get a
	// negative value (distance to the nearest background pixel).
	signed := make([]float64, w*h)
	maxAbs := 0.0
	for i := range signed {
		v := math.Sqrt(distToForeground[i]) - math.Sqrt(distToBackground[i])
		signed[i] = v
		if math.Abs(v) > maxAbs {
			maxAbs = math.Abs(v)
		}
	}

	radius := float64(maxRadius)
	if maxRadius == 0 {
		radius = math.Ceil(maxAbs)
		if radius < 1 {
			radius = 1
		}
		if radius > 127 {
			radius = 127
		}
	}

	out, err := New(w, h, 1, StorageRGBA8)
	if err != nil {
		return nil, err
	}
	dst := out.chunks[0]
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := signed[y*w+x] / radius
			if v > 1 {
				v = 1
			}
			if v < -1 {
				v = -1
			}
			unorm := int(math.Round(v*127)) + 128
			if unorm < 0 {
				unorm = 0
			}
			if unorm > 255 {
				unorm = 255
			}
			u := uint8(unorm)
			_ = dst.SetRGBA(x, y, u, u, u, 255)
		}
	}
	return out, nil
}

type sdfError string

func (e sdfError) Error() string { return string(e) }

const errEmptyBuffer = sdfError("imagebuffer: buffer has no chunks")

// squaredDistanceTransform computes, for every pixel, the squared
// Euclidean distance to the nearest pixel where mask is true (an
// "on"/foreground pixel), via two 1D Felzenszwalb-Huttenlocher passes:
// columns first, then rows of the column-transformed intermediate.
func squaredDistanceTransform(mask []bool, w, h int) []float64 {
	const inf = 1e20
	g := make([]float64, w*h)

	col := make([]float64, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			if mask[y*w+x] {
				col[y] = 0
			} else {
				col[y] = inf
			}
		}
		dcol := distanceTransform1D(col)
		for y := 0; y < h; y++ {
			g[y*w+x] = dcol[y]
		}
	}

	out := make([]float64, w*h)
	row := make([]float64, w)
	for y := 0; y < h; y++ {
		copy(row, g[y*w:y*w+w])
		drow := distanceTransform1D(row)
		copy(out[y*w:y*w+w], drow)
	}
	return out
}

// distanceTransform1D is the classic Felzenszwalb-Huttenlocher O(n)
// squared distance transform: the lower envelope of parabolas rooted at
// each sample (x, f(x)).
func distanceTransform1D(f []float64) []float64 {
	n := len(f)
	d := make([]float64, n)
	v := make([]int, n)
	z := make([]float64, n+1)

	k := 0
	v[0] = 0
	z[0] = math.Inf(-1)
	z[1] = math.Inf(1)

	for q := 1; q < n; q++ {
		s := intersect(f, q, v[k])
		for s <= z[k] {
			k--
			s = intersect(f, q, v[k])
		}
		k++
		v[k] = q
		z[k] = s
		z[k+1] = math.Inf(1)
	}

	k = 0
	for q := 0; q < n; q++ {
		for z[k+1] < float64(q) {
			k++
		}
		dq := float64(q - v[k])
		d[q] = dq*dq + f[v[k]]
	}
	return d
}

func intersect(f []float64, q, vk int) float64 {
	return ((f[q] + float64(q*q)) - (f[vk] + float64(vk*vk))) / float64(2*(q-vk))
}
