package backend

import internalimage "github.com/gogpu/texpack/internal/image"

// ExtractBlock reads the 4x4 RGBA8 neighborhood at block coordinates
// (bx0, by0) out of src, clamping reads beyond the image edge to the
// last valid row/column (blockcodec.Block's documented convention for
// edge padding). Shared by every BC/ETC2 adapter so each one only has
// to own its own bit-packing.
func ExtractBlock(src *internalimage.ImageBuf, bx0, by0 int) [16][4]uint8 {
	w, h := src.Bounds()
	var out [16][4]uint8
	for dy := 0; dy < 4; dy++ {
		y := clampInt(by0+dy, 0, h-1)
		for dx := 0; dx < 4; dx++ {
			x := clampInt(bx0+dx, 0, w-1)
			r, g, b, a := src.GetRGBA(x, y)
			out[dy*4+dx] = [4]uint8{r, g, b, a}
		}
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
