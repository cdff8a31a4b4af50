package imagebuffer

import "testing"

// diskMask builds an n x n binary RGBA8 image (red channel only) with a
// filled disk of the given radius centered in the image.
func diskMask(n, radius int) []byte {
	out := make([]byte, n*n*4)
	cx, cy := n/2, n/2
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			dx, dy := x-cx, y-cy
			inside := dx*dx+dy*dy <= radius*radius
			v := uint8(0)
			if inside {
				v = 255
			}
			i := (y*n + x) * 4
			out[i], out[i+1], out[i+2], out[i+3] = v, v, v, 255
		}
	}
	return out
}

func TestSignedDistanceFieldDiskSign(t *testing.T) {
	const n = 16
	pixels := diskMask(n, 5)
	buf, err := LoadFromRGBA8(pixels, n, n, true, false, 1)
	if err != nil {
		t.Fatalf("LoadFromRGBA8: %v", err)
	}

	sdf, err := buf.SignedDistanceField(0)
	if err != nil {
		t.Fatalf("SignedDistanceField: %v", err)
	}
	if sdf.Width() != n || sdf.Height() != n || sdf.ChunkCount() != 1 {
		t.Fatalf("unexpected SDF dimensions %dx%d x%d", sdf.Width(), sdf.Height(), sdf.ChunkCount())
	}

	center, _, _, _ := sdf.Chunk(0).GetRGBA(n/2, n/2)
	corner, _, _, _ := sdf.Chunk(0).GetRGBA(0, 0)

	if center >= 128 {
		t.Errorf("center of filled disk should map below 128 (inside), got %d", center)
	}
	if corner <= 128 {
		t.Errorf("corner outside disk should map above 128 (outside), got %d", corner)
	}
}

func TestSignedDistanceFieldMaxRadiusClamp(t *testing.T) {
	const n = 8
	pixels := diskMask(n, 3)
	buf, _ := LoadFromRGBA8(pixels, n, n, true, false, 1)

	sdf, err := buf.SignedDistanceField(1)
	if err != nil {
		t.Fatalf("SignedDistanceField: %v", err)
	}
	// With a radius of 1 texel, everything more than 1 texel from the
	// boundary should clamp to the extremes of round(v*127)+128 (1 or
	// 255). Interior pixels are negative (inside), so they clamp to 1.
	center, _, _, _ := sdf.Chunk(0).GetRGBA(n/2, n/2)
	if center != 1 {
		t.Errorf("deep-interior pixel with radius=1 should clamp to 1, got %d", center)
	}
}
