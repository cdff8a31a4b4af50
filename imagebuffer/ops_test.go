package imagebuffer

import "testing"

func TestSwizzleChannelSwap(t *testing.T) {
	pixels := solidRGBA8(2, 2, 10, 20, 30, 40, 1)
	buf, _ := LoadFromRGBA8(pixels, 2, 2, true, true, 1)
	if err := buf.Swizzle("abgr"); err != nil {
		t.Fatalf("Swizzle: %v", err)
	}
	r, g, b, a := buf.Chunk(0).GetRGBA(0, 0)
	if r != 40 || g != 30 || b != 20 || a != 10 {
		t.Errorf("got %d,%d,%d,%d, want 40,30,20,10", r, g, b, a)
	}
}

func TestSwizzleConstants(t *testing.T) {
	pixels := solidRGBA8(1, 1, 10, 20, 30, 40, 1)
	buf, _ := LoadFromRGBA8(pixels, 1, 1, true, true, 1)
	if err := buf.Swizzle("r001"); err != nil {
		t.Fatalf("Swizzle: %v", err)
	}
	r, g, b, a := buf.Chunk(0).GetRGBA(0, 0)
	if r != 10 || g != 0 || b != 0 || a != 255 {
		t.Errorf("got %d,%d,%d,%d, want 10,0,0,255", r, g, b, a)
	}
}

func TestSwizzleBadPattern(t *testing.T) {
	pixels := solidRGBA8(1, 1, 1, 1, 1, 1, 1)
	buf, _ := LoadFromRGBA8(pixels, 1, 1, true, true, 1)
	if err := buf.Swizzle("rgbx"); err == nil {
		t.Fatal("expected error for invalid swizzle token")
	}
	if err := buf.Swizzle("rgb"); err == nil {
		t.Fatal("expected error for short swizzle pattern")
	}
}

func TestAveragePerBlock(t *testing.T) {
	// 2x2 block with distinct red values; average should replace all four.
	pixels := make([]byte, 2*2*4)
	vals := [4]uint8{0, 100, 50, 150}
	for i, v := range vals {
		pixels[i*4] = v
		pixels[i*4+1] = v
		pixels[i*4+2] = v
		pixels[i*4+3] = 255
	}
	buf, _ := LoadFromRGBA8(pixels, 2, 2, true, true, 1)
	if err := buf.AveragePerBlock("rgb", 2, 2); err != nil {
		t.Fatalf("AveragePerBlock: %v", err)
	}
	want := uint8((0 + 100 + 50 + 150) / 4)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			r, g, b, _ := buf.Chunk(0).GetRGBA(x, y)
			if r != want || g != want || b != want {
				t.Errorf("(%d,%d) = %d,%d,%d, want %d", x, y, r, g, b, want)
			}
		}
	}
}

func TestPremultiplyAlphaIdempotent(t *testing.T) {
	pixels := solidRGBA8(1, 1, 200, 200, 200, 128, 1)
	buf, _ := LoadFromRGBA8(pixels, 1, 1, true, true, 1)
	if err := buf.PremultiplyAlpha(); err != nil {
		t.Fatalf("PremultiplyAlpha: %v", err)
	}
	r1, _, _, _ := buf.Chunk(0).GetRGBA(0, 0)

	if err := buf.PremultiplyAlpha(); err != nil {
		t.Fatalf("second PremultiplyAlpha: %v", err)
	}
	r2, _, _, _ := buf.Chunk(0).GetRGBA(0, 0)
	if r1 != r2 {
		t.Errorf("second premultiply call changed value: %d -> %d", r1, r2)
	}
	if !buf.IsPremultiplied() {
		t.Error("IsPremultiplied should be true after PremultiplyAlpha")
	}
}

func TestColorSpaceRoundTripIdempotent(t *testing.T) {
	pixels := solidRGBA8(1, 1, 180, 90, 45, 255, 1)
	buf, _ := LoadFromRGBA8(pixels, 1, 1, true, true, 1)
	origR, _, _, _ := buf.Chunk(0).GetRGBA(0, 0)

	if err := buf.ToLinearFromSRGB(); err != nil {
		t.Fatalf("ToLinearFromSRGB: %v", err)
	}
	// Second call should be a no-op (already linear).
	if err := buf.ToLinearFromSRGB(); err != nil {
		t.Fatalf("second ToLinearFromSRGB: %v", err)
	}
	linR, _, _, _ := buf.Chunk(0).GetRGBA(0, 0)

	if err := buf.ToSRGBFromLinear(); err != nil {
		t.Fatalf("ToSRGBFromLinear: %v", err)
	}
	backR, _, _, _ := buf.Chunk(0).GetRGBA(0, 0)

	if absDiff8(backR, origR) > 1 {
		t.Errorf("round trip drift: got %d, want ~%d", backR, origR)
	}
	_ = linR
}

func absDiff8(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestResizeDownscale(t *testing.T) {
	pixels := solidRGBA8(4, 4, 50, 60, 70, 255, 1)
	buf, _ := LoadFromRGBA8(pixels, 4, 4, true, true, 1)
	if err := buf.Resize(2, 2, false, FilterBox); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if buf.Width() != 2 || buf.Height() != 2 {
		t.Fatalf("got %dx%d, want 2x2", buf.Width(), buf.Height())
	}
	r, g, b, a := buf.Chunk(0).GetRGBA(0, 0)
	if absDiff8(r, 50) > 2 || absDiff8(g, 60) > 2 || absDiff8(b, 70) > 2 || a < 250 {
		t.Errorf("solid-color resize drifted: %d,%d,%d,%d", r, g, b, a)
	}
}

func TestResizePow2Rounding(t *testing.T) {
	pixels := solidRGBA8(5, 9, 1, 1, 1, 255, 1)
	buf, _ := LoadFromRGBA8(pixels, 5, 9, true, true, 1)
	if err := buf.Resize(5, 9, true, FilterPoint); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if buf.Width() != 4 || buf.Height() != 8 {
		t.Fatalf("got %dx%d, want 4x8 (nearest lower pow2)", buf.Width(), buf.Height())
	}
}
