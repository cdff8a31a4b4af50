package explicit

import (
	"testing"

	"github.com/gogpu/texpack/backend"
	internalimage "github.com/gogpu/texpack/internal/image"
	"github.com/gogpu/texpack/pixelformat"
)

func solidRGBA8(t *testing.T, w, h int, r, g, b, a uint8) *internalimage.ImageBuf {
	t.Helper()
	buf, err := internalimage.NewImageBuf(w, h, internalimage.FormatRGBA8)
	if err != nil {
		t.Fatalf("NewImageBuf: %v", err)
	}
	buf.Fill(r, g, b, a)
	return buf
}

func TestEncodeRG8PacksTwoChannels(t *testing.T) {
	src := solidRGBA8(t, 2, 2, 10, 20, 30, 40)
	fi, _ := pixelformat.Describe(pixelformat.RG8)
	dst := make([]byte, fi.LevelSize(2, 2))

	var a Adapter
	actual, err := a.Encode(src, pixelformat.RG8, 77, backend.Hints{}, dst)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if actual != 77 {
		t.Errorf("actual quality = %d, want 77 (explicit has no knob)", actual)
	}
	for i := 0; i < len(dst); i += 2 {
		if dst[i] != 10 || dst[i+1] != 20 {
			t.Fatalf("pixel %d = [%d %d], want [10 20]", i/2, dst[i], dst[i+1])
		}
	}
}

func TestEncodeRGBA16FRoundTrips(t *testing.T) {
	buf, err := internalimage.NewImageBuf(1, 1, internalimage.FormatRGBA32F)
	if err != nil {
		t.Fatalf("NewImageBuf: %v", err)
	}
	_ = buf.SetRGBAF(0, 0, 0.5, 0.25, 0.75, 1.0)

	fi, _ := pixelformat.Describe(pixelformat.RGBA16F)
	dst := make([]byte, fi.LevelSize(1, 1))

	var a Adapter
	if _, err := a.Encode(buf, pixelformat.RGBA16F, 50, backend.Hints{}, dst); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(dst) != 8 {
		t.Fatalf("dst length = %d, want 8", len(dst))
	}
}

func TestEncodeRejectsNonExplicitFormat(t *testing.T) {
	src := solidRGBA8(t, 4, 4, 1, 2, 3, 4)
	var a Adapter
	dst := make([]byte, 8)
	if _, err := a.Encode(src, pixelformat.BC1, 50, backend.Hints{}, dst); err == nil {
		t.Error("expected error encoding BC1 through the explicit adapter")
	}
}
