package squish

import (
	"testing"

	"github.com/gogpu/texpack/backend"
	internalimage "github.com/gogpu/texpack/internal/image"
	"github.com/gogpu/texpack/pixelformat"
)

func TestEncodeBC1ProducesExpectedByteLength(t *testing.T) {
	buf, err := internalimage.NewImageBuf(4, 4, internalimage.FormatRGBA8)
	if err != nil {
		t.Fatalf("NewImageBuf: %v", err)
	}
	buf.Fill(200, 100, 50, 255)

	fi, _ := pixelformat.Describe(pixelformat.BC1)
	dst := make([]byte, fi.LevelSize(4, 4))

	var a Adapter
	actual, err := a.Encode(buf, pixelformat.BC1, 90, backend.Hints{}, dst)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if actual != 90 {
		t.Errorf("squish reports exact requested quality, got %d", actual)
	}
	if len(dst) != 8 {
		t.Fatalf("dst length = %d, want 8", len(dst))
	}
}

func TestEncodeBC7MultiBlock(t *testing.T) {
	buf, err := internalimage.NewImageBuf(8, 4, internalimage.FormatRGBA8)
	if err != nil {
		t.Fatalf("NewImageBuf: %v", err)
	}
	buf.Fill(10, 20, 30, 255)

	fi, _ := pixelformat.Describe(pixelformat.BC7)
	dst := make([]byte, fi.LevelSize(8, 4))
	var a Adapter
	if _, err := a.Encode(buf, pixelformat.BC7, 50, backend.Hints{}, dst); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(dst) != 32 { // 2x1 blocks * 16 bytes
		t.Fatalf("dst length = %d, want 32", len(dst))
	}
}

func TestEncodeRejectsDstTooSmall(t *testing.T) {
	buf, _ := internalimage.NewImageBuf(4, 4, internalimage.FormatRGBA8)
	var a Adapter
	if _, err := a.Encode(buf, pixelformat.BC1, 50, backend.Hints{}, make([]byte, 2)); err == nil {
		t.Error("expected error for undersized dst")
	}
}
