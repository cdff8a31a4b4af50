package encoder

import (
	"testing"

	"github.com/gogpu/texpack"
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

func TestEncodeLevelChunkPicksFirstMatchingBackend(t *testing.T) {
	reg := NewRegistry()
	src := solidRGBA8(t, 4, 4, 200, 100, 50, 255)

	stream, err := EncodeLevelChunk(reg, src, pixelformat.BC1, 90, ContentFlags{}, "")
	if err != nil {
		t.Fatalf("EncodeLevelChunk: %v", err)
	}
	if stream.Backend != "squish" {
		t.Errorf("backend = %q, want squish (first in priority order)", stream.Backend)
	}
	if len(stream.Bytes) != 8 {
		t.Errorf("len(Bytes) = %d, want 8", len(stream.Bytes))
	}
}

func TestEncodeLevelChunkRespectsPinnedBackend(t *testing.T) {
	reg := NewRegistry()
	src := solidRGBA8(t, 4, 4, 1, 2, 3, 255)

	stream, err := EncodeLevelChunk(reg, src, pixelformat.BC1, 90, ContentFlags{}, "bcenc")
	if err != nil {
		t.Fatalf("EncodeLevelChunk: %v", err)
	}
	if stream.Backend != "bcenc" {
		t.Errorf("backend = %q, want bcenc", stream.Backend)
	}
}

func TestEncodeLevelChunkBC6HAlwaysUnsupported(t *testing.T) {
	reg := NewRegistry()
	buf, err := internalimage.NewImageBuf(4, 4, internalimage.FormatRGBA32F)
	if err != nil {
		t.Fatalf("NewImageBuf: %v", err)
	}

	_, err = EncodeLevelChunk(reg, buf, pixelformat.BC6H, 50, ContentFlags{HDR: true}, "")
	if kind, _ := texpack.AsKind(err); kind != texpack.KindNoHDRBC6Backend {
		t.Fatalf("err kind = %v, want KindNoHDRBC6Backend", kind)
	}
}

func TestEncodeLevelChunkStorageMismatchIsUnsupported(t *testing.T) {
	reg := NewRegistry()
	src := solidRGBA8(t, 4, 4, 1, 2, 3, 255)

	_, err := EncodeLevelChunk(reg, src, pixelformat.RGBA32F, 50, ContentFlags{}, "")
	if kind, _ := texpack.AsKind(err); kind != texpack.KindUnsupportedByAllBackends {
		t.Fatalf("err kind = %v, want KindUnsupportedByAllBackends", kind)
	}
}

func TestEncodeLevelChunkBC1ThreeColorOnPremultipliedAlpha(t *testing.T) {
	reg := NewRegistry()
	src := solidRGBA8(t, 4, 4, 100, 50, 25, 128)

	flags := ContentFlags{Premultiplied: true, HasAlpha: true}
	stream, err := EncodeLevelChunk(reg, src, pixelformat.BC1, 90, flags, "squish")
	if err != nil {
		t.Fatalf("EncodeLevelChunk: %v", err)
	}
	if len(stream.Bytes) != 8 {
		t.Errorf("len(Bytes) = %d, want 8", len(stream.Bytes))
	}
}

func TestEncodeLevelChunkNormalMapAveragesNonPrincipalChannels(t *testing.T) {
	reg := NewRegistry()
	buf, err := internalimage.NewImageBuf(4, 4, internalimage.FormatRGBA8)
	if err != nil {
		t.Fatalf("NewImageBuf: %v", err)
	}
	// Checkerboard the g channel so an unaveraged encode would preserve
	// the pattern; a correct normal-map prepass flattens it to the block mean.
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			g := uint8(0)
			if (x+y)%2 == 0 {
				g = 255
			}
			_ = buf.SetRGBA(x, y, 128, g, 64, 255)
		}
	}

	_, err = EncodeLevelChunk(reg, buf, pixelformat.RGBA8, 50, ContentFlags{NormalMap: true}, "explicit")
	if err != nil {
		t.Fatalf("EncodeLevelChunk: %v", err)
	}
	// The prepass clones before mutating; the caller's buffer must be untouched.
	r, g, _, _ := buf.GetRGBA(0, 0)
	if r != 128 || g != 255 {
		t.Errorf("source buffer was mutated by preEncode: got r=%d g=%d", r, g)
	}
}

func TestEncodeLevelChunkSDFSwizzlesToRRR1(t *testing.T) {
	reg := NewRegistry()
	buf, err := internalimage.NewImageBuf(4, 4, internalimage.FormatRGBA8)
	if err != nil {
		t.Fatalf("NewImageBuf: %v", err)
	}
	buf.Fill(200, 10, 20, 30)

	stream, err := EncodeLevelChunk(reg, buf, pixelformat.RGBA8, 50, ContentFlags{SDF: true}, "explicit")
	if err != nil {
		t.Fatalf("EncodeLevelChunk: %v", err)
	}
	if stream.Bytes[0] != 200 || stream.Bytes[1] != 200 || stream.Bytes[2] != 200 || stream.Bytes[3] != 255 {
		t.Errorf("pixel 0 = %v, want [200 200 200 255] (rrr1 swizzle)", stream.Bytes[0:4])
	}
}

func TestEncodeLevelChunkUnknownPinnedBackend(t *testing.T) {
	reg := NewRegistry()
	src := solidRGBA8(t, 4, 4, 1, 2, 3, 255)

	_, err := EncodeLevelChunk(reg, src, pixelformat.BC1, 50, ContentFlags{}, "nonexistent")
	if kind, _ := texpack.AsKind(err); kind != texpack.KindUnsupportedByAllBackends {
		t.Fatalf("err kind = %v, want KindUnsupportedByAllBackends", kind)
	}
}
