package imagebuffer

import "testing"

func solidRGBA8(w, h int, r, g, b, a uint8, chunks int) []byte {
	out := make([]byte, w*h*4*chunks)
	for i := 0; i < w*h*chunks; i++ {
		out[i*4] = r
		out[i*4+1] = g
		out[i*4+2] = b
		out[i*4+3] = a
	}
	return out
}

func TestLoadFromRGBA8(t *testing.T) {
	pixels := solidRGBA8(4, 3, 10, 20, 30, 255, 1)
	buf, err := LoadFromRGBA8(pixels, 4, 3, true, true, 1)
	if err != nil {
		t.Fatalf("LoadFromRGBA8: %v", err)
	}
	if buf.Width() != 4 || buf.Height() != 3 {
		t.Fatalf("got %dx%d, want 4x3", buf.Width(), buf.Height())
	}
	if buf.ChunkCount() != 1 {
		t.Fatalf("got %d chunks, want 1", buf.ChunkCount())
	}
	r, g, b, a := buf.Chunk(0).GetRGBA(1, 1)
	if r != 10 || g != 20 || b != 30 || a != 255 {
		t.Errorf("pixel (1,1) = %d,%d,%d,%d, want 10,20,30,255", r, g, b, a)
	}
}

func TestLoadFromRGBA8WrongSize(t *testing.T) {
	_, err := LoadFromRGBA8(make([]byte, 10), 4, 3, true, true, 1)
	if err == nil {
		t.Fatal("expected error for mismatched buffer size")
	}
}

func TestLoadFromRGBA8MultiChunk(t *testing.T) {
	pixels := solidRGBA8(2, 2, 1, 2, 3, 4, 3)
	buf, err := LoadFromRGBA8(pixels, 2, 2, true, true, 3)
	if err != nil {
		t.Fatalf("LoadFromRGBA8: %v", err)
	}
	if buf.ChunkCount() != 3 {
		t.Fatalf("got %d chunks, want 3", buf.ChunkCount())
	}
	for i := 0; i < 3; i++ {
		r, g, b, a := buf.Chunk(i).GetRGBA(0, 0)
		if r != 1 || g != 2 || b != 3 || a != 4 {
			t.Errorf("chunk %d pixel (0,0) = %d,%d,%d,%d", i, r, g, b, a)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	pixels := solidRGBA8(2, 2, 5, 5, 5, 255, 1)
	buf, _ := LoadFromRGBA8(pixels, 2, 2, true, true, 1)
	clone := buf.Clone()
	_ = clone.Chunk(0).SetRGBA(0, 0, 99, 99, 99, 255)

	r, _, _, _ := buf.Chunk(0).GetRGBA(0, 0)
	if r != 5 {
		t.Errorf("original mutated by clone edit: r=%d, want 5", r)
	}
	r2, _, _, _ := clone.Chunk(0).GetRGBA(0, 0)
	if r2 != 99 {
		t.Errorf("clone edit did not apply: r=%d, want 99", r2)
	}
}
