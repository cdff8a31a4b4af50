package mipmap

import (
	"testing"

	"github.com/gogpu/texpack/imagebuffer"
)

func solidBuffer(t *testing.T, w, h int) *imagebuffer.ImageBuffer {
	t.Helper()
	pixels := make([]byte, w*h*4)
	for i := 0; i < w*h; i++ {
		pixels[i*4], pixels[i*4+1], pixels[i*4+2], pixels[i*4+3] = 100, 150, 200, 255
	}
	buf, err := imagebuffer.LoadFromRGBA8(pixels, w, h, true, true, 1)
	if err != nil {
		t.Fatalf("LoadFromRGBA8: %v", err)
	}
	return buf
}

func TestGenerateDisabledProducesOneLevel(t *testing.T) {
	src := solidBuffer(t, 8, 8)
	chain, err := Generate(src, Policy{Enabled: false})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if chain.LevelCount() != 1 {
		t.Fatalf("got %d levels, want 1", chain.LevelCount())
	}
	if chain.Level(0) != src {
		t.Error("disabled policy should return level 0 unchanged")
	}
}

func TestGenerateFullChainPow2(t *testing.T) {
	src := solidBuffer(t, 8, 4)
	chain, err := Generate(src, Policy{Enabled: true, Filter: imagebuffer.FilterBox, KeepNonPow2: true})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	// 8x4 -> 4x2 -> 2x1, stopping once the smaller dimension reaches 1.
	if chain.LevelCount() != 3 {
		t.Fatalf("got %d levels, want 3", chain.LevelCount())
	}
	wantDims := [][2]int{{8, 4}, {4, 2}, {2, 1}}
	for i, want := range wantDims {
		lvl := chain.Level(i)
		if lvl.Width() != want[0] || lvl.Height() != want[1] {
			t.Errorf("level %d: got %dx%d, want %dx%d", i, lvl.Width(), lvl.Height(), want[0], want[1])
		}
	}
}

func TestGenerateMinPxClamp(t *testing.T) {
	src := solidBuffer(t, 8, 8)
	chain, err := Generate(src, Policy{Enabled: true, Filter: imagebuffer.FilterBox, KeepNonPow2: true, MinPx: 4})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	// 8x8, 4x4 retained; 2x2 and 1x1 fall below MinPx and are skipped.
	if chain.LevelCount() != 2 {
		t.Fatalf("got %d levels, want 2", chain.LevelCount())
	}
	if chain.Level(1).Width() != 4 {
		t.Errorf("last retained level width = %d, want 4", chain.Level(1).Width())
	}
}

func TestGenerateMaxPxClamp(t *testing.T) {
	src := solidBuffer(t, 16, 16)
	chain, err := Generate(src, Policy{Enabled: true, Filter: imagebuffer.FilterBox, KeepNonPow2: true, MaxPx: 8})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	// 16x16 skipped (> 8); 8x8,4x4,2x2,1x1 retained.
	if chain.LevelCount() != 4 {
		t.Fatalf("got %d levels, want 4", chain.LevelCount())
	}
	if chain.Level(0).Width() != 8 {
		t.Errorf("first retained level width = %d, want 8", chain.Level(0).Width())
	}
}

func TestGenerateNonPow2KeepsNonPow2WhenRequested(t *testing.T) {
	src := solidBuffer(t, 5, 3)
	chain, err := Generate(src, Policy{Enabled: true, Filter: imagebuffer.FilterBox, KeepNonPow2: true})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if chain.Level(0).Width() != 5 || chain.Level(0).Height() != 3 {
		t.Fatalf("level 0 = %dx%d, want 5x3 unchanged", chain.Level(0).Width(), chain.Level(0).Height())
	}
	// Mips stop once the smaller dimension reaches 1: 5x3 -> 2x1, stop.
	last := chain.Level(chain.LevelCount() - 1)
	if last.Width() != 2 || last.Height() != 1 {
		t.Errorf("last level = %dx%d, want 2x1", last.Width(), last.Height())
	}
}

func TestGenerateNonPow2RoundsDownWhenNotKept(t *testing.T) {
	src := solidBuffer(t, 5, 3)
	chain, err := Generate(src, Policy{Enabled: true, Filter: imagebuffer.FilterBox, KeepNonPow2: false})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if chain.Level(0).Width() != 4 || chain.Level(0).Height() != 2 {
		t.Fatalf("level 0 = %dx%d, want 4x2 (rounded to pow2)", chain.Level(0).Width(), chain.Level(0).Height())
	}
}
