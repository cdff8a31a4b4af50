package image

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestFromStdImage_RGBA(t *testing.T) {
	rgba := image.NewRGBA(image.Rect(0, 0, 10, 10))
	rgba.Set(5, 5, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	buf := FromStdImage(rgba)

	if buf.Width() != 10 || buf.Height() != 10 {
		t.Errorf("Dimensions = (%d, %d), want (10, 10)", buf.Width(), buf.Height())
	}

	r, g, b, a := buf.GetRGBA(5, 5)
	if r != 200 || g != 100 || b != 50 || a != 255 {
		t.Errorf("Pixel = (%d, %d, %d, %d), want (200, 100, 50, 255)", r, g, b, a)
	}
}

func TestFromStdImage_NRGBA(t *testing.T) {
	nrgba := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	nrgba.Set(3, 3, color.NRGBA{R: 128, G: 64, B: 32, A: 200})

	buf := FromStdImage(nrgba)

	if buf.Width() != 10 || buf.Height() != 10 {
		t.Errorf("Dimensions = (%d, %d), want (10, 10)", buf.Width(), buf.Height())
	}

	r, g, b, a := buf.GetRGBA(3, 3)
	if r != 128 || g != 64 || b != 32 || a != 200 {
		t.Errorf("Pixel = (%d, %d, %d, %d), want (128, 64, 32, 200)", r, g, b, a)
	}
}

func TestFromStdImage_Gray(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 10, 10))
	gray.SetGray(5, 5, color.Gray{Y: 128})

	buf := FromStdImage(gray)

	if buf.Format() != FormatRGBA8 {
		t.Errorf("Format = %v, want FormatRGBA8", buf.Format())
	}

	r, g, b, a := buf.GetRGBA(5, 5)
	if r != 128 || g != 128 || b != 128 || a != 255 {
		t.Errorf("Pixel = (%d, %d, %d, %d), want (128, 128, 128, 255)", r, g, b, a)
	}
}

func TestToStdImage_RGBA8(t *testing.T) {
	buf, _ := NewImageBuf(10, 10, FormatRGBA8)
	_ = buf.SetRGBA(5, 5, 200, 100, 50, 255)

	img := buf.ToStdImage()

	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		t.Fatalf("ToStdImage() returned %T, want *image.NRGBA", img)
	}

	c := nrgba.NRGBAAt(5, 5)
	if c.R != 200 || c.G != 100 || c.B != 50 || c.A != 255 {
		t.Errorf("Pixel = %v, want {200, 100, 50, 255}", c)
	}
}

func TestToStdImage_RGBA32F(t *testing.T) {
	buf, _ := NewImageBuf(10, 10, FormatRGBA32F)
	_ = buf.SetRGBAF(5, 5, 0.8, 0.4, 0.2, 1.0)

	img := buf.ToStdImage()

	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		t.Fatalf("ToStdImage() returned %T, want *image.NRGBA", img)
	}

	c := nrgba.NRGBAAt(5, 5)
	if c.R != 204 || c.A != 255 {
		t.Errorf("Pixel R = %d A = %d, want R=204 A=255", c.R, c.A)
	}
}

func TestEncodePNG_DecodePNG(t *testing.T) {
	buf, _ := NewImageBuf(32, 32, FormatRGBA8)
	for y := range 32 {
		for x := range 32 {
			_ = buf.SetRGBA(x, y, uint8(x*8), uint8(y*8), 128, 255)
		}
	}

	var encoded bytes.Buffer
	if err := buf.EncodePNG(&encoded); err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}

	decoded, err := DecodePNG(bytes.NewReader(encoded.Bytes()))
	if err != nil {
		t.Fatalf("DecodePNG failed: %v", err)
	}

	if decoded.Width() != 32 || decoded.Height() != 32 {
		t.Errorf("Dimensions = (%d, %d), want (32, 32)", decoded.Width(), decoded.Height())
	}

	testPixels := [][2]int{{0, 0}, {15, 15}, {31, 31}}
	for _, p := range testPixels {
		origR, origG, origB, origA := buf.GetRGBA(p[0], p[1])
		decR, decG, decB, decA := decoded.GetRGBA(p[0], p[1])
		if origR != decR || origG != decG || origB != decB || origA != decA {
			t.Errorf("Pixel (%d,%d): original=(%d,%d,%d,%d), decoded=(%d,%d,%d,%d)",
				p[0], p[1], origR, origG, origB, origA, decR, decG, decB, decA)
		}
	}
}

func TestLoadImageFromBytes(t *testing.T) {
	rgba := image.NewRGBA(image.Rect(0, 0, 10, 10))
	rgba.Set(5, 5, color.RGBA{R: 255, G: 0, B: 0, A: 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		t.Fatalf("Failed to create test PNG: %v", err)
	}

	loaded, err := LoadImageFromBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("LoadImageFromBytes failed: %v", err)
	}

	r, g, b, a := loaded.GetRGBA(5, 5)
	if r != 255 || g != 0 || b != 0 || a != 255 {
		t.Errorf("Pixel = (%d,%d,%d,%d), want (255,0,0,255)", r, g, b, a)
	}
}

func TestLoadImageFromBytes_Empty(t *testing.T) {
	_, err := LoadImageFromBytes(nil)
	if !errors.Is(err, ErrEmptyData) {
		t.Errorf("LoadImageFromBytes(nil) = %v, want ErrEmptyData", err)
	}

	_, err = LoadImageFromBytes([]byte{})
	if !errors.Is(err, ErrEmptyData) {
		t.Errorf("LoadImageFromBytes([]) = %v, want ErrEmptyData", err)
	}
}

func TestEncodeToBytes(t *testing.T) {
	buf, _ := NewImageBuf(10, 10, FormatRGBA8)
	buf.Fill(128, 128, 128, 255)

	data, err := buf.EncodeToBytes()
	if err != nil {
		t.Fatalf("EncodeToBytes failed: %v", err)
	}

	if len(data) == 0 {
		t.Error("EncodeToBytes returned empty data")
	}

	_, err = LoadImageFromBytes(data)
	if err != nil {
		t.Errorf("EncodeToBytes produced invalid PNG: %v", err)
	}
}

func TestSavePNG_LoadPNG(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "image_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	buf, _ := NewImageBuf(20, 20, FormatRGBA8)
	buf.Fill(255, 128, 64, 200)

	path := filepath.Join(tmpDir, "test.png")
	if err := buf.SavePNG(path); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("SavePNG didn't create file")
	}

	loaded, err := LoadPNG(path)
	if err != nil {
		t.Fatalf("LoadPNG failed: %v", err)
	}

	if loaded.Width() != 20 || loaded.Height() != 20 {
		t.Errorf("Loaded dimensions = (%d,%d), want (20,20)", loaded.Width(), loaded.Height())
	}

	r, g, b, a := loaded.GetRGBA(10, 10)
	if r != 255 || g != 128 || b != 64 || a != 200 {
		t.Errorf("Loaded pixel = (%d,%d,%d,%d), want (255,128,64,200)", r, g, b, a)
	}
}

func TestLoadPNG_NotFound(t *testing.T) {
	_, err := LoadPNG("/nonexistent/path/image.png")
	if err == nil {
		t.Error("LoadPNG should fail for non-existent file")
	}
}

func TestDecodePNG_InvalidData(t *testing.T) {
	_, err := DecodePNG(bytes.NewReader([]byte("not an image")))
	if err == nil {
		t.Error("DecodePNG should fail for invalid data")
	}
}

func BenchmarkFromStdImage_RGBA(b *testing.B) {
	rgba := image.NewRGBA(image.Rect(0, 0, 1920, 1080))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = FromStdImage(rgba)
	}
}

func BenchmarkToStdImage_RGBA8(b *testing.B) {
	buf, _ := NewImageBuf(1920, 1080, FormatRGBA8)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = buf.ToStdImage()
	}
}

func BenchmarkEncodePNG(b *testing.B) {
	buf, _ := NewImageBuf(256, 256, FormatRGBA8)
	buf.Fill(128, 128, 128, 255)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		var encoded bytes.Buffer
		_ = buf.EncodePNG(&encoded)
	}
}

func BenchmarkDecodePNG(b *testing.B) {
	buf, _ := NewImageBuf(256, 256, FormatRGBA8)
	buf.Fill(128, 128, 128, 255)

	var encoded bytes.Buffer
	_ = buf.EncodePNG(&encoded)
	data := encoded.Bytes()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = DecodePNG(bytes.NewReader(data))
	}
}
