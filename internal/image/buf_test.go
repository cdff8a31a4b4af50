package image

import (
	"errors"
	"testing"

	"github.com/gogpu/texpack/internal/color"
)

func TestNewImageBuf(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		height  int
		format  Format
		wantErr error
	}{
		{"valid RGBA8", 100, 100, FormatRGBA8, nil},
		{"valid RGBA32F", 50, 50, FormatRGBA32F, nil},
		{"1x1 minimum", 1, 1, FormatRGBA8, nil},
		{"zero width", 0, 100, FormatRGBA8, ErrInvalidDimensions},
		{"zero height", 100, 0, FormatRGBA8, ErrInvalidDimensions},
		{"negative width", -1, 100, FormatRGBA8, ErrInvalidDimensions},
		{"negative height", 100, -1, FormatRGBA8, ErrInvalidDimensions},
		{"invalid format", 100, 100, Format(255), ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := NewImageBuf(tt.width, tt.height, tt.format)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewImageBuf() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil {
				return
			}
			if buf.Width() != tt.width || buf.Height() != tt.height {
				t.Errorf("dims = (%d,%d), want (%d,%d)", buf.Width(), buf.Height(), tt.width, tt.height)
			}
			if buf.Format() != tt.format {
				t.Errorf("Format() = %v, want %v", buf.Format(), tt.format)
			}
			if buf.ByteSize() != tt.format.ImageBytes(tt.width, tt.height) {
				t.Errorf("ByteSize() = %d, want %d", buf.ByteSize(), tt.format.ImageBytes(tt.width, tt.height))
			}
		})
	}
}

func TestNewImageBufWithStride(t *testing.T) {
	tests := []struct {
		name    string
		stride  int
		wantErr error
	}{
		{"valid aligned stride", 512, nil},
		{"minimum stride", 400, nil},
		{"stride too small", 300, ErrInvalidStride},
		{"zero stride", 0, ErrInvalidStride},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := NewImageBufWithStride(100, 100, FormatRGBA8, tt.stride)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err == nil && buf.Stride() != tt.stride {
				t.Errorf("Stride() = %d, want %d", buf.Stride(), tt.stride)
			}
		})
	}
}

func TestNewImageBufWithStride_RejectsFloat(t *testing.T) {
	if _, err := NewImageBufWithStride(10, 10, FormatRGBA32F, 200); err == nil {
		t.Error("expected error for float format with custom stride")
	}
}

func TestFromRaw(t *testing.T) {
	width, height := 10, 10
	format := FormatRGBA8
	stride := format.RowBytes(width)
	validData := make([]byte, stride*height)

	tests := []struct {
		name    string
		data    []byte
		stride  int
		wantErr error
	}{
		{"valid data", validData, 40, nil},
		{"data too small", make([]byte, 10), 40, ErrDataTooSmall},
		{"stride too small", validData, 20, ErrInvalidStride},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := FromRaw(tt.data, width, height, format, tt.stride)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("FromRaw() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err == nil && buf == nil {
				t.Error("FromRaw() returned nil without error")
			}
		})
	}
}

func TestImageBuf_Clone(t *testing.T) {
	original, _ := NewImageBuf(10, 10, FormatRGBA8)
	_ = original.SetRGBA(5, 5, 255, 128, 64, 200)

	clone := original.Clone()
	if clone.Width() != original.Width() || clone.Height() != original.Height() {
		t.Error("Clone dimensions don't match")
	}
	if &clone.Data()[0] == &original.Data()[0] {
		t.Error("Clone shares data with original")
	}

	r1, g1, b1, a1 := original.GetRGBA(5, 5)
	r2, g2, b2, a2 := clone.GetRGBA(5, 5)
	if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
		t.Error("Clone pixel data doesn't match original")
	}

	_ = clone.SetRGBA(5, 5, 0, 0, 0, 0)
	r1, g1, b1, a1 = original.GetRGBA(5, 5)
	if r1 != 255 || g1 != 128 || b1 != 64 || a1 != 200 {
		t.Error("Modifying clone affected original")
	}
}

func TestImageBuf_CloneFloat(t *testing.T) {
	original, _ := NewImageBuf(4, 4, FormatRGBA32F)
	_ = original.SetRGBAF(1, 1, 2.5, -0.1, 0.5, 1.0)

	clone := original.Clone()
	r, g, b, a := clone.GetRGBAF(1, 1)
	if r != 2.5 || g != -0.1 || b != 0.5 || a != 1.0 {
		t.Errorf("clone float mismatch: (%v,%v,%v,%v)", r, g, b, a)
	}
	_ = clone.SetRGBAF(1, 1, 0, 0, 0, 0)
	r, _, _, _ = original.GetRGBAF(1, 1)
	if r != 2.5 {
		t.Error("modifying float clone affected original")
	}
}

func TestImageBuf_Bounds(t *testing.T) {
	buf, _ := NewImageBuf(100, 50, FormatRGBA8)
	w, h := buf.Bounds()
	if w != 100 || h != 50 {
		t.Errorf("Bounds() = (%d, %d), want (100, 50)", w, h)
	}
}

func TestImageBuf_RowBytes(t *testing.T) {
	buf, _ := NewImageBuf(10, 10, FormatRGBA8)
	row := buf.RowBytes(5)
	if len(row) != 40 {
		t.Errorf("RowBytes(5) length = %d, want 40", len(row))
	}
	if buf.RowBytes(-1) != nil || buf.RowBytes(10) != nil {
		t.Error("RowBytes out of bounds should return nil")
	}
}

func TestImageBuf_PixelOffset(t *testing.T) {
	buf, _ := NewImageBuf(10, 10, FormatRGBA8)
	tests := []struct {
		x, y   int
		expect int
	}{
		{0, 0, 0},
		{1, 0, 4},
		{0, 1, 40},
		{5, 5, 220},
		{-1, 0, -1},
		{10, 0, -1},
	}
	for _, tt := range tests {
		if offset := buf.PixelOffset(tt.x, tt.y); offset != tt.expect {
			t.Errorf("PixelOffset(%d, %d) = %d, want %d", tt.x, tt.y, offset, tt.expect)
		}
	}
}

func TestImageBuf_GetSetRGBA_RGBA8(t *testing.T) {
	buf, _ := NewImageBuf(10, 10, FormatRGBA8)
	if err := buf.SetRGBA(5, 5, 200, 150, 100, 50); err != nil {
		t.Fatalf("SetRGBA failed: %v", err)
	}
	r, g, b, a := buf.GetRGBA(5, 5)
	if r != 200 || g != 150 || b != 100 || a != 50 {
		t.Errorf("GetRGBA = (%d, %d, %d, %d), want (200, 150, 100, 50)", r, g, b, a)
	}
	if err := buf.SetRGBA(-1, 0, 0, 0, 0, 0); !errors.Is(err, ErrOutOfBounds) {
		t.Error("SetRGBA with invalid coords should return ErrOutOfBounds")
	}
	r, g, b, a = buf.GetRGBA(-1, 0)
	if r != 0 || g != 0 || b != 0 || a != 0 {
		t.Error("GetRGBA with invalid coords should return (0,0,0,0)")
	}
}

func TestImageBuf_GetSetRGBAF(t *testing.T) {
	buf, _ := NewImageBuf(4, 4, FormatRGBA32F)
	if err := buf.SetRGBAF(1, 2, 1.5, 0.25, -0.3, 1.0); err != nil {
		t.Fatalf("SetRGBAF failed: %v", err)
	}
	r, g, b, a := buf.GetRGBAF(1, 2)
	if r != 1.5 || g != 0.25 || b != -0.3 || a != 1.0 {
		t.Errorf("GetRGBAF = (%v,%v,%v,%v)", r, g, b, a)
	}
}

func TestImageBuf_GetRGBA_ClampsFloatToByte(t *testing.T) {
	buf, _ := NewImageBuf(2, 2, FormatRGBA32F)
	_ = buf.SetRGBAF(0, 0, 2.0, -1.0, 0.5, 1.0)
	r, g, b, _ := buf.GetRGBA(0, 0)
	if r != 255 || g != 0 {
		t.Errorf("expected clamped (255,0,..), got (%d,%d,%d)", r, g, b)
	}
}

func TestImageBuf_DataPanicsOnWrongFormat(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic calling Data() on float buffer")
		}
	}()
	buf, _ := NewImageBuf(2, 2, FormatRGBA32F)
	_ = buf.Data()
}

func TestImageBuf_DataFPanicsOnWrongFormat(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic calling DataF() on byte buffer")
		}
	}()
	buf, _ := NewImageBuf(2, 2, FormatRGBA8)
	_ = buf.DataF()
}

func TestImageBuf_Clear(t *testing.T) {
	buf, _ := NewImageBuf(10, 10, FormatRGBA8)
	buf.Fill(255, 255, 255, 255)
	buf.Clear()
	for i := range buf.Data() {
		if buf.Data()[i] != 0 {
			t.Fatalf("Clear() didn't zero byte at index %d", i)
		}
	}
}

func TestImageBuf_Fill(t *testing.T) {
	buf, _ := NewImageBuf(5, 5, FormatRGBA8)
	buf.Fill(100, 150, 200, 250)
	for y := range 5 {
		for x := range 5 {
			r, g, b, a := buf.GetRGBA(x, y)
			if r != 100 || g != 150 || b != 200 || a != 250 {
				t.Errorf("Fill: pixel (%d,%d) = (%d,%d,%d,%d)", x, y, r, g, b, a)
			}
		}
	}
}

func TestImageBuf_PremultipliedData_RGBA8(t *testing.T) {
	buf, _ := NewImageBuf(2, 2, FormatRGBA8)
	_ = buf.SetRGBA(0, 0, 200, 100, 50, 128)

	premul := buf.PremultipliedData()
	if &premul[0] == &buf.Data()[0] {
		t.Error("PremultipliedData should return different slice")
	}

	expectedR := uint8((200*128 + 127) / 255)
	expectedG := uint8((100*128 + 127) / 255)
	expectedB := uint8((50*128 + 127) / 255)
	if premul[0] != expectedR || premul[1] != expectedG || premul[2] != expectedB || premul[3] != 128 {
		t.Errorf("Premul = (%d,%d,%d,%d)", premul[0], premul[1], premul[2], premul[3])
	}
}

func TestImageBuf_PremultipliedData_PanicsOnFloat(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	buf, _ := NewImageBuf(2, 2, FormatRGBA32F)
	_ = buf.PremultipliedData()
}

func TestImageBuf_PremulCache(t *testing.T) {
	buf, _ := NewImageBuf(10, 10, FormatRGBA8)
	_ = buf.SetRGBA(0, 0, 200, 100, 50, 128)

	if buf.IsPremulCached() {
		t.Error("Premul should not be cached initially")
	}
	_ = buf.PremultipliedData()
	if !buf.IsPremulCached() {
		t.Error("Premul should be cached after PremultipliedData()")
	}
	buf.InvalidatePremulCache()
	if buf.IsPremulCached() {
		t.Error("Premul should not be cached after InvalidatePremulCache()")
	}
}

func TestImageBuf_SubImage(t *testing.T) {
	buf, _ := NewImageBuf(10, 10, FormatRGBA8)
	for y := range 10 {
		for x := range 10 {
			_ = buf.SetRGBA(x, y, uint8(x*25), uint8(y*25), 0, 255)
		}
	}

	sub := buf.SubImage(2, 2, 5, 5)
	if sub == nil {
		t.Fatal("SubImage returned nil")
	}
	if sub.Width() != 5 || sub.Height() != 5 {
		t.Errorf("SubImage dimensions = (%d, %d), want (5, 5)", sub.Width(), sub.Height())
	}
	r, g, _, _ := sub.GetRGBA(0, 0)
	if r != 50 || g != 50 {
		t.Errorf("SubImage pixel (0,0) = (%d, %d), want (50, 50)", r, g)
	}

	_ = sub.SetRGBA(0, 0, 255, 255, 255, 255)
	r, g, b, a := buf.GetRGBA(2, 2)
	if r != 255 || g != 255 || b != 255 || a != 255 {
		t.Error("SubImage modification didn't affect original")
	}
}

func TestImageBuf_SubImage_Float_Independent(t *testing.T) {
	buf, _ := NewImageBuf(4, 4, FormatRGBA32F)
	_ = buf.SetRGBAF(1, 1, 0.5, 0.5, 0.5, 1)
	sub := buf.SubImage(0, 0, 2, 2)
	_ = sub.SetRGBAF(1, 1, 9, 9, 9, 9)
	r, _, _, _ := buf.GetRGBAF(1, 1)
	if r != 0.5 {
		t.Error("float SubImage should be an independent copy")
	}
}

func TestImageBuf_SubImage_Invalid(t *testing.T) {
	buf, _ := NewImageBuf(10, 10, FormatRGBA8)
	tests := []struct {
		name                string
		x, y, width, height int
	}{
		{"negative x", -1, 0, 5, 5},
		{"negative y", 0, -1, 5, 5},
		{"zero width", 0, 0, 0, 5},
		{"zero height", 0, 0, 5, 0},
		{"exceeds right", 8, 0, 5, 5},
		{"exceeds bottom", 0, 8, 5, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if sub := buf.SubImage(tt.x, tt.y, tt.width, tt.height); sub != nil {
				t.Errorf("SubImage(%d, %d, %d, %d) should return nil", tt.x, tt.y, tt.width, tt.height)
			}
		})
	}
}

func TestImageBuf_ByteSize(t *testing.T) {
	buf, _ := NewImageBuf(100, 100, FormatRGBA8)
	if buf.ByteSize() != 100*100*4 {
		t.Errorf("ByteSize() = %d, want %d", buf.ByteSize(), 100*100*4)
	}
	bufF, _ := NewImageBuf(100, 100, FormatRGBA32F)
	if bufF.ByteSize() != 100*100*16 {
		t.Errorf("ByteSize() = %d, want %d", bufF.ByteSize(), 100*100*16)
	}
}

func TestImageBuf_IsEmpty(t *testing.T) {
	buf, _ := NewImageBuf(10, 10, FormatRGBA8)
	if buf.IsEmpty() {
		t.Error("10x10 image should not be empty")
	}
}

func TestImageBuf_SetPixelBytes(t *testing.T) {
	buf, _ := NewImageBuf(10, 10, FormatRGBA8)
	pixel := []byte{100, 150, 200, 250}
	if err := buf.SetPixelBytes(5, 5, pixel); err != nil {
		t.Fatalf("SetPixelBytes failed: %v", err)
	}
	got := buf.PixelBytes(5, 5)
	for i, v := range got {
		if v != pixel[i] {
			t.Errorf("SetPixelBytes: byte %d = %d, want %d", i, v, pixel[i])
		}
	}
	if err := buf.SetPixelBytes(-1, 0, pixel); !errors.Is(err, ErrOutOfBounds) {
		t.Error("SetPixelBytes with invalid coords should return ErrOutOfBounds")
	}
}

func TestImageBuf_ColorSpaceTag(t *testing.T) {
	buf, _ := NewImageBuf(2, 2, FormatRGBA8)
	if buf.ColorSpace() != color.ColorSpaceSRGB {
		t.Error("new buffers should default to sRGB")
	}
	buf.SetColorSpace(color.ColorSpaceLinear)
	if buf.ColorSpace() != color.ColorSpaceLinear {
		t.Error("SetColorSpace did not retag the buffer")
	}
}

func BenchmarkNewImageBuf(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = NewImageBuf(1920, 1080, FormatRGBA8)
	}
}

func BenchmarkImageBuf_GetRGBA(b *testing.B) {
	buf, _ := NewImageBuf(1920, 1080, FormatRGBA8)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _, _ = buf.GetRGBA(i%1920, (i/1920)%1080)
	}
}

func BenchmarkImageBuf_SetRGBA(b *testing.B) {
	buf, _ := NewImageBuf(1920, 1080, FormatRGBA8)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = buf.SetRGBA(i%1920, (i/1920)%1080, 128, 128, 128, 255)
	}
}

func BenchmarkImageBuf_PremultipliedData(b *testing.B) {
	buf, _ := NewImageBuf(1920, 1080, FormatRGBA8)
	buf.Fill(200, 100, 50, 128)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.InvalidatePremulCache()
		_ = buf.PremultipliedData()
	}
}

func BenchmarkImageBuf_Clone(b *testing.B) {
	buf, _ := NewImageBuf(1920, 1080, FormatRGBA8)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = buf.Clone()
	}
}
