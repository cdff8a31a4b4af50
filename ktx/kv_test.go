package ktx

import "testing"

func TestEncodeDecodeKV_RoundTrip(t *testing.T) {
	p := NewProps()
	_ = p.Set("KTXorientation", "rd")
	_ = p.Set("provenance", "texpack encode")

	encoded := encodeKV(p)
	if len(encoded)%4 != 0 {
		t.Errorf("encodeKV output length %d is not 4-byte aligned", len(encoded))
	}

	decoded, err := decodeKV(encoded)
	if err != nil {
		t.Fatalf("decodeKV: %v", err)
	}
	if decoded.Len() != p.Len() {
		t.Fatalf("decoded.Len() = %d, want %d", decoded.Len(), p.Len())
	}
	for _, k := range p.Keys() {
		want, _ := p.Get(k)
		got, ok := decoded.Get(k)
		if !ok || got != want {
			t.Errorf("decoded[%q] = (%q, %v), want (%q, true)", k, got, ok, want)
		}
	}
}

func TestDecodeKV_TruncatedLength(t *testing.T) {
	_, err := decodeKV([]byte{1, 2, 3})
	if err == nil {
		t.Error("decodeKV(truncated length): want error, got nil")
	}
}

func TestDecodeKV_EntryExceedsBlock(t *testing.T) {
	data := []byte{0xFF, 0xFF, 0x00, 0x00} // length = 65535, no entry bytes follow
	_, err := decodeKV(data)
	if err == nil {
		t.Error("decodeKV(oversized entry): want error, got nil")
	}
}

func TestDecodeKV_DuplicateKeyRejected(t *testing.T) {
	p := NewProps()
	_ = p.Set("k", "v1")
	encoded := encodeKV(p)

	p2 := NewProps()
	_ = p2.Set("k", "v2")
	encoded = append(encoded, encodeKV(p2)...)

	_, err := decodeKV(encoded)
	if err == nil {
		t.Error("decodeKV(duplicate key across two entries): want error, got nil")
	}
}
