package ktx

// Variant selects which on-disk container format WriteTo emits. A
// Container built from one variant can be written as the other — the
// in-memory model carries no variant tag of its own (spec §8 "KTX1↔KTX2
// container conversion").
type Variant uint8

const (
	VariantKTX1 Variant = iota
	VariantKTX2
)

func (v Variant) String() string {
	switch v {
	case VariantKTX1:
		return "KTX1"
	case VariantKTX2:
		return "KTX2"
	default:
		return "Variant(?)"
	}
}

// ktx1Identifier is the 12-byte KTX1 file signature: «KTX 11»\r\n\x1A\n.
var ktx1Identifier = [12]byte{0xAB, 'K', 'T', 'X', ' ', '1', '1', 0xBB, '\r', '\n', 0x1A, '\n'}

// ktx2Identifier is the 12-byte KTX2 file signature: «KTX 20»\r\n\x1A\n.
var ktx2Identifier = [12]byte{0xAB, 'K', 'T', 'X', ' ', '2', '0', 0xBB, '\r', '\n', 0x1A, '\n'}

// ktx1EndiannessMarker self-describes the byte order of the fields that
// follow it in a KTX1 header. texpack always writes little-endian; a
// file whose marker reads as the byte-swapped value has its header
// fields decoded big-endian; its key/value entries and classic level
// length prefixes are read little-endian.
const ktx1EndiannessMarker uint32 = 0x04030201
const ktx1EndiannessMarkerSwapped uint32 = 0x01020304

// SupercompressionNone and SupercompressionZlib are the supercompression
// scheme ids recorded in a KTX2 header (spec §6 "a supercompression
// scheme id"). texpack implements exactly one non-trivial scheme.
const (
	SupercompressionNone uint32 = 0
	SupercompressionZlib uint32 = 1
)

// ktx1HeaderSize is the fixed byte size of identifier + 13 uint32
// fields: 12 + 13*4 = 64, matching spec §8 scenario 1 ("64 (header)").
const ktx1HeaderSize = 12 + 13*4

// ktx2FixedFieldsSize is the byte size of the 9 uint32 dimension/format
// fields, the 4 uint32 DFD/KVD offset-length fields, and the 2 uint64
// SGD offset-length fields that follow the identifier in a KTX2 header.
// The level index table follows immediately after.
const ktx2FixedFieldsSize = 9*4 + 4*4 + 2*8
const ktx2LevelIndexEntrySize = 24 // 3 * uint64
