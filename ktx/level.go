package ktx

// Level is one mip level record (spec §3 "MipLevel"): pixel dimensions
// of the base chunk plus its location and size on disk. For KTX2,
// ByteLength may be smaller than UncompressedByteLength when the level
// is supercompressed.
type Level struct {
	Width  int
	Height int
	Depth  int

	FileOffset             uint64
	ByteLength             uint64
	UncompressedByteLength uint64
}
