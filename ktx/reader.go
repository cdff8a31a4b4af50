package ktx

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/gogpu/texpack"
	"github.com/gogpu/texpack/pixelformat"
)

// OpenForRead parses data as either a KTX1 or KTX2 file, validating the
// signature, header, key/value block, and level table (spec §4.2
// "openForRead"). The returned Container's payload slices alias data;
// the caller must keep data alive for as long as the Container is used.
func OpenForRead(data []byte) (*Container, error) {
	const op = "ktx.OpenForRead"
	if len(data) < 12 {
		return nil, texpack.NewError(op, texpack.KindBadSignature, fmt.Errorf("file is shorter than the 12-byte identifier"))
	}
	switch {
	case bytes.Equal(data[:12], ktx1Identifier[:]):
		return parseKTX1(data)
	case bytes.Equal(data[:12], ktx2Identifier[:]):
		return parseKTX2(data)
	default:
		return nil, texpack.NewError(op, texpack.KindBadSignature, fmt.Errorf("unrecognized 12-byte identifier"))
	}
}

func parseKTX1(data []byte) (*Container, error) {
	const op = "ktx.OpenForRead[KTX1]"
	if len(data) < ktx1HeaderSize {
		return nil, texpack.NewError(op, texpack.KindTruncatedHeader,
			fmt.Errorf("file is %d bytes, shorter than the %d-byte KTX1 header", len(data), ktx1HeaderSize))
	}

	order, err := ktx1ByteOrder(data[12:16])
	if err != nil {
		return nil, err
	}

	fields := make([]uint32, 12)
	for i := range fields {
		off := 16 + i*4
		fields[i] = order.Uint32(data[off : off+4])
	}
	glType := fields[0]
	glInternalFormat := fields[3]
	width := int(fields[5])
	height := int(fields[6])
	depth := int(fields[7])
	arrayLayers := int(fields[8])
	faces := int(fields[9])
	numLevels := int(fields[10])
	kvLen := int(fields[11])

	format, ok := pixelformat.FormatFromGLID(glInternalFormat)
	if !ok {
		return nil, texpack.NewError(op, texpack.KindUnsupportedFormat,
			fmt.Errorf("glInternalFormat 0x%x has no registered format", glInternalFormat))
	}
	if fi, ok := pixelformat.Describe(format); ok {
		wantCompressed := fi.BlockCompressed
		gotCompressed := glType == 0
		if wantCompressed != gotCompressed {
			return nil, texpack.NewError(op, texpack.KindBadSignature,
				fmt.Errorf("glType=0x%x inconsistent with %v's block-compressed flag", glType, format))
		}
	}

	kvStart := ktx1HeaderSize
	if kvStart+kvLen > len(data) {
		return nil, texpack.NewError(op, texpack.KindTruncatedHeader, fmt.Errorf("key/value block exceeds file length"))
	}
	props, err := decodeKV(data[kvStart : kvStart+kvLen])
	if err != nil {
		return nil, err
	}

	texType := inferTextureType(faces, arrayLayers, depth)
	header := Header{
		Format: format, Type: texType,
		Width: width, Height: height, Depth: depth,
		ArrayLayers: arrayLayers, Faces: faces,
	}.normalized()

	fi, _ := pixelformat.Describe(format)
	chunkCount := header.chunkCount()
	rest := data[kvStart+kvLen:]

	levels, payloads, ok := parseKTX1LevelsClassic(rest, numLevels, header, fi, chunkCount)
	if ok {
		if _, _, alsoAligned := parseKTX1LevelsAligned(rest, numLevels, header, fi, chunkCount); alsoAligned {
			texpack.Logger().Warn("ambiguous KTX1 level layout, reading it as classic", "levels", numLevels)
		}
	}
	if !ok {
		levels, payloads, ok = parseKTX1LevelsAligned(rest, numLevels, header, fi, chunkCount)
	}
	if !ok {
		return nil, texpack.NewError(op, texpack.KindInconsistentLevelTable,
			fmt.Errorf("level table is consistent with neither the classic nor the aligned KTX1 layout"))
	}

	return &Container{
		state:   stateFinalized,
		header:  header,
		props:   props,
		levels:  levels,
		payload: payloads,
	}, nil
}

// parseKTX1LevelsClassic walks rest assuming each level is prefixed with
// a 4-byte length, padded to a 4-byte boundary. ok is false if the
// prefixed lengths don't exactly consume rest.
func parseKTX1LevelsClassic(rest []byte, numLevels int, header Header, fi pixelformat.FormatInfo, chunkCount int) ([]Level, [][]byte, bool) {
	levels := make([]Level, 0, numLevels)
	payloads := make([][]byte, 0, numLevels)
	off := 0
	for i := 0; i < numLevels; i++ {
		if off+4 > len(rest) {
			return nil, nil, false
		}
		length := int(binary.LittleEndian.Uint32(rest[off : off+4]))
		off += 4
		if length < 0 || off+length > len(rest) {
			return nil, nil, false
		}
		w, h, d := levelDims(i, header.Width, header.Height, header.Depth)
		want := fi.LevelSize(w, h) * chunkCount
		if length != want {
			return nil, nil, false
		}
		payload := rest[off : off+length]
		off += length
		for off%4 != 0 {
			if off >= len(rest) {
				break
			}
			off++
		}
		levels = append(levels, Level{Width: w, Height: h, Depth: d, ByteLength: uint64(length), UncompressedByteLength: uint64(length)})
		payloads = append(payloads, payload)
	}
	if off != len(rest) {
		return nil, nil, false
	}
	return levels, payloads, true
}

// parseKTX1LevelsAligned walks rest assuming no length prefixes and each
// level's offset aligned to the format's block byte size.
func parseKTX1LevelsAligned(rest []byte, numLevels int, header Header, fi pixelformat.FormatInfo, chunkCount int) ([]Level, [][]byte, bool) {
	align := fi.BytesPerBlock
	if align < 1 {
		align = 1
	}
	levels := make([]Level, 0, numLevels)
	payloads := make([][]byte, 0, numLevels)
	off := 0
	for i := 0; i < numLevels; i++ {
		for off%align != 0 {
			off++
		}
		w, h, d := levelDims(i, header.Width, header.Height, header.Depth)
		length := fi.LevelSize(w, h) * chunkCount
		if off+length > len(rest) {
			return nil, nil, false
		}
		payload := rest[off : off+length]
		off += length
		levels = append(levels, Level{Width: w, Height: h, Depth: d, ByteLength: uint64(length), UncompressedByteLength: uint64(length)})
		payloads = append(payloads, payload)
	}
	if off != len(rest) {
		return nil, nil, false
	}
	return levels, payloads, true
}

func inferTextureType(faces, arrayLayers, depth int) pixelformat.TextureType {
	switch {
	case faces == 6 && arrayLayers > 0:
		return pixelformat.TypeCubeArray
	case faces == 6:
		return pixelformat.TypeCube
	case depth > 1:
		return pixelformat.Type3D
	case arrayLayers > 0:
		return pixelformat.Type2DArray
	default:
		return pixelformat.Type2D
	}
}

func ktx1ByteOrder(marker []byte) (binary.ByteOrder, error) {
	const op = "ktx.OpenForRead[KTX1]"
	le := binary.LittleEndian.Uint32(marker)
	switch le {
	case ktx1EndiannessMarker:
		return binary.LittleEndian, nil
	case ktx1EndiannessMarkerSwapped:
		return binary.BigEndian, nil
	default:
		return nil, texpack.NewError(op, texpack.KindBadSignature, fmt.Errorf("unrecognized endianness marker 0x%08x", le))
	}
}

func parseKTX2(data []byte) (*Container, error) {
	const op = "ktx.OpenForRead[KTX2]"
	headerEnd := 12 + ktx2FixedFieldsSize
	if len(data) < headerEnd {
		return nil, texpack.NewError(op, texpack.KindTruncatedHeader,
			fmt.Errorf("file is %d bytes, shorter than the %d-byte KTX2 fixed header", len(data), headerEnd))
	}

	r := data[12:headerEnd]
	vkFormat := binary.LittleEndian.Uint32(r[0:4])
	width := int(binary.LittleEndian.Uint32(r[8:12]))
	height := int(binary.LittleEndian.Uint32(r[12:16]))
	depth := int(binary.LittleEndian.Uint32(r[16:20]))
	layerCount := int(binary.LittleEndian.Uint32(r[20:24]))
	faceCount := int(binary.LittleEndian.Uint32(r[24:28]))
	levelCount := int(binary.LittleEndian.Uint32(r[28:32]))
	scheme := binary.LittleEndian.Uint32(r[32:36])
	kvdOffset := int(binary.LittleEndian.Uint32(r[44:48]))
	kvdLength := int(binary.LittleEndian.Uint32(r[48:52]))

	format, ok := pixelformat.FormatFromVulkanID(vkFormat)
	if !ok {
		return nil, texpack.NewError(op, texpack.KindUnsupportedFormat,
			fmt.Errorf("vkFormat %d has no registered format", vkFormat))
	}
	if levelCount < 1 {
		return nil, texpack.NewError(op, texpack.KindInconsistentLevelTable, fmt.Errorf("levelCount must be >= 1"))
	}

	indexStart := headerEnd
	indexEnd := indexStart + levelCount*ktx2LevelIndexEntrySize
	if indexEnd > len(data) {
		return nil, texpack.NewError(op, texpack.KindTruncatedHeader, fmt.Errorf("level index exceeds file length"))
	}

	if kvdOffset < 0 || kvdOffset+kvdLength > len(data) {
		return nil, texpack.NewError(op, texpack.KindTruncatedHeader, fmt.Errorf("key/value block exceeds file length"))
	}
	var props *Props
	var err error
	if kvdLength > 0 {
		props, err = decodeKV(data[kvdOffset : kvdOffset+kvdLength])
		if err != nil {
			return nil, err
		}
	} else {
		props = NewProps()
	}

	texType := inferTextureType(faceCount, layerCount, depth)
	header := Header{
		Format: format, Type: texType,
		Width: width, Height: height, Depth: depth,
		ArrayLayers: layerCount, Faces: faceCount,
	}.normalized()

	levels := make([]Level, 0, levelCount)
	payloads := make([][]byte, 0, levelCount)
	for i := 0; i < levelCount; i++ {
		entry := data[indexStart+i*ktx2LevelIndexEntrySize : indexStart+(i+1)*ktx2LevelIndexEntrySize]
		byteOffset := binary.LittleEndian.Uint64(entry[0:8])
		byteLength := binary.LittleEndian.Uint64(entry[8:16])
		uncompressedLength := binary.LittleEndian.Uint64(entry[16:24])

		if byteOffset+byteLength > uint64(len(data)) {
			return nil, texpack.NewError(op, texpack.KindInconsistentLevelTable,
				fmt.Errorf("level %d payload range [%d,%d) exceeds file length %d", i, byteOffset, byteOffset+byteLength, len(data)))
		}
		w, h, d := levelDims(i, header.Width, header.Height, header.Depth)
		levels = append(levels, Level{
			Width: w, Height: h, Depth: d,
			FileOffset: byteOffset, ByteLength: byteLength, UncompressedByteLength: uncompressedLength,
		})
		payloads = append(payloads, data[byteOffset:byteOffset+byteLength])
	}

	return &Container{
		state:           stateFinalized,
		header:          header,
		props:           props,
		levels:          levels,
		payload:         payloads,
		supercompressed: scheme == SupercompressionZlib,
	}, nil
}
