package ktx

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/gogpu/texpack"
	"github.com/gogpu/texpack/pixelformat"
)

// WriteOptions controls WriteTo's output layout (spec §4.2 "writeTo(sink,
// { alignBlocks, supercompress })").
type WriteOptions struct {
	// Variant selects KTX1 or KTX2 output.
	Variant Variant

	// AlignBlocks pads each level's file offset up to the format's block
	// size. For KTX1 this also selects the "aligned" variant that
	// suppresses the per-level length prefix (spec §6). For KTX2 the
	// level offsets are aligned the same way unless Supercompress is
	// set; the level index records them either way.
	AlignBlocks bool

	// Supercompress enables per-level zlib compression for KTX2 output.
	// Ignored for KTX1 (spec §4.2: "enabled for KTX2").
	Supercompress bool
}

// WriteTo serializes c to w in the format selected by opts.
func (c *Container) WriteTo(w io.Writer, opts WriteOptions) error {
	const op = "ktx.Container.WriteTo"
	if c.state != stateFinalized {
		return texpack.NewError(op, texpack.KindInconsistentLevelTable,
			fmt.Errorf("container is not finalized"))
	}
	switch opts.Variant {
	case VariantKTX1:
		return c.writeKTX1(w, opts)
	case VariantKTX2:
		return c.writeKTX2(w, opts)
	default:
		return texpack.NewError(op, texpack.KindBadFlag, fmt.Errorf("unknown variant %v", opts.Variant))
	}
}

func (c *Container) writeKTX1(w io.Writer, opts WriteOptions) error {
	const op = "ktx.Container.WriteTo[KTX1]"
	fi, ok := pixelformat.Describe(c.header.Format)
	if !ok {
		return texpack.NewError(op, texpack.KindUnsupportedFormat, fmt.Errorf("format %v is not registered", c.header.Format))
	}
	glFormat, ok := pixelformat.GLFormatID(c.header.Format)
	if !ok {
		return texpack.NewError(op, texpack.KindUnmappedFormat, fmt.Errorf("format %v has no GL id", c.header.Format))
	}
	glType, glTypeSize, glBase, glBaseInternal := glTypeTriple(fi)

	if opts.AlignBlocks && fi.BlockCompressed {
		for _, lvl := range c.levels {
			if lvl.Width%fi.BlockW != 0 || lvl.Height%fi.BlockH != 0 {
				return texpack.NewError(op, texpack.KindDimensionNotBlockAligned,
					fmt.Errorf("level %dx%d is not aligned to %dx%d blocks", lvl.Width, lvl.Height, fi.BlockW, fi.BlockH))
			}
		}
	}

	kv := encodeKV(c.props)

	var buf bytes.Buffer
	buf.Write(ktx1Identifier[:])
	writeU32(&buf, ktx1EndiannessMarker)
	writeU32(&buf, glType)
	writeU32(&buf, glTypeSize)
	writeU32(&buf, glBase)
	writeU32(&buf, glFormat)
	writeU32(&buf, glBaseInternal)
	writeU32(&buf, uint32(c.header.Width))
	writeU32(&buf, uint32(c.header.Height))
	writeU32(&buf, uint32(depthFieldKTX1(c.header)))
	writeU32(&buf, uint32(c.header.ArrayLayers))
	writeU32(&buf, uint32(c.header.Faces))
	writeU32(&buf, uint32(len(c.levels)))
	writeU32(&buf, uint32(len(kv)))
	buf.Write(kv)

	for i := range c.levels {
		payload := c.payload[i]
		if opts.AlignBlocks {
			align := fi.BytesPerBlock
			if align < 1 {
				align = 1
			}
			for buf.Len()%align != 0 {
				buf.WriteByte(0)
			}
			buf.Write(payload)
		} else {
			writeU32(&buf, uint32(len(payload)))
			buf.Write(payload)
			for buf.Len()%4 != 0 {
				buf.WriteByte(0)
			}
		}
	}

	_, err := w.Write(buf.Bytes())
	if err != nil {
		return texpack.NewError(op, texpack.KindWriteFailed, err)
	}
	return nil
}

func depthFieldKTX1(h Header) int {
	if h.Type.Is3D() {
		return h.Depth
	}
	return 0
}

func (c *Container) writeKTX2(w io.Writer, opts WriteOptions) error {
	const op = "ktx.Container.WriteTo[KTX2]"
	vkFormat, ok := pixelformat.VulkanFormatID(c.header.Format)
	if !ok {
		return texpack.NewError(op, texpack.KindUnmappedFormat, fmt.Errorf("format %v has no Vulkan id", c.header.Format))
	}
	fi, ok := pixelformat.Describe(c.header.Format)
	if !ok {
		return texpack.NewError(op, texpack.KindUnsupportedFormat, fmt.Errorf("format %v is not registered", c.header.Format))
	}

	typeSize := uint32(1)
	if fi.Float {
		typeSize = 4
	}

	kv := encodeKV(c.props)

	levelPayloads := make([][]byte, len(c.levels))
	scheme := SupercompressionNone
	for i := range c.levels {
		raw := c.payload[i]
		if opts.Supercompress {
			var zbuf bytes.Buffer
			zw := zlib.NewWriter(&zbuf)
			if _, err := zw.Write(raw); err != nil {
				return texpack.NewError(op, texpack.KindWriteFailed, err)
			}
			if err := zw.Close(); err != nil {
				return texpack.NewError(op, texpack.KindWriteFailed, err)
			}
			levelPayloads[i] = zbuf.Bytes()
			scheme = SupercompressionZlib
		} else {
			levelPayloads[i] = raw
		}
	}

	headerSize := 12 + ktx2FixedFieldsSize
	indexSize := len(c.levels) * ktx2LevelIndexEntrySize
	dfdOffset := headerSize + indexSize
	dfdLength := 0
	kvdOffset := dfdOffset + dfdLength
	kvdLength := len(kv)
	// Supercompression global data would live here for schemes that need
	// one; texpack's zlib scheme needs none, so sgd is always empty and
	// payloads start immediately after the key/value block.
	sgdOffset := 0
	sgdLength := 0
	payloadStart := kvdOffset + kvdLength

	offsets := make([]int, len(levelPayloads))
	cursor := payloadStart
	for i, p := range levelPayloads {
		if opts.AlignBlocks && !opts.Supercompress {
			align := fi.BytesPerBlock
			if align < 1 {
				align = 1
			}
			for cursor%align != 0 {
				cursor++
			}
		}
		offsets[i] = cursor
		cursor += len(p)
	}

	var buf bytes.Buffer
	buf.Write(ktx2Identifier[:])
	writeU32(&buf, vkFormat)
	writeU32(&buf, typeSize)
	writeU32(&buf, uint32(c.header.Width))
	writeU32(&buf, uint32(c.header.Height))
	writeU32(&buf, uint32(depthFieldKTX1(c.header)))
	writeU32(&buf, uint32(c.header.ArrayLayers))
	writeU32(&buf, uint32(c.header.Faces))
	writeU32(&buf, uint32(len(c.levels)))
	writeU32(&buf, uint32(scheme))
	writeU32(&buf, uint32(dfdOffset))
	writeU32(&buf, uint32(dfdLength))
	writeU32(&buf, uint32(kvdOffset))
	writeU32(&buf, uint32(kvdLength))
	writeU64(&buf, uint64(sgdOffset))
	writeU64(&buf, uint64(sgdLength))

	for i, lvl := range c.levels {
		writeU64(&buf, uint64(offsets[i]))
		writeU64(&buf, uint64(len(levelPayloads[i])))
		writeU64(&buf, lvl.UncompressedByteLength)
	}

	buf.Write(kv)

	for i, p := range levelPayloads {
		for buf.Len() < offsets[i] {
			buf.WriteByte(0)
		}
		buf.Write(p)
	}

	_, err := w.Write(buf.Bytes())
	if err != nil {
		return texpack.NewError(op, texpack.KindWriteFailed, err)
	}
	return nil
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeU64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}
