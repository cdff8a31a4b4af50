// Package imagebuffer implements the ImageBuffer data model (spec §3,
// §4.3): a chunked, single-storage-kind pixel buffer loaded from a
// contiguous RGBA8 source or from a decoded container level, and the
// preprocessing operations the pipeline runs on it before encoding.
package imagebuffer

import (
	"fmt"
	"math"

	"github.com/gogpu/texpack"
	"github.com/gogpu/texpack/internal/blockcodec"
	"github.com/gogpu/texpack/internal/color"
	internalimage "github.com/gogpu/texpack/internal/image"
	"github.com/gogpu/texpack/ktx"
	"github.com/gogpu/texpack/pixelformat"
)

// Storage identifies an ImageBuffer's in-memory pixel representation.
// There are exactly two: RGBA8 is cheap and sRGB-encoded unless
// linearized; RGBA32F is the HDR/precision working format.
type Storage = internalimage.Format

const (
	StorageRGBA8   = internalimage.FormatRGBA8
	StorageRGBA32F = internalimage.FormatRGBA32F
)

// ImageBuffer is a width x height image with chunks independent 2D
// surfaces, all sharing one Storage kind (spec §3 "ImageBuffer"). Each
// chunk is one face/array-layer/depth-slice of a single mip level.
type ImageBuffer struct {
	width, height int
	chunks        []*internalimage.ImageBuf
	storage       Storage

	hasColor, hasAlpha bool
	premultiplied      bool
}

// New allocates an empty (zero-filled) ImageBuffer of the given
// dimensions, chunk count, and storage kind.
func New(width, height, chunkCount int, storage Storage) (*ImageBuffer, error) {
	const op = "imagebuffer.New"
	if width <= 0 || height <= 0 || chunkCount <= 0 {
		return nil, texpack.NewError(op, texpack.KindBadFlag, fmt.Errorf("invalid dimensions %dx%d x%d chunks", width, height, chunkCount))
	}
	chunks := make([]*internalimage.ImageBuf, chunkCount)
	for i := range chunks {
		buf, err := internalimage.NewImageBuf(width, height, storage)
		if err != nil {
			return nil, texpack.NewError(op, texpack.KindOutOfMemory, err)
		}
		chunks[i] = buf
	}
	return &ImageBuffer{width: width, height: height, chunks: chunks, storage: storage}, nil
}

// LoadFromRGBA8 takes ownership of a contiguous RGBA8 buffer, ordered
// chunk then row (spec §4.3 "loadFromRGBA8"). hasColor/hasAlpha are
// content hints carried through for the encoder's ContentFlags; they do
// not affect storage layout.
func LoadFromRGBA8(pixels []byte, w, h int, hasColor, hasAlpha bool, chunks int) (*ImageBuffer, error) {
	const op = "imagebuffer.LoadFromRGBA8"
	if chunks <= 0 {
		chunks = 1
	}
	if w <= 0 || h <= 0 {
		return nil, texpack.NewError(op, texpack.KindBadFlag, fmt.Errorf("invalid dimensions %dx%d", w, h))
	}
	stride := w * 4
	chunkBytes := stride * h
	want := chunkBytes * chunks
	if len(pixels) != want {
		return nil, texpack.NewError(op, texpack.KindBadFlag,
			fmt.Errorf("pixel buffer is %d bytes, want %d for %dx%d x%d chunks RGBA8", len(pixels), want, w, h, chunks))
	}

	bufs := make([]*internalimage.ImageBuf, chunks)
	for i := range bufs {
		start := i * chunkBytes
		buf, err := internalimage.FromRaw(pixels[start:start+chunkBytes], w, h, internalimage.FormatRGBA8, stride)
		if err != nil {
			return nil, texpack.NewError(op, texpack.KindOutOfMemory, err)
		}
		bufs[i] = buf
	}
	return &ImageBuffer{
		width: w, height: h, chunks: bufs, storage: internalimage.FormatRGBA8,
		hasColor: hasColor, hasAlpha: hasAlpha,
	}, nil
}

// LoadFromContainer constructs an ImageBuffer from one decodable mip
// level of c (spec §4.3 "loadFromContainer"). Block-compressed HDR
// formats (BC6H, ASTC HDR) fail with UnsupportedDecode, since texpack's
// own encoders are the only producers of those bitstreams and carry no
// general decoder for them; every other registered format (explicit,
// and the LDR block families this module's encoders also emit) decodes.
func LoadFromContainer(c *ktx.Container, level int) (*ImageBuffer, error) {
	const op = "imagebuffer.LoadFromContainer"
	header := c.Header()
	fi, ok := pixelformat.Describe(header.Format)
	if !ok {
		return nil, texpack.NewError(op, texpack.KindUnsupportedFormat, fmt.Errorf("format %v is not registered", header.Format))
	}
	if fi.HDR && fi.BlockCompressed {
		return nil, texpack.NewError(op, texpack.KindUnsupportedDecode,
			fmt.Errorf("%s: no decoder for block-compressed HDR formats", fi.Name))
	}

	lvl := c.Level(level)
	if lvl.Width == 0 && lvl.Height == 0 {
		return nil, texpack.NewError(op, texpack.KindInconsistentLevelTable, fmt.Errorf("level %d not present", level))
	}

	faces := header.Faces
	if faces == 0 {
		faces = 1
	}
	chunkCount := pixelformat.ChunkCount(faces, header.ArrayLayers, header.Depth)
	if chunkCount == 0 {
		chunkCount = 1
	}

	storage := internalimage.FormatRGBA8
	if fi.Float {
		storage = internalimage.FormatRGBA32F
	}

	chunks := make([]*internalimage.ImageBuf, chunkCount)
	for i := range chunks {
		raw, err := c.LevelBytes(level, i)
		if err != nil {
			return nil, err
		}
		var buf *internalimage.ImageBuf
		if fi.BlockCompressed {
			buf, err = decodeBlockChunk(raw, fi, lvl.Width, lvl.Height)
		} else {
			buf, err = decodeExplicitChunk(raw, fi, lvl.Width, lvl.Height)
		}
		if err != nil {
			return nil, err
		}
		if fi.SRGB {
			buf.SetColorSpace(color.ColorSpaceSRGB)
		} else {
			buf.SetColorSpace(color.ColorSpaceLinear)
		}
		chunks[i] = buf
	}

	return &ImageBuffer{
		width: lvl.Width, height: lvl.Height, chunks: chunks, storage: storage,
		hasColor: fi.Channels >= 1, hasAlpha: fi.Channels == 2 || fi.Channels == 4,
	}, nil
}

// decodeBlockChunk decodes one chunk's worth of block-compressed bytes
// (raw, in row-major block order) into an RGBA8 ImageBuf.
func decodeBlockChunk(raw []byte, fi pixelformat.FormatInfo, w, h int) (*internalimage.ImageBuf, error) {
	const op = "imagebuffer.decodeBlockChunk"
	buf, err := internalimage.NewImageBuf(w, h, internalimage.FormatRGBA8)
	if err != nil {
		return nil, texpack.NewError(op, texpack.KindOutOfMemory, err)
	}

	blocksX := (w + fi.BlockW - 1) / fi.BlockW
	blocksY := (h + fi.BlockH - 1) / fi.BlockH
	pos := 0

	for by := 0; by < blocksY; by++ {
		for bx := 0; bx < blocksX; bx++ {
			if pos+fi.BytesPerBlock > len(raw) {
				return nil, texpack.NewError(op, texpack.KindInconsistentLevelTable, fmt.Errorf("truncated block stream"))
			}
			blockBytes := raw[pos : pos+fi.BytesPerBlock]
			pos += fi.BytesPerBlock

			if fi.Format == pixelformat.ASTC4x4 || fi.Format == pixelformat.ASTC4x4SRGB ||
				fi.Format == pixelformat.ASTC8x8 || fi.Format == pixelformat.ASTC8x8SRGB {
				var d [16]byte
				copy(d[:], blockBytes)
				c := blockcodec.DecodeASTCVoidExtentLDR(d)
				fillBlockRegion(buf, bx, by, fi.BlockW, fi.BlockH, w, h, c)
				continue
			}

			block, err := decode4x4Block(fi.Format, blockBytes)
			if err != nil {
				return nil, texpack.NewError(op, texpack.KindUnsupportedDecode, err)
			}
			for py := 0; py < 4; py++ {
				dy := by*4 + py
				if dy >= h {
					break
				}
				for px := 0; px < 4; px++ {
					dx := bx*4 + px
					if dx >= w {
						break
					}
					c := block[py*4+px]
					_ = buf.SetRGBA(dx, dy, c[0], c[1], c[2], c[3])
				}
			}
		}
	}
	return buf, nil
}

func fillBlockRegion(buf *internalimage.ImageBuf, bx, by, blockW, blockH, w, h int, c [4]uint8) {
	for py := 0; py < blockH; py++ {
		dy := by*blockH + py
		if dy >= h {
			break
		}
		for px := 0; px < blockW; px++ {
			dx := bx*blockW + px
			if dx >= w {
				break
			}
			_ = buf.SetRGBA(dx, dy, c[0], c[1], c[2], c[3])
		}
	}
}

func decode4x4Block(format pixelformat.Format, data []byte) (blockcodec.Block, error) {
	var block blockcodec.Block
	switch format {
	case pixelformat.BC1, pixelformat.BC1SRGB:
		var d [8]byte
		copy(d[:], data)
		block = blockcodec.DecodeBC1(d)
	case pixelformat.BC3, pixelformat.BC3SRGB:
		var d [16]byte
		copy(d[:], data)
		block = blockcodec.DecodeBC3(d)
	case pixelformat.BC4:
		var d [8]byte
		copy(d[:], data)
		vals := blockcodec.DecodeBC4Channel(d)
		for i, v := range vals {
			block[i] = [4]uint8{v, 0, 0, 255}
		}
	case pixelformat.BC5:
		var d [16]byte
		copy(d[:], data)
		red, green := blockcodec.DecodeBC5(d)
		for i := range block {
			block[i] = [4]uint8{red[i], green[i], 0, 255}
		}
	case pixelformat.BC7, pixelformat.BC7SRGB:
		var d [16]byte
		copy(d[:], data)
		block = blockcodec.DecodeBC7Mode6(d)
	case pixelformat.ETC2R:
		var d [8]byte
		copy(d[:], data)
		vals := blockcodec.DecodeEACPlane(d)
		for i, v := range vals {
			block[i] = [4]uint8{v, 0, 0, 255}
		}
	case pixelformat.ETC2RG:
		var dr, dg [8]byte
		copy(dr[:], data[0:8])
		copy(dg[:], data[8:16])
		r := blockcodec.DecodeEACPlane(dr)
		g := blockcodec.DecodeEACPlane(dg)
		for i := range block {
			block[i] = [4]uint8{r[i], g[i], 0, 255}
		}
	case pixelformat.ETC2RGB, pixelformat.ETC2RGBSRGB:
		var d [8]byte
		copy(d[:], data)
		block = blockcodec.DecodeETC2RGB(d)
	case pixelformat.ETC2RGBA, pixelformat.ETC2RGBASRGB:
		var d [16]byte
		copy(d[:], data)
		block = blockcodec.DecodeETC2RGBA(d)
	default:
		return block, fmt.Errorf("no decoder registered for %s", format)
	}
	return block, nil
}

// decodeExplicitChunk decodes one chunk of an explicit (non-block)
// format into an RGBA8 or RGBA32F ImageBuf depending on fi.Float.
func decodeExplicitChunk(raw []byte, fi pixelformat.FormatInfo, w, h int) (*internalimage.ImageBuf, error) {
	const op = "imagebuffer.decodeExplicitChunk"
	storage := internalimage.FormatRGBA8
	if fi.Float {
		storage = internalimage.FormatRGBA32F
	}
	buf, err := internalimage.NewImageBuf(w, h, storage)
	if err != nil {
		return nil, texpack.NewError(op, texpack.KindOutOfMemory, err)
	}

	bpp := fi.BytesPerBlock
	want := w * h * bpp
	if len(raw) != want {
		return nil, texpack.NewError(op, texpack.KindInconsistentLevelTable,
			fmt.Errorf("level is %d bytes, want %d for %dx%d in %s", len(raw), want, w, h, fi.Name))
	}

	pos := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := raw[pos : pos+bpp]
			pos += bpp
			if fi.Float {
				r, g, b, a := decodeFloatPixel(px, fi.Channels)
				_ = buf.SetRGBAF(x, y, r, g, b, a)
			} else {
				r, g, b, a := decodeBytePixel(px, fi.Channels)
				_ = buf.SetRGBA(x, y, r, g, b, a)
			}
		}
	}
	return buf, nil
}

func decodeBytePixel(px []byte, channels int) (r, g, b, a uint8) {
	switch channels {
	case 1:
		return px[0], 0, 0, 255
	case 2:
		return px[0], px[1], 0, 255
	default:
		return px[0], px[1], px[2], px[3]
	}
}

func decodeFloatPixel(px []byte, channels int) (r, g, b, a float32) {
	halfWidth := len(px) / channels
	read := func(i int) float32 {
		off := i * halfWidth
		if halfWidth == 2 {
			h := uint16(px[off]) | uint16(px[off+1])<<8
			return blockcodec.HalfToFloat32(h)
		}
		bits := uint32(px[off]) | uint32(px[off+1])<<8 | uint32(px[off+2])<<16 | uint32(px[off+3])<<24
		return math.Float32frombits(bits)
	}
	switch channels {
	case 1:
		return read(0), 0, 0, 1
	case 2:
		return read(0), read(1), 0, 1
	default:
		return read(0), read(1), read(2), read(3)
	}
}

// Width returns the pixel width shared by every chunk.
func (b *ImageBuffer) Width() int { return b.width }

// Height returns the pixel height shared by every chunk.
func (b *ImageBuffer) Height() int { return b.height }

// ChunkCount returns the number of independent 2D surfaces.
func (b *ImageBuffer) ChunkCount() int { return len(b.chunks) }

// Storage returns the current in-memory pixel representation.
func (b *ImageBuffer) Storage() Storage { return b.storage }

// Chunk returns the internal surface for chunk i, for packages within
// this module that need direct pixel access (encoder, mipmap). Returns
// nil if i is out of range.
func (b *ImageBuffer) Chunk(i int) *internalimage.ImageBuf {
	if i < 0 || i >= len(b.chunks) {
		return nil
	}
	return b.chunks[i]
}

// HasColor reports the content hint passed to LoadFromRGBA8, or an
// inference from channel count for container-loaded buffers.
func (b *ImageBuffer) HasColor() bool { return b.hasColor }

// HasAlpha reports the content hint passed to LoadFromRGBA8, or an
// inference from channel count for container-loaded buffers.
func (b *ImageBuffer) HasAlpha() bool { return b.hasAlpha }

// IsPremultiplied reports whether PremultiplyAlpha has already run.
func (b *ImageBuffer) IsPremultiplied() bool { return b.premultiplied }

// ColorSpace reports the color space of chunk 0, representative of the
// whole buffer (all chunks are kept in lockstep by ToLinearFromSRGB/
// ToSRGBFromLinear).
func (b *ImageBuffer) ColorSpace() color.ColorSpace {
	if len(b.chunks) == 0 {
		return color.ColorSpaceSRGB
	}
	return b.chunks[0].ColorSpace()
}

// FromChunks assembles an ImageBuffer directly from already-built
// per-chunk surfaces, for callers within this module (mipmap's
// downsample stage) that produce new chunk data without going through
// a flat RGBA8 source buffer. All chunks must share width, height, and
// storage kind.
func FromChunks(width, height int, chunks []*internalimage.ImageBuf, storage Storage) *ImageBuffer {
	return &ImageBuffer{width: width, height: height, chunks: chunks, storage: storage}
}

// Clone returns a deep copy of the buffer, including per-chunk state.
func (b *ImageBuffer) Clone() *ImageBuffer {
	out := &ImageBuffer{
		width: b.width, height: b.height, storage: b.storage,
		hasColor: b.hasColor, hasAlpha: b.hasAlpha, premultiplied: b.premultiplied,
		chunks: make([]*internalimage.ImageBuf, len(b.chunks)),
	}
	for i, c := range b.chunks {
		out.chunks[i] = c.Clone()
	}
	return out
}
