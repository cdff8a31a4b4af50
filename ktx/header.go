package ktx

import "github.com/gogpu/texpack/pixelformat"

// Header describes a Container's fixed structural fields: type-system
// mapping, per-level count derivation inputs, face/array/depth counts,
// and overall dimensions (spec §3 "Container").
type Header struct {
	Format      pixelformat.Format
	Type        pixelformat.TextureType
	Width       int
	Height      int
	Depth       int
	ArrayLayers int
	Faces       int
}

// normalized returns a copy of h with Faces defaulted from Type when the
// caller left it at zero (cube types always carry 6 faces).
func (h Header) normalized() Header {
	if h.Faces == 0 && h.Type.IsCube() {
		h.Faces = 6
	}
	if h.Faces == 0 {
		h.Faces = 1
	}
	return h
}

func (h Header) chunkCount() int {
	return pixelformat.ChunkCount(h.Faces, h.ArrayLayers, h.Depth)
}

// numMipLevelsForFullChain returns the number of levels implied by halving width and
// height down to 1 (spec §8 "mip chain length equals floor(log2(max(w,h)))+1").
func (h Header) numMipLevelsForFullChain() int {
	maxDim := h.Width
	if h.Height > maxDim {
		maxDim = h.Height
	}
	n := 1
	for maxDim > 1 {
		maxDim /= 2
		n++
	}
	return n
}

// levelDims returns the pixel dimensions of mip level i, per spec §3
// "MipLevel": level 0 has the base dimensions; level i+1 has each
// dimension max(1, floor(prev/2)). Depth follows the same halving rule
// (spec §4.4) for every texture type, so a base depth of 0 or 1 gives 1
// from level 1 on.
func levelDims(i, w0, h0, d0 int) (w, h, d int) {
	w, h, d = w0, h0, d0
	for range i {
		w = max(1, w/2)
		h = max(1, h/2)
		d = max(1, d/2)
	}
	return w, h, d
}

// OpenGL enum values used for KTX1's glType/glFormat/glBaseInternalFormat
// fields. These are the real GL constants for the handful of base
// formats and scalar types texpack's explicit formats need; compressed
// formats use the conventional glType=0/glFormat=0/glTypeSize=1 triple
// the KTX1 spec reserves for block-compressed data.
const (
	glUnsignedByte = 0x1401
	glFloat        = 0x1406

	glRed  = 0x1903
	glRG   = 0x8227
	glRGB  = 0x1907
	glRGBA = 0x1908
)

// glTypeTriple returns (glType, glTypeSize, glFormat, glBaseInternalFormat)
// for fi, following KTX1's convention that compressed formats carry the
// all-zero/size-1 triple.
func glTypeTriple(fi pixelformat.FormatInfo) (glType, glTypeSize, glFormat, glBaseInternalFormat uint32) {
	if fi.BlockCompressed {
		return 0, 1, 0, baseInternalFormat(fi.Channels)
	}
	if fi.Float {
		glType, glTypeSize = glFloat, 4
	} else {
		glType, glTypeSize = glUnsignedByte, 1
	}
	base := baseInternalFormat(fi.Channels)
	return glType, glTypeSize, base, base
}

func baseInternalFormat(channels int) uint32 {
	switch channels {
	case 1:
		return glRed
	case 2:
		return glRG
	case 3:
		return glRGB
	default:
		return glRGBA
	}
}
