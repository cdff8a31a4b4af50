// Package blockcodec implements the GPU block-compression formats
// texpack's backend adapters (spec §4.6) advertise: BC1/BC3/BC4/BC5/BC7
// (S3TC/BPTC family), ETC2/EAC, and ASTC's void-extent constant-color
// block. Each encoder takes one 4x4 (or larger, for ASTC) RGBA8/RGBA32F
// pixel block and produces a fixed-size block of bytes that any
// conformant decoder accepts — spec §1 explicitly does not require
// bit-exact replication of a reference codec's internal heuristics,
// only a valid, decodable block stream at the requested quality.
package blockcodec

// Block is a 4x4 pixel neighborhood in RGBA8, row-major, used as the
// input to every BC/ETC2 encoder. Pixels outside the source image
// (edge padding) are clamped by the caller before building a Block.
type Block [16][4]uint8

// rgb565 packs an 8-bit RGB triple into a 5:6:5 value.
func rgb565(r, g, b uint8) uint16 {
	r5 := (uint16(r)*31 + 127) / 255
	g6 := (uint16(g)*63 + 127) / 255
	b5 := (uint16(b)*31 + 127) / 255
	return r5<<11 | g6<<5 | b5
}

func unpack565(v uint16) (r, g, b uint8) {
	r5 := uint8(v >> 11 & 0x1F)
	g6 := uint8(v >> 5 & 0x3F)
	b5 := uint8(v & 0x1F)
	// Replicate high bits into the low bits for full 8-bit range, the
	// standard BC1 expansion.
	r = r5<<3 | r5>>2
	g = g6<<2 | g6>>4
	b = b5<<3 | b5>>2
	return r, g, b
}

// EncodeBC1 encodes one block as BC1/DXT1 (8 bytes): two RGB565
// endpoints picked from the block's luminance extremes, plus a 2-bit
// index per pixel into the resulting 4-color (or, when threeColor is
// requested for punch-through alpha content, 3-color+transparent)
// palette (spec §4.5: "premultiplied is required for BC1 3-color
// encode; 4-color BC1 is chosen for opaque content").
func EncodeBC1(b Block, threeColor bool) [8]byte {
	c0, c1 := endpointsByLuminance(b)
	e0 := rgb565(c0[0], c0[1], c0[2])
	e1 := rgb565(c1[0], c1[1], c1[2])

	// BC1 mode is selected by numeric endpoint order: color0 > color1
	// packs as 4-color opaque mode; color0 <= color1 packs as 3-color +
	// transparent-black mode. Force the order the caller asked for.
	if threeColor {
		if e0 > e1 {
			e0, e1 = e1, e0
			c0, c1 = c1, c0
		}
	} else if e0 <= e1 {
		if e0 == e1 {
			// Degenerate (flat) block: nudge e0 up by one bit if possible so
			// the block stays in 4-color mode rather than collapsing into
			// the 3-color+transparent interpretation.
			if e0 < 0xFFFF {
				e0++
			} else {
				e1--
			}
		} else {
			e0, e1 = e1, e0
			c0, c1 = c1, c0
		}
	}

	// Pick indices against the endpoints the decoder will reconstruct.
	r0, g0, b0 := unpack565(e0)
	r1, g1, b1 := unpack565(e1)
	palette := bc1Palette([4]uint8{r0, g0, b0, 255}, [4]uint8{r1, g1, b1, 255}, threeColor)

	var out [8]byte
	out[0] = byte(e0)
	out[1] = byte(e0 >> 8)
	out[2] = byte(e1)
	out[3] = byte(e1 >> 8)

	var indices uint32
	for i := 15; i >= 0; i-- {
		idx := nearestPaletteIndex(b[i], palette)
		indices = indices<<2 | uint32(idx)
	}
	out[4] = byte(indices)
	out[5] = byte(indices >> 8)
	out[6] = byte(indices >> 16)
	out[7] = byte(indices >> 24)
	return out
}

func bc1Palette(c0, c1 [4]uint8, threeColor bool) [4][3]int {
	var p [4][3]int
	p[0] = [3]int{int(c0[0]), int(c0[1]), int(c0[2])}
	p[1] = [3]int{int(c1[0]), int(c1[1]), int(c1[2])}
	if threeColor {
		p[2] = [3]int{(p[0][0] + p[1][0]) / 2, (p[0][1] + p[1][1]) / 2, (p[0][2] + p[1][2]) / 2}
		p[3] = [3]int{0, 0, 0}
	} else {
		p[2] = [3]int{(2*p[0][0] + p[1][0]) / 3, (2*p[0][1] + p[1][1]) / 3, (2*p[0][2] + p[1][2]) / 3}
		p[3] = [3]int{(p[0][0] + 2*p[1][0]) / 3, (p[0][1] + 2*p[1][1]) / 3, (p[0][2] + 2*p[1][2]) / 3}
	}
	return p
}

func nearestPaletteIndex(px [4]uint8, palette [4][3]int) int {
	best, bestDist := 0, 1<<30
	for i, c := range palette {
		dr := int(px[0]) - c[0]
		dg := int(px[1]) - c[1]
		db := int(px[2]) - c[2]
		dist := dr*dr + dg*dg + db*db
		if dist < bestDist {
			bestDist = dist
			best = i
		}
	}
	return best
}

// endpointsByLuminance returns the block's darkest and brightest pixels
// (by a cheap 2:4:1 weighted R:G:B luminance), the standard cheap BC1
// endpoint pick.
func endpointsByLuminance(b Block) (lo, hi [4]uint8) {
	lo, hi = b[0], b[0]
	loLum, hiLum := luminance(b[0]), luminance(b[0])
	for _, px := range b[1:] {
		l := luminance(px)
		if l < loLum {
			loLum, lo = l, px
		}
		if l > hiLum {
			hiLum, hi = l, px
		}
	}
	return lo, hi
}

func luminance(px [4]uint8) int {
	return 2*int(px[0]) + 4*int(px[1]) + int(px[2])
}

// EncodeBC4Channel encodes one scalar 4x4 channel plane as a BC4/DXT5-alpha
// style 8-byte block: two 8-bit endpoints (max first, then min) plus a
// 3-bit index per pixel into an interpolated 8-level ramp (or, for a
// flat block whose endpoints are equal, the 6-level + explicit 0/255
// ramp).
func EncodeBC4Channel(values [16]uint8) [8]byte {
	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	var out [8]byte
	out[0] = hi
	out[1] = lo

	ramp := alphaRamp(hi, lo)
	var indices uint64
	for i := 15; i >= 0; i-- {
		idx := nearestRampIndex(values[i], ramp)
		indices = indices<<3 | uint64(idx)
	}
	out[2] = byte(indices)
	out[3] = byte(indices >> 8)
	out[4] = byte(indices >> 16)
	out[5] = byte(indices >> 24)
	out[6] = byte(indices >> 32)
	out[7] = byte(indices >> 40)
	return out
}

// alphaRamp builds the 8-entry interpolation ramp for endpoints
// (a0=hi, a1=lo), matching the BC4/BC3-alpha convention where a0 > a1
// selects the 6-interpolated ramp and a0 <= a1 selects the
// 4-interpolated + {0,255} ramp.
func alphaRamp(a0, a1 uint8) [8]int {
	var r [8]int
	r[0], r[1] = int(a0), int(a1)
	if a0 > a1 {
		r[2] = (6*int(a0) + 1*int(a1)) / 7
		r[3] = (5*int(a0) + 2*int(a1)) / 7
		r[4] = (4*int(a0) + 3*int(a1)) / 7
		r[5] = (3*int(a0) + 4*int(a1)) / 7
		r[6] = (2*int(a0) + 5*int(a1)) / 7
		r[7] = (1*int(a0) + 6*int(a1)) / 7
	} else {
		r[2] = (4*int(a0) + 1*int(a1)) / 5
		r[3] = (3*int(a0) + 2*int(a1)) / 5
		r[4] = (2*int(a0) + 3*int(a1)) / 5
		r[5] = (1*int(a0) + 4*int(a1)) / 5
		r[6] = 0
		r[7] = 255
	}
	return r
}

func nearestRampIndex(v uint8, ramp [8]int) int {
	best, bestDist := 0, 1<<30
	for i, r := range ramp {
		d := int(v) - r
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// EncodeBC3 encodes one block as BC3/DXT5 (16 bytes): a BC4-style alpha
// block (8 bytes) followed by a BC1 4-color block (8 bytes) built from
// the same pixels' RGB channels.
func EncodeBC3(b Block) [16]byte {
	var alpha [16]uint8
	for i, px := range b {
		alpha[i] = px[3]
	}
	alphaBlock := EncodeBC4Channel(alpha)
	colorBlock := EncodeBC1(b, false)

	var out [16]byte
	copy(out[0:8], alphaBlock[:])
	copy(out[8:16], colorBlock[:])
	return out
}

// EncodeBC5 encodes a two-channel (e.g. tangent-space normal XY) block
// as BC5/ATI2 (16 bytes): two independent BC4 channel blocks, red then
// green.
func EncodeBC5(b Block) [16]byte {
	var red, green [16]uint8
	for i, px := range b {
		red[i] = px[0]
		green[i] = px[1]
	}
	rb := EncodeBC4Channel(red)
	gb := EncodeBC4Channel(green)

	var out [16]byte
	copy(out[0:8], rb[:])
	copy(out[8:16], gb[:])
	return out
}

// DecodeBC1 reverses EncodeBC1 for round-trip testing and for C7's
// "decode block formats for LDR" ingestion path (spec §4.7 step 1).
func DecodeBC1(data [8]byte) Block {
	e0 := uint16(data[0]) | uint16(data[1])<<8
	e1 := uint16(data[2]) | uint16(data[3])<<8
	r0, g0, b0 := unpack565(e0)
	r1, g1, b1 := unpack565(e1)
	threeColor := e0 <= e1
	palette := bc1Palette([4]uint8{r0, g0, b0, 255}, [4]uint8{r1, g1, b1, 255}, threeColor)

	indices := uint32(data[4]) | uint32(data[5])<<8 | uint32(data[6])<<16 | uint32(data[7])<<24
	var out Block
	for i := range out {
		idx := (indices >> uint(2*i)) & 0x3
		c := palette[idx]
		a := uint8(255)
		if threeColor && idx == 3 {
			a = 0
		}
		out[i] = [4]uint8{uint8(c[0]), uint8(c[1]), uint8(c[2]), a}
	}
	return out
}

// DecodeBC4Channel reverses EncodeBC4Channel.
func DecodeBC4Channel(data [8]byte) [16]uint8 {
	a0, a1 := data[0], data[1]
	ramp := alphaRamp(a0, a1)
	indices := uint64(data[2]) | uint64(data[3])<<8 | uint64(data[4])<<16 |
		uint64(data[5])<<24 | uint64(data[6])<<32 | uint64(data[7])<<40
	var out [16]uint8
	for i := range out {
		idx := (indices >> uint(3*i)) & 0x7
		out[i] = uint8(ramp[idx])
	}
	return out
}

// DecodeBC3 reverses EncodeBC3.
func DecodeBC3(data [16]byte) Block {
	var alphaData [8]byte
	copy(alphaData[:], data[0:8])
	var colorData [8]byte
	copy(colorData[:], data[8:16])

	alpha := DecodeBC4Channel(alphaData)
	colorBlock := DecodeBC1(colorData)

	var out Block
	for i := range out {
		out[i] = [4]uint8{colorBlock[i][0], colorBlock[i][1], colorBlock[i][2], alpha[i]}
	}
	return out
}

// DecodeBC5 reverses EncodeBC5, returning (red, green) planes.
func DecodeBC5(data [16]byte) (red, green [16]uint8) {
	var rd, gd [8]byte
	copy(rd[:], data[0:8])
	copy(gd[:], data[8:16])
	return DecodeBC4Channel(rd), DecodeBC4Channel(gd)
}
