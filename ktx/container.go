package ktx

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/gogpu/texpack"
	"github.com/gogpu/texpack/pixelformat"
)

type state uint8

const (
	stateEmpty state = iota
	stateHeader
	stateProps
	stateLevels
	stateFinalized
)

// Container is the in-memory model of a KTX/KTX2 file: header, ordered
// key/value props, and a mip level table with payload bytes (spec §3
// "Container", §4.2). It is built either by OpenForRead or by Build, and
// is immutable once constructed; payload bytes may alias the byte range
// OpenForRead was given.
//
// The state field names the stages Empty -> Header -> Props -> Levels
// -> Finalized, and WriteTo requires Finalized. Both constructors set
// Finalized directly; no method steps a Container through the earlier
// stages, so callers never observe an intermediate state.
type Container struct {
	state state

	header Header
	props  *Props
	levels []Level

	// payload[i] holds the on-disk bytes for levels[i]: for a level read
	// from a supercompressed KTX2 file this is the compressed stream;
	// for a Build-constructed, not-yet-written container it is the raw
	// uncompressed chunk data passed to Build.
	payload         [][]byte
	supercompressed bool
}

// Header returns the container's structural header.
func (c *Container) Header() Header { return c.header }

// Props returns the container's key/value property bag.
func (c *Container) Props() *Props { return c.props }

// NumLevels returns the number of mip levels.
func (c *Container) NumLevels() int { return len(c.levels) }

// Level returns the Level record at index i, or the zero Level if i is
// out of range.
func (c *Container) Level(i int) Level {
	if i < 0 || i >= len(c.levels) {
		return Level{}
	}
	return c.levels[i]
}

// Build constructs a finalized Container for writing, from a header, an
// ordered set of properties, and one raw (uncompressed) byte payload per
// mip level — chunk-concatenated in array -> face -> depth order, per
// spec §6. Dimensions for level i are derived from header by the
// standard halving rule rather than taken from the caller, so a
// mismatched payload length fails with InconsistentLevelTable.
func Build(header Header, props *Props, levelPayloads [][]byte) (*Container, error) {
	const op = "ktx.Build"
	header = header.normalized()

	if header.Width < 1 || header.Height < 1 {
		return nil, texpack.NewError(op, texpack.KindInconsistentLevelTable,
			fmt.Errorf("width/height must be >= 1, got %dx%d", header.Width, header.Height))
	}
	fi, ok := pixelformat.Describe(header.Format)
	if !ok {
		return nil, texpack.NewError(op, texpack.KindUnsupportedFormat,
			fmt.Errorf("format %v is not registered", header.Format))
	}
	if props == nil {
		props = NewProps()
	}
	if len(levelPayloads) == 0 {
		return nil, texpack.NewError(op, texpack.KindInconsistentLevelTable,
			fmt.Errorf("at least one mip level is required"))
	}

	chunkCount := header.chunkCount()
	levels := make([]Level, 0, len(levelPayloads))
	for i, payload := range levelPayloads {
		w, h, d := levelDims(i, header.Width, header.Height, header.Depth)
		want := fi.LevelSize(w, h) * chunkCount
		if len(payload) != want {
			return nil, texpack.NewError(op, texpack.KindInconsistentLevelTable,
				fmt.Errorf("level %d: payload is %d bytes, want %d for %dx%d x%d chunks in %v",
					i, len(payload), want, w, h, chunkCount, header.Format))
		}
		levels = append(levels, Level{
			Width: w, Height: h, Depth: d,
			ByteLength:             uint64(len(payload)),
			UncompressedByteLength: uint64(len(payload)),
		})
	}

	c := &Container{
		state:   stateFinalized,
		header:  header,
		props:   props,
		levels:  levels,
		payload: levelPayloads,
	}
	return c, nil
}

// LevelBytesRaw returns the on-disk bytes for level, without
// transparently decompressing KTX2 supercompressed levels. It always
// returns the whole level: chunk boundaries live in the decompressed
// stream, so per-chunk access goes through LevelBytes.
func (c *Container) LevelBytesRaw(level int) ([]byte, error) {
	if level < 0 || level >= len(c.levels) {
		return nil, texpack.NewError("ktx.Container.LevelBytesRaw", texpack.KindInconsistentLevelTable,
			fmt.Errorf("level %d out of range [0,%d)", level, len(c.levels)))
	}
	return c.payload[level], nil
}

// LevelBytes returns a read view into level's decompressed payload. When
// chunk is negative the whole level is returned; otherwise only the
// bytes for that chunk (array -> face -> depth order) are returned.
func (c *Container) LevelBytes(level int, chunk int) ([]byte, error) {
	const op = "ktx.Container.LevelBytes"
	if level < 0 || level >= len(c.levels) {
		return nil, texpack.NewError(op, texpack.KindInconsistentLevelTable,
			fmt.Errorf("level %d out of range [0,%d)", level, len(c.levels)))
	}

	raw := c.payload[level]
	var decoded []byte
	if c.supercompressed {
		zr, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, texpack.NewError(op, texpack.KindReadFailed, err)
		}
		defer func() { _ = zr.Close() }()
		decoded, err = io.ReadAll(zr)
		if err != nil {
			return nil, texpack.NewError(op, texpack.KindReadFailed, err)
		}
	} else {
		decoded = raw
	}

	if chunk < 0 {
		return decoded, nil
	}

	fi, ok := pixelformat.Describe(c.header.Format)
	if !ok {
		return nil, texpack.NewError(op, texpack.KindUnsupportedFormat,
			fmt.Errorf("format %v is not registered", c.header.Format))
	}
	lvl := c.levels[level]
	chunkSize := fi.LevelSize(lvl.Width, lvl.Height)
	chunkCount := c.header.chunkCount()
	if chunk >= chunkCount {
		return nil, texpack.NewError(op, texpack.KindInconsistentLevelTable,
			fmt.Errorf("chunk %d out of range [0,%d)", chunk, chunkCount))
	}
	start := chunk * chunkSize
	end := start + chunkSize
	if end > len(decoded) {
		return nil, texpack.NewError(op, texpack.KindInconsistentLevelTable,
			fmt.Errorf("chunk %d range [%d,%d) exceeds decoded level of %d bytes", chunk, start, end, len(decoded)))
	}
	return decoded[start:end], nil
}
