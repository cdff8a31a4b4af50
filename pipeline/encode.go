package pipeline

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gogpu/texpack"
	"github.com/gogpu/texpack/encoder"
	"github.com/gogpu/texpack/imagebuffer"
	"github.com/gogpu/texpack/ktx"
	"github.com/gogpu/texpack/mipmap"
	"github.com/gogpu/texpack/pixelformat"
)

var defaultRegistry = encoder.NewRegistry()

// Encode runs the full encode pipeline described by opts: read, preprocess,
// mip, encode, assemble, stage-write (spec §4.7). Any failure before the
// final write aborts the job with its original error; the final write
// itself is staged through a temp file and promoted atomically.
func Encode(opts Options) error {
	const op = "pipeline.Encode"

	buf, err := readSource(opts.InputPath)
	if err != nil {
		return err
	}

	if err := preprocess(&opts, buf); err != nil {
		return err
	}

	format := resolveFormat(opts, buf)
	fi, ok := pixelformat.Describe(format)
	if !ok {
		return texpack.NewError(op, texpack.KindUnmappedFormat, fmt.Errorf("format %v is not registered", format))
	}

	chain, err := mipmap.Generate(buf, opts.Mip)
	if err != nil {
		return err
	}

	levelPayloads := make([][]byte, chain.LevelCount())
	var lastBackend string
	var lastQuality int
	for lvl := 0; lvl < chain.LevelCount(); lvl++ {
		level := chain.Level(lvl)
		flags := opts.contentFlags(level, fi)

		payload := make([]byte, 0, fi.LevelSize(level.Width(), level.Height())*level.ChunkCount())
		for c := 0; c < level.ChunkCount(); c++ {
			stream, err := encoder.EncodeLevelChunk(defaultRegistry, level.Chunk(c), format, opts.Quality, flags, opts.Backend)
			if err != nil {
				return err
			}
			payload = append(payload, stream.Bytes...)
			lastBackend, lastQuality = stream.Backend, stream.ActualQuality
		}
		levelPayloads[lvl] = payload
	}

	header := buildHeader(opts, buf, format, chain)
	props := buildProps(opts, lastBackend, lastQuality)

	container, err := ktx.Build(header, props, levelPayloads)
	if err != nil {
		return err
	}

	if err := writeStaged(opts.OutputPath, func(w io.Writer) error {
		return container.WriteTo(w, ktx.WriteOptions{Variant: opts.Variant, AlignBlocks: opts.AlignBlocks, Supercompress: opts.Supercompress})
	}); err != nil {
		return err
	}

	texpack.Logger().Info("job finished", "input", opts.InputPath, "output", opts.OutputPath, "format", format, "backend", lastBackend)
	return nil
}

// resolveFormat applies the -optopaque rule (spec §6, §9 test case):
// a BC7 request is downgraded to BC1 when the source is fully opaque
// after preprocessing; otherwise the requested format is kept unchanged.
func resolveFormat(opts Options, buf *imagebuffer.ImageBuffer) pixelformat.Format {
	if !opts.OptOpaque {
		return opts.Format
	}
	switch opts.Format {
	case pixelformat.BC7:
		if isOpaque(buf) {
			return pixelformat.BC1
		}
	case pixelformat.BC7SRGB:
		if isOpaque(buf) {
			return pixelformat.BC1SRGB
		}
	}
	return opts.Format
}

func isOpaque(buf *imagebuffer.ImageBuffer) bool {
	for c := 0; c < buf.ChunkCount(); c++ {
		chunk := buf.Chunk(c)
		w, h := chunk.Bounds()
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				_, _, _, a := chunk.GetRGBA(x, y)
				if a != 255 {
					return false
				}
			}
		}
	}
	return true
}

func buildHeader(opts Options, src *imagebuffer.ImageBuffer, format pixelformat.Format, chain *mipmap.MipChain) ktx.Header {
	level0 := chain.Level(0)
	faces := 1
	if opts.TextureType.IsCube() {
		faces = 6
	}
	depth := 1
	arrayLayers := 0
	chunkCount := src.ChunkCount()
	switch {
	case opts.TextureType.Is3D():
		depth = chunkCount
	case opts.TextureType.IsArray() && faces == 6:
		arrayLayers = chunkCount / faces
	case opts.TextureType.IsArray():
		arrayLayers = chunkCount
	}

	return ktx.Header{
		Format:      format,
		Type:        opts.TextureType,
		Width:       level0.Width(),
		Height:      level0.Height(),
		Depth:       depth,
		ArrayLayers: arrayLayers,
		Faces:       faces,
	}
}

func buildProps(opts Options, backendName string, actualQuality int) *ktx.Props {
	props := ktx.NewProps()
	_ = props.Set("provenance", "texpack")
	_ = props.Set("sourcePath", opts.InputPath)
	_ = props.Set("encoderBackend", backendName)
	_ = props.Set("requestedQuality", strconv.Itoa(opts.Quality))
	_ = props.Set("actualQuality", strconv.Itoa(actualQuality))

	var flags []string
	if opts.NormalMap {
		flags = append(flags, "normalMap")
	}
	if opts.SDF {
		flags = append(flags, "sdf")
	}
	if opts.Premultiply {
		flags = append(flags, "premultiplied")
	}
	if len(flags) > 0 {
		_ = props.Set("contentFlags", strings.Join(flags, ","))
	}
	return props
}
