// Package pipeline implements the end-to-end encode orchestrator (spec
// §4.7): read source, preprocess, generate mips, encode every level's
// chunks, assemble a Container, and stage the write atomically into
// place. One Options value describes one job; the orchestrator itself
// holds no state and is safe to run concurrently across distinct jobs
// from the script driver (spec §5).
package pipeline

import (
	"github.com/gogpu/texpack/encoder"
	"github.com/gogpu/texpack/imagebuffer"
	"github.com/gogpu/texpack/ktx"
	"github.com/gogpu/texpack/mipmap"
	"github.com/gogpu/texpack/pixelformat"
)

// Options describes one encode job end to end, mirroring the `encode`
// CLI subcommand's flags (spec §6).
type Options struct {
	InputPath  string
	OutputPath string

	Format      pixelformat.Format
	TextureType pixelformat.TextureType
	Backend     string // pinned backend name; "" lets the registry choose
	Quality     int

	Swizzle   string // 4-char pattern; "" skips this step
	AvgMask   string // channel mask ("rgba" subset); "" skips this step
	AvgBlockW int
	AvgBlockH int

	ResizeW, ResizeH int // 0,0 skips resizing
	ResizePow2       bool
	ResizeFilter     imagebuffer.Filter

	Premultiply  bool
	NormalMap    bool
	SDF          bool
	SDFMaxRadius int
	OptOpaque    bool // a BC7 request becomes BC1 iff the source is opaque after preprocessing

	Mip mipmap.Policy

	Variant       ktx.Variant
	AlignBlocks   bool
	Supercompress bool
}

// contentFlags derives the encoder.ContentFlags the dispatcher needs
// from the job options and the preprocessed buffer's own state.
func (o Options) contentFlags(buf *imagebuffer.ImageBuffer, fi pixelformat.FormatInfo) encoder.ContentFlags {
	return encoder.ContentFlags{
		NormalMap:     o.NormalMap,
		SDF:           o.SDF,
		HDR:           fi.HDR,
		Premultiplied: buf.IsPremultiplied(),
		HasAlpha:      buf.HasAlpha(),
	}
}
