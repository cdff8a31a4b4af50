package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/texpack"
	"github.com/gogpu/texpack/imagebuffer"
	internalimage "github.com/gogpu/texpack/internal/image"
	"github.com/gogpu/texpack/ktx"
)

// readSource loads path into an ImageBuffer, dispatching on extension
// per spec §4.7 step 1: KTX/KTX2 containers decode level 0 through C2+
// C3, PNGs decode through the PNG interface for RGBA8 bytes plus
// content-hint flags.
func readSource(path string) (*imagebuffer.ImageBuffer, error) {
	const op = "pipeline.readSource"

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, texpack.NewError(op, texpack.KindFileNotFound, err)
		}
		return nil, texpack.NewError(op, texpack.KindReadFailed, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ktx", ".ktx2":
		container, err := ktx.OpenForRead(data)
		if err != nil {
			return nil, err
		}
		return imagebuffer.LoadFromContainer(container, 0)
	case ".png":
		buf, hasColor, hasAlpha, _, err := internalimage.DecodePNGWithHints(bytes.NewReader(data))
		if err != nil {
			return nil, texpack.NewError(op, texpack.KindReadFailed, err)
		}
		w, h := buf.Bounds()
		return imagebuffer.LoadFromRGBA8(buf.Data(), w, h, hasColor, hasAlpha, 1)
	default:
		return nil, texpack.NewError(op, texpack.KindUnsupportedExtension,
			fmt.Errorf("unrecognized input extension %q", filepath.Ext(path)))
	}
}
