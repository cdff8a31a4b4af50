package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gogpu/texpack"
)

// writeStaged writes the bytes produced by fill to a temporary file
// beside dst and promotes it into place only once the write completes,
// so a crash or failed write never leaves a partial file at dst (spec
// §4.7 step 6, §7 "the orchestrator never recovers silently except in
// exactly one place — TempFilePromotionFailed across volumes, which
// falls back to buffered copy").
func writeStaged(dst string, fill func(w io.Writer) error) error {
	const op = "pipeline.writeStaged"

	dir := filepath.Dir(dst)
	tmp, err := os.CreateTemp(dir, filepath.Base(dst)+".tmp-*")
	if err != nil {
		return texpack.NewError(op, texpack.KindWriteFailed, err)
	}
	tmpName := tmp.Name()

	if err := fill(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return texpack.NewError(op, texpack.KindWriteFailed, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return texpack.NewError(op, texpack.KindWriteFailed, err)
	}

	if err := os.Rename(tmpName, dst); err != nil {
		texpack.Logger().Warn("cross-volume rename failed, falling back to copy", "dst", dst, "cause", err)
		if copyErr := promoteByCopy(tmpName, dst); copyErr != nil {
			_ = os.Remove(tmpName)
			return texpack.NewError(op, texpack.KindTempFilePromotionFailed,
				fmt.Errorf("rename failed (%v) and copy fallback failed: %w", err, copyErr))
		}
		_ = os.Remove(tmpName)
	}
	return nil
}

// promoteByCopy is the one retry step a rename gets: a cross-volume
// rename always returns EXDEV, so the fallback is a plain byte copy
// followed by removing the source (spec §4.7 "step 6 is retried once
// (copy fallback) if rename across volumes fails").
func promoteByCopy(src, dst string) error {
	in, err := os.Open(filepath.Clean(src))
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(filepath.Clean(dst))
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	return out.Close()
}
