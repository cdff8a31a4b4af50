package main

import (
	"bytes"
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

func doInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	input := fs.String("input", "", "container or source image path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		return fmt.Errorf("-input is required")
	}

	data, err := os.ReadFile(*input)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(*input)) {
	case ".ktx", ".ktx2":
		return printContainerInfo(*input, data)
	case ".png":
		return printPNGInfo(*input, data)
	default:
		return fmt.Errorf("info: unrecognized extension %q", filepath.Ext(*input))
	}
}

// printPNGInfo reports a PNG's header fields via png.DecodeConfig,
// which reads only enough of the stream to report dimensions and color
// model, without decoding any pixel data.
func printPNGInfo(path string, data []byte) error {
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", path)
	fmt.Printf("  dims:   %dx%d\n", cfg.Width, cfg.Height)
	fmt.Printf("  model:  %T\n", cfg.ColorModel)
	return nil
}
