// Command texpack builds and inspects KTX/KTX2 texture containers: it
// reads source images, preprocesses and mips them, dispatches block
// compression to whichever backend supports the requested format, and
// assembles the result (spec §6).
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gogpu/texpack/imagebuffer"
	"github.com/gogpu/texpack/internal/image"
	"github.com/gogpu/texpack/ktx"
	"github.com/gogpu/texpack/pixelformat"
	"github.com/gogpu/texpack/script"
)

var commands = []struct {
	name string
	do   func(args []string) error
}{
	{"encode", doEncode},
	{"decode", doDecode},
	{"info", doInfo},
	{"script", doScript},
}

func usage() {
	fmt.Fprintf(os.Stderr, `texpack builds and inspects texture containers.

Usage:

	texpack command [arguments]

The commands are:

	encode  compress an image into a KTX/KTX2 container
	decode  write a container's first level to a PNG preview
	info    print container or source metadata
	script  run a batch of commands from a file
`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	name, args := os.Args[1], os.Args[2:]
	for _, c := range commands {
		if c.name == name {
			if err := c.do(args); err != nil {
				log.Printf("texpack %s: %v", name, err)
				os.Exit(1)
			}
			return
		}
	}
	usage()
	os.Exit(1)
}

// decodeContainerToImage reads a KTX/KTX2 file and returns level 0 as
// an *internal/image.ImageBuf for preview purposes; it only supports
// single-chunk (2D, non-array, non-cube) textures.
func decodeContainerToImage(path string) (*image.ImageBuf, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	container, err := ktx.OpenForRead(data)
	if err != nil {
		return nil, err
	}
	buf, err := imagebuffer.LoadFromContainer(container, 0)
	if err != nil {
		return nil, err
	}
	if buf.ChunkCount() != 1 {
		return nil, fmt.Errorf("decode: %s has %d chunks; only single-chunk 2D textures are supported for preview", path, buf.ChunkCount())
	}
	return buf.Chunk(0), nil
}

func printContainerInfo(path string, data []byte) error {
	container, err := ktx.OpenForRead(data)
	if err != nil {
		return err
	}
	h := container.Header()
	fi, _ := pixelformat.Describe(h.Format)
	fmt.Printf("%s\n", path)
	fmt.Printf("  format:  %s\n", fi.Name)
	fmt.Printf("  type:    %s\n", h.Type)
	fmt.Printf("  dims:    %dx%d\n", h.Width, h.Height)
	if h.Depth > 1 {
		fmt.Printf("  depth:   %d\n", h.Depth)
	}
	fmt.Printf("  faces:   %d\n", h.Faces)
	fmt.Printf("  array:   %d\n", h.ArrayLayers)
	fmt.Printf("  mips:    %d\n", container.NumLevels())
	if gl, err := pixelformat.ToExternalName(pixelformat.VocabGL, h.Format); err == nil {
		vk, _ := pixelformat.ToExternalName(pixelformat.VocabVulkan, h.Format)
		mtl, _ := pixelformat.ToExternalName(pixelformat.VocabMetal, h.Format)
		fmt.Printf("  vocab:   GL=%s Vulkan=%s Metal=%s\n", gl, vk, mtl)
	}
	if n := container.Props().Len(); n > 0 {
		fmt.Printf("  props:\n")
		for _, k := range container.Props().Keys() {
			v, _ := container.Props().Get(k)
			fmt.Printf("    %s = %s\n", k, v)
		}
	}
	return nil
}

func runScriptCommand(argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("empty command")
	}
	for _, c := range commands {
		if c.name == argv[0] {
			return c.do(argv[1:])
		}
	}
	return fmt.Errorf("unknown command %q", argv[0])
}

func doScript(args []string) error {
	opts, err := parseScriptFlags(args)
	if err != nil {
		return err
	}
	jobs, err := script.ParseFile(opts.InputPath)
	if err != nil {
		return err
	}
	result := script.Run(jobs, opts.Jobs, runScriptCommand)
	for _, f := range result.Failures {
		log.Printf("line %d: %v", f.Line, f.Err)
	}
	fmt.Printf("%d commands, %d errors\n", result.CommandCount, result.ErrorCount)
	if result.ErrorCount > 0 {
		os.Exit(1)
	}
	return nil
}
