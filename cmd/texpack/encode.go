package main

import (
	"flag"
	"fmt"

	"github.com/gogpu/texpack/imagebuffer"
	"github.com/gogpu/texpack/ktx"
	"github.com/gogpu/texpack/mipmap"
	"github.com/gogpu/texpack/pipeline"
	"github.com/gogpu/texpack/pixelformat"
)

func parseTextureType(s string) (pixelformat.TextureType, error) {
	switch s {
	case "1d-array":
		return pixelformat.Type1DArray, nil
	case "2d", "":
		return pixelformat.Type2D, nil
	case "2d-array":
		return pixelformat.Type2DArray, nil
	case "cube":
		return pixelformat.TypeCube, nil
	case "cube-array":
		return pixelformat.TypeCubeArray, nil
	case "3d":
		return pixelformat.Type3D, nil
	default:
		return 0, fmt.Errorf("unrecognized -type %q", s)
	}
}

func parseFilter(s string) (imagebuffer.Filter, error) {
	switch s {
	case "point":
		return imagebuffer.FilterPoint, nil
	case "box", "":
		return imagebuffer.FilterBox, nil
	case "tent":
		return imagebuffer.FilterTent, nil
	case "mitchell":
		return imagebuffer.FilterMitchell, nil
	case "lanczos4":
		return imagebuffer.FilterLanczos4, nil
	case "kaiser":
		return imagebuffer.FilterKaiser, nil
	default:
		return 0, fmt.Errorf("unrecognized filter %q", s)
	}
}

// hdrVariant returns f's HDR counterpart, or f unchanged if it has
// none (already HDR, or no HDR form exists for that layout).
func hdrVariant(f pixelformat.Format) pixelformat.Format {
	switch f {
	case pixelformat.ASTC4x4:
		return pixelformat.ASTC4x4HDR
	case pixelformat.ASTC8x8:
		return pixelformat.ASTC8x8HDR
	default:
		return f
	}
}

// srgbVariant returns f's sRGB counterpart, or f unchanged if it has
// none (already sRGB, or no sRGB form exists for that layout).
func srgbVariant(f pixelformat.Format) pixelformat.Format {
	switch f {
	case pixelformat.R8:
		return pixelformat.R8SRGB
	case pixelformat.RG8:
		return pixelformat.RG8SRGB
	case pixelformat.RGBA8:
		return pixelformat.RGBA8SRGB
	case pixelformat.BC1:
		return pixelformat.BC1SRGB
	case pixelformat.BC3:
		return pixelformat.BC3SRGB
	case pixelformat.BC7:
		return pixelformat.BC7SRGB
	case pixelformat.ETC2RGB:
		return pixelformat.ETC2RGBSRGB
	case pixelformat.ETC2RGBA:
		return pixelformat.ETC2RGBASRGB
	case pixelformat.ASTC4x4:
		return pixelformat.ASTC4x4SRGB
	case pixelformat.ASTC8x8:
		return pixelformat.ASTC8x8SRGB
	default:
		return f
	}
}

func doEncode(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)

	input := fs.String("input", "", "source image (PNG or KTX/KTX2)")
	output := fs.String("output", "", "destination container path")
	formatName := fs.String("format", "", "target pixel format, e.g. bc7, rgba8, astc4x4")
	encoderName := fs.String("encoder", "", "pin a specific backend by name; empty lets the registry choose")
	typeName := fs.String("type", "2d", "texture type: 2d, 2d-array, cube, cube-array, 3d, 1d-array")
	srgb := fs.Bool("srgb", false, "treat source as sRGB and keep the sRGB variant of -format")
	hdr := fs.Bool("hdr", false, "select the HDR variant of -format (e.g. astc4x4 -> astc4x4hdr)")
	normal := fs.Bool("normal", false, "source is a normal map: average non-principal channels per block before encoding")
	sdf := fs.Bool("sdf", false, "convert source to a signed distance field before encoding")
	sdfRadius := fs.Int("sdfradius", 0, "max SDF search radius in pixels; 0 auto-selects")
	premul := fs.Bool("premul", false, "premultiply alpha before encoding")
	optopaque := fs.Bool("optopaque", false, "downgrade BC7 to BC1 when the source is fully opaque")
	swizzle := fs.String("swizzle", "", "4-character channel swizzle pattern, e.g. rrr1")
	avg := fs.String("avg", "", "channel mask (subset of rgba) to average per encode block")
	resize := fs.String("resize", "", "WxH target dimensions; empty skips resizing")
	resizePow2 := fs.Bool("resizepow2", false, "round -resize dimensions down to the nearest power of two")
	filterName := fs.String("filter", "box", "resize/mip downsample filter: point, box, tent, mitchell, lanczos4, kaiser")
	mipNone := fs.Bool("mipnone", false, "emit only level 0, no mip chain")
	mipAlign := fs.Bool("mipalign", false, "keep non-power-of-two level 0 dimensions instead of rounding down")
	mipMin := fs.Int("mipmin", 0, "smallest retained mip dimension in pixels; 0 disables the clamp")
	mipMax := fs.Int("mipmax", 0, "largest retained mip dimension in pixels; 0 disables the clamp")
	quality := fs.Int("quality", 50, "encode quality, 0-100")
	verbose := fs.Bool("v", false, "verbose logging")
	ktx2 := fs.Bool("ktx2", true, "write KTX2 (false writes classic KTX)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *input == "" || *output == "" {
		return fmt.Errorf("-input and -output are required")
	}
	if *formatName == "" {
		return fmt.Errorf("-format is required")
	}
	format, ok := pixelformat.ParseFormat(*formatName)
	if !ok {
		// Fall back to external vocabulary names (GL_*, VK_FORMAT_*, or
		// Metal's camelCase) so scripts that already carry a
		// Vulkan/GL/Metal format string can pass it straight through.
		for _, v := range []pixelformat.Vocab{pixelformat.VocabGL, pixelformat.VocabVulkan, pixelformat.VocabMetal} {
			if f, err := pixelformat.FromExternalName(v, *formatName); err == nil {
				format, ok = f, true
				break
			}
		}
	}
	if !ok {
		return fmt.Errorf("unrecognized -format %q", *formatName)
	}
	if *srgb {
		format = srgbVariant(format)
	}
	if *hdr {
		format = hdrVariant(format)
	}

	textureType, err := parseTextureType(*typeName)
	if err != nil {
		return err
	}
	filter, err := parseFilter(*filterName)
	if err != nil {
		return err
	}

	var resizeW, resizeH int
	if *resize != "" {
		if _, err := fmt.Sscanf(*resize, "%dx%d", &resizeW, &resizeH); err != nil {
			return fmt.Errorf("unrecognized -resize %q, want WxH", *resize)
		}
	}

	variant := ktx.VariantKTX2
	if !*ktx2 {
		variant = ktx.VariantKTX1
	}

	opts := pipeline.Options{
		InputPath:   *input,
		OutputPath:  *output,
		Format:      format,
		TextureType: textureType,
		Backend:     *encoderName,
		Quality:     *quality,

		Swizzle:   *swizzle,
		AvgMask:   *avg,
		AvgBlockW: 4,
		AvgBlockH: 4,

		ResizeW:      resizeW,
		ResizeH:      resizeH,
		ResizePow2:   *resizePow2,
		ResizeFilter: filter,

		Premultiply:  *premul,
		NormalMap:    *normal,
		SDF:          *sdf,
		SDFMaxRadius: *sdfRadius,
		OptOpaque:    *optopaque,

		Mip: mipmap.Policy{
			Enabled:     !*mipNone,
			MinPx:       *mipMin,
			MaxPx:       *mipMax,
			Filter:      filter,
			KeepNonPow2: *mipAlign,
		},

		Variant:     variant,
		AlignBlocks: true,
	}

	if *verbose {
		fmt.Printf("encoding %s -> %s as %s (quality %d)\n", *input, *output, format, *quality)
	}

	return pipeline.Encode(opts)
}
