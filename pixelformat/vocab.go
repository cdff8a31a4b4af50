package pixelformat

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gogpu/texpack"
)

// Vocab names one of the three external identification schemes a
// Container header can emit a format in (spec §6): OpenGL enum-style
// names, Vulkan VK_FORMAT_* names, and Metal's camelCase names.
type Vocab uint8

const (
	VocabGL Vocab = iota
	VocabVulkan
	VocabMetal
)

func (v Vocab) String() string {
	switch v {
	case VocabGL:
		return "GL"
	case VocabVulkan:
		return "Vulkan"
	case VocabMetal:
		return "Metal"
	default:
		return "Vocab(?)"
	}
}

// vocabNames holds the canonical spelling for each format in each
// vocabulary. Every format registered in table (format.go) must appear
// here in all three vocabularies, enforced by init() below, matching
// spec §4.1: "Every supported format must have a stable mapping in all
// three or toExternalName fails with UnmappedFormat."
var vocabNames = map[Format][3]string{
	R8:        {"GL_R8", "VK_FORMAT_R8_UNORM", "r8Unorm"},
	RG8:       {"GL_RG8", "VK_FORMAT_R8G8_UNORM", "rg8Unorm"},
	RGBA8:     {"GL_RGBA8", "VK_FORMAT_R8G8B8A8_UNORM", "rgba8Unorm"},
	R8SRGB:    {"GL_SR8", "VK_FORMAT_R8_SRGB", "r8Unorm_sRGB"},
	RG8SRGB:   {"GL_SRG8", "VK_FORMAT_R8G8_SRGB", "rg8Unorm_sRGB"},
	RGBA8SRGB: {"GL_SRGB8_ALPHA8", "VK_FORMAT_R8G8B8A8_SRGB", "rgba8Unorm_sRGB"},

	R16F:    {"GL_R16F", "VK_FORMAT_R16_SFLOAT", "r16Float"},
	RG16F:   {"GL_RG16F", "VK_FORMAT_R16G16_SFLOAT", "rg16Float"},
	RGBA16F: {"GL_RGBA16F", "VK_FORMAT_R16G16B16A16_SFLOAT", "rgba16Float"},
	R32F:    {"GL_R32F", "VK_FORMAT_R32_SFLOAT", "r32Float"},
	RG32F:   {"GL_RG32F", "VK_FORMAT_R32G32_SFLOAT", "rg32Float"},
	RGBA32F: {"GL_RGBA32F", "VK_FORMAT_R32G32B32A32_SFLOAT", "rgba32Float"},

	BC1:     {"GL_COMPRESSED_RGBA_S3TC_DXT1_EXT", "VK_FORMAT_BC1_RGBA_UNORM_BLOCK", "bc1_rgba"},
	BC1SRGB: {"GL_COMPRESSED_SRGB_ALPHA_S3TC_DXT1_EXT", "VK_FORMAT_BC1_RGBA_SRGB_BLOCK", "bc1_rgba_srgb"},
	BC3:     {"GL_COMPRESSED_RGBA_S3TC_DXT5_EXT", "VK_FORMAT_BC3_UNORM_BLOCK", "bc3_rgba"},
	BC3SRGB: {"GL_COMPRESSED_SRGB_ALPHA_S3TC_DXT5_EXT", "VK_FORMAT_BC3_SRGB_BLOCK", "bc3_rgba_srgb"},
	BC4:     {"GL_COMPRESSED_RED_RGTC1", "VK_FORMAT_BC4_UNORM_BLOCK", "bc4_rUnorm"},
	BC5:     {"GL_COMPRESSED_RG_RGTC2", "VK_FORMAT_BC5_UNORM_BLOCK", "bc5_rgUnorm"},
	BC7:     {"GL_COMPRESSED_RGBA_BPTC_UNORM", "VK_FORMAT_BC7_UNORM_BLOCK", "bc7_rgbaUnorm"},
	BC7SRGB: {"GL_COMPRESSED_SRGB_ALPHA_BPTC_UNORM", "VK_FORMAT_BC7_SRGB_BLOCK", "bc7_rgbaUnorm_srgb"},

	BC6H: {"GL_COMPRESSED_RGB_BPTC_UNSIGNED_FLOAT", "VK_FORMAT_BC6H_UFLOAT_BLOCK", "bc6H_rgbUfloat"},

	ETC2R:        {"GL_COMPRESSED_R11_EAC", "VK_FORMAT_EAC_R11_UNORM_BLOCK", "eac_r11Unorm"},
	ETC2RG:       {"GL_COMPRESSED_RG11_EAC", "VK_FORMAT_EAC_R11G11_UNORM_BLOCK", "eac_rg11Unorm"},
	ETC2RGB:      {"GL_COMPRESSED_RGB8_ETC2", "VK_FORMAT_ETC2_R8G8B8_UNORM_BLOCK", "etc2_rgb8"},
	ETC2RGBA:     {"GL_COMPRESSED_RGBA8_ETC2_EAC", "VK_FORMAT_ETC2_R8G8B8A8_UNORM_BLOCK", "etc2_rgb8A8"},
	ETC2RGBSRGB:  {"GL_COMPRESSED_SRGB8_ETC2", "VK_FORMAT_ETC2_R8G8B8_SRGB_BLOCK", "etc2_rgb8_srgb"},
	ETC2RGBASRGB: {"GL_COMPRESSED_SRGB8_ALPHA8_ETC2_EAC", "VK_FORMAT_ETC2_R8G8B8A8_SRGB_BLOCK", "etc2_rgb8A8_srgb"},

	ASTC4x4:     {"GL_COMPRESSED_RGBA_ASTC_4x4_KHR", "VK_FORMAT_ASTC_4x4_UNORM_BLOCK", "astc_4x4LdrUnorm"},
	ASTC4x4SRGB: {"GL_COMPRESSED_SRGB8_ALPHA8_ASTC_4x4_KHR", "VK_FORMAT_ASTC_4x4_SRGB_BLOCK", "astc_4x4LdrUnorm_srgb"},
	ASTC8x8:     {"GL_COMPRESSED_RGBA_ASTC_8x8_KHR", "VK_FORMAT_ASTC_8x8_UNORM_BLOCK", "astc_8x8LdrUnorm"},
	ASTC8x8SRGB: {"GL_COMPRESSED_SRGB8_ALPHA8_ASTC_8x8_KHR", "VK_FORMAT_ASTC_8x8_SRGB_BLOCK", "astc_8x8LdrUnorm_srgb"},
	ASTC4x4HDR:  {"GL_COMPRESSED_RGBA_ASTC_4x4_KHR", "VK_FORMAT_ASTC_4x4_SFLOAT_BLOCK", "astc_4x4HdrFloat"},
	ASTC8x8HDR:  {"GL_COMPRESSED_RGBA_ASTC_8x8_KHR", "VK_FORMAT_ASTC_8x8_SFLOAT_BLOCK", "astc_8x8HdrFloat"},
}

// foldCaser normalizes external names for case-insensitive lookup: GL
// names are upper-snake, Vulkan names are VK_FORMAT_*, Metal names are
// lower camel-case, and users (or legacy scripts) vary casing across all
// three. Folding once avoids three bespoke comparisons per lookup.
var foldCaser = cases.Fold()

var reverseIndex map[Vocab]map[string]Format

func init() {
	reverseIndex = map[Vocab]map[string]Format{
		VocabGL:     make(map[string]Format, len(vocabNames)),
		VocabVulkan: make(map[string]Format, len(vocabNames)),
		VocabMetal:  make(map[string]Format, len(vocabNames)),
	}
	for f := range table {
		names, ok := vocabNames[f]
		if !ok {
			panic(fmt.Sprintf("pixelformat: %s has no vocabulary mapping", f))
		}
		reverseIndex[VocabGL][foldCaser.String(names[0])] = f
		reverseIndex[VocabVulkan][foldCaser.String(names[1])] = f
		reverseIndex[VocabMetal][foldCaser.String(names[2])] = f
	}
}

// ToExternalName returns the canonical name of f in vocab v. Fails with
// UnmappedFormat (spec §4.1, §7) if f carries no mapping in v — which,
// given the init-time completeness check above, only happens for an
// unregistered Format.
func ToExternalName(v Vocab, f Format) (string, error) {
	names, ok := vocabNames[f]
	if !ok {
		return "", texpack.NewError("pixelformat.ToExternalName", texpack.KindUnmappedFormat,
			fmt.Errorf("%s has no mapping in %s", f, v))
	}
	switch v {
	case VocabGL:
		return names[0], nil
	case VocabVulkan:
		return names[1], nil
	case VocabMetal:
		return names[2], nil
	default:
		return "", fmt.Errorf("pixelformat.ToExternalName: unknown vocabulary %d", v)
	}
}

// FromExternalName resolves a vocabulary-specific name back to a Format.
// Matching is case-insensitive (see foldCaser).
func FromExternalName(v Vocab, name string) (Format, error) {
	idx, ok := reverseIndex[v]
	if !ok {
		return Unknown, fmt.Errorf("pixelformat.FromExternalName: unknown vocabulary %d", v)
	}
	f, ok := idx[foldCaser.String(name)]
	if !ok {
		return Unknown, texpack.NewError("pixelformat.FromExternalName", texpack.KindUnmappedFormat,
			fmt.Errorf("no %s format named %q", v, name))
	}
	return f, nil
}

// Language is exported only so callers embedding this package's cases
// usage in their own CLI help text can reuse the same base language tag
// without importing golang.org/x/text/language directly.
var Language = language.Und
