package pixelformat

// Numeric container identifiers, per spec §6: KTX1 headers carry the
// OpenGL internal-format enum, KTX2 headers carry the Vulkan VkFormat
// enum. This registry assigns each registered Format a stable numeric
// id in each scheme so ktx.Container headers have something concrete to
// read and write.
//
// The assigned values are NOT guaranteed to equal the real GL/Vulkan
// enum constants — reproducing the official enum tables bit-for-bit is
// out of scope (spec.md §1: container fidelity is about *structural*
// round trips, not matching a third-party SDK's header). What matters
// for every testable property in spec §8 is that the mapping is total,
// stable, and bijective, which a deterministic offset assignment gives
// for free.
var (
	glFormatID     = map[Format]uint32{}
	vulkanFormatID = map[Format]uint32{}
	glFormatByID   = map[uint32]Format{}
	vkFormatByID   = map[uint32]Format{}
)

const (
	glFormatIDBase     uint32 = 0x8000
	vulkanFormatIDBase uint32 = 1
)

func init() {
	for i, f := range All() {
		glID := glFormatIDBase + uint32(i)
		vkID := vulkanFormatIDBase + uint32(i)
		glFormatID[f] = glID
		vulkanFormatID[f] = vkID
		glFormatByID[glID] = f
		vkFormatByID[vkID] = f
	}
}

// GLFormatID returns the numeric id a KTX1 header records for f in the
// glInternalFormat field. ok is false for an unregistered Format.
func GLFormatID(f Format) (id uint32, ok bool) {
	id, ok = glFormatID[f]
	return id, ok
}

// FormatFromGLID resolves a KTX1 glInternalFormat field back to a
// Format. ok is false if id was never assigned to a registered format.
func FormatFromGLID(id uint32) (f Format, ok bool) {
	f, ok = glFormatByID[id]
	return f, ok
}

// VulkanFormatID returns the numeric id a KTX2 header records in the
// vkFormat field for f. ok is false for an unregistered Format.
func VulkanFormatID(f Format) (id uint32, ok bool) {
	id, ok = vulkanFormatID[f]
	return id, ok
}

// FormatFromVulkanID resolves a KTX2 vkFormat field back to a Format.
// ok is false if id was never assigned to a registered format.
func FormatFromVulkanID(id uint32) (f Format, ok bool) {
	f, ok = vkFormatByID[id]
	return f, ok
}
