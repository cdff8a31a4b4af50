// Package texpack provides a texture processing engine: source-image
// loading and preprocessing, deterministic mip-chain generation, GPU
// block-compressed and explicit-format encoding, and KTX/KTX2 container
// packaging.
//
// # Overview
//
// texpack turns 8-bit and HDR source images into GPU-ready textures. The
// pipeline is: load → preprocess (swizzle, per-block average, resize,
// colorspace, premultiply, SDF) → generate mips → encode each level
// through a backend adapter → assemble and write a KTX or KTX2
// container.
//
// # Quick Start
//
//	import (
//		"github.com/gogpu/texpack/pipeline"
//		"github.com/gogpu/texpack/pixelformat"
//	)
//
//	opts := pipeline.Options{
//		InputPath:  "albedo.png",
//		OutputPath: "albedo.ktx2",
//		Format:     pixelformat.BC7,
//		Quality:    50,
//	}
//	if err := pipeline.Encode(opts); err != nil {
//		log.Fatal(err)
//	}
//
// # Architecture
//
// The module is organized by dependency order (leaves first):
//
//   - pixelformat: the format registry (channel count, block size, sRGB/
//     signed/float/HDR flags, cross-vocabulary name mapping)
//   - ktx: the KTX1/KTX2 container model (read, build, write)
//   - imagebuffer: the owning pixel buffer (RGBA8/RGBA32F) and its operations
//   - mipmap: deterministic mip-chain construction
//   - encoder: backend dispatch and feasibility rules
//   - backend: capability-gated block-codec adapters
//   - pipeline: the end-to-end orchestrator
//   - script: the concurrent batch-job driver
//
// # Concurrency
//
// A single pipeline run is single-threaded: load, preprocess, mip,
// encode, and write execute in order on one goroutine. Parallelism comes
// from the script driver, which runs independent jobs across a bounded
// worker pool. The pixel format registry and backend adapters are
// reentrant and hold no shared mutable state, so they may be called
// concurrently from multiple script workers.
package texpack
