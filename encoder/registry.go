package encoder

import (
	"github.com/gogpu/texpack/backend"
	"github.com/gogpu/texpack/backend/astcenc"
	"github.com/gogpu/texpack/backend/ate"
	"github.com/gogpu/texpack/backend/bcenc"
	"github.com/gogpu/texpack/backend/etcenc"
	"github.com/gogpu/texpack/backend/explicit"
	"github.com/gogpu/texpack/backend/squish"
)

// Registry holds the backends EncodeLevelChunk dispatches across, in
// registration order: when no backend is pinned, the first one that
// supports a format wins (spec §4.5 "the registry picks the first
// available backend matching contentFlags and supporting the requested
// format").
type Registry struct {
	adapters []backend.Adapter
	byName   map[string]backend.Adapter
}

// NewRegistry builds the default registry, in the priority order the
// feasibility table implies: explicit for uncompressed formats, then
// squish before bcenc before ate for the BC LDR family, astcenc before
// ate for ASTC LDR, etcenc alone for ETC2, astcenc alone for ASTC HDR.
func NewRegistry() *Registry {
	return NewRegistryFrom(
		explicit.Adapter{},
		squish.Adapter{},
		bcenc.Adapter{},
		astcenc.Adapter{},
		ate.Adapter{},
		etcenc.Adapter{},
	)
}

// NewRegistryFrom builds a registry from an explicit adapter list and
// order, for tests that need to pin or reorder backends.
func NewRegistryFrom(adapters ...backend.Adapter) *Registry {
	r := &Registry{adapters: adapters, byName: make(map[string]backend.Adapter, len(adapters))}
	for _, a := range adapters {
		r.byName[a.Capability().Name] = a
	}
	return r
}

// Backends returns the registered adapters' capability descriptors, in
// registration order, for `info`-style introspection.
func (r *Registry) Backends() []backend.Capability {
	out := make([]backend.Capability, len(r.adapters))
	for i, a := range r.adapters {
		out[i] = a.Capability()
	}
	return out
}
