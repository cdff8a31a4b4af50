package ktx

import (
	"fmt"

	"github.com/gogpu/texpack"
)

// Props is the Container's key/value property bag: a mapping from short
// string keys to short string values, insertion-ordered and
// duplicate-rejecting so byte-exact round trips are possible (spec §3
// "props is a mapping... order-preserving for byte-exact round trip";
// §9 "ordered string-keyed props with duplicate rejection").
type Props struct {
	keys  []string
	vals  []string
	index map[string]int
}

// NewProps returns an empty Props ready for Set.
func NewProps() *Props {
	return &Props{index: make(map[string]int)}
}

// Set appends key/value, preserving insertion order. It fails if key was
// already set — parse and construction both reject duplicates rather
// than silently overwriting (spec §9).
func (p *Props) Set(key, value string) error {
	if _, exists := p.index[key]; exists {
		return texpack.NewError("ktx.Props.Set", texpack.KindBadSignature,
			fmt.Errorf("duplicate key %q", key))
	}
	p.index[key] = len(p.keys)
	p.keys = append(p.keys, key)
	p.vals = append(p.vals, value)
	return nil
}

// Get returns the value for key and whether it was present.
func (p *Props) Get(key string) (string, bool) {
	i, ok := p.index[key]
	if !ok {
		return "", false
	}
	return p.vals[i], true
}

// Len returns the number of key/value pairs.
func (p *Props) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Keys returns the keys in insertion order. The returned slice must not
// be mutated by the caller.
func (p *Props) Keys() []string {
	if p == nil {
		return nil
	}
	return p.keys
}

// Range calls fn for each key/value pair in insertion order.
func (p *Props) Range(fn func(key, value string)) {
	if p == nil {
		return
	}
	for i, k := range p.keys {
		fn(k, p.vals[i])
	}
}
