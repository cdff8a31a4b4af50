package image

import "sync"

// Pool is a thread-safe pool for reusing ImageBuf instances, keyed by
// dimensions and format. Mip-chain generation (spec §4.4) allocates and
// discards many intermediate levels per texture; reusing buffers across
// script jobs (spec §9) keeps that off the GC's critical path.
type Pool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*ImageBuf
	maxSize int
}

type poolKey struct {
	width  int
	height int
	format Format
}

// NewPool creates a new image buffer pool with the given maximum buffers
// per bucket. maxPerBucket of 0 means unlimited (use with caution).
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[poolKey][]*ImageBuf),
		maxSize: maxPerBucket,
	}
}

// Get retrieves an image buffer from the pool or creates a new one. If a
// buffer is reused, it is cleared (all pixels zeroed) first.
func (p *Pool) Get(width, height int, format Format) *ImageBuf {
	key := poolKey{width: width, height: height, format: format}

	p.mu.Lock()
	bucket := p.buckets[key]
	var buf *ImageBuf
	if len(bucket) > 0 {
		buf = bucket[len(bucket)-1]
		p.buckets[key] = bucket[:len(bucket)-1]
		p.mu.Unlock()
		buf.Clear()
		return buf
	}
	p.mu.Unlock()

	buf, err := NewImageBuf(width, height, format)
	if err != nil {
		return nil
	}
	return buf
}

// Put returns an image buffer to the pool for reuse, clearing it first.
// If buf is nil or the bucket is at capacity, the buffer is discarded.
func (p *Pool) Put(buf *ImageBuf) {
	if buf == nil {
		return
	}
	buf.Clear()

	key := poolKey{width: buf.width, height: buf.height, format: buf.format}

	p.mu.Lock()
	defer p.mu.Unlock()
	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, buf)
}

// defaultPool is the package-level pool used by mip-chain generation.
var defaultPool = NewPool(8)

// GetFromDefault retrieves an image buffer from the default pool.
func GetFromDefault(width, height int, format Format) *ImageBuf {
	return defaultPool.Get(width, height, format)
}

// PutToDefault returns an image buffer to the default pool.
func PutToDefault(buf *ImageBuf) {
	defaultPool.Put(buf)
}
