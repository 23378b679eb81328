package forcefield

import (
	"sync"

	"gonum.org/v1/gonum/spatial/r3"
)

// bufferPool recycles per-worker force buffers of a fixed length.
type bufferPool struct {
	pool sync.Pool
	size int
}

func newBufferPool(size int) *bufferPool {
	return &bufferPool{
		size: size,
		pool: sync.Pool{
			New: func() interface{} {
				return make([]r3.Vec, size)
			},
		},
	}
}

func (p *bufferPool) Get() []r3.Vec {
	return p.pool.Get().([]r3.Vec)
}

// Put zeroes buf and returns it to the pool. Buffers of the wrong length
// are dropped.
func (p *bufferPool) Put(buf []r3.Vec) {
	if len(buf) == p.size {
		for i := range buf {
			buf[i] = r3.Vec{}
		}
		p.pool.Put(buf)
	}
}
