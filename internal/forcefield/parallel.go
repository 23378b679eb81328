package forcefield

import (
	"runtime"

	"github.com/san-kum/molsim/internal/dynamo"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultMinChunk is the smallest number of interactions handed to one
// worker.
const DefaultMinChunk = 64

// Parallel evaluates a ForceField with several workers. Each worker
// accumulates a contiguous slice of the interaction list into a private
// buffer; the buffers are summed into the caller's force array in a fixed
// order once all workers finish, so results are reproducible for a given
// worker count.
type Parallel struct {
	ff       *ForceField
	workers  int
	minChunk int
	bufs     *bufferPool
}

// NewParallel returns a parallel evaluator. workers <= 0 uses GOMAXPROCS.
func NewParallel(ff *ForceField, workers int) *Parallel {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Parallel{
		ff:       ff,
		workers:  workers,
		minChunk: DefaultMinChunk,
		bufs:     newBufferPool(ff.NAtoms()),
	}
}

// WithMinChunk sets the smallest per-worker share of interactions.
func (p *Parallel) WithMinChunk(n int) *Parallel {
	if n < 1 {
		n = 1
	}
	p.minChunk = n
	return p
}

func (p *Parallel) Workers() int { return p.workers }

// Evaluate adds the forces at pos into forces and returns the total
// potential energy.
func (p *Parallel) Evaluate(pos, forces []r3.Vec) float64 {
	n := p.ff.Len()
	workers := min(p.workers, n/p.minChunk)
	if workers <= 1 {
		return p.ff.Evaluate(pos, forces)
	}

	chunk := (n + workers - 1) / workers
	nchunks := (n + chunk - 1) / chunk
	energies := make([]float64, nchunks)
	partial := make([][]r3.Vec, nchunks)

	var g errgroup.Group
	for c := 0; c < nchunks; c++ {
		c := c
		start := c * chunk
		end := min(start+chunk, n)
		g.Go(func() error {
			buf := p.bufs.Get()
			energies[c] = p.ff.evalTerms(pos, buf, start, end)
			partial[c] = buf
			return nil
		})
	}
	_ = g.Wait()

	dynamo.ParallelFor(len(forces), 1024, func(lo, hi int) {
		for _, buf := range partial {
			for i := lo; i < hi; i++ {
				forces[i] = r3.Add(forces[i], buf[i])
			}
		}
	})

	var u float64
	for c, buf := range partial {
		u += energies[c]
		p.bufs.Put(buf)
	}
	return u
}
