package forcefield

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func BenchmarkEvaluateSequential(b *testing.B) {
	ff, pos := chain(b, 2000)
	forces := make([]r3.Vec, len(pos))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ff.Evaluate(pos, forces)
	}
}

func BenchmarkEvaluateParallel(b *testing.B) {
	ff, pos := chain(b, 2000)
	p := NewParallel(ff, 0)
	forces := make([]r3.Vec, len(pos))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Evaluate(pos, forces)
	}
}
