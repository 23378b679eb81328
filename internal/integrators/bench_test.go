package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/molsim/internal/dynamo"
	"github.com/san-kum/molsim/internal/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

func benchSystem(b *testing.B, n int) *dynamo.System {
	atoms := make([]dynamo.Atom, n)
	pos := make([]r3.Vec, n)
	for i := range atoms {
		atoms[i] = dynamo.Atom{Index: i, Mass: 12}
		x := float64(i)
		pos[i] = r3.Vec{X: math.Sin(x), Y: math.Cos(x), Z: 0.01 * x}
	}
	s, err := dynamo.NewSystem(atoms, pos, geom.Box{})
	if err != nil {
		b.Fatal(err)
	}
	return s
}

func BenchmarkVelocityVerlet(b *testing.B) {
	s := benchSystem(b, 10000)
	vv := NewVelocityVerlet(0.001)
	vv.Init(spring{1}, s)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		vv.Step(spring{1}, s)
	}
}

func BenchmarkLeapfrog(b *testing.B) {
	s := benchSystem(b, 10000)
	lf := NewLeapfrog(0.001)
	lf.Init(spring{1}, s)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		lf.Step(spring{1}, s)
	}
}
