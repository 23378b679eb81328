package metrics

import (
	"math"

	"github.com/san-kum/molsim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// Stability is the fraction of observed steps in which every atom speed is
// finite and below a threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(sys *dynamo.System, t, epot float64) {
	s.samples++
	for _, v := range sys.Velocities {
		speed := r3.Norm(v)
		if math.IsNaN(speed) || speed > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// MomentumDrift is the largest magnitude of the total linear momentum seen
// during the run. Pair and bonded forces cancel exactly, so it stays at
// rounding level.
type MomentumDrift struct {
	name string
	max  float64
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(s *dynamo.System, t, epot float64) {
	m.max = math.Max(m.max, r3.Norm(Momentum(s)))
}

func (m *MomentumDrift) Value() float64 { return m.max }

func (m *MomentumDrift) Reset() { m.max = 0 }
