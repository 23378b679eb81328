package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/molsim/internal/dynamo"
	"github.com/san-kum/molsim/internal/geom"
	"github.com/san-kum/molsim/internal/trajectory"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

// Coordinate is an internal coordinate over 2, 3 or 4 atoms: a bond length
// (nm), a bend angle or a dihedral (rad). Atoms are 0-based.
type Coordinate struct {
	Atoms []int
}

// ParseCoordinate reads a comma separated list of 1-based atom indices,
// e.g. "1,2,3,4" for a dihedral.
func ParseCoordinate(s string) (Coordinate, error) {
	fields := strings.Split(s, ",")
	if len(fields) < 2 || len(fields) > 4 {
		return Coordinate{}, fmt.Errorf("%w: coordinate %q needs 2 to 4 atoms", dynamo.ErrArity, s)
	}
	c := Coordinate{Atoms: make([]int, len(fields))}
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return Coordinate{}, fmt.Errorf("%w: coordinate %q: %v", dynamo.ErrBadParameter, s, err)
		}
		if n < 1 {
			return Coordinate{}, fmt.Errorf("%w: coordinate %q: index %d", dynamo.ErrAtomIndex, s, n)
		}
		c.Atoms[i] = n - 1
	}
	return c, nil
}

func (c Coordinate) String() string {
	names := map[int]string{2: "bond", 3: "angle", 4: "dihedral"}
	parts := make([]string, len(c.Atoms))
	for i, a := range c.Atoms {
		parts[i] = strconv.Itoa(a + 1)
	}
	return names[len(c.Atoms)] + "(" + strings.Join(parts, "-") + ")"
}

// Measure evaluates the coordinate on one set of positions.
func (c Coordinate) Measure(box geom.Box, pos []r3.Vec) float64 {
	at := c.Atoms
	switch len(at) {
	case 2:
		return geom.Bond(box.Displace(pos[at[0]], pos[at[1]]))
	case 3:
		return geom.NewAngle(box.Displace(pos[at[1]], pos[at[0]]), box.Displace(pos[at[1]], pos[at[2]])).Theta
	case 4:
		return geom.NewDihedral(
			box.Displace(pos[at[0]], pos[at[1]]),
			box.Displace(pos[at[1]], pos[at[2]]),
			box.Displace(pos[at[2]], pos[at[3]])).Psi
	}
	return math.NaN()
}

// Series measures c on every frame.
func Series(frames []trajectory.Frame, box geom.Box, c Coordinate) ([]float64, error) {
	out := make([]float64, len(frames))
	for i, f := range frames {
		for _, a := range c.Atoms {
			if a >= len(f.Positions) {
				return nil, fmt.Errorf("%w: atom %d in frame %d of %d atoms", dynamo.ErrAtomIndex, a+1, i, len(f.Positions))
			}
		}
		out[i] = c.Measure(box, f.Positions)
	}
	return out, nil
}

// Histogram bins xs into bins equal-width bins over [lo, hi). Values
// outside the range are dropped.
func Histogram(xs []float64, bins int, lo, hi float64) []float64 {
	dividers := make([]float64, bins+1)
	for i := range dividers {
		dividers[i] = lo + (hi-lo)*float64(i)/float64(bins)
	}

	in := make([]float64, 0, len(xs))
	for _, x := range xs {
		if x >= lo && x < hi {
			in = append(in, x)
		}
	}
	sort.Float64s(in)
	return stat.Histogram(nil, dividers, in, nil)
}
