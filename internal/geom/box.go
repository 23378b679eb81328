package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Box is an orthorhombic simulation cell. A zero length along an axis
// disables periodicity along that axis, so the zero Box is open space.
type Box struct {
	L r3.Vec
}

// NewBox returns a box with edge lengths x, y and z.
func NewBox(x, y, z float64) Box {
	return Box{L: r3.Vec{X: x, Y: y, Z: z}}
}

// Periodic reports whether any axis is periodic.
func (b Box) Periodic() bool {
	return b.L.X > 0 || b.L.Y > 0 || b.L.Z > 0
}

// MinImage maps d onto its shortest periodic image.
func (b Box) MinImage(d r3.Vec) r3.Vec {
	d.X = minImage(d.X, b.L.X)
	d.Y = minImage(d.Y, b.L.Y)
	d.Z = minImage(d.Z, b.L.Z)
	return d
}

// Wrap maps a position into [0, L) along every periodic axis.
func (b Box) Wrap(p r3.Vec) r3.Vec {
	p.X = wrap(p.X, b.L.X)
	p.Y = wrap(p.Y, b.L.Y)
	p.Z = wrap(p.Z, b.L.Z)
	return p
}

// Displace returns the minimum-image displacement c - a.
func (b Box) Displace(a, c r3.Vec) r3.Vec {
	d := r3.Sub(c, a)
	if !b.Periodic() {
		return d
	}
	return b.MinImage(d)
}

func minImage(x, l float64) float64 {
	if l <= 0 {
		return x
	}
	return x - l*math.Round(x/l)
}

func wrap(x, l float64) float64 {
	if l <= 0 {
		return x
	}
	return x - l*math.Floor(x/l)
}
