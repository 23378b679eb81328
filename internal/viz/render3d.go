package viz

import (
	"math"
	"sort"

	"github.com/san-kum/molsim/internal/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

// Camera projects world coordinates (nm) onto a canvas. Fit centres the
// view on a set of points and scales them to fill it.
type Camera struct {
	Center           r3.Vec
	Extent           float64
	RotX, RotY, RotZ float64
	Zoom             float64
	Distance         float64
}

func NewCamera() *Camera {
	return &Camera{Extent: 1, Zoom: 1, Distance: 4}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// Fit centres the camera on the bounding box of points.
func (c *Camera) Fit(points []r3.Vec) {
	if len(points) == 0 {
		return
	}
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		lo = r3.Vec{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = r3.Vec{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}
	c.Center = r3.Scale(0.5, r3.Add(lo, hi))
	c.Extent = 0.5 * r3.Norm(r3.Sub(hi, lo))
	if c.Extent == 0 {
		c.Extent = 1
	}
}

// RotatePoint applies the camera rotation about X, then Y, then Z.
func (c *Camera) RotatePoint(p r3.Vec) r3.Vec {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project maps p to dot coordinates on a sw x sh canvas and returns its
// depth and whether it lands on the canvas.
func (c *Camera) Project(p r3.Vec, sw, sh int) (int, int, float64, bool) {
	rot := r3.Scale(c.Zoom/c.Extent, c.RotatePoint(r3.Sub(p, c.Center)))
	if rot.Z >= c.Distance-0.1 {
		return 0, 0, 0, false
	}
	scale := c.Distance / (c.Distance - rot.Z)
	half := 0.45 * float64(min(sw, sh))
	sx := int(rot.X*scale*half) + sw/2
	sy := int(-rot.Y*scale*half) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

// Edge is a line segment; Start == End marks an atom.
type Edge struct {
	Start, End r3.Vec
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe           { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e r3.Vec) { w.Edges = append(w.Edges, Edge{s, e}) }
func (w *Wireframe) AddPoint(p r3.Vec)   { w.Edges = append(w.Edges, Edge{p, p}) }
func (w *Wireframe) Clear()              { w.Edges = w.Edges[:0] }

func (w *Wireframe) Points() (out []r3.Vec) {
	for _, e := range w.Edges {
		out = append(out, e.Start, e.End)
	}
	return out
}

// MoleculeWireframe draws every atom, every bond (to the nearest image of
// its second atom) and the box outline when box is periodic.
func MoleculeWireframe(pos []r3.Vec, bonds [][2]int, box geom.Box) *Wireframe {
	w := NewWireframe()
	for _, p := range pos {
		w.AddPoint(p)
	}
	for _, b := range bonds {
		start := pos[b[0]]
		w.AddEdge(start, r3.Add(start, box.Displace(start, pos[b[1]])))
	}
	if box.Periodic() {
		addBox(w, box.L)
	}
	return w
}

func addBox(w *Wireframe, l r3.Vec) {
	v := []r3.Vec{
		{}, {X: l.X}, {X: l.X, Y: l.Y}, {Y: l.Y},
		{Z: l.Z}, {X: l.X, Z: l.Z}, l, {Y: l.Y, Z: l.Z},
	}
	ei := [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {4, 5}, {5, 6}, {6, 7}, {7, 4}, {0, 4}, {1, 5}, {2, 6}, {3, 7}}
	for _, e := range ei {
		w.AddEdge(v[e[0]], v[e[1]])
	}
}

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
}

// Render3D draws the wireframe back to front. Atoms are drawn as discs.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	cw, ch := c.DotWidth(), c.DotHeight()
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, cw, ch)
		x2, y2, d2, v2 := cam.Project(e.End, cw, ch)
		if v1 || v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		if e.x1 == e.x2 && e.y1 == e.y2 {
			c.DrawDisc(e.x1, e.y1, 1)
		} else {
			c.DrawLine(e.x1, e.y1, e.x2, e.y2)
		}
	}
}
