// Package topology describes the static system before force-field
// resolution: atom types, molecule templates and their interaction specs.
package topology

import (
	"fmt"
	"os"

	"github.com/san-kum/molsim/internal/dynamo"
	"github.com/san-kum/molsim/internal/geom"
	"gopkg.in/yaml.v3"
)

// AtomType is a named template of element, mass and van der Waals
// parameters. It only exists during the build.
type AtomType struct {
	Element int     `yaml:"element"`
	Mass    float64 `yaml:"mass"`
	V       float64 `yaml:"v"`
	W       float64 `yaml:"w"`
}

// AtomSpec is one atom of a molecule template.
type AtomSpec struct {
	Name   string  `yaml:"name"`
	Type   string  `yaml:"type"`
	Charge float64 `yaml:"charge"`
}

// InteractionSpec is a bonded or pair term of a molecule template. Atoms
// are 1-based indices local to the molecule. Params are kept as raw tokens
// and parsed by the builder.
type InteractionSpec struct {
	Keyword string   `yaml:"type"`
	Atoms   []int    `yaml:"atoms"`
	Params  []string `yaml:"params,omitempty"`
}

// Molecule is a template replicated NMols times.
type Molecule struct {
	Name         string            `yaml:"name"`
	NMols        int               `yaml:"nmols"`
	Atoms        []AtomSpec        `yaml:"atoms"`
	Interactions []InteractionSpec `yaml:"interactions"`
}

// Topology is the full static description of a system.
type Topology struct {
	Rule      string              `yaml:"combination_rule"`
	LJScale   float64             `yaml:"ljscale"`
	QQScale   float64             `yaml:"qqscale"`
	BoxLength []float64           `yaml:"box,omitempty"`
	AtomTypes map[string]AtomType `yaml:"atomtypes"`
	Molecules []Molecule          `yaml:"molecules"`
}

// New returns an empty topology with unit scale factors and the geometric
// combination rule.
func New() *Topology {
	return &Topology{
		Rule:      "geom",
		LJScale:   1.0,
		QQScale:   1.0,
		AtomTypes: make(map[string]AtomType),
	}
}

// Load reads a YAML topology file.
func Load(path string) (*Topology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML topology document. Fields absent from the document
// keep the defaults of New.
func Parse(data []byte) (*Topology, error) {
	t := New()
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("parse topology: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Save writes the topology as YAML.
func (t *Topology) Save(path string) error {
	data, err := yaml.Marshal(t)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the structural constraints that do not depend on
// interaction keywords.
func (t *Topology) Validate() error {
	if len(t.BoxLength) != 0 && len(t.BoxLength) != 3 {
		return fmt.Errorf("%w: box needs 3 lengths, got %d", dynamo.ErrBadParameter, len(t.BoxLength))
	}
	for _, m := range t.Molecules {
		if m.NMols < 0 {
			return fmt.Errorf("%w: molecule %s has negative nmols %d", dynamo.ErrBadParameter, m.Name, m.NMols)
		}
		for _, a := range m.Atoms {
			if _, ok := t.AtomTypes[a.Type]; !ok {
				return fmt.Errorf("%w: %q in molecule %s", dynamo.ErrUnknownAtomType, a.Type, m.Name)
			}
		}
	}
	return nil
}

// Box returns the simulation box. A missing box is non-periodic.
func (t *Topology) Box() geom.Box {
	if len(t.BoxLength) != 3 {
		return geom.Box{}
	}
	return geom.NewBox(t.BoxLength[0], t.BoxLength[1], t.BoxLength[2])
}

// NAtoms returns the total number of atoms after replication.
func (t *Topology) NAtoms() int {
	n := 0
	for _, m := range t.Molecules {
		n += m.NMols * len(m.Atoms)
	}
	return n
}

// Offsets returns the global index of the first atom of each molecule
// template, in declaration order.
func (t *Topology) Offsets() []int {
	offsets := make([]int, len(t.Molecules))
	base := 0
	for i, m := range t.Molecules {
		offsets[i] = base
		base += m.NMols * len(m.Atoms)
	}
	return offsets
}

// Expand replicates every molecule template into the flat atom array.
func (t *Topology) Expand() ([]dynamo.Atom, error) {
	atoms := make([]dynamo.Atom, 0, t.NAtoms())
	for _, m := range t.Molecules {
		for r := 0; r < m.NMols; r++ {
			for _, spec := range m.Atoms {
				at, ok := t.AtomTypes[spec.Type]
				if !ok {
					return nil, fmt.Errorf("%w: %q in molecule %s", dynamo.ErrUnknownAtomType, spec.Type, m.Name)
				}
				atoms = append(atoms, dynamo.Atom{
					Index:   len(atoms),
					Name:    spec.Name,
					Type:    spec.Type,
					Element: at.Element,
					Mass:    at.Mass,
					Charge:  spec.Charge,
					V:       at.V,
					W:       at.W,
				})
			}
		}
	}
	return atoms, nil
}
