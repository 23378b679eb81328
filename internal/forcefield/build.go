package forcefield

import (
	"fmt"
	"math"
	"strconv"

	"github.com/san-kum/molsim/internal/dynamo"
	"github.com/san-kum/molsim/internal/logging"
	"github.com/san-kum/molsim/internal/topology"
)

type keywordSpec struct {
	natoms   int
	nparams  int
	optional bool
}

var keywords = map[string]keywordSpec{
	"bond_harm":  {natoms: 2, nparams: 2},
	"angle_harm": {natoms: 3, nparams: 2},
	"pdih":       {natoms: 4, nparams: 3},
	"idih_harm":  {natoms: 4, nparams: 2},
	"rb_dih":     {natoms: 4, nparams: 6},
	"lj_pair":    {natoms: 2, nparams: 2, optional: true},
	"coul_pair":  {natoms: 2, nparams: 2, optional: true},
	"buck_pair":  {natoms: 2, nparams: 3},
}

// Build resolves every molecule template replica into global interactions.
// Any error aborts the build.
func Build(top *topology.Topology, log logging.Logger) (*ForceField, []dynamo.Atom, error) {
	if log == nil {
		log = logging.NewNoOp()
	}

	rule, err := ParseRule(top.Rule)
	if err != nil {
		return nil, nil, err
	}

	atoms, err := top.Expand()
	if err != nil {
		return nil, nil, err
	}

	ff := New(len(atoms), top.Box())
	ff.Rule = rule
	ff.LJScale = top.LJScale
	ff.QQScale = top.QQScale

	offsets := top.Offsets()
	for mi, mol := range top.Molecules {
		n := len(mol.Atoms)
		for r := 0; r < mol.NMols; r++ {
			base := r*n + offsets[mi]
			for e, spec := range mol.Interactions {
				in, err := resolve(spec, base, n, atoms, rule)
				if err == nil {
					err = ff.Add(in)
				}
				if err != nil {
					return nil, nil, &dynamo.BuildError{Molecule: mol.Name, Entry: e, Keyword: spec.Keyword, Wrapped: err}
				}
			}
		}
		log.Debugf("molecule %s: %d x %d atoms at offset %d", mol.Name, mol.NMols, n, offsets[mi])
	}

	log.Infof("force field: %d atoms, %d interactions, rule %s", len(atoms), ff.Len(), rule)
	return ff, atoms, nil
}

// resolve turns one template entry into an interaction with global atom
// indices. base is the global index of the replica's first atom and n the
// number of atoms per molecule.
func resolve(spec topology.InteractionSpec, base, n int, atoms []dynamo.Atom, rule Rule) (Interaction, error) {
	kw, ok := keywords[spec.Keyword]
	if !ok {
		return nil, fmt.Errorf("%w: %q", dynamo.ErrUnknownKeyword, spec.Keyword)
	}
	if len(spec.Atoms) != kw.natoms {
		return nil, fmt.Errorf("%w: want %d, got %d", dynamo.ErrArity, kw.natoms, len(spec.Atoms))
	}

	idx := make([]int, kw.natoms)
	for i, local := range spec.Atoms {
		if local < 1 || local > n {
			return nil, fmt.Errorf("%w: local atom %d not in 1..%d", dynamo.ErrAtomIndex, local, n)
		}
		idx[i] = base + local - 1
	}

	if !(len(spec.Params) == kw.nparams || (kw.optional && len(spec.Params) == 0)) {
		return nil, fmt.Errorf("%w: want %d parameters, got %d", dynamo.ErrBadParameter, kw.nparams, len(spec.Params))
	}
	p := make([]float64, len(spec.Params))
	for i, tok := range spec.Params {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: parameter %d %q", dynamo.ErrBadParameter, i+1, tok)
		}
		p[i] = v
	}

	switch spec.Keyword {
	case "bond_harm":
		return BondHarmonic{K: p[0], R0: p[1], Atoms: [2]int{idx[0], idx[1]}}, nil
	case "angle_harm":
		return AngleHarmonic{K: p[0], T0: p[1], Atoms: [3]int{idx[0], idx[1], idx[2]}}, nil
	case "pdih":
		return DihedralPeriodic{K: p[0], N: p[1], P0: p[2], Atoms: [4]int(idx)}, nil
	case "idih_harm":
		return ImproperDihedralHarmonic{K: p[0], P0: p[1], Atoms: [4]int(idx)}, nil
	case "rb_dih":
		return DihedralRB{C: [6]float64(p), Atoms: [4]int(idx)}, nil
	case "lj_pair":
		var v, w float64
		if len(p) == 0 {
			ai, aj := atoms[idx[0]], atoms[idx[1]]
			v, w = rule.Combine(ai.V, ai.W, aj.V, aj.W)
		} else {
			v, w = p[0], p[1]
		}
		c12, c6 := rule.LJ(v, w)
		return LJPair{C12: c12, C6: c6, Atoms: [2]int(idx)}, nil
	case "coul_pair":
		if len(p) == 0 {
			return CoulombPair{Qi: atoms[idx[0]].Charge, Qj: atoms[idx[1]].Charge, Atoms: [2]int(idx)}, nil
		}
		return CoulombPair{Qi: p[0], Qj: p[1], Atoms: [2]int(idx)}, nil
	default:
		return BuckinghamPair{A: p[0], B: p[1], C: p[2], Atoms: [2]int(idx)}, nil
	}
}
