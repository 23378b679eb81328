package forcefield

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/molsim/internal/dynamo"
	"github.com/san-kum/molsim/internal/topology"
)

var _ = Describe("Build", func() {
	var top *topology.Topology

	threeAtoms := func() []topology.AtomSpec {
		return []topology.AtomSpec{
			{Name: "C1", Type: "C", Charge: -0.2},
			{Name: "C2", Type: "C", Charge: 0.1},
			{Name: "O", Type: "O", Charge: 0.1},
		}
	}

	BeforeEach(func() {
		top = topology.New()
		top.AtomTypes["C"] = topology.AtomType{Element: 6, Mass: 12.011, V: 0.34, W: 0.36}
		top.AtomTypes["O"] = topology.AtomType{Element: 8, Mass: 15.999, V: 0.30, W: 0.88}
	})

	Context("with replicated molecules", func() {
		BeforeEach(func() {
			top.Molecules = []topology.Molecule{
				{Name: "one", NMols: 1, Atoms: threeAtoms()},
				{Name: "two", NMols: 10, Atoms: threeAtoms(), Interactions: []topology.InteractionSpec{
					{Keyword: "bond_harm", Atoms: []int{2, 3}, Params: []string{"1000", "0.14"}},
				}},
			}
		})

		It("offsets local indices by replica and molecule base", func() {
			ff, atoms, err := Build(top, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(atoms).To(HaveLen(33))
			Expect(ff.NAtoms()).To(Equal(33))
			Expect(ff.Bonds()).To(HaveLen(10))
			Expect(ff.Bonds()[0].Atoms).To(Equal([2]int{4, 5}))
			Expect(ff.Bonds()[9].Atoms).To(Equal([2]int{31, 32}))
		})

		It("copies the topology scale factors and rule", func() {
			top.LJScale = 0.5
			top.QQScale = 0.8333
			top.Rule = "LB"
			ff, _, err := Build(top, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(ff.LJScale).To(Equal(0.5))
			Expect(ff.QQScale).To(Equal(0.8333))
			Expect(ff.Rule).To(Equal(LorentzBerthelot))
		})
	})

	Context("with every keyword", func() {
		BeforeEach(func() {
			atoms := append(threeAtoms(), topology.AtomSpec{Name: "H", Type: "C"})
			top.Molecules = []topology.Molecule{{Name: "all", NMols: 2, Atoms: atoms, Interactions: []topology.InteractionSpec{
				{Keyword: "bond_harm", Atoms: []int{1, 2}, Params: []string{"1000", "0.15"}},
				{Keyword: "angle_harm", Atoms: []int{1, 2, 3}, Params: []string{"100", "1.91"}},
				{Keyword: "pdih", Atoms: []int{1, 2, 3, 4}, Params: []string{"5", "3", "0"}},
				{Keyword: "idih_harm", Atoms: []int{1, 2, 3, 4}, Params: []string{"40", "0"}},
				{Keyword: "rb_dih", Atoms: []int{1, 2, 3, 4}, Params: []string{"9.28", "12.16", "-13.12", "-3.06", "26.24", "-31.5"}},
				{Keyword: "lj_pair", Atoms: []int{1, 4}},
				{Keyword: "lj_pair", Atoms: []int{1, 3}, Params: []string{"2e-6", "3e-3"}},
				{Keyword: "coul_pair", Atoms: []int{1, 3}},
				{Keyword: "coul_pair", Atoms: []int{2, 4}, Params: []string{"0.5", "-0.5"}},
				{Keyword: "buck_pair", Atoms: []int{2, 4}, Params: []string{"1e5", "30", "1e-3"}},
			}}}
		})

		It("creates one interaction per entry and replica", func() {
			ff, _, err := Build(top, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(ff.Len()).To(Equal(20))
			Expect(ff.Count(KindLJPair)).To(Equal(4))
			Expect(ff.Count(KindCoulombPair)).To(Equal(4))
			Expect(ff.RBDihedrals()[1].Atoms).To(Equal([4]int{4, 5, 6, 7}))
			Expect(ff.RBDihedrals()[1].C[5]).To(Equal(-31.5))
		})

		It("combines van der Waals parameters geometrically", func() {
			ff, _, err := Build(top, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(ff.LJPairs()[0].C12).To(BeNumerically("~", 0.34, 1e-12))
			Expect(ff.LJPairs()[0].C6).To(BeNumerically("~", 0.36, 1e-12))
			Expect(ff.LJPairs()[1].C12).To(Equal(2e-6))
			Expect(ff.LJPairs()[1].C6).To(Equal(3e-3))
		})

		It("applies Lorentz-Berthelot to sigma and epsilon", func() {
			top.Rule = "LB"
			ff, _, err := Build(top, nil)
			Expect(err).NotTo(HaveOccurred())

			sigma, eps := 0.34, 0.36
			Expect(ff.LJPairs()[0].C12).To(BeNumerically("~", 4*eps*math.Pow(sigma, 12), 1e-15))
			Expect(ff.LJPairs()[0].C6).To(BeNumerically("~", 4*eps*math.Pow(sigma, 6), 1e-15))
		})

		It("defaults Coulomb charges to the atom charges", func() {
			ff, _, err := Build(top, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(ff.CoulombPairs()[0].Qi).To(Equal(-0.2))
			Expect(ff.CoulombPairs()[0].Qj).To(Equal(0.1))
			Expect(ff.CoulombPairs()[1].Qi).To(Equal(0.5))
		})
	})

	DescribeTable("rejects malformed entries",
		func(spec topology.InteractionSpec, target error) {
			top.Molecules = []topology.Molecule{{Name: "bad", NMols: 1, Atoms: threeAtoms(),
				Interactions: []topology.InteractionSpec{
					{Keyword: "bond_harm", Atoms: []int{1, 2}, Params: []string{"1", "1"}},
					spec,
				}}}

			ff, _, err := Build(top, nil)
			Expect(ff).To(BeNil())
			Expect(err).To(MatchError(target))

			var be *dynamo.BuildError
			Expect(errors.As(err, &be)).To(BeTrue())
			Expect(be.Molecule).To(Equal("bad"))
			Expect(be.Entry).To(Equal(1))
			Expect(be.Keyword).To(Equal(spec.Keyword))
		},
		Entry("unknown keyword", topology.InteractionSpec{Keyword: "bond_morse", Atoms: []int{1, 2}, Params: []string{"1", "1", "1"}}, dynamo.ErrUnknownKeyword),
		Entry("non-numeric parameter", topology.InteractionSpec{Keyword: "bond_harm", Atoms: []int{1, 2}, Params: []string{"1", "abc"}}, dynamo.ErrBadParameter),
		Entry("NaN parameter", topology.InteractionSpec{Keyword: "bond_harm", Atoms: []int{1, 2}, Params: []string{"NaN", "0.1"}}, dynamo.ErrBadParameter),
		Entry("infinite parameter", topology.InteractionSpec{Keyword: "bond_harm", Atoms: []int{1, 2}, Params: []string{"1", "+Inf"}}, dynamo.ErrBadParameter),
		Entry("missing parameter", topology.InteractionSpec{Keyword: "angle_harm", Atoms: []int{1, 2, 3}, Params: []string{"1"}}, dynamo.ErrBadParameter),
		Entry("missing required buckingham parameters", topology.InteractionSpec{Keyword: "buck_pair", Atoms: []int{1, 2}}, dynamo.ErrBadParameter),
		Entry("index past the molecule", topology.InteractionSpec{Keyword: "bond_harm", Atoms: []int{1, 4}, Params: []string{"1", "1"}}, dynamo.ErrAtomIndex),
		Entry("zero index", topology.InteractionSpec{Keyword: "bond_harm", Atoms: []int{0, 1}, Params: []string{"1", "1"}}, dynamo.ErrAtomIndex),
		Entry("wrong arity", topology.InteractionSpec{Keyword: "pdih", Atoms: []int{1, 2, 3}, Params: []string{"1", "1", "0"}}, dynamo.ErrArity),
	)

	It("rejects an unknown combination rule", func() {
		top.Rule = "arithmetic"
		_, _, err := Build(top, nil)
		Expect(err).To(MatchError(dynamo.ErrUnknownRule))
	})

	It("rejects atoms with undefined types", func() {
		top.Molecules = []topology.Molecule{{Name: "m", NMols: 1, Atoms: []topology.AtomSpec{{Name: "X", Type: "Xe"}}}}
		_, _, err := Build(top, nil)
		Expect(err).To(MatchError(dynamo.ErrUnknownAtomType))
	})
})
