package forcefield

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/molsim/internal/dynamo"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestParseRule(t *testing.T) {
	tests := []struct {
		name    string
		want    Rule
		wantErr bool
	}{
		{"geom", Geometric, false},
		{"LB", LorentzBerthelot, false},
		{"lb", 0, true},
		{"", 0, true},
		{"arithmetic", 0, true},
		{"GEOM", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseRule(tt.name)
		if tt.wantErr {
			if !errors.Is(err, dynamo.ErrUnknownRule) {
				t.Errorf("ParseRule(%q): got %v, want ErrUnknownRule", tt.name, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseRule(%q) = %v, %v; want %v", tt.name, got, err, tt.want)
		}
	}
}

func TestCombinationRuleProperties(t *testing.T) {
	params := [][2]float64{{0.34, 0.36}, {0.3166, 0.65}, {2.6e-6, 2.6e-3}, {1, 1}}

	for _, r := range []Rule{Geometric, LorentzBerthelot} {
		for _, a := range params {
			v, w := r.Combine(a[0], a[1], a[0], a[1])
			if !scalar.EqualWithinRel(v, a[0], 1e-14) || !scalar.EqualWithinRel(w, a[1], 1e-14) {
				t.Errorf("%s identity: (%v,%v) -> (%v,%v)", r, a[0], a[1], v, w)
			}
			for _, b := range params {
				v1, w1 := r.Combine(a[0], a[1], b[0], b[1])
				v2, w2 := r.Combine(b[0], b[1], a[0], a[1])
				if v1 != v2 || w1 != w2 {
					t.Errorf("%s not symmetric for %v, %v", r, a, b)
				}
			}
		}
	}
}

func TestRulesAgreeForEqualV(t *testing.T) {
	v := 0.31
	for _, w := range [][2]float64{{0.2, 0.8}, {1.5, 0.01}} {
		gv, gw := Geometric.Combine(v, w[0], v, w[1])
		lv, lw := LorentzBerthelot.Combine(v, w[0], v, w[1])
		if !scalar.EqualWithinRel(gv, lv, 1e-14) || gw != lw {
			t.Errorf("geom (%v,%v) vs LB (%v,%v)", gv, gw, lv, lw)
		}
	}
}

func TestRuleLJForm(t *testing.T) {
	c12, c6 := Geometric.LJ(2e-6, 3e-3)
	if c12 != 2e-6 || c6 != 3e-3 {
		t.Errorf("geom should pass c12, c6 through: got %v, %v", c12, c6)
	}

	sigma, eps := 0.3, 0.5
	c12, c6 = LorentzBerthelot.LJ(sigma, eps)
	if !scalar.EqualWithinRel(c6, 4*eps*math.Pow(sigma, 6), 1e-12) ||
		!scalar.EqualWithinRel(c12, 4*eps*math.Pow(sigma, 12), 1e-12) {
		t.Errorf("LB conversion: got c12=%v c6=%v", c12, c6)
	}

	// minimum of the converted potential sits at 2^(1/6) sigma with depth eps
	rmin := math.Pow(2, 1.0/6) * sigma
	u := c12/math.Pow(rmin, 12) - c6/math.Pow(rmin, 6)
	if !scalar.EqualWithinAbs(u, -eps, 1e-12) {
		t.Errorf("well depth: got %v, want %v", u, -eps)
	}
}
