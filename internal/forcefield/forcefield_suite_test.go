package forcefield

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestForceFieldSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "ForceField Suite")
}
