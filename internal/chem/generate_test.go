package chem_test

import (
	"math/rand"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lifesim/internal/chem"
)

var _ = Describe("Generate", func() {
	It("produces parseable rules within the requested alphabet", func() {
		t, err := chem.Generate(rand.New(rand.NewSource(3)), 3, 4, 25)
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Len()).To(Equal(25))

		var src strings.Builder
		for _, r := range t.Rules() {
			Expect(r.Left.Species).To(BeNumerically("<", 3))
			Expect(r.Right.State).To(BeNumerically("<", 4))
			Expect(r.StateLeft).To(BeNumerically("<", 4))
			src.WriteString(r.String() + "\n")
		}

		parsed, err := chem.Parse(strings.NewReader(src.String()), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(parsed.Rules()).To(Equal(t.Rules()))
		Expect(parsed.Rejected()).To(BeEmpty())
	})

	It("is reproducible for a seed", func() {
		a, _ := chem.Generate(rand.New(rand.NewSource(9)), 2, 2, 6)
		b, _ := chem.Generate(rand.New(rand.NewSource(9)), 2, 2, 6)
		Expect(a.Rules()).To(Equal(b.Rules()))
	})

	It("stops when the rule space is exhausted", func() {
		t, err := chem.Generate(rand.New(rand.NewSource(1)), 1, 1, 50)
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Len()).To(BeNumerically("<=", 3))
	})

	It("rejects bad alphabets", func() {
		_, err := chem.Generate(rand.New(rand.NewSource(1)), 0, 2, 1)
		Expect(err).To(HaveOccurred())
		_, err = chem.Generate(rand.New(rand.NewSource(1)), 2, 300, 1)
		Expect(err).To(HaveOccurred())
	})
})
