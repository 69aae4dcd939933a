package chem_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lifesim/internal/chem"
)

func mustTable(lines ...string) *chem.Table {
	t := chem.NewTable()
	for _, line := range lines {
		rule, ok, err := chem.ParseRule(line)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(t.Add(rule)).To(Succeed())
	}
	return t
}

var _ = Describe("Table", func() {
	var (
		a = chem.Reactant{Species: 1, State: 0}
		b = chem.Reactant{Species: 2, State: 0}
		c = chem.Reactant{Species: 3, State: 0}
	)

	It("matches the declared order", func() {
		t := mustTable("1{0}+2{0}->1{5}=2{6}")
		out, ok := t.Lookup(a, b)
		Expect(ok).To(BeTrue())
		Expect(out).To(Equal(chem.Outcome{Kind: chem.Combine, First: 5, Second: 6}))
	})

	It("matches the reversed order with states swapped", func() {
		t := mustTable("1{0}+2{0}->1{5}=2{6}")
		out, ok := t.Lookup(b, a)
		Expect(ok).To(BeTrue())
		Expect(out).To(Equal(chem.Outcome{Kind: chem.Combine, First: 6, Second: 5}))
	})

	It("is symmetric for every stored rule", func() {
		t := mustTable(
			"1{0}+2{0}->1{5}=2{6}",
			"1{1}=3{2}->1{0}+3{0}",
			"2{7}+3{8}->2{9}+3{a}",
			"4{4}+4{4}->4{5}+4{6}",
		)
		for _, rule := range t.Rules() {
			fwd, ok := t.Lookup(rule.Left, rule.Right)
			Expect(ok).To(BeTrue())
			rev, ok := t.Lookup(rule.Right, rule.Left)
			Expect(ok).To(BeTrue())

			Expect(rev.Kind).To(Equal(fwd.Kind))
			if rule.Left != rule.Right {
				Expect(rev.First).To(Equal(fwd.Second))
				Expect(rev.Second).To(Equal(fwd.First))
			}
		}
	})

	It("reports no reaction when neither order matches", func() {
		t := mustTable("1{0}+2{0}->1{5}=2{6}")
		_, ok := t.Lookup(a, c)
		Expect(ok).To(BeFalse())
		_, ok = t.Lookup(a, a)
		Expect(ok).To(BeFalse())
	})

	It("prefers free-pair rules over decomposition for the same reactants", func() {
		t := mustTable("1{0}=2{0}->1{1}+2{1}", "1{0}+2{0}->1{2}=2{2}")
		out, ok := t.Lookup(a, b)
		Expect(ok).To(BeTrue())
		Expect(out.Kind).To(Equal(chem.Combine))

		out, ok = t.LookupKind(chem.Decompose, b, a)
		Expect(ok).To(BeTrue())
		Expect(out).To(Equal(chem.Outcome{Kind: chem.Decompose, First: 1, Second: 1}))
	})

	It("restricts LookupKind to one kind", func() {
		t := mustTable("1{0}+2{0}->1{5}=2{6}")
		_, ok := t.LookupKind(chem.Excite, a, b)
		Expect(ok).To(BeFalse())
		_, ok = t.LookupKind(chem.Decompose, a, b)
		Expect(ok).To(BeFalse())
		_, ok = t.LookupKind(chem.Combine, b, a)
		Expect(ok).To(BeTrue())
	})

	It("rejects combine and excite on the same pair", func() {
		t := mustTable("1{0}+2{0}->1{5}=2{6}")
		rule, _, err := chem.ParseRule("1{0}+2{0}->1{7}+2{7}")
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Add(rule)).To(MatchError(chem.ErrDuplicate))
		Expect(t.Len()).To(Equal(1))
	})

	It("rejects a rule written for the reversed pair", func() {
		t := mustTable("1{0}+2{0}->1{5}=2{6}")
		rule, _, err := chem.ParseRule("2{0}+1{0}->2{7}+1{7}")
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Add(rule)).To(MatchError(chem.ErrDuplicate))
		Expect(t.Len()).To(Equal(1))
	})

	It("keeps lookups symmetric when the source repeats a pair reversed", func() {
		t, err := chem.Parse(strings.NewReader("0{0}+1{0}->0{1}=1{1}\n1{0}+0{0}->1{2}+0{2}\n"), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Len()).To(Equal(1))

		rejected := t.Rejected()
		Expect(rejected).To(HaveLen(1))
		Expect(rejected[0].Line).To(Equal(2))
		Expect(rejected[0]).To(MatchError(chem.ErrDuplicate))

		x := chem.Reactant{Species: 0, State: 0}
		y := chem.Reactant{Species: 1, State: 0}
		fwd, ok := t.Lookup(x, y)
		Expect(ok).To(BeTrue())
		Expect(fwd).To(Equal(chem.Outcome{Kind: chem.Combine, First: 1, Second: 1}))
		rev, ok := t.Lookup(y, x)
		Expect(ok).To(BeTrue())
		Expect(rev).To(Equal(chem.Outcome{Kind: chem.Combine, First: 1, Second: 1}))
	})

	It("returns a copy of its rules", func() {
		t := mustTable("1{0}+2{0}->1{5}=2{6}")
		rules := t.Rules()
		rules[0].StateLeft = 99
		Expect(t.Rules()[0].StateLeft).To(Equal(uint8(5)))
	})
})
