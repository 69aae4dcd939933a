package chem_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lifesim/internal/chem"
)

var _ = Describe("ParseRule", func() {
	It("parses a combine rule", func() {
		rule, ok, err := chem.ParseRule("0{0}+0{0}->0{1}=0{1}")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(rule).To(Equal(chem.Rule{
			Kind:       chem.Combine,
			Left:       chem.Reactant{Species: 0, State: 0},
			Right:      chem.Reactant{Species: 0, State: 0},
			StateLeft:  1,
			StateRight: 1,
		}))
	})

	It("rejects a rule that changes species", func() {
		_, ok, err := chem.ParseRule("0{0}+0{0}->1{1}=1{1}")
		Expect(ok).To(BeFalse())
		Expect(err).To(MatchError(chem.ErrSpeciesMismatch))
	})

	DescribeTable("separator combinations",
		func(line string, want chem.Kind) {
			rule, ok, err := chem.ParseRule(line)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(rule.Kind).To(Equal(want))
		},
		Entry("plus then equals", "1{2}+3{4}->1{5}=3{6}", chem.Combine),
		Entry("equals then plus", "1{2}=3{4}->1{5}+3{6}", chem.Decompose),
		Entry("plus then plus", "1{2}+3{4}->1{5}+3{6}", chem.Excite),
	)

	DescribeTable("whitespace, comments and hex",
		func(line string, want chem.Rule) {
			rule, ok, err := chem.ParseRule(line)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(rule).To(Equal(want))
		},
		Entry("spaces and tabs", "  a{1} +\tb{2}  ->  a{3} = b{4} ",
			chem.Rule{Kind: chem.Combine, Left: chem.Reactant{Species: 0xa, State: 1}, Right: chem.Reactant{Species: 0xb, State: 2}, StateLeft: 3, StateRight: 4}),
		Entry("trailing comment", "ff{FE}+0{0}->ff{1}+0{2} # wraps",
			chem.Rule{Kind: chem.Excite, Left: chem.Reactant{Species: 0xff, State: 0xfe}, Right: chem.Reactant{Species: 0, State: 0}, StateLeft: 1, StateRight: 2}),
	)

	DescribeTable("lines that carry no rule",
		func(line string) {
			_, ok, err := chem.ParseRule(line)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		},
		Entry("empty", ""),
		Entry("blank", "   \t "),
		Entry("comment", "# 0{0}+0{0}->0{1}=0{1}"),
	)

	DescribeTable("malformed lines",
		func(line string, want error) {
			_, ok, err := chem.ParseRule(line)
			Expect(ok).To(BeFalse())
			Expect(err).To(MatchError(want))
		},
		Entry("no arrow", "0{0}+0{0}", chem.ErrSyntax),
		Entry("two arrows", "0{0}+0{0}->0{1}=0{1}->0{2}=0{2}", chem.ErrSyntax),
		Entry("equals then equals", "0{0}=0{0}->0{1}=0{1}", chem.ErrSeparator),
		Entry("unknown separator", "0{0}*0{0}->0{1}=0{1}", chem.ErrSeparator),
		Entry("missing separator", "0{0}->0{1}=0{1}", chem.ErrSeparator),
		Entry("non-hex species", "g{0}+0{0}->g{1}=0{1}", chem.ErrToken),
		Entry("non-hex state", "0{z}+0{0}->0{1}=0{1}", chem.ErrToken),
		Entry("state overflows a byte", "0{100}+0{0}->0{1}=0{1}", chem.ErrToken),
		Entry("empty state", "0{}+0{0}->0{1}=0{1}", chem.ErrToken),
		Entry("missing brace", "00}+0{0}->0{1}=0{1}", chem.ErrToken),
		Entry("second species mismatch", "0{0}+1{0}->0{1}=2{1}", chem.ErrSpeciesMismatch),
	)

	It("round-trips through String", func() {
		for _, line := range []string{"0{0}+0{0}->0{1}=0{1}", "a{1}=b{2}->a{3}+b{4}", "ff{fe}+1{0}->ff{0}+1{1}"} {
			rule, ok, err := chem.ParseRule(line)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(rule.String()).To(Equal(line))
		}
	})
})

var _ = Describe("Parse", func() {
	const source = `# demo chemistry
0{0}+0{0}->0{1}=0{1}
0{1}=0{1}->0{2}+0{2}

0{0}+0{0}->1{1}=1{1}
1{0}+2{0}->1{1}+2{1}
this is not a rule
0{0}+0{0}->0{3}=0{3}
`

	It("keeps loading past bad lines and records them", func() {
		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, nil))

		table, err := chem.Parse(strings.NewReader(source), logger)
		Expect(err).NotTo(HaveOccurred())
		Expect(table.Len()).To(Equal(3))

		rejected := table.Rejected()
		Expect(rejected).To(HaveLen(3))
		Expect(rejected[0].Line).To(Equal(5))
		Expect(rejected[0]).To(MatchError(chem.ErrSpeciesMismatch))
		Expect(rejected[1].Line).To(Equal(7))
		Expect(rejected[2].Line).To(Equal(8))
		Expect(rejected[2]).To(MatchError(chem.ErrDuplicate))

		Expect(logs.String()).To(ContainSubstring("skipping reaction rule"))
	})

	It("keeps the first of two duplicate rules", func() {
		table, err := chem.Parse(strings.NewReader(source), nil)
		Expect(err).NotTo(HaveOccurred())

		out, ok := table.Lookup(chem.Reactant{}, chem.Reactant{})
		Expect(ok).To(BeTrue())
		Expect(out).To(Equal(chem.Outcome{Kind: chem.Combine, First: 1, Second: 1}))
	})
})

var _ = Describe("Load", func() {
	It("fails when the file cannot be opened", func() {
		_, err := chem.Load(filepath.Join(GinkgoT().TempDir(), "missing.cfg"), nil)
		Expect(err).To(MatchError(os.ErrNotExist))
	})

	It("reads rules from disk", func() {
		path := filepath.Join(GinkgoT().TempDir(), "chemistry.cfg")
		Expect(os.WriteFile(path, []byte("0{0}+0{0}->0{1}=0{1}\n"), 0644)).To(Succeed())

		table, err := chem.Load(path, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(table.Rules()).To(HaveLen(1))
	})
})
