package viz

import (
	"fmt"
	"strings"

	"github.com/san-kum/lifesim/internal/chem"
)

// RuleReport lists the accepted rules grouped by kind followed by the
// rejected lines with their reasons.
func RuleReport(path string, t *chem.Table) string {
	var b strings.Builder

	b.WriteString(Title.Render(path) + "\n")

	for _, k := range []chem.Kind{chem.Combine, chem.Excite, chem.Decompose} {
		var rules []string
		for _, r := range t.Rules() {
			if r.Kind == k {
				rules = append(rules, "  "+r.String())
			}
		}
		header := fmt.Sprintf("%s (%d)", k, len(rules))
		b.WriteString(MetricLabel.Render(header) + "\n")
		for _, r := range rules {
			b.WriteString(MetricValue.Render(r) + "\n")
		}
	}

	rejected := t.Rejected()
	if len(rejected) == 0 {
		b.WriteString(Good.Render(fmt.Sprintf("%d rules, no rejected lines", t.Len())))
		return Panel.Render(b.String())
	}

	b.WriteString(Warn.Render(fmt.Sprintf("%d rules, %d rejected lines", t.Len(), len(rejected))) + "\n")
	for _, e := range rejected {
		b.WriteString(Subtle.Render(fmt.Sprintf("  line %d: %q: %v", e.Line, e.Text, e.Err)) + "\n")
	}
	return Panel.Render(strings.TrimRight(b.String(), "\n"))
}
