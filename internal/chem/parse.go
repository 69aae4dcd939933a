package chem

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// ParseRule parses a single rule line. ok is false for blank and comment-only
// lines.
func ParseRule(line string) (rule Rule, ok bool, err error) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	line = strings.Join(strings.Fields(line), "")
	if line == "" {
		return Rule{}, false, nil
	}

	lhs, rhs, found := strings.Cut(line, "->")
	if !found || strings.Contains(rhs, "->") {
		return Rule{}, false, ErrSyntax
	}

	r1, sep1, r2, err := splitSide(lhs)
	if err != nil {
		return Rule{}, false, fmt.Errorf("reactants: %w", err)
	}
	p1, sep2, p2, err := splitSide(rhs)
	if err != nil {
		return Rule{}, false, fmt.Errorf("products: %w", err)
	}

	kind, valid := kindOf(sep1, sep2)
	if !valid {
		return Rule{}, false, fmt.Errorf("%w: %q then %q", ErrSeparator, sep1, sep2)
	}
	if r1.Species != p1.Species || r2.Species != p2.Species {
		return Rule{}, false, fmt.Errorf("%w: %s,%s -> %s,%s", ErrSpeciesMismatch, r1, r2, p1, p2)
	}

	return Rule{
		Kind:       kind,
		Left:       r1,
		Right:      r2,
		StateLeft:  p1.State,
		StateRight: p2.State,
	}, true, nil
}

// splitSide splits "a{b}<sep>c{d}".
func splitSide(s string) (Reactant, byte, Reactant, error) {
	i := strings.IndexByte(s, '}')
	if i < 0 {
		return Reactant{}, 0, Reactant{}, fmt.Errorf("%w: %q", ErrToken, s)
	}
	if i+1 >= len(s) {
		return Reactant{}, 0, Reactant{}, fmt.Errorf("%w: missing separator in %q", ErrSeparator, s)
	}

	sep := s[i+1]
	if sep != '+' && sep != '=' {
		return Reactant{}, 0, Reactant{}, fmt.Errorf("%w: %q", ErrSeparator, sep)
	}

	a, err := parseToken(s[:i+1])
	if err != nil {
		return Reactant{}, 0, Reactant{}, err
	}
	b, err := parseToken(s[i+2:])
	if err != nil {
		return Reactant{}, 0, Reactant{}, err
	}
	return a, sep, b, nil
}

func parseToken(tok string) (Reactant, error) {
	open := strings.IndexByte(tok, '{')
	if open <= 0 || !strings.HasSuffix(tok, "}") || open == len(tok)-2 {
		return Reactant{}, fmt.Errorf("%w: %q", ErrToken, tok)
	}

	species, err := strconv.ParseUint(tok[:open], 16, 8)
	if err != nil {
		return Reactant{}, fmt.Errorf("%w: species in %q", ErrToken, tok)
	}
	state, err := strconv.ParseUint(tok[open+1:len(tok)-1], 16, 8)
	if err != nil {
		return Reactant{}, fmt.Errorf("%w: state in %q", ErrToken, tok)
	}
	return Reactant{Species: uint8(species), State: uint8(state)}, nil
}

// Parse reads rules from r. Bad lines are logged, recorded in
// [Table.Rejected] and skipped; only a read failure is returned.
func Parse(r io.Reader, logger *slog.Logger) (*Table, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	t := NewTable()
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		text := sc.Text()

		rule, ok, err := ParseRule(text)
		if err == nil && ok {
			err = t.Add(rule)
		}
		if err != nil {
			le := &LineError{Line: n, Text: text, Err: err}
			t.rejected = append(t.rejected, le)
			logger.Warn("skipping reaction rule", "line", n, "text", text, "err", err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read chemistry: %w", err)
	}

	logger.Debug("chemistry parsed", "lines", n, "rules", t.Len(), "rejected", len(t.rejected))
	return t, nil
}

// Load parses the rule file at path. Failing to open the file is an error;
// malformed lines are not.
func Load(path string, logger *slog.Logger) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open chemistry: %w", err)
	}
	defer f.Close()

	t, err := Parse(f, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
