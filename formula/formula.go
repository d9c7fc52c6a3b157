// Package formula is the external collaborator spec.md §6.3 describes: it
// parses a formula body into an expression that can be evaluated against
// a Lookup, printed back out in canonical form, and asked for the
// positions it references. sheet uses only Parse, the Formula interface and
// the Lookup/Value types from this package, never the Lexer or Parser
// directly, so the "formula parser is external" boundary in spec.md §1 is
// a real package boundary, not just a comment.
package formula

import (
	"strings"

	"golang.org/x/exp/slices"

	"github.com/serjcom/go-spreadsheet/cellerr"
	"github.com/serjcom/go-spreadsheet/position"
)

// Formula is the parsed, evaluable form of a formula body (the text
// after "=", already stripped by the caller).
type Formula interface {
	// Evaluate computes the formula's value against lookup, which resolves
	// referenced positions to their current values.
	Evaluate(lookup Lookup) (float64, *cellerr.FormulaError)
	// Expression returns the canonical printed form (§9: re-derived from
	// the AST, never the user's original bytes).
	Expression() string
	// ReferencedPositions returns the sorted, deduplicated positions this
	// formula references.
	ReferencedPositions() []position.Position
}

// formula is the concrete Formula implementation.
type formula struct {
	root astNode
	expr string
	refs []position.Position
}

func (f *formula) Evaluate(lookup Lookup) (float64, *cellerr.FormulaError) {
	return f.root.evaluate(lookup)
}

func (f *formula) Expression() string { return f.expr }

func (f *formula) ReferencedPositions() []position.Position { return f.refs }

// Parse lexes and parses a formula body into a Formula, or returns a
// parse error (spec.md §4.1 step 2 — "attempt Formula(text[1:]); on parse
// failure, fail the edit with ParseError").
func Parse(body string) (Formula, error) {
	lexer := NewLexer(body)
	tokens, err := lexer.Tokenize()
	if err != nil {
		return nil, err
	}

	parser := NewParser(tokens)
	root, err := parser.Parse()
	if err != nil {
		return nil, err
	}

	var refs []position.Position
	root.collectPositions(&refs)
	slices.SortFunc(refs, func(a, b position.Position) bool {
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Col < b.Col
	})
	refs = compactPositions(refs)

	var sb strings.Builder
	root.write(&sb)

	return &formula{root: root, expr: sb.String(), refs: refs}, nil
}

// compactPositions removes adjacent duplicates from an already-sorted
// slice, following the teacher's repeated dedup-after-sort idiom
// elsewhere in the pack (e.g. FormulaTable's reference-counted tables).
func compactPositions(sorted []position.Position) []position.Position {
	if len(sorted) == 0 {
		return sorted
	}
	out := sorted[:1]
	for _, p := range sorted[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}
