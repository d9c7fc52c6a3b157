package sheet

import (
	"github.com/serjcom/go-spreadsheet/cellerr"
	"github.com/serjcom/go-spreadsheet/formula"
	"github.com/serjcom/go-spreadsheet/position"
)

// formulaSign and escapeSign are the two surface constants of §6.4.
const (
	formulaSign = '='
	escapeSign  = '\''
)

// contentKind tags which of the three variants a content value holds.
// §4's "dispatch via pattern matching" is implemented here as a switch
// on kind inside each method below, rather than as three separate
// interface implementations — methods live on the sum, not on a base
// class (design note in spec.md §9).
type contentKind uint8

const (
	contentEmpty contentKind = iota
	contentText
	contentFormulaCell
)

// content is CellContent: a tagged union over Empty, Text{raw}, and
// FormulaCell{formula, cache}. The cache lives inline as three fields
// instead of an interface{} so a cached FormulaError and a cached zero
// value are unambiguous.
type content struct {
	kind contentKind

	raw string // contentText: the raw user string

	f        formula.Formula // contentFormulaCell: the parsed expression
	cached   bool            // contentFormulaCell: whether cacheVal/cacheErr holds a computed value
	cacheVal float64
	cacheErr *cellerr.FormulaError
}

func emptyContent() content {
	return content{kind: contentEmpty}
}

func textContent(raw string) content {
	return content{kind: contentText, raw: raw}
}

func formulaContent(f formula.Formula) content {
	return content{kind: contentFormulaCell, f: f}
}

// text returns the canonical stored text for this content (§3.2, §6.2).
func (c *content) text() string {
	switch c.kind {
	case contentEmpty:
		return ""
	case contentText:
		return c.raw
	case contentFormulaCell:
		return "=" + c.f.Expression()
	default:
		return ""
	}
}

// value returns the content's observable value, evaluating and caching a
// formula's result on first read (§4.1's Cell.get_value). lookup is only
// consulted for contentFormulaCell.
func (c *content) value(lookup formula.Lookup) formula.Value {
	switch c.kind {
	case contentEmpty:
		// an empty cell asked directly has no displayable value of its own
		// (§4.2) — distinct from the blank-is-zero rule formulas use.
		return cellerr.New(cellerr.Value)
	case contentText:
		if len(c.raw) > 0 && c.raw[0] == escapeSign {
			return c.raw[1:]
		}
		return c.raw
	case contentFormulaCell:
		if !c.cached {
			c.cacheVal, c.cacheErr = c.f.Evaluate(lookup)
			c.cached = true
		}
		if c.cacheErr != nil {
			return c.cacheErr
		}
		return c.cacheVal
	default:
		return cellerr.New(cellerr.Value)
	}
}

// invalidate drops a cached formula value, if any. A no-op for the other
// two variants (§4.4's "drop caches where present").
func (c *content) invalidate() {
	if c.kind == contentFormulaCell {
		c.cached = false
		c.cacheErr = nil
	}
}

// referencedPositions returns the positions this content's formula
// references, or nil for the other two variants (§4.1's
// Cell.get_referenced_positions).
func (c *content) referencedPositions() []position.Position {
	if c.kind != contentFormulaCell {
		return nil
	}
	return c.f.ReferencedPositions()
}

// isFormulaShaped reports whether text begins with "=" and is long
// enough to be a formula rather than the bare-"=" text edge case (§3.2).
func isFormulaShaped(text string) bool {
	return len(text) >= 2 && text[0] == formulaSign
}
