package formula

import (
	"strconv"
	"strings"

	"github.com/serjcom/go-spreadsheet/cellerr"
	"github.com/serjcom/go-spreadsheet/position"
)

// Lookup resolves a referenced position to its value during evaluation.
// It is the Sheet's lookup environment (spec §4.5's Sheet.lookup) seen
// from the formula's side of the boundary.
type Lookup func(position.Position) (Value, *cellerr.FormulaError)

// Value is what a Lookup can hand back to a formula: either a number, a
// string (from a Text cell — usable as an operand only if it parses as a
// number, see asNumber), or a propagated FormulaError.
type Value any

// asNumber coerces a looked-up Value to the float64 an arithmetic operand
// needs. A string coerces if it looks numeric (a Text cell's raw text is
// never auto-coerced at the content layer — that's this layer's job);
// anything else non-numeric becomes a #VALUE! error.
func asNumber(v Value) (float64, *cellerr.FormulaError) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, cellerr.New(cellerr.Value)
		}
		return n, nil
	case *cellerr.FormulaError:
		return 0, t
	default:
		return 0, cellerr.New(cellerr.Value)
	}
}

// precedence levels, higher binds tighter. Used both by the parser (to
// decide when to stop consuming a binary chain) and by the canonical
// printer (to decide when a sub-expression needs parens).
const (
	precLowest = iota
	precAdditive
	precMultiplicative
	precUnary
)

// astNode is the internal AST node interface. Every node can evaluate
// itself against a Lookup, collect the positions it (transitively)
// references, and print its canonical form.
type astNode interface {
	evaluate(lookup Lookup) (float64, *cellerr.FormulaError)
	collectPositions(out *[]position.Position)
	precedence() int
	write(sb *strings.Builder)
}

// numberNode is a numeric literal.
type numberNode struct {
	value float64
}

func (n *numberNode) evaluate(Lookup) (float64, *cellerr.FormulaError) { return n.value, nil }
func (n *numberNode) collectPositions(*[]position.Position)            {}
func (n *numberNode) precedence() int                                  { return precUnary }
func (n *numberNode) write(sb *strings.Builder) {
	sb.WriteString(strconv.FormatFloat(n.value, 'g', -1, 64))
}

// refNode is a reference to another cell's position.
type refNode struct {
	pos position.Position
}

func (n *refNode) evaluate(lookup Lookup) (float64, *cellerr.FormulaError) {
	v, fErr := lookup(n.pos)
	if fErr != nil {
		return 0, fErr
	}
	return asNumber(v)
}
func (n *refNode) collectPositions(out *[]position.Position) { *out = append(*out, n.pos) }
func (n *refNode) precedence() int                            { return precUnary }
func (n *refNode) write(sb *strings.Builder)                  { sb.WriteString(n.pos.String()) }

// unaryNode is a prefix +/- applied to an operand.
type unaryNode struct {
	op      byte // '+' or '-'
	operand astNode
}

func (n *unaryNode) evaluate(lookup Lookup) (float64, *cellerr.FormulaError) {
	v, fErr := n.operand.evaluate(lookup)
	if fErr != nil {
		return 0, fErr
	}
	if n.op == charMinus {
		return -v, nil
	}
	return v, nil
}
func (n *unaryNode) collectPositions(out *[]position.Position) { n.operand.collectPositions(out) }
func (n *unaryNode) precedence() int                            { return precUnary }
func (n *unaryNode) write(sb *strings.Builder) {
	sb.WriteByte(n.op)
	writeOperand(sb, n.operand, precUnary)
}

// binaryNode is a binary +, -, *, or / expression.
type binaryNode struct {
	op          byte
	left, right astNode
}

func (n *binaryNode) evaluate(lookup Lookup) (float64, *cellerr.FormulaError) {
	l, fErr := n.left.evaluate(lookup)
	if fErr != nil {
		return 0, fErr
	}
	r, fErr := n.right.evaluate(lookup)
	if fErr != nil {
		return 0, fErr
	}
	switch n.op {
	case charPlus:
		return l + r, nil
	case charMinus:
		return l - r, nil
	case charStar:
		return l * r, nil
	case charSlash:
		if r == 0 {
			return 0, cellerr.New(cellerr.Div0)
		}
		return l / r, nil
	default:
		return 0, cellerr.New(cellerr.Value)
	}
}

func (n *binaryNode) collectPositions(out *[]position.Position) {
	n.left.collectPositions(out)
	n.right.collectPositions(out)
}

func (n *binaryNode) precedence() int {
	if n.op == charStar || n.op == charSlash {
		return precMultiplicative
	}
	return precAdditive
}

func (n *binaryNode) write(sb *strings.Builder) {
	writeOperand(sb, n.left, n.precedence())
	sb.WriteByte(' ')
	sb.WriteByte(n.op)
	sb.WriteByte(' ')
	// the right operand of - and / needs parens at equal precedence too
	// (e.g. "1 - (2 - 3)" must not print as "1 - 2 - 3"); + and * do not
	rightMin := n.precedence()
	if n.op == charMinus || n.op == charSlash {
		rightMin++
	}
	writeOperand(sb, n.right, rightMin)
}

// writeOperand prints a sub-expression, parenthesizing it if its own
// precedence is lower than minPrec (spec.md §9's canonical-printing rule).
func writeOperand(sb *strings.Builder, n astNode, minPrec int) {
	if n.precedence() < minPrec {
		sb.WriteByte('(')
		n.write(sb)
		sb.WriteByte(')')
		return
	}
	n.write(sb)
}
