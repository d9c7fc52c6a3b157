package sheet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serjcom/go-spreadsheet/cellerr"
	"github.com/serjcom/go-spreadsheet/position"
)

func pos(t *testing.T, address string) position.Position {
	t.Helper()
	p, err := position.Parse(address)
	require.NoError(t, err)
	return p
}

func mustSet(t *testing.T, s *Sheet, address, text string) {
	t.Helper()
	require.NoError(t, s.SetCell(pos(t, address), text))
}

func value(t *testing.T, s *Sheet, address string) interface{} {
	t.Helper()
	v, err := s.GetValue(pos(t, address))
	require.NoError(t, err)
	return v
}

// S1: basic formula evaluation and recalculation on edit.
func TestBasicFormula(t *testing.T) {
	s := NewSheet()
	mustSet(t, s, "A1", "2")
	mustSet(t, s, "A2", "3")
	mustSet(t, s, "A3", "=A1+A2")

	assert.Equal(t, 5.0, value(t, s, "A3"))

	mustSet(t, s, "A1", "10")
	assert.Equal(t, 13.0, value(t, s, "A3"))
}

// S2: a direct self-reference is rejected and leaves no trace.
func TestSelfCycleRejected(t *testing.T) {
	s := NewSheet()
	a1 := pos(t, "A1")

	err := s.SetCell(a1, "=A1")
	require.Error(t, err)
	opErr, ok := err.(*OpError)
	require.True(t, ok)
	assert.Equal(t, CircularDependency, opErr.Code)

	c, err := s.GetCell(a1)
	require.NoError(t, err)
	assert.Nil(t, c)
}

// S3: an indirect cycle is rejected, and the two legal prior edits remain
// formulas evaluating against the blank-is-zero rule.
func TestIndirectCycleRejected(t *testing.T) {
	s := NewSheet()
	mustSet(t, s, "A1", "=B1")
	mustSet(t, s, "B1", "=C1")

	err := s.SetCell(pos(t, "C1"), "=A1")
	require.Error(t, err)
	opErr, ok := err.(*OpError)
	require.True(t, ok)
	assert.Equal(t, CircularDependency, opErr.Code)

	assert.Equal(t, 0.0, value(t, s, "A1"))
	assert.Equal(t, 0.0, value(t, s, "B1"))
}

// S4: a formula cell's cache is invalidated transitively through a chain.
func TestCacheInvalidationChain(t *testing.T) {
	s := NewSheet()
	mustSet(t, s, "A1", "1")
	mustSet(t, s, "A2", "=A1")
	mustSet(t, s, "A3", "=A2*2")

	assert.Equal(t, 2.0, value(t, s, "A3"))

	mustSet(t, s, "A1", "5")
	assert.Equal(t, 10.0, value(t, s, "A3"))
}

// S5: clearing a referenced cell retains it as Empty rather than removing
// it, and referrers see the blank-is-zero value.
func TestClearWithReferrers(t *testing.T) {
	s := NewSheet()
	mustSet(t, s, "A1", "5")
	mustSet(t, s, "A2", "=A1")

	require.NoError(t, s.ClearCell(pos(t, "A1")))

	c, err := s.GetCell(pos(t, "A1"))
	require.NoError(t, err)
	require.NotNil(t, c, "A1 must be retained because A2 still refers to it")

	assert.Equal(t, 0.0, value(t, s, "A2"))
}

// S6: printable_size tracks the occupied bounding box and shrinks back
// down when the cell defining an edge is cleared.
func TestPrintableSize(t *testing.T) {
	s := NewSheet()
	mustSet(t, s, "B2", "x")
	mustSet(t, s, "D5", "y")

	rows, cols := s.PrintableSize()
	assert.Equal(t, 5, rows)
	assert.Equal(t, 4, cols)

	require.NoError(t, s.ClearCell(pos(t, "D5")))
	rows, cols = s.PrintableSize()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 2, cols)
}

// SetCell is idempotent: re-setting the same canonical text is a no-op
// that does not disturb caches.
func TestSetCellIdempotent(t *testing.T) {
	s := NewSheet()
	mustSet(t, s, "A1", "1")
	mustSet(t, s, "A2", "=A1")
	require.Equal(t, 1.0, value(t, s, "A2"))

	text, err := s.GetText(pos(t, "A2"))
	require.NoError(t, err)
	require.NoError(t, s.SetCell(pos(t, "A2"), text))
	assert.Equal(t, 1.0, value(t, s, "A2"))
}

// An empty cell read directly is a #VALUE! error, but the same blank read
// through a formula is numeric zero (§4.2's asymmetric blank rule).
func TestBlankIsZeroOnlyInFormulas(t *testing.T) {
	s := NewSheet()
	mustSet(t, s, "A2", "=A1")

	v := value(t, s, "A1")
	fErr, ok := v.(*cellerr.FormulaError)
	require.True(t, ok)
	assert.Equal(t, cellerr.Value, fErr.Kind)

	assert.Equal(t, 0.0, value(t, s, "A2"))
}

// A leading escape sign suppresses formula interpretation but is stripped
// from the displayed value; the raw text (with the sign) round-trips.
func TestEscapeSignPreservedInTextButStrippedInValue(t *testing.T) {
	s := NewSheet()
	mustSet(t, s, "A1", "'=1+1")

	assert.Equal(t, "=1+1", value(t, s, "A1"))

	text, err := s.GetText(pos(t, "A1"))
	require.NoError(t, err)
	assert.Equal(t, "'=1+1", text)
}

// get_text of a formula cell always re-derives the canonical printed
// form, never the user's original bytes.
func TestFormulaTextIsCanonical(t *testing.T) {
	s := NewSheet()
	mustSet(t, s, "A1", "=1-(2-3)")

	text, err := s.GetText(pos(t, "A1"))
	require.NoError(t, err)
	assert.Equal(t, "=1 - (2 - 3)", text)
}

// A formula that fails to parse leaves the sheet untouched.
func TestParseErrorLeavesSheetUntouched(t *testing.T) {
	s := NewSheet()
	mustSet(t, s, "A1", "1")

	err := s.SetCell(pos(t, "A1"), "=1+")
	require.Error(t, err)
	opErr, ok := err.(*OpError)
	require.True(t, ok)
	assert.Equal(t, ParseError, opErr.Code)

	assert.Equal(t, 1.0, value(t, s, "A1"))
}

// Division by zero propagates as a displayable #DIV/0! value, which is
// cached like any other formula result (not a structural OpError).
func TestDivisionByZeroIsADisplayedValue(t *testing.T) {
	s := NewSheet()
	mustSet(t, s, "A1", "0")
	mustSet(t, s, "A2", "=1/A1")

	v := value(t, s, "A2")
	fErr, ok := v.(*cellerr.FormulaError)
	require.True(t, ok)
	assert.Equal(t, cellerr.Div0, fErr.Kind)
	assert.Equal(t, "#DIV/0!", fErr.Mnemonic())
}

// An out-of-range position is rejected at the interface boundary.
func TestInvalidPositionRejected(t *testing.T) {
	s := NewSheet()
	err := s.SetCell(position.Position{Row: -1, Col: 0}, "1")
	require.Error(t, err)
	opErr, ok := err.(*OpError)
	require.True(t, ok)
	assert.Equal(t, InvalidPosition, opErr.Code)
}

func TestPrintValues(t *testing.T) {
	s := NewSheet()
	mustSet(t, s, "A1", "1")
	mustSet(t, s, "B1", "hello")
	mustSet(t, s, "A2", "=A1+1")

	var out strings.Builder
	require.NoError(t, s.PrintValues(&out))
	assert.Equal(t, "1\thello\n2\t\n", out.String())
}

func TestPrintTexts(t *testing.T) {
	s := NewSheet()
	mustSet(t, s, "A1", "1")
	mustSet(t, s, "A2", "=A1+1")

	var out strings.Builder
	require.NoError(t, s.PrintTexts(&out))
	assert.Equal(t, "1\n=A1 + 1\n", out.String())
}
