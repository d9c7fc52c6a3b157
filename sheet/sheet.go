// Package sheet implements the spreadsheet grid: cell storage, the
// forward/back dependency edges between cells, and the edit protocol that
// keeps caches, edges, and acyclicity consistent on every SetCell.
package sheet

import (
	"github.com/serjcom/go-spreadsheet/cellerr"
	"github.com/serjcom/go-spreadsheet/formula"
	"github.com/serjcom/go-spreadsheet/position"
)

// Sheet is the spreadsheet's single grid of cells. It never imports
// formula's lexer or parser directly — only the formula.Formula interface
// that Parse hands back — keeping "the formula parser is an external
// collaborator" a real package boundary (spec.md §1).
//
// Unlike the teacher's Spreadsheet, which serializes concurrent access
// through a dependency graph built for a lazy dirty-bit recalculation
// model, Sheet assumes single-threaded, cooperative use (spec.md §5): no
// mutex guards the map.
type Sheet struct {
	cells map[position.Position]*Cell
	rows  *occupancyIndex
	cols  *occupancyIndex
}

// NewSheet returns an empty sheet.
func NewSheet() *Sheet {
	return &Sheet{
		cells: make(map[position.Position]*Cell),
		rows:  newOccupancyIndex(),
		cols:  newOccupancyIndex(),
	}
}

// getOrCreate returns the cell at pos, creating an empty one if absent.
// Creating a placeholder here (rather than only on SetCell) is what lets
// a formula reference a cell that doesn't hold content yet but does need
// a place to record referrers (spec.md §4.1 step 3).
func (s *Sheet) getOrCreate(pos position.Position) *Cell {
	if c, ok := s.cells[pos]; ok {
		return c
	}
	c := newCell()
	s.cells[pos] = c
	s.rows.occupy(pos.Row)
	s.cols.occupy(pos.Col)
	return c
}

// drop removes pos from the grid and its occupancy indexes. Callers must
// only drop cells that are actually empty (§4.4's elision, I4).
func (s *Sheet) drop(pos position.Position) {
	delete(s.cells, pos)
	s.rows.vacate(pos.Row)
	s.cols.vacate(pos.Col)
}

// GetCell returns the cell at pos, or nil if pos holds no content and has
// no referrers (i.e. it was never materialized or has since been
// cleaned up). Returns an *OpError(InvalidPosition) if pos is out of
// range.
func (s *Sheet) GetCell(pos position.Position) (*Cell, error) {
	if !pos.Valid() {
		return nil, newOpError(InvalidPosition, "position out of range: "+pos.String())
	}
	c, ok := s.cells[pos]
	if !ok {
		return nil, nil
	}
	return c, nil
}

// SetCell installs text as pos's content, implementing the full edit
// protocol of spec.md §4.1:
//
//  1. idempotence: if text already equals the cell's current text, this
//     is a no-op.
//  2. classify text into Empty, Text, or a prospective formula body.
//  3. a formula body that fails to parse fails the whole edit with
//     ParseError; the sheet is left untouched.
//  4. referenced cells are resolved (creating placeholders as needed)
//     before any edge is installed, so cycle detection sees the full
//     prospective graph.
//  5. installing content that would create a circular reference fails
//     the edit with CircularDependency; the content and edges are left
//     untouched, but placeholders created in step 4 remain.
//  6. only once the edit is known to be legal: invalidate pos's own
//     transitive referrers' caches, remove pos from its old referenced
//     cells' referrer sets, install the new content, and add pos to its
//     new referenced cells' referrer sets.
func (s *Sheet) SetCell(pos position.Position, text string) error {
	if !pos.Valid() {
		return newOpError(InvalidPosition, "position out of range: "+pos.String())
	}

	existing := s.cells[pos]
	if existing != nil && existing.content.text() == text {
		return nil
	}

	newContent, newRefPositions, err := s.classify(text)
	if err != nil {
		return err
	}

	// materialize a placeholder for every newly referenced position before
	// cycle detection runs, per §4.1 step 3 ("obtain the target cell from
	// the sheet via get-or-create... before cycle detection"). These
	// placeholders are NOT rolled back if the edit is later rejected as
	// circular — §9's design note and original_source/cell.cpp's
	// Cell::Set (GetOrCreateCell for every reference ahead of
	// CheckCyclicDependencies) both treat this as observable, intentional
	// behavior, not a transaction to undo.
	for _, ref := range newRefPositions {
		if ref == pos {
			// pos's own materialization stays conditional on the edit
			// succeeding (below); a self-reference doesn't get a
			// placeholder pulled in ahead of that (spec.md §8's S2: a
			// rejected self-cycle leaves get_cell(pos) returning none).
			continue
		}
		s.getOrCreate(ref)
	}

	if len(newRefPositions) > 0 {
		if wouldCreateCycle(s.cells, pos, newRefPositions) {
			return newOpError(CircularDependency, "setting "+pos.String()+" would create a circular reference")
		}
	}

	// only now, with the edit known legal, touch observable state.
	invalidateReferrers(s.cells, pos, make(map[position.Position]struct{}))

	cell := s.getOrCreate(pos)
	if existing != nil {
		for _, old := range existing.content.referencedPositions() {
			if oldCell, ok := s.cells[old]; ok {
				oldCell.removeReferrer(pos)
				if oldCell.isEmpty() {
					s.drop(old)
				}
			}
		}
	}

	cell.content = newContent
	for _, ref := range newRefPositions {
		s.getOrCreate(ref).addReferrer(pos)
	}

	if cell.isEmpty() {
		s.drop(pos)
	}

	return nil
}

// classify turns raw edit text into the content it should become, along
// with the positions that content will reference once installed. It does
// not mutate the sheet: a formula that fails to parse returns an error
// before anything is touched (spec.md §4.1 step 2-3, §6.4's classify).
func (s *Sheet) classify(text string) (content, []position.Position, error) {
	if text == "" {
		return emptyContent(), nil, nil
	}
	if !isFormulaShaped(text) {
		return textContent(text), nil, nil
	}

	f, err := formula.Parse(text[1:])
	if err != nil {
		return content{}, nil, newOpError(ParseError, err.Error())
	}
	refs := f.ReferencedPositions()
	for _, r := range refs {
		if !r.Valid() {
			return content{}, nil, newOpError(InvalidPosition, "formula references out-of-range position "+r.String())
		}
	}
	return formulaContent(f), refs, nil
}

// ClearCell resets pos back to Empty, equivalent to SetCell(pos, "")
// (spec.md §4.1's clear_cell). A cleared cell with no referrers is
// dropped from the grid entirely by SetCell (I4).
func (s *Sheet) ClearCell(pos position.Position) error {
	return s.SetCell(pos, "")
}

// lookup is the formula evaluation environment Sheet hands to
// formula.Formula.Evaluate: an invalid position is a structural #REF!, an
// absent or never-set cell reads as numeric 0 (the blank-is-zero rule,
// §4.2), and any other cell reads as its own value.
func (s *Sheet) lookup(pos position.Position) (formula.Value, *cellerr.FormulaError) {
	if !pos.Valid() {
		return nil, cellerr.New(cellerr.Ref)
	}
	c, ok := s.cells[pos]
	if !ok || c.content.kind == contentEmpty {
		return 0.0, nil
	}
	return c.GetValue(s.lookup), nil
}

// GetValue returns pos's value, or an *OpError(InvalidPosition) if pos is
// out of range. A never-set position is not an error here — unlike
// lookup, a direct get_value of an absent cell follows the Empty-content
// rule (#VALUE!), not the blank-is-zero rule formulas use internally.
func (s *Sheet) GetValue(pos position.Position) (formula.Value, error) {
	if !pos.Valid() {
		return nil, newOpError(InvalidPosition, "position out of range: "+pos.String())
	}
	c, ok := s.cells[pos]
	if !ok {
		return cellerr.New(cellerr.Value), nil
	}
	return c.GetValue(s.lookup), nil
}

// GetText returns pos's canonical stored text, or "" for a never-set
// position.
func (s *Sheet) GetText(pos position.Position) (string, error) {
	if !pos.Valid() {
		return "", newOpError(InvalidPosition, "position out of range: "+pos.String())
	}
	c, ok := s.cells[pos]
	if !ok {
		return "", nil
	}
	return c.GetText(), nil
}

// PrintableSize returns the smallest (rows, cols) rectangle anchored at
// (0,0) covering every currently occupied cell (§2, §8's S6).
func (s *Sheet) PrintableSize() (rows, cols int) {
	return s.rows.bound(), s.cols.bound()
}
