package sheet

import (
	"github.com/serjcom/go-spreadsheet/formula"
	"github.com/serjcom/go-spreadsheet/position"
)

// Cell is one occupied slot in a Sheet. It owns its content and the set of
// positions that reference it (its referrers), following the teacher's
// DependencyNode split between what a node holds and who points at it
// (graph.go's CellPrecedents/CellDependents), except a Cell here stores
// only the back-edges — forward edges are recomputed from its content's
// referencedPositions() rather than duplicated (§9: "store referrers as
// Positions, not pointers, to avoid a second source of truth").
type Cell struct {
	content   content
	referrers map[position.Position]struct{}
}

func newCell() *Cell {
	return &Cell{
		content:   emptyContent(),
		referrers: make(map[position.Position]struct{}),
	}
}

// GetValue returns the cell's current value, evaluating and caching a
// formula on first read (§4.2).
func (c *Cell) GetValue(lookup formula.Lookup) formula.Value {
	return c.content.value(lookup)
}

// GetText returns the cell's canonical stored text (§4.2, §9): for a
// formula cell this is always re-derived from the parsed expression, never
// the original bytes the caller typed in.
func (c *Cell) GetText() string {
	return c.content.text()
}

// GetReferencedPositions returns the positions this cell's formula
// references (empty for Empty/Text cells).
func (c *Cell) GetReferencedPositions() []position.Position {
	return c.content.referencedPositions()
}

// isEmpty reports whether this cell currently holds no content and no
// referrers, i.e. whether it can be dropped from the sheet entirely
// (§4.4's empty-cell elision, I4).
func (c *Cell) isEmpty() bool {
	return c.content.kind == contentEmpty && len(c.referrers) == 0
}

func (c *Cell) addReferrer(from position.Position) {
	c.referrers[from] = struct{}{}
}

func (c *Cell) removeReferrer(from position.Position) {
	delete(c.referrers, from)
}
