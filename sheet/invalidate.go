package sheet

import "github.com/serjcom/go-spreadsheet/position"

// invalidateReferrers drops the cached value of every cell that
// transitively refers to pos, following the referrers back-edges (§4.4).
// The recursion is unconditional — it does not stop early just because a
// referrer currently has no cache — because a referrer's own referrers
// may still be cached even when it isn't. visited guards against
// revisiting a node twice within one propagation; termination is
// guaranteed because wouldCreateCycle keeps the referrer graph acyclic
// (I2).
func invalidateReferrers(cells map[position.Position]*Cell, pos position.Position, visited map[position.Position]struct{}) {
	if _, seen := visited[pos]; seen {
		return
	}
	visited[pos] = struct{}{}

	cell, ok := cells[pos]
	if !ok {
		return
	}
	for referrer := range cell.referrers {
		if rc, ok := cells[referrer]; ok {
			rc.content.invalidate()
		}
		invalidateReferrers(cells, referrer, visited)
	}
}
