package sheet

import "github.com/serjcom/go-spreadsheet/position"

// wouldCreateCycle decides, before any mutation, whether installing a
// formula at from that references newRefs would create a circular
// dependency (§4.3). It is an upfront DFS over forward edges rather than
// the teacher's lazy three-state walk run at calculation time
// (graph.go's GetCalculationOrder) — spec.md requires the check to happen
// at edit time, with the sheet left untouched on failure, so there is no
// later calculation pass to discover the cycle in.
//
// The check is a reachability question: does following forward edges from
// any position in newRefs eventually reach from again? from's own edges
// are not yet installed, so the walk uses newRefs as from's stand-in
// adjacency and every other cell's actual current referencedPositions().
func wouldCreateCycle(cells map[position.Position]*Cell, from position.Position, newRefs []position.Position) bool {
	visited := make(map[position.Position]struct{})

	var visit func(p position.Position) bool
	visit = func(p position.Position) bool {
		if p == from {
			return true
		}
		if _, seen := visited[p]; seen {
			return false
		}
		visited[p] = struct{}{}

		cell, ok := cells[p]
		if !ok {
			return false
		}
		for _, next := range cell.GetReferencedPositions() {
			if visit(next) {
				return true
			}
		}
		return false
	}

	for _, ref := range newRefs {
		if visit(ref) {
			return true
		}
	}
	return false
}
