package engine

// History keeps grid snapshots for unlimited undo and linear redo.
// current counts the snapshots that lie in the past of the live grid.
type History struct {
	snapshots []Grid
	current   int
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{}
}

// RecordMove stores the grid as it was before a move, discarding any redo
// branch beyond the cursor.
func (h *History) RecordMove(g Grid) {
	if len(h.snapshots) > h.current {
		h.snapshots = h.snapshots[:h.current]
	}
	h.snapshots = append(h.snapshots, g)
	h.current++
}

// Undo steps back one snapshot. On the first undo after a move the live
// grid is appended so that Redo can return to it.
func (h *History) Undo(live Grid) (Grid, bool) {
	if h.current == 0 {
		return live, false
	}
	if len(h.snapshots) == h.current {
		h.snapshots = append(h.snapshots, live)
	}
	h.current--
	return h.snapshots[h.current], true
}

// Redo steps forward one snapshot.
func (h *History) Redo(live Grid) (Grid, bool) {
	if len(h.snapshots) <= h.current+1 {
		return live, false
	}
	h.current++
	return h.snapshots[h.current], true
}

// Reset clears all snapshots.
func (h *History) Reset() {
	h.snapshots = nil
	h.current = 0
}

// Initial returns the oldest snapshot, the grid the current game started from.
func (h *History) Initial() (Grid, bool) {
	if len(h.snapshots) == 0 {
		return Grid{}, false
	}
	return h.snapshots[0], true
}

// CanUndo reports whether Undo would change the grid.
func (h *History) CanUndo() bool {
	return h.current > 0
}

// CanRedo reports whether Redo would change the grid.
func (h *History) CanRedo() bool {
	return len(h.snapshots) > h.current+1
}

// Len returns the number of stored snapshots.
func (h *History) Len() int {
	return len(h.snapshots)
}

// Current returns the cursor position.
func (h *History) Current() int {
	return h.current
}
