package engine

import (
	"testing"
)

// playLegalMoves makes up to n legal moves, always taking the first one
// offered, and returns how many were made.
func playLegalMoves(t *testing.T, e *GameEngine, n int) int {
	t.Helper()
	made := 0
	for made < n {
		moves := e.LegalMoves()
		if len(moves) == 0 {
			break
		}
		outcome, err := e.Move(moves[0].Card, moves[0].Target)
		if err != nil {
			t.Fatalf("Move %d failed: %v", made+1, err)
		}
		if !outcome.Legal {
			t.Fatalf("Move %d offered by LegalMoves was rejected: %s", made+1, outcome.Reason)
		}
		made++
	}
	return made
}

func TestEngine_UndoRedoRoundTrip(t *testing.T) {
	for seed := uint64(1); seed <= 10; seed++ {
		e, err := NewEngine(DefaultRules(), NewRand(seed))
		if err != nil {
			t.Fatalf("Failed to create engine: %v", err)
		}
		start := e.Grid()

		n := playLegalMoves(t, e, 8)
		if n == 0 {
			t.Fatalf("Seed %d: expected at least one legal move", seed)
		}
		end := e.Grid()

		for i := 0; i < n; i++ {
			if !e.Undo() {
				t.Fatalf("Seed %d: undo %d failed", seed, i+1)
			}
		}
		if e.Grid() != start {
			t.Errorf("Seed %d: expected %d undos to restore the starting grid", seed, n)
		}
		if e.CanUndo() {
			t.Errorf("Seed %d: expected nothing left to undo", seed)
		}

		for i := 0; i < n; i++ {
			if !e.Redo() {
				t.Fatalf("Seed %d: redo %d failed", seed, i+1)
			}
		}
		if e.Grid() != end {
			t.Errorf("Seed %d: expected %d redos to restore the final grid", seed, n)
		}
		if e.CanRedo() {
			t.Errorf("Seed %d: expected nothing left to redo", seed)
		}
	}
}

func TestEngine_RedoInvalidation(t *testing.T) {
	e := createTestEngine(t)
	if playLegalMoves(t, e, 2) != 2 {
		t.Fatal("Expected two legal moves on a fresh deal")
	}

	if !e.Undo() {
		t.Fatal("Expected undo to succeed")
	}
	if !e.CanRedo() {
		t.Fatal("Expected redo to be available after undo")
	}

	if playLegalMoves(t, e, 1) != 1 {
		t.Fatal("Expected a legal move after undo")
	}
	if e.CanRedo() {
		t.Error("Expected a new move to invalidate redo")
	}
	if e.Redo() {
		t.Error("Expected redo to be a no-op")
	}
}

func TestEngine_UndoRedoNoOps(t *testing.T) {
	e := createTestEngine(t)
	g := e.Grid()
	if e.Undo() {
		t.Error("Expected undo on a fresh game to be a no-op")
	}
	if e.Redo() {
		t.Error("Expected redo on a fresh game to be a no-op")
	}
	if e.Grid() != g {
		t.Error("No-op undo/redo must not change the grid")
	}
}

func TestHistory_Cursor(t *testing.T) {
	h := NewHistory()
	a, b, c := SolvedGrid(), almostSolvedGrid(), aceMissingGrid()

	h.RecordMove(a)
	h.RecordMove(b)
	if h.Len() != 2 || h.Current() != 2 {
		t.Fatalf("Expected len 2 cursor 2, got len %d cursor %d", h.Len(), h.Current())
	}
	if h.CanRedo() {
		t.Error("Expected no redo before any undo")
	}

	// First undo appends the live grid.
	got, ok := h.Undo(c)
	if !ok || got != b {
		t.Fatal("Expected undo to return the last recorded grid")
	}
	if h.Len() != 3 || h.Current() != 1 {
		t.Errorf("Expected len 3 cursor 1, got len %d cursor %d", h.Len(), h.Current())
	}

	got, ok = h.Undo(b)
	if !ok || got != a {
		t.Fatal("Expected second undo to return the first grid")
	}
	if h.Len() != 3 {
		t.Errorf("Expected second undo not to append, len %d", h.Len())
	}
	if _, ok := h.Undo(a); ok {
		t.Error("Expected undo at cursor 0 to fail")
	}

	got, ok = h.Redo(a)
	if !ok || got != b {
		t.Fatal("Expected redo to return the second grid")
	}
	got, ok = h.Redo(b)
	if !ok || got != c {
		t.Fatal("Expected redo to return the live grid captured by the first undo")
	}
	if _, ok := h.Redo(c); ok {
		t.Error("Expected redo at the top to fail")
	}

	initial, ok := h.Initial()
	if !ok || initial != a {
		t.Error("Expected Initial to return the first snapshot")
	}

	h.Reset()
	if h.Len() != 0 || h.CanUndo() || h.CanRedo() {
		t.Error("Expected Reset to clear history")
	}
	if _, ok := h.Initial(); ok {
		t.Error("Expected no initial grid after reset")
	}
}

func TestHistory_RecordTruncates(t *testing.T) {
	h := NewHistory()
	a, b, c := SolvedGrid(), almostSolvedGrid(), aceMissingGrid()

	h.RecordMove(a)
	h.RecordMove(b)
	h.Undo(c)
	h.Undo(b)
	h.RecordMove(a)

	if h.Len() != 1 || h.Current() != 1 {
		t.Errorf("Expected truncation to len 1 cursor 1, got len %d cursor %d", h.Len(), h.Current())
	}
	if h.CanRedo() {
		t.Error("Expected redo branch to be discarded")
	}
}

func TestHistory_SnapshotsAreCopies(t *testing.T) {
	h := NewHistory()
	g := SolvedGrid()
	h.RecordMove(g)
	g.Swap(0, 13)

	got, ok := h.Undo(g)
	if !ok {
		t.Fatal("Expected undo to succeed")
	}
	if got != SolvedGrid() {
		t.Error("Mutating the live grid must not change recorded snapshots")
	}
}

func TestShuffler_PreservesSolvedSlots(t *testing.T) {
	for seed := uint64(1); seed <= 25; seed++ {
		e, err := NewEngine(DefaultRules(), NewRand(seed))
		if err != nil {
			t.Fatalf("Failed to create engine: %v", err)
		}
		playLegalMoves(t, e, 6)
		before := e.Grid()

		after, err := NewShuffler(NewRand(seed+100)).Rearrange(before)
		if err != nil {
			t.Fatalf("Seed %d: unexpected error: %v", seed, err)
		}

		for slot := range before {
			if before.IsSolvedSlot(slot) && after.At(slot) != before.At(slot) {
				t.Errorf("Seed %d: solved slot %d changed from %s to %s",
					seed, slot, before.At(slot).Code(), after.At(slot).Code())
			}
		}
		if err := after.Verify(); err != nil {
			t.Errorf("Seed %d: shuffled grid is invalid: %v", seed, err)
		}
	}
}

func TestShuffler_BlanksInLastColumn(t *testing.T) {
	for seed := uint64(1); seed <= 25; seed++ {
		g := Deal(NewRand(seed))
		out, err := NewShuffler(NewRand(seed)).Rearrange(g)
		if err != nil {
			t.Fatalf("Seed %d: unexpected error: %v", seed, err)
		}
		for slot, c := range out {
			if c.IsBlank() != IsLastColumn(slot) {
				t.Fatalf("Seed %d: slot %d holds %s after shuffle", seed, slot, c.Code())
			}
		}
	}
}

func TestShuffler_SolvedGridUnchanged(t *testing.T) {
	g := SolvedGrid()
	out, err := NewShuffler(NewRand(1)).Rearrange(g)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out != g {
		t.Error("Expected a solved grid to shuffle to itself")
	}
}

func TestShuffler_InconsistentGrid(t *testing.T) {
	g := SolvedGrid()
	// Five blanks: the shuffle cannot place them all in last columns.
	g[5] = Blank
	if _, err := NewShuffler(NewRand(1)).Rearrange(g); err == nil {
		t.Error("Expected an inconsistency error")
	}
}

func TestEngine_ShuffleIsUndoable(t *testing.T) {
	e := createTestEngine(t)
	before := e.Grid()

	if err := e.Shuffle(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	after := e.Grid()
	if !e.CanUndo() {
		t.Fatal("Expected shuffle to be recorded")
	}

	if !e.Undo() || e.Grid() != before {
		t.Error("Expected undo to restore the pre-shuffle grid")
	}
	if !e.Redo() || e.Grid() != after {
		t.Error("Expected redo to restore the shuffled grid")
	}
}

func TestEngine_AceMissingScenario(t *testing.T) {
	e := createTestEngine(t)
	if err := e.SetGrid(aceMissingGrid()); err != nil {
		t.Fatalf("Failed to set grid: %v", err)
	}

	ace := NewCard(Spades, Ace)
	outcome, err := e.Move(ace, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !outcome.Legal || outcome.From != 14 {
		t.Fatalf("Expected AS to move from 14 to 0, got %+v", outcome)
	}

	g := e.Grid()
	for c := 0; c < King; c++ {
		if g.At(c) != NewCard(Spades, c+1) {
			t.Errorf("Expected %s at slot %d, got %s", NewCard(Spades, c+1).Code(), c, g.At(c).Code())
		}
	}
	if !g.At(14).IsBlank() {
		t.Errorf("Expected the displaced blank at slot 14, got %s", g.At(14).Code())
	}

	// Row 0 now has no blank and row 1 has two; the grid must still load
	if err := e.SetGrid(g); err != nil {
		t.Errorf("Expected the grid to reload after a cross-row move, got %v", err)
	}
}

func TestEngine_SuitMismatchScenario(t *testing.T) {
	e := createTestEngine(t)
	if err := e.SetGrid(suitMismatchGrid()); err != nil {
		t.Fatalf("Failed to set grid: %v", err)
	}
	before := e.Grid()

	outcome, err := e.Move(NewCard(Hearts, 5), 5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if outcome.Legal {
		t.Fatal("Expected 5H after 4S to be illegal")
	}
	if e.Grid() != before {
		t.Error("Expected the grid to be unchanged")
	}
}
