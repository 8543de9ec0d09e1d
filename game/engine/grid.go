package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

var (
	ErrNotFound         = errors.New("card not found in grid")
	ErrBudgetExhausted  = errors.New("no shuffles remaining")
	ErrInconsistentGrid = errors.New("grid invariant violated")
	ErrInvalidRules     = errors.New("invalid rules")
	ErrGameWon          = errors.New("game already won")
)

// Grid is the 4×14 play area stored row-major. Being an array, a Grid is
// copied on assignment, so snapshots never alias the live grid.
type Grid [GridSize]Card

// RowOf returns the row of a slot.
func RowOf(slot int) int {
	return slot / Columns
}

// ColumnOf returns the column of a slot.
func ColumnOf(slot int) int {
	return slot % Columns
}

// IsRowFront reports whether slot is the leftmost column of its row.
func IsRowFront(slot int) bool {
	return slot%Columns == 0
}

// IsLastColumn reports whether slot is the rightmost column of its row.
func IsLastColumn(slot int) bool {
	return slot%Columns == Columns-1
}

// InRange reports whether slot addresses a grid position.
func InRange(slot int) bool {
	return slot >= 0 && slot < GridSize
}

// NewDeck returns the 52 real cards ordered by suit then rank.
func NewDeck() []Card {
	deck := make([]Card, 0, SuitCount*CardsPerSuit)
	for suit := Spades; suit <= Diamonds; suit++ {
		for rank := Ace; rank <= King; rank++ {
			deck = append(deck, NewCard(suit, rank))
		}
	}
	return deck
}

// Deal shuffles a fresh deck and lays it out with each row's blank in
// column 0 followed by thirteen cards.
func Deal(rng *rand.Rand) Grid {
	deck := NewDeck()
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	var g Grid
	next := 0
	for slot := range g {
		if IsRowFront(slot) {
			g[slot] = Blank
			continue
		}
		g[slot] = deck[next]
		next++
	}
	return g
}

// At returns the card occupying slot.
func (g *Grid) At(slot int) Card {
	return g[slot]
}

// IndexOf returns the slot holding card. For a blank it returns the first blank.
func (g *Grid) IndexOf(card Card) (int, error) {
	for i, c := range g {
		if c == card {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrNotFound, card.Code())
}

// Swap exchanges the contents of two slots without any legality check.
func (g *Grid) Swap(a, b int) {
	g[a], g[b] = g[b], g[a]
}

// IsSolvedSlot reports whether the slot's occupant has the rank its column
// calls for. Blanks count as rank 14, so only a blank in the last column
// satisfies the formula.
func (g *Grid) IsSolvedSlot(slot int) bool {
	return g[slot].Rank-1 == ColumnOf(slot)
}

// SolvedCount counts solved slots; a finished game scores GridSize.
func (g *Grid) SolvedCount() int {
	count := 0
	for slot := range g {
		if g.IsSolvedSlot(slot) {
			count++
		}
	}
	return count
}

// IsSolved reports whether every slot is solved.
func (g *Grid) IsSolved() bool {
	return g.SolvedCount() == GridSize
}

// Row returns a copy of the cards in row r.
func (g *Grid) Row(r int) []Card {
	row := make([]Card, Columns)
	copy(row, g[r*Columns:(r+1)*Columns])
	return row
}

// Verify checks the structural invariants: every real card exactly once
// and four blanks. Moves swap a card with a blank anywhere on the grid, so
// a row may hold any number of blanks.
func (g *Grid) Verify() error {
	seen := make(map[Card]int, GridSize)
	for slot, c := range g {
		if !c.Valid() {
			return fmt.Errorf("%w: invalid card %+v at slot %d", ErrInconsistentGrid, c, slot)
		}
		if c.IsBlank() {
			continue
		}
		if prev, dup := seen[c]; dup {
			return fmt.Errorf("%w: %s appears at slots %d and %d", ErrInconsistentGrid, c.Code(), prev, slot)
		}
		seen[c] = slot
	}
	// 52 distinct cards in 56 slots leave exactly four blanks
	if len(seen) != SuitCount*CardsPerSuit {
		return fmt.Errorf("%w: expected %d cards and %d blanks, found %d cards",
			ErrInconsistentGrid, SuitCount*CardsPerSuit, Rows, len(seen))
	}
	return nil
}

// Lines renders each row as space-separated card codes.
func (g *Grid) Lines() []string {
	lines := make([]string, Rows)
	for r := 0; r < Rows; r++ {
		codes := make([]string, Columns)
		for c, card := range g.Row(r) {
			codes[c] = fmt.Sprintf("%3s", card.Code())
		}
		lines[r] = strings.Join(codes, " ")
	}
	return lines
}

// String renders the grid as four lines of card codes.
func (g Grid) String() string {
	return strings.Join(g.Lines(), "\n")
}
