package engine

// SolvedPerRow counts the solved slots of each row
func SolvedPerRow(g *Grid) []int {
	counts := make([]int, Rows)
	for slot := range g {
		if g.IsSolvedSlot(slot) {
			counts[RowOf(slot)]++
		}
	}
	return counts
}

// CompletedRows counts rows that are fully in order with the blank last
func CompletedRows(g *Grid) int {
	done := 0
	for _, n := range SolvedPerRow(g) {
		if n == Columns {
			done++
		}
	}
	return done
}

// BlankSlots returns the slots currently holding blanks
func BlankSlots(g *Grid) []int {
	var slots []int
	for slot, c := range g {
		if c.IsBlank() {
			slots = append(slots, slot)
		}
	}
	return slots
}

// SolvedGrid returns the winning layout with suits in deck order
func SolvedGrid() Grid {
	var g Grid
	for r := 0; r < Rows; r++ {
		suit := Suit(r + 1)
		for c := 0; c < Columns-1; c++ {
			g[r*Columns+c] = NewCard(suit, c+1)
		}
		g[r*Columns+Columns-1] = Blank
	}
	return g
}

// WinPercent returns won/played as a percentage, zero when nothing was played
func WinPercent(played, won int) float64 {
	if played <= 0 {
		return 0
	}
	return float64(won) / float64(played) * 100
}
