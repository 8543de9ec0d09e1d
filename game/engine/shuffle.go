package engine

import (
	"fmt"
	"math/rand/v2"
)

// Shuffler re-deals the cards that are not yet in a solved slot.
type Shuffler struct {
	rng *rand.Rand
}

// NewShuffler returns a shuffler drawing from rng.
func NewShuffler(rng *rand.Rand) *Shuffler {
	return &Shuffler{rng: rng}
}

// Rearrange returns a new grid in which solved slots keep their cards,
// unsolved last-column slots receive the blanks, and every other unsolved
// slot receives a uniformly shuffled leftover card.
func (s *Shuffler) Rearrange(g Grid) (Grid, error) {
	var unsolved []int
	var blanks, losers []Card
	lastColumns := 0

	for slot := range g {
		if g.IsSolvedSlot(slot) {
			continue
		}
		unsolved = append(unsolved, slot)
		if IsLastColumn(slot) {
			lastColumns++
		}
		if g[slot].IsBlank() {
			blanks = append(blanks, g[slot])
		} else {
			losers = append(losers, g[slot])
		}
	}

	if len(blanks) != lastColumns {
		return g, fmt.Errorf("%w: %d unsolved blanks for %d unsolved row ends", ErrInconsistentGrid, len(blanks), lastColumns)
	}

	s.rng.Shuffle(len(losers), func(i, j int) {
		losers[i], losers[j] = losers[j], losers[i]
	})

	out := g
	placed := GridSize - len(unsolved)
	for _, slot := range unsolved {
		if IsLastColumn(slot) {
			out[slot], blanks = blanks[0], blanks[1:]
		} else {
			if len(losers) == 0 {
				return g, fmt.Errorf("%w: ran out of cards at slot %d", ErrInconsistentGrid, slot)
			}
			out[slot], losers = losers[0], losers[1:]
		}
		placed++
	}

	if placed != GridSize || len(blanks) != 0 || len(losers) != 0 {
		return g, fmt.Errorf("%w: placed %d cards with %d blanks and %d cards left over",
			ErrInconsistentGrid, placed, len(blanks), len(losers))
	}
	return out, nil
}
