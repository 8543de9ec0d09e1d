package engine

import "fmt"

// Validation is the outcome of checking a drop.
type Validation struct {
	Legal  bool   `json:"legal"`
	Target int    `json:"target"`
	Reason string `json:"reason,omitempty"`
}

func illegal(target int, format string, args ...any) Validation {
	return Validation{Legal: false, Target: target, Reason: fmt.Sprintf(format, args...)}
}

// Validate decides whether dropping moved onto the reported nearest slot
// is legal. The grid is not modified.
func Validate(g *Grid, moved Card, nearest int) Validation {
	target := nearest

	if !moved.Draggable() {
		return illegal(target, "blank spaces cannot be moved")
	}
	if !InRange(target) {
		return illegal(target, "slot %d is outside the grid", target)
	}
	if !g.At(target).IsBlank() {
		return illegal(target, "cards can only be dropped onto a blank space")
	}

	grayCardAtStart := IsRowFront(target)
	thisIsAnAce := moved.Rank == Ace

	// The left neighbour is only inspected off the row front; slot target-1
	// belongs to the previous row (or does not exist) at column 0.
	if !grayCardAtStart && !thisIsAnAce {
		left := g.At(target - 1)
		if left.IsBlank() {
			return illegal(target, "no card can be placed to the right of a blank space")
		}
		// The suit and rank check below rejects this too; this only names the reason
		if left.Rank == King {
			return illegal(target, "no card can be placed to the right of a King")
		}
		if left.Suit != moved.Suit || left.Rank != moved.Rank-1 {
			return illegal(target, "%s must follow %s", moved.Code(), NewCard(moved.Suit, moved.Rank-1).Code())
		}
		return Validation{Legal: true, Target: target}
	}

	if grayCardAtStart && thisIsAnAce {
		return Validation{Legal: true, Target: target}
	}

	if thisIsAnAce {
		return illegal(target, "an Ace can only start a row")
	}
	return illegal(target, "only an Ace can start a row")
}

// LegalMoves lists every legal drop in the grid, ordered by target slot.
func LegalMoves(g *Grid) []Move {
	var moves []Move
	for target := range g {
		if !g.At(target).IsBlank() {
			continue
		}

		var candidates []Card
		if IsRowFront(target) {
			for suit := Spades; suit <= Diamonds; suit++ {
				candidates = append(candidates, NewCard(suit, Ace))
			}
		} else if left := g.At(target - 1); !left.IsBlank() && left.Rank < King {
			candidates = append(candidates, NewCard(left.Suit, left.Rank+1))
		}

		for _, card := range candidates {
			if !Validate(g, card, target).Legal {
				continue
			}
			from, err := g.IndexOf(card)
			if err != nil {
				continue
			}
			moves = append(moves, Move{Card: card, From: from, Target: target})
		}
	}
	return moves
}

// IsStuck reports whether no legal move is available.
func IsStuck(g *Grid) bool {
	return len(LegalMoves(g)) == 0
}
