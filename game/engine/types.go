package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Suit identifies the suit of a card. None is reserved for blanks.
type Suit int

const (
	None Suit = iota
	Spades
	Hearts
	Clubs
	Diamonds
)

const (
	// Layout constants
	Rows         = 4
	Columns      = 14
	GridSize     = Rows * Columns
	CardsPerSuit = 13
	SuitCount    = 4

	Ace       = 1
	King      = 13
	BlankRank = 14

	// Validation constants
	DefaultShuffleBudget = 2
	MaxShuffleBudget     = 10
	WebSocketBufferSize  = 256
)

var suitSymbols = map[Suit]string{
	Spades:   "♠",
	Hearts:   "♥",
	Clubs:    "♣",
	Diamonds: "♦",
}

var suitLetters = map[Suit]string{
	Spades:   "S",
	Hearts:   "H",
	Clubs:    "C",
	Diamonds: "D",
}

var rankNames = map[int]string{
	1:  "A",
	11: "J",
	12: "Q",
	13: "K",
}

// String returns the suit symbol, or an empty string for None.
func (s Suit) String() string {
	return suitSymbols[s]
}

// Letter returns the single-letter suit code used in card notation.
func (s Suit) Letter() string {
	return suitLetters[s]
}

// Red reports whether the suit is hearts or diamonds.
func (s Suit) Red() bool {
	return s == Hearts || s == Diamonds
}

// Valid reports whether s is one of the four real suits.
func (s Suit) Valid() bool {
	return s >= Spades && s <= Diamonds
}

// Card is an immutable playing card or blank marker.
// Blanks have Suit None and Rank BlankRank and compare equal to each other.
type Card struct {
	Suit Suit `json:"suit"`
	Rank int  `json:"rank"`
}

// Blank is the marker that occupies exactly one slot per row.
var Blank = Card{Suit: None, Rank: BlankRank}

// NewCard returns the real card of the given suit and rank.
func NewCard(suit Suit, rank int) Card {
	return Card{Suit: suit, Rank: rank}
}

// IsBlank reports whether the card is a blank marker.
func (c Card) IsBlank() bool {
	return c.Suit == None
}

// Draggable reports whether the player may pick the card up.
func (c Card) Draggable() bool {
	return !c.IsBlank()
}

// Valid reports whether the card is a blank or a real card with a rank in 1..13.
func (c Card) Valid() bool {
	if c.IsBlank() {
		return c.Rank == BlankRank
	}
	return c.Suit.Valid() && c.Rank >= Ace && c.Rank <= King
}

// Code returns the short ASCII notation for the card ("AS", "10H", "QD").
// Blanks are written as "--".
func (c Card) Code() string {
	if c.IsBlank() {
		return "--"
	}
	return rankName(c.Rank) + c.Suit.Letter()
}

// String renders the card with its suit symbol ("A♠", "10♥").
func (c Card) String() string {
	if c.IsBlank() {
		return "··"
	}
	return rankName(c.Rank) + c.Suit.String()
}

func rankName(rank int) string {
	if name, ok := rankNames[rank]; ok {
		return name
	}
	return strconv.Itoa(rank)
}

// ParseCard parses card notation such as "AS", "10h", "qd" or "2♣".
func ParseCard(s string) (Card, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return Card{}, fmt.Errorf("empty card notation")
	}

	var suit Suit
	var rankPart string
	for candidate, letter := range suitLetters {
		symbol := suitSymbols[candidate]
		if strings.HasSuffix(s, letter) {
			suit, rankPart = candidate, strings.TrimSuffix(s, letter)
			break
		}
		if strings.HasSuffix(s, symbol) {
			suit, rankPart = candidate, strings.TrimSuffix(s, symbol)
			break
		}
	}
	if suit == None {
		return Card{}, fmt.Errorf("card %q: unknown suit", s)
	}

	var rank int
	switch rankPart {
	case "A":
		rank = Ace
	case "J":
		rank = 11
	case "Q":
		rank = 12
	case "K":
		rank = King
	default:
		n, err := strconv.Atoi(rankPart)
		if err != nil || n < 2 || n > 10 {
			return Card{}, fmt.Errorf("card %q: unknown rank %q", s, rankPart)
		}
		rank = n
	}

	return NewCard(suit, rank), nil
}

// Rules is a named rule set loaded from a configuration file.
type Rules struct {
	Name             string `json:"name" yaml:"name"`
	Description      string `json:"description" yaml:"description"`
	ShuffleBudget    int    `json:"shuffle_budget" yaml:"shuffle_budget"`
	AutoNewGameOnWin *bool  `json:"auto_new_game_on_win,omitempty" yaml:"auto_new_game_on_win,omitempty"`
}

// RestartsOnWin reports whether a win immediately deals a new game.
func (r *Rules) RestartsOnWin() bool {
	return r == nil || r.AutoNewGameOnWin == nil || *r.AutoNewGameOnWin
}

// Status is the lifecycle state of a game.
type Status string

const (
	Playing Status = "playing"
	Won     Status = "won"
)

// Move is a legal (card, target slot) pair.
type Move struct {
	Card   Card `json:"card"`
	From   int  `json:"from"`
	Target int  `json:"target"`
}

// Slot describes one grid position for presentation layers.
type Slot struct {
	Index  int    `json:"index"`
	Row    int    `json:"row"`
	Column int    `json:"column"`
	Card   Card   `json:"card"`
	Code   string `json:"code"`
	Solved bool   `json:"solved"`
}

// GameState is the serializable view of a game handed to renderers.
type GameState struct {
	GameID            string   `json:"game_id"`
	Rules             string   `json:"rules"`
	Status            Status   `json:"status"`
	Slots             []Slot   `json:"slots"`
	Rows              []string `json:"rows"`
	SolvedCount       int      `json:"solved_count"`
	ShufflesRemaining int      `json:"shuffles_remaining"`
	CanUndo           bool     `json:"can_undo"`
	CanRedo           bool     `json:"can_redo"`
	LegalMoveCount    int      `json:"legal_move_count"`
	Stuck             bool     `json:"stuck"`
	Message           string   `json:"message"`
}
