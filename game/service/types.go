package service

import (
	"errors"

	"github.com/wricardo/carpet-solitaire/game/engine"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNoSaveStore    = errors.New("saving is not configured")
)

// Event names passed to Renderer.Alert
const (
	EventInvalidMove = "invalid_move"
	EventGameWon     = "game_won"
	EventShuffle     = "shuffle_refused"
)

// RulesText is the help text shown to players
const RulesText = `Carpet Solitaire

The 52 cards and 4 blanks are laid out in 4 rows of 14. Put every row in
order from Ace to King with the blank in the last column to win.

A card can only be moved onto a blank. An Ace may be placed in the first
column of any row. Any other card must go directly to the right of the
card of the same suit that is one rank lower. Nothing can follow a King.

When no moves are left you may shuffle. Cards already in place stay put;
the rest are dealt again with a blank at the end of each row. You have
two shuffles per game under the classic rules.`

// MoveRequest identifies the dragged card and the slot it was dropped on.
// The card may be given by notation ("AS", "10h") or by the slot holding it.
type MoveRequest struct {
	Card   string `json:"card,omitempty"`
	From   *int   `json:"from,omitempty"`
	Target int    `json:"target"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success   bool              `json:"success"`
	Card      string            `json:"card"`
	From      int               `json:"from"`
	Target    int               `json:"target"`
	Won       bool              `json:"won"`
	Message   string            `json:"message"`
	GameState *engine.GameState `json:"game_state"`
	Stats     *Stats            `json:"stats,omitempty"`
}

// ActionResult contains the result of undo, redo, shuffle, replay, new game and load
type ActionResult struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	GameState *engine.GameState `json:"game_state"`
}

// Stats holds the process-lifetime game counters. GamesPlayed includes
// the game in progress.
type Stats struct {
	GamesPlayed int     `json:"games_played"`
	GamesWon    int     `json:"games_won"`
	WinPercent  float64 `json:"win_percent"`
}

// ConfigInfo provides information about a rule set
type ConfigInfo struct {
	Filename      string `json:"filename"`
	ConfigID      string `json:"config_id"` // The identifier to pass to NewGame
	Name          string `json:"name"`
	Description   string `json:"description"`
	ShuffleBudget int    `json:"shuffle_budget"`
}
