package engine

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	Grid() Grid
	SetGrid(g Grid) error
	NewGame()
	Replay() bool
	IsWon() bool
	GameID() string

	// Moves
	Move(card Card, target int) (MoveOutcome, error)
	LegalMoves() []Move

	// History
	Undo() bool
	Redo() bool
	CanUndo() bool
	CanRedo() bool

	// Shuffling
	Shuffle() error
	ShufflesRemaining() int

	// Configuration
	GetRules() *Rules
	SetRules(rules *Rules) error
}

// MoveOutcome reports what happened to a drop.
type MoveOutcome struct {
	Validation
	Card Card `json:"card"`
	From int  `json:"from"`
	Won  bool `json:"won"`
}

// GameEngine implements the Engine interface. It owns the live grid, its
// history and the shuffle budget of one game. It is not safe for
// concurrent use; callers serialize access.
type GameEngine struct {
	grid              Grid
	history           *History
	shuffler          *Shuffler
	rng               *rand.Rand
	rules             *Rules
	shufflesRemaining int
	gameID            string
	status            Status
	message           string
}

// NewRand returns a deterministic random source for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewEngine creates an engine with the given rules and random source and
// deals the first game.
func NewEngine(rules *Rules, rng *rand.Rand) (*GameEngine, error) {
	if err := ValidateRules(rules); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewRand(rand.Uint64())
	}

	e := &GameEngine{
		history:  NewHistory(),
		shuffler: NewShuffler(rng),
		rng:      rng,
		rules:    rules,
	}
	e.NewGame()
	return e, nil
}

// NewEngineWithDefaults creates an engine with the classic rules and a random seed
func NewEngineWithDefaults() *GameEngine {
	e, err := NewEngine(DefaultRules(), nil)
	if err != nil {
		panic(fmt.Sprintf("default rules rejected: %v", err))
	}
	return e
}

// GetState returns a snapshot view of the current game
func (e *GameEngine) GetState() *GameState {
	slots := make([]Slot, GridSize)
	for i, c := range e.grid {
		slots[i] = Slot{
			Index:  i,
			Row:    RowOf(i),
			Column: ColumnOf(i),
			Card:   c,
			Code:   c.Code(),
			Solved: e.grid.IsSolvedSlot(i),
		}
	}

	legal := LegalMoves(&e.grid)
	return &GameState{
		GameID:            e.gameID,
		Rules:             e.rules.Name,
		Status:            e.status,
		Slots:             slots,
		Rows:              e.grid.Lines(),
		SolvedCount:       e.grid.SolvedCount(),
		ShufflesRemaining: e.shufflesRemaining,
		CanUndo:           e.history.CanUndo(),
		CanRedo:           e.history.CanRedo(),
		LegalMoveCount:    len(legal),
		Stuck:             len(legal) == 0,
		Message:           e.message,
	}
}

// Grid returns a copy of the live grid
func (e *GameEngine) Grid() Grid {
	return e.grid
}

// SetGrid replaces the live grid (used when loading a save). History is
// cleared; the shuffle budget is left as it is.
func (e *GameEngine) SetGrid(g Grid) error {
	if err := g.Verify(); err != nil {
		return err
	}
	e.grid = g
	e.history.Reset()
	e.gameID = uuid.NewString()
	e.refreshStatus()
	e.message = "Game loaded"
	return nil
}

// NewGame deals a fresh grid and resets history and shuffle budget
func (e *GameEngine) NewGame() {
	e.grid = Deal(e.rng)
	e.history.Reset()
	e.shufflesRemaining = e.rules.ShuffleBudget
	e.gameID = uuid.NewString()
	e.status = Playing
	e.message = "New game dealt"
}

// Replay restores the grid the current game started from. It returns
// false when there is nothing to go back to.
func (e *GameEngine) Replay() bool {
	initial, ok := e.history.Initial()
	if !ok {
		e.message = "Nothing to replay"
		return false
	}

	e.grid = initial
	e.history.Reset()
	e.shufflesRemaining = e.rules.ShuffleBudget
	e.status = Playing
	e.message = "Game restarted"
	return true
}

// IsWon returns whether the current grid is fully solved
func (e *GameEngine) IsWon() bool {
	return e.status == Won
}

// GameID returns the identifier of the current game
func (e *GameEngine) GameID() string {
	return e.gameID
}

// Move drops card onto target if the drop is legal. An illegal drop
// leaves the grid untouched and is not an error; ErrNotFound means the
// grid lost a card and signals a defect.
func (e *GameEngine) Move(card Card, target int) (MoveOutcome, error) {
	outcome := MoveOutcome{Card: card, From: -1}
	if !card.Valid() {
		outcome.Validation = illegal(target, "unknown card %+v", card)
		e.message = outcome.Reason
		return outcome, nil
	}

	outcome.Validation = Validate(&e.grid, card, target)
	if !outcome.Legal {
		e.message = outcome.Reason
		return outcome, nil
	}

	from, err := e.grid.IndexOf(card)
	if err != nil {
		return outcome, err
	}
	outcome.From = from

	e.history.RecordMove(e.grid)
	e.grid.Swap(from, outcome.Target)
	e.message = fmt.Sprintf("Moved %s to slot %d", card.Code(), outcome.Target)

	if e.grid.IsSolved() {
		e.status = Won
		e.message = "You have won Carpet Solitaire!"
		outcome.Won = true
	}
	return outcome, nil
}

// LegalMoves returns every legal drop on the live grid
func (e *GameEngine) LegalMoves() []Move {
	return LegalMoves(&e.grid)
}

// Undo steps back one move; it returns false when there is nothing to undo
func (e *GameEngine) Undo() bool {
	g, ok := e.history.Undo(e.grid)
	if !ok {
		e.message = "Nothing to undo"
		return false
	}
	e.grid = g
	e.refreshStatus()
	e.message = "Move undone"
	return true
}

// Redo re-applies an undone move; it returns false when there is nothing to redo
func (e *GameEngine) Redo() bool {
	g, ok := e.history.Redo(e.grid)
	if !ok {
		e.message = "Nothing to redo"
		return false
	}
	e.grid = g
	e.refreshStatus()
	e.message = "Move redone"
	return true
}

// CanUndo reports whether an undo is available
func (e *GameEngine) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo reports whether a redo is available
func (e *GameEngine) CanRedo() bool {
	return e.history.CanRedo()
}

// Shuffle re-deals the unsolved cards, consuming one unit of budget. The
// shuffle is recorded in history and can be undone. A won grid cannot be
// shuffled.
func (e *GameEngine) Shuffle() error {
	if e.status == Won {
		e.message = "The game is already won. Start a new game or replay this one."
		return ErrGameWon
	}
	if e.shufflesRemaining <= 0 {
		e.message = "No shuffles remaining. Start a new game or replay this one."
		return ErrBudgetExhausted
	}

	shuffled, err := e.shuffler.Rearrange(e.grid)
	if err != nil {
		return err
	}

	e.history.RecordMove(e.grid)
	e.grid = shuffled
	e.shufflesRemaining--
	e.message = fmt.Sprintf("Cards shuffled, %d shuffles remaining", e.shufflesRemaining)

	if e.grid.IsSolved() {
		e.status = Won
		e.message = "You have won Carpet Solitaire!"
	}
	return nil
}

func (e *GameEngine) refreshStatus() {
	if e.grid.IsSolved() {
		e.status = Won
		return
	}
	e.status = Playing
}

// ShufflesRemaining returns the remaining shuffle budget
func (e *GameEngine) ShufflesRemaining() int {
	return e.shufflesRemaining
}

// GetRules returns the active rule set
func (e *GameEngine) GetRules() *Rules {
	return e.rules
}

// SetRules switches rule sets and deals a new game
func (e *GameEngine) SetRules(rules *Rules) error {
	if err := ValidateRules(rules); err != nil {
		return err
	}
	e.rules = rules
	e.NewGame()
	return nil
}
