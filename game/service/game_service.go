package service

import (
	"context"

	"github.com/wricardo/carpet-solitaire/game/engine"
	"github.com/wricardo/carpet-solitaire/game/savegame"
)

// GameService defines all game-related operations
type GameService interface {
	// Game Lifecycle
	NewGame(ctx context.Context, rulesName string) (*ActionResult, error)
	Replay(ctx context.Context) (*ActionResult, error)

	// Game Operations
	Move(ctx context.Context, req MoveRequest) (*MoveResult, error)
	Undo(ctx context.Context) (*ActionResult, error)
	Redo(ctx context.Context) (*ActionResult, error)
	Shuffle(ctx context.Context) (*ActionResult, error)

	// Game State
	GetGameState(ctx context.Context) (*engine.GameState, error)
	LegalMoves(ctx context.Context) ([]engine.Move, error)

	// Persistence
	Save(ctx context.Context, name string) (*savegame.SaveInfo, error)
	Load(ctx context.Context, name string) (*ActionResult, error)
	ListSaves(ctx context.Context) ([]savegame.SaveInfo, error)
	DeleteSave(ctx context.Context, name string) error

	// Statistics
	Stats(ctx context.Context) (*Stats, error)
	ResetStats(ctx context.Context) (*Stats, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, name string) (*engine.Rules, error)
}

// Renderer receives the full game state after every change. Alert carries
// one-off events such as an invalid move or a win.
type Renderer interface {
	Redraw(state *engine.GameState)
	Alert(event, message string)
}

// ConfigManager handles rule set loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.Rules, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.Rules
}

type noopRenderer struct{}

func (noopRenderer) Redraw(*engine.GameState) {}
func (noopRenderer) Alert(string, string)     {}
