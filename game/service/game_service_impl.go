package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/wricardo/carpet-solitaire/game/engine"
	"github.com/wricardo/carpet-solitaire/game/savegame"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	engine   engine.Engine
	configs  ConfigManager
	saves    savegame.Store
	renderer Renderer
	log      logrus.FieldLogger

	gamesPlayed int
	gamesWon    int
	wonGameID   string
	mu          sync.Mutex
}

// Options carries the optional collaborators of a GameService
type Options struct {
	Configs  ConfigManager
	Saves    savegame.Store
	Renderer Renderer
	Logger   logrus.FieldLogger
}

// NewGameService creates a game service around an engine. Missing options
// fall back to no saves, no rule sets, a no-op renderer and the standard logger.
func NewGameService(eng engine.Engine, opts Options) GameService {
	s := &gameServiceImpl{
		engine:      eng,
		configs:     opts.Configs,
		saves:       opts.Saves,
		renderer:    opts.Renderer,
		log:         opts.Logger,
		gamesPlayed: 1,
	}
	if s.renderer == nil {
		s.renderer = noopRenderer{}
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	return s
}

// NewGame deals a new game, switching rule sets when rulesName names a
// different one
func (s *gameServiceImpl) NewGame(ctx context.Context, rulesName string) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rulesName = strings.TrimSpace(rulesName)
	if rulesName != "" && rulesName != s.engine.GetRules().Name {
		if s.configs == nil {
			return nil, fmt.Errorf("%w: no rule sets configured", ErrInvalidRequest)
		}
		rules, err := s.configs.LoadConfig(rulesName)
		if err != nil {
			return nil, fmt.Errorf("failed to load rules %s: %w", rulesName, err)
		}
		if err := s.engine.SetRules(rules); err != nil {
			return nil, err
		}
		s.gamesPlayed++
	} else {
		s.newGameLocked()
	}

	state := s.engine.GetState()
	s.log.WithFields(logrus.Fields{
		"game_id": state.GameID,
		"rules":   state.Rules,
	}).Info("New game dealt")
	s.renderer.Redraw(state)

	return &ActionResult{Success: true, Message: state.Message, GameState: state}, nil
}

func (s *gameServiceImpl) newGameLocked() {
	s.engine.NewGame()
	s.gamesPlayed++
}

// Replay restarts the current game from its first grid
func (s *gameServiceImpl) Replay(ctx context.Context) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok := s.engine.Replay()
	state := s.engine.GetState()
	if ok {
		s.renderer.Redraw(state)
	}
	return &ActionResult{Success: ok, Message: state.Message, GameState: state}, nil
}

// Move drops a card onto a slot. Illegal drops are reported in the result,
// not as errors.
func (s *gameServiceImpl) Move(ctx context.Context, req MoveRequest) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, err := s.resolveCard(req)
	if err != nil {
		return nil, err
	}

	outcome, err := s.engine.Move(card, req.Target)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"game_id": s.engine.GameID(),
			"card":    card.Code(),
			"target":  req.Target,
		}).Error("Grid lost track of a card")
		return nil, err
	}

	result := &MoveResult{
		Success: outcome.Legal,
		Card:    card.Code(),
		From:    outcome.From,
		Target:  req.Target,
		Won:     outcome.Won,
	}

	if !outcome.Legal {
		s.log.WithFields(logrus.Fields{
			"card":   card.Code(),
			"target": req.Target,
			"reason": outcome.Reason,
		}).Debug("Illegal move")
		result.Message = outcome.Reason
		result.GameState = s.engine.GetState()
		s.renderer.Alert(EventInvalidMove, outcome.Reason)
		return result, nil
	}

	result.Message = s.engine.GetState().Message
	if outcome.Won {
		result.Message = s.handleWinLocked()
		result.Stats = s.statsLocked()
	}

	result.GameState = s.engine.GetState()
	s.renderer.Redraw(result.GameState)
	return result, nil
}

// resolveCard turns a request into the card being moved
func (s *gameServiceImpl) resolveCard(req MoveRequest) (engine.Card, error) {
	var byNotation engine.Card
	if req.Card != "" {
		card, err := engine.ParseCard(req.Card)
		if err != nil {
			return engine.Card{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		byNotation = card
	}

	if req.From == nil {
		if req.Card == "" {
			return engine.Card{}, fmt.Errorf("%w: card or from is required", ErrInvalidRequest)
		}
		return byNotation, nil
	}

	if !engine.InRange(*req.From) {
		return engine.Card{}, fmt.Errorf("%w: slot %d out of range", ErrInvalidRequest, *req.From)
	}
	grid := s.engine.Grid()
	held := grid.At(*req.From)
	if req.Card != "" && held != byNotation {
		return engine.Card{}, fmt.Errorf("%w: slot %d holds %s, not %s", ErrInvalidRequest, *req.From, held.Code(), byNotation.Code())
	}
	return held, nil
}

// handleWinLocked counts the win and, when the rules say so, deals the next
// game. It returns the message to show the player.
func (s *gameServiceImpl) handleWinLocked() string {
	state := s.engine.GetState()
	msg := state.Message

	// Undoing a win and winning again is still one game
	if state.GameID != s.wonGameID {
		s.wonGameID = state.GameID
		s.gamesWon++
		s.log.WithFields(logrus.Fields{
			"game_id":      state.GameID,
			"games_played": s.gamesPlayed,
			"games_won":    s.gamesWon,
		}).Info("Game won")
	}

	s.renderer.Redraw(state)
	s.renderer.Alert(EventGameWon, msg)

	if s.engine.GetRules().RestartsOnWin() {
		s.newGameLocked()
	}
	return msg
}

// Undo steps back one move
func (s *gameServiceImpl) Undo(ctx context.Context) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok := s.engine.Undo()
	state := s.engine.GetState()
	if ok {
		s.renderer.Redraw(state)
	}
	return &ActionResult{Success: ok, Message: state.Message, GameState: state}, nil
}

// Redo re-applies an undone move
func (s *gameServiceImpl) Redo(ctx context.Context) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok := s.engine.Redo()
	state := s.engine.GetState()
	if ok {
		s.renderer.Redraw(state)
	}
	return &ActionResult{Success: ok, Message: state.Message, GameState: state}, nil
}

// Shuffle re-deals the unsolved cards
func (s *gameServiceImpl) Shuffle(ctx context.Context) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.Shuffle(); err != nil {
		if errors.Is(err, engine.ErrBudgetExhausted) || errors.Is(err, engine.ErrGameWon) {
			s.renderer.Alert(EventShuffle, s.engine.GetState().Message)
			return nil, err
		}
		s.log.WithError(err).WithField("game_id", s.engine.GameID()).Error("Shuffle failed")
		return nil, err
	}

	msg := s.engine.GetState().Message
	if s.engine.IsWon() {
		msg = s.handleWinLocked()
	}

	state := s.engine.GetState()
	s.log.WithFields(logrus.Fields{
		"game_id":   state.GameID,
		"remaining": state.ShufflesRemaining,
		"solved":    state.SolvedCount,
	}).Info("Cards shuffled")
	s.renderer.Redraw(state)

	return &ActionResult{Success: true, Message: msg, GameState: state}, nil
}

// GetGameState returns the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.GetState(), nil
}

// LegalMoves lists every legal drop on the current grid
func (s *gameServiceImpl) LegalMoves(ctx context.Context) ([]engine.Move, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.LegalMoves(), nil
}

// Save writes the current grid under name
func (s *gameServiceImpl) Save(ctx context.Context, name string) (*savegame.SaveInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saves == nil {
		return nil, ErrNoSaveStore
	}

	info, err := s.saves.Save(name, s.engine.Grid())
	if err != nil {
		s.log.WithError(err).WithField("name", name).Warn("Save failed")
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"name":   info.Name,
		"format": info.Format,
	}).Info("Game saved")
	return info, nil
}

// Load replaces the current grid with a saved one and counts it as a new
// game played. A failed load leaves the game untouched.
func (s *gameServiceImpl) Load(ctx context.Context, name string) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saves == nil {
		return nil, ErrNoSaveStore
	}

	grid, err := s.saves.Load(name)
	if err != nil {
		s.log.WithError(err).WithField("name", name).Warn("Load failed")
		return nil, err
	}
	if err := s.engine.SetGrid(grid); err != nil {
		return nil, fmt.Errorf("%w: %v", savegame.ErrCorruptSave, err)
	}
	s.gamesPlayed++

	state := s.engine.GetState()
	s.log.WithFields(logrus.Fields{
		"name":    name,
		"game_id": state.GameID,
		"solved":  state.SolvedCount,
	}).Info("Game loaded")
	s.renderer.Redraw(state)

	return &ActionResult{Success: true, Message: state.Message, GameState: state}, nil
}

// ListSaves returns all saves
func (s *gameServiceImpl) ListSaves(ctx context.Context) ([]savegame.SaveInfo, error) {
	if s.saves == nil {
		return nil, ErrNoSaveStore
	}
	return s.saves.List()
}

// DeleteSave removes a save
func (s *gameServiceImpl) DeleteSave(ctx context.Context, name string) error {
	if s.saves == nil {
		return ErrNoSaveStore
	}
	return s.saves.Delete(name)
}

// Stats returns the session counters
func (s *gameServiceImpl) Stats(ctx context.Context) (*Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statsLocked(), nil
}

// ResetStats restarts the counters with the current game as the only one played
func (s *gameServiceImpl) ResetStats(ctx context.Context) (*Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gamesPlayed = 1
	s.gamesWon = 0
	return s.statsLocked(), nil
}

func (s *gameServiceImpl) statsLocked() *Stats {
	return &Stats{
		GamesPlayed: s.gamesPlayed,
		GamesWon:    s.gamesWon,
		WinPercent:  engine.WinPercent(s.gamesPlayed, s.gamesWon),
	}
}

// ListConfigs returns the available rule sets
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	if s.configs == nil {
		return []*ConfigInfo{}, nil
	}
	return s.configs.ListConfigs()
}

// LoadConfig returns a rule set by name
func (s *gameServiceImpl) LoadConfig(ctx context.Context, name string) (*engine.Rules, error) {
	if s.configs == nil {
		return nil, fmt.Errorf("%w: no rule sets configured", ErrInvalidRequest)
	}
	return s.configs.LoadConfig(name)
}
