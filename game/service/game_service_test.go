package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/wricardo/carpet-solitaire/game/engine"
	"github.com/wricardo/carpet-solitaire/game/savegame"
	"github.com/wricardo/carpet-solitaire/game/service"
)

// MockRenderer records redraws and alerts
type MockRenderer struct {
	mu      sync.Mutex
	redraws []*engine.GameState
	alerts  []string
}

func (m *MockRenderer) Redraw(state *engine.GameState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.redraws = append(m.redraws, state)
}

func (m *MockRenderer) Alert(event, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts = append(m.alerts, event)
}

func (m *MockRenderer) Redraws() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redraws)
}

func (m *MockRenderer) LastAlert() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.alerts) == 0 {
		return ""
	}
	return m.alerts[len(m.alerts)-1]
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*engine.Rules
}

func NewMockConfigManager() *MockConfigManager {
	off := false
	return &MockConfigManager{
		configs: map[string]*engine.Rules{
			"classic": engine.DefaultRules(),
			"generous": {
				Name:          "generous",
				Description:   "Five shuffles",
				ShuffleBudget: 5,
			},
			"keep": {
				Name:             "keep",
				Description:      "Stay on the won grid",
				ShuffleBudget:    2,
				AutoNewGameOnWin: &off,
			},
		},
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.Rules, error) {
	rules, ok := m.configs[name]
	if !ok {
		return nil, errors.New("configuration not found")
	}
	return rules, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	var infos []*service.ConfigInfo
	for id, rules := range m.configs {
		infos = append(infos, &service.ConfigInfo{
			Filename:      id + ".json",
			ConfigID:      id,
			Name:          rules.Name,
			Description:   rules.Description,
			ShuffleBudget: rules.ShuffleBudget,
		})
	}
	return infos, nil
}

func (m *MockConfigManager) GetDefault() *engine.Rules {
	return m.configs["classic"]
}

type fixture struct {
	svc      service.GameService
	eng      *engine.GameEngine
	renderer *MockRenderer
	store    *savegame.FileStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	eng, err := engine.NewEngine(engine.DefaultRules(), engine.NewRand(42))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	store, err := savegame.NewFileStore(t.TempDir(), savegame.JSON)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	renderer := &MockRenderer{}
	svc := service.NewGameService(eng, service.Options{
		Configs:  NewMockConfigManager(),
		Saves:    store,
		Renderer: renderer,
	})
	return &fixture{svc: svc, eng: eng, renderer: renderer, store: store}
}

// almostSolved returns the winning layout with KS and row 0's blank swapped
func almostSolved() engine.Grid {
	g := engine.SolvedGrid()
	g.Swap(12, 13)
	return g
}

func TestGameService_GetGameState(t *testing.T) {
	f := newFixture(t)
	state, err := f.svc.GetGameState(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if state.Status != engine.Playing {
		t.Errorf("Expected playing, got %s", state.Status)
	}
	if len(state.Slots) != engine.GridSize {
		t.Errorf("Expected %d slots, got %d", engine.GridSize, len(state.Slots))
	}
}

func TestGameService_Move(t *testing.T) {
	ctx := context.Background()

	t.Run("By Notation", func(t *testing.T) {
		f := newFixture(t)
		result, err := f.svc.Move(ctx, service.MoveRequest{Card: "as", Target: 0})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !result.Success {
			t.Fatalf("Expected legal move, got %q", result.Message)
		}
		if result.Card != "AS" || result.Target != 0 {
			t.Errorf("Unexpected result: %+v", result)
		}
		if result.GameState.Slots[0].Code != "AS" {
			t.Errorf("Expected AS at slot 0, got %s", result.GameState.Slots[0].Code)
		}
		if f.renderer.Redraws() != 1 {
			t.Errorf("Expected one redraw, got %d", f.renderer.Redraws())
		}
	})

	t.Run("By Slot", func(t *testing.T) {
		f := newFixture(t)
		grid := f.eng.Grid()
		from, err := grid.IndexOf(engine.NewCard(engine.Diamonds, engine.Ace))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		result, err := f.svc.Move(ctx, service.MoveRequest{From: &from, Target: 42})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !result.Success || result.Card != "AD" || result.From != from {
			t.Errorf("Unexpected result: %+v", result)
		}
	})

	t.Run("Illegal", func(t *testing.T) {
		f := newFixture(t)
		before := f.eng.Grid()

		result, err := f.svc.Move(ctx, service.MoveRequest{Card: "KH", Target: 0})
		if err != nil {
			t.Fatalf("Illegal moves must not be errors: %v", err)
		}
		if result.Success {
			t.Fatal("Expected illegal move")
		}
		if result.Message == "" {
			t.Error("Expected a reason")
		}
		if f.eng.Grid() != before {
			t.Error("Illegal move must not change the grid")
		}
		if f.renderer.LastAlert() != service.EventInvalidMove {
			t.Errorf("Expected %s alert, got %q", service.EventInvalidMove, f.renderer.LastAlert())
		}
		if f.renderer.Redraws() != 0 {
			t.Error("Illegal move must not redraw")
		}
	})

	t.Run("Bad Requests", func(t *testing.T) {
		f := newFixture(t)
		outOfRange := 77
		zero := 0

		requests := []service.MoveRequest{
			{Target: 0},
			{Card: "ZZ", Target: 0},
			{From: &outOfRange, Target: 0},
			{Card: "AS", From: &zero, Target: 14}, // slot 0 holds a blank
		}
		for _, req := range requests {
			if _, err := f.svc.Move(ctx, req); !errors.Is(err, service.ErrInvalidRequest) {
				t.Errorf("Expected ErrInvalidRequest for %+v, got %v", req, err)
			}
		}
	})
}

func TestGameService_WinStartsNewGame(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	if err := f.eng.SetGrid(almostSolved()); err != nil {
		t.Fatalf("Failed to set grid: %v", err)
	}
	wonID := f.eng.GameID()

	result, err := f.svc.Move(ctx, service.MoveRequest{Card: "KS", Target: 12})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.Success || !result.Won {
		t.Fatalf("Expected a winning move, got %+v", result)
	}
	if result.Message != "You have won Carpet Solitaire!" {
		t.Errorf("Unexpected message %q", result.Message)
	}
	if result.Stats == nil || result.Stats.GamesWon != 1 || result.Stats.GamesPlayed != 2 {
		t.Errorf("Expected 2 played 1 won, got %+v", result.Stats)
	}
	if result.GameState.GameID == wonID || result.GameState.Status != engine.Playing {
		t.Error("Expected a fresh game after the win")
	}
	if f.renderer.LastAlert() != service.EventGameWon {
		t.Errorf("Expected %s alert, got %q", service.EventGameWon, f.renderer.LastAlert())
	}
	if f.renderer.Redraws() != 2 {
		t.Errorf("Expected redraws for the won grid and the new deal, got %d", f.renderer.Redraws())
	}
}

func TestGameService_WinWithoutRestart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	if _, err := f.svc.NewGame(ctx, "keep"); err != nil {
		t.Fatalf("Failed to switch rules: %v", err)
	}
	if err := f.eng.SetGrid(almostSolved()); err != nil {
		t.Fatalf("Failed to set grid: %v", err)
	}

	result, err := f.svc.Move(ctx, service.MoveRequest{Card: "KS", Target: 12})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.Won || result.GameState.Status != engine.Won {
		t.Errorf("Expected the won grid to stay, got status %s", result.GameState.Status)
	}
	if result.Stats.GamesPlayed != 2 || result.Stats.GamesWon != 1 {
		t.Errorf("Unexpected stats %+v", result.Stats)
	}
}

func TestGameService_ShuffleAfterWinIsRefused(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	if _, err := f.svc.NewGame(ctx, "keep"); err != nil {
		t.Fatalf("Failed to switch rules: %v", err)
	}
	if err := f.eng.SetGrid(almostSolved()); err != nil {
		t.Fatalf("Failed to set grid: %v", err)
	}
	if _, err := f.svc.Move(ctx, service.MoveRequest{Card: "KS", Target: 12}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	won := f.eng.Grid()

	for i := 0; i < 2; i++ {
		if _, err := f.svc.Shuffle(ctx); !errors.Is(err, engine.ErrGameWon) {
			t.Errorf("Shuffle %d: expected ErrGameWon, got %v", i+1, err)
		}
	}
	if f.eng.Grid() != won || f.eng.ShufflesRemaining() != 2 {
		t.Error("A refused shuffle must leave the grid and budget alone")
	}
	// Only the winning move is in history
	if !f.eng.Undo() || f.eng.Grid() != almostSolved() || f.eng.CanUndo() {
		t.Error("Expected a single history entry for the winning move")
	}

	stats, _ := f.svc.Stats(ctx)
	if stats.GamesPlayed != 2 || stats.GamesWon != 1 {
		t.Errorf("Expected 2 played 1 won, got %+v", stats)
	}
}

func TestGameService_WinCountedOncePerGame(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	if _, err := f.svc.NewGame(ctx, "keep"); err != nil {
		t.Fatalf("Failed to switch rules: %v", err)
	}
	if err := f.eng.SetGrid(almostSolved()); err != nil {
		t.Fatalf("Failed to set grid: %v", err)
	}

	// Win, step back, and win the same game again
	for i := 0; i < 2; i++ {
		result, err := f.svc.Move(ctx, service.MoveRequest{Card: "KS", Target: 12})
		if err != nil || !result.Won {
			t.Fatalf("Move %d: expected a win, got %+v %v", i+1, result, err)
		}
		if i == 0 {
			if undo, _ := f.svc.Undo(ctx); !undo.Success {
				t.Fatal("Expected undo after the win")
			}
		}
	}

	stats, _ := f.svc.Stats(ctx)
	if stats.GamesWon != 1 || stats.GamesWon > stats.GamesPlayed {
		t.Errorf("Expected one win for one game, got %+v", stats)
	}
}

func TestGameService_NewGameAndStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	stats, _ := f.svc.Stats(ctx)
	if stats.GamesPlayed != 1 || stats.GamesWon != 0 || stats.WinPercent != 0 {
		t.Errorf("Unexpected initial stats %+v", stats)
	}

	if _, err := f.svc.NewGame(ctx, ""); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	result, err := f.svc.NewGame(ctx, "generous")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.GameState.Rules != "generous" || result.GameState.ShufflesRemaining != 5 {
		t.Errorf("Expected generous rules, got %s with %d shuffles", result.GameState.Rules, result.GameState.ShufflesRemaining)
	}

	stats, _ = f.svc.Stats(ctx)
	if stats.GamesPlayed != 3 {
		t.Errorf("Expected 3 games played, got %d", stats.GamesPlayed)
	}

	if _, err := f.svc.NewGame(ctx, "missing"); err == nil {
		t.Error("Expected error for unknown rules")
	}

	stats, _ = f.svc.ResetStats(ctx)
	if stats.GamesPlayed != 1 || stats.GamesWon != 0 {
		t.Errorf("Expected reset to 1/0, got %+v", stats)
	}
}

func TestGameService_UndoRedoReplay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	start := f.eng.Grid()

	result, err := f.svc.Undo(ctx)
	if err != nil || result.Success {
		t.Errorf("Expected no-op undo, got %+v %v", result, err)
	}

	if _, err := f.svc.Move(ctx, service.MoveRequest{Card: "AH", Target: 14}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	moved := f.eng.Grid()

	result, _ = f.svc.Undo(ctx)
	if !result.Success || f.eng.Grid() != start {
		t.Error("Expected undo to restore the start grid")
	}
	result, _ = f.svc.Redo(ctx)
	if !result.Success || f.eng.Grid() != moved {
		t.Error("Expected redo to restore the moved grid")
	}

	result, _ = f.svc.Replay(ctx)
	if !result.Success || f.eng.Grid() != start {
		t.Error("Expected replay to restore the start grid")
	}
	result, _ = f.svc.Replay(ctx)
	if result.Success {
		t.Error("Expected second replay to be a no-op")
	}
}

func TestGameService_Shuffle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for i := 0; i < engine.DefaultShuffleBudget; i++ {
		result, err := f.svc.Shuffle(ctx)
		if err != nil {
			t.Fatalf("Shuffle %d failed: %v", i+1, err)
		}
		if result.GameState.ShufflesRemaining != engine.DefaultShuffleBudget-i-1 {
			t.Errorf("Unexpected budget %d", result.GameState.ShufflesRemaining)
		}
	}

	if _, err := f.svc.Shuffle(ctx); !errors.Is(err, engine.ErrBudgetExhausted) {
		t.Errorf("Expected ErrBudgetExhausted, got %v", err)
	}
	if f.renderer.LastAlert() != service.EventShuffle {
		t.Errorf("Expected %s alert, got %q", service.EventShuffle, f.renderer.LastAlert())
	}
}

func TestGameService_SaveLoad(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// Carry an ace into another row so the saved grid has a row with no
	// blank and a row with two
	moves, _ := f.svc.LegalMoves(ctx)
	var cross *engine.Move
	for i := range moves {
		if engine.RowOf(moves[i].From) != engine.RowOf(moves[i].Target) {
			cross = &moves[i]
			break
		}
	}
	if cross == nil {
		t.Fatal("Expected a cross-row move on a fresh deal")
	}
	moved, err := f.svc.Move(ctx, service.MoveRequest{From: &cross.From, Target: cross.Target})
	if err != nil || !moved.Success {
		t.Fatalf("Expected a legal move, got %+v %v", moved, err)
	}
	saved := f.eng.Grid()

	info, err := f.svc.Save(ctx, "slot1")
	if err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	if info.Name != "slot1" {
		t.Errorf("Unexpected save info %+v", info)
	}

	if _, err := f.svc.NewGame(ctx, ""); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	result, err := f.svc.Load(ctx, "slot1")
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}
	if !result.Success || f.eng.Grid() != saved {
		t.Error("Expected the saved grid to be restored")
	}
	if result.GameState.CanUndo {
		t.Error("Expected load to reset history")
	}
	if stats, _ := f.svc.Stats(ctx); stats.GamesPlayed != 3 {
		t.Errorf("Expected the new and loaded games to count as played, got %+v", stats)
	}

	saves, err := f.svc.ListSaves(ctx)
	if err != nil || len(saves) != 1 {
		t.Errorf("Expected one save, got %d (%v)", len(saves), err)
	}

	if err := f.svc.DeleteSave(ctx, "slot1"); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}
	if _, err := f.svc.Load(ctx, "slot1"); !errors.Is(err, savegame.ErrSaveNotFound) {
		t.Errorf("Expected ErrSaveNotFound, got %v", err)
	}
}

func TestGameService_LoadCorruptKeepsGame(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	before := f.eng.Grid()
	id := f.eng.GameID()

	data, err := savegame.Encode(engine.SolvedGrid(), savegame.JSON)
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}
	// Truncate the document so it no longer parses.
	if err := os.WriteFile(filepath.Join(f.store.Dir(), "bad.json"), data[:len(data)/2], 0644); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	if _, err := f.svc.Load(ctx, "bad"); !errors.Is(err, savegame.ErrCorruptSave) {
		t.Fatalf("Expected ErrCorruptSave, got %v", err)
	}
	if f.eng.Grid() != before || f.eng.GameID() != id {
		t.Error("A failed load must leave the current game untouched")
	}
}

func TestGameService_NoSaveStore(t *testing.T) {
	svc := service.NewGameService(engine.NewEngineWithDefaults(), service.Options{})
	ctx := context.Background()

	if _, err := svc.Save(ctx, "x"); !errors.Is(err, service.ErrNoSaveStore) {
		t.Errorf("Expected ErrNoSaveStore, got %v", err)
	}
	configs, err := svc.ListConfigs(ctx)
	if err != nil || len(configs) != 0 {
		t.Errorf("Expected no configs, got %v %v", configs, err)
	}
}

func TestGameService_LegalMoves(t *testing.T) {
	f := newFixture(t)
	moves, err := f.svc.LegalMoves(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(moves) != 16 {
		t.Errorf("Expected 16 legal moves on a fresh deal, got %d", len(moves))
	}
}

func TestGameService_ConcurrentMoves(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	var wg sync.WaitGroup
	for _, card := range []string{"AS", "AH", "AC", "AD"} {
		for _, target := range []int{0, 14, 28, 42} {
			wg.Add(1)
			go func(card string, target int) {
				defer wg.Done()
				f.svc.Move(ctx, service.MoveRequest{Card: card, Target: target})
			}(card, target)
		}
	}
	wg.Wait()

	grid := f.eng.Grid()
	if err := grid.Verify(); err != nil {
		t.Fatalf("Concurrent moves corrupted the grid: %v", err)
	}
}
