// Package service provides the game controller for Carpet Solitaire.
//
// The service package implements:
//   - Serialized access to one game engine
//   - Win handling and the games played / games won counters
//   - Save and load through a savegame.Store
//   - Rule set selection through a ConfigManager
//   - Redraw and alert notifications to a Renderer
//
// Core Interfaces:
//
// GameService is the main service interface used by every front end (REST,
// MCP, terminal UI). Renderer receives the full game state after each
// change. ConfigManager lists and loads rule sets.
//
// Architecture:
//
// The service layer sits between the transports and the engine. Every
// entry point takes the service mutex, so callers on different goroutines
// never see a half-applied move. Illegal moves are ordinary results with a
// reason; only broken invariants, refused shuffles and persistence
// failures come back as errors.
//
// Usage:
//
//	eng := engine.NewEngineWithDefaults()
//	store, _ := savegame.NewFileStore("saves", savegame.JSON)
//	svc := service.NewGameService(eng, service.Options{Saves: store, Renderer: hub})
//
//	result, err := svc.Move(ctx, service.MoveRequest{Card: "AS", Target: 0})
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Statistics:
//
// Counters live for the lifetime of the process. Games played starts at
// one for the game in progress, a new deal adds one, and a win adds one
// to games won.
package service
