// Package api provides HTTP REST API handlers for Carpet Solitaire.
//
// Endpoints:
//
// Game Operations:
//   - GET /api/game - Get current game state
//   - POST /api/game/new - Deal a new game, optionally {"config_id": "relaxed"}
//   - POST /api/game/replay - Restart the current deal
//   - POST /api/game/move - Drop a card: {"card": "AS", "target": 0} or {"from": 17, "target": 0}
//   - POST /api/game/undo, /api/game/redo - Step through history
//   - POST /api/game/shuffle - Re-deal unsolved cards (409 when the budget is spent)
//   - GET /api/game/moves - List legal moves
//
// Statistics:
//   - GET /api/stats - Games played, won and win percentage
//   - DELETE /api/stats - Reset statistics
//
// Save/Load:
//   - GET /api/saves - List saved games
//   - POST /api/saves - Save the current grid: {"name": "slot1"}
//   - POST /api/saves/{name}/load - Load a saved grid
//   - DELETE /api/saves/{name} - Delete a save
//
// Configuration:
//   - GET /api/configs - List rule sets
//   - GET /api/configs/{name} - Get one rule set
//
// Other:
//   - GET /api/health - Liveness check
//   - GET /ws - WebSocket state updates
//
// Errors are returned as {"error": "message"}. An illegal move is not an
// error; it comes back with 200 and success=false.
package api
