// Package mcp exposes Carpet Solitaire to MCP clients (AI assistants).
//
// The Client registers one MCP tool per game operation and forwards each
// call to the REST API, so the HTTP server remains the single owner of
// the game. Tool results are plain text: the grid is rendered as four
// rows of card codes with blanks shown as "--".
//
// Tools:
//   - game_state, legal_moves
//   - move (card notation or source slot, plus target slot)
//   - undo, redo, shuffle, new_game, replay
//   - save_game, load_game, list_saves
//   - statistics, game_rules
//
// API errors come back as tool errors (mcp.NewToolResultError) rather
// than protocol errors.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
