package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/carpet-solitaire/game/engine"
	"github.com/wricardo/carpet-solitaire/game/savegame"
	"github.com/wricardo/carpet-solitaire/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Carpet Solitaire",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Carpet Solitaire - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Order each of the 4 rows from Ace to King in a single suit, with the blank
("--") in the last column.

AVAILABLE TOOLS:
- game_state: Show the grid, solved count and shuffles left
- legal_moves: List every legal drop
- move: Drop a card onto a blank slot
- undo / redo: Step through the move history
- shuffle: Re-deal unsolved cards (limited per game)
- new_game / replay: Deal again or restart the current deal
- save_game / load_game / list_saves: Persist the grid
- statistics: Games played, won and win percentage
- game_rules: The full rules

Slots are numbered 0-55, row by row, 14 per row. Call legal_moves before
moving if unsure.`),
	)

	// Register all tools
	c.registerTools()
}

func noArgs() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: map[string]interface{}{},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Game state
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current grid, solved count and shuffles remaining",
		InputSchema: noArgs(),
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "legal_moves",
		Description: "List every legal move on the current grid",
		InputSchema: noArgs(),
	}, c.handleLegalMoves)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move a card onto a blank slot. Give the card as notation (AS, 10H, QD) or by the slot holding it.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"card": map[string]interface{}{
					"type":        "string",
					"description": "Card notation: rank (A, 2-10, J, Q, K) followed by suit (S, H, D, C)",
				},
				"from": map[string]interface{}{
					"type":        "integer",
					"description": "Slot holding the card (0-55), alternative to card",
				},
				"target": map[string]interface{}{
					"type":        "integer",
					"description": "Blank slot to drop the card on (0-55)",
				},
			},
			Required: []string{"target"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "undo",
		Description: "Undo the last move or shuffle",
		InputSchema: noArgs(),
	}, c.handleAction("/api/game/undo"))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "redo",
		Description: "Redo the last undone move",
		InputSchema: noArgs(),
	}, c.handleAction("/api/game/redo"))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "shuffle",
		Description: "Re-deal every card that is not yet in place. Uses one shuffle from the game's budget.",
		InputSchema: noArgs(),
	}, c.handleAction("/api/game/shuffle"))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "new_game",
		Description: "Deal a new game, optionally with a different rule set",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Rule set to use (optional)",
				},
			},
		},
	}, c.handleNewGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "replay",
		Description: "Restart the current deal from its first position",
		InputSchema: noArgs(),
	}, c.handleAction("/api/game/replay"))

	// Persistence
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "save_game",
		Description: "Save the current grid under a name",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Save name",
				},
			},
			Required: []string{"name"},
		},
	}, c.handleSaveGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "load_game",
		Description: "Load a saved grid. The current game is kept if the save is missing or corrupt.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Save name",
				},
			},
			Required: []string{"name"},
		},
	}, c.handleLoadGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_saves",
		Description: "List saved games",
		InputSchema: noArgs(),
	}, c.handleListSaves)

	// Info
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "statistics",
		Description: "Get games played, games won and win percentage",
		InputSchema: noArgs(),
	}, c.handleStatistics)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_rules",
		Description: "Get the rules of Carpet Solitaire",
		InputSchema: noArgs(),
	}, c.handleGameRules)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// intArg reads a JSON number argument
func intArg(args map[string]interface{}, name string) (int, bool) {
	v, ok := args[name].(float64)
	return int(v), ok
}

// Tool handlers

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var state engine.GameState
	if err := c.apiCall(ctx, "GET", "/api/game", nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleLegalMoves(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count int           `json:"count"`
		Moves []engine.Move `json:"moves"`
	}
	if err := c.apiCall(ctx, "GET", "/api/game/moves", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if response.Count == 0 {
		return mcp.NewToolResultText("No legal moves. Shuffle or start a new game."), nil
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Legal moves (%d):\n", response.Count))
	for _, m := range response.Moves {
		result.WriteString(fmt.Sprintf("- %s from slot %d to slot %d\n", m.Card.Code(), m.From, m.Target))
	}
	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	card, _ := args["card"].(string)

	target, ok := intArg(args, "target")
	if !ok {
		return mcp.NewToolResultError("target is required"), nil
	}

	body := map[string]interface{}{
		"target": target,
	}
	if card != "" {
		body["card"] = card
	}
	if from, ok := intArg(args, "from"); ok {
		body["from"] = from
	}
	if card == "" && body["from"] == nil {
		return mcp.NewToolResultError("card or from is required"), nil
	}

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", "/api/game/move", body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

// handleAction proxies the body-less game actions
func (c *Client) handleAction(path string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var result service.ActionResult
		if err := c.apiCall(ctx, "POST", path, nil, &result); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(formatActionResult(&result)), nil
	}
}

func (c *Client) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", "/api/game/new", body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handleSaveGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	name, _ := args["name"].(string)

	var info savegame.SaveInfo
	if err := c.apiCall(ctx, "POST", "/api/saves", map[string]string{"name": name}, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Saved %s (%s, %d bytes)", info.Name, info.Format, info.Size)), nil
}

func (c *Client) handleLoadGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	name, _ := args["name"].(string)
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}

	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", "/api/saves/"+url.PathEscape(name)+"/load", nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handleListSaves(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count int                 `json:"count"`
		Saves []savegame.SaveInfo `json:"saves"`
	}
	if err := c.apiCall(ctx, "GET", "/api/saves", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Saved games (%d):\n", response.Count)
	for _, s := range response.Saves {
		result += fmt.Sprintf("- %s (%s, saved %s)\n", s.Name, s.Format, s.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleStatistics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var stats service.Stats
	if err := c.apiCall(ctx, "GET", "/api/stats", nil, &stats); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatStats(&stats)), nil
}

func (c *Client) handleGameRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(service.RulesText), nil
}

// Formatting

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Rules: %s | Solved: %d/52 | Shuffles left: %d | Legal moves: %d\n\n",
		state.Rules, state.SolvedCount, state.ShufflesRemaining, state.LegalMoveCount))

	// Column header
	result.WriteString("     ")
	for c := 0; c < engine.Columns; c++ {
		result.WriteString(fmt.Sprintf("%3d ", c))
	}
	result.WriteString("\n")

	for r, line := range state.Rows {
		result.WriteString(fmt.Sprintf("%2d:  %s\n", r*engine.Columns, line))
	}

	switch {
	case state.Status == engine.Won:
		result.WriteString("\n🎉 SOLVED!")
	case state.Stuck && state.ShufflesRemaining > 0:
		result.WriteString("\nNo legal moves. Shuffle to continue.")
	case state.Stuck:
		result.WriteString("\nNo legal moves and no shuffles left.")
	}

	if state.Message != "" {
		result.WriteString(fmt.Sprintf("\nMessage: %s", state.Message))
	}

	return result.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Success {
		b.WriteString(fmt.Sprintf("✅ Moved %s from slot %d to slot %d\n", result.Card, result.From, result.Target))
	} else {
		b.WriteString(fmt.Sprintf("❌ Illegal move: %s\n", result.Message))
	}
	if result.Won {
		b.WriteString(result.Message + "\n")
		if result.Stats != nil {
			b.WriteString(formatStats(result.Stats) + "\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatActionResult(result *service.ActionResult) string {
	status := "✅"
	if !result.Success {
		status = "⚠️"
	}
	return fmt.Sprintf("%s %s\n\n%s", status, result.Message, formatGameState(result.GameState))
}

func formatStats(stats *service.Stats) string {
	return fmt.Sprintf("Games played: %d | Games won: %d | Win rate: %.1f%%",
		stats.GamesPlayed, stats.GamesWon, stats.WinPercent)
}
