package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wricardo/carpet-solitaire/game/engine"
	"github.com/wricardo/carpet-solitaire/game/service"
)

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL + "/")

	if client == nil {
		t.Fatal("Expected client to be created")
	}

	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}

	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"game_id": "g-1", "solved_count": 7})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var state engine.GameState
	if err := client.apiCall(context.Background(), "GET", "/api/game", nil, &state); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if state.GameID != "g-1" || state.SolvedCount != 7 {
		t.Errorf("Unexpected state: %+v", state)
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	if err := client.apiCall(context.Background(), "GET", "/api/game", nil, nil); err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	t.Run("plain body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Internal Server Error"))
		}))
		defer server.Close()

		err := NewClient(server.URL).apiCall(context.Background(), "GET", "/api/game", nil, nil)
		if err == nil || !strings.Contains(err.Error(), "API error") {
			t.Errorf("Expected 'API error', got: %v", err)
		}
	})

	t.Run("error body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{"error": "shuffle budget exhausted"})
		}))
		defer server.Close()

		err := NewClient(server.URL).apiCall(context.Background(), "POST", "/api/game/shuffle", nil, nil)
		if err == nil || err.Error() != "shuffle budget exhausted" {
			t.Errorf("Expected the API error message, got: %v", err)
		}
	})
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected result content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func TestClient_handleMove(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/game/move" {
			t.Errorf("Expected POST /api/game/move, got %s %s", r.Method, r.URL.Path)
		}
		got = nil
		json.NewDecoder(r.Body).Decode(&got)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(service.MoveResult{
			Success:   true,
			Card:      "AS",
			From:      20,
			Target:    0,
			GameState: &engine.GameState{Rules: "classic", SolvedCount: 1},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	t.Run("by notation", func(t *testing.T) {
		result, err := client.handleMove(ctx, callRequest("move", map[string]interface{}{
			"card":   "AS",
			"target": float64(0),
		}))
		if err != nil {
			t.Fatalf("handleMove failed: %v", err)
		}
		text := resultText(t, result)
		if !strings.Contains(text, "Moved AS from slot 20 to slot 0") {
			t.Errorf("Unexpected result: %s", text)
		}
		if got["card"] != "AS" || got["target"] != float64(0) {
			t.Errorf("Unexpected request body: %v", got)
		}
		if _, ok := got["from"]; ok {
			t.Error("Expected no from slot in the request")
		}
	})

	t.Run("by slot", func(t *testing.T) {
		if _, err := client.handleMove(ctx, callRequest("move", map[string]interface{}{
			"from":   float64(20),
			"target": float64(0),
		})); err != nil {
			t.Fatalf("handleMove failed: %v", err)
		}
		if got["from"] != float64(20) {
			t.Errorf("Expected from slot 20, got %v", got["from"])
		}
	})

	t.Run("missing arguments", func(t *testing.T) {
		result, _ := client.handleMove(ctx, callRequest("move", map[string]interface{}{"card": "AS"}))
		if !result.IsError {
			t.Error("Expected an error without target")
		}
		result, _ = client.handleMove(ctx, callRequest("move", map[string]interface{}{"target": float64(0)}))
		if !result.IsError {
			t.Error("Expected an error without card or from")
		}
	})
}

func TestClient_handleActionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "shuffle budget exhausted"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleAction("/api/game/shuffle")(context.Background(), callRequest("shuffle", nil))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !result.IsError {
		t.Error("Expected a tool error")
	}
	if text := resultText(t, result); !strings.Contains(text, "budget") {
		t.Errorf("Expected the API error in the result, got: %s", text)
	}
}

func TestClient_handleLoadGame(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/saves/slot 1/load" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(service.ActionResult{
			Success:   true,
			Message:   "Game loaded",
			GameState: &engine.GameState{},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleLoadGame(context.Background(), callRequest("load_game", map[string]interface{}{"name": "slot 1"}))
	if err != nil {
		t.Fatalf("handleLoadGame failed: %v", err)
	}
	if text := resultText(t, result); !strings.Contains(text, "Game loaded") {
		t.Errorf("Unexpected result: %s", text)
	}
}

func TestClient_handleStatistics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(service.Stats{GamesPlayed: 4, GamesWon: 1, WinPercent: 25})
	}))
	defer server.Close()

	result, err := NewClient(server.URL).handleStatistics(context.Background(), callRequest("statistics", nil))
	if err != nil {
		t.Fatalf("handleStatistics failed: %v", err)
	}
	text := resultText(t, result)
	for _, want := range []string{"Games played: 4", "Games won: 1", "25.0%"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in %s", want, text)
		}
	}
}

func TestClient_handleGameRules(t *testing.T) {
	result, err := NewClient("http://unused").handleGameRules(context.Background(), callRequest("game_rules", nil))
	if err != nil {
		t.Fatalf("handleGameRules failed: %v", err)
	}
	if resultText(t, result) != service.RulesText {
		t.Error("Expected the rules text")
	}
}

func TestFormatGameState(t *testing.T) {
	eng, err := engine.NewEngine(engine.DefaultRules(), engine.NewRand(3))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	state := eng.GetState()

	formatted := formatGameState(state)
	for _, row := range state.Rows {
		if !strings.Contains(formatted, row) {
			t.Errorf("Expected row %q in output", row)
		}
	}
	if !strings.Contains(formatted, "Shuffles left: 2") {
		t.Errorf("Expected shuffle budget in output: %s", formatted)
	}

	won := &engine.GameState{Status: engine.Won}
	if !strings.Contains(formatGameState(won), "SOLVED") {
		t.Error("Expected solved banner for a won game")
	}

	stuck := &engine.GameState{Stuck: true}
	if !strings.Contains(formatGameState(stuck), "no shuffles left") {
		t.Error("Expected stuck message")
	}

	if formatGameState(nil) != "No game state available" {
		t.Error("Expected placeholder for nil state")
	}
}
