package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/wricardo/carpet-solitaire/game/config"
	"github.com/wricardo/carpet-solitaire/game/engine"
	"github.com/wricardo/carpet-solitaire/game/savegame"
	"github.com/wricardo/carpet-solitaire/game/service"
	"github.com/wricardo/carpet-solitaire/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
	log     logrus.FieldLogger
}

// NewServer creates a new API server. hub may be nil, in which case /ws
// is not served.
func NewServer(gameService service.GameService, hub *websocket.Hub, logger logrus.FieldLogger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
		log:     logger.WithField("component", "api"),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Game operations
	api.HandleFunc("/game", s.handleGetGameState).Methods("GET")
	api.HandleFunc("/game/new", s.handleNewGame).Methods("POST")
	api.HandleFunc("/game/replay", s.handleReplay).Methods("POST")
	api.HandleFunc("/game/move", s.handleMove).Methods("POST")
	api.HandleFunc("/game/undo", s.handleUndo).Methods("POST")
	api.HandleFunc("/game/redo", s.handleRedo).Methods("POST")
	api.HandleFunc("/game/shuffle", s.handleShuffle).Methods("POST")
	api.HandleFunc("/game/moves", s.handleLegalMoves).Methods("GET")

	// Statistics
	api.HandleFunc("/stats", s.handleGetStats).Methods("GET")
	api.HandleFunc("/stats", s.handleResetStats).Methods("DELETE")

	// Save files
	api.HandleFunc("/saves", s.handleListSaves).Methods("GET")
	api.HandleFunc("/saves", s.handleSave).Methods("POST")
	api.HandleFunc("/saves/{name}/load", s.handleLoad).Methods("POST")
	api.HandleFunc("/saves/{name}", s.handleDeleteSave).Methods("DELETE")

	// Configuration
	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")
	api.HandleFunc("/configs/{name}", s.handleGetConfig).Methods("GET")

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// WebSocket
	if s.hub != nil {
		s.router.HandleFunc("/ws", s.handleWebSocket)
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFor maps service and store errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidRequest), errors.Is(err, savegame.ErrInvalidName):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrBudgetExhausted), errors.Is(err, engine.ErrGameWon):
		return http.StatusConflict
	case errors.Is(err, savegame.ErrCorruptSave):
		return http.StatusUnprocessableEntity
	case errors.Is(err, savegame.ErrSaveNotFound), errors.Is(err, config.ErrConfigNotFound):
		return http.StatusNotFound
	case errors.Is(err, config.ErrInvalidConfig), errors.Is(err, engine.ErrInvalidRules):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrNoSaveStore):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.WithError(err).WithField("path", r.URL.Path).Error("Request failed")
	}
	respondError(w, status, err.Error())
}

// decodeOptional decodes a JSON body into v, accepting an empty body
func decodeOptional(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if err == io.EOF {
		return nil
	}
	return err
}

// Game Operation Handlers

func (s *Server) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.GetGameState(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID string `json:"config_id,omitempty"`
	}
	if err := decodeOptional(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.NewGame(r.Context(), req.ConfigID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.Replay(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req service.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.Move(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	// Compact server log for observability
	s.log.WithFields(logrus.Fields{
		"card":   result.Card,
		"from":   result.From,
		"target": result.Target,
		"ok":     result.Success,
		"solved": result.GameState.SolvedCount,
	}).Info("Move")

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.Undo(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.Redo(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleShuffle(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.Shuffle(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleLegalMoves(w http.ResponseWriter, r *http.Request) {
	moves, err := s.service.LegalMoves(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(moves),
		"moves": moves,
	})
}

// Statistics Handlers

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.Stats(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleResetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.ResetStats(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// Save Handlers

func (s *Server) handleListSaves(w http.ResponseWriter, r *http.Request) {
	saves, err := s.service.ListSaves(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(saves),
		"saves": saves,
	})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "Save name is required")
		return
	}

	info, err := s.service.Save(r.Context(), req.Name)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	result, err := s.service.Load(r.Context(), name)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleDeleteSave(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	if err := s.service.DeleteSave(r.Context(), name); err != nil {
		s.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Save %s deleted", name),
	})
}

// Configuration Handlers

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ListConfigs(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, configs)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	rules, err := s.service.LoadConfig(r.Context(), name)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, rules)
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.GetGameState(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Upgrade to WebSocket
	s.hub.ServeWS(w, r, state)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
