// Package websocket pushes Carpet Solitaire state to browser clients.
//
// The Hub implements service.Renderer: after every change the game
// service calls Redraw with the full game state, and Alert for one-off
// events such as an invalid move or a win. The hub fans each message out
// to all connected clients.
//
// Message Protocol:
//
// Messages are JSON objects:
//   - {"event": "state_update", "game_id": "...", "game_state": {...}}
//   - {"event": "invalid_move", "data": "reason"}
//   - {"event": "game_won", "data": "You have won Carpet Solitaire!"}
//
// Clients are listeners only. Moves go through the REST API; inbound
// frames just keep the connection alive.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run()
//	defer hub.Shutdown()
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		state, _ := svc.GetGameState(r.Context())
//		hub.ServeWS(w, r, state)
//	})
//
// Redraw and Alert never block the caller. A client whose send buffer is
// full is disconnected.
package websocket
