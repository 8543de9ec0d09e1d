// Package engine provides the core game logic for Carpet Solitaire.
//
// The engine package implements the game mechanics including:
//   - The 4×14 grid of 52 cards and 4 blanks
//   - Move legality for dropping a card onto a blank
//   - The constrained shuffle of unsolved cards
//   - Unlimited undo with linear redo
//   - Win detection and rule sets
//
// Core Types:
//
// Grid is a fixed-size array of Cards addressed by slot index 0..55, row
// major. Validate decides whether a drop is legal, History stores grid
// snapshots, and Shuffler re-deals unsolved cards. GameEngine ties them
// together for one game and implements the Engine interface.
//
// Usage:
//
//	eng, err := engine.NewEngine(engine.DefaultRules(), engine.NewRand(42))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Drop the ace of spades onto the blank at the front of row 0
//	outcome, err := eng.Move(engine.NewCard(engine.Spades, engine.Ace), 0)
//	state := eng.GetState()
//
// Game Rules:
//
// The game is won when every row runs from Ace to King with the
// blank in the last column. A card may only be dropped onto a blank: an
// Ace onto the first column of a row, any other card directly to the right
// of the card of the same suit and one rank lower. When stuck, the player
// may shuffle the cards that are not yet in place, twice per game.
package engine
