// Package savegame encodes Carpet Solitaire grids to files and back.
//
// A save holds the card layout only: 56 records of (slot, suit, rank) in
// slot order. Suit 0 marks a blank and its rank is ignored on load. The
// same records can be written as JSON (the default), XML or YAML; the file
// extension picks the codec on load.
//
// Decoding is strict. A file with the wrong number of records, a missing
// or repeated slot id, an unknown card, or a layout that breaks the
// one-blank-per-row rule is reported as ErrCorruptSave and no grid is
// returned. Filesystem problems are reported as ErrIOFailure.
//
// Usage:
//
//	store, err := savegame.NewFileStore("saves", savegame.JSON)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	info, err := store.Save("monday", eng.Grid())
//	grid, err := store.Load("monday")
package savegame
