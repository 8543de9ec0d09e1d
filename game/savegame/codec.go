package savegame

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wricardo/carpet-solitaire/game/engine"
)

// Format selects the on-disk encoding of a save
type Format string

const (
	JSON Format = "json"
	XML  Format = "xml"
	YAML Format = "yaml"

	DefaultFormat = JSON
)

// Ext returns the file extension for the format, including the dot
func (f Format) Ext() string {
	return "." + string(f)
}

// ParseFormat maps a format name or extension ("xml", ".yml") to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(s), ".") {
	case "", "json":
		return JSON, nil
	case "xml":
		return XML, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("unsupported save format %q", s)
}

// FormatOf returns the format implied by a file name's extension
func FormatOf(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Encode serializes all 56 slots in index order
func Encode(grid engine.Grid, format Format) ([]byte, error) {
	file := SaveFile{Cards: make([]CardRecord, 0, engine.GridSize)}
	for slot, card := range grid {
		file.Cards = append(file.Cards, CardRecord{
			Slot: slot,
			Suit: int(card.Suit),
			Rank: card.Rank,
		})
	}

	switch format {
	case XML:
		data, err := xml.MarshalIndent(file, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal save: %w", err)
		}
		return append([]byte(xml.Header), data...), nil
	case YAML:
		data, err := yaml.Marshal(file)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal save: %w", err)
		}
		return data, nil
	case JSON, "":
		data, err := json.MarshalIndent(file, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal save: %w", err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("unsupported save format %q", format)
}

// Decode parses a save and rebuilds the grid. Any malformed record or a
// grid that breaks the row and deck invariants yields ErrCorruptSave.
func Decode(data []byte, format Format) (engine.Grid, error) {
	var file SaveFile
	var err error
	switch format {
	case XML:
		err = xml.Unmarshal(data, &file)
	case YAML:
		err = yaml.Unmarshal(data, &file)
	case JSON, "":
		err = json.Unmarshal(data, &file)
	default:
		return engine.Grid{}, fmt.Errorf("unsupported save format %q", format)
	}
	if err != nil {
		return engine.Grid{}, fmt.Errorf("%w: %v", ErrCorruptSave, err)
	}

	return file.Grid()
}

// Grid converts the records into a grid. Records may appear in any order
// but every slot 0..55 must appear exactly once.
func (f *SaveFile) Grid() (engine.Grid, error) {
	var grid engine.Grid
	if len(f.Cards) != engine.GridSize {
		return grid, fmt.Errorf("%w: expected %d cards, found %d", ErrCorruptSave, engine.GridSize, len(f.Cards))
	}

	var seen [engine.GridSize]bool
	for _, rec := range f.Cards {
		if !engine.InRange(rec.Slot) {
			return grid, fmt.Errorf("%w: slot %d out of range", ErrCorruptSave, rec.Slot)
		}
		if seen[rec.Slot] {
			return grid, fmt.Errorf("%w: slot %d appears twice", ErrCorruptSave, rec.Slot)
		}
		seen[rec.Slot] = true

		card, err := rec.Card()
		if err != nil {
			return grid, err
		}
		grid[rec.Slot] = card
	}

	if err := grid.Verify(); err != nil {
		return grid, fmt.Errorf("%w: %v", ErrCorruptSave, err)
	}
	return grid, nil
}

// Card converts a record to a card. A zero suit is a blank whatever the
// stored rank.
func (r CardRecord) Card() (engine.Card, error) {
	if r.Suit == int(engine.None) {
		return engine.Blank, nil
	}
	card := engine.NewCard(engine.Suit(r.Suit), r.Rank)
	if !card.Valid() {
		return engine.Card{}, fmt.Errorf("%w: slot %d holds suit %d rank %d", ErrCorruptSave, r.Slot, r.Suit, r.Rank)
	}
	return card, nil
}
