package savegame

import (
	"encoding/xml"
	"errors"
	"time"

	"github.com/wricardo/carpet-solitaire/game/engine"
)

var (
	ErrCorruptSave  = errors.New("corrupt save file")
	ErrIOFailure    = errors.New("save file I/O failure")
	ErrSaveNotFound = errors.New("save not found")
	ErrInvalidName  = errors.New("invalid save name")
)

// Store defines the interface for persisting grids by name
type Store interface {
	// Save writes the grid under name, replacing any previous save
	Save(name string, grid engine.Grid) (*SaveInfo, error)

	// Load reads the grid saved under name
	Load(name string) (engine.Grid, error)

	// Delete removes a save
	Delete(name string) error

	// List returns every save in the store
	List() ([]SaveInfo, error)

	// Exists checks if a save exists
	Exists(name string) bool
}

// SaveInfo describes a save on disk
type SaveInfo struct {
	Name      string    `json:"name"`
	Format    Format    `json:"format"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CardRecord is one slot of a save file. Suit 0 is a blank.
type CardRecord struct {
	Slot int `json:"slot" xml:"slot,attr" yaml:"slot"`
	Suit int `json:"suit" xml:"suit,attr" yaml:"suit"`
	Rank int `json:"rank" xml:"rank,attr" yaml:"rank"`
}

// SaveFile is the document written to disk
type SaveFile struct {
	XMLName xml.Name     `json:"-" xml:"carpet" yaml:"-"`
	Cards   []CardRecord `json:"cards" xml:"card" yaml:"cards"`
}
