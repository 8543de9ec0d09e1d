package savegame

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/carpet-solitaire/game/engine"
)

// searchOrder is the order in which extensions are tried when a save name
// is given without one.
var searchOrder = []string{".json", ".xml", ".yaml", ".yml"}

// FileStore implements Store using one file per save in a directory
type FileStore struct {
	dir    string
	format Format
}

// NewFileStore creates a file-based save store, creating dir if needed.
// New saves are written in format unless the name carries an extension.
func NewFileStore(dir string, format Format) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: failed to create saves directory: %v", ErrIOFailure, err)
	}
	if format == "" {
		format = DefaultFormat
	}

	return &FileStore{
		dir:    dir,
		format: format,
	}, nil
}

// Dir returns the directory backing the store
func (s *FileStore) Dir() string {
	return s.dir
}

// Save writes the grid to <dir>/<name>.<ext>. Saves of the same name in
// other formats are removed so that a name maps to one file.
func (s *FileStore) Save(name string, grid engine.Grid) (*SaveInfo, error) {
	base, format, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	data, err := Encode(grid, format)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(s.dir, base+format.Ext())
	if err := writeFileAtomic(path, data); err != nil {
		return nil, err
	}

	for _, ext := range searchOrder {
		other := filepath.Join(s.dir, base+ext)
		if other == path {
			continue
		}
		if err := os.Remove(other); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: failed to remove old save %s: %v", ErrIOFailure, filepath.Base(other), err)
		}
	}

	return s.info(path)
}

// writeFileAtomic writes data to a temp file beside path and renames it
// into place, so an interrupted write leaves the previous file intact.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: failed to create temp file: %v", ErrIOFailure, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: failed to write save file: %v", ErrIOFailure, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: failed to sync save file: %v", ErrIOFailure, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: failed to close save file: %v", ErrIOFailure, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("%w: failed to set save file mode: %v", ErrIOFailure, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: failed to replace save file: %v", ErrIOFailure, err)
	}
	return nil
}

// Load reads a save by name
func (s *FileStore) Load(name string) (engine.Grid, error) {
	path, err := s.find(name)
	if err != nil {
		return engine.Grid{}, err
	}

	format, err := FormatOf(path)
	if err != nil {
		return engine.Grid{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return engine.Grid{}, fmt.Errorf("%w: failed to read save file: %v", ErrIOFailure, err)
	}

	grid, err := Decode(data, format)
	if err != nil {
		return engine.Grid{}, fmt.Errorf("save %q: %w", name, err)
	}
	return grid, nil
}

// Delete removes a save file
func (s *FileStore) Delete(name string) error {
	path, err := s.find(name)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("%w: failed to remove save file: %v", ErrIOFailure, err)
	}
	return nil
}

// List returns every save in the directory, sorted by name
func (s *FileStore) List() ([]SaveInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read saves directory: %v", ErrIOFailure, err)
	}

	saves := []SaveInfo{}
	for _, entry := range entries {
		if entry.IsDir() || !isSaveFile(entry.Name()) {
			continue
		}
		info, err := s.info(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		saves = append(saves, *info)
	}
	return saves, nil
}

// Exists checks if a save exists
func (s *FileStore) Exists(name string) bool {
	_, err := s.find(name)
	return err == nil
}

// resolve validates a save name and splits off an explicit format extension
func (s *FileStore) resolve(name string) (string, Format, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	if isSaveFile(name) {
		format, err := FormatOf(name)
		if err != nil {
			return "", "", err
		}
		return strings.TrimSuffix(name, filepath.Ext(name)), format, nil
	}
	return name, s.format, nil
}

// find returns the path of an existing save
func (s *FileStore) find(name string) (string, error) {
	base, _, err := s.resolve(name)
	if err != nil {
		return "", err
	}

	candidates := make([]string, 0, len(searchOrder)+1)
	if isSaveFile(name) {
		candidates = append(candidates, filepath.Join(s.dir, strings.TrimSpace(name)))
	}
	for _, ext := range searchOrder {
		candidates = append(candidates, filepath.Join(s.dir, base+ext))
	}

	for _, path := range candidates {
		_, err := os.Stat(path)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %v", ErrIOFailure, err)
		}
	}
	return "", fmt.Errorf("%w: %s", ErrSaveNotFound, name)
}

func (s *FileStore) info(path string) (*SaveInfo, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	return &SaveInfo{
		Name:      strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Format:    format,
		Path:      path,
		Size:      st.Size(),
		UpdatedAt: st.ModTime(),
	}, nil
}

func isSaveFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, candidate := range searchOrder {
		if ext == candidate {
			return true
		}
	}
	return false
}
