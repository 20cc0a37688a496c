package mapfile

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed maps/*.yaml
var builtinFS embed.FS

// Loader loads maps from an optional directory on disk. The builtin maps
// compiled into the binary are always available; a map file on disk with the
// same id shadows the builtin one.
type Loader struct {
	Root string
}

// NewLoader creates a loader reading extra maps from root. An empty root
// serves the builtin maps only.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll returns every available map sorted by ID.
func (l *Loader) LoadAll() ([]Map, error) {
	byID := make(map[string]Map)

	builtin, err := loadDir(builtinFS, "maps")
	if err != nil {
		return nil, fmt.Errorf("builtin maps: %w", err)
	}
	for _, m := range builtin {
		byID[m.ID] = m
	}

	if l.Root != "" {
		extra, err := loadDir(os.DirFS(l.Root), ".")
		if err != nil {
			return nil, fmt.Errorf("maps in %s: %w", l.Root, err)
		}
		for _, m := range extra {
			m.FilePath = filepath.Join(l.Root, m.FilePath)
			byID[m.ID] = m
		}
	}

	maps := make([]Map, 0, len(byID))
	for _, m := range byID {
		maps = append(maps, m)
	}
	sort.Slice(maps, func(i, j int) bool {
		return maps[i].ID < maps[j].ID
	})
	return maps, nil
}

// LoadByID returns the map with the given id.
func (l *Loader) LoadByID(id string) (Map, error) {
	maps, err := l.LoadAll()
	if err != nil {
		return Map{}, err
	}
	for _, m := range maps {
		if m.ID == id {
			return m, nil
		}
	}
	return Map{}, fmt.Errorf("map not found: %s", id)
}

// ListIDs returns all map IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	maps, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(maps))
	for i, m := range maps {
		ids[i] = m.ID
	}
	return ids, nil
}

// loadDir parses every YAML file under root of fsys. A file that fails to
// parse aborts the load; a half-usable map catalog hides bugs.
func loadDir(fsys fs.FS, root string) ([]Map, error) {
	var maps []Map
	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isMapFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		m, err := Parse(data)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		if m.ID == "" {
			m.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		m.FilePath = path
		maps = append(maps, m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return maps, nil
}

// isMapFile checks for a supported extension.
func isMapFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
