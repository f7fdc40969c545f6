package texture

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Index maps lowercase texture stems to filesystem paths.
// When several files share a stem the format with the higher priority wins,
// so a PNG beats a JPEG of the same name.
type Index struct {
	entries map[string]string // stem.lower() → full path
}

// BuildIndex scans dir and its subdirectories for supported image files.
func BuildIndex(dir string) (*Index, error) {
	idx := &Index{entries: make(map[string]string)}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !Supported(path) {
			return nil
		}
		stem := stemOf(path)
		if existing, ok := idx.entries[stem]; !ok || priority(path) > priority(existing) {
			idx.entries[stem] = path
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("texture: index %s: %w", dir, err)
	}
	return idx, nil
}

func stemOf(path string) string {
	base := filepath.Base(path)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}

func priority(path string) int {
	return extensions[strings.ToLower(filepath.Ext(path))]
}

// ResolvePath returns the filesystem path for a texture name, or ("", false).
// Directories and extensions in name are ignored.
func (idx *Index) ResolvePath(name string) (string, bool) {
	// Strip path prefix (e.g., "models\\wood\\oak.jpg" → "oak")
	name = strings.ReplaceAll(name, "\\", "/")
	path, ok := idx.entries[stemOf(name)]
	return path, ok
}

// Names returns the indexed stems in sorted order.
func (idx *Index) Names() []string {
	names := make([]string, 0, len(idx.entries))
	for stem := range idx.entries {
		names = append(names, stem)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of indexed textures.
func (idx *Index) Len() int {
	return len(idx.entries)
}
