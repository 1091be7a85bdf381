package texture

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// extRank orders formats for the same stem; formats with alpha win.
var extRank = map[string]int{".jpg": 1, ".jpeg": 1, ".png": 2, ".tga": 3}

// Index maps lowercase texture stems to filesystem paths.
type Index struct {
	entries map[string]string
}

// BuildIndex walks dir and records every image LoadTexture can decode.
// A missing dir gives an empty index.
func BuildIndex(dir string) *Index {
	idx := &Index{entries: make(map[string]string)}
	if dir == "" {
		return idx
	}
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		rank, ok := extRank[ext]
		if !ok {
			return nil
		}
		stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		if existing, exists := idx.entries[stem]; exists && extRank[strings.ToLower(filepath.Ext(existing))] >= rank {
			return nil
		}
		idx.entries[stem] = path
		return nil
	})
	return idx
}

// ResolvePath returns the path for a texture or node name, or ("", false).
// Directory prefixes and extensions in name are ignored.
func (idx *Index) ResolvePath(name string) (string, bool) {
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(name)
	stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))

	path, ok := idx.entries[stem]
	return path, ok
}

// Len returns the number of indexed textures.
func (idx *Index) Len() int {
	return len(idx.entries)
}
