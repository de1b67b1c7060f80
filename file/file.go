package file

import (
	"path/filepath"

	"github.com/jsphweid/motifdex/model"
)

// CreateFileNumMap numbers the songs from 1 in path order. Paths under root
// are stored relative to it so the index survives a moved media dir.
func CreateFileNumMap(root string, paths []string) model.FileNumToMidiPath {
	res := make(model.FileNumToMidiPath)
	for i, v := range paths {
		if rel, err := filepath.Rel(root, v); err == nil && root != "" {
			v = rel
		}
		res[uint32(i+1)] = v
	}
	return res
}

// Path resolves a song number back to a file under root.
func Path(root string, m model.FileNumToMidiPath, num uint32) (string, bool) {
	p, ok := m[num]
	if !ok {
		return "", false
	}
	if filepath.IsAbs(p) {
		return p, true
	}
	return filepath.Join(root, p), true
}
