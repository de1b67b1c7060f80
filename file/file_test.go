package file

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateFileNumMap(t *testing.T) {
	root := filepath.Join("media", "midi")
	paths := []string{filepath.Join(root, "a.mid"), filepath.Join(root, "b", "c.mid")}

	m := CreateFileNumMap(root, paths)

	assert := assert.New(t)
	assert.Len(m, 2)
	assert.Equal("a.mid", m[1])
	assert.Equal(filepath.Join("b", "c.mid"), m[2])

	p, ok := Path(root, m, 2)
	assert.True(ok)
	assert.Equal(paths[1], p)

	_, ok = Path(root, m, 3)
	assert.False(ok)
}

func TestCreateFileNumMapWithoutRoot(t *testing.T) {
	m := CreateFileNumMap("", []string{"x.mid"})
	assert.Equal(t, "x.mid", m[1])
}
