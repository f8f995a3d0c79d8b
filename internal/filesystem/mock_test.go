package filesystem

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockFileSystem_Rename(t *testing.T) {
	mfs := NewMockFileSystem()
	mfs.AddFile("/p/.package.json.tmp", []byte("new"))
	mfs.AddFile("/p/package.json", []byte("old"))

	require.NoError(t, mfs.Rename("/p/.package.json.tmp", "/p/package.json"))

	data, err := mfs.ReadFile("/p/package.json")
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
	assert.False(t, mfs.Exists("/p/.package.json.tmp"))

	err = mfs.Rename("/p/missing", "/p/other")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestMockFileSystem_FailRenameTo(t *testing.T) {
	mfs := NewMockFileSystem()
	mfs.AddFile("/p/a.tmp", []byte("a"))

	boom := errors.New("permission denied")
	mfs.FailRenameTo("/p/a", boom)

	err := mfs.Rename("/p/a.tmp", "/p/a")
	assert.True(t, errors.Is(err, boom))
	assert.True(t, mfs.Exists("/p/a.tmp"))
}

func TestMockFileSystem_WalkDirSkipDir(t *testing.T) {
	mfs := NewMockFileSystem()
	mfs.AddFile("/root/version.go", nil)
	mfs.AddFile("/root/vendor/x/version.go", nil)
	mfs.AddFile("/root/pkg/version/version.go", nil)

	var visited []string
	err := mfs.WalkDir("/root", func(path string, d fs.DirEntry, err error) error {
		if d.IsDir() && filepath.Base(path) == "vendor" {
			return filepath.SkipDir
		}
		if !d.IsDir() {
			visited = append(visited, path)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/root/pkg/version/version.go", "/root/version.go"}, visited)
}
