package filesystem

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// OSFileSystem implements FileSystem on the real disk.
type OSFileSystem struct{}

func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

func (*OSFileSystem) ReadFile(path string) ([]byte, error)       { return os.ReadFile(path) }
func (*OSFileSystem) ReadDir(path string) ([]fs.DirEntry, error) { return os.ReadDir(path) }
func (*OSFileSystem) Stat(path string) (fs.FileInfo, error)      { return os.Stat(path) }

// Exists reports whether path can be stat'ed. Permission errors count as
// present so that a later read reports them.
func (*OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}

func (*OSFileSystem) WriteFile(path string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(path, data, perm)
}

// Rename replaces newpath atomically when both paths share a directory.
func (*OSFileSystem) Rename(oldpath, newpath string) error { return os.Rename(oldpath, newpath) }
func (*OSFileSystem) Remove(path string) error             { return os.Remove(path) }

func (*OSFileSystem) Getwd() (string, error) { return os.Getwd() }

func (*OSFileSystem) WalkDir(root string, fn fs.WalkDirFunc) error {
	return filepath.WalkDir(root, fn)
}

func (*OSFileSystem) Glob(pattern string) ([]string, error) { return filepath.Glob(pattern) }

var _ FileSystem = (*OSFileSystem)(nil)
