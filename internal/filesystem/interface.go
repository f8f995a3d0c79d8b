// Package filesystem abstracts the file operations used to detect projects
// and rewrite their manifests, so that every component can be tested
// against an in-memory tree.
package filesystem

import (
	"io/fs"
)

// FileSystem is the subset of file operations the release pipeline needs.
type FileSystem interface {
	// Reading manifests
	ReadFile(path string) ([]byte, error)
	ReadDir(path string) ([]fs.DirEntry, error)
	Stat(path string) (fs.FileInfo, error)
	Exists(path string) bool

	// Staged writes: WriteFile a sibling temp file, then Rename it over the
	// target. Remove cleans up after a failure.
	WriteFile(path string, data []byte, perm fs.FileMode) error
	Rename(oldpath, newpath string) error
	Remove(path string) error

	// Discovery
	Getwd() (string, error)
	WalkDir(root string, fn fs.WalkDirFunc) error
	Glob(pattern string) ([]string, error)
}
