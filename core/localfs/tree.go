package localfs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// File is a regular file under the content root.
type File struct {
	// Path is the filesystem path of the file.
	Path string `json:"path"`
	// Key is the object key: the path relative to the root with "/" separators.
	Key string `json:"key"`
	// Size is the file size in bytes at enumeration time.
	Size int64 `json:"size"`
}

// Tree is the local content root plus its ignore rules.
type Tree struct {
	root   string
	ignore *gitignore.GitIgnore
}

// NewTree creates a tree rooted at root. Empty patterns are skipped.
func NewTree(root string, ignorePatterns ...string) *Tree {
	var lines []string
	for _, p := range ignorePatterns {
		if p = strings.TrimSpace(p); p != "" {
			lines = append(lines, p)
		}
	}
	t := &Tree{root: filepath.Clean(root)}
	if len(lines) > 0 {
		t.ignore = gitignore.CompileIgnoreLines(lines...)
	}
	return t
}

// Root returns the cleaned content root.
func (t *Tree) Root() string {
	return t.root
}

// Ignored reports whether key matches one of the ignore patterns.
func (t *Tree) Ignored(key string) bool {
	return t.ignore != nil && t.ignore.MatchesPath(key)
}

// Check verifies the root exists and is a directory.
func (t *Tree) Check() error {
	info, err := os.Stat(t.root)
	if err != nil {
		return fmt.Errorf("content root %s: %w", t.root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("content root %s is not a directory", t.root)
	}
	return nil
}

// Files walks the root and returns every regular file that is not ignored.
// Symlinks are followed only when they point at a regular file.
func (t *Tree) Files() ([]File, error) {
	if err := t.Check(); err != nil {
		return nil, err
	}

	var files []File
	err := filepath.WalkDir(t.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		fi, err := os.Stat(path)
		if err != nil {
			// Dangling symlink: nothing to upload.
			if errors.Is(err, fs.ErrNotExist) && d.Type()&fs.ModeSymlink != 0 {
				return nil
			}
			return err
		}
		if !fi.Mode().IsRegular() {
			return nil
		}

		key, err := KeyFor(t.root, path)
		if err != nil {
			return err
		}
		if t.Ignored(key) {
			return nil
		}
		files = append(files, File{Path: path, Key: key, Size: fi.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", t.root, err)
	}
	return files, nil
}

// PathFor maps an object key back to its local path.
// ok is false when the key cannot name a file under the root.
func (t *Tree) PathFor(key string) (path string, ok bool) {
	if key == "" || strings.HasPrefix(key, "/") {
		return "", false
	}
	rel := filepath.FromSlash(key)
	// Keys that only resolve after cleaning ("a//b", "./a") never match a local key.
	if !filepath.IsLocal(rel) || filepath.ToSlash(filepath.Clean(rel)) != key {
		return "", false
	}
	return filepath.Join(t.root, rel), true
}

// Exists reports whether key has a local counterpart that Files would yield.
// Only a not-exist error counts as absence; any other stat failure is returned.
func (t *Tree) Exists(key string) (bool, error) {
	path, ok := t.PathFor(key)
	if !ok || t.Ignored(key) {
		return false, nil
	}
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		// ENOTDIR: a path segment is a file, so the key cannot exist.
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) && isNotDir(pathErr.Err) {
			return false, nil
		}
		return false, err
	}
	return fi.Mode().IsRegular(), nil
}

// KeyFor derives the object key for path relative to root.
func KeyFor(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", err
	}
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%s is outside %s", path, root)
	}
	return filepath.ToSlash(rel), nil
}
