package localfs_test

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"spaces-sync/core/localfs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func keysOf(files []localfs.File) []string {
	keys := make([]string, 0, len(files))
	for _, f := range files {
		keys = append(keys, f.Key)
	}
	sort.Strings(keys)
	return keys
}

func TestTree_Files(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "index.html", "<html>")
	writeFile(t, root, "css/site.css", "body{}")
	writeFile(t, root, "img/icons/logo.svg", "<svg/>")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty", "nested"), 0o755))

	files, err := localfs.NewTree(root).Files()
	require.NoError(t, err)

	assert.Equal(t, []string{"css/site.css", "img/icons/logo.svg", "index.html"}, keysOf(files))
	for _, f := range files {
		assert.NotContains(t, f.Key, root)
		assert.FileExists(t, f.Path)
	}
}

func TestTree_FilesSizes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "hello")

	files, err := localfs.NewTree(root).Files()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, int64(5), files[0].Size)
}

func TestTree_FilesIgnore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "index.html", "x")
	writeFile(t, root, ".DS_Store", "x")
	writeFile(t, root, "drafts/post.md", "x")
	writeFile(t, root, "notes.tmp", "x")

	tree := localfs.NewTree(root, ".DS_Store", "drafts/", "*.tmp", "  ")
	files, err := tree.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{"index.html"}, keysOf(files))
}

func TestTree_FilesMissingRoot(t *testing.T) {
	_, err := localfs.NewTree(filepath.Join(t.TempDir(), "nope")).Files()
	assert.Error(t, err)
}

func TestTree_FilesRootIsFile(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "file", "x")
	_, err := localfs.NewTree(path).Files()
	assert.ErrorContains(t, err, "not a directory")
}

func TestTree_FilesSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	target := writeFile(t, root, "real.txt", "x")
	require.NoError(t, os.Symlink(target, filepath.Join(root, "link.txt")))
	require.NoError(t, os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "dangling")))

	files, err := localfs.NewTree(root).Files()
	require.NoError(t, err)
	assert.Equal(t, []string{"link.txt", "real.txt"}, keysOf(files))
}

func TestTree_Exists(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "x")
	writeFile(t, root, "dir/b.txt", "x")
	writeFile(t, root, "skip.log", "x")
	tree := localfs.NewTree(root, "*.log")

	tests := []struct {
		key  string
		want bool
	}{
		{"a.txt", true},
		{"dir/b.txt", true},
		{"dir", false},
		{"missing.txt", false},
		{"a.txt/child", false},
		{"../a.txt", false},
		{"dir//b.txt", false},
		{"./a.txt", false},
		{"/a.txt", false},
		{"skip.log", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := tree.Exists(tt.key)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTree_ExistsPermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	root := t.TempDir()
	writeFile(t, root, "locked/a.txt", "x")
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	_, err := localfs.NewTree(root).Exists("locked/a.txt")
	assert.Error(t, err)
}

func TestKeyFor(t *testing.T) {
	root := filepath.Join("base", "content")

	key, err := localfs.KeyFor(root, filepath.Join(root, "img", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "img/a.png", key)

	_, err = localfs.KeyFor(root, filepath.Join("base", "other.txt"))
	assert.Error(t, err)
}
