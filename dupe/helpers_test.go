package dupe

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// recorder captures every event it is notified of
type recorder struct {
	mu          sync.Mutex
	dirs        []string
	unhandled   []string
	skipped     []string
	hashed      []string
	unreadable  []string
	groups      []DuplicateGroup
	matches     [][2]string
	deleted     []string
	wouldDelete []string
	failed      []string
}

func (r *recorder) ScanningDirectory(dir string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dirs = append(r.dirs, dir)
}

func (r *recorder) Unhandled(path string, _ fs.FileMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unhandled = append(r.unhandled, path)
}

func (r *recorder) SkippedDir(dir string, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skipped = append(r.skipped, dir)
}

func (r *recorder) Hashing(SizeBucket) {}

func (r *recorder) Hashed(entry FileEntry, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hashed = append(r.hashed, entry.Path)
}

func (r *recorder) Unreadable(entry FileEntry, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unreadable = append(r.unreadable, entry.Path)
}

func (r *recorder) Group(group DuplicateGroup, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups = append(r.groups, group)
}

func (r *recorder) Match(keep, drop FileEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches = append(r.matches, [2]string{keep.Path, drop.Path})
}

func (r *recorder) Deleted(entry FileEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, entry.Path)
}

func (r *recorder) WouldDelete(entry FileEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wouldDelete = append(r.wouldDelete, entry.Path)
}

func (r *recorder) DeleteFailed(entry FileEntry, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, entry.Path)
}

// memTree builds an in-memory tree; keys are paths relative to root
func memTree(t *testing.T, root string, files map[string]string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll(root, 0o755))
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
	}
	return fsys
}

func exists(t *testing.T, fsys afero.Fs, path string) bool {
	t.Helper()
	ok, err := afero.Exists(fsys, path)
	require.NoError(t, err)
	return ok
}

func paths(files []FileEntry) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}

// brokenDirFs fails to open one directory while still reporting it in listings
type brokenDirFs struct {
	afero.Fs
	broken string
}

func (b brokenDirFs) Open(name string) (afero.File, error) {
	if name == b.broken {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return b.Fs.Open(name)
}

// failingHasher refuses to hash the listed paths
type failingHasher struct {
	Hasher
	fail map[string]bool
}

func (f failingHasher) Hash(fsys afero.Fs, path string) (string, error) {
	if f.fail[path] {
		return "", errors.Join(ErrUnreadable, os.ErrPermission)
	}
	return f.Hasher.Hash(fsys, path)
}
