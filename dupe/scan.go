package dupe

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// Visitor receives the regular files of a tree walk. EnterDir and LeaveDir
// bracket the children of every directory, including the root.
type Visitor interface {
	EnterDir(dir string)
	VisitFile(f FileEntry)
	LeaveDir(dir string)
}

// Scanner walks a directory tree depth-first, in name order
type Scanner struct {
	Fs     afero.Fs
	Notify Notifier
}

// NewScanner creates a scanner over fsys. A nil notifier discards all events.
func NewScanner(fsys afero.Fs, notify Notifier) *Scanner {
	if notify == nil {
		notify = NopNotifier{}
	}
	return &Scanner{Fs: fsys, Notify: notify}
}

// Walk visits every entry below root. Only an invalid root is returned as an
// error: unreadable directories and special files are reported and skipped.
func (s *Scanner) Walk(root string, v Visitor) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving directory `%s`: %w", root, err)
	}

	info, err := s.Fs.Stat(abs)
	if err != nil {
		return fmt.Errorf("reading directory `%s`: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("`%s` is not a directory", root)
	}

	s.walkDir(abs, v)
	return nil
}

func (s *Scanner) walkDir(dir string, v Visitor) {
	s.Notify.ScanningDirectory(dir)

	entries, err := afero.ReadDir(s.Fs, dir)
	if err != nil {
		s.Notify.SkippedDir(dir, err)
		return
	}

	v.EnterDir(dir)
	defer v.LeaveDir(dir)

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		switch {
		case entry.IsDir():
			s.walkDir(path, v)
		case entry.Mode().IsRegular():
			v.VisitFile(FileEntry{Path: path, Size: entry.Size(), Regular: true})
		default:
			s.Notify.Unhandled(path, entry.Mode())
		}
	}
}

// FileFunc adapts a plain function to a Visitor that ignores directory boundaries
type FileFunc func(f FileEntry)

func (fn FileFunc) EnterDir(string)       {}
func (fn FileFunc) VisitFile(f FileEntry) { fn(f) }
func (fn FileFunc) LeaveDir(string)       {}
