package dupe

import (
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"github.com/spf13/afero"
)

// KeepPolicy picks the index of the member of an exact group that survives
type KeepPolicy func(group DuplicateGroup) int

// KeepFirst keeps the member seen first during the scan
func KeepFirst(DuplicateGroup) int { return 0 }

// KeepShortestPath keeps the member with the shortest path, the earliest one on a tie
func KeepShortestPath(group DuplicateGroup) int {
	keep := 0
	for i, f := range group.Files {
		if utf8.RuneCountInString(f.Path) < utf8.RuneCountInString(group.Files[keep].Path) {
			keep = i
		}
	}
	return keep
}

// NewKeepPolicy returns the keep policy registered under name ("first" or "shortest-path")
func NewKeepPolicy(name string) (KeepPolicy, error) {
	switch name {
	case "", "first":
		return KeepFirst, nil
	case "shortest-path":
		return KeepShortestPath, nil
	default:
		return nil, fmt.Errorf("unknown keep policy %q", name)
	}
}

// NamePolicy decides which of two fuzzy matches survives. retained is the
// entry currently kept for the name key, candidate the file just scanned.
type NamePolicy func(retained, candidate FileEntry) (keep, drop FileEntry)

// PreferShorterName keeps the file with the shorter base name. On a tie the
// newly scanned file is kept.
func PreferShorterName(retained, candidate FileEntry) (keep, drop FileEntry) {
	if nameLength(candidate) > nameLength(retained) {
		return retained, candidate
	}
	return candidate, retained
}

func nameLength(f FileEntry) int {
	return utf8.RuneCountInString(filepath.Base(f.Path))
}

// Resolver deletes, or in a dry run only reports, the losing members of duplicate groups
type Resolver struct {
	Fs     afero.Fs
	Commit bool
	Notify Notifier
}

// NewResolver creates a resolver. Nothing is removed unless commit is set.
func NewResolver(fsys afero.Fs, commit bool, notify Notifier) *Resolver {
	if notify == nil {
		notify = NopNotifier{}
	}
	return &Resolver{Fs: fsys, Commit: commit, Notify: notify}
}

// ResolveGroup reports group and removes every member except the one keep selects.
// A failed removal is reported and does not stop the remaining ones.
func (r *Resolver) ResolveGroup(group DuplicateGroup, keep KeepPolicy) Tally {
	if keep == nil {
		keep = KeepFirst
	}
	survivor := keep(group)
	r.Notify.Group(group, survivor)

	var tally Tally
	for i, f := range group.Files {
		if i == survivor {
			continue
		}
		tally.Deleted++
		if err := r.Remove(f); err != nil {
			tally.Failed++
		}
	}
	return tally
}

// Remove deletes f when committing, otherwise reports it as a would-be deletion.
// The returned error has already been reported through Notify.
func (r *Resolver) Remove(f FileEntry) error {
	if !r.Commit {
		r.Notify.WouldDelete(f)
		return nil
	}

	if err := r.Fs.Remove(f.Path); err != nil {
		err = fmt.Errorf("removing duplicate file `%s`: %w", f.Path, err)
		r.Notify.DeleteFailed(f, err)
		return err
	}
	r.Notify.Deleted(f)
	return nil
}
