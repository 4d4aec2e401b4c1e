package dupe

import "io/fs"

// Notifier receives progress and diagnostic events from the scanner, the
// grouper, the fuzzy matcher and the resolver. Implementations decide how
// (and whether) to render them.
type Notifier interface {
	ScanningDirectory(dir string)
	Unhandled(path string, mode fs.FileMode)
	SkippedDir(dir string, err error)

	Hashing(bucket SizeBucket)
	Hashed(entry FileEntry, digest string)
	Unreadable(entry FileEntry, err error)

	Group(group DuplicateGroup, keep int)
	Match(keep, drop FileEntry)

	Deleted(entry FileEntry)
	WouldDelete(entry FileEntry)
	DeleteFailed(entry FileEntry, err error)
}

// NopNotifier discards every event. Embed it to implement only the events you need.
type NopNotifier struct{}

func (NopNotifier) ScanningDirectory(string)      {}
func (NopNotifier) Unhandled(string, fs.FileMode) {}
func (NopNotifier) SkippedDir(string, error)      {}
func (NopNotifier) Hashing(SizeBucket)            {}
func (NopNotifier) Hashed(FileEntry, string)      {}
func (NopNotifier) Unreadable(FileEntry, error)   {}
func (NopNotifier) Group(DuplicateGroup, int)     {}
func (NopNotifier) Match(FileEntry, FileEntry)    {}
func (NopNotifier) Deleted(FileEntry)             {}
func (NopNotifier) WouldDelete(FileEntry)         {}
func (NopNotifier) DeleteFailed(FileEntry, error) {}
