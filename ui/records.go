package ui

import (
	"encoding/json"
	"io"
	"io/fs"
	"sync"

	"github.com/lepinkainen/dupleter/dupe"
)

// Record is one line of --format records output. Size is present on every
// record about a file or group, even when it is zero.
type Record struct {
	Type     string   `json:"type"`
	Strategy string   `json:"strategy,omitempty"`
	Path     string   `json:"path,omitempty"`
	Size     *int64   `json:"size,omitempty"`
	Digest   string   `json:"digest,omitempty"`
	Keep     string   `json:"keep,omitempty"`
	Files    []string `json:"files,omitempty"`
	Error    string   `json:"error,omitempty"`

	*Totals
}

// Totals are the counters of a summary record, always written in full
type Totals struct {
	Processed  int `json:"processed"`
	Groups     int `json:"groups"`
	Deleted    int `json:"deleted"`
	Unreadable int `json:"unreadable"`
	Failed     int `json:"failed"`
}

func sizeOf(n int64) *int64 {
	return &n
}

// Records writes every result and diagnostic as one JSON object per line
type Records struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewRecords creates a records reporter writing to w
func NewRecords(w io.Writer) *Records {
	return &Records{enc: json.NewEncoder(w)}
}

func (r *Records) write(rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_ = r.enc.Encode(rec)
}

func (r *Records) ScanningDirectory(string)      {}
func (r *Records) Hashing(dupe.SizeBucket)       {}
func (r *Records) Hashed(dupe.FileEntry, string) {}

func (r *Records) Unhandled(path string, mode fs.FileMode) {
	r.write(Record{Type: "unhandled", Path: path, Error: mode.Type().String()})
}

func (r *Records) SkippedDir(dir string, err error) {
	r.write(Record{Type: "skipped_dir", Path: dir, Error: err.Error()})
}

func (r *Records) Unreadable(entry dupe.FileEntry, err error) {
	r.write(Record{Type: "unreadable", Path: entry.Path, Size: sizeOf(entry.Size), Error: err.Error()})
}

func (r *Records) Group(group dupe.DuplicateGroup, keep int) {
	files := make([]string, len(group.Files))
	for i, f := range group.Files {
		files[i] = f.Path
	}
	r.write(Record{
		Type:     "group",
		Strategy: string(group.Strategy),
		Size:     sizeOf(group.Size),
		Digest:   group.Digest,
		Keep:     group.Files[keep].Path,
		Files:    files,
	})
}

func (r *Records) Match(keep, drop dupe.FileEntry) {
	r.write(Record{
		Type:     "group",
		Strategy: string(dupe.StrategyFuzzy),
		Size:     sizeOf(keep.Size),
		Keep:     keep.Path,
		Files:    []string{keep.Path, drop.Path},
	})
}

func (r *Records) Deleted(entry dupe.FileEntry) {
	r.write(Record{Type: "delete", Path: entry.Path, Size: sizeOf(entry.Size)})
}

func (r *Records) WouldDelete(entry dupe.FileEntry) {
	r.write(Record{Type: "would_delete", Path: entry.Path, Size: sizeOf(entry.Size)})
}

func (r *Records) DeleteFailed(entry dupe.FileEntry, err error) {
	r.write(Record{Type: "delete_failed", Path: entry.Path, Size: sizeOf(entry.Size), Error: err.Error()})
}

// Summary writes the closing record of a run
func (r *Records) Summary(mode dupe.Strategy, tally dupe.Tally, _ bool) {
	r.write(Record{
		Type:     "summary",
		Strategy: string(mode),
		Totals: &Totals{
			Processed:  tally.Processed,
			Groups:     tally.Groups,
			Deleted:    tally.Deleted,
			Unreadable: tally.Unreadable,
			Failed:     tally.Failed,
		},
	})
}
