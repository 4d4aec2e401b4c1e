package ui

import (
	"io"
	"os"

	"github.com/lepinkainen/dupleter/dupe"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// Progress decorates a Notifier with a progress bar that advances once per
// hashed (or unreadable) file
type Progress struct {
	dupe.Notifier
	bar *progressbar.ProgressBar
}

// NewProgress creates a progress bar for total files on w
func NewProgress(inner dupe.Notifier, total int, w io.Writer) *Progress {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("🔐 Hashing"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)
	return &Progress{Notifier: inner, bar: bar}
}

func (p *Progress) Hashed(entry dupe.FileEntry, digest string) {
	_ = p.bar.Add(1)
	p.Notifier.Hashed(entry, digest)
}

func (p *Progress) Unreadable(entry dupe.FileEntry, err error) {
	_ = p.bar.Add(1)
	p.Notifier.Unreadable(entry, err)
}

// Finish completes and clears the bar
func (p *Progress) Finish() {
	_ = p.bar.Finish()
}

// IsTerminal reports whether f is attached to an interactive terminal
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
