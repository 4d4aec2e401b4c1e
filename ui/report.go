package ui

import (
	"fmt"
	"io"
	"io/fs"

	"github.com/lepinkainen/dupleter/dupe"
)

// Console renders scan events as human-readable lines. Results go to Out,
// diagnostics (unreadable files, skipped entries, failed deletions) to Err.
type Console struct {
	Out     io.Writer
	Err     io.Writer
	Verbose bool
	DryRun  bool // label victims "would delete" instead of "delete"
}

// NewConsole creates a console reporter
func NewConsole(out, errOut io.Writer, verbose, dryRun bool) *Console {
	return &Console{Out: out, Err: errOut, Verbose: verbose, DryRun: dryRun}
}

func (c *Console) trace(format string, args ...any) {
	if !c.Verbose {
		return
	}
	fmt.Fprintln(c.Out, TraceStyle.Render(fmt.Sprintf(format, args...)))
}

func (c *Console) ScanningDirectory(dir string) {
	c.trace("📂 Scanning %s", dir)
}

func (c *Console) Unhandled(path string, mode fs.FileMode) {
	fmt.Fprintf(c.Err, "%s\n", WarnStyle.Render(fmt.Sprintf("⚠️  Unhandled directory member %s (%s)", path, mode.Type())))
}

func (c *Console) SkippedDir(dir string, err error) {
	fmt.Fprintf(c.Err, "%s\n", WarnStyle.Render(fmt.Sprintf("⚠️  Skipping directory %s: %v", dir, err)))
}

func (c *Console) Hashing(bucket dupe.SizeBucket) {
	c.trace("🔐 Hashing %d files of %d bytes", len(bucket.Files), bucket.Size)
}

func (c *Console) Hashed(entry dupe.FileEntry, digest string) {
	c.trace("   %s %s", digest, entry.Path)
}

func (c *Console) Unreadable(entry dupe.FileEntry, err error) {
	fmt.Fprintf(c.Err, "%s\n", ErrorStyle.Render(fmt.Sprintf("❌ Skipping unreadable file %s: %v", entry.Path, err)))
}

func (c *Console) Group(group dupe.DuplicateGroup, keep int) {
	fmt.Fprintf(c.Out, "\n%s\n", InfoStyle.Render(fmt.Sprintf("🔸 %d files of %d bytes (sha256 %s):", len(group.Files), group.Size, shortDigest(group.Digest))))
	for i, f := range group.Files {
		if i == keep {
			c.keepLine(f)
		} else {
			c.dropLine(f)
		}
	}
}

func (c *Console) Match(keep, drop dupe.FileEntry) {
	fmt.Fprintf(c.Out, "\n%s\n", InfoStyle.Render(fmt.Sprintf("🔸 Fuzzy match (%d / %d bytes):", keep.Size, drop.Size)))
	c.keepLine(keep)
	c.dropLine(drop)
}

func (c *Console) keepLine(f dupe.FileEntry) {
	fmt.Fprintf(c.Out, "  %s %s\n", KeepStyle.Render("keep        "), f.Path)
}

func (c *Console) dropLine(f dupe.FileEntry) {
	label := "delete      "
	if c.DryRun {
		label = "would delete"
	}
	fmt.Fprintf(c.Out, "  %s %s\n", DeleteStyle.Render(label), f.Path)
}

func (c *Console) Deleted(entry dupe.FileEntry) {
	fmt.Fprintf(c.Out, "%s\n", SuccessStyle.Render(fmt.Sprintf("🗑️  Deleted %s", entry.Path)))
}

func (c *Console) WouldDelete(entry dupe.FileEntry) {
	c.trace("   would delete %s", entry.Path)
}

func (c *Console) DeleteFailed(entry dupe.FileEntry, err error) {
	fmt.Fprintf(c.Err, "%s\n", ErrorStyle.Render(fmt.Sprintf("❌ Error deleting %s: %v", entry.Path, err)))
}

// Summary prints the closing counts of a run
func (c *Console) Summary(mode dupe.Strategy, tally dupe.Tally, commit bool) {
	fmt.Fprintln(c.Out)
	if mode == dupe.StrategyExact {
		fmt.Fprintf(c.Out, "%d matches by size involving %d files.\n", tally.SizeMatches, tally.SizeMatchFiles)
		fmt.Fprintf(c.Out, "%d duplicate groups involving %d files.\n", tally.Groups, tally.Members)
	}
	fmt.Fprintln(c.Out, deletionSummary(tally, commit))

	if tally.Unreadable > 0 {
		fmt.Fprintf(c.Err, "%s\n", WarnStyle.Render(fmt.Sprintf("⚠️  %d files could not be read", tally.Unreadable)))
	}
	if tally.Failed > 0 {
		fmt.Fprintf(c.Err, "%s\n", ErrorStyle.Render(fmt.Sprintf("❌ %d deletions failed", tally.Failed)))
	}
}

func deletionSummary(tally dupe.Tally, commit bool) string {
	if commit {
		return fmt.Sprintf("%d files processed. %d files deleted.", tally.Processed, tally.Deleted-tally.Failed)
	}
	return fmt.Sprintf("%d files processed. %d files would have been deleted.", tally.Processed, tally.Deleted)
}

func shortDigest(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}
