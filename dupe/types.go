package dupe

// Strategy identifies which detector produced a DuplicateGroup
type Strategy string

const (
	StrategyExact Strategy = "exact"
	StrategyFuzzy Strategy = "fuzzy"
)

// FileEntry is a regular file discovered while walking the tree
type FileEntry struct {
	Path    string
	Size    int64
	Regular bool
}

// SizeBucket holds every file of one byte size in the order they were found
type SizeBucket struct {
	Size  int64
	Files []FileEntry
}

// contentKey identifies a ContentGroup inside one size bucket
type contentKey struct {
	size   int64
	digest string
}

// DuplicateGroup is an ordered set of files believed to be duplicates of each other.
// The first member is the earliest one seen during the scan.
type DuplicateGroup struct {
	Strategy Strategy
	Size     int64
	Digest   string // empty for fuzzy groups
	Files    []FileEntry
}

// Tally tracks aggregate counters across a run
type Tally struct {
	Processed      int // regular files looked at
	SizeMatches    int // size buckets with more than one file
	SizeMatchFiles int // files in those buckets
	Groups         int // duplicate groups or pairs found
	Members        int // files involved in those groups
	Deleted        int // files deleted, or that would have been deleted in a dry run
	Unreadable     int // files that could not be hashed
	Failed         int // deletions that failed
}

// Add merges other into t.
func (t *Tally) Add(other Tally) {
	t.Processed += other.Processed
	t.SizeMatches += other.SizeMatches
	t.SizeMatchFiles += other.SizeMatchFiles
	t.Groups += other.Groups
	t.Members += other.Members
	t.Deleted += other.Deleted
	t.Unreadable += other.Unreadable
	t.Failed += other.Failed
}
