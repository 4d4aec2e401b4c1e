package dupe

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

// SizeHashGrouper finds exact duplicates in two phases: files are bucketed by
// size from metadata alone, then only buckets with at least two members are
// hashed and split by digest.
type SizeHashGrouper struct {
	Scanner *Scanner
	Hasher  Hasher

	// Workers bounds how many size buckets are hashed concurrently.
	// Values below 2 hash sequentially.
	Workers int

	// BeforeHashing, when set, is called between the two phases with the
	// number of files that are about to be hashed.
	BeforeHashing func(total int)

	mu sync.Mutex // serializes Notify calls from hashing workers
}

// NewSizeHashGrouper creates a sequential grouper
func NewSizeHashGrouper(scanner *Scanner, hasher Hasher) *SizeHashGrouper {
	return &SizeHashGrouper{Scanner: scanner, Hasher: hasher, Workers: 1}
}

// Find runs both phases over root
func (g *SizeHashGrouper) Find(root string) ([]DuplicateGroup, Tally, error) {
	buckets, processed, err := g.Buckets(root)
	if err != nil {
		return nil, Tally{}, err
	}

	tally := Tally{Processed: processed}
	for _, bucket := range buckets {
		if len(bucket.Files) > 1 {
			tally.SizeMatches++
			tally.SizeMatchFiles += len(bucket.Files)
		}
	}

	if g.BeforeHashing != nil {
		g.BeforeHashing(tally.SizeMatchFiles)
	}
	groups, unreadable := g.Groups(buckets)

	tally.Groups = len(groups)
	tally.Unreadable = unreadable
	for _, group := range groups {
		tally.Members += len(group.Files)
	}
	return groups, tally, nil
}

// Buckets groups every regular file under root by size, in first-seen order.
// It also returns the number of files seen. No file content is read.
func (g *SizeHashGrouper) Buckets(root string) ([]SizeBucket, int, error) {
	var buckets []SizeBucket
	index := make(map[int64]int)
	processed := 0

	err := g.Scanner.Walk(root, FileFunc(func(f FileEntry) {
		processed++
		i, ok := index[f.Size]
		if !ok {
			i = len(buckets)
			index[f.Size] = i
			buckets = append(buckets, SizeBucket{Size: f.Size})
		}
		buckets[i].Files = append(buckets[i].Files, f)
	}))
	if err != nil {
		return nil, 0, err
	}

	return buckets, processed, nil
}

// Groups hashes the members of every bucket that has at least two files and
// returns the content groups with at least two members. Files that cannot be
// hashed are reported and left out; their count is returned.
func (g *SizeHashGrouper) Groups(buckets []SizeBucket) ([]DuplicateGroup, int) {
	perBucket := make([][]DuplicateGroup, len(buckets))
	unreadable := make([]int, len(buckets))

	var eg errgroup.Group
	eg.SetLimit(max(g.Workers, 1))

	for i := range buckets {
		if len(buckets[i].Files) < 2 {
			continue
		}
		i := i
		eg.Go(func() error {
			perBucket[i], unreadable[i] = g.splitBucket(buckets[i])
			return nil
		})
	}
	_ = eg.Wait()

	var groups []DuplicateGroup
	total := 0
	for i := range buckets {
		groups = append(groups, perBucket[i]...)
		total += unreadable[i]
	}
	return groups, total
}

// splitBucket sub-buckets one size bucket by content digest
func (g *SizeHashGrouper) splitBucket(bucket SizeBucket) ([]DuplicateGroup, int) {
	g.notify(func(n Notifier) { n.Hashing(bucket) })

	var groups []DuplicateGroup
	index := make(map[contentKey]int)
	unreadable := 0

	for _, f := range bucket.Files {
		digest, err := g.Hasher.Hash(g.Scanner.Fs, f.Path)
		if err != nil {
			unreadable++
			g.notify(func(n Notifier) { n.Unreadable(f, err) })
			continue
		}
		g.notify(func(n Notifier) { n.Hashed(f, digest) })

		key := contentKey{size: bucket.Size, digest: digest}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, DuplicateGroup{
				Strategy: StrategyExact,
				Size:     bucket.Size,
				Digest:   digest,
			})
		}
		groups[i].Files = append(groups[i].Files, f)
	}

	duplicates := groups[:0]
	for _, group := range groups {
		if len(group.Files) > 1 {
			duplicates = append(duplicates, group)
		}
	}
	return duplicates, unreadable
}

func (g *SizeHashGrouper) notify(fn func(Notifier)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(g.Scanner.Notify)
}
