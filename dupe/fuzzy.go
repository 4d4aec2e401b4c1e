package dupe

import "path/filepath"

// FuzzyMatcher pairs files in the same directory whose decopified names are
// equal and whose sizes differ by at most Tolerance bytes. Decisions are made
// while the tree is being walked; each directory is matched only against its
// own files.
type FuzzyMatcher struct {
	Tolerance int64
	Keep      NamePolicy
	Resolver  *Resolver

	tally  Tally
	scopes []map[string]FileEntry
}

// NewFuzzyMatcher creates a matcher that keeps the shorter name of each pair
func NewFuzzyMatcher(tolerance int64, resolver *Resolver) *FuzzyMatcher {
	return &FuzzyMatcher{
		Tolerance: tolerance,
		Keep:      PreferShorterName,
		Resolver:  resolver,
	}
}

// Run walks root with scanner and returns the tallies of the walk
func (m *FuzzyMatcher) Run(scanner *Scanner, root string) (Tally, error) {
	m.tally = Tally{}
	m.scopes = nil
	if err := scanner.Walk(root, m); err != nil {
		return Tally{}, err
	}
	return m.tally, nil
}

func (m *FuzzyMatcher) EnterDir(string) {
	m.scopes = append(m.scopes, make(map[string]FileEntry))
}

func (m *FuzzyMatcher) LeaveDir(string) {
	m.scopes = m.scopes[:len(m.scopes)-1]
}

func (m *FuzzyMatcher) VisitFile(f FileEntry) {
	m.tally.Processed++
	seen := m.scopes[len(m.scopes)-1]
	key := Decopify(filepath.Base(f.Path))

	retained, ok := seen[key]
	if !ok {
		seen[key] = f
		return
	}
	if !withinTolerance(retained.Size, f.Size, m.Tolerance) {
		return
	}

	keep, drop := m.Keep(retained, f)
	seen[key] = keep

	m.tally.Groups++
	m.tally.Members += 2
	m.tally.Deleted++
	m.Resolver.Notify.Match(keep, drop)
	if err := m.Resolver.Remove(drop); err != nil {
		m.tally.Failed++
	}
}

func withinTolerance(a, b, tolerance int64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}
