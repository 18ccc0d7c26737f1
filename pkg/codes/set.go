package codes

import "strings"

// Set is a deduplicated collection of codes that remembers insertion order.
// Serialization follows that order; nothing is ever sorted.
type Set struct {
	order []Code
	seen  map[Code]struct{}
}

// MergeStats describes what a merge did
type MergeStats struct {
	Before  int `json:"before"`  // valid codes already in the remote content
	Batch   int `json:"batch"`   // size of the candidate batch, duplicates included
	Added   int `json:"added"`   // codes that were new to the set
	After   int `json:"after"`   // size of the merged set
	Dropped int `json:"dropped"` // invalid lines or batch entries that were discarded
}

// NewSet creates an empty set
func NewSet() *Set {
	return &Set{seen: make(map[Code]struct{})}
}

// Add inserts c and reports whether it was new. Invalid codes are rejected.
func (s *Set) Add(c Code) bool {
	if !Valid(c) {
		return false
	}
	if _, ok := s.seen[c]; ok {
		return false
	}
	s.seen[c] = struct{}{}
	s.order = append(s.order, c)
	return true
}

// Contains reports whether c is in the set
func (s *Set) Contains(c Code) bool {
	_, ok := s.seen[c]
	return ok
}

// Len returns the number of codes
func (s *Set) Len() int {
	return len(s.order)
}

// Codes returns a copy of the codes in insertion order
func (s *Set) Codes() []Code {
	out := make([]Code, len(s.order))
	copy(out, s.order)
	return out
}

// Serialize joins the codes with newlines, each padded to Width digits
func (s *Set) Serialize() string {
	return strings.Join(Strings(s.order), "\n")
}

// ParseSet reads newline separated codes. It returns the set and the number
// of non-blank lines that were discarded as invalid.
func ParseSet(content string) (*Set, int) {
	set := NewSet()
	dropped := 0

	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		c, err := Parse(line)
		if err != nil {
			dropped++
			continue
		}
		set.Add(c)
	}
	return set, dropped
}

// Merge unions the remote content with a batch and strips invalid entries.
// Remote codes keep their file order and new codes follow in batch order.
func Merge(remote string, batch []Code) (*Set, MergeStats) {
	set, dropped := ParseSet(remote)
	stats := MergeStats{
		Before: set.Len(),
		Batch:  len(batch),
	}

	for _, c := range batch {
		if !Valid(c) {
			dropped++
			continue
		}
		if set.Add(c) {
			stats.Added++
		}
	}

	stats.After = set.Len()
	stats.Dropped = dropped
	return set, stats
}
