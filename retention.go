package main

import (
	"strings"
	"time"
)

// tagCounts holds the per-repository numbers behind the eligibility gate.
type tagCounts struct {
	total   int
	latest  int
	version int
}

func countTags(tags []Tag) tagCounts {
	counts := tagCounts{total: len(tags)}
	for _, tag := range tags {
		switch {
		case tag.Name == "latest":
			counts.latest = 1
		case strings.HasPrefix(tag.Name, "v"):
			counts.version++
		}
	}
	return counts
}

// required is the number of protected slots in a repository: one reserved
// slot, the latest tag, and every v-prefixed version tag.
func (c tagCounts) required() int {
	return 1 + c.latest + c.version
}

// eligible reports whether a repository has tags beyond its protected
// slots. The gate is evaluated once per repository: when it passes, all of
// the repository's tags move on to the age cutoff, the latest and version
// tags included.
func (c tagCounts) eligible() bool {
	return c.total > c.required()
}

// deleteBefore returns the retention cutoff in Unix epoch seconds. Images
// created strictly before the cutoff are deletion candidates; an image
// created exactly at the cutoff is retained.
func deleteBefore(now time.Time, retention time.Duration) int64 {
	return now.Add(-retention).Unix()
}
