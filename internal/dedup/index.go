// internal/dedup/index.go
package dedup

import (
	"sync"

	"review_harvester/internal/domain"
)

// Index is the run-scoped duplicate filter. Keys live in memory only and
// die with the run; nothing is shared across runs.
type Index struct {
	mu   sync.Mutex
	seen map[domain.Fingerprint]struct{}
}

func NewIndex() *Index {
	return &Index{seen: make(map[domain.Fingerprint]struct{})}
}

// IsDuplicate reports whether an identical fingerprint was recorded.
func (ix *Index) IsDuplicate(r domain.Review, prefixLen int) bool {
	k := domain.FingerprintOf(r, prefixLen)
	ix.mu.Lock()
	defer ix.mu.Unlock()
	_, dup := ix.seen[k]
	return dup
}

// Record marks the review's fingerprint as seen.
func (ix *Index) Record(r domain.Review, prefixLen int) {
	k := domain.FingerprintOf(r, prefixLen)
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.seen[k] = struct{}{}
}

// Admit records the fingerprint and reports whether it was new. The check
// and the record happen under one lock, so concurrent callers admitting
// the same fingerprint get true exactly once.
func (ix *Index) Admit(r domain.Review, prefixLen int) bool {
	k := domain.FingerprintOf(r, prefixLen)
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if _, dup := ix.seen[k]; dup {
		return false
	}
	ix.seen[k] = struct{}{}
	return true
}

// Len reports how many distinct fingerprints were admitted.
func (ix *Index) Len() int {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return len(ix.seen)
}
