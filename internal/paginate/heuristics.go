package paginate

import (
	"time"

	"review_harvester/internal/domain"
)

// PastWindow reports whether the oldest item on the current page already
// fell out of the window. Sources are sorted newest-first, so later pages
// can only be older and the walk may stop.
func PastWindow(oldest time.Time, w domain.Window) bool {
	return !oldest.IsZero() && !w.Contains(oldest)
}

// LowYield flags a page that accepted very few new items once past an
// initial grace period, a sign the walk is approaching the window
// boundary through a source that cannot be probed by date directly.
func LowYield(added, page, min, grace int) bool {
	return added < min && page > grace
}
