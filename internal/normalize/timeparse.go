package normalize

import (
	"time"

	"github.com/araddon/dateparse"
)

// ParseTime parses the loosely formatted timestamps the sources emit
// (RFC3339, "2006-01-02 15:04:05", "Jan 2, 2006", ...). Values without a
// zone are taken as UTC; everything comes back in UTC.
func ParseTime(s string) (time.Time, error) {
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
