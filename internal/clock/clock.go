package clock

import (
	"fmt"
	"time"
)

// Clock returns the current instant. Collaborators take a Clock so the
// partition they write under can be pinned in tests.
type Clock func() time.Time

// Now is the default Clock (UTC wall time).
func Now() time.Time {
	return time.Now().UTC()
}

// Partition formats t as YYYYMMDDHHMMSSffffff (UTC, microseconds).
// The result sorts lexicographically in the same order as the instants.
func Partition(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s%06d", t.Format("20060102150405"), t.Nanosecond()/int(time.Microsecond))
}

// Display formats t as YYYY/MM/DD HH:MM:SS:ffffff (UTC, microseconds).
func Display(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s:%06d", t.Format("2006/01/02 15:04:05"), t.Nanosecond()/int(time.Microsecond))
}
