// Package clock provides an abstraction for time operations to enable
// deterministic testing of plan timestamps and backup directory names.
package clock

import "time"

// BackupDirLayout is the layout used for backup directory names.
// Compact so the directory name stays filesystem-friendly on all platforms.
const BackupDirLayout = "20060102T150405Z"

// Clock provides an abstraction for time operations.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// Timestamp returns the current UTC time in RFC 3339 form, used for
// ActionPlan.CreatedAt.
func Timestamp(c Clock) string {
	return c.Now().UTC().Format(time.RFC3339)
}

// BackupStamp returns the current UTC time formatted for use as a backup
// directory name.
func BackupStamp(c Clock) string {
	return c.Now().UTC().Format(BackupDirLayout)
}

// RealClock implements Clock using the system time.
type RealClock struct{}

// Now returns the current system time.
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// FakeClock implements Clock with a fixed time for testing.
type FakeClock struct {
	current time.Time
}

// NewFakeClock creates a new FakeClock with the given time.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{current: t}
}

// Now returns the fixed time.
func (c *FakeClock) Now() time.Time {
	return c.current
}

// Set updates the fixed time.
func (c *FakeClock) Set(t time.Time) {
	c.current = t
}

// Advance moves the fixed time forward by the given duration.
func (c *FakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}
