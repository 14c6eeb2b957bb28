package inspection

import "time"

// IsExpired is the shared expiry predicate: an inspection performed on base
// with a validity window of validityDays is expired when today is strictly
// past base + validityDays. It returns false when base is absent or the
// validity window is non-positive, so items without a usable window are
// never auto-expired.
func IsExpired(base time.Time, validityDays int, today time.Time) bool {
	if base.IsZero() || validityDays <= 0 {
		return false
	}
	expiry := base.AddDate(0, 0, validityDays)
	return today.After(expiry)
}
