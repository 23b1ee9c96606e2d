package models

// DaysPerYear is the fixed year length used when converting Object Lock
// retention years into days. Leap years are deliberately ignored.
const DaysPerYear = 365

// BucketLockState is the default-retention snapshot of one bucket, derived
// from GetObjectLockConfiguration. Absent values are zero: an empty Mode means
// no default retention mode is set, and Days/Years are never negative.
type BucketLockState struct {
	Mode  string `json:"mode,omitempty"`
	Days  int    `json:"days"`
	Years int    `json:"years"`
}

// RetentionDays returns the default retention period expressed in days.
func (s BucketLockState) RetentionDays() int {
	return s.Years*DaysPerYear + s.Days
}

// AWSS3BucketLock is the collected Object Lock data for one bucket.
//
// Configured is false when GetObjectLockConfiguration failed or returned no
// ObjectLockConfiguration; State is meaningful only when Configured is true.
// FetchFailure carries a short, human-readable reason for the unconfigured
// case ("not_configured", "access_denied", ...) and is informational only:
// every unconfigured bucket is treated the same way by the rule.
type AWSS3BucketLock struct {
	Name         string          `json:"name"`
	Region       string          `json:"region,omitempty"`
	Configured   bool            `json:"configured"`
	State        BucketLockState `json:"state"`
	FetchFailure string          `json:"fetch_failure,omitempty"`
}
