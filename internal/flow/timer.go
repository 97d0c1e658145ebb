package flow

import "time"

// Deadline computes the auto-submit instant for an attempt started at
// startedAt with a limit in minutes. Untimed assessments (limit <= 0)
// have no deadline and never auto-submit.
func Deadline(startedAt time.Time, limitMinutes int) *time.Time {
	if limitMinutes <= 0 {
		return nil
	}
	d := startedAt.Add(time.Duration(limitMinutes) * time.Minute)
	return &d
}

// Expired reports whether the deadline has passed. A nil deadline means
// untimed and never expires.
func Expired(deadline *time.Time, now time.Time) bool {
	return deadline != nil && !now.Before(*deadline)
}

// Remaining returns the seconds left before the deadline, floored at
// zero. Untimed attempts report -1.
func Remaining(deadline *time.Time, now time.Time) int {
	if deadline == nil {
		return -1
	}
	left := int(deadline.Sub(now).Seconds())
	if left < 0 {
		return 0
	}
	return left
}

// Elapsed is the whole-second duration since the attempt started.
func Elapsed(startedAt, now time.Time) int {
	secs := int(now.Sub(startedAt).Seconds())
	if secs < 0 {
		return 0
	}
	return secs
}
