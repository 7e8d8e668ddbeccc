package domain

import "time"

// ConfirmationToken is a single-use proof of email ownership tied one-to-one
// to a pending user. Validity is calendar-day bounded: the token may be
// redeemed on the issue day or the day after, not within a rolling duration.
type ConfirmationToken struct {
	ID        string
	Token     string
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	IsDeleted bool
}

// ValidOn reports whether the token may be redeemed at the given instant.
// The window is exactly the issue day and the following day, inclusive.
func (t ConfirmationToken) ValidOn(now time.Time) bool {
	day := now.UTC().Truncate(24 * time.Hour)
	issued := t.IssuedAt.UTC().Truncate(24 * time.Hour)
	return day.Equal(issued) || day.Equal(issued.AddDate(0, 0, 1))
}
