package models

import "time"

// VerifyToken is a single-use email-verification token. A row is live while
// ValidUntil is in the future; redemption and the background sweeper are the
// only two things that delete rows.
type VerifyToken struct {
	ID         string
	UserID     string
	Token      string
	CreatedAt  time.Time
	ValidUntil time.Time
}
