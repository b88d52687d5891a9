package domain

import "time"

// Invite is a single-use guest pass, consumed on redemption.
type Invite struct {
	Code        string    `json:"code"`
	CreatedAt   time.Time `json:"created_at"`
	Inviter     string    `json:"inviter"`
	InviterName string    `json:"inviter_name"`
	Name        string    `json:"name"`
}

// Expired reports whether the invite is older than ttl. A zero ttl never expires.
func (i Invite) Expired(now time.Time, ttl time.Duration) bool {
	return ttl > 0 && now.Sub(i.CreatedAt) >= ttl
}
