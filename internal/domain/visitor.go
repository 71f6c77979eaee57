package domain

import "time"

// Visitor is an anonymous per-device identity. There are no accounts;
// a visitor is whoever holds the anonymous cookie.
type Visitor struct {
	VisitorID  string    `json:"visitor_id"`
	Nickname   string    `json:"nickname"`
	LastSeenAt time.Time `json:"last_seen_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
