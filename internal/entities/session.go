package entities

import "time"

// Session is a live combat-tracking session shared by every participant who
// holds its code. Possession of the code is the capability: any holder may
// mutate or end the session.
type Session struct {
	// Code is the short numeric identifier participants share
	Code string `json:"code"`

	// Exactly one of OwnerUserID / OwnerAnonymousID is set
	OwnerUserID      string `json:"owner_user_id,omitempty"`
	OwnerAnonymousID string `json:"owner_anonymous_id,omitempty"`

	// IsActive is false once the encounter has ended
	IsActive bool `json:"is_active"`

	// LastUpdated is bumped by every mutation under this session and is the
	// single clock for optimistic-concurrency conflict detection
	LastUpdated time.Time `json:"last_updated"`

	CreatedAt time.Time `json:"created_at"`
}
