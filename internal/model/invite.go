package model

import "time"

// Invite is a single-use family join code. The code itself is the identifier:
// the primary key gives the global code lookup and the family_id index gives
// the family-scoped one, so both views of an invite always move together.
type Invite struct {
	Code      string    `json:"code"`
	FamilyID  string    `json:"family_id"`
	CreatedBy string    `json:"created_by"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
