package model

import "time"

// User is an authenticated principal. Distinct from Member: a user can sign
// in, while a member is a profile row inside a family (kids usually have a
// member row but no user row).
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	FamilyID    string    `json:"family_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
