package model

import "time"

// PushSubscription is one browser push registration for a member's device.
// Endpoint is unique: re-subscribing from the same device replaces the keys
// instead of adding a duplicate row.
type PushSubscription struct {
	ID         int64     `json:"id"`
	MemberID   string    `json:"member_id"`
	FamilyID   string    `json:"family_id"`
	Endpoint   string    `json:"endpoint"`
	P256dhKey  string    `json:"-"`
	AuthKey    string    `json:"-"`
	DeviceName string    `json:"device_name"`
	CreatedAt  time.Time `json:"created_at"`
}
