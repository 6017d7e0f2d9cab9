package model

import "time"

// Member roles.
const (
	RoleParent = "parent"
	RoleChild  = "child"
)

type Member struct {
	ID                   string    `json:"id"`
	FamilyID             string    `json:"family_id"`
	Name                 string    `json:"name"`
	Role                 string    `json:"role"`
	AvatarEmoji          string    `json:"avatar_emoji"`
	UsesThisDevice       bool      `json:"uses_this_device"`
	RequiresPIN          bool      `json:"requires_pin"`
	NotificationsEnabled bool      `json:"notifications_enabled"`
	CreatedAt            time.Time `json:"created_at"`
}
