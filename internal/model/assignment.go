package model

import "time"

// Assignment statuses. Status is free-form from the client's perspective;
// "pending" is the one transition the backend reacts to (submitted for
// parent review).
const (
	AssignmentStatusOpen       = "open"
	AssignmentStatusInProgress = "in_progress"
	AssignmentStatusPending    = "pending"
	AssignmentStatusApproved   = "approved"
	AssignmentStatusRejected   = "rejected"
)

// Proof is what a kid attaches when submitting an assignment for review.
type Proof struct {
	PhotoURL string `json:"photo_url,omitempty"`
	Note     string `json:"note,omitempty"`
}

type Assignment struct {
	ID               string    `json:"id"`
	FamilyID         string    `json:"family_id"`
	ChoreTitle       string    `json:"chore_title"`
	MemberName       string    `json:"member_name"`
	Status           string    `json:"status"`
	RequiresApproval bool      `json:"requires_approval"`
	Proof            Proof     `json:"proof"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
