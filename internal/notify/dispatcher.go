// Package notify reacts to assignment changes with parent push notifications.
package notify

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukerupert/chorezilla/internal/model"
	"github.com/dukerupert/chorezilla/internal/push"
	"github.com/dukerupert/chorezilla/internal/store"
)

// Sender is the delivery half of the push service.
type Sender interface {
	SendMulticast(subs []model.PushSubscription, payload push.Payload) []push.Result
}

// Dispatcher watches assignment transitions and notifies parents when a kid
// submits a chore for review.
type Dispatcher struct {
	members *store.MemberStore
	subs    *store.PushStore
	sender  Sender
	logger  *slog.Logger
}

func NewDispatcher(members *store.MemberStore, subs *store.PushStore, sender Sender, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		members: members,
		subs:    subs,
		sender:  sender,
		logger:  logger,
	}
}

// AssignmentUpdated handles a committed before/after assignment transition.
// It has no return value on purpose: the update already committed and there
// is nobody to report to, so every failure ends at the log.
func (d *Dispatcher) AssignmentUpdated(familyID, assignmentID string, before, after model.Assignment) {
	if !after.RequiresApproval {
		return
	}
	if before.Status == after.Status {
		return
	}
	if after.Status != model.AssignmentStatusPending {
		return
	}

	title, body := reviewMessage(after)

	parents, err := d.members.ListParents(familyID)
	if err != nil {
		d.logger.Error("list parent members", "family_id", familyID, "error", err)
		return
	}

	var recipients []model.PushSubscription
	for _, m := range parents {
		if !m.NotificationsEnabled {
			continue
		}
		subs, err := d.subs.ListByMember(m.ID)
		if err != nil {
			d.logger.Error("list member subscriptions", "member_id", m.ID, "error", err)
			continue
		}
		recipients = append(recipients, subs...)
	}

	if len(recipients) == 0 {
		d.logger.Debug("no opted-in parent devices", "family_id", familyID, "assignment_id", assignmentID)
		return
	}

	payload := push.Payload{
		Title: title,
		Body:  body,
		URL:   "/assignments/" + assignmentID,
		Tag:   "assignment-review-" + assignmentID,
		Data: map[string]string{
			"type":          "assignment_review",
			"family_id":     familyID,
			"assignment_id": assignmentID,
		},
	}

	failed := 0
	for _, res := range d.sender.SendMulticast(recipients, payload) {
		if res.Err == nil {
			continue
		}
		failed++
		if errors.Is(res.Err, push.ErrExpired) {
			if err := d.subs.DeleteByEndpoint(res.Subscription.Endpoint); err != nil {
				d.logger.Error("prune expired subscription", "endpoint", res.Subscription.Endpoint, "error", err)
			}
			continue
		}
		d.logger.Error("send review notification", "endpoint", res.Subscription.Endpoint, "error", res.Err)
	}

	d.logger.Info("review notification sent",
		"family_id", familyID,
		"assignment_id", assignmentID,
		"recipients", len(recipients),
		"failed", failed,
	)
}

// reviewMessage picks the title/body variant for whatever proof the kid
// attached to the submission.
func reviewMessage(a model.Assignment) (title, body string) {
	name := a.MemberName
	if name == "" {
		name = "Your kid"
	}
	chore := a.ChoreTitle
	if chore == "" {
		chore = "a chore"
	}

	hasPhoto := a.Proof.PhotoURL != ""
	hasNote := strings.TrimSpace(a.Proof.Note) != ""

	switch {
	case hasPhoto && hasNote:
		return "📷 + 💬 Proof to review", fmt.Sprintf("%s sent a photo and note for %q.", name, chore)
	case hasPhoto:
		return "📷 Photo proof ready", fmt.Sprintf("%s sent a photo for %q.", name, chore)
	case hasNote:
		return "💬 Note to review", fmt.Sprintf("%s left a note on %q.", name, chore)
	default:
		return "Chore ready for review", fmt.Sprintf("%s marked %q as done.", name, chore)
	}
}
