package services

import (
	"github.com/taskboardhq/taskboard-api/internal/models"
)

// Role resolution lives in one place so the workflow manager, the fan-out
// engine and the handlers all agree on who approves and who hears about it.

// Recipient is one fan-out target together with the role tags that decide
// which message variant it receives.
type Recipient struct {
	UserID string
	Kinds  []string
}

// HasKind reports whether the recipient carries the given role tag.
func (r Recipient) HasKind(kind string) bool {
	for _, k := range r.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Approvers returns the users entitled to resolve a delete request for the
// project: the leader plus every project admin. When that set comes out
// empty the leader alone is used, and failing that the whole member list.
func Approvers(project *models.Project) []string {
	seen := make(map[string]struct{})
	var approvers []string
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		approvers = append(approvers, id)
	}

	add(project.LeaderID)
	for _, id := range project.Admins {
		add(id)
	}

	if len(approvers) > 0 {
		return approvers
	}
	if project.LeaderID != "" {
		return []string{project.LeaderID}
	}
	return append([]string(nil), project.Members...)
}

// CanConfirmDelete reports whether the identity may approve or reject a
// delete request on the project: the project leader, a project admin, or
// any admin-role identity.
func CanConfirmDelete(project *models.Project, identity models.Identity) bool {
	if identity.IsAdmin() {
		return true
	}
	if project.LeaderID == identity.ID {
		return true
	}
	for _, id := range project.Admins {
		if id == identity.ID {
			return true
		}
	}
	return false
}

// CanRequestDelete reports whether the identity may flag a task for
// deletion. Any project participant qualifies.
func CanRequestDelete(project *models.Project, identity models.Identity) bool {
	return project.HasMember(identity.ID)
}

// ClassifyConfirmRecipients works out who hears about a resolved delete
// request and in what capacity. Every member except the approver is team;
// the original requester keeps a requester tag (merged with team when they
// are also a member); the approver is always, and only, the actor.
func ClassifyConfirmRecipients(project *models.Project, approverID, requesterID string) []Recipient {
	index := make(map[string]int)
	var recipients []Recipient
	tag := func(userID, kind string) {
		if userID == "" || userID == approverID {
			return
		}
		i, ok := index[userID]
		if !ok {
			index[userID] = len(recipients)
			recipients = append(recipients, Recipient{UserID: userID, Kinds: []string{kind}})
			return
		}
		if !recipients[i].HasKind(kind) {
			recipients[i].Kinds = append(recipients[i].Kinds, kind)
		}
	}

	for _, member := range project.Members {
		tag(member, models.KindTeam)
	}
	tag(requesterID, models.KindRequester)

	recipients = append(recipients, Recipient{UserID: approverID, Kinds: []string{models.KindActor}})
	return recipients
}
