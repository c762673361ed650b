// Package fanout maps committed lifecycle events to notification writes.
package fanout

import (
	"fmt"

	notificationModel "github.com/festy23/collabase/internal/notification/model"
)

// Kind is the kind of store mutation a write performs.
type Kind int

// Write kinds.
const (
	// KindAppend inserts a durable notification.
	KindAppend Kind = iota
	// KindUpsertDashboard creates or overwrites a dashboard notification by its composite id.
	KindUpsertDashboard
	// KindRetractDashboard deletes a dashboard notification by its composite id.
	KindRetractDashboard
)

// Guard is a condition evaluated against the team's applications when the
// write is applied, so that late or retried deliveries stay consistent with
// the current state.
type Guard int

// Write guards.
const (
	GuardNone Guard = iota
	// GuardPendingExists applies the write only while the applicant's application is pending.
	GuardPendingExists
	// GuardNoPending applies the write only when the team has no pending application left.
	GuardNoPending
)

// Write is one planned mutation of the notification stores.
type Write struct {
	Kind      Kind
	Guard     Guard
	Recipient string
	TeamID    string
	// ApplicantID scopes GuardPendingExists.
	ApplicantID string
	Durable     *notificationModel.Notification
	Dashboard   *notificationModel.DashboardNotification
}

// Recipients returns the distinct recipients of writes in first-seen order.
func Recipients(writes []Write) []string {
	seen := make(map[string]bool, len(writes))
	out := make([]string, 0, len(writes))
	for _, w := range writes {
		if !seen[w.Recipient] {
			seen[w.Recipient] = true
			out = append(out, w.Recipient)
		}
	}
	return out
}

// AcceptedMessage is the dashboard text sent to an accepted applicant.
func AcceptedMessage(teamName, whatsAppLink string) string {
	if whatsAppLink != "" {
		return fmt.Sprintf("Congratulations! You've been accepted to %s. Join the team chat: %s", teamName, whatsAppLink)
	}
	return fmt.Sprintf("Congratulations! You've been accepted to %s. The team lead will share the group link soon.", teamName)
}

// Plan returns the writes for event. It has no side effects and returns the
// same writes for the same event.
func Plan(event notificationModel.LifecycleEvent) []Write {
	switch event.Type {
	case notificationModel.EventApplicationSubmitted:
		msg := fmt.Sprintf("%s applied to join %s.", applicantName(event), event.TeamName)
		return []Write{
			appendDurable(event, event.CreatorID, notificationModel.TypeNewApplication, "New application", msg),
			{
				Kind:        KindUpsertDashboard,
				Guard:       GuardPendingExists,
				Recipient:   event.CreatorID,
				TeamID:      event.TeamID,
				ApplicantID: event.ApplicantID,
				Dashboard:   dashboard(event, event.CreatorID, notificationModel.DashboardNewApplication, msg),
			},
		}

	case notificationModel.EventApplicationAccepted:
		return []Write{
			upsertDashboard(event, event.ApplicantID, notificationModel.DashboardAccepted,
				AcceptedMessage(event.TeamName, event.WhatsAppLink)),
			appendDurable(event, event.ApplicantID, notificationModel.TypeApplicationAccepted,
				"Application accepted",
				fmt.Sprintf("Your application to %s was accepted.", event.TeamName)),
			retractNewApplication(event),
		}

	case notificationModel.EventApplicationRejected:
		msg := fmt.Sprintf("Your application to %s was not accepted this time.", event.TeamName)
		return []Write{
			upsertDashboard(event, event.ApplicantID, notificationModel.DashboardRejected, msg),
			appendDurable(event, event.ApplicantID, notificationModel.TypeApplicationRejected,
				"Application rejected", msg),
			retractNewApplication(event),
		}

	case notificationModel.EventApplicationWithdrawn:
		return []Write{retractNewApplication(event)}
	}
	return nil
}

func applicantName(event notificationModel.LifecycleEvent) string {
	if event.ApplicantName != "" {
		return event.ApplicantName
	}
	return "Someone"
}

func appendDurable(
	event notificationModel.LifecycleEvent,
	recipient string,
	typ notificationModel.NotificationType,
	title, message string,
) Write {
	return Write{
		Kind:      KindAppend,
		Guard:     GuardNone,
		Recipient: recipient,
		TeamID:    event.TeamID,
		Durable: &notificationModel.Notification{
			UserID:  recipient,
			Type:    typ,
			Title:   title,
			Message: message,
			Data: map[string]string{
				"team_id":      event.TeamID,
				"team_name":    event.TeamName,
				"applicant_id": event.ApplicantID,
			},
			CreatedAt: event.OccurredAt,
		},
	}
}

func upsertDashboard(
	event notificationModel.LifecycleEvent,
	recipient string,
	typ notificationModel.DashboardType,
	message string,
) Write {
	return Write{
		Kind:      KindUpsertDashboard,
		Guard:     GuardNone,
		Recipient: recipient,
		TeamID:    event.TeamID,
		Dashboard: dashboard(event, recipient, typ, message),
	}
}

func dashboard(
	event notificationModel.LifecycleEvent,
	recipient string,
	typ notificationModel.DashboardType,
	message string,
) *notificationModel.DashboardNotification {
	return &notificationModel.DashboardNotification{
		ID:        notificationModel.DashboardID(recipient, event.TeamID, typ),
		UserID:    recipient,
		Type:      typ,
		TeamID:    event.TeamID,
		TeamName:  event.TeamName,
		Message:   message,
		CreatedAt: event.OccurredAt,
	}
}

func retractNewApplication(event notificationModel.LifecycleEvent) Write {
	return Write{
		Kind:      KindRetractDashboard,
		Guard:     GuardNoPending,
		Recipient: event.CreatorID,
		TeamID:    event.TeamID,
		Dashboard: &notificationModel.DashboardNotification{
			ID:     notificationModel.DashboardID(event.CreatorID, event.TeamID, notificationModel.DashboardNewApplication),
			UserID: event.CreatorID,
			Type:   notificationModel.DashboardNewApplication,
			TeamID: event.TeamID,
		},
	}
}
