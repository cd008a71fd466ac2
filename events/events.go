package events

import (
	"fmt"

	"github.com/scholarhub/scholarship-app/models"
)

// NotificationEvent adalah payload yang dikirim aplikasi ke dispatcher.
// Satu event bisa punya banyak penerima; satu record Notification dibuat per penerima.
type NotificationEvent struct {
	Recipients []uint `json:"recipients"`
	Title      string `json:"title"`
	Message    string `json:"message"`
	Type       string `json:"type"`
	ActionURL  string `json:"action_url,omitempty"`
}

// ApplicationStatusChanged -> event saat admin mengubah status aplikasi
func ApplicationStatusChanged(app models.Application) NotificationEvent {
	var title, notifType string
	switch app.Status {
	case models.ApplicationApproved:
		title = "Application Approved"
		notifType = "success"
	case models.ApplicationRejected:
		title = "Application Rejected"
		notifType = "error"
	case models.ApplicationUnderReview:
		title = "Application Under Review"
		notifType = "info"
	default:
		title = "Application Updated"
		notifType = "info"
	}

	return NotificationEvent{
		Recipients: []uint{app.StudentID},
		Title:      title,
		Message:    fmt.Sprintf("Your application for %s is now %s", app.Scholarship.Name, app.Status),
		Type:       notifType,
		ActionURL:  fmt.Sprintf("/student/applications/%d", app.ID),
	}
}

// ScholarshipOpened -> event saat program beasiswa dibuka
func ScholarshipOpened(s models.Scholarship, recipients []uint) NotificationEvent {
	return NotificationEvent{
		Recipients: recipients,
		Title:      "New Scholarship Open",
		Message:    fmt.Sprintf("%s is now accepting applications", s.Name),
		Type:       "info",
		ActionURL:  fmt.Sprintf("/student/scholarships/%d", s.ID),
	}
}

// ServiceLogApproved -> event saat admin menyetujui log jam pelayanan
func ServiceLogApproved(logEntry models.ServiceLog) NotificationEvent {
	return NotificationEvent{
		Recipients: []uint{logEntry.StudentID},
		Title:      "Service Hours Approved",
		Message:    fmt.Sprintf("%.1f hours for %q have been approved", logEntry.Hours, logEntry.Activity),
		Type:       "success",
		ActionURL:  "/student/service-logs",
	}
}
