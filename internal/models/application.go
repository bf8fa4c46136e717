package models

import (
	"strings"
	"time"
)

const ApplicationStatusStarted = "started"

// Application tracks a student's progress on one scholarship application.
// The actual submission happens on the scholarship's own site; this row is
// the student's personal tracker.
type Application struct {
	ID               string    `json:"id" bson:"_id"`
	UserID           string    `json:"user_id" bson:"user_id"`
	ScholarshipID    string    `json:"scholarship_id" bson:"scholarship_id"`
	ScholarshipTitle string    `json:"scholarship_title" bson:"scholarship_title,omitempty"`
	Status           string    `json:"status" bson:"status"`
	Notes            string    `json:"notes" bson:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
}

type TrackApplicationRequest struct {
	ScholarshipID string `json:"scholarship_id"`
	Notes         string `json:"notes"`
}

func (r *TrackApplicationRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.ScholarshipID) == "" {
		errors["scholarship_id"] = "Scholarship is required"
	}

	return errors
}

// AccountExport is the take-your-data-with-you payload: everything stored
// under the account, in one JSON document.
type AccountExport struct {
	ExportedAt     time.Time       `json:"exported_at"`
	UserID         string          `json:"user_id"`
	Profile        *Profile        `json:"profile"`
	Applications   []Application   `json:"applications"`
	MentorSessions []MentorSession `json:"mentor_sessions"`
	Messages       []Message       `json:"messages"`
}
