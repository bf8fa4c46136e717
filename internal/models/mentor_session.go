package models

import (
	"strings"
	"time"
)

const SessionStatusRequested = "requested"

// MentorSession is a guidance session booked by a student with a mentor.
// New sessions always start in the "requested" status; the mentor confirms
// and attaches a meeting link later.
type MentorSession struct {
	ID          string    `json:"id" bson:"_id"`
	MentorID    string    `json:"mentor_id" bson:"mentor_id"`
	StudentID   string    `json:"student_id" bson:"student_id"`
	Topic       string    `json:"topic" bson:"topic"`
	SessionDate string    `json:"session_date" bson:"session_date"`
	SessionTime string    `json:"session_time" bson:"session_time"`
	Status      string    `json:"status" bson:"status"`
	MeetingLink string    `json:"meeting_link" bson:"meeting_link,omitempty"`
	Notes       string    `json:"notes" bson:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

type BookSessionRequest struct {
	MentorID    string `json:"mentor_id"`
	Topic       string `json:"topic"`
	SessionDate string `json:"session_date"`
	SessionTime string `json:"session_time"`
}

func (r *BookSessionRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.MentorID == "" {
		errors["mentor_id"] = "Mentor is required"
	}
	if strings.TrimSpace(r.Topic) == "" {
		errors["topic"] = "Session topic is required"
	}
	if r.SessionDate == "" {
		errors["session_date"] = "Session date is required"
	} else if _, err := time.Parse("2006-01-02", r.SessionDate); err != nil {
		errors["session_date"] = "Session date must be YYYY-MM-DD"
	}
	if r.SessionTime == "" {
		errors["session_time"] = "Session time is required"
	} else if _, err := time.Parse("15:04", r.SessionTime); err != nil {
		errors["session_time"] = "Session time must be HH:MM"
	}

	return errors
}
