package models

import (
	"strings"
	"time"
)

type Message struct {
	ID          string    `json:"id" bson:"_id"`
	SenderID    string    `json:"sender_id" bson:"sender_id"`
	RecipientID string    `json:"recipient_id" bson:"recipient_id"`
	Subject     string    `json:"subject" bson:"subject,omitempty"`
	Content     string    `json:"content" bson:"content"`
	Read        bool      `json:"read" bson:"read"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

type SendMessageRequest struct {
	RecipientID string `json:"recipient_id"`
	Subject     string `json:"subject"`
	Content     string `json:"content"`
}

func (r *SendMessageRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.RecipientID == "" {
		errors["recipient_id"] = "Recipient is required"
	}
	if strings.TrimSpace(r.Content) == "" {
		errors["content"] = "Message content is required"
	} else if len(r.Content) > 4000 {
		errors["content"] = "Message is too long"
	}

	return errors
}
