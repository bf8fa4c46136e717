package models

import "time"

type NewsletterSubscriber struct {
	ID        string    `json:"id" bson:"_id"`
	Email     string    `json:"email" bson:"email"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type SubscribeRequest struct {
	Email string `json:"email"`
}

// SubscribeResponse reports whether the email was newly added or was already
// on the list. Duplicate subscriptions are not an error.
type SubscribeResponse struct {
	Subscribed        bool `json:"subscribed"`
	AlreadySubscribed bool `json:"already_subscribed"`
}

func (r *SubscribeRequest) Validate() map[string]string {
	errors := make(map[string]string)
	validateEmail(r.Email, errors)
	return errors
}
