package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterRequestValidate(t *testing.T) {
	tests := []struct {
		name      string
		req       RegisterRequest
		wantField string
	}{
		{"valid", RegisterRequest{Email: "abebe@example.com", Password: "secret1"}, ""},
		{"missing email", RegisterRequest{Password: "secret1"}, "email"},
		{"bad email", RegisterRequest{Email: "nope", Password: "secret1"}, "email"},
		{"overlong email", RegisterRequest{Email: strings.Repeat("a", 250) + "@x.com", Password: "secret1"}, "email"},
		{"missing password", RegisterRequest{Email: "abebe@example.com"}, "password"},
		{"short password", RegisterRequest{Email: "abebe@example.com", Password: "abc"}, "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.req.Validate()
			if tt.wantField == "" {
				assert.Empty(t, errs)
			} else {
				assert.Contains(t, errs, tt.wantField)
			}
		})
	}
}

func TestUpdateUserRequestValidate(t *testing.T) {
	assert.Empty(t, (&UpdateUserRequest{Email: "new@example.com", CurrentPassword: "old"}).Validate())
	assert.Empty(t, (&UpdateUserRequest{NewPassword: "longenough", CurrentPassword: "old"}).Validate())

	errs := (&UpdateUserRequest{CurrentPassword: "old"}).Validate()
	assert.Contains(t, errs, "email", "must change something")

	errs = (&UpdateUserRequest{Email: "new@example.com"}).Validate()
	assert.Contains(t, errs, "current_password")

	errs = (&UpdateUserRequest{NewPassword: "abc", CurrentPassword: "old"}).Validate()
	assert.Contains(t, errs, "new_password")
}

func TestBookSessionRequestValidate(t *testing.T) {
	valid := BookSessionRequest{
		MentorID:    "mentor-1",
		Topic:       "Essay review",
		SessionDate: "2026-09-15",
		SessionTime: "14:30",
	}
	assert.Empty(t, valid.Validate())

	bad := valid
	bad.SessionDate = "15-09-2026"
	assert.Contains(t, bad.Validate(), "session_date")

	bad = valid
	bad.SessionTime = "2pm"
	assert.Contains(t, bad.Validate(), "session_time")

	bad = valid
	bad.Topic = "   "
	assert.Contains(t, bad.Validate(), "topic")
}

func TestSendMessageRequestValidate(t *testing.T) {
	valid := SendMessageRequest{RecipientID: "user-2", Content: "Hello"}
	assert.Empty(t, valid.Validate())

	assert.Contains(t, (&SendMessageRequest{Content: "Hello"}).Validate(), "recipient_id")
	assert.Contains(t, (&SendMessageRequest{RecipientID: "user-2", Content: "  "}).Validate(), "content")
	assert.Contains(t, (&SendMessageRequest{RecipientID: "user-2", Content: strings.Repeat("x", 4001)}).Validate(), "content")
}

func TestUpsertProfileRequestValidate(t *testing.T) {
	mentor := UserTypeMentor
	assert.Empty(t, (&UpsertProfileRequest{UserType: &mentor}).Validate())
	assert.Empty(t, (&UpsertProfileRequest{}).Validate())

	bogus := "wizard"
	assert.Contains(t, (&UpsertProfileRequest{UserType: &bogus}).Validate(), "user_type")
}

func TestProfileDisplayName(t *testing.T) {
	assert.Equal(t, "Sara Tesfaye", (&Profile{FullName: "Sara Tesfaye"}).DisplayName())
	assert.Equal(t, "Sara Tesfaye", (&Profile{FirstName: "Sara", LastName: "Tesfaye"}).DisplayName())
	assert.Equal(t, "Sara", (&Profile{FirstName: "Sara"}).DisplayName())
	assert.Equal(t, "Mentor", (&Profile{}).DisplayName())
}

func TestSetSiteSettingsRequestValidate(t *testing.T) {
	valid := SetSiteSettingsRequest{Settings: []SettingInput{{SettingKey: "footer_email", SettingValue: "hi@negarischolar.com"}}}
	assert.Empty(t, valid.Validate())

	assert.Contains(t, (&SetSiteSettingsRequest{}).Validate(), "settings")

	missingKey := SetSiteSettingsRequest{Settings: []SettingInput{{SettingValue: "orphan"}}}
	assert.Contains(t, missingKey.Validate(), "settings")
}
