package models

import (
	"net/mail"
	"time"
)

type User struct {
	ID               string            `json:"id" bson:"_id"`
	Email            string            `json:"email" bson:"email"`
	PasswordHash     string            `json:"-" bson:"password_hash,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty" bson:"metadata,omitempty"`
	InvitedAt        *time.Time        `json:"invited_at" bson:"invited_at,omitempty"`
	EmailConfirmedAt *time.Time        `json:"email_confirmed_at" bson:"email_confirmed_at,omitempty"`
	LastSignInAt     *time.Time        `json:"last_sign_in_at" bson:"last_sign_in_at,omitempty"`
	CreatedAt        time.Time         `json:"created_at" bson:"created_at"`
}

type RegisterRequest struct {
	Email    string            `json:"email"`
	Password string            `json:"password"`
	Metadata map[string]string `json:"metadata"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse mirrors what the web client stores as its session.
type AuthResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// UpdateUserRequest changes the account email and/or password. The current
// password must be supplied for either change.
type UpdateUserRequest struct {
	Email           string `json:"email"`
	NewPassword     string `json:"new_password"`
	CurrentPassword string `json:"current_password"`
}

type ResetPasswordRequest struct {
	Email string `json:"email"`
}

type ConfirmResetRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// DirectoryUser is the admin directory row: auth record merged with profile
// metadata.
type DirectoryUser struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	InvitedAt        *time.Time `json:"invited_at"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at"`
	LastSignInAt     *time.Time `json:"last_sign_in_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UserType         string     `json:"user_type"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
}

// DeleteAccountRequest guards the destructive endpoint: the client must echo
// the confirmation phrase.
type DeleteAccountRequest struct {
	Confirm string `json:"confirm"`
}

// InviteUserRequest is the admin invite flow payload.
type InviteUserRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	City      string `json:"city"`
	UserType  string `json:"userType"`
	IsAdmin   bool   `json:"isAdmin"`
}

func (r *RegisterRequest) Validate() map[string]string {
	errors := make(map[string]string)

	validateEmail(r.Email, errors)
	if r.Password == "" {
		errors["password"] = "Password is required"
	} else if len(r.Password) < 6 {
		errors["password"] = "Password must be at least 6 characters"
	}

	return errors
}

func (r *ResetPasswordRequest) Validate() map[string]string {
	errors := make(map[string]string)

	validateEmail(r.Email, errors)

	return errors
}

func (r *LoginRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	}

	return errors
}

func (r *UpdateUserRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" && r.NewPassword == "" {
		errors["email"] = "Nothing to update"
	}
	if r.Email != "" {
		validateEmail(r.Email, errors)
	}
	if r.NewPassword != "" && len(r.NewPassword) < 6 {
		errors["new_password"] = "Password must be at least 6 characters"
	}
	if r.CurrentPassword == "" {
		errors["current_password"] = "Current password is required"
	}

	return errors
}

func (r *InviteUserRequest) Validate() map[string]string {
	errors := make(map[string]string)

	validateEmail(r.Email, errors)
	if r.FirstName == "" {
		errors["firstName"] = "First name is required"
	}
	switch r.UserType {
	case "", UserTypeStudent, UserTypeMentor, UserTypeParent, UserTypeSchool:
	default:
		errors["userType"] = "Unknown user type"
	}

	return errors
}

func validateEmail(email string, errors map[string]string) {
	if email == "" {
		errors["email"] = "Email is required"
		return
	}
	if len(email) > 254 {
		errors["email"] = "Email is too long"
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		errors["email"] = "Email is invalid"
	}
}
