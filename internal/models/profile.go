package models

import (
	"strings"
	"time"
)

const (
	UserTypeStudent = "student"
	UserTypeMentor  = "mentor"
	UserTypeParent  = "parent"
	UserTypeSchool  = "school"
)

// Profile is the user-editable profile row, keyed by the auth user id.
// has_completed_profile is the onboarding gate: it is only set true by an
// explicit goals save, never implicitly.
type Profile struct {
	ID                  string    `json:"id" bson:"_id"`
	Email               string    `json:"email" bson:"email,omitempty"`
	FirstName           string    `json:"first_name" bson:"first_name,omitempty"`
	LastName            string    `json:"last_name" bson:"last_name,omitempty"`
	FullName            string    `json:"full_name" bson:"full_name,omitempty"`
	Phone               string    `json:"phone" bson:"phone,omitempty"`
	City                string    `json:"city" bson:"city,omitempty"`
	Country             string    `json:"country" bson:"country,omitempty"`
	SchoolName          string    `json:"school_name" bson:"school_name,omitempty"`
	EducationLevel      string    `json:"education_level" bson:"education_level,omitempty"`
	SchoolType          string    `json:"school_type" bson:"school_type,omitempty"`
	UserType            string    `json:"user_type" bson:"user_type,omitempty"`
	IsAdmin             bool      `json:"is_admin" bson:"is_admin,omitempty"`
	IsSuperAdmin        bool      `json:"is_super_admin" bson:"is_super_admin,omitempty"`
	HasCompletedProfile bool      `json:"has_completed_profile" bson:"has_completed_profile"`
	DreamUniversity     string    `json:"dream_university" bson:"dream_university,omitempty"`
	DreamMajor          string    `json:"dream_major" bson:"dream_major,omitempty"`
	TargetCountry       string    `json:"target_country" bson:"target_country,omitempty"`
	CareerInterests     []string  `json:"career_interests" bson:"career_interests,omitempty"`
	PreferredFields     []string  `json:"preferred_fields" bson:"preferred_fields,omitempty"`
	UpdatedAt           time.Time `json:"updated_at" bson:"updated_at"`
}

// DisplayName prefers the stored full name, then first/last, then a generic
// fallback, matching how mentor cards are labelled.
func (p *Profile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	name := strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
	if name != "" {
		return name
	}
	return "Mentor"
}

// UpsertProfileRequest carries partial profile updates. Nil fields are left
// untouched in the stored row.
type UpsertProfileRequest struct {
	FirstName           *string   `json:"first_name"`
	LastName            *string   `json:"last_name"`
	FullName            *string   `json:"full_name"`
	Phone               *string   `json:"phone"`
	City                *string   `json:"city"`
	Country             *string   `json:"country"`
	SchoolName          *string   `json:"school_name"`
	EducationLevel      *string   `json:"education_level"`
	SchoolType          *string   `json:"school_type"`
	UserType            *string   `json:"user_type"`
	HasCompletedProfile *bool     `json:"has_completed_profile"`
	DreamUniversity     *string   `json:"dream_university"`
	DreamMajor          *string   `json:"dream_major"`
	TargetCountry       *string   `json:"target_country"`
	CareerInterests     *[]string `json:"career_interests"`
	PreferredFields     *[]string `json:"preferred_fields"`
}

func (r *UpsertProfileRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.UserType != nil {
		switch *r.UserType {
		case UserTypeStudent, UserTypeMentor, UserTypeParent, UserTypeSchool:
		default:
			errors["user_type"] = "Unknown user type"
		}
	}

	return errors
}
