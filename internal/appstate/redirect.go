package appstate

import (
	"strings"

	"github.com/negari/backend/internal/models"
)

// Redirect is the path the routing layer should navigate to, or RedirectNone
// to stay put.
type Redirect string

const (
	RedirectNone       Redirect = ""
	RedirectAdmin      Redirect = "/admin"
	RedirectStudent    Redirect = "/student"
	RedirectMentor     Redirect = "/mentor"
	RedirectParent     Redirect = "/parent"
	RedirectSchool     Redirect = "/school"
	RedirectOnboarding Redirect = "/profile?tab=goals"
)

// DashboardFor maps a user type to its dashboard, defaulting to the student
// dashboard for unset or unknown types.
func DashboardFor(userType string) Redirect {
	switch userType {
	case models.UserTypeMentor:
		return RedirectMentor
	case models.UserTypeParent:
		return RedirectParent
	case models.UserTypeSchool:
		return RedirectSchool
	default:
		return RedirectStudent
	}
}

// DecideRedirect implements the landing-page routing decision:
//
//  1. administrators (allow-list email or profile flag) go to the admin view,
//     regardless of whether the profile has loaded;
//  2. while the profile is not loaded, no redirect happens: "not loaded"
//     means "unknown", and redirecting now would flash users who are actually
//     complete through onboarding;
//  3. a completed profile goes to the dashboard for its user type;
//  4. anything else goes to the onboarding goals step.
//
// adminEmails is the legacy allow-list; it is injected configuration, not a
// constant of this package.
func DecideRedirect(user *models.User, profile *models.Profile, profileLoaded bool, adminEmails []string) Redirect {
	if user == nil {
		return RedirectNone
	}

	if isAdmin(user, profile, adminEmails) {
		return RedirectAdmin
	}

	if !profileLoaded {
		return RedirectNone
	}

	if profile != nil && profile.HasCompletedProfile {
		return DashboardFor(profile.UserType)
	}

	return RedirectOnboarding
}

func isAdmin(user *models.User, profile *models.Profile, adminEmails []string) bool {
	if profile != nil && (profile.IsAdmin || profile.IsSuperAdmin) {
		return true
	}
	for _, email := range adminEmails {
		if strings.EqualFold(strings.TrimSpace(email), user.Email) {
			return true
		}
	}
	return false
}
