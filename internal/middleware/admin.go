package middleware

import (
	"net/http"
	"strings"

	"github.com/negari/backend/internal/models"
	"github.com/negari/backend/internal/services"
)

// RequireAdmin gates a route behind admin rights. A caller is an admin when
// their profile carries an admin flag, or their email is on the configured
// allow-list. The allow-list exists for accounts created before the flags
// were stored on profiles and will go away once those are migrated.
func RequireAdmin(profiles services.ProfileService, adminEmails []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := GetUserID(r.Context())
			if userID == "" {
				writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("You must be signed in"))
				return
			}

			if emailOnAllowList(GetUserEmail(r.Context()), adminEmails) {
				next.ServeHTTP(w, r)
				return
			}

			prof, err := profiles.GetByUserID(r.Context(), userID)
			if err != nil || !(prof.IsAdmin || prof.IsSuperAdmin) {
				writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Admins only"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func emailOnAllowList(email string, allowList []string) bool {
	if email == "" {
		return false
	}
	for _, allowed := range allowList {
		if strings.EqualFold(strings.TrimSpace(allowed), email) {
			return true
		}
	}
	return false
}
