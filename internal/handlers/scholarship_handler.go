package handlers

import (
	"net/http"
	"strings"

	"github.com/negari/backend/internal/models"
	"github.com/negari/backend/internal/services"
)

type ScholarshipHandler struct {
	scholarshipService services.ScholarshipService
}

func NewScholarshipHandler(scholarshipService services.ScholarshipService) *ScholarshipHandler {
	return &ScholarshipHandler{scholarshipService: scholarshipService}
}

// ListScholarships returns open scholarships, soonest deadline first. An
// optional ?q= filters by title, university or country, case-insensitively.
func (h *ScholarshipHandler) ListScholarships(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestCtx(r)
	defer cancel()

	scholarships, err := h.scholarshipService.List(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load scholarships"))
		return
	}

	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		scholarships = filterScholarships(scholarships, q)
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(scholarships))
}

func filterScholarships(in []models.Scholarship, q string) []models.Scholarship {
	needle := strings.ToLower(q)
	out := make([]models.Scholarship, 0, len(in))
	for _, s := range in {
		if strings.Contains(strings.ToLower(s.Title), needle) ||
			strings.Contains(strings.ToLower(s.University), needle) ||
			strings.Contains(strings.ToLower(s.Country), needle) {
			out = append(out, s)
		}
	}
	return out
}
