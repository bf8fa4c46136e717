package handlers

import (
	"net/http"

	"github.com/negari/backend/internal/logger"
	"github.com/negari/backend/internal/match"
	"github.com/negari/backend/internal/middleware"
	"github.com/negari/backend/internal/models"
	"github.com/negari/backend/internal/services"
)

type MentorHandler struct {
	profileService services.ProfileService
}

func NewMentorHandler(profileService services.ProfileService) *MentorHandler {
	return &MentorHandler{profileService: profileService}
}

// ListMentors returns every mentor scored against the caller's goals, best
// match first. A caller with no profile or no goals still gets the full list,
// just unranked (every score 0).
func (h *MentorHandler) ListMentors(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	ctx, cancel := requestCtx(r)
	defer cancel()

	var goals match.Goals
	viewer, err := h.profileService.GetByUserID(ctx, userID)
	if err == nil {
		goals = match.Goals{
			PreferredFields: viewer.PreferredFields,
			CareerInterests: viewer.CareerInterests,
			DreamMajor:      viewer.DreamMajor,
			TargetCountry:   viewer.TargetCountry,
		}
	} else if err != services.ErrProfileNotFound {
		logger.FromRequest(r).Warn().Err(err).Str("user_id", userID).Msg("viewer profile load failed, serving unranked mentors")
	}

	mentors, err := h.profileService.ListMentors(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load mentors"))
		return
	}

	candidates := make([]match.Candidate, 0, len(mentors))
	for i := range mentors {
		m := &mentors[i]
		tags := make([]string, 0, len(m.PreferredFields)+len(m.CareerInterests))
		tags = append(tags, m.PreferredFields...)
		tags = append(tags, m.CareerInterests...)
		candidates = append(candidates, match.Candidate{
			ID:          m.ID,
			DisplayName: m.DisplayName(),
			FieldTags:   tags,
			University:  m.DreamUniversity,
			Country:     m.Country,
		})
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(match.RankMentors(goals, candidates)))
}
