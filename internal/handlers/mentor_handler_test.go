package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/negari/backend/internal/match"
	"github.com/negari/backend/internal/models"
)

func TestListMentors_RankedByGoalOverlap(t *testing.T) {
	profiles := &fakeProfileService{
		profiles: map[string]*models.Profile{
			"student-1": {
				ID:              "student-1",
				UserType:        models.UserTypeStudent,
				PreferredFields: []string{"Engineering", "Medicine"},
			},
		},
		mentors: []models.Profile{
			{ID: "mentor-arts", FullName: "Arts Mentor", PreferredFields: []string{"Arts"}},
			{ID: "mentor-eng", FullName: "Engineering Mentor", PreferredFields: []string{"Engineering", "Medicine"}},
			{ID: "mentor-med", FullName: "Medicine Mentor", CareerInterests: []string{"Medicine"}},
		},
	}
	h := NewMentorHandler(profiles)

	rec := httptest.NewRecorder()
	h.ListMentors(rec, authedRequest(t, http.MethodGet, "/api/mentors", "", "student-1"))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.True(t, resp.Success)

	var ranked []match.Candidate
	remarshal(t, resp.Data, &ranked)
	require.Len(t, ranked, 3)

	assert.Equal(t, "mentor-eng", ranked[0].ID)
	assert.Equal(t, 1.0, ranked[0].Score)
	assert.Equal(t, "mentor-med", ranked[1].ID)
	assert.Equal(t, 0.5, ranked[1].Score)
	assert.Equal(t, "mentor-arts", ranked[2].ID)
	assert.Equal(t, 0.0, ranked[2].Score)
}

func TestListMentors_NoProfileServesUnranked(t *testing.T) {
	profiles := &fakeProfileService{
		mentors: []models.Profile{
			{ID: "mentor-1", FullName: "First"},
			{ID: "mentor-2", FullName: "Second"},
		},
	}
	h := NewMentorHandler(profiles)

	rec := httptest.NewRecorder()
	h.ListMentors(rec, authedRequest(t, http.MethodGet, "/api/mentors", "", "no-profile"))

	require.Equal(t, http.StatusOK, rec.Code)

	var ranked []match.Candidate
	remarshal(t, decodeResponse(t, rec).Data, &ranked)
	require.Len(t, ranked, 2)

	// No goals means no ranking signal; input order holds.
	assert.Equal(t, "mentor-1", ranked[0].ID)
	assert.Equal(t, 0.0, ranked[0].Score)
	assert.Equal(t, "mentor-2", ranked[1].ID)
	assert.Equal(t, 0.0, ranked[1].Score)
}

func TestListMentors_MentorListFailure(t *testing.T) {
	h := NewMentorHandler(&fakeProfileService{listErr: errBoom})

	rec := httptest.NewRecorder()
	h.ListMentors(rec, authedRequest(t, http.MethodGet, "/api/mentors", "", "student-1"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, decodeResponse(t, rec).Success)
}

func TestListMentors_Unauthorized(t *testing.T) {
	h := NewMentorHandler(&fakeProfileService{})

	rec := httptest.NewRecorder()
	h.ListMentors(rec, httptest.NewRequest(http.MethodGet, "/api/mentors", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
