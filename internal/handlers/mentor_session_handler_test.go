package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/negari/backend/internal/models"
)

type fakeSessionService struct {
	booked []models.MentorSession
}

func (f *fakeSessionService) Book(_ context.Context, studentID string, req *models.BookSessionRequest) (*models.MentorSession, error) {
	session := models.MentorSession{
		ID:          "session-1",
		MentorID:    req.MentorID,
		StudentID:   studentID,
		Topic:       req.Topic,
		SessionDate: req.SessionDate,
		SessionTime: req.SessionTime,
		Status:      models.SessionStatusRequested,
	}
	f.booked = append(f.booked, session)
	return &session, nil
}

func (f *fakeSessionService) ListForUser(_ context.Context, userID string) ([]models.MentorSession, error) {
	out := make([]models.MentorSession, 0)
	for _, s := range f.booked {
		if s.StudentID == userID || s.MentorID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

const bookBody = `{"mentor_id":"mentor-1","topic":"Essay review","session_date":"2026-09-15","session_time":"14:30"}`

func TestBookSession_Success(t *testing.T) {
	profiles := &fakeProfileService{profiles: map[string]*models.Profile{
		"mentor-1": {ID: "mentor-1", UserType: models.UserTypeMentor},
	}}
	sessions := &fakeSessionService{}
	h := NewMentorSessionHandler(sessions, profiles)

	rec := httptest.NewRecorder()
	h.BookSession(rec, authedRequest(t, http.MethodPost, "/api/mentor-sessions", bookBody, "student-1"))

	require.Equal(t, http.StatusCreated, rec.Code)

	var session models.MentorSession
	remarshal(t, decodeResponse(t, rec).Data, &session)
	assert.Equal(t, models.SessionStatusRequested, session.Status)
	assert.Equal(t, "student-1", session.StudentID)
	assert.Equal(t, "mentor-1", session.MentorID)
}

func TestBookSession_TargetMustBeMentor(t *testing.T) {
	profiles := &fakeProfileService{profiles: map[string]*models.Profile{
		"mentor-1": {ID: "mentor-1", UserType: models.UserTypeStudent},
	}}
	sessions := &fakeSessionService{}
	h := NewMentorSessionHandler(sessions, profiles)

	rec := httptest.NewRecorder()
	h.BookSession(rec, authedRequest(t, http.MethodPost, "/api/mentor-sessions", bookBody, "student-1"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, sessions.booked)
}

func TestBookSession_Validation(t *testing.T) {
	h := NewMentorSessionHandler(&fakeSessionService{}, &fakeProfileService{})

	rec := httptest.NewRecorder()
	h.BookSession(rec, authedRequest(t, http.MethodPost, "/api/mentor-sessions",
		`{"mentor_id":"mentor-1","topic":"x","session_date":"next tuesday","session_time":"14:30"}`, "student-1"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListSessions_BothSides(t *testing.T) {
	profiles := &fakeProfileService{profiles: map[string]*models.Profile{
		"mentor-1": {ID: "mentor-1", UserType: models.UserTypeMentor},
	}}
	sessions := &fakeSessionService{}
	h := NewMentorSessionHandler(sessions, profiles)

	rec := httptest.NewRecorder()
	h.BookSession(rec, authedRequest(t, http.MethodPost, "/api/mentor-sessions", bookBody, "student-1"))
	require.Equal(t, http.StatusCreated, rec.Code)

	for _, userID := range []string{"student-1", "mentor-1"} {
		rec := httptest.NewRecorder()
		h.ListSessions(rec, authedRequest(t, http.MethodGet, "/api/mentor-sessions", "", userID))
		require.Equal(t, http.StatusOK, rec.Code)

		var out []models.MentorSession
		remarshal(t, decodeResponse(t, rec).Data, &out)
		assert.Len(t, out, 1, "user %s", userID)
	}
}
