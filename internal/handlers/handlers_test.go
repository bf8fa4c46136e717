package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/negari/backend/internal/middleware"
	"github.com/negari/backend/internal/models"
	"github.com/negari/backend/internal/services"
)

var errBoom = errors.New("boom")

// fakeProfileService implements services.ProfileService in memory.
type fakeProfileService struct {
	profiles map[string]*models.Profile
	mentors  []models.Profile
	getErr   error
	listErr  error
}

func (f *fakeProfileService) GetByUserID(_ context.Context, userID string) (*models.Profile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if p, ok := f.profiles[userID]; ok {
		return p, nil
	}
	return nil, services.ErrProfileNotFound
}

func (f *fakeProfileService) Upsert(_ context.Context, userID, email string, _ *models.UpsertProfileRequest) (*models.Profile, error) {
	p := &models.Profile{ID: userID, Email: email}
	if f.profiles == nil {
		f.profiles = make(map[string]*models.Profile)
	}
	f.profiles[userID] = p
	return p, nil
}

func (f *fakeProfileService) EnsureExists(ctx context.Context, userID, email string) (*models.Profile, error) {
	if p, ok := f.profiles[userID]; ok {
		return p, nil
	}
	return f.Upsert(ctx, userID, email, nil)
}

func (f *fakeProfileService) ListMentors(_ context.Context) ([]models.Profile, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.mentors, nil
}

func (f *fakeProfileService) SetAdminFlags(_ context.Context, userID string, isAdmin, isSuperAdmin bool) error {
	if p, ok := f.profiles[userID]; ok {
		p.IsAdmin = isAdmin
		p.IsSuperAdmin = isSuperAdmin
	}
	return nil
}

// authedRequest builds a request carrying an authenticated user id, the way
// the JWT middleware would.
func authedRequest(t *testing.T, method, target, body, userID string) *http.Request {
	t.Helper()

	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
	ctx = context.WithValue(ctx, middleware.UserEmailKey, userID+"@example.com")
	return r.WithContext(ctx)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()

	var resp models.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// remarshal moves the envelope's data field into a typed value.
func remarshal(t *testing.T, data interface{}, dst interface{}) {
	t.Helper()

	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, dst))
}
