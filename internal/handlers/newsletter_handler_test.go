package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/negari/backend/internal/models"
)

type fakeNewsletterService struct {
	seen map[string]bool
}

func (f *fakeNewsletterService) Subscribe(_ context.Context, email string) (*models.SubscribeResponse, error) {
	if f.seen == nil {
		f.seen = make(map[string]bool)
	}
	key := strings.ToLower(email)
	already := f.seen[key]
	f.seen[key] = true
	return &models.SubscribeResponse{Subscribed: true, AlreadySubscribed: already}, nil
}

func TestSubscribe_NewAndRepeat(t *testing.T) {
	h := NewNewsletterHandler(&fakeNewsletterService{})

	rec := httptest.NewRecorder()
	h.Subscribe(rec, httptest.NewRequest(http.MethodPost, "/api/newsletter/subscribe", strings.NewReader(`{"email":"sara@example.com"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var first models.SubscribeResponse
	remarshal(t, decodeResponse(t, rec).Data, &first)
	assert.True(t, first.Subscribed)
	assert.False(t, first.AlreadySubscribed)

	// Subscribing again is not an error, just flagged.
	rec = httptest.NewRecorder()
	h.Subscribe(rec, httptest.NewRequest(http.MethodPost, "/api/newsletter/subscribe", strings.NewReader(`{"email":"sara@example.com"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var second models.SubscribeResponse
	remarshal(t, decodeResponse(t, rec).Data, &second)
	assert.True(t, second.Subscribed)
	assert.True(t, second.AlreadySubscribed)
}

func TestSubscribe_InvalidEmail(t *testing.T) {
	h := NewNewsletterHandler(&fakeNewsletterService{})

	for _, body := range []string{`{}`, `{"email":"not-an-email"}`} {
		rec := httptest.NewRecorder()
		h.Subscribe(rec, httptest.NewRequest(http.MethodPost, "/api/newsletter/subscribe", strings.NewReader(body)))

		resp := decodeResponse(t, rec)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
		assert.NotEmpty(t, resp.Errors, "body %s", body)
	}
}
