// Package appstate tracks the signed-in user, their session, and their
// profile for a Negari client, and answers the onboarding-vs-dashboard
// redirect question. It is the client-side counterpart of the auth and
// profile endpoints served by this repository.
//
// The manager subscribes to auth-change notifications before performing the
// eager current-session fetch, so no change event is lost between start-up
// and subscription. Profile fetches are keyed to the user id they were issued
// for; a late result for a since-replaced user id is discarded.
package appstate

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/negari/backend/internal/logger"
	"github.com/negari/backend/internal/models"
)

var (
	// ErrProfileNotFound is returned by ProfileAPI.Fetch when no row exists
	// for the user id. A missing profile is an expected state for new users.
	ErrProfileNotFound = errors.New("profile not found")

	ErrNotSignedIn = errors.New("no user signed in")
)

// Session is the client's read-only copy of the auth session.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         *models.User
}

// AuthAPI is the external auth collaborator.
type AuthAPI interface {
	SignUp(ctx context.Context, email, password string, data models.UpsertProfileRequest) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error
	CurrentSession(ctx context.Context) (*Session, error)
	// Subscribe registers an auth-change callback and returns a function
	// releasing the subscription. The callback receives nil on sign-out.
	Subscribe(fn func(*Session)) (unsubscribe func())
}

// ProfileAPI is the external profile-row collaborator. Fetch returns
// ErrProfileNotFound when no row exists.
type ProfileAPI interface {
	Fetch(ctx context.Context, userID string) (*models.Profile, error)
	Upsert(ctx context.Context, userID string, req models.UpsertProfileRequest) (*models.Profile, error)
}

// Snapshot is a race-free view of the current auth/profile state.
// ProfileLoaded=false means "unknown", never "onboarding incomplete".
type Snapshot struct {
	User           *models.User
	Session        *Session
	Profile        *models.Profile
	ProfileLoading bool
	ProfileLoaded  bool
}

// Manager is the session/profile state machine.
type Manager struct {
	auth         AuthAPI
	profiles     ProfileAPI
	log          *logger.Logger
	fetchTimeout time.Duration

	mu             sync.Mutex
	session        *Session
	user           *models.User
	profile        *models.Profile
	profileLoading bool
	profileLoaded  bool
	currentUserID  string
	fetchCancel    context.CancelFunc
	unsubscribe    func()
	started        bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithFetchTimeout bounds each profile fetch. Timeout is treated like any
// other fetch failure: the profile state stays "unknown".
func WithFetchTimeout(d time.Duration) Option {
	return func(m *Manager) { m.fetchTimeout = d }
}

func NewManager(auth AuthAPI, profiles ProfileAPI, log *logger.Logger, opts ...Option) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	m := &Manager{
		auth:         auth,
		profiles:     profiles,
		log:          log,
		fetchTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start installs the auth-change subscription and then performs one eager
// fetch of the current session. Subscribe-then-poll ordering: the
// subscription must be live before the eager fetch resolves. Calling Start
// twice is a no-op.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return nil
	}
	m.started = true
	m.unsubscribe = m.auth.Subscribe(m.onSessionObserved)
	m.mu.Unlock()

	sess, err := m.auth.CurrentSession(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("eager session fetch failed")
		return nil
	}
	m.onSessionObserved(sess)
	return nil
}

// Close releases the subscription and cancels any in-flight profile fetch.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	if m.fetchCancel != nil {
		m.fetchCancel()
		m.fetchCancel = nil
	}
}

// Snapshot returns a consistent copy of the current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		User:           m.user,
		Session:        m.session,
		Profile:        m.profile,
		ProfileLoading: m.profileLoading,
		ProfileLoaded:  m.profileLoaded,
	}
}

// onSessionObserved is the single convergence point for the eager fetch and
// subscription events. Idempotent: observing the same user id while a fetch
// is loaded or in flight does not re-fetch.
func (m *Manager) onSessionObserved(sess *Session) {
	m.mu.Lock()

	if sess == nil || sess.User == nil {
		m.clearLocked()
		m.mu.Unlock()
		return
	}

	m.session = sess
	m.user = sess.User

	if sess.User.ID == m.currentUserID && (m.profileLoaded || m.profileLoading) {
		// Token refresh or duplicate event for the same user.
		m.mu.Unlock()
		return
	}

	m.currentUserID = sess.User.ID
	if m.fetchCancel != nil {
		m.fetchCancel()
	}
	m.profile = nil
	m.profileLoading = true
	m.profileLoaded = false

	ctx, cancel := context.WithTimeout(context.Background(), m.fetchTimeout)
	m.fetchCancel = cancel
	userID := sess.User.ID
	m.mu.Unlock()

	go m.fetchProfile(ctx, cancel, userID)
}

func (m *Manager) fetchProfile(ctx context.Context, cancel context.CancelFunc, userID string) {
	defer cancel()
	prof, err := m.profiles.Fetch(ctx, userID)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.currentUserID != userID {
		// The user changed while this fetch was in flight.
		m.log.Debug().Str("user_id", userID).Msg("discarding stale profile fetch")
		return
	}

	m.profileLoading = false
	if err != nil {
		// Loaded stays false: "unknown", so the redirect layer holds off.
		m.log.Error().Err(err).Str("user_id", userID).Msg("profile fetch failed")
		return
	}

	m.profile = prof
	m.profileLoaded = true
}

// SignUp registers the account and, on success, upserts a profile row with
// the supplied metadata. A profile upsert failure is logged, not returned:
// the registration itself succeeded.
func (m *Manager) SignUp(ctx context.Context, email, password string, data models.UpsertProfileRequest) error {
	sess, err := m.auth.SignUp(ctx, email, password, data)
	if err != nil {
		return err
	}
	if sess != nil && sess.User != nil {
		if _, perr := m.profiles.Upsert(ctx, sess.User.ID, data); perr != nil {
			m.log.Error().Err(perr).Str("user_id", sess.User.ID).Msg("profile upsert during sign-up failed")
		}
	}
	return nil
}

// SignIn authenticates and makes sure a profile row exists for accounts that
// predate profile creation. The ensure step is insert-if-absent: an existing
// row is never overwritten on login.
func (m *Manager) SignIn(ctx context.Context, email, password string) error {
	sess, err := m.auth.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	if sess != nil && sess.User != nil {
		if _, ferr := m.profiles.Fetch(ctx, sess.User.ID); errors.Is(ferr, ErrProfileNotFound) {
			if _, perr := m.profiles.Upsert(ctx, sess.User.ID, models.UpsertProfileRequest{}); perr != nil {
				m.log.Error().Err(perr).Str("user_id", sess.User.ID).Msg("profile backfill during sign-in failed")
			}
		}
	}
	return nil
}

// UpdateProfile upserts partial fields and replaces the cached profile with
// the server-returned row, so server-derived fields are reflected locally.
func (m *Manager) UpdateProfile(ctx context.Context, req models.UpsertProfileRequest) error {
	m.mu.Lock()
	if m.user == nil {
		m.mu.Unlock()
		return ErrNotSignedIn
	}
	userID := m.user.ID
	m.mu.Unlock()

	prof, err := m.profiles.Upsert(ctx, userID, req)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.currentUserID == userID {
		m.profile = prof
		m.profileLoading = false
		m.profileLoaded = true
	}
	return nil
}

// SignOut calls the remote sign-out and then clears all local state, whether
// or not the remote call succeeded. Local state must never stay stale behind
// a failed network call.
func (m *Manager) SignOut(ctx context.Context) error {
	err := m.auth.SignOut(ctx)

	m.mu.Lock()
	m.clearLocked()
	m.mu.Unlock()

	return err
}

// clearLocked resets to the Unauthenticated state. Caller holds mu.
func (m *Manager) clearLocked() {
	if m.fetchCancel != nil {
		m.fetchCancel()
		m.fetchCancel = nil
	}
	m.session = nil
	m.user = nil
	m.profile = nil
	m.profileLoading = false
	m.profileLoaded = false
	m.currentUserID = ""
}
