package appstate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/negari/backend/internal/logger"
	"github.com/negari/backend/internal/models"
)

type fakeAuth struct {
	mu         sync.Mutex
	current    *Session
	signUpSess *Session
	signUpErr  error
	signInSess *Session
	signInErr  error
	signOutErr error
	callbacks  []func(*Session)
	calls      []string
}

func (f *fakeAuth) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeAuth) SignUp(_ context.Context, _, _ string, _ models.UpsertProfileRequest) (*Session, error) {
	f.record("SignUp")
	return f.signUpSess, f.signUpErr
}

func (f *fakeAuth) SignIn(_ context.Context, _, _ string) (*Session, error) {
	f.record("SignIn")
	return f.signInSess, f.signInErr
}

func (f *fakeAuth) SignOut(_ context.Context) error {
	f.record("SignOut")
	return f.signOutErr
}

func (f *fakeAuth) CurrentSession(_ context.Context) (*Session, error) {
	f.record("CurrentSession")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current, nil
}

func (f *fakeAuth) Subscribe(fn func(*Session)) func() {
	f.record("Subscribe")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callbacks = append(f.callbacks, fn)
	return func() {}
}

func (f *fakeAuth) emit(s *Session) {
	f.mu.Lock()
	cbs := append([]func(*Session){}, f.callbacks...)
	f.mu.Unlock()
	for _, cb := range cbs {
		cb(s)
	}
}

type fakeProfiles struct {
	mu          sync.Mutex
	rows        map[string]*models.Profile
	fetchCount  map[string]int
	fetchErr    error
	fetchBlock  chan struct{} // when non-nil, Fetch waits for close
	upsertCount int
	lastUpsert  models.UpsertProfileRequest
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{
		rows:       make(map[string]*models.Profile),
		fetchCount: make(map[string]int),
	}
}

func (f *fakeProfiles) Fetch(_ context.Context, userID string) (*models.Profile, error) {
	f.mu.Lock()
	f.fetchCount[userID]++
	block := f.fetchBlock
	err := f.fetchErr
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	prof, ok := f.rows[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	cp := *prof
	return &cp, nil
}

func (f *fakeProfiles) Upsert(_ context.Context, userID string, req models.UpsertProfileRequest) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upsertCount++
	f.lastUpsert = req

	prof, ok := f.rows[userID]
	if !ok {
		prof = &models.Profile{ID: userID}
		f.rows[userID] = prof
	}
	if req.FirstName != nil {
		prof.FirstName = *req.FirstName
	}
	if req.UserType != nil {
		prof.UserType = *req.UserType
	}
	if req.DreamMajor != nil {
		prof.DreamMajor = *req.DreamMajor
	}
	if req.HasCompletedProfile != nil {
		prof.HasCompletedProfile = *req.HasCompletedProfile
	}
	prof.UpdatedAt = time.Now()

	cp := *prof
	return &cp, nil
}

func (f *fakeProfiles) fetches(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCount[userID]
}

func sessionFor(id, email string) *Session {
	return &Session{
		AccessToken: "token-" + id,
		ExpiresAt:   time.Now().Add(time.Hour),
		User:        &models.User{ID: id, Email: email},
	}
}

func TestStart_SubscribesBeforeEagerSessionFetch(t *testing.T) {
	auth := &fakeAuth{}
	profiles := newFakeProfiles()
	m := NewManager(auth, profiles, logger.Nop())
	defer m.Close()

	require.NoError(t, m.Start(context.Background()))

	require.GreaterOrEqual(t, len(auth.calls), 2)
	assert.Equal(t, "Subscribe", auth.calls[0])
	assert.Equal(t, "CurrentSession", auth.calls[1])
}

func TestSessionObserved_LoadsProfile(t *testing.T) {
	auth := &fakeAuth{current: sessionFor("u1", "a@b.c")}
	profiles := newFakeProfiles()
	profiles.rows["u1"] = &models.Profile{ID: "u1", UserType: models.UserTypeStudent, HasCompletedProfile: true}

	m := NewManager(auth, profiles, logger.Nop())
	defer m.Close()
	require.NoError(t, m.Start(context.Background()))

	require.Eventually(t, func() bool {
		return m.Snapshot().ProfileLoaded
	}, time.Second, 5*time.Millisecond)

	snap := m.Snapshot()
	assert.Equal(t, "u1", snap.User.ID)
	assert.True(t, snap.Profile.HasCompletedProfile)
	assert.False(t, snap.ProfileLoading)
}

func TestSessionObserved_IdempotentForSameUser(t *testing.T) {
	auth := &fakeAuth{current: sessionFor("u1", "a@b.c")}
	profiles := newFakeProfiles()
	profiles.rows["u1"] = &models.Profile{ID: "u1"}

	m := NewManager(auth, profiles, logger.Nop())
	defer m.Close()
	require.NoError(t, m.Start(context.Background()))

	require.Eventually(t, func() bool {
		return m.Snapshot().ProfileLoaded
	}, time.Second, 5*time.Millisecond)

	// Token refresh events for the same user must not re-fetch.
	auth.emit(sessionFor("u1", "a@b.c"))
	auth.emit(sessionFor("u1", "a@b.c"))

	assert.Equal(t, 1, profiles.fetches("u1"))
	assert.True(t, m.Snapshot().ProfileLoaded)
}

func TestSessionObserved_StaleFetchDiscardedOnUserSwitch(t *testing.T) {
	auth := &fakeAuth{}
	profiles := newFakeProfiles()
	block := make(chan struct{})
	profiles.fetchBlock = block
	profiles.rows["u1"] = &models.Profile{ID: "u1", DreamMajor: "medicine"}
	profiles.rows["u2"] = &models.Profile{ID: "u2", DreamMajor: "law"}

	m := NewManager(auth, profiles, logger.Nop())
	defer m.Close()
	require.NoError(t, m.Start(context.Background()))

	auth.emit(sessionFor("u1", "one@x.y"))
	require.Eventually(t, func() bool {
		return profiles.fetches("u1") == 1
	}, time.Second, 5*time.Millisecond)

	// User switches while u1's fetch is still in flight.
	auth.emit(sessionFor("u2", "two@x.y"))
	require.Eventually(t, func() bool {
		return profiles.fetches("u2") == 1
	}, time.Second, 5*time.Millisecond)

	// Release both fetches. u1's result must be discarded.
	profiles.mu.Lock()
	profiles.fetchBlock = nil
	profiles.mu.Unlock()
	close(block)

	require.Eventually(t, func() bool {
		return m.Snapshot().ProfileLoaded
	}, time.Second, 5*time.Millisecond)

	snap := m.Snapshot()
	assert.Equal(t, "u2", snap.User.ID)
	assert.Equal(t, "law", snap.Profile.DreamMajor)
}

func TestSessionObserved_SignOutDuringFetchDiscardsResult(t *testing.T) {
	auth := &fakeAuth{}
	profiles := newFakeProfiles()
	block := make(chan struct{})
	profiles.fetchBlock = block
	profiles.rows["u1"] = &models.Profile{ID: "u1"}

	m := NewManager(auth, profiles, logger.Nop())
	defer m.Close()
	require.NoError(t, m.Start(context.Background()))

	auth.emit(sessionFor("u1", "one@x.y"))
	require.Eventually(t, func() bool {
		return profiles.fetches("u1") == 1
	}, time.Second, 5*time.Millisecond)

	auth.emit(nil) // sign-out while fetch in flight
	close(block)

	// Give the discarded fetch a moment to land.
	time.Sleep(50 * time.Millisecond)

	snap := m.Snapshot()
	assert.Nil(t, snap.User)
	assert.Nil(t, snap.Profile)
	assert.False(t, snap.ProfileLoaded)
	assert.False(t, snap.ProfileLoading)
}

func TestFetchFailure_LeavesProfileUnknown(t *testing.T) {
	auth := &fakeAuth{current: sessionFor("u1", "a@b.c")}
	profiles := newFakeProfiles()
	profiles.fetchErr = errors.New("boom")

	m := NewManager(auth, profiles, logger.Nop())
	defer m.Close()
	require.NoError(t, m.Start(context.Background()))

	require.Eventually(t, func() bool {
		snap := m.Snapshot()
		return !snap.ProfileLoading
	}, time.Second, 5*time.Millisecond)

	snap := m.Snapshot()
	assert.Equal(t, "u1", snap.User.ID)
	assert.Nil(t, snap.Profile)
	// "Not loaded" means unknown, never "onboarding incomplete".
	assert.False(t, snap.ProfileLoaded)
}

func TestSignUp_UpsertsProfileWithMetadata(t *testing.T) {
	auth := &fakeAuth{signUpSess: sessionFor("new", "new@x.y")}
	profiles := newFakeProfiles()

	m := NewManager(auth, profiles, logger.Nop())
	defer m.Close()

	first := "Liya"
	userType := models.UserTypeStudent
	err := m.SignUp(context.Background(), "new@x.y", "secret1", models.UpsertProfileRequest{
		FirstName: &first,
		UserType:  &userType,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, profiles.upsertCount)
	prof := profiles.rows["new"]
	require.NotNil(t, prof)
	assert.Equal(t, "Liya", prof.FirstName)
	assert.Equal(t, models.UserTypeStudent, prof.UserType)
}

func TestSignUp_AuthErrorReturnedWithoutUpsert(t *testing.T) {
	auth := &fakeAuth{signUpErr: errors.New("email taken")}
	profiles := newFakeProfiles()

	m := NewManager(auth, profiles, logger.Nop())
	defer m.Close()

	err := m.SignUp(context.Background(), "dup@x.y", "secret1", models.UpsertProfileRequest{})
	require.Error(t, err)
	assert.Zero(t, profiles.upsertCount)
}

func TestSignIn_BackfillsMissingProfileOnly(t *testing.T) {
	auth := &fakeAuth{signInSess: sessionFor("old", "old@x.y")}
	profiles := newFakeProfiles()

	m := NewManager(auth, profiles, logger.Nop())
	defer m.Close()

	// First sign-in: no row, so one is inserted.
	require.NoError(t, m.SignIn(context.Background(), "old@x.y", "secret1"))
	assert.Equal(t, 1, profiles.upsertCount)

	// Second sign-in: row exists, so nothing is overwritten.
	require.NoError(t, m.SignIn(context.Background(), "old@x.y", "secret1"))
	assert.Equal(t, 1, profiles.upsertCount)
}

func TestUpdateProfile_RequiresUser(t *testing.T) {
	m := NewManager(&fakeAuth{}, newFakeProfiles(), logger.Nop())
	defer m.Close()

	err := m.UpdateProfile(context.Background(), models.UpsertProfileRequest{})
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestUpdateProfile_ReplacesWithServerRow(t *testing.T) {
	auth := &fakeAuth{current: sessionFor("u1", "a@b.c")}
	profiles := newFakeProfiles()
	profiles.rows["u1"] = &models.Profile{ID: "u1"}

	m := NewManager(auth, profiles, logger.Nop())
	defer m.Close()
	require.NoError(t, m.Start(context.Background()))
	require.Eventually(t, func() bool {
		return m.Snapshot().ProfileLoaded
	}, time.Second, 5*time.Millisecond)

	major := "engineering"
	done := true
	req := models.UpsertProfileRequest{DreamMajor: &major, HasCompletedProfile: &done}
	require.NoError(t, m.UpdateProfile(context.Background(), req))

	snap := m.Snapshot()
	assert.Equal(t, "engineering", snap.Profile.DreamMajor)
	assert.True(t, snap.Profile.HasCompletedProfile)

	// Idempotence: the same payload twice yields the same stored profile.
	require.NoError(t, m.UpdateProfile(context.Background(), req))
	again := m.Snapshot()
	assert.Equal(t, snap.Profile.DreamMajor, again.Profile.DreamMajor)
	assert.Equal(t, snap.Profile.HasCompletedProfile, again.Profile.HasCompletedProfile)
}

func TestSignOut_ClearsStateEvenWhenRemoteFails(t *testing.T) {
	auth := &fakeAuth{
		current:    sessionFor("u1", "a@b.c"),
		signOutErr: errors.New("network down"),
	}
	profiles := newFakeProfiles()
	profiles.rows["u1"] = &models.Profile{ID: "u1"}

	m := NewManager(auth, profiles, logger.Nop())
	defer m.Close()
	require.NoError(t, m.Start(context.Background()))
	require.Eventually(t, func() bool {
		return m.Snapshot().ProfileLoaded
	}, time.Second, 5*time.Millisecond)

	err := m.SignOut(context.Background())
	require.Error(t, err)

	snap := m.Snapshot()
	assert.Nil(t, snap.User)
	assert.Nil(t, snap.Session)
	assert.Nil(t, snap.Profile)
	assert.False(t, snap.ProfileLoaded)
	assert.False(t, snap.ProfileLoading)
}

func TestStart_Twice_NoDuplicateSubscription(t *testing.T) {
	auth := &fakeAuth{}
	m := NewManager(auth, newFakeProfiles(), logger.Nop())
	defer m.Close()

	require.NoError(t, m.Start(context.Background()))
	require.NoError(t, m.Start(context.Background()))

	subs := 0
	for _, c := range auth.calls {
		if c == "Subscribe" {
			subs++
		}
	}
	assert.Equal(t, 1, subs)
}
