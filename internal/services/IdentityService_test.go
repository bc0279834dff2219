package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	"tourvisto/internal/clients"
	"tourvisto/internal/models"
	"tourvisto/internal/storage"
	"tourvisto/internal/structures"
	"tourvisto/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type identityFixture struct {
	service IdentityServiceInterface
	store   *storage.MemoryStore
	idp     *testutil.MockIdentityProvider
	avatars *testutil.MockAvatars
	cache   *testutil.MockCache
}

func newIdentityFixture(conf *structures.Config) *identityFixture {
	f := &identityFixture{
		store: storage.NewMemoryStore(),
		idp: &testutil.MockIdentityProvider{
			Accounts: map[string]*clients.Account{
				"jwt-jane": {ID: "acc-jane", Email: "jane@example.com", Name: "Jane"},
			},
			AccessToken: "google-token",
		},
		avatars: &testutil.MockAvatars{URL: "https://photos.test/jane.jpg"},
		cache:   testutil.NewMockCache(),
	}
	logger := &testutil.MockLogger{}
	f.service = NewIdentityService(conf, f.store, f.idp, f.avatars, NewQueryCache(f.cache, logger), logger)
	return f
}

func TestResolveIdentity_CreatesUserWithDefaultRole(t *testing.T) {
	f := newIdentityFixture(&structures.Config{})
	f.cache.Set(DashboardStatsKey, []byte("{}"))

	user, err := f.service.ResolveIdentity(context.Background(), "jwt-jane")
	require.NoError(t, err)

	assert.Equal(t, "acc-jane", user.AccountID)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, models.RoleAdmin, user.Status)
	require.NotNil(t, user.ImageURL)
	assert.Equal(t, "https://photos.test/jane.jpg", *user.ImageURL)
	assert.False(t, user.JoinedAt.IsZero())

	_, cached := f.cache.Get(DashboardStatsKey)
	assert.False(t, cached)
}

func TestResolveIdentity_ConfiguredRole(t *testing.T) {
	f := newIdentityFixture(&structures.Config{Identity: structures.IdentityConfig{DefaultRole: models.RoleUser}})

	user, err := f.service.ResolveIdentity(context.Background(), "jwt-jane")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Status)
}

func TestResolveIdentity_Idempotent(t *testing.T) {
	f := newIdentityFixture(&structures.Config{})
	ctx := context.Background()

	first, err := f.service.ResolveIdentity(ctx, "jwt-jane")
	require.NoError(t, err)
	second, err := f.service.ResolveIdentity(ctx, "jwt-jane")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	list, _ := f.store.ListUsers(ctx, storage.NewQuery())
	assert.Equal(t, 1, list.Total)
}

func TestResolveIdentity_ConcurrentFirstLogin(t *testing.T) {
	f := newIdentityFixture(&structures.Config{})
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make([]string, 20)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user, err := f.service.ResolveIdentity(ctx, "jwt-jane")
			assert.NoError(t, err)
			if user != nil {
				ids[i] = user.ID
			}
		}(i)
	}
	wg.Wait()

	list, err := f.store.ListUsers(ctx, storage.NewQuery())
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	for _, id := range ids {
		assert.Equal(t, list.Users[0].ID, id)
	}
}

func TestResolveIdentity_AvatarFailureDegrades(t *testing.T) {
	f := newIdentityFixture(&structures.Config{})
	f.avatars.Err = errors.New("people api down")

	user, err := f.service.ResolveIdentity(context.Background(), "jwt-jane")
	require.NoError(t, err)
	assert.Nil(t, user.ImageURL)
}

func TestResolveIdentity_NoSession(t *testing.T) {
	f := newIdentityFixture(&structures.Config{})

	user, err := f.service.ResolveIdentity(context.Background(), "unknown")
	assert.ErrorIs(t, err, clients.ErrUnauthorized)
	assert.Nil(t, user)
}

func TestGetExistingUser(t *testing.T) {
	f := newIdentityFixture(&structures.Config{})
	ctx := context.Background()

	assert.Nil(t, f.service.GetExistingUser(ctx, "acc-jane"))

	_, err := f.service.ResolveIdentity(ctx, "jwt-jane")
	require.NoError(t, err)

	user := f.service.GetExistingUser(ctx, "acc-jane")
	require.NotNil(t, user)
	assert.Equal(t, "Jane", user.Name)
}

func TestGetExistingUser_StoreErrorIsNil(t *testing.T) {
	logger := &testutil.MockLogger{}
	svc := NewIdentityService(&structures.Config{}, &errStore{err: errors.New("down")}, &testutil.MockIdentityProvider{}, &testutil.MockAvatars{}, NewQueryCache(testutil.NewMockCache(), logger), logger)

	assert.Nil(t, svc.GetExistingUser(context.Background(), "acc"))
	assert.Equal(t, 1, logger.Count("error"))
}

func TestGetAllUsers(t *testing.T) {
	f := newIdentityFixture(&structures.Config{})
	ctx := context.Background()
	for _, acc := range []string{"a", "b", "c"} {
		_, _, err := f.store.InsertUserIfAbsent(ctx, &models.UserDocument{
			ID: "u-" + acc, AccountID: acc, JoinedAt: models.NewTimestamp(time.Now()), Status: models.RoleUser,
		})
		require.NoError(t, err)
	}

	page := f.service.GetAllUsers(ctx, 2, 0)
	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Users, 2)
}

func TestGetAllUsers_ErrorYieldsEmptyPage(t *testing.T) {
	logger := &testutil.MockLogger{}
	svc := NewIdentityService(&structures.Config{}, &errStore{err: errors.New("down")}, &testutil.MockIdentityProvider{}, &testutil.MockAvatars{}, NewQueryCache(testutil.NewMockCache(), logger), logger)

	page := svc.GetAllUsers(context.Background(), 10, 0)
	assert.Equal(t, 0, page.Total)
	assert.NotNil(t, page.Users)
	assert.Empty(t, page.Users)
}

func TestLoginURL(t *testing.T) {
	f := newIdentityFixture(&structures.Config{})
	_, err := f.service.LoginURL()
	assert.ErrorIs(t, err, ErrLoginNotConfigured)

	f = newIdentityFixture(&structures.Config{Identity: structures.IdentityConfig{
		SuccessURL: "https://app.test/",
		FailureURL: "https://app.test/sign-in",
	}})
	url, err := f.service.LoginURL()
	require.NoError(t, err)
	assert.Contains(t, url, "success=https://app.test/")
	assert.Contains(t, url, "failure=https://app.test/sign-in")
}

func TestLogout_ErrorsAreOnlyLogged(t *testing.T) {
	f := newIdentityFixture(&structures.Config{})
	f.idp.DeleteErr = errors.New("session gone")

	f.service.Logout(context.Background(), "jwt-jane")
	assert.Equal(t, []string{"jwt-jane"}, f.idp.DeletedTokens)
}
