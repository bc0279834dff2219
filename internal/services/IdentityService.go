package services

import (
	"context"
	"errors"
	"github.com/google/uuid"
	"time"
	"tourvisto/internal/clients"
	"tourvisto/internal/models"
	"tourvisto/internal/providers"
	"tourvisto/internal/storage"
	"tourvisto/internal/structures"
)

var ErrLoginNotConfigured = errors.New("oauth redirect urls are not configured")

type IdentityServiceInterface interface {
	GetExistingUser(ctx context.Context, accountID string) *models.UserDocument
	ResolveIdentity(ctx context.Context, jwt string) (*models.UserDocument, error)
	GetAllUsers(ctx context.Context, limit, offset int) *models.UserList
	LoginURL() (string, error)
	Logout(ctx context.Context, jwt string)
}

type IdentityService struct {
	store       storage.DocumentStoreInterface
	idp         clients.IdentityProviderInterface
	avatars     clients.AvatarProviderInterface
	cache       *QueryCache
	logger      providers.Logger
	defaultRole string
	successURL  string
	failureURL  string
	now         func() time.Time
}

// GetExistingUser returns the user linked to accountID, or nil when there is
// none or the lookup fails.
func (is *IdentityService) GetExistingUser(ctx context.Context, accountID string) *models.UserDocument {
	list, err := is.store.ListUsers(ctx, storage.NewQuery().Equal("accountId", accountID).WithLimit(1))
	if err != nil {
		is.logger.Errorf(providers.TypeGet, "Error fetching user %s: %s", accountID, err)
		return nil
	}
	if list.Total == 0 || len(list.Users) == 0 {
		return nil
	}
	return list.Users[0]
}

func (is *IdentityService) picture(ctx context.Context, jwt string) *string {
	sess, err := is.idp.GetSession(ctx, jwt)
	if err != nil || sess.ProviderAccessToken == "" {
		return nil
	}
	url, err := is.avatars.GetPicture(ctx, sess.ProviderAccessToken)
	if err != nil {
		is.logger.Warnf(providers.TypeGet, "Error fetching profile picture: %s", err)
		return nil
	}
	return &url
}

// ResolveIdentity maps the session's account to a local user, creating it on
// first sight. The store rejects a second document for the same account, so
// concurrent first logins converge on one user.
func (is *IdentityService) ResolveIdentity(ctx context.Context, jwt string) (*models.UserDocument, error) {
	account, err := is.idp.GetAccount(ctx, jwt)
	if err != nil {
		is.logger.Errorf(providers.TypeGet, "Error resolving account: %s", err)
		return nil, err
	}

	if existing := is.GetExistingUser(ctx, account.ID); existing != nil {
		return existing, nil
	}

	user := &models.UserDocument{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		Email:     account.Email,
		Name:      account.Name,
		ImageURL:  is.picture(ctx, jwt),
		JoinedAt:  models.NewTimestamp(is.now()),
		Status:    is.defaultRole,
	}

	stored, created, err := is.store.InsertUserIfAbsent(ctx, user)
	if err != nil {
		is.logger.Errorf(providers.TypePost, "Error storing user data: %s", err)
		return nil, err
	}
	if created {
		is.cache.Invalidate(DashboardStatsKey)
		is.logger.Infof(providers.TypePost, "Created user %s for account %s", stored.ID, stored.AccountID)
	}
	return stored, nil
}

// GetAllUsers lists one page of users. Failures yield an empty page.
func (is *IdentityService) GetAllUsers(ctx context.Context, limit, offset int) *models.UserList {
	list, err := is.store.ListUsers(ctx, storage.NewQuery().WithLimit(limit).WithOffset(offset))
	if err != nil {
		is.logger.Errorf(providers.TypeGet, "Error fetching users: %s", err)
		return &models.UserList{Users: []*models.UserDocument{}, Total: 0}
	}
	return list
}

func (is *IdentityService) LoginURL() (string, error) {
	if is.successURL == "" || is.failureURL == "" {
		return "", ErrLoginNotConfigured
	}
	return is.idp.OAuthURL(is.successURL, is.failureURL), nil
}

func (is *IdentityService) Logout(ctx context.Context, jwt string) {
	if err := is.idp.DeleteSession(ctx, jwt); err != nil {
		is.logger.Errorf(providers.TypePost, "Error during logout: %s", err)
	}
}

func NewIdentityService(conf *structures.Config, store storage.DocumentStoreInterface, idp clients.IdentityProviderInterface, avatars clients.AvatarProviderInterface, cache *QueryCache, logger providers.Logger) IdentityServiceInterface {
	role := conf.Identity.DefaultRole
	if role == "" {
		role = models.RoleAdmin
	}
	return &IdentityService{
		store:       store,
		idp:         idp,
		avatars:     avatars,
		cache:       cache,
		logger:      logger,
		defaultRole: role,
		successURL:  conf.Identity.SuccessURL,
		failureURL:  conf.Identity.FailureURL,
		now:         time.Now,
	}
}
