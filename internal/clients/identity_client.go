package clients

import (
	"context"
	"errors"
	"fmt"
	json "github.com/goccy/go-json"
	"net/http"
	"net/url"
	"strings"
	"time"
	"tourvisto/internal/providers"
	"tourvisto/internal/structures"
)

var ErrUnauthorized = errors.New("no valid session")

type Account struct {
	ID    string `json:"$id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type Session struct {
	ID                  string `json:"$id"`
	Provider            string `json:"provider"`
	ProviderAccessToken string `json:"providerAccessToken"`
}

type IdentityProviderInterface interface {
	GetAccount(ctx context.Context, jwt string) (*Account, error)
	GetSession(ctx context.Context, jwt string) (*Session, error)
	DeleteSession(ctx context.Context, jwt string) error
	OAuthURL(successURL, failureURL string) string
}

// IdentityClient calls the account endpoints of the hosted backend, acting
// on behalf of the user whose JWT is passed in.
type IdentityClient struct {
	endpoint   string
	projectID  string
	httpClient *http.Client
	metrics    providers.MetricsProviderInterface
}

func (ic *IdentityClient) do(ctx context.Context, method, path, jwt string, out any) error {
	if jwt == "" {
		return ErrUnauthorized
	}

	start := time.Now()
	defer func() { ic.metrics.ObserveUpstreamDuration("identity", time.Since(start)) }()

	req, err := http.NewRequestWithContext(ctx, method, ic.endpoint+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Appwrite-Project", ic.projectID)
	req.Header.Set("X-Appwrite-JWT", jwt)
	req.Header.Set("Content-Type", "application/json")

	resp, err := ic.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if err = checkStatus("identity provider", resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (ic *IdentityClient) GetAccount(ctx context.Context, jwt string) (*Account, error) {
	var acc Account
	if err := ic.do(ctx, http.MethodGet, "/account", jwt, &acc); err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	if acc.ID == "" {
		return nil, fmt.Errorf("get account: %w", ErrUnauthorized)
	}
	return &acc, nil
}

func (ic *IdentityClient) GetSession(ctx context.Context, jwt string) (*Session, error) {
	var sess Session
	if err := ic.do(ctx, http.MethodGet, "/account/sessions/current", jwt, &sess); err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &sess, nil
}

func (ic *IdentityClient) DeleteSession(ctx context.Context, jwt string) error {
	if err := ic.do(ctx, http.MethodDelete, "/account/sessions/current", jwt, nil); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (ic *IdentityClient) OAuthURL(successURL, failureURL string) string {
	params := url.Values{}
	params.Set("project", ic.projectID)
	params.Set("success", successURL)
	params.Set("failure", failureURL)
	return ic.endpoint + "/account/sessions/oauth2/google?" + params.Encode()
}

func NewIdentityClient(conf *structures.Config, metrics providers.MetricsProviderInterface) IdentityProviderInterface {
	return &IdentityClient{
		endpoint:   strings.TrimRight(conf.Identity.Endpoint, "/"),
		projectID:  conf.Identity.ProjectID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		metrics:    metrics,
	}
}
