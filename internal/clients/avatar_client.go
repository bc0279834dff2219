package clients

import (
	"context"
	"errors"
	json "github.com/goccy/go-json"
	"golang.org/x/oauth2"
	"net/http"
	"time"
	"tourvisto/internal/providers"
	"tourvisto/internal/structures"
)

type AvatarProviderInterface interface {
	// GetPicture returns the first profile photo URL of the token's owner.
	GetPicture(ctx context.Context, accessToken string) (string, error)
}

type GooglePeopleClient struct {
	peopleURL string
	metrics   providers.MetricsProviderInterface
}

func (gc *GooglePeopleClient) GetPicture(ctx context.Context, accessToken string) (string, error) {
	if accessToken == "" {
		return "", errors.New("no provider access token")
	}

	start := time.Now()
	defer func() { gc.metrics.ObserveUpstreamDuration("avatar", time.Since(start)) }()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, gc.peopleURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err = checkStatus("people api", resp); err != nil {
		return "", err
	}

	var payload struct {
		Photos []struct {
			URL string `json:"url"`
		} `json:"photos"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if len(payload.Photos) == 0 || payload.Photos[0].URL == "" {
		return "", errors.New("profile has no photos")
	}
	return payload.Photos[0].URL, nil
}

func NewAvatarClient(conf *structures.Config, metrics providers.MetricsProviderInterface) AvatarProviderInterface {
	return &GooglePeopleClient{
		peopleURL: conf.Identity.PeopleURL,
		metrics:   metrics,
	}
}
