package clients

import (
	"context"
	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"net/http"
	"net/url"
	"strconv"
	"time"
	"tourvisto/internal/providers"
	"tourvisto/internal/structures"
)

type ImageSearchInterface interface {
	// SearchPhotos returns the regular-size URLs of the first count results.
	// A result without a regular URL yields a nil entry.
	SearchPhotos(ctx context.Context, query string, count int) ([]*string, error)
}

type unsplashSearchResponse struct {
	Results []struct {
		URLs *struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

type UnsplashClient struct {
	endpoint   string
	accessKey  string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker[[]*string]
	metrics    providers.MetricsProviderInterface
}

func (uc *UnsplashClient) SearchPhotos(ctx context.Context, query string, count int) ([]*string, error) {
	return execute(uc.cb, func() ([]*string, error) {
		start := time.Now()
		defer func() { uc.metrics.ObserveUpstreamDuration("images", time.Since(start)) }()

		params := url.Values{}
		params.Set("query", query)
		params.Set("per_page", strconv.Itoa(max(count, 1)))
		params.Set("client_id", uc.accessKey)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, uc.endpoint+"?"+params.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept-Version", "v1")

		resp, err := uc.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if err = checkStatus("image search", resp); err != nil {
			return nil, err
		}

		var payload unsplashSearchResponse
		if err = json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, err
		}

		urls := make([]*string, 0, count)
		for i, r := range payload.Results {
			if i >= count {
				break
			}
			if r.URLs == nil || r.URLs.Regular == "" {
				urls = append(urls, nil)
				continue
			}
			regular := r.URLs.Regular
			urls = append(urls, &regular)
		}
		return urls, nil
	})
}

func NewImageSearchClient(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) ImageSearchInterface {
	if conf.Images.AccessKey == "" {
		logger.Warnf(providers.TypeApp, "images.accessKey not set, generated trips will have no images")
	}
	return &UnsplashClient{
		endpoint:   conf.Images.Endpoint,
		accessKey:  conf.Images.AccessKey,
		httpClient: &http.Client{Timeout: conf.Images.Timeout},
		cb:         newBreaker[[]*string]("images", logger, metrics),
		metrics:    metrics,
	}
}
