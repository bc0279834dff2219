package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"tourvisto/internal/structures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAvatarClient(peopleURL string) AvatarProviderInterface {
	return NewAvatarClient(&structures.Config{Identity: structures.IdentityConfig{PeopleURL: peopleURL}}, newClientTestMetrics())
}

func TestGooglePeopleClient_GetPicture(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer ya29.token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"photos":[{"url":"https://lh3.test/a.jpg"},{"url":"https://lh3.test/b.jpg"}]}`))
	}))
	defer srv.Close()

	pic, err := newTestAvatarClient(srv.URL).GetPicture(context.Background(), "ya29.token")
	require.NoError(t, err)
	assert.Equal(t, "https://lh3.test/a.jpg", pic)
}

func TestGooglePeopleClient_NoPhotos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"resourceName":"people/1"}`))
	}))
	defer srv.Close()

	_, err := newTestAvatarClient(srv.URL).GetPicture(context.Background(), "ya29.token")
	assert.Error(t, err)
}

func TestGooglePeopleClient_MissingToken(t *testing.T) {
	_, err := newTestAvatarClient("http://unused").GetPicture(context.Background(), "")
	assert.Error(t, err)
}

func TestGooglePeopleClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestAvatarClient(srv.URL).GetPicture(context.Background(), "stale")
	assert.Error(t, err)
}
