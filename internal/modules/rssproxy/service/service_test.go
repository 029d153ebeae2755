package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/reshetovitsme/transfer-pulse/internal/shared/errors"
	"github.com/reshetovitsme/transfer-pulse/internal/shared/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payload = `{
  "status": "ok",
  "items": [
    {"guid": "g1", "title": "One", "link": "https://a.example/1", "pubDate": "2024-01-01 12:00:00", "enclosure": {"link": "https://a.example/1.jpg"}},
    {"title": "Two", "link": "https://a.example/2", "enclosure": []}
  ]
}`

func newService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL+"/v1/api.json", upstream.New(upstream.Config{Name: "rss2json"}, server.Client()))
}

func TestItemsDecodesPayload(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/api.json", r.URL.Path)
		assert.Equal(t, "https://feeds.example/rss?x=1", r.URL.Query().Get("rss_url"))
		w.Write([]byte(payload))
	})

	p, err := svc.Items(context.Background(), "https://feeds.example/rss?x=1")
	require.NoError(t, err)
	require.Len(t, p.Items, 2)
	assert.Equal(t, "g1", p.Items[0].GUID)
	assert.Equal(t, "https://a.example/1.jpg", p.Items[0].EnclosureLink())
	assert.Equal(t, "", p.Items[1].EnclosureLink())
}

func TestFetchUpstreamFailure(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte("rss_url is invalid"))
	})

	_, err := svc.Fetch(context.Background(), "https://feeds.example/rss")
	require.Error(t, err)

	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusUnprocessableEntity, upErr.Status)
	assert.Equal(t, "rss_url is invalid", upErr.Detail)
}

func TestFetchMissingURL(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("upstream must not be called")
	})

	_, err := svc.Fetch(context.Background(), "")
	assert.ErrorIs(t, err, errors.ErrMissingURL)
}

func TestItemsRejectsMalformedBody(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>"))
	})

	_, err := svc.Items(context.Background(), "https://feeds.example/rss")
	assert.Error(t, err)
}
