package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/reshetovitsme/transfer-pulse/internal/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetReturnsNonSuccessWithoutError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "no-cache", r.Header.Get("Cache-Control"))
		assert.Equal(t, "Bearer t", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("gone"))
	}))
	defer server.Close()

	c := New(Config{Name: "test"}, server.Client())
	resp, err := c.Get(context.Background(), server.URL, http.Header{"Authorization": []string{"Bearer t"}})
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "gone", string(resp.Body))
}

func TestGetRetriesServerErrors(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`ok`))
	}))
	defer server.Close()

	c := New(Config{Name: "test", Retries: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}, server.Client())
	resp, err := c.Get(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestGetSingleAttemptByDefault(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	var observed []int
	c := New(Config{Name: "test", Observer: func(_ string, status int, _ error, _ time.Duration) {
		observed = append(observed, status)
	}}, server.Client())

	resp, err := c.Get(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
	assert.Equal(t, []int{http.StatusServiceUnavailable}, observed)
}

func TestGetTransportError(t *testing.T) {
	c := New(Config{Name: "test"}, nil)
	_, err := c.Get(context.Background(), "http://127.0.0.1:1/unreachable", nil)
	assert.Error(t, err)
}

func TestGetHonoursContextDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := New(Config{Name: "test"}, server.Client())
	_, err := c.Get(ctx, server.URL, nil)
	assert.Error(t, err)
}

func TestGetRejectsOversizedBody(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.Write([]byte(strings.Repeat("x", 17)))
	}))
	defer server.Close()

	c := New(Config{Name: "test", Retries: 2, BaseDelay: time.Millisecond, MaxBodyBytes: 16}, server.Client())
	_, err := c.Get(context.Background(), server.URL, nil)
	assert.ErrorIs(t, err, errors.ErrResponseTooLarge)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts), "oversized replies are not retried")
}

func TestGetAcceptsBodyAtLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 16)))
	}))
	defer server.Close()

	c := New(Config{Name: "test", MaxBodyBytes: 16}, server.Client())
	resp, err := c.Get(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Len(t, resp.Body, 16)
}
