package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchBytesWithTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.UserAgent())
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte("hy-phen"))
		case "/big":
			_, _ = w.Write([]byte(strings.Repeat("x", 64)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	data, err := FetchBytesWithTimeout(context.Background(), srv.URL+"/ok", time.Second, 0)
	require.NoError(t, err)
	assert.Equal(t, "hy-phen", string(data))

	_, err = FetchBytesWithTimeout(context.Background(), srv.URL+"/big", time.Second, 16)
	assert.True(t, errors.Is(err, ErrTooLarge), "err = %v", err)

	_, err = FetchBytesWithTimeout(context.Background(), srv.URL+"/absent", time.Second, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStatus))
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)

	_, err = FetchBytesWithTimeout(context.Background(), "::pas une url", time.Second, 0)
	assert.Error(t, err)
}

func TestFetchJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("bad") != "" {
			_, _ = w.Write([]byte("{"))
			return
		}
		_, _ = w.Write([]byte(`{"trackName":"Song","duration":180}`))
	}))
	defer srv.Close()

	type track struct {
		TrackName string  `json:"trackName"`
		Duration  float64 `json:"duration"`
	}

	got, err := FetchJSON[track](context.Background(), srv.URL, time.Second, 0)
	require.NoError(t, err)
	assert.Equal(t, track{TrackName: "Song", Duration: 180}, got)

	_, err = FetchJSON[track](context.Background(), srv.URL+"?bad=1", time.Second, 0)
	assert.Error(t, err)

	_, err = FetchJSON[track](context.Background(), srv.URL, time.Second, 8)
	assert.True(t, errors.Is(err, ErrTooLarge), "err = %v", err)
}
