package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/user/streamhub/internal/config"
)

func newRatingServer(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newTestRatingService(url, key string) *RatingService {
	return NewRatingService(&config.Config{
		RatingAPIURL:     url,
		RatingAPIKey:     key,
		RatingAPITimeout: 2 * time.Second,
	})
}

func TestRatingLookupFoundAndCached(t *testing.T) {
	srv, hits := newRatingServer(t, http.StatusOK,
		`{"Title":"Inception","Year":"2010","imdbRating":"8.8","Response":"True"}`)
	svc := newTestRatingService(srv.URL, "test-key")

	rating, ok := svc.Lookup(context.Background(), "inception", 2010)
	assert.True(t, ok)
	assert.Equal(t, 8.8, rating)

	rating, ok = svc.Lookup(context.Background(), "Inception", 2010)
	assert.True(t, ok)
	assert.Equal(t, 8.8, rating)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestRatingLookupNotUsable(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not found", `{"Response":"False","Error":"Movie not found!"}`},
		{"title mismatch", `{"Title":"Something Else Entirely","imdbRating":"7.1","Response":"True"}`},
		{"no rating", `{"Title":"Inception","imdbRating":"N/A","Response":"True"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newRatingServer(t, http.StatusOK, tt.body)
			_, ok := newTestRatingService(srv.URL, "test-key").Lookup(context.Background(), "Inception", 2010)
			assert.False(t, ok)
		})
	}
}

func TestRatingLookupWithoutKey(t *testing.T) {
	srv, hits := newRatingServer(t, http.StatusOK, `{}`)
	_, ok := newTestRatingService(srv.URL, "").Lookup(context.Background(), "Inception", 2010)
	assert.False(t, ok)
	assert.Equal(t, int32(0), atomic.LoadInt32(hits))
}

func TestRatingBreakerOpensAfterFailures(t *testing.T) {
	srv, hits := newRatingServer(t, http.StatusInternalServerError, `oops`)
	svc := newTestRatingService(srv.URL, "test-key")

	for i := 0; i < 8; i++ {
		_, ok := svc.Lookup(context.Background(), "Inception", 2010)
		assert.False(t, ok)
	}
	assert.Equal(t, int32(5), atomic.LoadInt32(hits))
}

func TestTitlesMatch(t *testing.T) {
	assert.True(t, titlesMatch("The Matrix", "the matrix"))
	assert.True(t, titlesMatch("Se7en", "Seven"))
	assert.False(t, titlesMatch("Alien", "Aliens vs Predator"))
	assert.False(t, titlesMatch("", "x"))
}
