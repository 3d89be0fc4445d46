package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func sampleProduct(id int) Product {
	return Product{
		ID:     id,
		Title:  fmt.Sprintf("Product %d", id),
		Image:  "https://example.com/p.jpg",
		Price:  109.95,
		Rating: Rating{Rate: 4.5, Count: 120},
	}
}

func TestFetchAll(t *testing.T) {
	want := []Product{sampleProduct(1), sampleProduct(2)}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products", r.URL.Path)
		require.NoError(t, json.NewEncoder(w).Encode(want))
	}))
	defer srv.Close()

	got := NewClient(srv.URL).FetchAll(context.Background())
	require.Equal(t, want, got)
}

func TestFetchAllFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	got := NewClient(srv.URL).FetchAll(context.Background())
	require.Equal(t, FallbackProducts(), got)
}

func TestFetchAllUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	got := NewClient(srv.URL).FetchAll(context.Background())
	require.Equal(t, FallbackProducts(), got)
}

func TestFetchOne(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products/7", r.URL.Path)
		require.NoError(t, json.NewEncoder(w).Encode(sampleProduct(7)))
	}))
	defer srv.Close()

	got := NewClient(srv.URL).FetchOne(context.Background(), 7)
	require.NotNil(t, got)
	require.Equal(t, sampleProduct(7), *got)
}

func TestFetchOneIncompletePayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// image missing: payload must be treated as not-found
		fmt.Fprint(w, `{"id":7,"title":"Product 7","price":109.95}`)
	}))
	defer srv.Close()

	require.Nil(t, NewClient(srv.URL).FetchOne(context.Background(), 7))
}

func TestFetchOneNotFoundStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	require.Nil(t, NewClient(srv.URL).FetchOne(context.Background(), 7))
}

func TestFetchOneTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.httpClient.Timeout = 50 * time.Millisecond

	require.Nil(t, c.FetchOne(context.Background(), 7))
	require.Equal(t, FallbackProducts(), c.FetchAll(context.Background()))
}
