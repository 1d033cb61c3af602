package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/kennel/internal/testutil"
	"github.com/mithrel/kennel/pkg/api"
)

func TestFetchListing(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dogs", r.URL.Path)
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(api.ListingPage{Results: []api.RemoteDog{
			testutil.RemoteDog(2, "Bo"),
			testutil.RemoteDog(1, "Al", testutil.WithWeight("")),
		}})
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL + "/", PageSize: 50})
	require.NoError(t, err)

	dogs, err := c.FetchListing(context.Background())
	require.NoError(t, err)
	require.Len(t, dogs, 2)
	assert.Equal(t, 2, dogs[0].ID)
	assert.Nil(t, dogs[1].Weight)

	assert.Equal(t, []string{"50"}, gotQuery["pageSize"])
	assert.Equal(t, []string{"1"}, gotQuery["pageNumber"])
	assert.Equal(t, []string{"true"}, gotQuery["includePhotos"])
	assert.Equal(t, []string{"name"}, gotQuery["orderBy"])
	assert.Equal(t, listingFilters, gotQuery["filters"])
}

func TestFetchDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dogs/42", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":42,"name":"Otis","mainPhotoId":2,"photos":[{"id":1,"url":"a.jpg"},{"id":2,"url":"b.jpg"}]}`))
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)

	d, err := c.FetchDetail(context.Background(), "42")
	require.NoError(t, err)
	photo, ok := d.MainPhotoURL()
	assert.True(t, ok)
	assert.Equal(t, "b.jpg", photo)
}

func TestNon2xxIsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such dog", http.StatusNotFound)
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.FetchDetail(context.Background(), "9")
	var herr *HTTPError
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, http.StatusNotFound, herr.StatusCode)
	assert.Equal(t, "no such dog", herr.Body)
}

func TestFetchListingHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.FetchListing(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New(Options{BaseURL: "not a url"})
	assert.Error(t, err)
}
