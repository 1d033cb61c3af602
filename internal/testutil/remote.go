package testutil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/mithrel/kennel/pkg/api"
)

// Remote is an in-process stand-in for the rescue API.
type Remote struct {
	mu      sync.Mutex
	listing []api.RemoteDog
	details map[string]api.DogDetail
	err     error
}

func NewRemote(listing ...api.RemoteDog) *Remote {
	return &Remote{listing: listing, details: map[string]api.DogDetail{}}
}

// SetListing replaces the dogs the listing returns.
func (r *Remote) SetListing(listing ...api.RemoteDog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listing = listing
}

func (r *Remote) SetDetail(id string, d api.DogDetail) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.details[id] = d
}

// Fail makes every listing call return err; nil heals it.
func (r *Remote) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *Remote) FetchListing(context.Context) ([]api.RemoteDog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return append([]api.RemoteDog(nil), r.listing...), nil
}

func (r *Remote) FetchDetail(_ context.Context, id string) (api.DogDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.details[id]
	if !ok {
		return api.DogDetail{}, errors.New("no detail for " + id)
	}
	return d, nil
}

// Serve exposes r over HTTP in the shape of the rescue API and closes the
// server when the test ends.
func (r *Remote) Serve(t testing.TB) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if req.URL.Path == "/dogs" {
			listing, err := r.FetchListing(req.Context())
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadGateway)
				return
			}
			_ = json.NewEncoder(w).Encode(api.ListingPage{Results: listing})
			return
		}
		id, ok := strings.CutPrefix(req.URL.Path, "/dogs/")
		if !ok {
			http.NotFound(w, req)
			return
		}
		d, err := r.FetchDetail(req.Context(), id)
		if err != nil {
			http.NotFound(w, req)
			return
		}
		_ = json.NewEncoder(w).Encode(d)
	}))
	t.Cleanup(srv.Close)
	return srv
}
