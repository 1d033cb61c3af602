package reconcile

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/mithrel/kennel/internal/dogs"
	"github.com/mithrel/kennel/pkg/api"
)

// DetailFetcher resolves the full record of a single dog.
type DetailFetcher interface {
	FetchDetail(ctx context.Context, id string) (api.DogDetail, error)
}

// Reconcile merges the remote listing with the local annotations. Listed
// dogs come first in server order; annotations with no listed counterpart
// follow as unavailable dogs, ordered by id. Records that cannot be built
// are left out and reported together in the returned error.
func Reconcile(remote []api.RemoteDog, local api.LocalDogs) ([]dogs.Dog, error) {
	out := make([]dogs.Dog, 0, len(remote)+len(local))
	listed := make(map[string]struct{}, len(remote))
	var errs error

	for _, r := range remote {
		id := strconv.Itoa(r.ID)
		if _, dup := listed[id]; dup {
			continue
		}
		listed[id] = struct{}{}

		var annotation *api.LocalDog
		if a, ok := local[id]; ok {
			annotation = &a
		}
		dog, err := dogs.FromRemote(r, annotation)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		out = append(out, dog)
	}

	for _, id := range orphanIDs(remote, local) {
		l := local[id]
		if l.ID == "" {
			l.ID = id
		}
		out = append(out, dogs.FromLocal(l))
	}
	return out, errs
}

// orphanIDs lists annotated ids absent from the listing, sorted.
func orphanIDs(remote []api.RemoteDog, local api.LocalDogs) []string {
	listed := make(map[string]struct{}, len(remote))
	for _, r := range remote {
		listed[strconv.Itoa(r.ID)] = struct{}{}
	}
	ids := make([]string, 0)
	for id := range local {
		if _, ok := listed[id]; !ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// FillUnavailablePhotos refreshes the stored photo of every dog that is no
// longer listed, using its detail record. Lookups run concurrently, at most
// concurrency at a time. A failed lookup keeps the stored photo and is
// reported in the returned error; the returned map is always usable. The
// input map is not modified.
func FillUnavailablePhotos(ctx context.Context, fetcher DetailFetcher, remote []api.RemoteDog, local api.LocalDogs, concurrency int) (api.LocalDogs, error) {
	out := maps.Clone(local)
	if out == nil {
		out = api.LocalDogs{}
	}
	orphans := orphanIDs(remote, local)
	if len(orphans) == 0 || fetcher == nil {
		return out, nil
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	var (
		mu   sync.Mutex
		errs error
		g    errgroup.Group
	)
	g.SetLimit(concurrency)
	for _, id := range orphans {
		g.Go(func() error {
			detail, err := fetcher.FetchDetail(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("photo for dog %s: %w", id, err))
				return nil
			}
			if url, ok := detail.MainPhotoURL(); ok {
				d := out[id]
				d.Photo = url
				out[id] = d
			}
			return nil
		})
	}
	_ = g.Wait()
	return out, errs
}
