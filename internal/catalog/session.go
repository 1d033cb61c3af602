// Package catalog owns the in-memory dog catalog: it loads and migrates the
// stored annotations, reconciles them with the remote listing and applies
// user mutations.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/mithrel/kennel/internal/db"
	"github.com/mithrel/kennel/internal/dogs"
	"github.com/mithrel/kennel/internal/migrate"
	"github.com/mithrel/kennel/internal/query"
	"github.com/mithrel/kennel/internal/reconcile"
	"github.com/mithrel/kennel/pkg/api"
)

var (
	ErrNotLoaded       = errors.New("catalog not loaded")
	ErrDogNotFound     = errors.New("dog not found")
	ErrSortKeyExists   = errors.New("sort key already in use")
	ErrSortKeyNotFound = errors.New("sort key not in use")
	// ErrPersist wraps store failures. The in-memory change still applies.
	ErrPersist = errors.New("persist state")
)

// Remote is the listing service as the catalog uses it.
type Remote interface {
	FetchListing(ctx context.Context) ([]api.RemoteDog, error)
	reconcile.DetailFetcher
}

// Options wires a Session.
type Options struct {
	Store  db.Store
	Remote Remote
	Log    *zap.Logger
	// Strict makes Load fail on listing records outside the known vocabulary
	// instead of dropping them.
	Strict              bool
	BackfillConcurrency int
}

// Session holds one user's catalog. It is safe for concurrent use.
type Session struct {
	store       db.Store
	remote      Remote
	log         *zap.Logger
	strict      bool
	concurrency int

	loadMu sync.Mutex

	mu sync.RWMutex
	// gen counts annotation mutations so Load can spot ones made while it ran.
	gen        uint64
	loaded     bool
	version    int
	remoteDogs []api.RemoteDog
	local      api.LocalDogs
	all        []dogs.Dog
	byID       map[string]int
	facets     query.Facets
	filters    query.FilterSpec
	view       []dogs.Dog
	// sorting is read from the store once, then owned by the session.
	sorting       query.SortSpec
	sortingLoaded bool
}

func New(opts Options) *Session {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	conc := opts.BackfillConcurrency
	if conc <= 0 {
		conc = 4
	}
	return &Session{
		store:       opts.Store,
		remote:      opts.Remote,
		log:         log.Named("catalog"),
		strict:      opts.Strict,
		concurrency: conc,
		filters:     query.FilterSpec{},
		sorting:     query.FromSortingValues(api.DefaultSorting),
		local:       api.LocalDogs{},
	}
}

// Load runs the full pipeline: stored preferences, remote listing, schema
// migration, photo backfill, snapshot refresh and reconciliation. Filters
// survive a reload. Network and store reads run without blocking readers;
// the session lock is only taken to install the result. A returned error
// wrapping ErrPersist means the catalog loaded but could not be saved.
func (s *Session) Load(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	s.mu.RLock()
	startGen := s.gen
	s.mu.RUnlock()

	remote, err := s.remote.FetchListing(ctx)
	if err != nil {
		return err
	}

	version, versionBad := 0, false
	if _, err := s.store.Read(ctx, api.KeyDataVersion, &version); err != nil {
		// Old steps must never run over current data.
		s.log.Warn("stored data version unreadable, assuming latest",
			zap.Int("version", migrate.LatestVersion), zap.Error(err))
		version, versionBad = migrate.LatestVersion, true
	}

	raw, err := s.store.ReadRaw(ctx, api.KeyDogs)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return fmt.Errorf("read annotations: %w", err)
	}

	local, newVersion := migrate.Migrate(version, remote, raw, s.log)
	if newVersion != version {
		s.log.Info("migrated annotations", zap.Int("from", version), zap.Int("to", newVersion), zap.Int("dogs", len(local)))
	}

	local, err = reconcile.FillUnavailablePhotos(ctx, s.remote, remote, local, s.concurrency)
	if err != nil {
		for _, e := range multierr.Errors(err) {
			s.log.Warn("photo backfill", zap.Error(e))
		}
	}

	refreshSnapshots(remote, local)

	all, rejected := reconcile.Reconcile(remote, local)
	if rejected != nil && s.strict {
		return fmt.Errorf("reconcile listing: %w", rejected)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded && s.gen != startGen {
		// Annotations changed while the listing was fetched. The in-memory
		// map is authoritative; keep only the backfilled photos.
		local = rebase(s.local, local)
		refreshSnapshots(remote, local)
		all, rejected = reconcile.Reconcile(remote, local)
	}
	for _, e := range multierr.Errors(rejected) {
		s.log.Warn("dropped listing record", zap.Error(e))
	}

	// The version is written only once the annotations it describes are.
	var persistErr error
	if err := s.store.Write(ctx, api.KeyDogs, local); err != nil {
		persistErr = err
	} else if newVersion != version || versionBad {
		persistErr = s.store.Write(ctx, api.KeyDataVersion, newVersion)
	}

	s.remoteDogs = remote
	s.local = local
	s.version = newVersion
	s.ensureSorting(ctx)
	s.loaded = true
	s.setDogs(all)
	s.log.Debug("catalog loaded",
		zap.Int("listed", len(remote)),
		zap.Int("annotated", len(local)),
		zap.Int("dogs", len(all)),
	)

	return s.persistFailed(persistErr)
}

// rebase copies backfilled photos from loaded onto a clone of current.
func rebase(current, loaded api.LocalDogs) api.LocalDogs {
	out := maps.Clone(current)
	for id, a := range out {
		if l, ok := loaded[id]; ok && l.Photo != "" {
			a.Photo = l.Photo
			out[id] = a
		}
	}
	return out
}

// LoadSorting reads the stored sort preference without fetching the
// listing. It is a no-op once the preference is loaded.
func (s *Session) LoadSorting(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureSorting(ctx)
	s.requery()
}

// ensureSorting loads the stored preference on first use. Callers hold s.mu.
func (s *Session) ensureSorting(ctx context.Context) {
	if s.sortingLoaded {
		return
	}
	var stored []api.SortingValue
	if found, err := s.store.Read(ctx, api.KeySorting, &stored); err != nil {
		s.log.Warn("stored sorting unreadable, using default", zap.Error(err))
		stored = api.DefaultSorting
	} else if !found {
		stored = api.DefaultSorting
	}
	s.sorting = query.FromSortingValues(stored)
	s.sortingLoaded = true
}

// refreshSnapshots re-serializes annotated dogs that are still listed so a
// later disappearance shows their latest known details.
func refreshSnapshots(remote []api.RemoteDog, local api.LocalDogs) {
	for _, r := range remote {
		id := strconv.Itoa(r.ID)
		a, ok := local[id]
		if !ok {
			continue
		}
		d, err := dogs.FromRemote(r, &a)
		if err != nil {
			continue
		}
		snap := d.Serialize()
		snap.IsNew = a.IsNew
		local[id] = snap
	}
}

func (s *Session) persistFailed(err error) error {
	if err == nil {
		return nil
	}
	s.log.Error("persist state", zap.Error(err))
	return fmt.Errorf("%w: %w", ErrPersist, err)
}

// setDogs replaces the reconciled collection and recomputes facets and view.
// Callers hold s.mu.
func (s *Session) setDogs(all []dogs.Dog) {
	s.all = all
	s.byID = make(map[string]int, len(all))
	for i, d := range all {
		s.byID[d.ID] = i
	}
	s.facets = query.DeriveFilters(all)
	s.requery()
}

func (s *Session) requery() {
	s.view = query.Query(s.all, s.filters, s.sorting)
}

// rebuild reconciles the current listing with s.local. Callers hold s.mu.
func (s *Session) rebuild() {
	all, err := reconcile.Reconcile(s.remoteDogs, s.local)
	for _, e := range multierr.Errors(err) {
		s.log.Debug("dropped listing record", zap.Error(e))
	}
	s.setDogs(all)
}

func (s *Session) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// DataVersion is the schema version of the stored annotations.
func (s *Session) DataVersion() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// View returns the filtered and sorted dogs.
func (s *Session) View() []dogs.Dog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.view)
}

// Dogs returns the whole reconciled collection in reconcile order.
func (s *Session) Dogs() []dogs.Dog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.all)
}

func (s *Session) Dog(id string) (dogs.Dog, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return dogs.Dog{}, false
	}
	return s.all[i], true
}

// Query runs an ad hoc filter and sort over the collection without touching
// the session's own filters. A nil sorting uses the saved preference.
func (s *Session) Query(filters query.FilterSpec, sorting query.SortSpec) []dogs.Dog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sorting == nil {
		sorting = s.sorting
	}
	return query.Query(s.all, filters, sorting)
}

func (s *Session) Facets() query.Facets {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.facets
}

func (s *Session) Sorting() query.SortSpec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.sorting)
}

func (s *Session) Filters() query.FilterSpec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.filters)
}
