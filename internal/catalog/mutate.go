package catalog

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/mithrel/kennel/internal/dogs"
	"github.com/mithrel/kennel/internal/query"
	"github.com/mithrel/kennel/pkg/api"
)

// ToggleFavorite flips the favorite flag of a dog and returns the result.
func (s *Session) ToggleFavorite(ctx context.Context, id string) (dogs.Dog, error) {
	return s.updateDog(ctx, id, func(a *api.LocalDog, d dogs.Dog) { a.IsFavorite = !d.IsFavorite })
}

// MarkSeen clears the new flag of a dog.
func (s *Session) MarkSeen(ctx context.Context, id string) (dogs.Dog, error) {
	return s.updateDog(ctx, id, func(a *api.LocalDog, _ dogs.Dog) { a.IsNew = api.Bool(false) })
}

func (s *Session) updateDog(ctx context.Context, id string, apply func(*api.LocalDog, dogs.Dog)) (dogs.Dog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return dogs.Dog{}, ErrNotLoaded
	}
	i, ok := s.byID[id]
	if !ok {
		return dogs.Dog{}, fmt.Errorf("%w: %s", ErrDogNotFound, id)
	}
	annotation := s.all[i].Serialize()
	apply(&annotation, s.all[i])

	local := maps.Clone(s.local)
	local[id] = annotation
	err := s.saveDogs(ctx, local)

	i = s.byID[id]
	return s.all[i], err
}

// RemoveDog forgets everything stored about a dog. A listed dog stays in the
// catalog as new and not favorite; an unlisted one disappears.
func (s *Session) RemoveDog(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}
	if _, ok := s.local[id]; !ok {
		if _, listed := s.byID[id]; listed {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrDogNotFound, id)
	}
	local := maps.Clone(s.local)
	delete(local, id)
	return s.saveDogs(ctx, local)
}

// saveDogs installs local, rebuilds the catalog and persists. Callers hold s.mu.
func (s *Session) saveDogs(ctx context.Context, local api.LocalDogs) error {
	s.local = local
	s.gen++
	s.rebuild()
	return s.persistFailed(s.store.Write(ctx, api.KeyDogs, local))
}

// AddSortKey appends a key to the sort preference.
func (s *Session) AddSortKey(ctx context.Context, key query.SortKey, dir api.SortDirection) error {
	rule, err := query.NewSortRule(key, dir)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureSorting(ctx)
	if s.sorting.Index(key) >= 0 {
		return fmt.Errorf("%w: %s", ErrSortKeyExists, key)
	}
	next := append(slices.Clone(s.sorting), rule)
	return s.saveSorting(ctx, next)
}

// RemoveSortKey drops a key from the sort preference.
func (s *Session) RemoveSortKey(ctx context.Context, key query.SortKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureSorting(ctx)
	i := s.sorting.Index(key)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSortKeyNotFound, key)
	}
	next := slices.Delete(slices.Clone(s.sorting), i, i+1)
	return s.saveSorting(ctx, next)
}

// UpdateSortKey replaces oldKey in place, keeping its precedence.
func (s *Session) UpdateSortKey(ctx context.Context, oldKey, newKey query.SortKey, dir api.SortDirection) error {
	rule, err := query.NewSortRule(newKey, dir)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureSorting(ctx)
	i := s.sorting.Index(oldKey)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSortKeyNotFound, oldKey)
	}
	if j := s.sorting.Index(newKey); j >= 0 && j != i {
		return fmt.Errorf("%w: %s", ErrSortKeyExists, newKey)
	}
	next := slices.Clone(s.sorting)
	next[i] = rule
	return s.saveSorting(ctx, next)
}

// ResetSorting restores the default sort preference.
func (s *Session) ResetSorting(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveSorting(ctx, query.FromSortingValues(api.DefaultSorting))
}

func (s *Session) saveSorting(ctx context.Context, next query.SortSpec) error {
	s.sorting = next
	s.sortingLoaded = true
	s.requery()
	s.log.Debug("sorting changed", zap.Stringer("sorting", next))
	return s.persistFailed(s.store.Write(ctx, api.KeySorting, next.SortingValues()))
}

// SetFilter parses and applies a filter. No values removes the key.
func (s *Session) SetFilter(key query.FilterKey, values ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(values) == 0 {
		s.filters = s.filters.Without(key)
		s.requery()
		return nil
	}
	rule, err := query.ParseFilter(key, values...)
	if err != nil {
		return err
	}
	s.filters = s.filters.With(rule)
	s.requery()
	return nil
}

// ReplaceFilter drops every other filter and sets exactly this one.
func (s *Session) ReplaceFilter(key query.FilterKey, values ...string) error {
	rule, err := query.ParseFilter(key, values...)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = query.FilterSpec{}.With(rule)
	s.requery()
	return nil
}

// ApplyFilters swaps in a whole filter spec.
func (s *Session) ApplyFilters(spec query.FilterSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = maps.Clone(spec)
	if s.filters == nil {
		s.filters = query.FilterSpec{}
	}
	s.requery()
}

func (s *Session) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = query.FilterSpec{}
	s.requery()
}
