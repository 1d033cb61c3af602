package query

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mithrel/kennel/internal/dogs"
	"github.com/mithrel/kennel/pkg/api"
)

var (
	ErrUnknownSortKey   = errors.New("unknown sort key")
	ErrInvalidDirection = errors.New("invalid sort direction")
	ErrDuplicateSortKey = errors.New("duplicate sort key")
)

// SortKey names a sortable field.
type SortKey string

const (
	SortAge         SortKey = "age"
	SortBreed       SortKey = "breed"
	SortGender      SortKey = "gender"
	SortIntakeDate  SortKey = "intakeDate"
	SortIsAvailable SortKey = "isAvailable"
	SortIsFavorite  SortKey = "isFavorite"
	SortIsNew       SortKey = "isNew"
	SortName        SortKey = "name"
	SortWeight      SortKey = "weight"
)

// SortKeys lists the keys a user may choose. isAvailable is reserved.
var SortKeys = []SortKey{
	SortAge, SortBreed, SortGender, SortIntakeDate,
	SortIsFavorite, SortIsNew, SortName, SortWeight,
}

// ValidSortKey reports whether k may appear in a user sort spec.
func ValidSortKey(k SortKey) bool { return slices.Contains(SortKeys, k) }

// SortRule is one key of a multi-key ordering.
type SortRule struct {
	Key       SortKey
	Direction api.SortDirection
}

// NewSortRule validates key and direction.
func NewSortRule(key SortKey, dir api.SortDirection) (SortRule, error) {
	if !ValidSortKey(key) {
		return SortRule{}, fmt.Errorf("%w: %q", ErrUnknownSortKey, key)
	}
	if dir != api.SortAsc && dir != api.SortDesc {
		return SortRule{}, fmt.Errorf("%w: %q", ErrInvalidDirection, dir)
	}
	return SortRule{Key: key, Direction: dir}, nil
}

func (r SortRule) String() string { return string(r.Key) + ":" + string(r.Direction) }

// compare orders a and b by the rule's key in ascending form, then applies
// the direction.
func (r SortRule) compare(a, b dogs.Dog) int {
	var c int
	switch r.Key {
	case SortAge:
		c = cmp.Compare(api.AgeRank(a.Age), api.AgeRank(b.Age))
	case SortWeight:
		c = cmp.Compare(api.WeightRank(a.Weight), api.WeightRank(b.Weight))
	case SortBreed:
		c = cmp.Compare(a.Breed(), b.Breed())
	case SortGender:
		c = cmp.Compare(a.Gender, b.Gender)
	case SortName:
		c = cmp.Compare(a.Name, b.Name)
	case SortIntakeDate:
		c = a.IntakeDate.Compare(b.IntakeDate)
	case SortIsAvailable:
		c = compareFlag(a.IsAvailable, b.IsAvailable)
	case SortIsFavorite:
		c = compareFlag(a.IsFavorite, b.IsFavorite)
	case SortIsNew:
		c = compareFlag(a.IsNew, b.IsNew)
	}
	if r.Direction == api.SortDesc {
		return -c
	}
	return c
}

// compareFlag orders on the negated value, so true comes first ascending.
func compareFlag(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	default:
		return 1
	}
}

// SortSpec is an ordered list of rules; earlier rules take precedence.
type SortSpec []SortRule

var availableFirst = SortRule{Key: SortIsAvailable, Direction: api.SortAsc}

// Sort returns a stably sorted copy of in. Available dogs always precede
// unavailable ones; spec only orders within each group.
func Sort(in []dogs.Dog, spec SortSpec) []dogs.Dog {
	rules := append(SortSpec{availableFirst}, spec...)
	out := slices.Clone(in)
	slices.SortStableFunc(out, func(a, b dogs.Dog) int {
		for _, r := range rules {
			if c := r.compare(a, b); c != 0 {
				return c
			}
		}
		return 0
	})
	return out
}

// Query filters then sorts. The caller's slice is never reordered.
func Query(in []dogs.Dog, filters FilterSpec, sorting SortSpec) []dogs.Dog {
	return Sort(Filter(in, filters), sorting)
}

// FromSortingValues converts the persisted preference, skipping entries that
// are no longer valid.
func FromSortingValues(values []api.SortingValue) SortSpec {
	out := make(SortSpec, 0, len(values))
	for _, v := range values {
		r, err := NewSortRule(SortKey(v.Key), v.Direction)
		if err != nil {
			continue
		}
		out = append(out, r)
	}
	return out
}

// SortingValues converts s into its persisted form.
func (s SortSpec) SortingValues() []api.SortingValue {
	out := make([]api.SortingValue, 0, len(s))
	for _, r := range s {
		out = append(out, api.SortingValue{Key: string(r.Key), Direction: r.Direction})
	}
	return out
}

func (s SortSpec) String() string {
	parts := make([]string, len(s))
	for i, r := range s {
		parts[i] = r.String()
	}
	return strings.Join(parts, ",")
}

// Index returns the position of key in s, or -1.
func (s SortSpec) Index(key SortKey) int {
	return slices.IndexFunc(s, func(r SortRule) bool { return r.Key == key })
}

// Unused lists the user keys not yet in s.
func (s SortSpec) Unused() []SortKey {
	out := make([]SortKey, 0, len(SortKeys))
	for _, k := range SortKeys {
		if s.Index(k) < 0 {
			out = append(out, k)
		}
	}
	return out
}
