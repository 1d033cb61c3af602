// Package query filters, sorts and summarizes the reconciled dog collection.
package query

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/mithrel/kennel/internal/dogs"
	"github.com/mithrel/kennel/pkg/api"
)

var (
	ErrUnknownFilterKey = errors.New("unknown filter key")
	ErrInvalidFilter    = errors.New("invalid filter value")
)

// FilterKey names a filterable field.
type FilterKey string

const (
	FilterAge         FilterKey = "age"
	FilterBreed       FilterKey = "breed"
	FilterWeight      FilterKey = "weight"
	FilterGender      FilterKey = "gender"
	FilterIsAvailable FilterKey = "isAvailable"
	FilterIsFavorite  FilterKey = "isFavorite"
	FilterIsNew       FilterKey = "isNew"
	FilterName        FilterKey = "name"
)

// FilterKeys lists every supported key in display order.
var FilterKeys = []FilterKey{
	FilterName, FilterAge, FilterBreed, FilterGender, FilterWeight,
	FilterIsAvailable, FilterIsFavorite, FilterIsNew,
}

type ruleKind int

const (
	kindSet ruleKind = iota
	kindGender
	kindFlag
	kindText
)

func kindOf(key FilterKey) (ruleKind, bool) {
	switch key {
	case FilterAge, FilterBreed, FilterWeight:
		return kindSet, true
	case FilterGender:
		return kindGender, true
	case FilterIsAvailable, FilterIsFavorite, FilterIsNew:
		return kindFlag, true
	case FilterName:
		return kindText, true
	}
	return 0, false
}

// FilterRule is one predicate over a single field. The payload shape is
// fixed by the key and checked by the constructors.
type FilterRule struct {
	key    FilterKey
	set    []string
	gender api.Gender
	flag   bool
	text   string
}

// OneOf matches dogs whose age, breed or weight is any of values.
func OneOf(key FilterKey, values ...string) (FilterRule, error) {
	if k, ok := kindOf(key); !ok || k != kindSet {
		return FilterRule{}, fmt.Errorf("%w: %q does not take a value set", ErrInvalidFilter, key)
	}
	if len(values) == 0 {
		return FilterRule{}, fmt.Errorf("%w: %s needs at least one value", ErrInvalidFilter, key)
	}
	set := slices.Clone(values)
	slices.Sort(set)
	return FilterRule{key: key, set: slices.Compact(set)}, nil
}

// GenderIs matches dogs of exactly one gender.
func GenderIs(g api.Gender) (FilterRule, error) {
	if g != api.GenderFemale && g != api.GenderMale {
		return FilterRule{}, fmt.Errorf("%w: gender %q", ErrInvalidFilter, g)
	}
	return FilterRule{key: FilterGender, gender: g}, nil
}

// FlagIs matches dogs whose boolean field equals v.
func FlagIs(key FilterKey, v bool) (FilterRule, error) {
	if k, ok := kindOf(key); !ok || k != kindFlag {
		return FilterRule{}, fmt.Errorf("%w: %q is not a flag", ErrInvalidFilter, key)
	}
	return FilterRule{key: key, flag: v}, nil
}

// NameContains matches names containing s, ignoring case.
func NameContains(s string) (FilterRule, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return FilterRule{}, fmt.Errorf("%w: empty name", ErrInvalidFilter)
	}
	return FilterRule{key: FilterName, text: s}, nil
}

func (r FilterRule) Key() FilterKey { return r.key }

// Values renders the payload back into strings, the inverse of ParseFilter.
func (r FilterRule) Values() []string {
	k, _ := kindOf(r.key)
	switch k {
	case kindSet:
		return slices.Clone(r.set)
	case kindGender:
		return []string{string(r.gender)}
	case kindFlag:
		if r.flag {
			return []string{"true"}
		}
		return []string{"false"}
	default:
		return []string{r.text}
	}
}

func (r FilterRule) String() string {
	return string(r.key) + "=" + strings.Join(r.Values(), ",")
}

// Match reports whether d satisfies the rule.
func (r FilterRule) Match(d dogs.Dog) bool {
	switch r.key {
	case FilterAge:
		return slices.Contains(r.set, string(d.Age))
	case FilterBreed:
		return slices.Contains(r.set, d.Breed())
	case FilterWeight:
		return slices.Contains(r.set, d.Weight)
	case FilterGender:
		return d.Gender == r.gender
	case FilterIsAvailable:
		return d.IsAvailable == r.flag
	case FilterIsFavorite:
		return d.IsFavorite == r.flag
	case FilterIsNew:
		return d.IsNew == r.flag
	case FilterName:
		return strings.Contains(strings.ToLower(d.Name), strings.ToLower(r.text))
	}
	return false
}

// FilterSpec holds at most one rule per key. Treat it as immutable: With
// and Without return modified copies.
type FilterSpec map[FilterKey]FilterRule

// With returns a copy of s with r set, replacing any rule on the same key.
func (s FilterSpec) With(r FilterRule) FilterSpec {
	out := maps.Clone(s)
	if out == nil {
		out = FilterSpec{}
	}
	out[r.key] = r
	return out
}

// Without returns a copy of s lacking key.
func (s FilterSpec) Without(key FilterKey) FilterSpec {
	out := maps.Clone(s)
	if out == nil {
		return FilterSpec{}
	}
	delete(out, key)
	return out
}

// Rules lists the rules in FilterKeys order.
func (s FilterSpec) Rules() []FilterRule {
	out := make([]FilterRule, 0, len(s))
	for _, k := range FilterKeys {
		if r, ok := s[k]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Match reports whether d satisfies every rule in s.
func (s FilterSpec) Match(d dogs.Dog) bool {
	for _, r := range s {
		if !r.Match(d) {
			return false
		}
	}
	return true
}

// Filter keeps the dogs matching every rule, preserving order. An empty spec
// returns in itself.
func Filter(in []dogs.Dog, spec FilterSpec) []dogs.Dog {
	if len(spec) == 0 {
		return in
	}
	out := make([]dogs.Dog, 0, len(in))
	for _, d := range in {
		if spec.Match(d) {
			out = append(out, d)
		}
	}
	return out
}
