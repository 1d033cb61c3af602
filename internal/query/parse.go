package query

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/mithrel/kennel/pkg/api"
)

// ParseFilter builds a rule from user-supplied strings. Comma-separated
// values are split. Flag values go through cast, so "true", "1" and "T" all
// read as true.
func ParseFilter(key FilterKey, values ...string) (FilterRule, error) {
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				cleaned = append(cleaned, part)
			}
		}
	}

	k, ok := kindOf(key)
	if !ok {
		return FilterRule{}, fmt.Errorf("%w: %q", ErrUnknownFilterKey, key)
	}
	switch k {
	case kindSet:
		return OneOf(key, cleaned...)
	case kindGender:
		if len(cleaned) != 1 {
			return FilterRule{}, fmt.Errorf("%w: gender takes one value", ErrInvalidFilter)
		}
		return GenderIs(normalizeGender(cleaned[0]))
	case kindFlag:
		if len(cleaned) != 1 {
			return FilterRule{}, fmt.Errorf("%w: %s takes one value", ErrInvalidFilter, key)
		}
		b, err := cast.ToBoolE(strings.ToLower(cleaned[0]))
		if err != nil {
			return FilterRule{}, fmt.Errorf("%w: %s=%q", ErrInvalidFilter, key, cleaned[0])
		}
		return FlagIs(key, b)
	default:
		return NameContains(strings.Join(values, " "))
	}
}

func normalizeGender(s string) api.Gender {
	switch strings.ToLower(s) {
	case "female", "f":
		return api.GenderFemale
	case "male", "m":
		return api.GenderMale
	}
	return api.Gender(s)
}

// ParseSortSpec reads "key[:dir],key[:dir]". A missing direction means asc.
func ParseSortSpec(s string) (SortSpec, error) {
	var out SortSpec
	seen := map[SortKey]bool{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, dir, _ := strings.Cut(part, ":")
		rule, err := ParseSortRule(key, dir)
		if err != nil {
			return nil, err
		}
		if seen[rule.Key] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSortKey, rule.Key)
		}
		seen[rule.Key] = true
		out = append(out, rule)
	}
	return out, nil
}

// ParseSortRule validates a key and an optional direction string.
func ParseSortRule(key, dir string) (SortRule, error) {
	d := api.SortDirection(strings.ToLower(strings.TrimSpace(dir)))
	if d == "" {
		d = api.SortAsc
	}
	return NewSortRule(SortKey(strings.TrimSpace(key)), d)
}
