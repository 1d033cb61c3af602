package query

import (
	"cmp"
	"slices"

	"github.com/mithrel/kennel/internal/dogs"
	"github.com/mithrel/kennel/pkg/api"
)

// FacetValue is one distinct field value and how many dogs carry it.
type FacetValue struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// FlagOption is one choice of a boolean facet. Value is nil for "All".
type FlagOption struct {
	Label string `json:"label"`
	Value *bool  `json:"value"`
	Count int    `json:"count"`
}

// Facets summarizes the whole collection for filter pickers.
type Facets struct {
	Age         []FacetValue `json:"age"`
	Breed       []FacetValue `json:"breed"`
	Gender      []FacetValue `json:"gender"`
	Weight      []FacetValue `json:"weight"`
	IsAvailable []FlagOption `json:"isAvailable"`
	IsNew       []FlagOption `json:"isNew"`
	IsFavorite  []FlagOption `json:"isFavorite"`
}

// DeriveFilters counts field values across all of in. Age and weight follow
// their bucket order; breed and gender are sorted by value.
func DeriveFilters(in []dogs.Dog) Facets {
	ages := map[string]int{}
	breeds := map[string]int{}
	genders := map[string]int{}
	weights := map[string]int{}
	var available, isNew, favorite int

	for _, d := range in {
		ages[string(d.Age)]++
		breeds[d.Breed()]++
		genders[string(d.Gender)]++
		weights[d.Weight]++
		if d.IsAvailable {
			available++
		}
		if d.IsNew {
			isNew++
		}
		if d.IsFavorite {
			favorite++
		}
	}

	return Facets{
		Age:         ranked(ages, ageRank),
		Breed:       natural(breeds),
		Gender:      natural(genders),
		Weight:      ranked(weights, api.WeightRank),
		IsAvailable: flagOptions(len(in), available, "Available", "Unavailable"),
		IsNew:       flagOptions(len(in), isNew, "New", "Seen"),
		IsFavorite:  flagOptions(len(in), favorite, "Favorite", "Not favorite"),
	}
}

func ageRank(v string) int { return api.AgeRank(api.LocalAge(v)) }

func natural(counts map[string]int) []FacetValue {
	out := make([]FacetValue, 0, len(counts))
	for v, n := range counts {
		out = append(out, FacetValue{Value: v, Count: n})
	}
	slices.SortFunc(out, func(a, b FacetValue) int { return cmp.Compare(a.Value, b.Value) })
	return out
}

func ranked(counts map[string]int, rank func(string) int) []FacetValue {
	out := natural(counts)
	slices.SortStableFunc(out, func(a, b FacetValue) int { return cmp.Compare(rank(a.Value), rank(b.Value)) })
	return out
}

func flagOptions(total, yes int, trueLabel, falseLabel string) []FlagOption {
	return []FlagOption{
		{Label: "All", Count: total},
		{Label: trueLabel, Value: api.Bool(true), Count: yes},
		{Label: falseLabel, Value: api.Bool(false), Count: total - yes},
	}
}

// Values lists the facet values in order.
func Values(fv []FacetValue) []string {
	out := make([]string, len(fv))
	for i, v := range fv {
		out[i] = v.Value
	}
	return out
}
