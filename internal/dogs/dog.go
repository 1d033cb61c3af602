// Package dogs builds the display-ready dog entity from remote records and
// local annotations. Every Dog in the system is constructed here.
package dogs

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/mithrel/kennel/pkg/api"
)

// ErrUnknownAgeBucket marks a remote record whose age group is not in api.AgesMap.
var ErrUnknownAgeBucket = errors.New("unknown age bucket")

// Dog is the unified view model: remote data merged with local annotations.
type Dog struct {
	ID          string       `json:"id"`
	Age         api.LocalAge `json:"age"`
	Breeds      []string     `json:"breeds"`
	Gender      api.Gender   `json:"gender"`
	IntakeDate  time.Time    `json:"intakeDate"`
	IsAvailable bool         `json:"isAvailable"`
	IsFavorite  bool         `json:"isFavorite"`
	IsNew       bool         `json:"isNew"`
	Name        string       `json:"name"`
	Photo       string       `json:"photo"`
	Weight      string       `json:"weight"`
}

// FromRemote builds an available dog from a listing record and its optional
// annotation. A nil annotation means the dog was never touched: not a
// favorite, and new.
func FromRemote(remote api.RemoteDog, annotation *api.LocalDog) (Dog, error) {
	age, ok := api.AgesMap[api.RemoteAge(remote.AgeGroup.Value)]
	if !ok {
		return Dog{}, fmt.Errorf("dog %d: %w: %q", remote.ID, ErrUnknownAgeBucket, remote.AgeGroup.Value)
	}

	breeds := []string{remote.PrimaryBreed.Value}
	if remote.SecondaryBreed != nil && remote.SecondaryBreed.Value != "" {
		breeds = append(breeds, remote.SecondaryBreed.Value)
	}

	weight := api.UnknownValue
	if remote.Weight != nil && remote.Weight.Value != "" {
		weight = remote.Weight.Value
	}

	isFavorite := false
	isNew := true
	if annotation != nil {
		isFavorite = annotation.IsFavorite
		if annotation.IsNew != nil {
			isNew = *annotation.IsNew
		}
	}

	return Dog{
		ID:          strconv.Itoa(remote.ID),
		Age:         age,
		Breeds:      breeds,
		Gender:      api.Gender(remote.Gender.Value),
		IntakeDate:  ParseTimestamp(remote.IntakeDate),
		IsAvailable: true,
		IsFavorite:  isFavorite,
		IsNew:       isNew,
		Name:        remote.Name,
		Photo:       remote.MainPhoto,
		Weight:      weight,
	}, nil
}

// FromLocal rebuilds a dog that vanished from the listing out of its stored
// snapshot. The result is always unavailable.
func FromLocal(local api.LocalDog) Dog {
	weight := local.Weight
	if weight == "" {
		weight = api.UnknownValue
	}
	isNew := true
	if local.IsNew != nil {
		isNew = *local.IsNew
	}
	return Dog{
		ID:          local.ID,
		Age:         local.Age,
		Breeds:      slices.Clone(local.Breeds),
		Gender:      local.Gender,
		IntakeDate:  ParseTimestamp(local.IntakeDate),
		IsAvailable: false,
		IsFavorite:  local.IsFavorite,
		IsNew:       isNew,
		Name:        local.Name,
		Photo:       local.Photo,
		Weight:      weight,
	}
}

// Breed joins the breed list for display and for breed filtering.
func (d Dog) Breed() string {
	return strings.Join(d.Breeds, " | ")
}

// IntakeMonth is the month number without padding ("1".."12").
func (d Dog) IntakeMonth() string {
	if d.IntakeDate.IsZero() {
		return ""
	}
	return d.IntakeDate.Format("1")
}

// IntakeDay is the day of month without padding.
func (d Dog) IntakeDay() string {
	if d.IntakeDate.IsZero() {
		return ""
	}
	return d.IntakeDate.Format("2")
}

// IntakeYear is the two-digit year.
func (d Dog) IntakeYear() string {
	if d.IntakeDate.IsZero() {
		return ""
	}
	return d.IntakeDate.Format("06")
}

// Serialize returns the annotation snapshot stored for this dog.
func (d Dog) Serialize() api.LocalDog {
	return api.LocalDog{
		ID:          d.ID,
		Age:         d.Age,
		Breeds:      slices.Clone(d.Breeds),
		Gender:      d.Gender,
		IntakeDate:  FormatTimestamp(d.IntakeDate),
		IsAvailable: d.IsAvailable,
		IsFavorite:  d.IsFavorite,
		IsNew:       api.Bool(d.IsNew),
		Name:        d.Name,
		Photo:       d.Photo,
		Weight:      d.Weight,
	}
}
