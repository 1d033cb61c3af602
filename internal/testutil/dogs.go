// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"github.com/mithrel/kennel/pkg/api"
)

// RemoteOption tweaks a fixture listing record.
type RemoteOption func(*api.RemoteDog)

// RemoteDog returns a well-formed listing record with sensible defaults.
func RemoteDog(id int, name string, opts ...RemoteOption) api.RemoteDog {
	d := api.RemoteDog{
		ID:           id,
		Name:         name,
		PrimaryBreed: api.IDValue{ID: 1, Value: "Labrador"},
		Gender:       api.IDValue{ID: 1, Value: string(api.GenderFemale)},
		AgeGroup:     api.IDValue{ID: 3, Value: string(api.AgeYouth)},
		Weight:       &api.IDValue{ID: 2, Value: "Medium"},
		MainPhoto:    "https://photos.example/" + name + ".jpg",
		IntakeDate:   "2024-03-05T14:00:00Z",
	}
	for _, o := range opts {
		o(&d)
	}
	return d
}

func WithBreeds(primary string, secondary ...string) RemoteOption {
	return func(d *api.RemoteDog) {
		d.PrimaryBreed = api.IDValue{ID: 1, Value: primary}
		d.SecondaryBreed = nil
		if len(secondary) > 0 {
			d.SecondaryBreed = &api.IDValue{ID: 2, Value: secondary[0]}
		}
	}
}

func WithGender(g api.Gender) RemoteOption {
	return func(d *api.RemoteDog) { d.Gender = api.IDValue{ID: 1, Value: string(g)} }
}

func WithAge(a api.RemoteAge) RemoteOption {
	return func(d *api.RemoteDog) { d.AgeGroup = api.IDValue{ID: 1, Value: string(a)} }
}

// WithWeight sets the weight class; an empty value removes it.
func WithWeight(w string) RemoteOption {
	return func(d *api.RemoteDog) {
		if w == "" {
			d.Weight = nil
			return
		}
		d.Weight = &api.IDValue{ID: 1, Value: w}
	}
}

func WithIntake(ts string) RemoteOption {
	return func(d *api.RemoteDog) { d.IntakeDate = ts }
}
