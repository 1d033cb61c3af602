//go:build ignore
// +build ignore

package main

import (
	"encoding/json"
	"fmt"
	mrand "math/rand"
	"os"
	"time"

	"github.com/mithrel/kennel/pkg/api"
)

var (
	names  = []string{"Biscuit", "Maple", "Otis", "Juniper", "Rocco", "Pepper", "Luna", "Bruno", "Hazel", "Milo"}
	breeds = []string{"Labrador Retriever", "Pit Bull Terrier", "German Shepherd", "Beagle", "Chihuahua", "Boxer", "Husky", "Mixed Breed"}
	ages   = []api.RemoteAge{api.AgeBaby, api.AgePuppy, api.AgeYouth, api.AgeAdult, api.AgeSenior}
)

// Writes a listing page shaped like the rescue API to stdout.
func main() {
	// Deterministic seed for reproducible output
	mr := mrand.New(mrand.NewSource(42))

	const total = 120
	out := api.ListingPage{Results: make([]api.RemoteDog, 0, total)}
	base := time.Now().UTC()

	for i := 0; i < total; i++ {
		d := api.RemoteDog{
			ID:           10000 + i,
			Name:         fmt.Sprintf("%s %03d", names[mr.Intn(len(names))], i+1),
			PrimaryBreed: api.IDValue{ID: 1, Value: breeds[mr.Intn(len(breeds))]},
			Gender:       api.IDValue{ID: 1, Value: string(api.GenderFemale)},
			AgeGroup:     api.IDValue{ID: 1, Value: string(ages[mr.Intn(len(ages))])},
			MainPhoto:    fmt.Sprintf("https://example.org/photos/%d.jpg", 10000+i),
			// Stagger intake backwards to look natural
			IntakeDate: base.Add(-time.Duration(6*i+mr.Intn(6)) * time.Hour).Format(time.RFC3339),
		}
		if mr.Intn(2) == 0 {
			d.Gender.Value = string(api.GenderMale)
		}
		if mr.Float64() < 0.3 {
			d.SecondaryBreed = &api.IDValue{ID: 2, Value: breeds[mr.Intn(len(breeds))]}
		}
		// ~10% have no weight class
		if mr.Float64() < 0.9 {
			d.Weight = &api.IDValue{ID: 1, Value: api.Weights[mr.Intn(len(api.Weights)-1)]}
		}
		out.Results = append(out.Results, d)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		panic(err)
	}
}
