// Package migrate upgrades persisted dog annotations across schema versions.
//
// Each step decodes the shape written by its source version and encodes the
// shape of the next one. Steps that need fields older versions never stored
// take them from the current remote listing; dogs missing from the listing
// cannot be upgraded and are dropped. Migration never fails as a whole.
package migrate

import (
	"encoding/json"
	"strconv"

	"go.uber.org/zap"

	"github.com/mithrel/kennel/internal/dogs"
	"github.com/mithrel/kennel/pkg/api"
)

// Step upgrades raw annotations written at version From to version From+1.
type Step struct {
	From  int
	Apply func(remote map[string]api.RemoteDog, raw json.RawMessage, log *zap.Logger) json.RawMessage
}

var steps = []Step{
	{From: 0, Apply: zeroToOne},
	{From: 1, Apply: oneToTwo},
}

// LatestVersion is the schema version written by this build.
var LatestVersion = steps[len(steps)-1].From + 1

// Migrate brings raw annotations stored at storedVersion up to LatestVersion.
// A stored version at or beyond the latest one is decoded as-is and returned
// unchanged.
func Migrate(storedVersion int, remote []api.RemoteDog, raw json.RawMessage, log *zap.Logger) (api.LocalDogs, int) {
	if log == nil {
		log = zap.NewNop()
	}
	if storedVersion >= LatestVersion {
		return decodeCurrent(raw, log), storedVersion
	}
	byID := indexRemote(remote)
	version := storedVersion
	if version < 0 {
		version = 0
	}
	for _, s := range steps {
		if s.From < version {
			continue
		}
		raw = s.Apply(byID, raw, log)
		version = s.From + 1
		log.Debug("migrated dog annotations", zap.Int("from", s.From), zap.Int("to", version))
	}
	return decodeCurrent(raw, log), version
}

func indexRemote(remote []api.RemoteDog) map[string]api.RemoteDog {
	out := make(map[string]api.RemoteDog, len(remote))
	for _, r := range remote {
		out[strconv.Itoa(r.ID)] = r
	}
	return out
}

// splitDogs decodes the outer id map, leaving each dog raw so one bad record
// cannot spoil its siblings.
func splitDogs(raw json.RawMessage, log *zap.Logger) map[string]json.RawMessage {
	out := map[string]json.RawMessage{}
	if len(raw) == 0 || string(raw) == "null" {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Warn("discarding undecodable dog annotations", zap.Error(err))
		return map[string]json.RawMessage{}
	}
	return out
}

func encode(v any, log *zap.Logger) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		log.Warn("encode migrated annotations", zap.Error(err))
		return nil
	}
	return b
}

func zeroToOne(remote map[string]api.RemoteDog, raw json.RawMessage, log *zap.Logger) json.RawMessage {
	out := api.LocalDogsV1{}
	for id, item := range splitDogs(raw, log) {
		var v0 api.LocalDogV0
		if err := json.Unmarshal(item, &v0); err != nil {
			log.Debug("drop undecodable v0 annotation", zap.String("id", id), zap.Error(err))
			continue
		}
		r, ok := remote[id]
		if !ok {
			continue
		}
		annotation := api.LocalDog{}
		if v0.IsFavorite != nil {
			annotation.IsFavorite = *v0.IsFavorite
		}
		if v0.IsSeen != nil {
			annotation.IsNew = api.Bool(!*v0.IsSeen)
		}
		dog, err := dogs.FromRemote(r, &annotation)
		if err != nil {
			log.Debug("drop unbuildable v0 annotation", zap.String("id", id), zap.Error(err))
			continue
		}
		out[id] = api.LocalDogV1{
			ID:          dog.ID,
			Age:         dog.Age,
			Breeds:      dog.Breeds,
			Gender:      dog.Gender,
			IsAvailable: dog.IsAvailable,
			IsFavorite:  dog.IsFavorite,
			IsNew:       api.Bool(dog.IsNew),
			Name:        dog.Name,
			Photo:       dog.Photo,
			Weight:      dog.Weight,
		}
	}
	return encode(out, log)
}

func oneToTwo(remote map[string]api.RemoteDog, raw json.RawMessage, log *zap.Logger) json.RawMessage {
	out := api.LocalDogs{}
	for id, item := range splitDogs(raw, log) {
		var v1 api.LocalDogV1
		if err := json.Unmarshal(item, &v1); err != nil {
			log.Debug("drop undecodable v1 annotation", zap.String("id", id), zap.Error(err))
			continue
		}
		r, ok := remote[id]
		if !ok {
			continue
		}
		out[id] = api.LocalDog{
			ID:          v1.ID,
			Age:         v1.Age,
			Breeds:      v1.Breeds,
			Gender:      v1.Gender,
			IntakeDate:  r.IntakeDate,
			IsAvailable: v1.IsAvailable,
			IsFavorite:  v1.IsFavorite,
			IsNew:       v1.IsNew,
			Name:        v1.Name,
			Photo:       v1.Photo,
			Weight:      v1.Weight,
		}
	}
	return encode(out, log)
}

// decodeCurrent reads annotations in the latest shape, dropping bad records.
func decodeCurrent(raw json.RawMessage, log *zap.Logger) api.LocalDogs {
	out := api.LocalDogs{}
	for id, item := range splitDogs(raw, log) {
		var d api.LocalDog
		if err := json.Unmarshal(item, &d); err != nil {
			log.Debug("drop undecodable annotation", zap.String("id", id), zap.Error(err))
			continue
		}
		if d.ID == "" {
			d.ID = id
		}
		out[id] = d
	}
	return out
}
