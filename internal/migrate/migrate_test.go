package migrate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/kennel/internal/testutil"
	"github.com/mithrel/kennel/pkg/api"
)

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestMigrateFromZeroDropsUnknownDogs(t *testing.T) {
	listing := []api.RemoteDog{testutil.RemoteDog(1, "A")}
	raw := mustJSON(t, map[string]any{
		"1": map[string]any{"isFavorite": true},
		"2": map[string]any{"isSeen": true},
	})

	got, version := Migrate(0, listing, raw, nil)

	assert.Equal(t, LatestVersion, version)
	require.Len(t, got, 1)
	a, ok := got["1"]
	require.True(t, ok)
	assert.True(t, a.IsFavorite)
	require.NotNil(t, a.IsNew)
	assert.True(t, *a.IsNew)
	assert.Equal(t, "A", a.Name)
	assert.Equal(t, api.Age2To5Yrs, a.Age)
	assert.Equal(t, listing[0].IntakeDate, a.IntakeDate)
}

func TestMigrateFromZeroTranslatesSeen(t *testing.T) {
	listing := []api.RemoteDog{testutil.RemoteDog(1, "A"), testutil.RemoteDog(2, "B")}
	raw := mustJSON(t, map[string]any{
		"1": map[string]any{"isSeen": true},
		"2": map[string]any{"isSeen": false},
	})

	got, _ := Migrate(0, listing, raw, nil)

	require.Len(t, got, 2)
	assert.False(t, *got["1"].IsNew)
	assert.True(t, *got["2"].IsNew)
}

func TestMigrateFromOneAddsIntakeDate(t *testing.T) {
	listing := []api.RemoteDog{testutil.RemoteDog(1, "A", testutil.WithIntake("2022-01-02T03:04:05Z"))}
	raw := mustJSON(t, api.LocalDogsV1{
		"1": {ID: "1", Name: "A", Age: api.AgeOver9Yrs, IsFavorite: true, Breeds: []string{"Lab"}},
		"9": {ID: "9", Name: "Gone"},
	})

	got, version := Migrate(1, listing, raw, nil)

	assert.Equal(t, 2, version)
	require.Len(t, got, 1)
	assert.Equal(t, "2022-01-02T03:04:05Z", got["1"].IntakeDate)
	assert.Equal(t, api.AgeOver9Yrs, got["1"].Age, "v1 snapshot fields are kept")
	assert.True(t, got["1"].IsFavorite)
}

func TestMigrateAtLatestIsPassthrough(t *testing.T) {
	stored := api.LocalDogs{
		"5": {ID: "5", Name: "Kept", IsFavorite: true, IsNew: api.Bool(false), Breeds: []string{"Pug"}, IntakeDate: "2020-01-01T00:00:00.000Z"},
	}

	got, version := Migrate(2, nil, mustJSON(t, stored), nil)
	assert.Equal(t, 2, version)
	assert.Equal(t, stored, got)

	got, version = Migrate(7, nil, mustJSON(t, stored), nil)
	assert.Equal(t, 7, version)
	assert.Equal(t, stored, got)
}

func TestMigrateToleratesGarbage(t *testing.T) {
	listing := []api.RemoteDog{testutil.RemoteDog(1, "A"), testutil.RemoteDog(2, "B")}

	t.Run("undecodable blob", func(t *testing.T) {
		got, version := Migrate(0, listing, json.RawMessage(`"nope"`), nil)
		assert.Equal(t, LatestVersion, version)
		assert.Empty(t, got)
	})

	t.Run("one bad record", func(t *testing.T) {
		raw := json.RawMessage(`{"1":{"isFavorite":"yes"},"2":{"isFavorite":true}}`)
		got, _ := Migrate(0, listing, raw, nil)
		require.Len(t, got, 1)
		assert.True(t, got["2"].IsFavorite)
	})

	t.Run("empty", func(t *testing.T) {
		got, _ := Migrate(0, listing, nil, nil)
		assert.Empty(t, got)
	})

	t.Run("unknown age bucket is dropped", func(t *testing.T) {
		odd := []api.RemoteDog{testutil.RemoteDog(1, "A", testutil.WithAge("Mystery"))}
		got, _ := Migrate(0, odd, json.RawMessage(`{"1":{"isFavorite":true}}`), nil)
		assert.Empty(t, got)
	})
}
