package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/kennel/pkg/api"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	ctx := context.Background()
	sq, err := Open(ctx, "sqlite://"+filepath.Join(t.TempDir(), "nested", "kennel.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sq.Close() })
	mem, err := Open(ctx, "mem://")
	require.NoError(t, err)
	return map[string]Store{"sqlite": sq, "mem": mem}
}

func TestRoundTripPersistedState(t *testing.T) {
	state := api.PersistedState{
		DataVersion: 2,
		Dogs: api.LocalDogs{
			"7": {
				ID:         "7",
				Age:        api.Age5To9Yrs,
				Breeds:     []string{"Beagle", "Pug"},
				Gender:     api.GenderMale,
				IntakeDate: "2024-03-05T14:00:00.000Z",
				IsFavorite: true,
				IsNew:      api.Bool(false),
				Name:       "Otis",
				Photo:      "https://photos.example/otis.jpg",
				Weight:     api.UnknownValue,
			},
			"8": {ID: "8", Breeds: []string{"Lab"}},
		},
		Sorting: []api.SortingValue{{Key: "age", Direction: api.SortDesc}},
	}

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Write(ctx, api.KeyDogs, state.Dogs))
			require.NoError(t, s.Write(ctx, api.KeySorting, state.Sorting))
			require.NoError(t, s.Write(ctx, api.KeyDataVersion, state.DataVersion))

			var got api.PersistedState
			for key, dst := range map[string]any{
				api.KeyDogs:        &got.Dogs,
				api.KeySorting:     &got.Sorting,
				api.KeyDataVersion: &got.DataVersion,
			} {
				found, err := s.Read(ctx, key, dst)
				require.NoError(t, err)
				require.True(t, found, key)
			}
			assert.Equal(t, state, got)
		})
	}
}

func TestReadAbsentKey(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var v int
			found, err := s.Read(ctx, "missing", &v)
			require.NoError(t, err)
			assert.False(t, found)

			_, err = s.ReadRaw(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestWriteOverwrites(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Write(ctx, "k", 1))
			require.NoError(t, s.Write(ctx, "k", map[string]bool{"a": true}))

			raw, err := s.ReadRaw(ctx, "k")
			require.NoError(t, err)
			assert.JSONEq(t, `{"a":true}`, string(raw))
		})
	}
}

func TestReadDecodeError(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()
	require.NoError(t, s.Write(ctx, "k", "text"))

	var n int
	found, err := s.Read(ctx, "k", &n)
	assert.True(t, found)
	assert.Error(t, err)
}

func TestSQLitePersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	url := "sqlite://" + filepath.Join(t.TempDir(), "kennel.db")

	s, err := Open(ctx, url)
	require.NoError(t, err)
	require.NoError(t, s.Write(ctx, api.KeyDataVersion, 2))
	require.NoError(t, s.Close())

	s, err = Open(ctx, url)
	require.NoError(t, err)
	defer s.Close()
	var v int
	found, err := s.Read(ctx, api.KeyDataVersion, &v)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2, v)
}

func TestOpenRejectsUnknownScheme(t *testing.T) {
	_, err := Open(context.Background(), "redis://localhost")
	assert.Error(t, err)
	_, err = Open(context.Background(), "kennel.db")
	assert.Error(t, err)
}
