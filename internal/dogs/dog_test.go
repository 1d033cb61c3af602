package dogs

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/kennel/internal/testutil"
	"github.com/mithrel/kennel/pkg/api"
)

func TestFromRemoteDefaults(t *testing.T) {
	remote := testutil.RemoteDog(7, "Biscuit")

	dog, err := FromRemote(remote, nil)
	require.NoError(t, err)

	assert.Equal(t, "7", dog.ID)
	assert.Equal(t, api.Age2To5Yrs, dog.Age)
	assert.Equal(t, []string{"Labrador"}, dog.Breeds)
	assert.Equal(t, "Medium", dog.Weight)
	assert.True(t, dog.IsAvailable)
	assert.True(t, dog.IsNew)
	assert.False(t, dog.IsFavorite)
}

func TestFromRemoteIsIdempotent(t *testing.T) {
	remote := testutil.RemoteDog(7, "Biscuit", testutil.WithBreeds("Beagle", "Poodle"))

	a, err := FromRemote(remote, nil)
	require.NoError(t, err)
	b, err := FromRemote(remote, nil)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestFromRemoteAppliesAnnotation(t *testing.T) {
	remote := testutil.RemoteDog(7, "Biscuit")

	t.Run("stored flags win", func(t *testing.T) {
		dog, err := FromRemote(remote, &api.LocalDog{IsFavorite: true, IsNew: api.Bool(false)})
		require.NoError(t, err)
		assert.True(t, dog.IsFavorite)
		assert.False(t, dog.IsNew)
	})

	t.Run("undefined isNew defaults to new", func(t *testing.T) {
		dog, err := FromRemote(remote, &api.LocalDog{IsFavorite: true})
		require.NoError(t, err)
		assert.True(t, dog.IsNew)
	})
}

func TestFromRemoteBreedsAndWeight(t *testing.T) {
	remote := testutil.RemoteDog(1, "Rex",
		testutil.WithBreeds("Boxer", "Pit Bull"),
		testutil.WithWeight(""),
	)
	dog, err := FromRemote(remote, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"Boxer", "Pit Bull"}, dog.Breeds)
	assert.Equal(t, "Boxer | Pit Bull", dog.Breed())
	assert.Equal(t, api.UnknownValue, dog.Weight)

	remote.SecondaryBreed = &api.IDValue{ID: 9, Value: ""}
	dog, err = FromRemote(remote, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Boxer"}, dog.Breeds)
}

func TestFromRemoteUnknownAgeBucket(t *testing.T) {
	remote := testutil.RemoteDog(3, "Ghost", testutil.WithAge("Ancient (20+ Years)"))

	_, err := FromRemote(remote, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownAgeBucket))
}

func TestFromLocalIsUnavailable(t *testing.T) {
	local := api.LocalDog{
		ID:          "42",
		Age:         api.AgeOver9Yrs,
		Breeds:      []string{"Poodle"},
		Gender:      api.GenderMale,
		IntakeDate:  "2023-11-20T00:00:00.000Z",
		IsAvailable: true,
		IsFavorite:  true,
		IsNew:       api.Bool(false),
		Name:        "Old Timer",
		Photo:       "p.jpg",
	}

	dog := FromLocal(local)
	assert.False(t, dog.IsAvailable)
	assert.True(t, dog.IsFavorite)
	assert.False(t, dog.IsNew)
	assert.Equal(t, api.UnknownValue, dog.Weight)
	assert.Equal(t, time.Date(2023, 11, 20, 0, 0, 0, 0, time.UTC), dog.IntakeDate)
}

func TestIntakeAccessors(t *testing.T) {
	dog, err := FromRemote(testutil.RemoteDog(1, "Rex", testutil.WithIntake("2024-03-05T14:00:00")), nil)
	require.NoError(t, err)

	assert.Equal(t, "3", dog.IntakeMonth())
	assert.Equal(t, "5", dog.IntakeDay())
	assert.Equal(t, "24", dog.IntakeYear())

	var zero Dog
	assert.Empty(t, zero.IntakeYear())
}

func TestSerializeRoundTrip(t *testing.T) {
	dog, err := FromRemote(testutil.RemoteDog(5, "Pip"), &api.LocalDog{IsFavorite: true})
	require.NoError(t, err)

	local := dog.Serialize()
	assert.Equal(t, "2024-03-05T14:00:00.000Z", local.IntakeDate)
	require.NotNil(t, local.IsNew)
	assert.True(t, *local.IsNew)

	back := FromLocal(local)
	back.IsAvailable = true
	assert.Equal(t, dog, back)
}
