package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/kennel/internal/dogs"
	"github.com/mithrel/kennel/internal/query"
	"github.com/mithrel/kennel/pkg/api"
)

var now = time.Date(2024, 3, 19, 12, 0, 0, 0, time.UTC)

func sample() []dogs.Dog {
	return []dogs.Dog{
		{
			ID: "7", Name: "Otis", Breeds: []string{"Beagle", "Pug"}, Age: api.Age5To9Yrs,
			Gender: api.GenderMale, Weight: "Small", IsAvailable: true, IsNew: true, IsFavorite: true,
			IntakeDate: time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC), Photo: "https://photos.example/otis.jpg",
		},
		{ID: "9", Name: "Tab\tby", Breeds: []string{"Lab"}, Weight: api.UnknownValue},
	}
}

func TestWritePlainDogs(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePlainDogs(&buf, sample(), []string{"id", "name", "breed", "intake", "flags"}, true, now))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"id", "name", "breed", "intake", "flags"}, strings.Fields(lines[0]))
	assert.Contains(t, lines[1], "Beagle | Pug")
	assert.Contains(t, lines[1], "3/5/24 (1 week ago)")
	assert.Contains(t, lines[1], "fav,new")
	assert.Contains(t, lines[2], `Tab\tby`)
	assert.Contains(t, lines[2], "gone")
}

func TestWritePlainDogsNoHeaders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePlainDogs(&buf, sample()[:1], nil, false, now))
	assert.True(t, strings.HasPrefix(buf.String(), "7 "))
}

func TestWritePlainDog(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePlainDog(&buf, sample()[0], now))
	assert.Contains(t, buf.String(), "page:   https://homeatlastdogrescue.com/dog/7")
	assert.Contains(t, buf.String(), "weight: Small")
}

func TestWritePlainFacets(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePlainFacets(&buf, query.DeriveFilters(sample()), false))
	out := buf.String()
	assert.Contains(t, out, "breed")
	assert.Contains(t, out, "Beagle | Pug")
	assert.Contains(t, out, "isAvailable  Unavailable")
}

func TestWriteNDJSONDogs(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteNDJSONDogs(&buf, sample()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	var d dogs.Dog
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &d))
	assert.Equal(t, "Otis", d.Name)
}

func TestDogMarkdown(t *testing.T) {
	md := DogMarkdown(sample()[0], now)
	assert.True(t, strings.HasPrefix(md, "# Otis\n"))
	assert.Contains(t, md, "★ favorite · new")
	assert.Contains(t, md, `| **Breed** | Beagle \| Pug |`)
	assert.Contains(t, md, "(https://homeatlastdogrescue.com/dog/7)")

	gone := DogMarkdown(sample()[1], now)
	assert.Contains(t, gone, "No longer listed")
}

func TestDogsMarkdownEscapesPipes(t *testing.T) {
	md := DogsMarkdown(sample()[:1], now)
	assert.Contains(t, md, `Beagle \| Pug`)
}
