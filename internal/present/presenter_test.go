package present

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/kennel/internal/catalog"
	"github.com/mithrel/kennel/internal/dogs"
)

func TestParseMode(t *testing.T) {
	m, ok := ParseMode("ndjson")
	assert.True(t, ok)
	assert.Equal(t, ModeNDJSON, m)
	_, ok = ParseMode("csv")
	assert.False(t, ok)
}

func TestRenderDogsJSONEmptyList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderDogs(context.Background(), &buf, nil, Options{Mode: ModeJSON}))
	assert.Equal(t, "[]\n", buf.String())
}

func TestRenderDogsTUIIsCallerDriven(t *testing.T) {
	err := RenderDogs(context.Background(), &bytes.Buffer{}, []dogs.Dog{{ID: "1"}}, Options{Mode: ModeTUI})
	assert.ErrorIs(t, err, ErrTUIUnsupported)
}

func TestRenderStats(t *testing.T) {
	var buf bytes.Buffer
	s := catalog.Stats{Showing: 2, Total: 5, New: 1, Unavailable: 3, AppliedFilters: 2}
	require.NoError(t, RenderStats(&buf, s, Options{}))
	assert.Equal(t, "Showing 2 of 5 dogs • 1 new • 0 favorite • 3 no longer listed • 2 filters\n", buf.String())

	buf.Reset()
	require.NoError(t, RenderStats(&buf, s, Options{Mode: ModeJSON}))
	var got catalog.Stats
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, s, got)
}
