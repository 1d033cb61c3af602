package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var breeds = []string{"Beagle", "Labrador Retriever", "Pit Bull Terrier", "Pug"}

func TestScoreCompletions(t *testing.T) {
	assert.Equal(t, breeds, ScoreCompletions("", breeds, 2))
	assert.Equal(t, []string{"Labrador Retriever"}, ScoreCompletions("lab", breeds, 5))
	assert.Len(t, ScoreCompletions("e", breeds, 2), 2)
	assert.Nil(t, ScoreCompletions("zzz", breeds, 3))
}

func TestSuggest(t *testing.T) {
	assert.Equal(t, "Beagle", Suggest("beagle", breeds))
	assert.Equal(t, "Labrador Retriever", Suggest("labrador", breeds))
	assert.Equal(t, "Pit Bull Terrier", Suggest("pitbull", breeds))
	assert.Empty(t, Suggest("xyz", breeds))
	assert.Empty(t, Suggest("  ", breeds))
}
