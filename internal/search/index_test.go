package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mleroy/agora/internal/loader"
)

func fixtureTopics() []loader.Topic {
	created := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	return []loader.Topic{
		{ID: 10, Title: "Hello World", CategoryID: 2, Created: created},
		{ID: 11, Title: "Hello Again", CategoryID: 2, Created: created},
		{ID: 12, Title: "World News: Alpha Release", CategoryID: 3, Created: created},
		{ID: 13, Title: "alpha beta gamma", CategoryID: 3, Created: created},
		{ID: 14, Title: "Beta, beta, BETA", CategoryID: 3, Created: created},
	}
}

func TestSearch_SingleToken(t *testing.T) {
	idx := Build(fixtureTopics())

	assert.Equal(t, []int64{10, 11}, idx.Search("hello"))
	assert.Equal(t, []int64{10, 12}, idx.Search("world"))
}

func TestSearch_CaseAndPunctuationInsensitive(t *testing.T) {
	idx := Build(fixtureTopics())

	assert.Equal(t, []int64{10, 11}, idx.Search("HELLO"))
	assert.Equal(t, []int64{10, 11}, idx.Search("  hello!! "))
}

func TestSearch_ANDSemantics(t *testing.T) {
	idx := Build(fixtureTopics())

	// Both tokens must appear, in any order.
	assert.Equal(t, []int64{13}, idx.Search("alpha beta"))
	assert.Equal(t, []int64{13}, idx.Search("beta alpha"))
	assert.Equal(t, []int64{10}, idx.Search("world hello"))
}

func TestSearch_UnknownTokenEmptiesIntersection(t *testing.T) {
	idx := Build(fixtureTopics())

	assert.Empty(t, idx.Search("hello zebra"))
	assert.Empty(t, idx.Search("zebra"))
}

func TestSearch_EmptyQueryReturnsNothing(t *testing.T) {
	idx := Build(fixtureTopics())

	assert.Empty(t, idx.Search(""))
	assert.Empty(t, idx.Search("   ?!"))
}

func TestSearch_Idempotent(t *testing.T) {
	idx := Build(fixtureTopics())

	first := idx.Search("hello world")
	second := idx.Search("hello world")
	assert.Equal(t, first, second)
}

func TestSearch_RepeatedTitleTokenCountsOnce(t *testing.T) {
	idx := Build(fixtureTopics())

	assert.Equal(t, []int64{13, 14}, idx.Search("beta"))
}

func TestSearch_ResultIsACopy(t *testing.T) {
	idx := Build(fixtureTopics())

	result := idx.Search("hello")
	require.NotEmpty(t, result)
	result[0] = 999

	assert.Equal(t, []int64{10, 11}, idx.Search("hello"), "mutating a result must not corrupt the index")
}

func TestSearch_TitlesOnlyNotBodies(t *testing.T) {
	topics := []loader.Topic{
		{ID: 20, Title: "Quiet title", Body: "loud unique body token screamingeagle"},
	}
	idx := Build(topics)

	assert.Empty(t, idx.Search("screamingeagle"))
	assert.Equal(t, []int64{20}, idx.Search("quiet"))
}

func TestBuild_EmptyCorpus(t *testing.T) {
	idx := Build(nil)

	assert.Zero(t, idx.TokenCount())
	assert.Empty(t, idx.Search("anything"))
}
