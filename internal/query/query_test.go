package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	agoraerrors "github.com/mleroy/agora/internal/errors"
	"github.com/mleroy/agora/internal/loader"
)

var (
	t1 = time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 = time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC)
	t3 = time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)
)

func fixtureTopics() []loader.Topic {
	return []loader.Topic{
		{ID: 10, Title: "oldest", Created: t1, ViewCount: 50, Rating: 2},
		{ID: 11, Title: "newest", Created: t3, LastPost: t3, ViewCount: 5, Rating: 5},
		{ID: 12, Title: "middle", Created: t2, LastPost: t1, ViewCount: 50, Rating: 1},
	}
}

func ids(r Result) []int64 {
	out := make([]int64, 0, len(r.Items))
	for _, item := range r.Items {
		out = append(out, item.ID)
	}
	return out
}

func TestApply_SortCreatedDesc(t *testing.T) {
	r, err := Apply(fixtureTopics(), DefaultParams())
	require.NoError(t, err)

	assert.Equal(t, []int64{11, 12, 10}, ids(r))
	assert.Equal(t, 3, r.Total)
	assert.Equal(t, 1, r.TotalPages)
}

func TestApply_SortCreatedAsc(t *testing.T) {
	p := DefaultParams()
	p.Order = OrderAsc

	r, err := Apply(fixtureTopics(), p)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 12, 11}, ids(r))
}

func TestApply_SortByViewCountTieBrokenByID(t *testing.T) {
	p := DefaultParams()
	p.SortBy = SortViewCount

	// 10 and 12 tie on view_count; the tie-break is ascending id in
	// both directions.
	r, err := Apply(fixtureTopics(), p)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 12, 11}, ids(r))

	p.Order = OrderAsc
	r, err = Apply(fixtureTopics(), p)
	require.NoError(t, err)
	assert.Equal(t, []int64{11, 10, 12}, ids(r))
}

func TestApply_SortByRating(t *testing.T) {
	p := DefaultParams()
	p.SortBy = SortRating

	r, err := Apply(fixtureTopics(), p)
	require.NoError(t, err)
	assert.Equal(t, []int64{11, 10, 12}, ids(r))
}

func TestApply_MissingLastPostSortsAsMinimum(t *testing.T) {
	p := DefaultParams()
	p.SortBy = SortLastPost

	// Topic 10 has no last_post: it sorts last under desc.
	r, err := Apply(fixtureTopics(), p)
	require.NoError(t, err)
	assert.Equal(t, []int64{11, 12, 10}, ids(r))

	p.Order = OrderAsc
	r, err = Apply(fixtureTopics(), p)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 12, 11}, ids(r))
}

func TestApply_Pagination(t *testing.T) {
	p := DefaultParams()
	p.PageSize = 2

	r, err := Apply(fixtureTopics(), p)
	require.NoError(t, err)
	assert.Equal(t, []int64{11, 12}, ids(r))
	assert.Equal(t, 3, r.Total)
	assert.Equal(t, 2, r.TotalPages)

	p.Page = 2
	r, err = Apply(fixtureTopics(), p)
	require.NoError(t, err)
	assert.Equal(t, []int64{10}, ids(r))
}

func TestApply_PageBeyondLastIsEmptyNotError(t *testing.T) {
	p := DefaultParams()
	p.Page = 50

	r, err := Apply(fixtureTopics(), p)
	require.NoError(t, err)
	assert.Empty(t, r.Items)
	assert.Equal(t, 3, r.Total)
}

func TestApply_Deterministic(t *testing.T) {
	p := DefaultParams()
	p.PageSize = 2

	first, err := Apply(fixtureTopics(), p)
	require.NoError(t, err)
	second, err := Apply(fixtureTopics(), p)
	require.NoError(t, err)
	assert.Equal(t, ids(first), ids(second))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	topics := fixtureTopics()
	_, err := Apply(topics, DefaultParams())
	require.NoError(t, err)

	assert.Equal(t, int64(10), topics[0].ID, "input order must be preserved")
}

func TestApply_EmptyCandidates(t *testing.T) {
	r, err := Apply(nil, DefaultParams())
	require.NoError(t, err)
	assert.Empty(t, r.Items)
	assert.Zero(t, r.Total)
	assert.Equal(t, 1, r.TotalPages)
}

func TestApply_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		code   string
	}{
		{"page zero", func(p *Params) { p.Page = 0 }, agoraerrors.ErrCodeInvalidPage},
		{"page negative", func(p *Params) { p.Page = -3 }, agoraerrors.ErrCodeInvalidPage},
		{"page_size zero", func(p *Params) { p.PageSize = 0 }, agoraerrors.ErrCodeInvalidPageSize},
		{"page_size 101", func(p *Params) { p.PageSize = 101 }, agoraerrors.ErrCodeInvalidPageSize},
		{"bad sort key", func(p *Params) { p.SortBy = "title" }, agoraerrors.ErrCodeInvalidSortKey},
		{"bad order", func(p *Params) { p.Order = "sideways" }, agoraerrors.ErrCodeInvalidOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)

			_, err := Apply(fixtureTopics(), p)
			require.Error(t, err)
			assert.Equal(t, tt.code, agoraerrors.GetCode(err))
			assert.True(t, agoraerrors.IsValidation(err))
		})
	}
}

func TestValidationError_NamesFieldAndRange(t *testing.T) {
	p := DefaultParams()
	p.PageSize = 500

	_, err := Apply(nil, p)
	require.Error(t, err)

	ae, ok := err.(*agoraerrors.AgoraError)
	require.True(t, ok)
	assert.Equal(t, "page_size", ae.Details["field"])
	assert.Equal(t, "1-100", ae.Details["allowed"])
}

func TestParseSortKey(t *testing.T) {
	key, err := ParseSortKey("view_count")
	require.NoError(t, err)
	assert.Equal(t, SortViewCount, key)

	key, err = ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, SortCreated, key)

	_, err = ParseSortKey("author")
	assert.Error(t, err)
}

func TestParseOrder(t *testing.T) {
	order, err := ParseOrder("asc")
	require.NoError(t, err)
	assert.Equal(t, OrderAsc, order)

	order, err = ParseOrder("")
	require.NoError(t, err)
	assert.Equal(t, OrderDesc, order)

	_, err = ParseOrder("up")
	assert.Error(t, err)
}
