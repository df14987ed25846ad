// Package query applies sorting and pagination to candidate topic
// lists produced by the store or the search index.
//
// Ordering is fully deterministic: ties on the sort key are broken by
// ascending topic id, so repeated identical requests paginate
// identically.
package query

import (
	"fmt"
	"sort"
	"time"

	agoraerrors "github.com/mleroy/agora/internal/errors"
	"github.com/mleroy/agora/internal/loader"
)

// SortKey selects the topic field to order by.
type SortKey string

const (
	SortCreated   SortKey = "created"
	SortLastPost  SortKey = "last_post"
	SortViewCount SortKey = "view_count"
	SortRating    SortKey = "rating"
)

// Order is the sort direction.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Pagination bounds.
const (
	MinPageSize     = 1
	MaxPageSize     = 100
	DefaultPageSize = 20
)

// Params are the caller-supplied listing parameters.
type Params struct {
	Page     int
	PageSize int
	SortBy   SortKey
	Order    Order
}

// DefaultParams returns the canonical listing: newest first, page 1.
func DefaultParams() Params {
	return Params{
		Page:     1,
		PageSize: DefaultPageSize,
		SortBy:   SortCreated,
		Order:    OrderDesc,
	}
}

// Result is one page of topics plus pagination metadata.
type Result struct {
	Items      []loader.Topic
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// ParseSortKey validates a sort key string.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case SortCreated, SortLastPost, SortViewCount, SortRating:
		return SortKey(s), nil
	case "":
		return SortCreated, nil
	}
	return "", agoraerrors.New(agoraerrors.ErrCodeInvalidSortKey,
		fmt.Sprintf("invalid sort_by %q", s), nil).
		WithDetail("field", "sort_by").
		WithDetail("allowed", "created, last_post, view_count, rating")
}

// ParseOrder validates a sort order string.
func ParseOrder(s string) (Order, error) {
	switch Order(s) {
	case OrderAsc, OrderDesc:
		return Order(s), nil
	case "":
		return OrderDesc, nil
	}
	return "", agoraerrors.New(agoraerrors.ErrCodeInvalidOrder,
		fmt.Sprintf("invalid order %q", s), nil).
		WithDetail("field", "order").
		WithDetail("allowed", "asc, desc")
}

// Validate checks bounds. Bad input is reported, never clamped.
func (p Params) Validate() error {
	if p.Page < 1 {
		return agoraerrors.New(agoraerrors.ErrCodeInvalidPage,
			fmt.Sprintf("page must be >= 1, got %d", p.Page), nil).
			WithDetail("field", "page").
			WithDetail("allowed", ">= 1")
	}
	if p.PageSize < MinPageSize || p.PageSize > MaxPageSize {
		return agoraerrors.New(agoraerrors.ErrCodeInvalidPageSize,
			fmt.Sprintf("page_size must be between %d and %d, got %d", MinPageSize, MaxPageSize, p.PageSize), nil).
			WithDetail("field", "page_size").
			WithDetail("allowed", fmt.Sprintf("%d-%d", MinPageSize, MaxPageSize))
	}
	if _, err := ParseSortKey(string(p.SortBy)); err != nil {
		return err
	}
	if _, err := ParseOrder(string(p.Order)); err != nil {
		return err
	}
	return nil
}

// Apply sorts the candidates and returns the requested page.
//
// A page beyond the last returns an empty page with the correct total.
// The input slice is not modified.
func Apply(topics []loader.Topic, p Params) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}

	sorted := make([]loader.Topic, len(topics))
	copy(sorted, topics)
	sortTopics(sorted, p.SortBy, p.Order)

	total := len(sorted)
	totalPages := (total + p.PageSize - 1) / p.PageSize
	if totalPages == 0 {
		totalPages = 1
	}

	start := (p.Page - 1) * p.PageSize
	end := start + p.PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Result{
		Items:      sorted[start:end],
		Total:      total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: totalPages,
	}, nil
}

// sortTopics orders topics by the sort key in the given direction,
// breaking ties by ascending id regardless of direction.
func sortTopics(topics []loader.Topic, key SortKey, order Order) {
	sort.Slice(topics, func(i, j int) bool {
		c := compareByKey(topics[i], topics[j], key)
		if c == 0 {
			return topics[i].ID < topics[j].ID
		}
		if order == OrderDesc {
			return c > 0
		}
		return c < 0
	})
}

// compareByKey compares two topics on the sort key: -1, 0 or +1.
// A missing last_post sorts as the minimum value.
func compareByKey(a, b loader.Topic, key SortKey) int {
	switch key {
	case SortLastPost:
		return compareTimes(a.LastPost, b.LastPost)
	case SortViewCount:
		return compareInts(a.ViewCount, b.ViewCount)
	case SortRating:
		return compareInts(a.Rating, b.Rating)
	default:
		return compareTimes(a.Created, b.Created)
	}
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}
