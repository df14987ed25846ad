package server

import (
	"fmt"
	"strconv"
	"strings"

	agoraerrors "github.com/mleroy/agora/internal/errors"
	"github.com/mleroy/agora/internal/query"
)

// parseIDFromPath extracts the numeric id from a resource path segment.
//
// Links in archived posts come in several shapes: "20/mission-briefing",
// "20-mission-briefing" and a bare "20" all resolve to id 20. Only the
// id is authoritative; any trailing slug is ignored.
func parseIDFromPath(raw string) (int64, error) {
	seg := raw
	if i := strings.IndexByte(seg, '/'); i >= 0 {
		seg = seg[:i]
	}
	if i := strings.IndexByte(seg, '-'); i >= 0 {
		seg = seg[:i]
	}

	id, err := strconv.ParseInt(seg, 10, 64)
	if err != nil || id <= 0 {
		return 0, agoraerrors.ValidationError(
			fmt.Sprintf("invalid id in path: %q", raw), err).
			WithDetail("field", "id").
			WithDetail("value", raw)
	}
	return id, nil
}

// parseListParams reads page, page_size, sort_by and order from query
// string values, applying defaults for absent fields. Invalid values
// are rejected, never clamped.
func parseListParams(get func(string) string) (query.Params, error) {
	params := query.DefaultParams()

	if raw := get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return query.Params{}, agoraerrors.New(agoraerrors.ErrCodeInvalidPage,
				fmt.Sprintf("page must be an integer, got %q", raw), err).
				WithDetail("field", "page").
				WithDetail("allowed", ">= 1")
		}
		params.Page = page
	}

	if raw := get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return query.Params{}, agoraerrors.New(agoraerrors.ErrCodeInvalidPageSize,
				fmt.Sprintf("page_size must be an integer, got %q", raw), err).
				WithDetail("field", "page_size").
				WithDetail("allowed", fmt.Sprintf("%d-%d", query.MinPageSize, query.MaxPageSize))
		}
		params.PageSize = size
	}

	sortBy, err := query.ParseSortKey(get("sort_by"))
	if err != nil {
		return query.Params{}, err
	}
	params.SortBy = sortBy

	order, err := query.ParseOrder(get("order"))
	if err != nil {
		return query.Params{}, err
	}
	params.Order = order

	if err := params.Validate(); err != nil {
		return query.Params{}, err
	}
	return params, nil
}

// parseBool reads a boolean query value; absent means the default.
func parseBool(raw string, def bool) bool {
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}
