package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	agoraerrors "github.com/mleroy/agora/internal/errors"
	"github.com/mleroy/agora/internal/loader"
	"github.com/mleroy/agora/internal/query"
	"github.com/mleroy/agora/internal/store"
)

// handleHealth reports readiness. Before the first snapshot is
// published the service is loading and answers 503 so orchestrators
// hold traffic.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.provider.Current()
	if !ok {
		s.writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "loading"})
		return
	}

	stats := snap.Store.Stats()
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:           "healthy",
		TopicsLoaded:     stats.Topics,
		CategoriesLoaded: stats.Categories,
	})
}

// handleInfo returns the export metadata recorded at archive time
// together with the live snapshot counts.
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.provider.Current()
	if !ok {
		s.writeNotReady(w)
		return
	}

	info := snap.Store.Info()
	stats := snap.Store.Stats()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"export_info": info,
		"stats":       stats,
	})
}

// handleCategories lists the root categories in display order.
// Counts are direct: subcategory topics are reported on the
// subcategory, not rolled up.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.provider.Current()
	if !ok {
		s.writeNotReady(w)
		return
	}

	roots := snap.Store.RootCategories()
	out := make([]CategorySummary, 0, len(roots))
	for _, cat := range roots {
		out = append(out, toCategorySummary(cat, snap.Store.TopicCount(cat.ID, false)))
	}
	s.writeJSON(w, http.StatusOK, out)
}

// handleCategoryTree returns the full nested category tree. Tree nodes
// carry recursive topic counts so a parent reflects its whole subtree.
func (s *Server) handleCategoryTree(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.provider.Current()
	if !ok {
		s.writeNotReady(w)
		return
	}
	s.writeJSON(w, http.StatusOK, toTreeNodes(snap.Store.CategoryTree()))
}

// handleCategory serves both the category detail and, when the path
// ends in /topics, the paginated topic listing for that category. The
// two share a route because the id segment may carry a slug with
// slashes in it.
func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.provider.Current()
	if !ok {
		s.writeNotReady(w)
		return
	}

	path := r.PathValue("path")
	wantTopics := false
	if trimmed, found := strings.CutSuffix(path, "/topics"); found {
		path = trimmed
		wantTopics = true
	}

	id, err := parseIDFromPath(path)
	if err != nil {
		s.writeError(w, err)
		return
	}

	cat, found := snap.Store.GetCategory(id)
	if !found {
		s.writeNotFound(w, "Category not found")
		return
	}

	if wantTopics {
		s.serveCategoryTopics(w, r, snap, cat)
		return
	}

	children := snap.Store.Children(cat.ID)
	subs := make([]CategorySummary, 0, len(children))
	for _, child := range children {
		subs = append(subs, toCategorySummary(child, snap.Store.TopicCount(child.ID, false)))
	}
	s.writeJSON(w, http.StatusOK, CategoryDetail{
		CategorySummary: toCategorySummary(cat, snap.Store.TopicCount(cat.ID, false)),
		Subcategories:   subs,
	})
}

func (s *Server) serveCategoryTopics(w http.ResponseWriter, r *http.Request, snap *store.Snapshot, cat loader.Category) {
	params, err := parseListParams(r.URL.Query().Get)
	if err != nil {
		s.writeError(w, err)
		return
	}

	recursive := parseBool(r.URL.Query().Get("recursive"), false)
	ids := snap.Store.TopicsInCategory(cat.ID, recursive)
	topics := make([]loader.Topic, 0, len(ids))
	for _, id := range ids {
		if topic, ok := snap.Store.GetTopic(id); ok {
			topics = append(topics, topic)
		}
	}

	result, err := query.Apply(topics, params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toPaginated(result))
}

// handleTopics lists every topic in the corpus, paginated.
func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.provider.Current()
	if !ok {
		s.writeNotReady(w)
		return
	}

	params, err := parseListParams(r.URL.Query().Get)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := query.Apply(snap.Store.AllTopics(), params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toPaginated(result))
}

// handleRecentTopics returns the newest topics across all categories.
func (s *Server) handleRecentTopics(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.provider.Current()
	if !ok {
		s.writeNotReady(w)
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > query.MaxPageSize {
			s.writeError(w, agoraerrors.ValidationError(
				fmt.Sprintf("limit must be between 1 and %d, got %q", query.MaxPageSize, raw), err).
				WithDetail("field", "limit").
				WithDetail("allowed", fmt.Sprintf("1-%d", query.MaxPageSize)))
			return
		}
		limit = n
	}

	s.writeJSON(w, http.StatusOK, toTopicSummaries(snap.Store.RecentTopics(limit)))
}

// handleTopic serves one topic with its rendered HTML body.
func (s *Server) handleTopic(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.provider.Current()
	if !ok {
		s.writeNotReady(w)
		return
	}

	id, err := parseIDFromPath(r.PathValue("path"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	topic, found := snap.Store.GetTopic(id)
	if !found {
		s.writeNotFound(w, "Topic not found")
		return
	}

	html, _, err := snap.Store.TopicHTML(id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, TopicDetail{
		TopicSummary: toTopicSummary(topic),
		Content:      topic.Body,
		ContentHTML:  html,
	})
}

// handleSearch runs a title search and paginates the hits.
// An empty or missing q yields an empty result, not an error.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.provider.Current()
	if !ok {
		s.writeNotReady(w)
		return
	}

	params, err := parseListParams(r.URL.Query().Get)
	if err != nil {
		s.writeError(w, err)
		return
	}

	ids := snap.Index.Search(r.URL.Query().Get("q"))
	topics := make([]loader.Topic, 0, len(ids))
	for _, id := range ids {
		if topic, found := snap.Store.GetTopic(id); found {
			topics = append(topics, topic)
		}
	}

	result, err := query.Apply(topics, params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toPaginated(result))
}
