package server

import (
	"time"

	"github.com/mleroy/agora/internal/loader"
	"github.com/mleroy/agora/internal/query"
	"github.com/mleroy/agora/internal/store"
)

// CategorySummary is the category representation in list responses.
type CategorySummary struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	ParentCID     int64  `json:"parent_cid"`
	Icon          string `json:"icon,omitempty"`
	BgColor       string `json:"bgColor,omitempty"`
	Color         string `json:"color,omitempty"`
	Order         int    `json:"order"`
	Disabled      bool   `json:"disabled"`
	IsSubcategory bool   `json:"is_subcategory"`
	TopicCount    int    `json:"topic_count"`
	PostCount     int    `json:"post_count"`
}

// CategoryDetail adds the resolved subcategories.
type CategoryDetail struct {
	CategorySummary
	Subcategories []CategorySummary `json:"subcategories"`
}

// CategoryTreeNode is a category with nested children; its topic count
// covers the whole subtree.
type CategoryTreeNode struct {
	CategorySummary
	Children []CategoryTreeNode `json:"children"`
}

// TopicSummary is the topic representation in list responses.
type TopicSummary struct {
	TopicID    int64      `json:"topic_id"`
	Title      string     `json:"title"`
	AuthorID   int64      `json:"author_id"`
	CategoryID int64      `json:"category_id"`
	Created    time.Time  `json:"created"`
	Deleted    bool       `json:"deleted"`
	Locked     bool       `json:"locked"`
	Pinned     bool       `json:"pinned"`
	PostCount  int        `json:"post_count"`
	Rating     int        `json:"rating"`
	ViewCount  int        `json:"view_count"`
	Tags       []string   `json:"tags"`
	LastPost   *time.Time `json:"last_post"`
	Slug       string     `json:"slug"`
}

// TopicDetail adds the raw Markdown and rendered HTML.
type TopicDetail struct {
	TopicSummary
	Content     string `json:"content"`
	ContentHTML string `json:"content_html"`
}

// PaginatedResponse is one page of items plus pagination metadata.
type PaginatedResponse[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

// HealthResponse reports service readiness and snapshot counts.
type HealthResponse struct {
	Status           string `json:"status"`
	TopicsLoaded     int    `json:"topics_loaded"`
	CategoriesLoaded int    `json:"categories_loaded"`
}

func toCategorySummary(cat loader.Category, topicCount int) CategorySummary {
	return CategorySummary{
		ID:            cat.ID,
		Name:          cat.Name,
		Slug:          cat.Slug,
		ParentCID:     cat.ParentID,
		Icon:          cat.Icon,
		BgColor:       cat.BgColor,
		Color:         cat.Color,
		Order:         cat.Order,
		Disabled:      cat.Disabled,
		IsSubcategory: !cat.IsRoot(),
		TopicCount:    topicCount,
		PostCount:     cat.PostCount,
	}
}

func toTopicSummary(topic loader.Topic) TopicSummary {
	summary := TopicSummary{
		TopicID:    topic.ID,
		Title:      topic.Title,
		AuthorID:   topic.AuthorID,
		CategoryID: topic.CategoryID,
		Created:    topic.Created,
		Deleted:    topic.Deleted,
		Locked:     topic.Locked,
		Pinned:     topic.Pinned,
		PostCount:  topic.PostCount,
		Rating:     topic.Rating,
		ViewCount:  topic.ViewCount,
		Tags:       topic.Tags,
		Slug:       topic.Slug,
	}
	if summary.Tags == nil {
		summary.Tags = []string{}
	}
	if !topic.LastPost.IsZero() {
		lastPost := topic.LastPost
		summary.LastPost = &lastPost
	}
	return summary
}

func toTopicSummaries(topics []loader.Topic) []TopicSummary {
	out := make([]TopicSummary, 0, len(topics))
	for _, topic := range topics {
		out = append(out, toTopicSummary(topic))
	}
	return out
}

func toPaginated(result query.Result) PaginatedResponse[TopicSummary] {
	return PaginatedResponse[TopicSummary]{
		Items:      toTopicSummaries(result.Items),
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}
}

func toTreeNodes(nodes []store.TreeNode) []CategoryTreeNode {
	out := make([]CategoryTreeNode, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, CategoryTreeNode{
			CategorySummary: toCategorySummary(node.Category, node.TopicCount),
			Children:        toTreeNodes(node.Children),
		})
	}
	return out
}
