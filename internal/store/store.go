// Package store owns the loaded forum corpus and its derived indices.
//
// A Store is an immutable snapshot built once from a loader.Dataset.
// All lookup maps and orderings are computed at construction; nothing is
// mutated afterwards, so concurrent readers need no locking. Replacing
// the corpus means building a new Store off the hot path and publishing
// it through a Provider with one atomic swap.
package store

import (
	"sort"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mleroy/agora/internal/loader"
)

// DefaultRenderCacheSize is the default LRU capacity for rendered topic
// bodies.
const DefaultRenderCacheSize = 512

// Stats summarizes a loaded snapshot for info and health reporting.
type Stats struct {
	Categories int       `json:"categories"`
	Topics     int       `json:"topics"`
	LoadedAt   time.Time `json:"loaded_at"`
}

// TreeNode is a category with its resolved children, used for the
// nested tree view.
type TreeNode struct {
	Category   loader.Category
	TopicCount int
	Children   []TreeNode
}

// Store is an immutable snapshot of the corpus with derived indices.
type Store struct {
	categoriesByID map[int64]loader.Category
	topicsByID     map[int64]loader.Topic

	// categoryTree maps parent id (0 is the synthetic root key) to the
	// ordered child category ids.
	categoryTree map[int64][]int64

	// categoryTopics maps category id to the ids of topics directly in
	// that category, in walk order.
	categoryTopics map[int64][]int64

	// topicOrder preserves walk order for AllTopics.
	topicOrder []int64

	info     loader.ExportInfo
	loadedAt time.Time

	renderer *Renderer
	rendered *lru.Cache[int64, string]
}

// Option configures a Store under construction.
type Option func(*Store)

// WithRenderCacheSize sets the rendered-HTML cache capacity.
// Zero disables memoization.
func WithRenderCacheSize(n int) Option {
	return func(s *Store) {
		s.rendered = nil
		if n > 0 {
			cache, err := lru.New[int64, string](n)
			if err == nil {
				s.rendered = cache
			}
		}
	}
}

// New builds a Store from a validated dataset.
//
// The loader has already checked referential integrity and id
// uniqueness; construction only derives indices. Sibling categories are
// ordered by their descriptor order field, ties keeping traversal order.
func New(ds *loader.Dataset, opts ...Option) *Store {
	s := &Store{
		categoriesByID: make(map[int64]loader.Category, len(ds.Categories)),
		topicsByID:     make(map[int64]loader.Topic, len(ds.Topics)),
		categoryTree:   make(map[int64][]int64),
		categoryTopics: make(map[int64][]int64),
		topicOrder:     make([]int64, 0, len(ds.Topics)),
		info:           ds.Info,
		loadedAt:       ds.LoadedAt,
		renderer:       NewRenderer(),
	}

	WithRenderCacheSize(DefaultRenderCacheSize)(s)
	for _, opt := range opts {
		opt(s)
	}

	for _, cat := range ds.Categories {
		s.categoriesByID[cat.ID] = cat
		s.categoryTree[cat.ParentID] = append(s.categoryTree[cat.ParentID], cat.ID)
	}

	// Sibling order: descriptor order field first, traversal order for ties.
	for parent, children := range s.categoryTree {
		ordered := children
		sort.SliceStable(ordered, func(i, j int) bool {
			return s.categoriesByID[ordered[i]].Order < s.categoriesByID[ordered[j]].Order
		})
		s.categoryTree[parent] = ordered
	}

	for _, topic := range ds.Topics {
		s.topicsByID[topic.ID] = topic
		s.topicOrder = append(s.topicOrder, topic.ID)
		s.categoryTopics[topic.CategoryID] = append(s.categoryTopics[topic.CategoryID], topic.ID)
	}

	return s
}

// GetCategory returns the category with the given id.
func (s *Store) GetCategory(id int64) (loader.Category, bool) {
	cat, ok := s.categoriesByID[id]
	return cat, ok
}

// RootCategories returns the ordered root categories.
func (s *Store) RootCategories() []loader.Category {
	return s.resolveCategories(s.categoryTree[0])
}

// Children returns the ordered direct children of a category.
// Unknown ids yield an empty slice.
func (s *Store) Children(id int64) []loader.Category {
	return s.resolveCategories(s.categoryTree[id])
}

// CategoryPath returns the categories from root down to id, for
// breadcrumb navigation. ok is false when id is unknown.
func (s *Store) CategoryPath(id int64) ([]loader.Category, bool) {
	cat, ok := s.categoriesByID[id]
	if !ok {
		return nil, false
	}

	var path []loader.Category
	for {
		path = append(path, cat)
		if cat.ParentID == 0 {
			break
		}
		cat = s.categoriesByID[cat.ParentID]
	}

	// Reverse into root-first order.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, true
}

// TopicsInCategory returns the topic ids in a category. Non-recursive
// returns direct topics only, in walk order. Recursive unions the
// direct topics with every descendant category's topics, depth-first.
func (s *Store) TopicsInCategory(id int64, recursive bool) []int64 {
	direct := s.categoryTopics[id]
	if !recursive {
		out := make([]int64, len(direct))
		copy(out, direct)
		return out
	}

	var out []int64
	out = append(out, direct...)
	for _, child := range s.categoryTree[id] {
		out = append(out, s.TopicsInCategory(child, true)...)
	}
	return out
}

// TopicCount returns the number of topics in a category, optionally
// including all descendants.
func (s *Store) TopicCount(id int64, recursive bool) int {
	if !recursive {
		return len(s.categoryTopics[id])
	}
	n := len(s.categoryTopics[id])
	for _, child := range s.categoryTree[id] {
		n += s.TopicCount(child, true)
	}
	return n
}

// GetTopic returns the topic with the given id.
func (s *Store) GetTopic(id int64) (loader.Topic, bool) {
	topic, ok := s.topicsByID[id]
	return topic, ok
}

// AllTopics returns every topic in walk order. The caller pages.
func (s *Store) AllTopics() []loader.Topic {
	out := make([]loader.Topic, 0, len(s.topicOrder))
	for _, id := range s.topicOrder {
		out = append(out, s.topicsByID[id])
	}
	return out
}

// AllTopicIDs returns every topic id in walk order.
func (s *Store) AllTopicIDs() []int64 {
	out := make([]int64, len(s.topicOrder))
	copy(out, s.topicOrder)
	return out
}

// RecentTopics returns up to n topics ordered by created descending,
// ties broken by ascending id.
func (s *Store) RecentTopics(n int) []loader.Topic {
	topics := s.AllTopics()
	sort.SliceStable(topics, func(i, j int) bool {
		if topics[i].Created.Equal(topics[j].Created) {
			return topics[i].ID < topics[j].ID
		}
		return topics[i].Created.After(topics[j].Created)
	})
	if n >= 0 && n < len(topics) {
		topics = topics[:n]
	}
	return topics
}

// CategoryTree returns the nested category tree starting at the roots.
// Each node carries its recursive topic count.
func (s *Store) CategoryTree() []TreeNode {
	return s.buildTree(0)
}

func (s *Store) buildTree(parent int64) []TreeNode {
	children := s.categoryTree[parent]
	if len(children) == 0 {
		return nil
	}

	nodes := make([]TreeNode, 0, len(children))
	for _, id := range children {
		nodes = append(nodes, TreeNode{
			Category:   s.categoriesByID[id],
			TopicCount: s.TopicCount(id, true),
			Children:   s.buildTree(id),
		})
	}
	return nodes
}

// TopicHTML renders a topic's Markdown body to HTML, memoizing the
// result. Rendering is deterministic, so a cached value never goes
// stale within a snapshot. ok is false when the id is unknown.
func (s *Store) TopicHTML(id int64) (html string, ok bool, err error) {
	topic, ok := s.topicsByID[id]
	if !ok {
		return "", false, nil
	}

	if s.rendered != nil {
		if cached, hit := s.rendered.Get(id); hit {
			return cached, true, nil
		}
	}

	html, err = s.renderer.Render(topic.Body)
	if err != nil {
		return "", true, err
	}

	if s.rendered != nil {
		s.rendered.Add(id, html)
	}
	return html, true, nil
}

// Info returns the corpus export metadata.
func (s *Store) Info() loader.ExportInfo {
	return s.info
}

// Stats returns snapshot counts for info and health reporting.
func (s *Store) Stats() Stats {
	return Stats{
		Categories: len(s.categoriesByID),
		Topics:     len(s.topicsByID),
		LoadedAt:   s.loadedAt,
	}
}

func (s *Store) resolveCategories(ids []int64) []loader.Category {
	out := make([]loader.Category, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.categoriesByID[id])
	}
	return out
}
