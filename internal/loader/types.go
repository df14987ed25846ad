// Package loader reads an exported forum corpus from disk: an optional
// _export.yml descriptor, per-directory _category.yml descriptors, and
// topic files named <id>-<slug>.md carrying YAML front-matter plus a
// Markdown body.
//
// The loader is strict: the first malformed file, duplicate id, or
// unresolved reference aborts the whole load. A wrong index is worse
// than a failed start.
package loader

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Category is a forum category as declared by a _category.yml descriptor.
type Category struct {
	ID       int64
	Name     string
	Slug     string
	ParentID int64 // 0 marks a root category
	Order    int
	Disabled bool
	Icon     string
	BgColor  string
	Color    string
	// PostCount is the static post total carried over from the export.
	PostCount int
	// Dir is the descriptor's directory, relative to the corpus root.
	Dir string
}

// IsRoot reports whether the category has no parent.
func (c Category) IsRoot() bool {
	return c.ParentID == 0
}

// Topic is a forum topic parsed from a single Markdown file.
type Topic struct {
	ID         int64
	Title      string
	AuthorID   int64
	CategoryID int64
	Created    time.Time
	// LastPost is zero when the export carries no last-post timestamp.
	LastPost  time.Time
	ViewCount int
	Rating    int
	Deleted   bool
	Locked    bool
	Pinned    bool
	PostCount int
	Tags      []string
	// Slug is the filename stem, e.g. "42-mission-debrief".
	Slug string
	// Path is the topic file path relative to the corpus root.
	Path string
	// Body is the raw Markdown content after the front-matter block.
	Body string
}

// ExportInfo is the optional corpus-wide metadata from _export.yml.
type ExportInfo struct {
	TotalUsers      int `yaml:"total_users" json:"total_users"`
	TotalCategories int `yaml:"total_categories" json:"total_categories"`
	TotalTopics     int `yaml:"total_topics" json:"total_topics"`
	TotalPosts      int `yaml:"total_posts" json:"total_posts"`
}

// Dataset is the fully materialized result of one load.
// Categories appear in directory traversal order, topics in walk order.
type Dataset struct {
	Categories []Category
	Topics     []Topic
	Info       ExportInfo
	LoadedAt   time.Time
}

// Timestamp parses the export's date formats from YAML scalars.
// The export mixes ISO timestamps with and without fractional seconds,
// space-separated variants, and bare dates.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *Timestamp) UnmarshalYAML(value *yaml.Node) error {
	s := value.Value
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// categoryFile is the on-disk schema of a _category.yml descriptor.
// Pointers distinguish absent required fields from zero values.
type categoryFile struct {
	ID        *int64  `yaml:"id"`
	Name      *string `yaml:"name"`
	Slug      string  `yaml:"slug"`
	ParentCID int64   `yaml:"parent_cid"`
	Order     int     `yaml:"order"`
	Disabled  bool    `yaml:"disabled"`
	Icon      string  `yaml:"icon"`
	BgColor   string  `yaml:"bgColor"`
	Color     string  `yaml:"color"`
	PostCount int     `yaml:"postcount"`
}

// topicMeta is the front-matter schema of a topic file.
type topicMeta struct {
	TopicID    *int64     `yaml:"topic_id"`
	Title      *string    `yaml:"title"`
	AuthorID   *int64     `yaml:"author_id"`
	CategoryID *int64     `yaml:"category_id"`
	Created    *Timestamp `yaml:"created"`
	LastPost   *Timestamp `yaml:"last_post"`
	ViewCount  int        `yaml:"view_count"`
	Rating     int        `yaml:"rating"`
	Deleted    bool       `yaml:"deleted"`
	Locked     bool       `yaml:"locked"`
	Pinned     bool       `yaml:"pinned"`
	PostCount  int        `yaml:"post_count"`
	Tags       []string   `yaml:"tags"`
}

// exportFile is the on-disk schema of _export.yml.
type exportFile struct {
	ExportInfo ExportInfo `yaml:"export_info"`
}
