package loader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	agoraerrors "github.com/mleroy/agora/internal/errors"
)

const (
	exportFileName   = "_export.yml"
	categoryFileName = "_category.yml"
)

// topicFilePattern matches topic files named <numeric-id>-<slug>.md.
var topicFilePattern = regexp.MustCompile(`^\d+-.+\.md$`)

// Loader reads a corpus from a root directory into a Dataset.
type Loader struct {
	root    string
	workers int
	logger  *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithWorkers sets the number of concurrent topic parsers (default NumCPU).
func WithWorkers(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithLogger sets the logger used for load progress.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// New creates a Loader for the given corpus root.
func New(root string, opts ...Option) *Loader {
	l := &Loader{
		root:    root,
		workers: runtime.NumCPU(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load walks the corpus and returns a fully materialized Dataset, or the
// first load error encountered. An empty corpus is a valid, successful
// load. Deterministic given identical input files.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	start := time.Now()

	info, err := os.Stat(l.root)
	if err != nil {
		return nil, agoraerrors.New(agoraerrors.ErrCodeDataRoot,
			fmt.Sprintf("cannot access data root %s", l.root), err)
	}
	if !info.IsDir() {
		return nil, agoraerrors.New(agoraerrors.ErrCodeDataRoot,
			fmt.Sprintf("data root %s is not a directory", l.root), nil)
	}

	ds := &Dataset{LoadedAt: start}

	if err := l.loadExportInfo(ds); err != nil {
		return nil, err
	}

	var topicPaths []string
	if err := l.walk(ctx, l.root, 0, ds, &topicPaths); err != nil {
		return nil, err
	}

	topics, err := l.parseTopics(ctx, topicPaths)
	if err != nil {
		return nil, err
	}
	ds.Topics = topics

	if err := validate(ds); err != nil {
		return nil, err
	}

	l.logger.Info("corpus loaded",
		slog.String("root", l.root),
		slog.Int("categories", len(ds.Categories)),
		slog.Int("topics", len(ds.Topics)),
		slog.Duration("elapsed", time.Since(start)))

	return ds, nil
}

// loadExportInfo reads the optional _export.yml descriptor.
// Absence is fine; a present but unparseable file is not.
func (l *Loader) loadExportInfo(ds *Dataset) error {
	path := filepath.Join(l.root, exportFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return agoraerrors.New(agoraerrors.ErrCodeExportInfoInvalid,
			fmt.Sprintf("cannot read %s", exportFileName), err)
	}

	var parsed exportFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return agoraerrors.New(agoraerrors.ErrCodeExportInfoInvalid,
			fmt.Sprintf("cannot parse %s", exportFileName), err)
	}

	ds.Info = parsed.ExportInfo
	return nil
}

// walk recurses through the corpus depth-first, threading the enclosing
// category id down so nested descriptors without an explicit parent_cid
// still link to their parent. Directory entries are visited in name
// order, which makes traversal order deterministic.
func (l *Loader) walk(ctx context.Context, dir string, parentID int64, ds *Dataset, topicPaths *[]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return agoraerrors.New(agoraerrors.ErrCodeDataRoot,
			fmt.Sprintf("cannot read directory %s", dir), err)
	}

	currentID := parentID

	// The category descriptor, if present, establishes this directory's
	// category before topics and subdirectories are visited.
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() != categoryFileName {
			continue
		}
		cat, err := l.parseCategory(filepath.Join(dir, entry.Name()), parentID)
		if err != nil {
			return err
		}
		ds.Categories = append(ds.Categories, cat)
		currentID = cat.ID
	}

	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(dir, name)

		if entry.IsDir() {
			// The image asset directory is referenced by topic bodies but
			// never parsed.
			if dir == l.root && name == "images" {
				continue
			}
			if err := l.walk(ctx, path, currentID, ds, topicPaths); err != nil {
				return err
			}
			continue
		}

		if topicFilePattern.MatchString(name) {
			*topicPaths = append(*topicPaths, path)
		}
	}

	return nil
}

// parseCategory reads one _category.yml descriptor.
func (l *Loader) parseCategory(path string, inheritedParent int64) (Category, error) {
	rel := l.relPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return Category{}, agoraerrors.MalformedCategory(rel, err)
	}

	var parsed categoryFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return Category{}, agoraerrors.MalformedCategory(rel, err)
	}

	if parsed.ID == nil {
		return Category{}, agoraerrors.MalformedCategory(rel, fmt.Errorf("missing required field: id"))
	}
	if parsed.Name == nil || *parsed.Name == "" {
		return Category{}, agoraerrors.MalformedCategory(rel, fmt.Errorf("missing required field: name"))
	}

	parentID := parsed.ParentCID
	if parentID == 0 {
		parentID = inheritedParent
	}

	return Category{
		ID:        *parsed.ID,
		Name:      *parsed.Name,
		Slug:      parsed.Slug,
		ParentID:  parentID,
		Order:     parsed.Order,
		Disabled:  parsed.Disabled,
		Icon:      parsed.Icon,
		BgColor:   parsed.BgColor,
		Color:     parsed.Color,
		PostCount: parsed.PostCount,
		Dir:       filepath.Dir(rel),
	}, nil
}

// parseTopics parses topic files concurrently. Results keep walk order;
// the first parse error cancels the remaining workers.
func (l *Loader) parseTopics(ctx context.Context, paths []string) ([]Topic, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	topics := make([]Topic, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			topic, err := l.parseTopic(path)
			if err != nil {
				return err
			}
			topics[i] = topic
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return topics, nil
}

// parseTopic reads one topic file: YAML front-matter plus Markdown body.
func (l *Loader) parseTopic(path string) (Topic, error) {
	rel := l.relPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return Topic{}, agoraerrors.MalformedTopic(rel, err)
	}

	meta, body, err := splitFrontmatter(string(data))
	if err != nil {
		return Topic{}, agoraerrors.MalformedTopic(rel, err)
	}

	var parsed topicMeta
	if err := yaml.Unmarshal([]byte(meta), &parsed); err != nil {
		return Topic{}, agoraerrors.MalformedTopic(rel, err)
	}

	switch {
	case parsed.TopicID == nil:
		return Topic{}, agoraerrors.MalformedTopic(rel, fmt.Errorf("missing required field: topic_id"))
	case parsed.Title == nil || *parsed.Title == "":
		return Topic{}, agoraerrors.MalformedTopic(rel, fmt.Errorf("missing required field: title"))
	case parsed.AuthorID == nil:
		return Topic{}, agoraerrors.MalformedTopic(rel, fmt.Errorf("missing required field: author_id"))
	case parsed.CategoryID == nil:
		return Topic{}, agoraerrors.MalformedTopic(rel, fmt.Errorf("missing required field: category_id"))
	case parsed.Created == nil:
		return Topic{}, agoraerrors.MalformedTopic(rel, fmt.Errorf("missing required field: created"))
	}

	topic := Topic{
		ID:         *parsed.TopicID,
		Title:      *parsed.Title,
		AuthorID:   *parsed.AuthorID,
		CategoryID: *parsed.CategoryID,
		Created:    parsed.Created.Time,
		ViewCount:  parsed.ViewCount,
		Rating:     parsed.Rating,
		Deleted:    parsed.Deleted,
		Locked:     parsed.Locked,
		Pinned:     parsed.Pinned,
		PostCount:  parsed.PostCount,
		Tags:       parsed.Tags,
		Slug:       strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Path:       rel,
		Body:       body,
	}
	if parsed.LastPost != nil {
		topic.LastPost = parsed.LastPost.Time
	}

	return topic, nil
}

// validate checks referential integrity and id uniqueness over the
// complete dataset. Runs after the walk so forward references between
// sibling directories resolve.
func validate(ds *Dataset) error {
	categoryByID := make(map[int64]Category, len(ds.Categories))
	for _, cat := range ds.Categories {
		if _, ok := categoryByID[cat.ID]; ok {
			return agoraerrors.DuplicateID("category", cat.ID, filepath.Join(cat.Dir, categoryFileName))
		}
		categoryByID[cat.ID] = cat
	}

	topicByID := make(map[int64]string, len(ds.Topics))
	for _, topic := range ds.Topics {
		if _, ok := topicByID[topic.ID]; ok {
			return agoraerrors.DuplicateID("topic", topic.ID, topic.Path)
		}
		topicByID[topic.ID] = topic.Path
	}

	for _, cat := range ds.Categories {
		if cat.ParentID == 0 {
			continue
		}
		if _, ok := categoryByID[cat.ParentID]; !ok {
			return agoraerrors.DanglingReference("category", cat.ID, cat.ParentID)
		}
	}

	for _, topic := range ds.Topics {
		if _, ok := categoryByID[topic.CategoryID]; !ok {
			return agoraerrors.DanglingReference("topic", topic.ID, topic.CategoryID)
		}
	}

	// The parent relation must form a forest: following parents from any
	// category terminates at a root without revisiting a node.
	for _, cat := range ds.Categories {
		seen := map[int64]bool{cat.ID: true}
		for cur := cat; cur.ParentID != 0; {
			next := categoryByID[cur.ParentID]
			if seen[next.ID] {
				return agoraerrors.New(agoraerrors.ErrCodeDanglingReference,
					fmt.Sprintf("category %d is part of a parent cycle", cat.ID), nil).
					WithDetail("id", fmt.Sprintf("%d", cat.ID))
			}
			seen[next.ID] = true
			cur = next
		}
	}

	return nil
}

// relPath returns path relative to the corpus root for error reporting.
func (l *Loader) relPath(path string) string {
	rel, err := filepath.Rel(l.root, path)
	if err != nil {
		return path
	}
	return rel
}
