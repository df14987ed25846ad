package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	agoraerrors "github.com/mleroy/agora/internal/errors"
)

// yamlUnmarshalString decodes a single YAML scalar into a Timestamp.
func yamlUnmarshalString(s string, out *Timestamp) error {
	return yaml.Unmarshal([]byte(s), out)
}

// writeFile creates a file under root, creating parent directories.
func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// writeFixtureCorpus lays out a small two-level corpus:
//
//	_export.yml
//	general/_category.yml        (id 1, root)
//	general/missions/_category.yml (id 2, child of 1)
//	general/missions/10-hello-world.md
//	general/missions/11-hello-again.md
//	images/banner.png
func writeFixtureCorpus(t *testing.T, root string) {
	t.Helper()

	writeFile(t, root, "_export.yml", `
export_info:
  total_users: 120
  total_categories: 2
  total_topics: 2
  total_posts: 340
`)
	writeFile(t, root, "general/_category.yml", `
id: 1
name: General
slug: general
order: 1
`)
	writeFile(t, root, "general/missions/_category.yml", `
id: 2
name: Missions
slug: general/missions
parent_cid: 1
order: 2
`)
	writeFile(t, root, "general/missions/10-hello-world.md", `---
topic_id: 10
title: Hello World
author_id: 7
category_id: 2
created: 2021-03-04T10:30:00
view_count: 250
rating: 3
---
First topic body with an image ![banner](/images/banner.png).
`)
	writeFile(t, root, "general/missions/11-hello-again.md", `---
topic_id: 11
title: Hello Again
author_id: 8
category_id: 2
created: 2021-05-06 18:00:00
last_post: 2021-05-07
tags:
  - debrief
  - training
---
Second topic body.
`)
	writeFile(t, root, "images/banner.png", "not really a png")
}

func TestLoad_FullCorpus(t *testing.T) {
	root := t.TempDir()
	writeFixtureCorpus(t, root)

	ds, err := New(root).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, ds.Categories, 2)
	assert.Equal(t, int64(1), ds.Categories[0].ID)
	assert.Equal(t, "General", ds.Categories[0].Name)
	assert.True(t, ds.Categories[0].IsRoot())
	assert.Equal(t, int64(2), ds.Categories[1].ID)
	assert.Equal(t, int64(1), ds.Categories[1].ParentID)

	require.Len(t, ds.Topics, 2)
	assert.Equal(t, int64(10), ds.Topics[0].ID)
	assert.Equal(t, "Hello World", ds.Topics[0].Title)
	assert.Equal(t, int64(7), ds.Topics[0].AuthorID)
	assert.Equal(t, 250, ds.Topics[0].ViewCount)
	assert.Equal(t, "10-hello-world", ds.Topics[0].Slug)
	assert.Contains(t, ds.Topics[0].Body, "First topic body")
	assert.True(t, ds.Topics[0].LastPost.IsZero())

	assert.Equal(t, int64(11), ds.Topics[1].ID)
	assert.Equal(t, []string{"debrief", "training"}, ds.Topics[1].Tags)
	assert.Equal(t, time.Date(2021, 5, 7, 0, 0, 0, 0, time.UTC), ds.Topics[1].LastPost)

	assert.Equal(t, 120, ds.Info.TotalUsers)
	assert.Equal(t, 340, ds.Info.TotalPosts)
	assert.False(t, ds.LoadedAt.IsZero())
}

func TestLoad_Deterministic(t *testing.T) {
	root := t.TempDir()
	writeFixtureCorpus(t, root)

	first, err := New(root).Load(context.Background())
	require.NoError(t, err)
	second, err := New(root, WithWorkers(1)).Load(context.Background())
	require.NoError(t, err)

	require.Equal(t, len(first.Categories), len(second.Categories))
	for i := range first.Categories {
		assert.Equal(t, first.Categories[i].ID, second.Categories[i].ID)
	}
	require.Equal(t, len(first.Topics), len(second.Topics))
	for i := range first.Topics {
		assert.Equal(t, first.Topics[i].ID, second.Topics[i].ID)
	}
}

func TestLoad_EmptyCorpusSucceeds(t *testing.T) {
	ds, err := New(t.TempDir()).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ds.Categories)
	assert.Empty(t, ds.Topics)
	assert.Zero(t, ds.Info)
}

func TestLoad_MissingRootFails(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope")).Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, agoraerrors.ErrCodeDataRoot, agoraerrors.GetCode(err))
}

func TestLoad_MissingExportInfoIsFine(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "general/_category.yml", "id: 1\nname: General\n")

	ds, err := New(root).Load(context.Background())
	require.NoError(t, err)
	assert.Zero(t, ds.Info)
}

func TestLoad_MalformedExportInfoFails(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "_export.yml", "export_info: [broken")

	_, err := New(root).Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, agoraerrors.ErrCodeExportInfoInvalid, agoraerrors.GetCode(err))
}

func TestLoad_TopicMissingTitleFailsNamingFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "general/_category.yml", "id: 1\nname: General\n")
	writeFile(t, root, "general/10-no-title.md", `---
topic_id: 10
author_id: 7
category_id: 1
created: 2021-01-01
---
body
`)

	_, err := New(root).Load(context.Background())
	require.Error(t, err)

	var ae *agoraerrors.AgoraError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, agoraerrors.ErrCodeMalformedTopic, ae.Code)
	assert.Equal(t, filepath.Join("general", "10-no-title.md"), ae.Details["file"])
	assert.True(t, agoraerrors.IsFatal(err))
}

func TestLoad_TopicBadFrontmatterFails(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "general/_category.yml", "id: 1\nname: General\n")
	writeFile(t, root, "general/10-broken.md", "no front-matter here\n")

	_, err := New(root).Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, agoraerrors.ErrCodeMalformedTopic, agoraerrors.GetCode(err))
}

func TestLoad_TopicBadTimestampFails(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "general/_category.yml", "id: 1\nname: General\n")
	writeFile(t, root, "general/10-bad-time.md", `---
topic_id: 10
title: Bad Time
author_id: 7
category_id: 1
created: sometime last week
---
body
`)

	_, err := New(root).Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, agoraerrors.ErrCodeMalformedTopic, agoraerrors.GetCode(err))
}

func TestLoad_CategoryMissingNameFails(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "general/_category.yml", "id: 1\n")

	_, err := New(root).Load(context.Background())
	require.Error(t, err)

	var ae *agoraerrors.AgoraError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, agoraerrors.ErrCodeMalformedCategory, ae.Code)
	assert.Equal(t, filepath.Join("general", "_category.yml"), ae.Details["file"])
}

func TestLoad_DanglingParentFails(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "general/_category.yml", "id: 1\nname: General\nparent_cid: 99\n")

	_, err := New(root).Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, agoraerrors.ErrCodeDanglingReference, agoraerrors.GetCode(err))
}

func TestLoad_DanglingTopicCategoryFails(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "general/_category.yml", "id: 1\nname: General\n")
	writeFile(t, root, "general/10-orphan.md", `---
topic_id: 10
title: Orphan
author_id: 7
category_id: 42
created: 2021-01-01
---
body
`)

	_, err := New(root).Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, agoraerrors.ErrCodeDanglingReference, agoraerrors.GetCode(err))
}

func TestLoad_DuplicateTopicIDFails(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "general/_category.yml", "id: 1\nname: General\n")
	for _, name := range []string{"10-first.md", "10-second.md"} {
		writeFile(t, root, "general/"+name, `---
topic_id: 10
title: Duplicate
author_id: 7
category_id: 1
created: 2021-01-01
---
body
`)
	}

	_, err := New(root).Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, agoraerrors.ErrCodeDuplicateID, agoraerrors.GetCode(err))
}

func TestLoad_DuplicateCategoryIDFails(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a/_category.yml", "id: 1\nname: A\n")
	writeFile(t, root, "b/_category.yml", "id: 1\nname: B\n")

	_, err := New(root).Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, agoraerrors.ErrCodeDuplicateID, agoraerrors.GetCode(err))
}

func TestLoad_ParentCycleFails(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a/_category.yml", "id: 1\nname: A\nparent_cid: 2\n")
	writeFile(t, root, "b/_category.yml", "id: 2\nname: B\nparent_cid: 1\n")

	_, err := New(root).Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, agoraerrors.ErrCodeDanglingReference, agoraerrors.GetCode(err))
}

func TestLoad_NestedCategoryInheritsParent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "general/_category.yml", "id: 1\nname: General\n")
	// No explicit parent_cid: the enclosing directory supplies it.
	writeFile(t, root, "general/sub/_category.yml", "id: 2\nname: Sub\n")

	ds, err := New(root).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, ds.Categories, 2)
	assert.Equal(t, int64(1), ds.Categories[1].ParentID)
}

func TestLoad_SkipsNonTopicFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "general/_category.yml", "id: 1\nname: General\n")
	writeFile(t, root, "general/index.md", "# not a topic\n")
	writeFile(t, root, "general/readme.txt", "also not a topic\n")
	writeFile(t, root, "general/notes.md", "no numeric prefix\n")

	ds, err := New(root).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ds.Topics)
}

func TestLoad_SkipsImagesDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "general/_category.yml", "id: 1\nname: General\n")
	// A markdown-looking file inside images/ must not be parsed.
	writeFile(t, root, "images/12-not-a-topic.md", "garbage that is not front-matter\n")

	ds, err := New(root).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ds.Topics)
}

func TestTimestamp_Layouts(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2021-03-04T10:30:00", time.Date(2021, 3, 4, 10, 30, 0, 0, time.UTC)},
		{"2021-03-04T10:30:00.500000", time.Date(2021, 3, 4, 10, 30, 0, 500000000, time.UTC)},
		{"2021-03-04 10:30:00", time.Date(2021, 3, 4, 10, 30, 0, 0, time.UTC)},
		{"2021-03-04", time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, yamlUnmarshalString(tt.input, &ts))
			assert.True(t, ts.Equal(tt.want), "got %s want %s", ts.Time, tt.want)
		})
	}
}

func TestTimestamp_RejectsGarbage(t *testing.T) {
	var ts Timestamp
	assert.Error(t, yamlUnmarshalString("next tuesday", &ts))
}
