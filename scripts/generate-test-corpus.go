//go:build ignore

// Generates a synthetic forum corpus for benchmarking and manual testing.
// Usage: go run scripts/generate-test-corpus.go -categories 10 -topics 1000 -output testdata/bench
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"
)

var (
	numCategories = flag.Int("categories", 10, "Number of categories to generate")
	numTopics     = flag.Int("topics", 1000, "Number of topics to generate")
	outputDir     = flag.String("output", "testdata/bench", "Output directory")
	seed          = flag.Int64("seed", 42, "Random seed for reproducibility")
)

var titleWords = []string{
	"mission", "briefing", "debrief", "server", "event", "training",
	"campaign", "tournament", "announcement", "update", "schedule",
	"results", "squadron", "patch", "feedback", "recruitment",
}

var bodyParagraphs = []string{
	"The operation starts at **2000 UTC** on the training server.",
	"Please confirm attendance in this topic before Friday.",
	"Full results are listed below:\n\n| Pilot | Score |\n|-------|-------|\n| Alpha | 12 |\n| Bravo | 9 |",
	"See the attached map for the ingress route.",
	"This schedule replaces the one posted last month.",
}

func main() {
	flag.Parse()
	rng := rand.New(rand.NewSource(*seed))

	if err := run(rng); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(rng *rand.Rand) error {
	export := "export_info:\n" +
		fmt.Sprintf("  total_users: %d\n", *numTopics/3+1) +
		fmt.Sprintf("  total_categories: %d\n", *numCategories) +
		fmt.Sprintf("  total_topics: %d\n", *numTopics) +
		fmt.Sprintf("  total_posts: %d\n", *numTopics*4)
	if err := writeFile(filepath.Join(*outputDir, "_export.yml"), export); err != nil {
		return err
	}

	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for c := 1; c <= *numCategories; c++ {
		dir := filepath.Join(*outputDir, fmt.Sprintf("category-%02d", c))
		descriptor := fmt.Sprintf("id: %d\nname: Category %d\nslug: category-%02d\norder: %d\n", c, c, c, c)
		if err := writeFile(filepath.Join(dir, "_category.yml"), descriptor); err != nil {
			return err
		}
	}

	for t := 1; t <= *numTopics; t++ {
		cat := rng.Intn(*numCategories) + 1
		title := randomTitle(rng)
		created := base.Add(time.Duration(rng.Intn(4*365*24)) * time.Hour)

		content := fmt.Sprintf(`---
topic_id: %d
title: %s
author_id: %d
category_id: %d
created: "%s"
view_count: %d
rating: %d
post_count: %d
---
%s
`,
			t, title, rng.Intn(500)+1, cat,
			created.Format("2006-01-02T15:04:05"),
			rng.Intn(5000), rng.Intn(10), rng.Intn(40)+1,
			bodyParagraphs[rng.Intn(len(bodyParagraphs))])

		name := fmt.Sprintf("%d-%s.md", t, slugify(title))
		dir := filepath.Join(*outputDir, fmt.Sprintf("category-%02d", cat))
		if err := writeFile(filepath.Join(dir, name), content); err != nil {
			return err
		}
	}

	fmt.Printf("generated %d categories, %d topics in %s\n", *numCategories, *numTopics, *outputDir)
	return nil
}

func randomTitle(rng *rand.Rand) string {
	n := rng.Intn(3) + 2
	title := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			title += " "
		}
		title += titleWords[rng.Intn(len(titleWords))]
	}
	return title
}

func slugify(title string) string {
	out := make([]byte, 0, len(title))
	for i := 0; i < len(title); i++ {
		if title[i] == ' ' {
			out = append(out, '-')
			continue
		}
		out = append(out, title[i])
	}
	return string(out)
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
