package loader

import (
	"fmt"
	"strings"
)

const frontmatterDelim = "---"

// splitFrontmatter splits a topic file into its YAML front-matter and
// Markdown body. Expected format:
//
//	---
//	<YAML>
//	---
//	<body>
func splitFrontmatter(content string) (meta, body string, err error) {
	rest, ok := strings.CutPrefix(content, frontmatterDelim+"\n")
	if !ok {
		// Tolerate a BOM or leading blank lines before the opening delimiter.
		trimmed := strings.TrimLeft(content, "\uFEFF \t\r\n")
		rest, ok = strings.CutPrefix(trimmed, frontmatterDelim+"\n")
		if !ok {
			return "", "", fmt.Errorf("file does not start with %s front-matter delimiter", frontmatterDelim)
		}
	}

	// The closing delimiter is a line holding exactly "---". Lines that
	// merely start with it, like a "----" underline inside a YAML string,
	// do not close the block.
	closing := "\n" + frontmatterDelim
	for from := 0; ; {
		idx := strings.Index(rest[from:], closing)
		if idx < 0 {
			return "", "", fmt.Errorf("missing closing %s front-matter delimiter", frontmatterDelim)
		}

		pos := from + idx
		end := pos + len(closing)
		switch {
		case end == len(rest):
			return rest[:pos+1], "", nil
		case rest[end] == '\n':
			return rest[:pos+1], rest[end+1:], nil
		}
		from = pos + 1
	}
}
