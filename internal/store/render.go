package store

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	agoraerrors "github.com/mleroy/agora/internal/errors"
)

// Renderer converts topic Markdown bodies to HTML.
//
// The export was written for a renderer with tables, fenced code blocks
// and newline-to-break behavior, so GFM plus hard wraps reproduces it.
// Raw HTML is passed through: the corpus is a trusted, immutable export.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a Renderer with the corpus rendering profile.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
				html.WithUnsafe(),
			),
		),
	}
}

// Render converts Markdown to HTML. Deterministic and idempotent for a
// given input.
func (r *Renderer) Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", agoraerrors.New(agoraerrors.ErrCodeRenderFailed, "markdown rendering failed", err)
	}
	return buf.String(), nil
}
