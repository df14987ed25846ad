package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetStyles_NoColorIsPlain(t *testing.T) {
	styles := GetStyles(true)

	// Plain styles render text verbatim.
	assert.Equal(t, "hello", styles.Header.Render("hello"))
	assert.Equal(t, "hello", styles.Error.Render("hello"))
}

func TestAutoStyles_HonorsNoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	styles := AutoStyles()
	assert.Equal(t, "plain", styles.Success.Render("plain"))
}
