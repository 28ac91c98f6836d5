package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNarrative_SectionsAndBullets(t *testing.T) {
	raw := `# Your Report

Intro paragraph before any section heading.

### Key Insights
- First insight
* Second insight
1. Third insight

### Why This Fits
You already have the skills this model needs.
The time budget also lines up.

More after a blank line.
`

	content := ParseNarrative(raw)
	assert.Equal(t, "Your Report", content.Title)
	require.Len(t, content.Sections, 3)

	// текст до первого `###` попадает в безымянную секцию
	assert.Equal(t, "", content.Sections[0].Heading)
	require.Len(t, content.Sections[0].Paragraphs, 1)

	insights := content.Sections[1]
	assert.Equal(t, "Key Insights", insights.Heading)
	assert.Equal(t, []string{"First insight", "Second insight", "Third insight"}, insights.Bullets)

	why := content.Sections[2]
	assert.Equal(t, "Why This Fits", why.Heading)
	// соседние строки склеиваются в абзац, пустая строка начинает новый
	require.Len(t, why.Paragraphs, 2)
	assert.Equal(t, "You already have the skills this model needs. The time budget also lines up.", why.Paragraphs[0])

	assert.Equal(t, insights.Bullets, content.KeyInsights)
}

func TestParseNarrative_CodeFencesIgnored(t *testing.T) {
	raw := "```markdown\n### Plan\n- Step one with enough text to matter\n- Step two with enough text to matter\n```"

	content := ParseNarrative(raw)
	require.Len(t, content.Sections, 1)
	assert.Equal(t, "Plan", content.Sections[0].Heading)
	assert.Len(t, content.Sections[0].Bullets, 2)
}

func TestParseNarrative_BoldMarkersStripped(t *testing.T) {
	content := ParseNarrative("### Plan\n- **Launch fast**\n")
	require.Len(t, content.Sections, 1)
	assert.Equal(t, []string{"Launch fast"}, content.Sections[0].Bullets)
}

func TestParseNarrative_KeyInsightsFallbackToFirstBullets(t *testing.T) {
	raw := "### Getting Started\n- Open a separate bank account\n- Register the business name\n"
	content := ParseNarrative(raw)
	assert.Equal(t, []string{"Open a separate bank account", "Register the business name"}, content.KeyInsights)
}

func TestNarrativeIsUsable(t *testing.T) {
	assert.False(t, ParseNarrative("").IsUsable())
	assert.False(t, ParseNarrative("ok").IsUsable())
	assert.False(t, ParseNarrative("### Tiny\nok").IsUsable())
	assert.True(t, ParseNarrative(usableMarkdown).IsUsable())

	var nilContent *NarrativeContent
	assert.False(t, nilContent.IsUsable())
}
