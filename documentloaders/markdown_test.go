package documentloaders_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/textwindow/documentloaders"
)

func TestMarkdownLoader_Load(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "release_notes.md", `# Release Notes

First paragraph with **bold** and *italic* text.

Second paragraph
continued on the next line.

- first item
- second item
`)

	loader := documentloaders.NewMarkdown(nil)
	doc, err := loader.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "release_notes", doc.ID)
	assert.Equal(t, "Release Notes", doc.Metadata["title"])
	assert.Equal(t, "markdown", doc.Metadata["format"])

	assert.Contains(t, doc.Text, "First paragraph with bold and italic text.")
	assert.Contains(t, doc.Text, "Second paragraph continued on the next line.")
	assert.Contains(t, doc.Text, "first item")

	// Blocks stay separated by blank lines so paragraph boundaries survive.
	assert.Contains(t, doc.Text, "text.\n\nSecond paragraph")
}

func TestMarkdownLoader_TitleFromFilename(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "getting_started.md", "Just one paragraph, no heading.\n")

	loader := documentloaders.NewMarkdown(nil)
	doc, err := loader.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Getting Started", doc.Metadata["title"])
	assert.Equal(t, "Just one paragraph, no heading.", doc.Text)
}

func TestMarkdownLoader_MissingFile(t *testing.T) {
	loader := documentloaders.NewMarkdown(nil)
	_, err := loader.Load("/nonexistent/file.md")
	assert.Error(t, err)
}
