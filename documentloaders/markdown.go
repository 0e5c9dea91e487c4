package documentloaders

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sevigo/textwindow/schema"
)

// MarkdownLoader extracts plain text from markdown files. Block elements are
// separated by blank lines so the paragraph boundary rule sees the original
// structure; inline formatting is dropped.
type MarkdownLoader struct {
	logger *slog.Logger
}

func NewMarkdown(logger *slog.Logger) *MarkdownLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &MarkdownLoader{logger: logger.With("component", "markdown_loader")}
}

func (l *MarkdownLoader) Load(path string) (schema.Document, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return schema.Document{}, fmt.Errorf("reading %s: %w", path, err)
	}

	text, title := extractMarkdownText(source)
	if strings.TrimSpace(text) == "" {
		text = string(source)
	}

	baseName := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if title == "" {
		title = cases.Title(language.English).String(strings.ReplaceAll(baseName, "_", " "))
	}

	doc := schema.NewDocument(baseName, text, map[string]string{
		"source": path,
		"format": "markdown",
		"title":  title,
	})
	l.logger.Debug("markdown loaded", "path", path, "chars", len(text))
	return doc, nil
}

// extractMarkdownText walks the goldmark AST and collects block-level text.
// Returns the text and the first top-level heading, if any.
func extractMarkdownText(source []byte) (string, string) {
	md := goldmark.New()
	root := md.Parser().Parse(gmtext.NewReader(source))

	var blocks []string
	title := ""

	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			content := blockText(node, source)
			if title == "" && node.Level == 1 {
				title = content
			}
			if content != "" {
				blocks = append(blocks, content)
			}
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph:
			content := blockText(n, source)
			if content != "" {
				blocks = append(blocks, content)
			}
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			// Code blocks carry little retrieval value as prose; keep them
			// verbatim anyway so offsets into the chunk text stay meaningful.
			content := rawLines(n, source)
			if content != "" {
				blocks = append(blocks, content)
			}
			return ast.WalkSkipChildren, nil
		case *ast.ListItem:
			content := blockText(n, source)
			if content != "" {
				blocks = append(blocks, content)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return strings.Join(blocks, "\n\n"), title
}

// blockText concatenates the text segments under a node.
func blockText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := child.(*ast.Text); ok {
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

// rawLines reads a code block's lines straight from the source.
func rawLines(n ast.Node, source []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	return strings.TrimSpace(sb.String())
}
