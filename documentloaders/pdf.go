package documentloaders

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/sevigo/textwindow/schema"
)

var ErrNoPDFText = errors.New("pdf contains no extractable text")

// PDFLoader extracts the plain text of a PDF file, one unit of text per page,
// with pages separated by blank lines.
type PDFLoader struct {
	logger *slog.Logger
}

func NewPDF(logger *slog.Logger) *PDFLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFLoader{logger: logger.With("component", "pdf_loader")}
}

func (l *PDFLoader) Load(path string) (schema.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return schema.Document{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return schema.Document{}, fmt.Errorf("stat %s: %w", path, err)
	}

	reader, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return schema.Document{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			l.logger.Warn("skipping unreadable page", "path", path, "page", i, "error", err)
			continue
		}
		if content = strings.TrimSpace(content); content != "" {
			pages = append(pages, content)
		}
	}

	if len(pages) == 0 {
		return schema.Document{}, fmt.Errorf("%s: %w", path, ErrNoPDFText)
	}

	baseName := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	doc := schema.NewDocument(baseName, strings.Join(pages, "\n\n"), map[string]string{
		"source": path,
		"format": "pdf",
		"pages":  fmt.Sprintf("%d", reader.NumPage()),
	})
	l.logger.Debug("pdf loaded", "path", path, "pages", len(pages), "chars", len(doc.Text))
	return doc, nil
}
