package documentloaders_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sevigo/textwindow/documentloaders"
)

func TestPDFLoader_MissingFile(t *testing.T) {
	loader := documentloaders.NewPDF(nil)
	_, err := loader.Load("/nonexistent/report.pdf")
	assert.Error(t, err)
}

func TestPDFLoader_RejectsNonPDF(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "not_a.pdf", "plain text pretending to be a pdf")

	loader := documentloaders.NewPDF(nil)
	_, err := loader.Load(path)
	assert.Error(t, err)
}
