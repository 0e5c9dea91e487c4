// Package documentloaders turns external sources into schema.Documents and,
// where the source carries them, evaluation cases for the parameter search.
// The segmentation core makes no assumption about document origin; these
// loaders exist for the example pipelines and callers who want them.
package documentloaders

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sevigo/textwindow/schema"
)

// Dataset couples loaded documents with their held-out evaluation queries.
type Dataset struct {
	Documents []schema.Document
	EvalSet   []schema.EvalCase
}

// benchRecord is the QA benchmark file shape: one JSON object per file with
// the source passage, a question and its reference answers.
type benchRecord struct {
	Context string   `json:"context"`
	Input   string   `json:"input"`
	Answers []string `json:"answers"`
}

// JSONLoader reads QA benchmark files (LongBench-style: context, input,
// answers).
type JSONLoader struct {
	logger *slog.Logger
}

func NewJSON(logger *slog.Logger) *JSONLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONLoader{logger: logger.With("component", "json_loader")}
}

// LoadFile reads a single benchmark file into a document plus its eval case.
func (l *JSONLoader) LoadFile(path string) (schema.Document, schema.EvalCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Document{}, schema.EvalCase{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var rec benchRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return schema.Document{}, schema.EvalCase{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	doc := schema.NewDocument(id, rec.Context, map[string]string{
		"source": path,
		"format": "json",
	})

	ec := schema.EvalCase{Query: rec.Input}
	if len(rec.Answers) > 0 {
		ec.RelevantPassage = rec.Answers[0]
	}
	return doc, ec, nil
}

// LoadDir reads every .json file in a directory, in name order. Files that
// fail to parse are skipped and logged; one bad file never sinks the batch.
func (l *JSONLoader) LoadDir(dir string) (*Dataset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading dataset dir %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	ds := &Dataset{}
	for _, name := range names {
		doc, ec, err := l.LoadFile(filepath.Join(dir, name))
		if err != nil {
			l.logger.Warn("skipping dataset file", "file", name, "error", err)
			continue
		}
		ds.Documents = append(ds.Documents, doc)
		if ec.Query != "" {
			ds.EvalSet = append(ds.EvalSet, ec)
		}
	}

	l.logger.Info("dataset loaded", "dir", dir, "documents", len(ds.Documents), "eval_cases", len(ds.EvalSet))
	return ds, nil
}
