package optimizer_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/textwindow/evaluation"
	"github.com/sevigo/textwindow/optimizer"
	"github.com/sevigo/textwindow/schema"
	"github.com/sevigo/textwindow/tokenizer"
	"github.com/sevigo/textwindow/vectorstores"
	"github.com/sevigo/textwindow/vectorstores/fake"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func fakeIndexFactory(_ context.Context) (optimizer.RetrievalIndex, error) {
	return vectorstores.NewIndex(fake.New(), 3), nil
}

func testDocuments() []schema.Document {
	return []schema.Document{
		schema.NewDocument("doc-1",
			"The capital of France is Paris. It sits on the Seine. "+
				"Tourists visit the Louvre every year. The museum holds the Mona Lisa.", nil),
		schema.NewDocument("doc-2",
			"Go compiles to native code. Its garbage collector has low pause times. "+
				"Goroutines make concurrency cheap. Channels carry values between them.", nil),
	}
}

func testEvalSet() []schema.EvalCase {
	return []schema.EvalCase{
		{Query: "capital of France", RelevantPassage: "The capital of France is Paris."},
		{Query: "concurrency in Go", RelevantPassage: "Goroutines make concurrency cheap."},
	}
}

func newTestOptimizer(t *testing.T, opts ...optimizer.Option) *optimizer.Optimizer {
	t.Helper()
	tok := tokenizer.New(tokenizer.NewSentenceRule(), testLogger())
	return optimizer.New(
		tok,
		optimizer.FixedFamily(),
		fakeIndexFactory,
		evaluation.RecallAtK(3),
		testLogger(),
		opts...,
	)
}

func TestOptimizer_EmptyGrid(t *testing.T) {
	o := newTestOptimizer(t)

	_, err := o.Optimize(context.Background(), testDocuments(), optimizer.Grid{}, testEvalSet())
	require.Error(t, err)
	assert.ErrorIs(t, err, optimizer.ErrEmptyGrid)
}

func TestOptimizer_FindsBestConfig(t *testing.T) {
	o := newTestOptimizer(t)
	grid := optimizer.Grid{
		WindowUnits: []int{1, 2, 3},
		StepUnits:   []int{1, 2},
	}

	report, err := o.Optimize(context.Background(), testDocuments(), grid, testEvalSet())
	require.NoError(t, err)

	assert.Len(t, report.Results, 6)
	assert.Greater(t, report.Best.TotalChunks, 0)
	assert.Greater(t, report.Best.Score, 0.0)
	assert.Equal(t, report.Best.WindowUnits, report.BestConfig.WindowUnits)
	assert.Equal(t, report.Best.StepUnits, report.BestConfig.StepUnits)

	for _, r := range report.Results {
		assert.LessOrEqual(t, r.Score, report.Best.Score)
	}
}

func TestOptimizer_ExcludesDegenerateCandidates(t *testing.T) {
	// 2x2 grid where the zero-window column can never produce chunks; the
	// other candidates must still win.
	o := newTestOptimizer(t)
	grid := optimizer.Grid{
		WindowUnits: []int{0, 2},
		StepUnits:   []int{1, 2},
	}

	report, err := o.Optimize(context.Background(), testDocuments(), grid, testEvalSet())
	require.NoError(t, err)

	assert.Len(t, report.Results, 4)
	assert.Equal(t, 2, report.Best.WindowUnits)
	assert.Greater(t, report.Best.TotalChunks, 0)
}

func TestOptimizer_NoValidConfig(t *testing.T) {
	o := newTestOptimizer(t)
	grid := optimizer.Grid{
		WindowUnits: []int{0, -1},
		StepUnits:   []int{0, -2},
	}

	report, err := o.Optimize(context.Background(), testDocuments(), grid, testEvalSet())
	require.Error(t, err)
	assert.ErrorIs(t, err, optimizer.ErrNoValidConfig)
	assert.Len(t, report.Results, 4, "degenerate candidates still appear in the result table")
}

func TestOptimizer_TieBreakPrefersFewerChunks(t *testing.T) {
	// A constant quality function forces the tie-break: step 2 halves the
	// chunk count relative to step 1 and must win.
	tok := tokenizer.New(tokenizer.NewSentenceRule(), testLogger())
	constant := func(_ context.Context, _ []schema.EvalCase, _ schema.Retriever) (float64, error) {
		return 1.0, nil
	}
	o := optimizer.New(tok, optimizer.FixedFamily(), fakeIndexFactory, constant, testLogger())

	grid := optimizer.Grid{WindowUnits: []int{2}, StepUnits: []int{1, 2}}
	report, err := o.Optimize(context.Background(), testDocuments(), grid, testEvalSet())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Best.StepUnits)
}

func TestOptimizer_CandidateBudget(t *testing.T) {
	o := newTestOptimizer(t, optimizer.WithMaxCandidates(2), optimizer.WithWorkers(1))
	grid := optimizer.Grid{
		WindowUnits: []int{1, 2, 3},
		StepUnits:   []int{1, 2, 3},
	}

	report, err := o.Optimize(context.Background(), testDocuments(), grid, testEvalSet())
	require.NoError(t, err)
	assert.Len(t, report.Results, 2, "budget caps dispatched grid points")
}

func TestOptimizer_CanceledBeforeDispatch(t *testing.T) {
	o := newTestOptimizer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	grid := optimizer.Grid{WindowUnits: []int{2}, StepUnits: []int{1}}
	_, err := o.Optimize(ctx, testDocuments(), grid, testEvalSet())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOptimizer_SkipsEmptyDocuments(t *testing.T) {
	o := newTestOptimizer(t)
	docs := append(testDocuments(), schema.NewDocument("empty", "", nil))
	grid := optimizer.Grid{WindowUnits: []int{2}, StepUnits: []int{1}}

	report, err := o.Optimize(context.Background(), docs, grid, testEvalSet())
	require.NoError(t, err)
	assert.Greater(t, report.Best.TotalChunks, 0, "bad document must not abort the candidate")
}

func TestGrid_Candidates(t *testing.T) {
	grid := optimizer.Grid{WindowUnits: []int{4, 8}, StepUnits: []int{2}}
	assert.Equal(t, []optimizer.Candidate{
		{WindowUnits: 4, StepUnits: 2},
		{WindowUnits: 8, StepUnits: 2},
	}, grid.Candidates())

	assert.Empty(t, optimizer.Grid{WindowUnits: []int{1}}.Candidates())
}
