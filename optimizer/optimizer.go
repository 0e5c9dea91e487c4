package optimizer

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sevigo/textwindow/schema"
	"github.com/sevigo/textwindow/splitter"
	"github.com/sevigo/textwindow/tokenizer"
)

// RetrievalIndex ingests chunks and answers queries. The optimizer requests
// one fresh instance per candidate so concurrent evaluations never share
// state.
type RetrievalIndex interface {
	Index(ctx context.Context, chunks []schema.Chunk) error
	schema.Retriever
}

// IndexFactory builds the ephemeral index for one candidate.
type IndexFactory func(ctx context.Context) (RetrievalIndex, error)

// QualityFunc scores retrieval quality over the held-out evaluation set,
// e.g. recall@k or mean reciprocal rank. Supplied by the caller.
type QualityFunc func(ctx context.Context, evalSet []schema.EvalCase, retriever schema.Retriever) (float64, error)

// Report is the full outcome of a grid search. Results holds one row per
// evaluated candidate in no particular order; Best is only meaningful when
// the returned error is nil.
type Report struct {
	Best       schema.EvaluationResult
	BestConfig splitter.StrategyConfig
	Results    []schema.EvaluationResult
}

type options struct {
	workers       int
	maxCandidates int
}

type Option func(*options)

// WithWorkers bounds concurrent candidate evaluations. Defaults to the
// number of CPUs.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithMaxCandidates sets an iteration budget: once reached, no further grid
// points are dispatched. Zero means no budget.
func WithMaxCandidates(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxCandidates = n
		}
	}
}

// Optimizer searches a (window, step) grid for the configuration with the
// best retrieval quality. Each grid point runs the full pipeline over all
// documents against its own ephemeral index; grid points are independent and
// evaluated concurrently.
type Optimizer struct {
	tokenizer    *tokenizer.Tokenizer
	family       ConfigFactory
	indexFactory IndexFactory
	quality      QualityFunc
	logger       *slog.Logger
	opts         options
}

func New(
	tok *tokenizer.Tokenizer,
	family ConfigFactory,
	indexFactory IndexFactory,
	quality QualityFunc,
	logger *slog.Logger,
	opts ...Option,
) *Optimizer {
	o := options{workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Optimizer{
		tokenizer:    tok,
		family:       family,
		indexFactory: indexFactory,
		quality:      quality,
		logger:       logger.With("component", "optimizer"),
		opts:         o,
	}
}

// Optimize evaluates every grid point and returns the best configuration by
// score, ties broken by smaller chunk count, then smaller average chunk
// size. Cancellation and the iteration budget take effect at grid-point
// granularity: in-flight evaluations run to completion, nothing new is
// dispatched.
func (o *Optimizer) Optimize(
	ctx context.Context,
	docs []schema.Document,
	grid Grid,
	evalSet []schema.EvalCase,
) (*Report, error) {
	candidates := grid.Candidates()
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyGrid, grid)
	}

	var (
		mu      sync.Mutex
		report  Report
		configs = make(map[Candidate]splitter.StrategyConfig, len(candidates))
	)

	g, runCtx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.workers)

	// In-flight candidates run to completion even after cancellation, so the
	// evaluation itself gets a detached context; only dispatch stops.
	evalCtx := context.WithoutCancel(ctx)

	dispatched := 0
	for _, cand := range candidates {
		if runCtx.Err() != nil {
			o.logger.Info("search canceled, stopping dispatch", "dispatched", dispatched, "total", len(candidates))
			break
		}
		if o.opts.maxCandidates > 0 && dispatched >= o.opts.maxCandidates {
			o.logger.Info("candidate budget reached", "budget", o.opts.maxCandidates, "total", len(candidates))
			break
		}
		dispatched++

		g.Go(func() error {
			result, cfg, err := o.evaluateCandidate(evalCtx, docs, cand, evalSet)
			if err != nil {
				return fmt.Errorf("candidate window=%d step=%d: %w", cand.WindowUnits, cand.StepUnits, err)
			}

			mu.Lock()
			report.Results = append(report.Results, result)
			configs[cand] = cfg
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(report.Results) == 0 && ctx.Err() != nil {
		return &report, ctx.Err()
	}

	best, found := selectBest(report.Results)
	if !found {
		return &report, fmt.Errorf("%w: grid %s over %d documents", ErrNoValidConfig, grid, len(docs))
	}
	report.Best = best
	report.BestConfig = configs[Candidate{WindowUnits: best.WindowUnits, StepUnits: best.StepUnits}]

	o.logger.Info("parameter search finished",
		"evaluated", len(report.Results),
		"best", report.Best.String())
	return &report, nil
}

// evaluateCandidate runs tokenize-plan-materialize over all documents for
// one grid point, indexes the chunks into a fresh index and scores it. A
// candidate that yields no chunks at all is recorded with a zero result, not
// an error; selection skips it.
func (o *Optimizer) evaluateCandidate(
	ctx context.Context,
	docs []schema.Document,
	cand Candidate,
	evalSet []schema.EvalCase,
) (schema.EvaluationResult, splitter.StrategyConfig, error) {
	cfg := o.family(cand.WindowUnits, cand.StepUnits)
	result := schema.EvaluationResult{WindowUnits: cand.WindowUnits, StepUnits: cand.StepUnits}

	split, err := splitter.New(o.tokenizer, cfg, o.logger)
	if err != nil {
		// Invalid grid points (e.g. a window below the family's minimum) are
		// degenerate, not fatal: record and move on.
		o.logger.Warn("degenerate candidate", "window", cand.WindowUnits, "step", cand.StepUnits, "error", err)
		return result, cfg, nil
	}

	batch, err := split.SplitDocuments(ctx, docs)
	if err != nil {
		return result, cfg, err
	}
	for _, f := range batch.Failures {
		o.logger.Warn("document skipped during search", "document", f.DocumentID, "error", f.Err)
	}

	if len(batch.Chunks) == 0 {
		return result, cfg, nil
	}

	index, err := o.indexFactory(ctx)
	if err != nil {
		return result, cfg, fmt.Errorf("creating index: %w", err)
	}
	if err := index.Index(ctx, batch.Chunks); err != nil {
		return result, cfg, fmt.Errorf("indexing %d chunks: %w", len(batch.Chunks), err)
	}

	score, err := o.quality(ctx, evalSet, index)
	if err != nil {
		return result, cfg, fmt.Errorf("scoring: %w", err)
	}

	totalLen := 0
	for _, c := range batch.Chunks {
		totalLen += len(c.Text)
	}

	result.Score = score
	result.TotalChunks = len(batch.Chunks)
	result.AvgChunkLen = float64(totalLen) / float64(len(batch.Chunks))
	return result, cfg, nil
}

// selectBest picks the highest score; ties prefer fewer chunks, then a
// smaller average chunk size. Candidates without chunks never win.
func selectBest(results []schema.EvaluationResult) (schema.EvaluationResult, bool) {
	var best schema.EvaluationResult
	found := false
	for _, r := range results {
		if r.TotalChunks == 0 {
			continue
		}
		if !found || better(r, best) {
			best = r
			found = true
		}
	}
	return best, found
}

func better(a, b schema.EvaluationResult) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.TotalChunks != b.TotalChunks {
		return a.TotalChunks < b.TotalChunks
	}
	return a.AvgChunkLen < b.AvgChunkLen
}
