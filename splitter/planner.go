package splitter

import (
	"iter"
	"math"

	"github.com/sevigo/textwindow/schema"
)

// PlanWindows computes the ordered window sequence for the given units and
// strategy. The returned sequence is lazy and restartable; nothing is
// materialized up front, so arbitrarily long documents stay cheap to plan.
//
// Guarantees, for every strategy: window starts are strictly increasing, the
// final window is truncated to the unit count rather than padded or dropped,
// no zero-size or duplicate window is ever emitted, and the sequence is
// finite for any valid config.
func PlanWindows(units []schema.Unit, cfg StrategyConfig) (iter.Seq[schema.WindowSpec], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Strategy {
	case FixedWindowFixedStep:
		return planFixedFixed(units, cfg), nil
	case DynamicWindowFixedStep:
		return planDynamicFixed(units, cfg), nil
	default:
		return planDynamicDynamic(units, cfg), nil
	}
}

func planFixedFixed(units []schema.Unit, cfg StrategyConfig) iter.Seq[schema.WindowSpec] {
	return func(yield func(schema.WindowSpec) bool) {
		for start := 0; start < len(units); start += cfg.StepUnits {
			end := min(start+cfg.WindowUnits, len(units))
			if !yield(schema.WindowSpec{Start: start, End: end, Step: cfg.StepUnits}) {
				return
			}
		}
	}
}

func planDynamicFixed(units []schema.Unit, cfg StrategyConfig) iter.Seq[schema.WindowSpec] {
	return func(yield func(schema.WindowSpec) bool) {
		for start := 0; start < len(units); start += cfg.StepUnits {
			end := growWindow(units, start, cfg)
			if !yield(schema.WindowSpec{Start: start, End: end, Step: cfg.StepUnits}) {
				return
			}
		}
	}
}

func planDynamicDynamic(units []schema.Unit, cfg StrategyConfig) iter.Seq[schema.WindowSpec] {
	return func(yield func(schema.WindowSpec) bool) {
		start := 0
		for start < len(units) {
			end := growWindow(units, start, cfg)
			step := densityStep(units[start:end], cfg)
			if !yield(schema.WindowSpec{Start: start, End: end, Step: step}) {
				return
			}
			start += step
		}
	}
}

// growWindow extends a window from MinUnits toward MaxUnits, stopping once
// the last included unit is a natural break. The final window truncates at
// the unit count even when that leaves it below MinUnits: trailing content
// is never dropped.
func growWindow(units []schema.Unit, start int, cfg StrategyConfig) int {
	end := min(start+cfg.MinUnits, len(units))
	limit := min(start+cfg.MaxUnits, len(units))
	for end < limit && !cfg.BoundaryRule.IsBoundary(units, end-1) {
		end++
	}
	return end
}

// densityStep maps window density onto [MinStep, MaxStep]: density 1.0 gives
// the smallest step, density 0.0 the largest. The step is forced to at least
// one unit so the planner always makes forward progress.
func densityStep(window []schema.Unit, cfg StrategyConfig) int {
	d := cfg.DensityFn.Density(window)
	d = math.Max(0, math.Min(1, d))

	step := cfg.MaxStep - int(math.Round(d*float64(cfg.MaxStep-cfg.MinStep)))
	if step < cfg.MinStep {
		step = cfg.MinStep
	}
	if step > cfg.MaxStep {
		step = cfg.MaxStep
	}
	if step < 1 {
		step = 1
	}
	return step
}
