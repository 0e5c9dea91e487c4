package optimizer

import (
	"errors"
	"fmt"

	"github.com/sevigo/textwindow/splitter"
)

var (
	ErrEmptyGrid     = errors.New("parameter grid is empty")
	ErrNoValidConfig = errors.New("no candidate produced any chunks")
)

// Grid is the bounded search space: the Cartesian product of window and step
// candidates is evaluated.
type Grid struct {
	WindowUnits []int
	StepUnits   []int
}

func (g Grid) String() string {
	return fmt.Sprintf("windows=%v steps=%v", g.WindowUnits, g.StepUnits)
}

// Candidate is one grid point.
type Candidate struct {
	WindowUnits int
	StepUnits   int
}

// Candidates expands the grid in deterministic order.
func (g Grid) Candidates() []Candidate {
	candidates := make([]Candidate, 0, len(g.WindowUnits)*len(g.StepUnits))
	for _, w := range g.WindowUnits {
		for _, s := range g.StepUnits {
			candidates = append(candidates, Candidate{WindowUnits: w, StepUnits: s})
		}
	}
	return candidates
}

// ConfigFactory turns one grid point into a full strategy config. The
// factory decides which strategy family the search runs over.
type ConfigFactory func(windowUnits, stepUnits int) splitter.StrategyConfig

// FixedFamily searches FixedWindowFixedStep configs.
func FixedFamily() ConfigFactory {
	return func(windowUnits, stepUnits int) splitter.StrategyConfig {
		return splitter.StrategyConfig{
			Strategy:    splitter.FixedWindowFixedStep,
			WindowUnits: windowUnits,
			StepUnits:   stepUnits,
		}
	}
}

// DynamicFamily searches DynamicWindowFixedStep configs; the grid's window
// value becomes the growth cap.
func DynamicFamily(minUnits int, rule splitter.BoundaryRule) ConfigFactory {
	return func(windowUnits, stepUnits int) splitter.StrategyConfig {
		return splitter.StrategyConfig{
			Strategy:     splitter.DynamicWindowFixedStep,
			MinUnits:     minUnits,
			MaxUnits:     windowUnits,
			StepUnits:    stepUnits,
			BoundaryRule: rule,
		}
	}
}

// DynamicStepFamily searches DynamicWindowDynamicStep configs; the grid's
// step value becomes the upper step bound.
func DynamicStepFamily(minUnits, minStep int, rule splitter.BoundaryRule, density splitter.DensityFunc) ConfigFactory {
	return func(windowUnits, stepUnits int) splitter.StrategyConfig {
		return splitter.StrategyConfig{
			Strategy:     splitter.DynamicWindowDynamicStep,
			MinUnits:     minUnits,
			MaxUnits:     windowUnits,
			MinStep:      minStep,
			MaxStep:      stepUnits,
			BoundaryRule: rule,
			DensityFn:    density,
		}
	}
}
