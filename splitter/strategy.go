package splitter

import (
	"errors"
	"fmt"
)

// Strategy selects one of the three sliding-window segmentation modes.
type Strategy string

const (
	FixedWindowFixedStep     Strategy = "fixed_window_fixed_step"
	DynamicWindowFixedStep   Strategy = "dynamic_window_fixed_step"
	DynamicWindowDynamicStep Strategy = "dynamic_window_dynamic_step"
)

var ErrInvalidStrategyConfig = errors.New("invalid strategy config")

// StrategyConfig is the closed set of segmentation parameters. Which fields
// apply depends on Strategy; Validate rejects a config before any planning
// starts.
type StrategyConfig struct {
	Strategy Strategy

	// Fixed window.
	WindowUnits int

	// Dynamic window.
	MinUnits int
	MaxUnits int

	// Fixed step.
	StepUnits int

	// Dynamic step.
	MinStep int
	MaxStep int

	// BoundaryRule caps dynamic window growth; required for both dynamic
	// strategies.
	BoundaryRule BoundaryRule

	// DensityFn picks the per-iteration step; required for
	// DynamicWindowDynamicStep only.
	DensityFn DensityFunc
}

func (c StrategyConfig) Validate() error {
	switch c.Strategy {
	case FixedWindowFixedStep:
		if c.WindowUnits < 1 {
			return fmt.Errorf("%w: window_units must be >= 1, got %d", ErrInvalidStrategyConfig, c.WindowUnits)
		}
		return c.validateFixedStep()

	case DynamicWindowFixedStep:
		if err := c.validateDynamicWindow(); err != nil {
			return err
		}
		return c.validateFixedStep()

	case DynamicWindowDynamicStep:
		if err := c.validateDynamicWindow(); err != nil {
			return err
		}
		if c.MinStep < 1 {
			return fmt.Errorf("%w: min_step must be >= 1, got %d", ErrInvalidStrategyConfig, c.MinStep)
		}
		if c.MinStep > c.MaxStep {
			return fmt.Errorf("%w: min_step (%d) exceeds max_step (%d)", ErrInvalidStrategyConfig, c.MinStep, c.MaxStep)
		}
		if c.DensityFn == nil {
			return fmt.Errorf("%w: density function is required for %s", ErrInvalidStrategyConfig, c.Strategy)
		}
		return nil

	default:
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalidStrategyConfig, c.Strategy)
	}
}

func (c StrategyConfig) validateFixedStep() error {
	if c.StepUnits < 1 {
		return fmt.Errorf("%w: step_units must be >= 1, got %d", ErrInvalidStrategyConfig, c.StepUnits)
	}
	return nil
}

func (c StrategyConfig) validateDynamicWindow() error {
	if c.MinUnits < 1 {
		return fmt.Errorf("%w: min_units must be >= 1, got %d", ErrInvalidStrategyConfig, c.MinUnits)
	}
	if c.MinUnits > c.MaxUnits {
		return fmt.Errorf("%w: min_units (%d) exceeds max_units (%d)", ErrInvalidStrategyConfig, c.MinUnits, c.MaxUnits)
	}
	if c.BoundaryRule == nil {
		return fmt.Errorf("%w: boundary rule is required for %s", ErrInvalidStrategyConfig, c.Strategy)
	}
	return nil
}
