// Package config parses the structured configuration surface: strategy
// selection, strategy parameters and the optimizer's parameter grid from
// YAML, plus environment-based runtime settings. Unknown option names are
// rejected outright rather than silently ignored.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sevigo/textwindow/optimizer"
	"github.com/sevigo/textwindow/splitter"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// File is the on-disk shape. Which fields are required depends on the
// selected strategy; splitter validation has the final word.
type File struct {
	Strategy         string    `yaml:"strategy"`
	WindowUnits      int       `yaml:"window_units"`
	StepUnits        int       `yaml:"step_units"`
	MinUnits         int       `yaml:"min_units"`
	MaxUnits         int       `yaml:"max_units"`
	MinStep          int       `yaml:"min_step"`
	MaxStep          int       `yaml:"max_step"`
	BoundaryRuleName string    `yaml:"boundary_rule_name"`
	DensityFnName    string    `yaml:"density_fn_name"`
	Grid             *GridFile `yaml:"grid"`
}

type GridFile struct {
	WindowUnits []int `yaml:"window_units"`
	StepUnits   []int `yaml:"step_units"`
}

// Parse reads a YAML config. Unknown keys fail the parse.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &f, nil
}

// ParseFile reads a YAML config from disk.
func ParseFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	defer fh.Close()
	return Parse(fh)
}

// StrategyConfig resolves the file into the splitter's config, including the
// named boundary rule and density function.
func (f *File) StrategyConfig() (splitter.StrategyConfig, error) {
	cfg := splitter.StrategyConfig{
		Strategy:    splitter.Strategy(f.Strategy),
		WindowUnits: f.WindowUnits,
		StepUnits:   f.StepUnits,
		MinUnits:    f.MinUnits,
		MaxUnits:    f.MaxUnits,
		MinStep:     f.MinStep,
		MaxStep:     f.MaxStep,
	}

	switch cfg.Strategy {
	case splitter.FixedWindowFixedStep, splitter.DynamicWindowFixedStep, splitter.DynamicWindowDynamicStep:
	default:
		return cfg, fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfig, f.Strategy)
	}

	if f.BoundaryRuleName != "" {
		rule, err := boundaryRuleByName(f.BoundaryRuleName)
		if err != nil {
			return cfg, err
		}
		cfg.BoundaryRule = rule
	}
	if f.DensityFnName != "" {
		fn, err := densityFnByName(f.DensityFnName)
		if err != nil {
			return cfg, err
		}
		cfg.DensityFn = fn
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// GridConfig resolves the optimizer grid, if present.
func (f *File) GridConfig() (optimizer.Grid, error) {
	if f.Grid == nil {
		return optimizer.Grid{}, fmt.Errorf("%w: grid section is missing", ErrInvalidConfig)
	}
	return optimizer.Grid{
		WindowUnits: f.Grid.WindowUnits,
		StepUnits:   f.Grid.StepUnits,
	}, nil
}

func boundaryRuleByName(name string) (splitter.BoundaryRule, error) {
	switch name {
	case "paragraph":
		return splitter.NewParagraphBoundary(), nil
	default:
		return nil, fmt.Errorf("%w: unknown boundary rule %q", ErrInvalidConfig, name)
	}
}

func densityFnByName(name string) (splitter.DensityFunc, error) {
	switch name {
	case "term_density":
		return splitter.NewTermDensity(), nil
	default:
		return nil, fmt.Errorf("%w: unknown density function %q", ErrInvalidConfig, name)
	}
}

// Settings are runtime knobs for the example binaries, read from the
// environment with an optional .env file.
type Settings struct {
	OllamaURL        string `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`
	OllamaEmbedModel string `env:"OLLAMA_EMBED_MODEL" envDefault:"nomic-embed-text"`
	DataDir          string `env:"DATA_DIR" envDefault:"./data"`
	TopK             int    `env:"TOP_K" envDefault:"4"`
	Workers          int    `env:"WORKERS" envDefault:"0"`
}

func LoadSettings() (*Settings, error) {
	_ = godotenv.Load()

	var s Settings
	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &s, nil
}
