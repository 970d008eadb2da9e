// Package config loads dezero settings.
//
// Precedence (highest to lowest): flags > DEZERO_ env vars > config file > defaults.
package config

import (
	"os"
	"strings"

	"github.com/born-ml/dezero/internal/autodiff"
	"github.com/born-ml/dezero/internal/optim"
	"github.com/born-ml/dezero/internal/tensor"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// Defaults.
const (
	DefaultEpsilon   = 1e-4
	DefaultTolerance = 1e-4
	DefaultOutput    = "table"
	DefaultOptimizer = "sgd"
	DefaultLR        = 0.1
	DefaultSteps     = 100
	EnvPrefix        = "DEZERO_"
)

// DefaultConfigFiles are searched in the working directory when no file is given.
var DefaultConfigFiles = []string{"dezero.yaml", "dezero.yml"}

// Config holds the settings of a run or check.
type Config struct {
	Ops       []string    `koanf:"ops"`
	Input     [][]float64 `koanf:"input"`
	Seed      [][]float64 `koanf:"seed"`
	Epsilon   float64     `koanf:"epsilon"`
	Tolerance float64     `koanf:"tolerance"`
	Workers   int         `koanf:"workers"`
	Output    string      `koanf:"output"`

	// Minimization.
	Optimizer string  `koanf:"optimizer"`
	LR        float64 `koanf:"lr"`
	Momentum  float64 `koanf:"momentum"`
	Steps     int     `koanf:"steps"`

	Verbose bool `koanf:"verbose"`

	// File is the config file that was read, empty if none.
	File string `koanf:"-"`
}

// Default returns the built-in configuration: the square -> exp -> square chain
// at x = 0.5.
func Default() map[string]any {
	return map[string]any{
		"ops":       []string{"square", "exp", "square"},
		"input":     [][]float64{{0.5}},
		"epsilon":   DefaultEpsilon,
		"tolerance": DefaultTolerance,
		"workers":   0,
		"optimizer": DefaultOptimizer,
		"lr":        DefaultLR,
		"momentum":  0.0,
		"steps":     DefaultSteps,
		"output":    DefaultOutput,
		"verbose":   false,
	}
}

// Load reads defaults, then cfgFile (or the first of DefaultConfigFiles that
// exists), then DEZERO_* environment variables, then flags that were set
// explicitly.
//
// The --input and --seed flags carry a single row; they replace the whole
// matrix from lower layers.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Default(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load defaults")
	}

	path := findConfigFile(cfgFile)
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "error reading config file %s", path)
		}
	}

	// DEZERO_OPS=square,exp -> ops
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load env vars")
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			switch key {
			case "input", "seed":
				row, err := flags.GetFloat64Slice(f.Name)
				if err != nil {
					return "", nil
				}
				return key, [][]float64{row}
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, errors.Wrap(err, "failed to load flags")
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, "unable to decode config")
	}
	cfg.File = path
	cfg.Ops = normalizeOps(cfg.Ops)
	cfg.Optimizer = strings.ToLower(strings.TrimSpace(cfg.Optimizer))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the pipeline cannot run.
func (c *Config) Validate() error {
	if len(c.Ops) == 0 {
		return errors.New("ops: at least one operation is required")
	}
	for i, op := range c.Ops {
		if _, err := autodiff.ParseKind(op); err != nil {
			return errors.WithMessagef(err, "ops[%d]", i)
		}
	}
	input, err := c.InputBuffer()
	if err != nil {
		return err
	}
	if c.Seed != nil {
		seed, err := c.SeedBuffer()
		if err != nil {
			return err
		}
		if !seed.Shape.Equal(input.Shape) {
			return errors.Errorf("seed: shape %v does not match input shape %v", seed.Shape, input.Shape)
		}
	}
	if c.Epsilon <= 0 {
		return errors.Errorf("epsilon: must be positive, got %g", c.Epsilon)
	}
	if c.Tolerance <= 0 {
		return errors.Errorf("tolerance: must be positive, got %g", c.Tolerance)
	}
	if c.Workers < 0 {
		return errors.Errorf("workers: must not be negative, got %d", c.Workers)
	}
	switch c.Output {
	case "table", "json":
	default:
		return errors.Errorf("output: unknown format %q (want table or json)", c.Output)
	}
	return c.validateMinimize()
}

func (c *Config) validateMinimize() error {
	switch c.Optimizer {
	case optim.NameSGD, optim.NameAdam:
	default:
		return errors.Errorf("optimizer: unknown optimizer %q (want %s or %s)", c.Optimizer, optim.NameSGD, optim.NameAdam)
	}
	if c.LR <= 0 {
		return errors.Errorf("lr: must be positive, got %g", c.LR)
	}
	if c.Momentum < 0 || c.Momentum >= 1 {
		return errors.Errorf("momentum: must be in [0, 1), got %g", c.Momentum)
	}
	if c.Steps <= 0 {
		return errors.Errorf("steps: must be positive, got %d", c.Steps)
	}
	return nil
}

// OptimConfig returns the optimizer settings for minimization.
func (c *Config) OptimConfig() optim.Config {
	return optim.Config{Name: c.Optimizer, LR: c.LR, Momentum: c.Momentum}
}

// InputBuffer returns the input matrix as a flat buffer.
func (c *Config) InputBuffer() (*tensor.Buffer, error) {
	if len(c.Input) == 0 {
		return nil, errors.New("input: at least one row is required")
	}
	b, err := tensor.FromRows(c.Input)
	return b, errors.WithMessage(err, "input")
}

// SeedBuffer returns the seed matrix, or nil when no seed was configured.
func (c *Config) SeedBuffer() (*tensor.Buffer, error) {
	if c.Seed == nil {
		return nil, nil
	}
	b, err := tensor.FromRows(c.Seed)
	return b, errors.WithMessage(err, "seed")
}

func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range DefaultConfigFiles {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// normalizeOps lower-cases names and splits comma-joined entries, which is how
// a list arrives from a single environment variable.
func normalizeOps(raw []string) []string {
	var ops []string
	for _, entry := range raw {
		for _, name := range strings.Split(entry, ",") {
			if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
				ops = append(ops, name)
			}
		}
	}
	return ops
}
