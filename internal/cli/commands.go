package cli

import (
	"fmt"
	"strings"

	"github.com/born-ml/dezero/internal/autodiff/ops"
	"github.com/born-ml/dezero/internal/pipeline"
	"github.com/born-ml/dezero/internal/serialization"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a chain forward and backward and print every stage",
		Example: `  dezero run
  dezero run --ops sin,square --input 0.1,0.2 --seed 1,2
  dezero run --save run.safetensors`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.load(cmd)
			if err != nil {
				return err
			}
			p, err := pipeline.New(cfg.Ops)
			if err != nil {
				return err
			}
			input, err := cfg.InputBuffer()
			if err != nil {
				return err
			}
			seed, err := cfg.SeedBuffer()
			if err != nil {
				return err
			}

			res, err := p.Run(input, seed)
			if err != nil {
				return err
			}
			if err := saveRun(cmd, p, res); err != nil {
				return err
			}
			return renderRun(cmd.OutOrStdout(), cfg.Output, res)
		},
	}
	cmd.Flags().String("save", "", "write every stage and gradient to a SafeTensors file")
	return cmd
}

// saveRun writes res to the file named by --save, if any.
func saveRun(cmd *cobra.Command, p *pipeline.Pipeline, res *pipeline.Result) error {
	path, err := cmd.Flags().GetString("save")
	if err != nil || path == "" {
		return err
	}
	tensors, err := res.Tensors()
	if err != nil {
		return err
	}
	meta := map[string]string{"ops": strings.Join(p.Names(), ",")}
	if err := serialization.WriteFile(path, tensors, meta); err != nil {
		return errors.WithMessagef(err, "saving run to %s", path)
	}
	klog.V(1).Infof("run: wrote %d tensors to %s", len(tensors), path)
	return nil
}

func newCheckCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compare analytic gradients with central differences",
		Long: `check seeds the output gradient with ones, runs the backward pass and compares
the gradient of the input with a central-difference estimate. It exits with an
error when any element differs by more than the tolerance.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.load(cmd)
			if err != nil {
				return err
			}
			p, err := pipeline.New(cfg.Ops)
			if err != nil {
				return err
			}
			p.SetWorkers(cfg.Workers)
			input, err := cfg.InputBuffer()
			if err != nil {
				return err
			}

			res, err := p.Check(input, cfg.Epsilon, cfg.Tolerance)
			if err != nil {
				return err
			}
			if err := renderCheck(cmd.OutOrStdout(), cfg.Output, res); err != nil {
				return err
			}
			if !res.Passed {
				return errors.Errorf("gradient check failed: max |diff| %g exceeds tolerance %g", res.MaxAbsDiff, res.Tolerance)
			}
			return nil
		},
	}
	cmd.Flags().Float64("epsilon", 0, "finite-difference step (default 1e-4)")
	cmd.Flags().Float64("tolerance", 0, "maximum absolute difference (default 1e-4)")
	cmd.Flags().Int("workers", 0, "goroutines for the numerical gradient (default one per CPU)")
	return cmd
}

func newMinimizeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "minimize",
		Short: "Move the input downhill on the sum of the chain's output",
		Long: `minimize treats the sum of the output elements as an objective. Each step runs
the chain forward, seeds the output gradient with ones, runs the backward pass
and lets the optimizer update the input.`,
		Example: `  dezero minimize --ops square --input 2,-1 --steps 50
  dezero minimize --ops sin --input 1 --optimizer adam --lr 0.05`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.load(cmd)
			if err != nil {
				return err
			}
			p, err := pipeline.New(cfg.Ops)
			if err != nil {
				return err
			}
			input, err := cfg.InputBuffer()
			if err != nil {
				return err
			}

			res, err := p.Minimize(input, cfg.OptimConfig(), cfg.Steps)
			if err != nil {
				return err
			}
			return renderMinimize(cmd.OutOrStdout(), cfg.Output, res)
		},
	}
	cmd.Flags().String("optimizer", "", "optimizer: sgd or adam (default sgd)")
	cmd.Flags().Float64("lr", 0, "learning rate (default 0.1)")
	cmd.Flags().Float64("momentum", 0, "SGD momentum in [0, 1)")
	cmd.Flags().Int("steps", 0, "number of steps (default 100)")
	return cmd
}

func newOpsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "List the available operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return renderOps(cmd.OutOrStdout(), ops.Names())
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dezero %s (commit %s)\n", Version, GitCommit)
		},
	}
}
