// Package cli provides the command-line interface for dezero.
package cli

import (
	"flag"
	"fmt"

	"github.com/born-ml/dezero/internal/config"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// app is the state shared by all commands of one root.
type app struct {
	cfgFile   string
	klogFlags *flag.FlagSet
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	a := &app{klogFlags: flag.NewFlagSet("klog", flag.ContinueOnError)}
	klog.InitFlags(a.klogFlags)

	rootCmd := &cobra.Command{
		Use:   "dezero",
		Short: "dezero - reverse-mode automatic differentiation",
		Long: `dezero builds a computation graph while a chain of element-wise operations
runs, then walks it backward from a seeded output gradient.

Use "run" to print every stage of a chain with its gradient, and "check" to
compare the analytic gradient with a central-difference estimate.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default dezero.yaml in the working directory)")
	pf.StringSlice("ops", nil, "operation chain, e.g. square,exp,square")
	pf.Float64Slice("input", nil, "input values (one row)")
	pf.Float64Slice("seed", nil, "seed gradient for the output (one row, default ones)")
	pf.String("output", config.DefaultOutput, "output format: table or json")
	pf.Bool("verbose", false, "verbose output")
	pf.AddGoFlagSet(a.klogFlags)

	rootCmd.AddCommand(
		newRunCmd(a),
		newCheckCmd(a),
		newMinimizeCmd(a),
		newOpsCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// load resolves the configuration for cmd.
func (a *app) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(a.cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if cfg.Verbose {
		if !klog.V(1).Enabled() {
			_ = a.klogFlags.Set("v", "1")
		}
		if cfg.File != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Using config file: %s\n", cfg.File)
		}
	}
	return cfg, nil
}
