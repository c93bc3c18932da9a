// Package cli implements the crn command-line tool.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/njchilds90/gocrn/internal/config"
	"github.com/njchilds90/gocrn/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Precision  int
	ShowRate   bool
	LogLevel   string
	Output     string // "text" | "latex" | "yaml"

	cfg     *config.Config
	restore func()
}

// ValidOutputs defines the allowed output formats.
var ValidOutputs = []string{"text", "latex", "yaml"}

// NewRootCommand creates the root command for the crn CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "crn",
		Short: "crn - reaction rate algebra",
		Long: `Rewrite chemical reaction networks while keeping their kinetics exact.

Reaction sets are read from YAML files:

  reactions:
    - id: r1
      reactant: A + E
      product: B + E
      rate: k*A*E/(A + K)`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidOutput(opts.Output) {
				return fmt.Errorf("invalid output %q: must be one of %v", opts.Output, ValidOutputs)
			}
			cfg, err := config.LoadWithFlags(opts.ConfigPath, cmd.Flags())
			if err != nil {
				return err
			}
			opts.cfg = cfg
			_, restore, err := logging.Install(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
			if err != nil {
				return err
			}
			opts.restore = restore
			zap.L().Debug("configuration loaded",
				zap.String("config", opts.ConfigPath),
				zap.Int("precision", cfg.Format.Precision),
				zap.Bool("show_rate", cfg.Format.ShowRate))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.restore != nil {
				opts.restore()
				opts.restore = nil
			}
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (YAML)")
	cmd.PersistentFlags().IntVarP(&opts.Precision, "precision", "p", config.DefaultPrecision, "digits for float kinetic parameters")
	cmd.PersistentFlags().BoolVarP(&opts.ShowRate, "rate", "r", false, "show rates instead of kinetic parameters")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", config.DefaultLogLevel, "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVarP(&opts.Output, "output", "o", "text", "output format (text|latex|yaml)")

	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewSplitCommand(opts))
	cmd.AddCommand(NewMergeCommand(opts))
	cmd.AddCommand(NewNormalizeCommand(opts))
	cmd.AddCommand(NewTranslateCommand(opts))
	cmd.AddCommand(NewPathCommand(opts))
	cmd.AddCommand(NewCanonicalizeCommand(opts))

	return cmd
}

// settings returns the loaded configuration, or defaults before
// PersistentPreRunE has run.
func (o *RootOptions) settings() *config.Config {
	if o.cfg == nil {
		return config.Default()
	}
	return o.cfg
}

func isValidOutput(output string) bool {
	for _, f := range ValidOutputs {
		if f == output {
			return true
		}
	}
	return false
}
