// Package cli provides the hexa command-line interface.
package cli

import (
	"os/exec"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/KeSHaMI/hexaframe/internal/config"
	"github.com/KeSHaMI/hexaframe/pkg/errors"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitError       = 1
	ExitConflict    = 3
	ExitInterrupted = 130
)

// NewRootCommand builds the hexa command tree around opts.
func NewRootCommand(opts *Options) *cobra.Command {
	root := &cobra.Command{
		Use:   "hexa",
		Short: "Scaffold and test ports-and-adapters Go services",
		Long: `hexa creates and grows Go projects laid out around ports and adapters.

Use cases depend only on port interfaces. Production code wires real
adapters through a container; tests wire deterministic doubles (fake
clock, stub UUIDs, capturing logger) through the same container.

Get started with 'hexa new <project>'.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.initConfig(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(opts.Stdout)
	root.SetErr(opts.Stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.ConfigFile, "config", "c", "", "manifest file (default: hexa.yaml in the project root)")
	pf.StringVarP(&opts.Dir, "dir", "C", ".", "project root")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVar(&opts.JSONOutput, "json", false, "output results as JSON")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	pf.StringVar(&opts.LogLevel, "log-level", "info", "log level (debug, info, warn, error)")

	_ = opts.Viper.BindPFlag("output.verbose", pf.Lookup("verbose"))
	_ = opts.Viper.BindPFlag("output.log_level", pf.Lookup("log-level"))

	root.AddCommand(
		newNewCommand(opts),
		newGenerateCommand(opts),
		newTestCommand(opts),
		newRunserverCommand(opts),
		newVersionCommand(opts),
	)
	return root
}

// needsProject reports whether cmd reads the project manifest.
func needsProject(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "new", "version", "help":
		return false
	}
	return true
}

func (o *Options) initConfig(cmd *cobra.Command) error {
	if o.Logger != nil {
		o.Logger.SetOutput(o.Stderr)
	}

	if needsProject(cmd) {
		if err := o.loadAndValidateConfig(); err != nil {
			return err
		}
	} else {
		o.Config = config.DefaultConfig()
		if o.LogLevel != "" {
			o.Config.Output.LogLevel = o.LogLevel
		}
		o.Config.Output.Verbose = o.Verbose
	}

	o.applyGlobalFlags()
	o.configureLoggerFormat()
	o.configureLogLevel()
	return nil
}

func (o *Options) loadAndValidateConfig() error {
	loader := config.NewLoaderWithViper(o.Viper).WithSearchPaths(o.Dir)
	if o.ConfigFile != "" {
		loader.WithConfigPath(o.ConfigFile)
	}

	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	report, err := config.Validate(cfg)
	if err != nil {
		return err
	}
	for _, w := range report.Warnings {
		o.Logger.Debug("config warning", "warning", w)
	}
	o.Config = cfg
	return nil
}

func (o *Options) applyGlobalFlags() {
	if o.Verbose {
		o.Config.Output.Verbose = true
	}
	if o.JSONOutput {
		o.Config.Output.Format = "json"
	}
	if o.NoColor {
		o.Config.Output.Color = false
	}
	if !o.Config.Output.Color {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

func (o *Options) configureLoggerFormat() {
	if o.IsJSON() {
		o.Logger.SetFormatter(log.JSONFormatter)
		o.Logger.SetReportTimestamp(true)
	} else if !o.Config.Output.Color {
		o.Logger.SetFormatter(log.TextFormatter)
	}
}

func (o *Options) configureLogLevel() {
	switch o.Config.Output.LogLevel {
	case "debug":
		o.Logger.SetLevel(log.DebugLevel)
	case "warn":
		o.Logger.SetLevel(log.WarnLevel)
	case "error":
		o.Logger.SetLevel(log.ErrorLevel)
	default:
		o.Logger.SetLevel(log.InfoLevel)
	}
	if o.IsVerbose() {
		o.Logger.SetLevel(log.DebugLevel)
	}
}

// ExitCode maps a command error to the process exit code. A failed child
// process passes its own code through.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}
	switch errors.GetKind(err) {
	case errors.KindConflict:
		return ExitConflict
	case errors.KindCanceled:
		return ExitInterrupted
	}
	return ExitError
}
