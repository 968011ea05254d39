package cli

import (
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/KeSHaMI/hexaframe/internal/config"
)

// CommandRunner runs an external program in dir, streaming its output.
type CommandRunner func(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) error

// Options holds the CLI runtime options and dependencies shared by every
// command.
type Options struct {
	Version VersionInfo

	// Global flags
	ConfigFile string
	Dir        string
	Verbose    bool
	JSONOutput bool
	NoColor    bool
	LogLevel   string

	// Runtime state
	Config *config.Config
	Logger *log.Logger
	Styles Styles
	Viper  *viper.Viper

	// Run starts external programs (go test, go run).
	Run CommandRunner

	Stdout io.Writer
	Stderr io.Writer
}

// VersionInfo holds version metadata.
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// Styles colors the status lines printed by commands. --no-color swaps the
// renderer profile rather than the styles.
type Styles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Subtle  lipgloss.Style
}

// DefaultStyles returns the palette used by hexa.
func DefaultStyles() Styles {
	fg := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }
	return Styles{
		Success: fg("42").Bold(true),
		Error:   fg("196").Bold(true),
		Info:    fg("33"),
		Subtle:  fg("241"),
	}
}

// NewOptions creates Options writing to the process streams.
func NewOptions() *Options {
	return &Options{
		Dir:    ".",
		Styles: DefaultStyles(),
		Viper:  viper.New(),
		Run:    execRunner,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true}),
	}
}

func execRunner(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- arguments come from the local user
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// SetVersion records the build metadata injected by the linker.
func (o *Options) SetVersion(version, commit, date string) {
	o.Version = VersionInfo{Version: version, Commit: commit, Date: date}
}

// IsJSON reports whether output is JSON, from --json or output.format.
func (o *Options) IsJSON() bool {
	return o.JSONOutput || (o.Config != nil && o.Config.Output.Format == "json")
}

// IsVerbose reports whether --verbose or output.verbose is set.
func (o *Options) IsVerbose() bool {
	return o.Verbose || (o.Config != nil && o.Config.Output.Verbose)
}

// PrintSuccess reports a completed step.
func (o *Options) PrintSuccess(msg string) { o.printStyled(o.Styles.Success, "✓ ", msg) }

// PrintError reports a failed step.
func (o *Options) PrintError(msg string) { o.printStyled(o.Styles.Error, "✗ ", msg) }

// PrintInfo prints a hint for the user.
func (o *Options) PrintInfo(msg string) { o.printStyled(o.Styles.Info, "→ ", msg) }

// PrintSubtle prints secondary text such as paths.
func (o *Options) PrintSubtle(msg string) { o.printStyled(o.Styles.Subtle, "", msg) }

func (o *Options) printStyled(style lipgloss.Style, prefix, msg string) {
	if o.Stdout == nil {
		return
	}
	_, _ = io.WriteString(o.Stdout, style.Render(prefix+msg)+"\n")
}

// println writes msg unstyled, for text meant to be copied.
func (o *Options) println(msg string) {
	if o.Stdout == nil {
		return
	}
	_, _ = io.WriteString(o.Stdout, msg+"\n")
}
