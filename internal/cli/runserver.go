package cli

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KeSHaMI/hexaframe/pkg/errors"
)

// RunserverOptions holds options for the runserver command.
type RunserverOptions struct {
	*Options
	Cmd string
}

func newRunserverCommand(opts *Options) *cobra.Command {
	ro := &RunserverOptions{Options: opts}
	cmd := &cobra.Command{
		Use:   "runserver [-- program args]",
		Short: "Run the project's composition root",
		Long: `Run go run ./cmd/<name> in the project root.

The command directory is taken from --cmd, then from the manifest name,
then from the only directory under cmd/. Interrupting the server is not
an error.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ro.run(cmd.Context(), args)
		},
	}
	cmd.Flags().StringVar(&ro.Cmd, "cmd", "", "directory under cmd/ to run")
	return cmd
}

func (o *RunserverOptions) run(ctx context.Context, args []string) error {
	const op = "cli.runserver"

	target, err := o.resolveTarget()
	if err != nil {
		return err
	}
	goArgs := append([]string{"run", "./" + path.Join("cmd", target)}, args...)
	o.Logger.Info("starting", "cmd", "go "+strings.Join(goArgs, " "))

	if err := o.Run(ctx, o.Dir, o.Stdout, o.Stderr, "go", goArgs...); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return errors.Wrap(err, errors.KindInfra, op, "server exited")
	}
	return nil
}

func (o *RunserverOptions) resolveTarget() (string, error) {
	const op = "cli.runserver"
	cmdDir := filepath.Join(o.Dir, "cmd")

	isDir := func(name string) bool {
		info, err := os.Stat(filepath.Join(cmdDir, name))
		return err == nil && info.IsDir()
	}

	if o.Cmd != "" {
		if !isDir(o.Cmd) {
			return "", errors.NotFound(op, "no such command directory: cmd/"+o.Cmd).WithDetail("cmd", o.Cmd)
		}
		return o.Cmd, nil
	}
	if o.Config != nil && o.Config.Name != "" && isDir(o.Config.Name) {
		return o.Config.Name, nil
	}

	entries, err := os.ReadDir(cmdDir)
	if err != nil {
		return "", errors.NotFound(op, "no cmd/ directory in "+o.Dir).WithDetail("dir", o.Dir)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	switch len(names) {
	case 0:
		return "", errors.NotFound(op, "no command directories under cmd/")
	case 1:
		return names[0], nil
	default:
		return "", errors.Validation(op, "multiple commands under cmd/ ("+strings.Join(names, ", ")+"); pass --cmd").
			WithDetail("commands", names)
	}
}
