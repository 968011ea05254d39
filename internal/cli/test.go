package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/KeSHaMI/hexaframe/pkg/errors"
)

const defaultDebounce = 300 * time.Millisecond

// TestOptions holds options for the test command.
type TestOptions struct {
	*Options
	Watch    bool
	Args     string
	Debounce time.Duration
}

func newTestCommand(opts *Options) *cobra.Command {
	to := &TestOptions{Options: opts, Debounce: defaultDebounce}
	cmd := &cobra.Command{
		Use:   "test [-- go test flags]",
		Short: "Run the project's tests",
		Long: `Run go test ./... in the project root.

Extra arguments after -- or in --args are passed to go test. With --watch
the tests re-run whenever a .go file or go.mod changes.

Examples:
  hexa test
  hexa test -- -run TestCreateGreeting -v
  hexa test --watch --args "-count=1"`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return to.run(cmd.Context(), args)
		},
	}
	cmd.Flags().BoolVarP(&to.Watch, "watch", "w", false, "re-run tests when files change")
	cmd.Flags().StringVar(&to.Args, "args", "", "extra arguments for go test")
	return cmd
}

func (o *TestOptions) goTestArgs(extra []string) []string {
	args := []string{"test", "./..."}
	args = append(args, strings.Fields(o.Args)...)
	return append(args, extra...)
}

func (o *TestOptions) run(ctx context.Context, extra []string) error {
	args := o.goTestArgs(extra)
	err := o.runOnce(ctx, args)
	if !o.Watch {
		return err
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		o.PrintError(err.Error())
	}
	return o.watch(ctx, args)
}

func (o *TestOptions) runOnce(ctx context.Context, args []string) error {
	const op = "cli.test"
	o.Logger.Debug("running tests", "cmd", "go "+strings.Join(args, " "), "dir", o.Dir)
	if err := o.Run(ctx, o.Dir, o.Stdout, o.Stderr, "go", args...); err != nil {
		if ctx.Err() != nil {
			return errors.Canceled(op, ctx.Err())
		}
		return errors.Wrap(err, errors.KindInfra, op, "tests failed")
	}
	return nil
}

// watch re-runs the tests after a burst of changes settles. It returns
// when ctx is canceled.
func (o *TestOptions) watch(ctx context.Context, args []string) error {
	const op = "cli.test.watch"

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.IOWrap(err, op, "failed to create watcher")
	}
	defer func() { _ = watcher.Close() }()

	if err := addWatchDirs(watcher, o.Dir); err != nil {
		return errors.IOWrap(err, op, "failed to add watchers")
	}
	o.PrintInfo("Watching for changes... (press Ctrl+C to stop)")

	debounce := o.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	var (
		timer   *time.Timer
		fire    <-chan time.Time
		changed string
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !skipWatchDir(info.Name()) {
					if err := addWatchDirs(watcher, event.Name); err != nil {
						o.Logger.Warn("failed to watch directory", "dir", event.Name, "error", err)
					}
				}
			}
			if !relevantChange(event) {
				continue
			}
			changed = event.Name
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			o.PrintInfo(fmt.Sprintf("[%s] Change detected: %s", time.Now().Format("15:04:05"), filepath.Base(changed)))
			if err := o.runOnce(ctx, args); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				o.PrintError(err.Error())
			} else {
				o.PrintSuccess("Tests passed")
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			o.Logger.Warn("watch error", "error", err)
		}
	}
}

func relevantChange(event fsnotify.Event) bool {
	if !strings.HasSuffix(event.Name, ".go") && filepath.Base(event.Name) != "go.mod" {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}

func skipWatchDir(name string) bool {
	return name != "." && (strings.HasPrefix(name, ".") || name == "vendor" || name == "testdata")
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipWatchDir(d.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
