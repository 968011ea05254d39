package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KeSHaMI/hexaframe/internal/config"
	"github.com/KeSHaMI/hexaframe/internal/scaffold"
)

// NewProjectOptions holds options for the new command.
type NewProjectOptions struct {
	*Options
	Module    string
	HTTP      string
	GoVersion string
	Manifest  string
	Sample    bool
	Git       bool
}

func newNewCommand(opts *Options) *cobra.Command {
	no := &NewProjectOptions{Options: opts}
	cmd := &cobra.Command{
		Use:   "new <project>",
		Short: "Create a new project",
		Long: `Create a new ports-and-adapters project.

The project gets a go.mod, a composition root in cmd/<project>, the
domain, use case, port and adapter packages, a README and a hexa
manifest. The target directory must not exist or must be empty.

Examples:
  # HTTP service with a sample use case
  hexa new shop --module github.com/acme/shop --sample

  # Project without the HTTP adapter, TOML manifest, git repository
  hexa new worker --http none --manifest toml --git`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return no.run(cmd.Context(), args[0])
		},
	}

	f := cmd.Flags()
	f.StringVar(&no.Module, "module", "", "Go module path (default: the project name)")
	f.StringVar(&no.HTTP, "http", config.HTTPChi, "HTTP adapter (chi, none)")
	f.StringVar(&no.GoVersion, "go", config.DefaultGoVersion, "go directive for go.mod")
	f.StringVar(&no.Manifest, "manifest", "yaml", "manifest format (yaml, toml, json)")
	f.BoolVar(&no.Sample, "sample", false, "include a sample use case and test")
	f.BoolVar(&no.Git, "git", false, "initialize a git repository")
	return cmd
}

func (o *NewProjectOptions) run(ctx context.Context, project string) error {
	gen, err := o.newGenerator()
	if err != nil {
		return err
	}

	dir := filepath.Join(o.Dir, project)
	o.Logger.Debug("creating project", "dir", dir, "http", o.HTTP, "sample", o.Sample)

	files, err := gen.NewProject(ctx, scaffold.ProjectOptions{
		Dir:       dir,
		Name:      filepath.Base(filepath.Clean(project)),
		Module:    o.Module,
		GoVersion: o.GoVersion,
		HTTP:      o.HTTP,
		Sample:    o.Sample,
		Manifest:  o.Manifest,
		Git:       o.Git,
		Layout:    o.Config.Layout,
	})
	if err != nil {
		return err
	}

	if o.IsJSON() {
		return o.printGenerated(dir, files)
	}
	o.PrintSuccess(fmt.Sprintf("Created project %q in %s", filepath.Base(dir), dir))
	if o.IsVerbose() {
		if err := o.printGenerated(dir, files); err != nil {
			return err
		}
	}
	o.println("")
	o.println("Next steps:")
	o.println(fmt.Sprintf("  1. cd %s", dir))
	o.println("  2. go mod tidy")
	o.println("  3. hexa test")
	o.println("  4. hexa generate usecase <Name>")
	return nil
}
