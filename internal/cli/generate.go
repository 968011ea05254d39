package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KeSHaMI/hexaframe/internal/scaffold"
)

// GenerateOptions holds options for the generate subcommands.
type GenerateOptions struct {
	*Options
	Module string
	Force  bool
}

type generateFunc func(g *scaffold.Generator, ctx context.Context, opts scaffold.ComponentOptions) ([]scaffold.Generated, error)

func newGenerateCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen", "g"},
		Short:   "Generate use cases and ports",
	}
	cmd.AddCommand(
		newComponentCommand(opts, "usecase <Name>", "Generate a use case and its test",
			`Generate a use case in the use case package together with a test
that builds it from testkit.NewHarness().

Existing files are never overwritten unless --force is given.

Examples:
  hexa generate usecase RegisterUser
  hexa generate usecase cancel-order --force`,
			(*scaffold.Generator).GenerateUseCase),
		newComponentCommand(opts, "port <Name>", "Generate a port, an in-memory adapter and its test",
			`Generate a port interface, an in-memory adapter implementing it under
<adapters>/inmemory, and a test for the adapter.

Examples:
  hexa generate port PaymentGateway`,
			(*scaffold.Generator).GeneratePort),
	)
	return cmd
}

func newComponentCommand(opts *Options, use, short, long string, fn generateFunc) *cobra.Command {
	gopts := &GenerateOptions{Options: opts}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return gopts.run(cmd.Context(), args[0], fn)
		},
	}
	cmd.Flags().BoolVarP(&gopts.Force, "force", "f", false, "overwrite existing files")
	cmd.Flags().StringVar(&gopts.Module, "module", "", "Go module path (default: from the manifest or go.mod)")
	return cmd
}

func (o *GenerateOptions) run(ctx context.Context, name string, fn generateFunc) error {
	gen, err := o.newGenerator()
	if err != nil {
		return err
	}

	module := o.Module
	if module == "" {
		module = o.Config.Module
	}
	files, err := fn(gen, ctx, scaffold.ComponentOptions{
		Root:   o.Dir,
		Name:   name,
		Module: module,
		Layout: o.Config.Layout,
		Force:  o.Force,
	})
	if err != nil {
		return err
	}

	if !o.IsJSON() {
		o.PrintSuccess(fmt.Sprintf("Generated %s", scaffold.ToCamel(name)))
	}
	return o.printGenerated(o.Dir, files)
}
