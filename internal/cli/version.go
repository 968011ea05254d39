package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KeSHaMI/hexaframe/internal/version"
)

func newVersionCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := opts.Version
			if info.Version == "" || info.Version == "dev" {
				info.Version = version.Get()
			}
			if opts.IsJSON() {
				return opts.writeJSON(map[string]string{
					"version": info.Version,
					"commit":  info.Commit,
					"date":    info.Date,
				})
			}
			opts.println(fmt.Sprintf("hexa %s", info.Version))
			if opts.IsVerbose() {
				opts.println(fmt.Sprintf("  commit: %s", info.Commit))
				opts.println(fmt.Sprintf("  built:  %s", info.Date))
			}
			return nil
		},
	}
}
