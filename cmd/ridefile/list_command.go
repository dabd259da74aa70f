package main

import (
	"path/filepath"

	"github.com/spf13/cobra"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var absolute bool

	cmd := &cobra.Command{
		Use:   "list [dir]",
		Short: "List readable ride files in a directory",
		Long:  "List the files in dir (default paths.ride_dir) whose suffix matches a registered format.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := ctx.rideDir(args)
			if err != nil {
				return err
			}
			reg, err := ctx.ensureRegistry(cmd.Context())
			if err != nil {
				return err
			}
			names, err := reg.ListMatching(dir)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(names))
			for _, name := range names {
				if absolute {
					name = filepath.Join(dir, name)
				}
				rows = append(rows, []string{name})
			}
			writeRows(cmd.OutOrStdout(), []string{"File"}, rows, nil)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&absolute, "absolute", "a", false, "Print full paths instead of file names")
	return cmd
}
