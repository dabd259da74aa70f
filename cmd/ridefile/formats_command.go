package main

import (
	"github.com/spf13/cobra"
)

func newFormatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the ride file formats ridefile can read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := ctx.ensureRegistry(cmd.Context())
			if err != nil {
				return err
			}
			formats := reg.Formats()
			rows := make([][]string, 0, len(formats))
			for _, f := range formats {
				rows = append(rows, []string{f.Suffix, f.Description})
			}
			writeRows(cmd.OutOrStdout(), []string{"Suffix", "Description"}, rows, nil)
			return nil
		},
	}
}
