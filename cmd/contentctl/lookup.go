package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/annel0/voxel-content/internal/content"
)

func newLookupCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "lookup [id]",
		Short: "Show the descriptor of a content type",
		Long: `Lookup prints the tags and supported roles of a registered content
type, or of every type with --all.

Example:
  contentctl lookup stone
  contentctl lookup --all`,
		Args: func(cmd *cobra.Command, args []string) error {
			if all {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if all {
				for _, d := range content.Default().Descriptors() {
					fmt.Fprintln(out, d)
				}
				return nil
			}

			d, ok := content.Lookup(content.ID(args[0]))
			if !ok {
				return fmt.Errorf("content id %q not found (known: %v)", args[0], content.Default().IDs())
			}
			fmt.Fprintln(out, d)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "list every registered type")
	return cmd
}
