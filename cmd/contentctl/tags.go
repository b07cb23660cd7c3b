package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/annel0/voxel-content/internal/content"
)

func newTagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags [tag...]",
		Short: "List content ids carrying each tag",
		Long: `Tags prints, for every given tag (default: all tags), the ids of
registered content types carrying it, in registration order.

Example:
  contentctl tags
  contentctl tags can_be_burn wood`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tags := content.AllTags()
			if len(args) > 0 {
				tags = tags[:0]
				for _, arg := range args {
					tag, ok := content.ParseTag(arg)
					if !ok {
						return fmt.Errorf("unknown tag %q", arg)
					}
					tags = append(tags, tag)
				}
			}

			out := cmd.OutOrStdout()
			for _, tag := range tags {
				fmt.Fprintf(out, "%s: %v\n", tag, content.FilterByTag(tag))
			}
			return nil
		},
	}
}
