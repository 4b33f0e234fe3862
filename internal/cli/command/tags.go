package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTagsCommand(env *environment) *cobra.Command {
	var (
		remove bool
		sorted bool
	)

	cmd := &cobra.Command{
		Use:   "tags <id> <tag>...",
		Short: "Add or remove tags on a snippet",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			record, err := env.service.ModifyTags(cmd.Context(), id, args[1:], remove, sorted)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Snippet %d tags: %s\n", record.ID, valueOrDash(record.Tags))
			return nil
		},
	}

	cmd.Flags().BoolVar(&remove, "remove", false, "Remove the listed tags instead of adding them")
	cmd.Flags().BoolVar(&sorted, "sort", true, "Keep the stored tag list sorted")

	return cmd
}
