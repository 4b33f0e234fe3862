package command

import (
	"github.com/spf13/cobra"
)

func newListCommand(env *environment) *cobra.Command {
	var (
		language string
		favorite bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored snippets in ascending id order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var favoriteFilter *bool
			if cmd.Flags().Changed("favourite") {
				favoriteFilter = &favorite
			}

			records, err := env.service.List(cmd.Context(), language, favoriteFilter)
			if err != nil {
				return err
			}
			printSnippetTable(cmd.OutOrStdout(), records)
			return nil
		},
	}

	cmd.Flags().StringVar(&language, "language", "", "Filter by language")
	cmd.Flags().BoolVar(&favorite, "favourite", false, "Filter by favourite flag")

	return cmd
}
