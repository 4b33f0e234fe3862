package command

import (
	"github.com/spf13/cobra"
)

func newSearchCommand(env *environment) *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "search [term]",
		Short: "Search snippets by substring across title, code, description, and tags",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := ""
			if len(args) == 1 {
				term = args[0]
			}
			records, err := env.service.Search(cmd.Context(), term, language)
			if err != nil {
				return err
			}
			printSnippetTable(cmd.OutOrStdout(), records)
			return nil
		},
	}

	cmd.Flags().StringVar(&language, "language", "", "Restrict matches to one language")

	return cmd
}
