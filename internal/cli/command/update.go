package command

import (
	"fmt"

	"github.com/snipsterlab/snipster/internal/snippets"
	"github.com/spf13/cobra"
)

func newUpdateCommand(env *environment) *cobra.Command {
	var (
		title       string
		code        string
		description string
		language    string
		tags        string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields on an existing snippet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var fields snippets.UpdateFields
			if cmd.Flags().Changed("title") {
				fields.Title = &title
			}
			if cmd.Flags().Changed("code") {
				fields.Code = &code
			}
			if cmd.Flags().Changed("description") {
				fields.Description = &description
			}
			if cmd.Flags().Changed("language") {
				parsed, err := snippets.ParseLanguage(language)
				if err != nil {
					return err
				}
				fields.Language = &parsed
			}
			if cmd.Flags().Changed("tags") {
				fields.Tags = &tags
			}

			record, err := env.service.Update(cmd.Context(), id, fields)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Snippet %d updated\n", record.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&code, "code", "", "New code body")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&language, "language", "", "New language")
	cmd.Flags().StringVar(&tags, "tags", "", "New comma-separated tag list")

	return cmd
}
