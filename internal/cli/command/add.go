package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAddCommand(env *environment) *cobra.Command {
	var (
		title       string
		code        string
		description string
		language    string
		tags        string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new code snippet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := env.service.Add(cmd.Context(), title, code, description, language, tags)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Snippet %q added with id %d\n", record.Title, record.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Snippet title (required)")
	cmd.Flags().StringVar(&code, "code", "", "Snippet code body (required)")
	cmd.Flags().StringVar(&description, "description", "", "Optional description")
	cmd.Flags().StringVar(&language, "language", "", "Programming language (Python, JavaScript, TypeScript)")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated tags")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("code")

	return cmd
}
