package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFavouriteCommand(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "favourite <id>",
		Short: "Toggle the favourite flag on a snippet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			record, err := env.service.ToggleFavourite(cmd.Context(), id)
			if err != nil {
				return err
			}
			action := "unfavourited"
			if record.Favorite {
				action = "favourited"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Snippet %d %s\n", record.ID, action)
			return nil
		},
	}
}
