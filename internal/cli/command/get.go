package command

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newGetCommand(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a single snippet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			record, err := env.service.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			printSnippetDetail(cmd.OutOrStdout(), record)
			return nil
		},
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid snippet id %q", raw)
	}
	return id, nil
}
