package main

import (
	"fmt"

	"blogicum/internal/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <username>",
		Short: "Delete an account together with its posts and comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := repository.NewUserRepository(a.db).Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("user %q: %w", args[0], err)
			}
			a.logger.Info("user deleted", zap.String("username", args[0]))
			fmt.Fprintf(cmd.OutOrStdout(), "deleted user %s\n", args[0])
			return nil
		},
	})
	return cmd
}
