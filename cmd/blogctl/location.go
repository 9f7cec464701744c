package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"blogicum/internal/models"
	"blogicum/internal/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type locationInput struct {
	Name string `json:"name" validate:"required,max=256"`
}

func newLocationCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "location",
		Short: "Manage locations",
	}

	var unpublished bool
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newValidator()
			if err != nil {
				return err
			}
			if err := validate(v, locationInput{Name: args[0]}); err != nil {
				return err
			}
			location := models.Location{Name: args[0], IsPublished: !unpublished}
			if err := repository.NewLocationRepository(a.db).Create(cmd.Context(), &location); err != nil {
				return fmt.Errorf("create location: %w", err)
			}
			a.logger.Info("location created", zap.Uint("id", location.ID))
			fmt.Fprintf(cmd.OutOrStdout(), "created location %q (id %d)\n", location.Name, location.ID)
			return nil
		},
	}
	add.Flags().BoolVar(&unpublished, "unpublished", false, "create the location hidden")

	list := &cobra.Command{
		Use:   "list",
		Short: "List all locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			locations, err := repository.NewLocationRepository(a.db).List(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPUBLISHED")
			for _, l := range locations {
				fmt.Fprintf(w, "%d\t%s\t%t\n", l.ID, l.Name, l.IsPublished)
			}
			return w.Flush()
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a location; its posts remain without a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid location id %q", args[0])
			}
			locations := repository.NewLocationRepository(a.db)
			location, err := locations.Get(cmd.Context(), uint(id))
			if err != nil {
				return fmt.Errorf("location %d: %w", id, err)
			}
			if err := locations.Delete(cmd.Context(), location.ID); err != nil {
				return fmt.Errorf("location %d: %w", id, err)
			}
			a.logger.Info("location deleted", zap.Uint64("id", id))
			fmt.Fprintf(cmd.OutOrStdout(), "deleted location %q (id %d)\n", location.Name, location.ID)
			return nil
		},
	}

	cmd.AddCommand(add, list, del)
	return cmd
}
