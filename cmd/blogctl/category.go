package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"blogicum/internal/models"
	"blogicum/internal/repository"
	"blogicum/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type categoryInput struct {
	Title       string `json:"title" validate:"required,max=256"`
	Slug        string `json:"slug" validate:"required,max=64,slug"`
	Description string `json:"description" validate:"required"`
}

func newValidator() (*validator.Validate, error) {
	v := validator.New()
	if err := validation.Register(v); err != nil {
		return nil, err
	}
	return v, nil
}

// validate joins every failing field into one error.
func validate(v *validator.Validate, input interface{}) error {
	errs := validation.Errors(v.Struct(input))
	if len(errs) == 0 {
		return nil
	}
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = field + ": " + errs[field]
	}
	return errors.New(strings.Join(parts, "; "))
}

func newCategoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage categories",
	}

	var input categoryInput
	var unpublished bool
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newValidator()
			if err != nil {
				return err
			}
			if err := validate(v, input); err != nil {
				return err
			}
			category := models.Category{
				Title:       input.Title,
				Slug:        input.Slug,
				Description: input.Description,
				IsPublished: !unpublished,
			}
			if err := repository.NewCategoryRepository(a.db).Create(cmd.Context(), &category); err != nil {
				return fmt.Errorf("create category %q: %w", input.Slug, err)
			}
			a.logger.Info("category created", zap.String("slug", category.Slug), zap.Bool("published", category.IsPublished))
			fmt.Fprintf(cmd.OutOrStdout(), "created category %s (id %d)\n", category.Slug, category.ID)
			return nil
		},
	}
	add.Flags().StringVar(&input.Title, "title", "", "category title")
	add.Flags().StringVar(&input.Slug, "slug", "", "URL identifier: letters, digits, hyphen and underscore")
	add.Flags().StringVar(&input.Description, "description", "", "category description")
	add.Flags().BoolVar(&unpublished, "unpublished", false, "create the category hidden")

	list := &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, err := repository.NewCategoryRepository(a.db).List(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSLUG\tTITLE\tPUBLISHED")
			for _, c := range categories {
				fmt.Fprintf(w, "%d\t%s\t%s\t%t\n", c.ID, c.Slug, c.Title, c.IsPublished)
			}
			return w.Flush()
		},
	}

	show := &cobra.Command{
		Use:   "show <slug>",
		Short: "Show one category, published or not",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := repository.NewCategoryRepository(a.db).GetBySlug(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("category %q: %w", args[0], err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "id:          %d\n", category.ID)
			fmt.Fprintf(out, "slug:        %s\n", category.Slug)
			fmt.Fprintf(out, "title:       %s\n", category.Title)
			fmt.Fprintf(out, "published:   %t\n", category.IsPublished)
			fmt.Fprintf(out, "description: %s\n", category.Description)
			return nil
		},
	}

	setPublished := func(use, short string, published bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <slug>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := repository.NewCategoryRepository(a.db).SetPublished(cmd.Context(), args[0], published); err != nil {
					return fmt.Errorf("category %q: %w", args[0], err)
				}
				a.logger.Info("category visibility changed", zap.String("slug", args[0]), zap.Bool("published", published))
				fmt.Fprintf(cmd.OutOrStdout(), "category %s published=%t\n", args[0], published)
				return nil
			},
		}
	}

	del := &cobra.Command{
		Use:   "delete <slug>",
		Short: "Delete a category; its posts remain without a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := repository.NewCategoryRepository(a.db).Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("category %q: %w", args[0], err)
			}
			a.logger.Info("category deleted", zap.String("slug", args[0]))
			fmt.Fprintf(cmd.OutOrStdout(), "deleted category %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(
		add,
		list,
		show,
		setPublished("publish", "Make a category and its posts visible", true),
		setPublished("unpublish", "Hide a category and all of its posts", false),
		del,
	)
	return cmd
}
