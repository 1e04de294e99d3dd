package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/RowanDark/vigenere/internal/cipher"
	"github.com/RowanDark/vigenere/internal/logging"
)

func newRecipeCommand(flags *globalFlags) *cobra.Command {
	cmd := groupCommand(&cobra.Command{
		Use:   "recipe",
		Short: "Manage saved pipelines",
	})
	cmd.AddCommand(
		newRecipeSaveCommand(flags),
		newRecipeListCommand(flags),
		newRecipeRunCommand(flags),
		newRecipeExportCommand(flags),
		newRecipeDeleteCommand(flags),
	)
	return cmd
}

// withRecipes loads config, the audit logger, and the recipe store for a
// recipe subcommand.
func withRecipes(flags *globalFlags, fn func(rm *cipher.RecipeManager, logger *logging.AuditLogger) error) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	rm, err := recipeManager(cfg)
	if err != nil {
		return err
	}
	logger, err := auditLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()
	return fn(rm, logger)
}

func newRecipeSaveCommand(flags *globalFlags) *cobra.Command {
	var (
		specs       []string
		description string
		tags        []string
		reversible  bool
	)
	cmd := &cobra.Command{
		Use:   "save NAME",
		Short: "Save a pipeline under a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := parseOpSpecs(specs)
			if err != nil {
				return err
			}
			return withRecipes(flags, func(rm *cipher.RecipeManager, logger *logging.AuditLogger) error {
				recipe := &cipher.Recipe{
					Name:        args[0],
					Description: description,
					Tags:        tags,
					Pipeline:    cipher.Pipeline{Operations: ops, Reversible: reversible},
				}
				if existing, ok := rm.GetRecipe(recipe.Name); ok {
					recipe.CreatedAt = existing.CreatedAt
				}
				if err := rm.SaveRecipe(recipe); err != nil {
					return err
				}
				_ = logger.Emit(logging.AuditEvent{
					EventType: logging.EventRecipeSaved,
					Decision:  logging.DecisionAllow,
					Metadata:  map[string]any{"recipe": recipe.Name, "steps": len(ops)},
				})
				fmt.Fprintf(cmd.OutOrStdout(), "saved recipe %s\n", recipe.Name)
				return nil
			})
		},
	}
	cmd.Flags().StringArrayVar(&specs, "op", nil, "Operation as name[:k=v,...]; repeat to chain")
	cmd.Flags().StringVar(&description, "description", "", "Recipe description")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag to attach; repeatable")
	cmd.Flags().BoolVar(&reversible, "reversible", false, "Mark the pipeline as reversible")
	return cmd
}

func newRecipeListCommand(flags *globalFlags) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRecipes(flags, func(rm *cipher.RecipeManager, _ *logging.AuditLogger) error {
				recipes := rm.ListRecipes()
				if query != "" {
					recipes = rm.SearchRecipes(query)
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tSTEPS\tREVERSIBLE\tDESCRIPTION")
				for _, r := range recipes {
					fmt.Fprintf(tw, "%s\t%d\t%t\t%s\n", r.Name, len(r.Pipeline.Operations), r.Pipeline.Reversible, r.Description)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&query, "search", "", "Only show recipes matching this text")
	return cmd
}

func newRecipeRunCommand(flags *globalFlags) *cobra.Command {
	var invert bool
	cmd := &cobra.Command{
		Use:   "run NAME [input...]",
		Short: "Run a saved recipe",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args[1:])
			if err != nil {
				return err
			}
			return withRecipes(flags, func(rm *cipher.RecipeManager, logger *logging.AuditLogger) error {
				recipe, ok := rm.GetRecipe(args[0])
				if !ok {
					return fmt.Errorf("%w: %s", cipher.ErrRecipeNotFound, args[0])
				}
				pipeline := &recipe.Pipeline
				if invert {
					if pipeline, err = pipeline.Reverse(); err != nil {
						return err
					}
				}
				out, err := pipeline.Execute(cmd.Context(), []byte(input))
				event := logging.AuditEvent{
					EventType: logging.EventPipelineRun,
					Decision:  logging.DecisionAllow,
					Metadata:  map[string]any{"recipe": recipe.Name, "inverted": invert},
				}
				if err != nil {
					event.Decision = logging.DecisionDeny
					event.Reason = cipher.FailureReason(err)
				}
				_ = logger.Emit(event)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&invert, "invert", false, "Run the inverse of the recipe")
	return cmd
}

func newRecipeExportCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export NAME",
		Short: "Print a recipe as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRecipes(flags, func(rm *cipher.RecipeManager, _ *logging.AuditLogger) error {
				data, err := rm.ExportRecipe(args[0])
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			})
		},
	}
}

func newRecipeDeleteCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a saved recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRecipes(flags, func(rm *cipher.RecipeManager, logger *logging.AuditLogger) error {
				if err := rm.DeleteRecipe(args[0]); err != nil {
					return err
				}
				_ = logger.Emit(logging.AuditEvent{
					EventType: logging.EventRecipeDeleted,
					Decision:  logging.DecisionAllow,
					Metadata:  map[string]any{"recipe": args[0]},
				})
				fmt.Fprintf(cmd.OutOrStdout(), "deleted recipe %s\n", args[0])
				return nil
			})
		},
	}
}
