package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"minerva/internal/clix"
	"minerva/internal/models"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage classification categories",
}

var categoryAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create a category",
	Long: `Creates a classification category. Seed keywords (--keywords) give a
fresh category one synthetic training sample before it has organic content.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return err
		}
		keywords, err := clix.ParseCommaList(cmd.Flags(), "keywords")
		if err != nil {
			return err
		}

		cat := &models.Category{Name: strings.TrimSpace(args[0]), SeedKeywords: keywords}
		if cat.Name == "" {
			return fmt.Errorf("category name cannot be empty")
		}
		if err := appInstance.CategoryStore.CreateCategory(ctx, cat); err != nil {
			return fmt.Errorf("failed to create category: %w", err)
		}
		fmt.Printf("Created category %d (%s)\n", cat.ID, cat.Name)
		return nil
	},
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return err
		}

		cats, err := appInstance.CategoryStore.ListCategories(ctx)
		if err != nil {
			return fmt.Errorf("failed to list categories: %w", err)
		}
		if len(cats) == 0 {
			fmt.Println("No categories defined.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Name", "Seed Keywords"})
		for _, cat := range cats {
			table.Append([]string{
				strconv.FormatInt(cat.ID, 10), cat.Name, strings.Join(cat.SeedKeywords, ", "),
			})
		}
		table.Render()
		return nil
	},
}

var categorySeedCmd = &cobra.Command{
	Use:   "seed [name] [keywords]",
	Short: "Replace a category's seed keywords",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return err
		}

		cat, err := appInstance.CategoryStore.GetCategoryByName(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to find category %q: %w", args[0], err)
		}
		var keywords []string
		for _, part := range strings.Split(args[1], ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				keywords = append(keywords, trimmed)
			}
		}
		cat.SeedKeywords = keywords
		if err := appInstance.CategoryStore.UpdateCategory(ctx, cat); err != nil {
			return fmt.Errorf("failed to update category %q: %w", cat.Name, err)
		}
		fmt.Printf("Updated seed keywords for %q (%d keywords)\n", cat.Name, len(keywords))
		return nil
	},
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return err
		}

		cat, err := appInstance.CategoryStore.GetCategoryByName(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to find category %q: %w", args[0], err)
		}
		if err := appInstance.CategoryStore.DeleteCategory(ctx, cat.ID); err != nil {
			return fmt.Errorf("failed to delete category %q: %w", cat.Name, err)
		}
		fmt.Printf("Deleted category %q; its content is now unlabeled\n", cat.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categoryCmd)
	categoryCmd.AddCommand(categoryAddCmd, categoryListCmd, categorySeedCmd, categoryDeleteCmd)

	categoryAddCmd.Flags().String("keywords", "", "comma-separated seed keywords")
}
