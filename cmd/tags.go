package cmd

import (
	"fmt"
	"os"
	"strconv"

	"minerva/internal/clix"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage the known tag vocabulary",
}

var tagAddCmd = &cobra.Command{
	Use:   "add [name...]",
	Short: "Add tags to the vocabulary",
	Long:  `Adds one or more tags. Existing tags (case-insensitive) are reused.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return err
		}

		tags, err := appInstance.TagStore.GetOrCreateTagsByName(ctx, args)
		if err != nil {
			return fmt.Errorf("failed to add tags: %w", err)
		}
		for _, tag := range tags {
			fmt.Printf("%d\t%s\t(%s)\n", tag.ID, tag.Name, tag.Slug)
		}
		return nil
	},
}

var tagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tags",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return err
		}
		page, err := clix.ParsePagination(cmd.Flags())
		if err != nil {
			return err
		}

		tags, err := appInstance.TagStore.ListTags(ctx, page.Limit, page.Offset)
		if err != nil {
			return fmt.Errorf("failed to list tags: %w", err)
		}
		if len(tags) == 0 {
			fmt.Println("No tags defined.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Name", "Slug"})
		for _, tag := range tags {
			table.Append([]string{strconv.FormatInt(tag.ID, 10), tag.Name, tag.Slug})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tagCmd)
	tagCmd.AddCommand(tagAddCmd, tagListCmd)

	tagListCmd.Flags().Int("limit", 50, "maximum rows to list")
	tagListCmd.Flags().Int("offset", 0, "rows to skip")
}
