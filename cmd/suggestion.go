package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"minerva/internal/clix"
	"minerva/internal/models"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var suggestionCmd = &cobra.Command{
	Use:   "suggestion",
	Short: "Review recorded classification suggestions",
}

var suggestionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List classification suggestions",
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
		unresolved, _ := cmd.Flags().GetBool("unresolved")

		logs, err := appInstance.LogStore.ListSuggestions(ctx, page.Limit, page.Offset, unresolved)
		if err != nil {
			return fmt.Errorf("failed to list suggestions: %w", err)
		}
		if len(logs) == 0 {
			fmt.Println("No suggestions recorded.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Content", "Category", "Confidence", "Tier", "Status"})
		for _, l := range logs {
			status := "pending"
			if l.Accepted != nil {
				if *l.Accepted {
					status = "accepted"
				} else {
					status = "rejected"
				}
			}
			table.Append([]string{
				strconv.FormatInt(l.ID, 10),
				strconv.FormatInt(l.ContentID, 10),
				strconv.FormatInt(l.SuggestedCategoryID, 10),
				fmt.Sprintf("%.3f", l.Confidence),
				l.Tier,
				status,
			})
		}
		table.Render()
		return nil
	},
}

var suggestionAcceptCmd = &cobra.Command{
	Use:   "accept [suggestion_id]",
	Short: "Accept a suggestion and apply its category",
	Args:  cobra.ExactArgs(1),
	RunE:  resolveSuggestion(true),
}

var suggestionRejectCmd = &cobra.Command{
	Use:   "reject [suggestion_id]",
	Short: "Reject a suggestion",
	Args:  cobra.ExactArgs(1),
	RunE:  resolveSuggestion(false),
}

func resolveSuggestion(accept bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return err
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid suggestion ID %q", args[0])
		}

		if accept {
			err = appInstance.ClassificationService.AcceptSuggestion(ctx, id)
		} else {
			err = appInstance.ClassificationService.RejectSuggestion(ctx, id)
		}
		if err != nil {
			if errors.Is(err, models.ErrSuggestionResolved) {
				return fmt.Errorf("suggestion %d was already resolved", id)
			}
			return fmt.Errorf("failed to resolve suggestion %d: %w", id, err)
		}
		if accept {
			fmt.Printf("Accepted suggestion %d\n", id)
		} else {
			fmt.Printf("Rejected suggestion %d\n", id)
		}
		return nil
	}
}

func init() {
	rootCmd.AddCommand(suggestionCmd)
	suggestionCmd.AddCommand(suggestionListCmd, suggestionAcceptCmd, suggestionRejectCmd)

	suggestionListCmd.Flags().Int("limit", 20, "maximum rows to list")
	suggestionListCmd.Flags().Int("offset", 0, "rows to skip")
	suggestionListCmd.Flags().Bool("unresolved", false, "only show pending suggestions")
}
