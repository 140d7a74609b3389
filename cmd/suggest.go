package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [text...]",
	Short: "Recommend tags for text",
	Long: `Extracts keywords from the text and matches them against the stored
tag vocabulary. Keywords matching a known tag surface the tag itself; the
rest are offered as discounted new-tag candidates.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return err
		}

		text := strings.Join(args, " ")
		suggestions, err := appInstance.ClassificationService.SuggestTags(ctx, text)
		if err != nil {
			return fmt.Errorf("failed to suggest tags: %w", err)
		}
		if len(suggestions) == 0 {
			fmt.Println("No tag suggestions for this text.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Rank", "Tag", "Score", "Known"})
		for _, s := range suggestions {
			known := ""
			if s.Known {
				known = "yes"
			}
			table.Append([]string{
				fmt.Sprintf("%d", s.Rank), s.Tag, fmt.Sprintf("%.3f", s.Score), known,
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}
