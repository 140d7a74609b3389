package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords [text...]",
	Short: "Extract the top keywords from text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return err
		}

		topN, _ := cmd.Flags().GetInt("top")
		text := strings.Join(args, " ")
		keywords := appInstance.ClassificationService.ExtractKeywords(ctx, text, topN)
		if len(keywords) == 0 {
			fmt.Println("No keywords extracted.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Keyword", "Weight"})
		for _, kw := range keywords {
			table.Append([]string{kw.Term, fmt.Sprintf("%.3f", kw.Weight)})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keywordsCmd)
	keywordsCmd.Flags().Int("top", 0, "number of keywords to extract (default from config)")
}
