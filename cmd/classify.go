package cmd

import (
	"fmt"
	"os"
	"strings"

	"minerva/pkg/classifier"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [text...]",
	Short: "Classify text or a stored content item",
	Long: `Classifies ad-hoc text given as arguments, or a stored content item
with --content-id. Classifying stored content records the suggestion and
auto-applies HIGH-confidence predictions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return err
		}

		contentID, _ := cmd.Flags().GetInt64("content-id")
		var result classifier.ClassificationResult
		if contentID > 0 {
			res, entry, err := appInstance.ClassificationService.ClassifyContent(ctx, contentID)
			if err != nil {
				return fmt.Errorf("failed to classify content %d: %w", contentID, err)
			}
			result = res
			if entry != nil && entry.Accepted != nil && *entry.Accepted {
				color.Green("Category %q auto-applied to content %d", result.Label, contentID)
			} else if entry != nil {
				fmt.Printf("Suggestion #%d recorded; resolve it with 'minerva suggestion accept %d'\n", entry.ID, entry.ID)
			}
		} else {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return fmt.Errorf("provide text to classify or --content-id")
			}
			result = appInstance.ClassificationService.ClassifyText(ctx, text)
		}

		printResult(result)
		return nil
	},
}

func printResult(result classifier.ClassificationResult) {
	tierColor := color.New(color.FgRed)
	switch result.Tier {
	case classifier.TierHigh:
		tierColor = color.New(color.FgGreen)
	case classifier.TierMedium:
		tierColor = color.New(color.FgYellow)
	}
	fmt.Printf("Category:   %s\n", result.Label)
	fmt.Printf("Confidence: %.3f (%s)\n", result.Confidence, tierColor.Sprint(result.Tier))

	if len(result.Alternatives) > 0 {
		fmt.Println("\nAlternatives:")
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Category", "Confidence"})
		for _, alt := range result.Alternatives {
			table.Append([]string{alt.Label, fmt.Sprintf("%.3f", alt.Confidence)})
		}
		table.Render()
	}
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().Int64("content-id", 0, "classify a stored content item instead of ad-hoc text")
}
