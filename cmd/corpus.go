package cmd

import (
	"fmt"
	"os"
	"strconv"

	"minerva/internal/clix"
	"minerva/internal/models"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Manage the labeled content corpus",
}

var corpusAddCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a question or material to the corpus",
	Long: `Stores text in the corpus, either from the argument or from --file.
Files are parsed by extension: PDF and Word documents have their text
extracted, everything else is read as text. Materials (--kind material) are
split into sentence-aligned passages, each stored as its own row. Use
--category to pre-label the content for training.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return err
		}

		kindFlag, _ := cmd.Flags().GetString("kind")
		category, _ := cmd.Flags().GetString("category")
		file, _ := cmd.Flags().GetString("file")
		kind := models.ContentKind(kindFlag)
		if kind != models.KindQuestion && kind != models.KindMaterial {
			return fmt.Errorf("invalid kind %q: must be %q or %q", kindFlag, models.KindQuestion, models.KindMaterial)
		}

		var created []*models.LabeledContent
		switch {
		case file != "":
			created, err = appInstance.CorpusService.AddContentFromFile(ctx, kind, file, category)
		case len(args) == 1:
			created, err = appInstance.CorpusService.AddContent(ctx, kind, args[0], category)
		default:
			return fmt.Errorf("provide text as an argument or use --file")
		}
		if err != nil {
			return fmt.Errorf("failed to add content: %w", err)
		}
		if len(created) == 1 {
			fmt.Printf("Stored content %d\n", created[0].ID)
		} else {
			fmt.Printf("Stored %d passages (ids %d..%d)\n", len(created), created[0].ID, created[len(created)-1].ID)
		}
		return nil
	},
}

var corpusListCmd = &cobra.Command{
	Use:   "list",
	Short: "List corpus content",
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

		items, err := appInstance.CorpusStore.ListContent(ctx, page.Limit, page.Offset)
		if err != nil {
			return fmt.Errorf("failed to list content: %w", err)
		}
		if len(items) == 0 {
			fmt.Println("The corpus is empty.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Kind", "Category", "Auto", "Text"})
		for _, item := range items {
			cat := "-"
			if item.CategoryID != nil {
				cat = strconv.FormatInt(*item.CategoryID, 10)
			}
			auto := ""
			if item.AutoClassified {
				auto = "yes"
			}
			table.Append([]string{
				strconv.FormatInt(item.ID, 10), string(item.Kind), cat, auto, truncate(item.Text, 60),
			})
		}
		table.Render()
		return nil
	},
}

var corpusLabelCmd = &cobra.Command{
	Use:   "label [content_id] [category_name]",
	Short: "Assign a category to a content item, or clear it",
	Long:  `Labels a content item with a category by name. Omit the category name to clear the label.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return err
		}
		contentID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid content ID %q", args[0])
		}
		category := ""
		if len(args) == 2 {
			category = args[1]
		}
		if err := appInstance.CorpusService.LabelContent(ctx, contentID, category); err != nil {
			return fmt.Errorf("failed to label content %d: %w", contentID, err)
		}
		if category == "" {
			fmt.Printf("Cleared label on content %d\n", contentID)
		} else {
			fmt.Printf("Labeled content %d as %q\n", contentID, category)
		}
		return nil
	},
}

var corpusDeleteCmd = &cobra.Command{
	Use:   "delete [content_id]",
	Short: "Delete a content item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return err
		}
		contentID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid content ID %q", args[0])
		}
		if err := appInstance.CorpusStore.DeleteContent(ctx, contentID); err != nil {
			return fmt.Errorf("failed to delete content %d: %w", contentID, err)
		}
		fmt.Printf("Deleted content %d\n", contentID)
		return nil
	},
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func init() {
	rootCmd.AddCommand(corpusCmd)
	corpusCmd.AddCommand(corpusAddCmd, corpusListCmd, corpusLabelCmd, corpusDeleteCmd)

	corpusAddCmd.Flags().String("kind", string(models.KindQuestion), "content kind: question or material")
	corpusAddCmd.Flags().String("category", "", "pre-label with this category name")
	corpusAddCmd.Flags().String("file", "", "extract the content text from a file (txt, md, pdf, docx, ...)")
	corpusListCmd.Flags().Int("limit", 20, "maximum rows to list")
	corpusListCmd.Flags().Int("offset", 0, "rows to skip")
}
