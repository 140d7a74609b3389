package cmd

import (
	"errors"
	"fmt"

	"minerva/internal/models"

	"github.com/spf13/cobra"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Measure resident-model accuracy over the labeled corpus",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return err
		}

		accuracy, count, err := appInstance.ClassificationService.EvaluateModel(ctx)
		if err != nil {
			if errors.Is(err, models.ErrNoModel) {
				return fmt.Errorf("no trained model loaded; run 'minerva train' first")
			}
			return fmt.Errorf("evaluation failed: %w", err)
		}
		if count == 0 {
			fmt.Println("The labeled corpus is empty; nothing to evaluate.")
			return nil
		}
		fmt.Printf("Accuracy: %.3f over %d labeled samples\n", accuracy, count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
}
