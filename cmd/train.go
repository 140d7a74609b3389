package cmd

import (
	"errors"
	"fmt"

	"minerva/internal/models"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a new classifier model from the labeled corpus",
	Long: `Fits a new model on every labeled content item (plus category seed
keywords), measures held-out accuracy, and publishes the model if it passes
the acceptance gate. With --async the run is queued for the background worker
instead of executing inline.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return err
		}

		async, _ := cmd.Flags().GetBool("async")
		if async {
			jobID, err := appInstance.JobClient.EnqueueTrainingRun(ctx, "cli")
			if err != nil {
				return fmt.Errorf("failed to queue training run: %w", err)
			}
			fmt.Printf("Training run queued (job %s). Check progress with 'minerva job list'.\n", jobID)
			return nil
		}

		report, err := appInstance.ClassificationService.TrainClassifier(ctx)
		if err != nil {
			if errors.Is(err, models.ErrTrainingInProgress) {
				return fmt.Errorf("a training run is already in progress")
			}
			return fmt.Errorf("training failed: %w", err)
		}

		if !report.Success {
			color.Yellow("Training did not produce a model: %s", report.Message)
			return nil
		}
		color.Green("Training complete: %s", report.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(trainCmd)
	trainCmd.Flags().Bool("async", false, "queue the training run for the background worker")
}
