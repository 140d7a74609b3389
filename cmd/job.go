package cmd

import (
	"fmt"
	"os"
	"time"

	"minerva/internal/clix"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Inspect background jobs",
}

var jobListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded background jobs",
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

		jobs, err := appInstance.JobStore.ListJobs(ctx, page.Limit, page.Offset)
		if err != nil {
			return fmt.Errorf("failed to list jobs: %w", err)
		}
		if len(jobs) == 0 {
			fmt.Println("No background jobs recorded.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Job ID", "Type", "Queue", "Status", "Updated"})
		for _, job := range jobs {
			table.Append([]string{
				job.JobID.String(), job.TaskType, job.Queue, job.Status,
				job.UpdatedAt.Format(time.RFC3339),
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(jobCmd)
	jobCmd.AddCommand(jobListCmd)

	jobListCmd.Flags().Int("limit", 20, "maximum rows to list")
	jobListCmd.Flags().Int("offset", 0, "rows to skip")
}
