package cmd

import (
	"context"
	"fmt"
	"os"

	"minerva/internal/app"
	"minerva/internal/config"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "minerva",
	Short: "Minerva CLI",
	Long: `Minerva classifies classroom content into categories, extracts
keywords and recommends tags, using a model trained on the labeled corpus.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
	// PersistentPreRunE runs before any subcommand's RunE
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		appInstance, err := app.NewApp(cfg, app.Options{WithJobClient: needsJobClient(cmd)})
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}

		ctx := context.WithValue(cmd.Context(), appKey, appInstance)
		cmd.SetContext(ctx)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if a, err := GetAppFromContext(cmd.Context()); err == nil {
			a.Close()
		}
	},
}

// needsJobClient reports whether the command enqueues background work and
// therefore needs a Redis connection.
func needsJobClient(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "train", "worker":
		return true
	}
	return false
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Custom context key type to avoid collisions.
type contextKey string

const appKey contextKey = "app"

// GetAppFromContext retrieves the app instance stored by PersistentPreRunE.
func GetAppFromContext(ctx context.Context) (*app.App, error) {
	appInstance, ok := ctx.Value(appKey).(*app.App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("application instance not found in context")
	}
	return appInstance, nil
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check database connectivity and model status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return err
		}

		fmt.Println("Checking database connectivity...")
		if err := appInstance.CorpusStore.Ping(ctx); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}
		fmt.Println("Database connection successful.")

		reg := appInstance.ClassificationService.Registry()
		if m := reg.Current(); m != nil {
			fmt.Printf("Model: %s (version %d, %d categories, %d terms)\n",
				reg.State(), m.Version, len(m.CategoryIDs), len(m.Vocabulary))
		} else {
			fmt.Printf("Model: %s (run 'minerva train' to fit one)\n", reg.State())
		}
		return nil
	},
}
