package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/oksasatya/jobboard-api/config"
	"github.com/oksasatya/jobboard-api/pkg/helpers"
)

var (
	cfg    *config.Config
	logger *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "jobboardctl",
	Short: "Operational tooling for the job board API",
	Long: `jobboardctl runs maintenance tasks against the job board database.

Examples:
  jobboardctl migrate                 # apply pending migrations
  jobboardctl seed                    # create demo users and a job
  jobboardctl reconcile --all         # rebuild cross-references from applications
  jobboardctl reconcile --user <id>   # rebuild one user's applied jobs
  jobboardctl reindex                 # push every job into Elasticsearch`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		cfg = config.Load()
		logger = helpers.NewLogger(cfg.AppName+"-ctl", cfg.Env, cfg.LogLevel)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, seedCmd, reconcileCmd, reindexCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
