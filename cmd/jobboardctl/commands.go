package main

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	app "github.com/oksasatya/jobboard-api/internal/application"
	"github.com/oksasatya/jobboard-api/internal/domain/entity"
	repo "github.com/oksasatya/jobboard-api/internal/domain/repository"
	pginfra "github.com/oksasatya/jobboard-api/internal/infrastructure/postgres"
	"github.com/oksasatya/jobboard-api/internal/infrastructure/search"
	"github.com/oksasatya/jobboard-api/pkg/helpers"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger)
	},
}

var seedPassword string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a demo employer, a demo applicant and one job",
	RunE:  runSeed,
}

var (
	reconcileUser string
	reconcileAll  bool
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Rebuild applied-job and job-application lists from the applications table",
	RunE:  runReconcile,
}

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Index every job into Elasticsearch",
	RunE:  runReindex,
}

func init() {
	seedCmd.Flags().StringVar(&seedPassword, "password", "password123", "password for the demo accounts")
	reconcileCmd.Flags().StringVar(&reconcileUser, "user", "", "reconcile a single user id")
	reconcileCmd.Flags().BoolVar(&reconcileAll, "all", false, "reconcile every user")
}

func openPool(ctx context.Context) (*pgxpool.Pool, error) {
	return pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	pool, err := openPool(ctx)
	if err != nil {
		return errors.Wrap(err, "connect postgres")
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)
	jobs := app.NewJobService(pginfra.NewJobRepository(pool), users, nil, logger)
	accounts := app.NewUserService(users, nil, nil, "", nil, 0, logger)

	owner, err := seedUser(ctx, accounts, users, app.RegisterInput{
		Name: "Demo Employer", Email: "employer@example.com", Password: seedPassword, Location: "Remote",
	})
	if err != nil {
		return err
	}
	applicant, err := seedUser(ctx, accounts, users, app.RegisterInput{
		Name: "Demo Applicant", Email: "applicant@example.com", Password: seedPassword,
	})
	if err != nil {
		return err
	}

	existing, err := jobs.ListJobsByOwner(ctx, owner.ID)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		job, err := jobs.CreateJob(ctx, owner.ID, app.CreateJobInput{
			Title:        "Backend Engineer",
			Description:  "Build and run the job board API.",
			Location:     "Remote",
			JobType:      string(entity.JobTypeFullTime),
			Wage:         5000,
			Requirements: []string{"Go", "PostgreSQL"},
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded job: id=%s title=%s\n", job.ID, job.Title)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded users: employer=%s applicant=%s password=%s\n", owner.ID, applicant.ID, seedPassword)
	return nil
}

func seedUser(ctx context.Context, accounts *app.UserService, users repo.UserRepository, in app.RegisterInput) (*entity.User, error) {
	u, err := accounts.Register(ctx, in)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, app.ErrConflict) {
		return nil, err
	}
	return users.GetByEmail(ctx, in.Email)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	if reconcileUser == "" && !reconcileAll {
		return errors.New("pass --user <id> or --all")
	}
	ctx := cmd.Context()
	pool, err := openPool(ctx)
	if err != nil {
		return errors.Wrap(err, "connect postgres")
	}
	defer pool.Close()

	synchronizer := app.NewSynchronizer(
		pginfra.NewUserRepository(pool),
		pginfra.NewJobRepository(pool),
		pginfra.NewApplicationRepository(pool),
		logger,
	)
	start := time.Now()
	var report app.ReconcileReport
	if reconcileAll {
		report, err = synchronizer.ReconcileAll(ctx)
	} else {
		report, err = synchronizer.Reconcile(ctx, reconcileUser)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "reconciled in %s: users fixed=%d jobs fixed=%d\n",
		time.Since(start).Round(time.Millisecond), report.UsersFixed, report.JobsFixed)
	return nil
}

func runReindex(cmd *cobra.Command, args []string) error {
	addrs := cfg.ESAddrs()
	if len(addrs) == 0 {
		return errors.New("ELASTICSEARCH_ADDRS is not set")
	}
	es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		return errors.Wrap(err, "elasticsearch client")
	}
	ctx := cmd.Context()
	if err := helpers.PingES(ctx, es, 5*time.Second); err != nil {
		return errors.Wrap(err, "elasticsearch unreachable")
	}
	pool, err := openPool(ctx)
	if err != nil {
		return errors.Wrap(err, "connect postgres")
	}
	defer pool.Close()

	all, err := pginfra.NewJobRepository(pool).Search(ctx, "")
	if err != nil {
		return err
	}
	index := search.NewJobIndex(es, cfg.ESJobsIndex)
	failed := 0
	for _, j := range all {
		if err := index.IndexJob(ctx, j); err != nil {
			failed++
			logger.WithError(err).WithField("job_id", j.ID).Warn("index failed")
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "indexed %d/%d jobs\n", len(all)-failed, len(all))
	if failed > 0 {
		return errors.Newf("%d jobs failed to index", failed)
	}
	return nil
}
