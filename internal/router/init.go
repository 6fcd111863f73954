package router

import (
	app "github.com/oksasatya/jobboard-api/internal/application"
	"github.com/oksasatya/jobboard-api/internal/container"
	pginfra "github.com/oksasatya/jobboard-api/internal/infrastructure/postgres"
	"github.com/oksasatya/jobboard-api/internal/infrastructure/search"
	handlers "github.com/oksasatya/jobboard-api/internal/interface/http"
	"github.com/oksasatya/jobboard-api/internal/router/modules"
)

var _ app.JobIndex = (*search.JobIndex)(nil)

// Deps holds the services shared by the feature modules.
type Deps struct {
	Users     *app.UserService
	Jobs      *app.JobService
	Lifecycle *app.LifecycleService
	Sync      *app.Synchronizer
}

// BuildDeps constructs repositories and services from the container.
func BuildDeps() Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	userRepo := pginfra.NewUserRepository(pool)
	jobRepo := pginfra.NewJobRepository(pool)
	appRepo := pginfra.NewApplicationRepository(pool)

	// typed nils must not leak into the optional interfaces
	var index app.JobIndex
	if es := container.GetES(); es != nil && cfg.ESJobsIndex != "" {
		index = search.NewJobIndex(es, cfg.ESJobsIndex)
	}
	var pub app.Publisher
	if p := container.GetRabbitPub(); p != nil {
		pub = p
	}

	synchronizer := app.NewSynchronizer(userRepo, jobRepo, appRepo, logger)
	return Deps{
		Users: app.NewUserService(userRepo, container.GetJWT(), container.GetGCS(), cfg.GCSBucket,
			container.GetRedis(), cfg.SessionTTL, logger),
		Jobs:      app.NewJobService(jobRepo, userRepo, index, logger),
		Lifecycle: app.NewLifecycleService(userRepo, jobRepo, appRepo, synchronizer, pub, cfg, logger),
		Sync:      synchronizer,
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	rdb := container.GetRedis()
	jwt := container.GetJWT()
	deps := BuildDeps()

	r.Add(modules.NewUserModule(
		handlers.NewUserHandler(deps.Users, logger, cfg.CookieDomain, cfg.CookieSecure, cfg.MaxImageBytes), rdb, jwt))
	r.Add(modules.NewJobModule(handlers.NewJobHandler(deps.Jobs, logger), rdb, jwt))
	r.Add(modules.NewApplicationModule(handlers.NewApplicationHandler(deps.Lifecycle, deps.Sync, logger), rdb, jwt))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(rdb))
	}
}
