package main

import (
	"context"
	"fmt"
	"log"
	"net/http/pprof"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campusforge/timetable-scheduler/api/swagger"
	internalhandler "github.com/campusforge/timetable-scheduler/internal/handler"
	internalmiddleware "github.com/campusforge/timetable-scheduler/internal/middleware"
	"github.com/campusforge/timetable-scheduler/internal/models"
	"github.com/campusforge/timetable-scheduler/internal/repository"
	"github.com/campusforge/timetable-scheduler/internal/scheduler"
	"github.com/campusforge/timetable-scheduler/internal/service"
	"github.com/campusforge/timetable-scheduler/pkg/auth"
	"github.com/campusforge/timetable-scheduler/pkg/cache"
	"github.com/campusforge/timetable-scheduler/pkg/config"
	"github.com/campusforge/timetable-scheduler/pkg/database"
	"github.com/campusforge/timetable-scheduler/pkg/export"
	"github.com/campusforge/timetable-scheduler/pkg/jobs"
	"github.com/campusforge/timetable-scheduler/pkg/logger"
	corsmiddleware "github.com/campusforge/timetable-scheduler/pkg/middleware/cors"
	reqidmiddleware "github.com/campusforge/timetable-scheduler/pkg/middleware/requestid"
	"github.com/campusforge/timetable-scheduler/pkg/storage"
)

// @title Timetable Scheduler API
// @version 0.1.0
// @description Constraint-aware evolutionary timetable generation service
// @BasePath /
// @schemes http

// solveResultCache mirrors the unexported interface TimetableService depends
// on, so main can hold a possibly-nil cache as a true nil interface rather
// than a typed nil *cache.ResultCache.
type solveResultCache interface {
	Get(ctx context.Context, digest string, dst interface{}) (bool, error)
	Set(ctx context.Context, digest string, src interface{}) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsSvc := service.NewMetricsService()
	metricsHandler := internalhandler.NewMetricsHandler(metricsSvc)

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to initialise database", "error", err)
	}
	defer db.Close()

	// resultCache stays a nil interface (not a typed *cache.ResultCache nil
	// pointer) when Redis is unavailable, so TimetableService's own
	// `s.cache != nil` guard sees a real nil rather than a non-nil interface
	// wrapping a nil pointer.
	var resultCache solveResultCache
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, solve result caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		resultCache = cache.NewResultCache(cache.NewRedisResultCacheClient(redisClient), cfg.Scheduler.ResultCacheTTL)
	}

	runRepo := repository.NewTimetableRunRepository(db)

	files, err := storage.NewLocalStorage(cfg.Export.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to initialise export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Export.SignedURLSecret, cfg.Export.SignedURLTTL)
	csvExporter := export.NewCSVExporter()
	pdfExporter := export.NewPDFExporter()

	var timetableSvc *service.TimetableService
	solveQueue := jobs.NewQueue("timetable-solve", func(ctx context.Context, job jobs.Job) error {
		return timetableSvc.HandleSolveJob(ctx, job)
	}, jobs.QueueConfig{
		Workers:    cfg.Jobs.Workers,
		BufferSize: cfg.Jobs.BufferSize,
		MaxRetries: cfg.Jobs.MaxRetries,
		RetryDelay: cfg.Jobs.RetryDelay,
		Logger:     logr,
	})

	timetableSvc = service.NewTimetableService(runRepo, resultCache, solveQueue, csvExporter, pdfExporter, files, signer, nil, logr, metricsSvc, service.TimetableServiceConfig{
		HardWeights:       scheduler.DefaultHardWeights(),
		SoftWeights:       scheduler.DefaultSoftWeights(),
		AlgorithmSettings: schedulerSettingsFrom(cfg.Scheduler),
		AsyncJobThreshold: cfg.Scheduler.AsyncActivityThreshold,
	})

	queueCtx, queueCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer queueCancel()
	solveQueue.Start(queueCtx)
	defer solveQueue.Stop()

	tokenIssuer := auth.NewTokenIssuer(auth.TokenConfig{
		Secret:   cfg.JWT.Secret,
		Expiry:   cfg.JWT.Expiration,
		Issuer:   "timetable-scheduler",
		Audience: []string{"timetable-scheduler-clients"},
	})

	timetableHandler := internalhandler.NewTimetableHandler(timetableSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		registerPprof(r)
	}

	api := r.Group(cfg.APIPrefix)

	system := api.Group("/system")
	system.Use(internalmiddleware.JWT(tokenIssuer))
	system.GET("/metrics", internalmiddleware.RBAC(models.RoleAdmin, models.RoleOperator), metricsHandler.System)

	timetable := api.Group("/timetable")
	timetable.Use(internalmiddleware.JWT(tokenIssuer))
	timetable.POST("/solve", internalmiddleware.RBAC(models.RoleAdmin, models.RoleOperator), timetableHandler.Generate)
	timetable.POST("/solve/async", internalmiddleware.RBAC(models.RoleAdmin, models.RoleOperator), timetableHandler.GenerateAsync)
	timetable.GET("/runs", internalmiddleware.RBAC(models.RoleAdmin, models.RoleOperator, models.RoleViewer), timetableHandler.ListRuns)
	timetable.GET("/runs/:id", internalmiddleware.RBAC(models.RoleAdmin, models.RoleOperator, models.RoleViewer), timetableHandler.GetRun)
	timetable.DELETE("/runs/:id", internalmiddleware.RBAC(models.RoleAdmin), timetableHandler.DeleteRun)
	timetable.GET("/runs/:id/export/csv", internalmiddleware.RBAC(models.RoleAdmin, models.RoleOperator, models.RoleViewer), timetableHandler.ExportCSV)
	timetable.GET("/runs/:id/export/pdf", internalmiddleware.RBAC(models.RoleAdmin, models.RoleOperator, models.RoleViewer), timetableHandler.ExportPDF)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// schedulerSettingsFrom maps the operator-tunable scheduler defaults into
// the scheduler package's own settings type. EarlySuccessThreshold and
// MaxSeedAttempts are never accepted from a solve request, so this is the
// only place they are set.
func schedulerSettingsFrom(cfg config.SchedulerConfig) scheduler.AlgorithmSettings {
	return scheduler.AlgorithmSettings{
		PopulationSize:           cfg.PopulationSize,
		Generations:              cfg.Generations,
		MutationRate:             cfg.MutationRate,
		CrossoverRate:            cfg.CrossoverRate,
		EliteSize:                cfg.EliteSize,
		TournamentSize:           cfg.TournamentSize,
		ConvergenceThreshold:     cfg.ConvergenceThreshold,
		EarlySuccessThreshold:    cfg.EarlySuccessThreshold,
		MaxStagnationGenerations: cfg.MaxStagnationGenerations,
		MaxSeedAttempts:          cfg.MaxSeedAttempts,
	}
}

func registerPprof(r *gin.Engine) {
	group := r.Group("/debug/pprof")
	group.GET("/", gin.WrapF(pprof.Index))
	group.GET("/cmdline", gin.WrapF(pprof.Cmdline))
	group.GET("/profile", gin.WrapF(pprof.Profile))
	group.POST("/symbol", gin.WrapF(pprof.Symbol))
	group.GET("/symbol", gin.WrapF(pprof.Symbol))
	group.GET("/trace", gin.WrapF(pprof.Trace))
	group.GET("/allocs", gin.WrapH(pprof.Handler("allocs")))
	group.GET("/block", gin.WrapH(pprof.Handler("block")))
	group.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
	group.GET("/heap", gin.WrapH(pprof.Handler("heap")))
	group.GET("/mutex", gin.WrapH(pprof.Handler("mutex")))
	group.GET("/threadcreate", gin.WrapH(pprof.Handler("threadcreate")))
}
