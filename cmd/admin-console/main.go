package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-admin-console/api/swagger"
	"github.com/noah-isme/sma-admin-console/internal/handler"
	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/internal/repository"
	"github.com/noah-isme/sma-admin-console/internal/router"
	"github.com/noah-isme/sma-admin-console/internal/service"
	"github.com/noah-isme/sma-admin-console/internal/web"
	"github.com/noah-isme/sma-admin-console/pkg/apiclient"
	"github.com/noah-isme/sma-admin-console/pkg/cache"
	"github.com/noah-isme/sma-admin-console/pkg/config"
	"github.com/noah-isme/sma-admin-console/pkg/jobs"
	"github.com/noah-isme/sma-admin-console/pkg/logger"
	"github.com/noah-isme/sma-admin-console/pkg/storage"
)

// @title SMA Admin Console API
// @version 1.0.0
// @description JSON endpoints served next to the server-rendered admin console.
// @BasePath /console/api
// @schemes http

type dispatcher interface {
	Enqueue(job jobs.Job) error
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()
	validate := validator.New()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect redis", "error", err)
	}
	cacheRepo := repository.NewCacheRepository(redisClient, "sma:console:", logr)
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.SubjectTTL, logr, cfg.Redis.Enabled)

	client := apiclient.New(apiclient.Config{
		BaseURL:  cfg.Upstream.BaseURL,
		Timeout:  cfg.Upstream.Timeout,
		Logger:   logr,
		Observer: metrics,
	})

	accountRepo := repository.NewAccountRepository(client)
	studentRepo := repository.NewStudentRepository(client)
	teacherRepo := repository.NewTeacherRepository(client)
	subjectRepo := repository.NewSubjectRepository(client)
	scheduleRepo := repository.NewScheduleRepository(client)
	gradeRepo := repository.NewGradeRepository(client)
	disciplinaryRepo := repository.NewDisciplinaryRepository(client)
	reportDataRepo := repository.NewReportDataRepository(client)
	authRepo := repository.NewAuthRepository(client, cfg.Upstream.LoginPath)

	authSvc := service.NewAuthService(authRepo, validate, logr, service.AuthConfig{
		Secret:        cfg.JWT.Secret,
		SessionMaxAge: cfg.Session.MaxAge,
	})
	accountSvc := service.NewAccountService(accountRepo, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, validate, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, validate, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, cacheSvc, cfg.Cache.SubjectTTL, validate, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, teacherSvc, subjectSvc, validate, logr)
	gradeSvc := service.NewGradeService(gradeRepo, subjectSvc, validate, logr)
	disciplinarySvc := service.NewDisciplinaryService(disciplinaryRepo, validate, logr)
	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Accounts:     accountRepo,
		Students:     studentRepo,
		Teachers:     teacherRepo,
		Subjects:     subjectSvc,
		Disciplinary: disciplinarySvc,
		Cache:        cacheSvc,
		Metrics:      metrics,
		CacheTTL:     cfg.Cache.DashboardTTL,
		Logger:       logr,
	})

	jobRepo := repository.NewReportRepository()
	var (
		exporter *service.ExportService
		queue    *jobs.Queue
		dispatch dispatcher
	)
	if cfg.Reports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to prepare export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
		exporter = service.NewExportService(reportDataRepo, store, signer, service.ExportConfig{
			DownloadPrefix: "/reports/download",
			ResultTTL:      cfg.Reports.SignedURLTTL,
		}, logr, nil, nil)
		worker := service.NewReportWorker(jobRepo, exporter, metrics, cfg.Reports.WorkerRetries, logr)
		queue = newQueue(cfg, worker, logr)
		dispatch = queue
	}
	reportSvc := service.NewReportService(reportDataRepo, jobRepo, dispatch, exporter, metrics, validate, logr, service.ReportServiceConfig{
		ResultTTL:       cfg.Reports.SignedURLTTL,
		CleanupInterval: cfg.Reports.CleanupInterval,
	})
	if queue != nil {
		queue.Start(ctx)
		defer queue.Stop()
		reportSvc.StartCleanup(ctx)
	}

	checks := map[string]handler.ReadinessCheck{
		"redis":    cacheRepo.Ping,
		"upstream": upstreamCheck(client),
	}

	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(authSvc),
		Dashboard:    handler.NewDashboardHandler(dashboardSvc),
		Accounts:     handler.NewAccountHandler(accountSvc),
		Students:     handler.NewStudentHandler(studentSvc, accountSvc),
		Teachers:     handler.NewTeacherHandler(teacherSvc, accountSvc, subjectSvc),
		Subjects:     handler.NewSubjectHandler(subjectSvc),
		Schedules:    handler.NewScheduleHandler(scheduleSvc, studentSvc, subjectSvc, handler.ScheduleDefaults{AcadYear: cfg.Academic.AcadYear, Semester: cfg.Academic.Semester}),
		Grades:       handler.NewGradeHandler(gradeSvc, studentSvc, subjectSvc, teacherSvc),
		Disciplinary: handler.NewDisciplinaryHandler(disciplinarySvc),
		Reports:      handler.NewReportHandler(reportSvc, cfg.Reports.Enabled, models.ReportFilter{AcadYear: cfg.Academic.AcadYear, Semester: cfg.Academic.Semester}),
		Metrics:      handler.NewMetricsHandler(metrics, checks),
	}

	r := router.New(router.Options{
		Config:     cfg,
		Logger:     logr,
		Metrics:    metrics,
		HTMLRender: web.MustRenderer(),
	}, handlers)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "upstream", cfg.Upstream.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newQueue(cfg *config.Config, worker *service.ReportWorker, logr *zap.Logger) *jobs.Queue {
	return jobs.NewQueue("report-exports", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Reports.WorkerConcurrency,
		BufferSize: 64,
		MaxRetries: cfg.Reports.WorkerRetries,
		RetryDelay: 2 * time.Second,
		Logger:     logr,
	})
}

// upstreamCheck treats any HTTP reply as reachable; only transport failures fail readiness.
func upstreamCheck(client *apiclient.Client) handler.ReadinessCheck {
	return func(ctx context.Context) error {
		_, err := client.DoRaw(ctx, http.MethodGet, "/", nil, nil)
		return err
	}
}
