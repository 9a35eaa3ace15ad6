package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/herdmon/herdmon/internal/config"
	"github.com/herdmon/herdmon/internal/repository/mongodb"
	"github.com/herdmon/herdmon/internal/repository/sheets"
	"github.com/herdmon/herdmon/internal/repository/sqlite"
	"github.com/herdmon/herdmon/internal/scheduler"
	"github.com/herdmon/herdmon/internal/server/handlers"
	"github.com/herdmon/herdmon/internal/server/router"
	herdsvc "github.com/herdmon/herdmon/internal/service/herd"
	reportingsvc "github.com/herdmon/herdmon/internal/service/reporting"
	"github.com/herdmon/herdmon/pkg/clients/notify"
	"github.com/herdmon/herdmon/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	db, err := sqlite.Init(cfg.Store.Path)
	if err != nil {
		baseLogger.Fatal("failed to init measurement store", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			baseLogger.Error("failed to close measurement store", zap.Error(err))
		}
	}()

	cowRepo := sqlite.NewCowRepo(db)
	sensorRepo := sqlite.NewSensorRepo(db)
	measurementRepo := sqlite.NewMeasurementRepo(db)

	herdSvc := herdsvc.NewService(cowRepo, sensorRepo, measurementRepo, baseLogger.Named("svc.herd"))
	reportingSvc := reportingsvc.NewService(cowRepo, measurementRepo, baseLogger.Named("svc.reporting"))

	var archiveRepo mongodb.Repository
	if cfg.Archive.Enabled() {
		repo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.Archive)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := repo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		archiveRepo = repo
		baseLogger.Info("report archive enabled", zap.String("db", cfg.Archive.DBName))
	} else {
		baseLogger.Info("mongodb uri missing, report archive disabled")
	}

	var sheetsRepo sheets.Repository
	if cfg.Sheets.Enabled() {
		sheetsRepo, err = sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		baseLogger.Info("sheet export enabled")
	} else {
		baseLogger.Info("sheets credentials missing, sheet export disabled")
	}

	var alertClient notify.Client
	if cfg.Alerts.Enabled() {
		alertClient = notify.NewClient(cfg.Alerts)
		baseLogger.Info("flagged-cow alerts enabled")
	} else {
		baseLogger.Info("alert webhook missing, flagged-cow alerts disabled")
	}

	engine := router.New(handlers.Set{
		Cows:         handlers.NewCowHandler(herdSvc, baseLogger.Named("handlers.cows")),
		Sensors:      handlers.NewSensorHandler(herdSvc, baseLogger.Named("handlers.sensors")),
		Measurements: handlers.NewMeasurementHandler(herdSvc, baseLogger.Named("handlers.measurements")),
		Reports:      handlers.NewReportHandler(reportingSvc, baseLogger.Named("handlers.reports")),
		Health:       handlers.NewHealthHandler(herdSvc, baseLogger.Named("handlers.health")),
	}, baseLogger.Named("router"))

	if cfg.Archive.Enabled() || cfg.Sheets.Enabled() || cfg.Alerts.Enabled() {
		sched := scheduler.NewScheduler(cfg.Reporting, reportingSvc, archiveRepo, sheetsRepo, alertClient, baseLogger.Named("scheduler"))
		sched.Start()
		defer sched.Stop()
	} else {
		baseLogger.Info("no report sinks configured, daily report job disabled")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
