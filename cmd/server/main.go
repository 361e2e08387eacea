package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/churchops/attendance-system/internal/api"
	"github.com/churchops/attendance-system/internal/core/service"
	"github.com/churchops/attendance-system/internal/infrastructure/config"
	mongodb "github.com/churchops/attendance-system/internal/infrastructure/db/mongo"
	redisdb "github.com/churchops/attendance-system/internal/infrastructure/db/redis"
	"github.com/churchops/attendance-system/internal/infrastructure/scheduler"
	"github.com/churchops/attendance-system/pkg/logger"
)

// @title           Attendance System API
// @version         1.0
// @description     GPS-geofenced attendance recording for church services.
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	// --- Repositories ---
	attendanceRepo := mongodb.NewAttendanceRepository(db)
	serviceRepo := mongodb.NewServiceRepository(db)
	userRepo := mongodb.NewUserRepository(db)
	rosterRepo := mongodb.NewRosterRepository(db)

	for name, ensure := range map[string]func(context.Context) error{
		"attendance": attendanceRepo.EnsureIndexes,
		"services":   serviceRepo.EnsureIndexes,
		"users":      userRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("index creation failed")
		}
	}

	// --- Core services ---
	policy := service.AttendancePolicy{
		Venue:          cfg.Venue.Coordinates(),
		RadiusMeters:   cfg.Venue.RadiusMeters,
		ActivationLead: time.Duration(cfg.Attendance.ActivationMinutesBefore) * time.Minute,
		LateGrace:      time.Duration(cfg.Attendance.LateGraceMinutes) * time.Minute,
	}

	attendanceService := service.NewAttendanceService(attendanceRepo, serviceRepo, policy, log)
	catalogService := service.NewCatalogService(serviceRepo, policy, log)
	sweeperService := service.NewSweeperService(
		attendanceRepo,
		serviceRepo,
		userRepo,
		redisdb.NewSweepMarker(rdb),
		policy,
		cfg.Attendance.SweepInterval,
		logger.Component("sweeper"),
	)
	authService := service.NewAuthService(userRepo, rosterRepo, cfg.JWTSecret, 24*time.Hour, log)
	rosterService := service.NewRosterService(rosterRepo, log)

	// --- Background sweeper ---
	scheduler.New(sweeperService, catalogService, cfg.Attendance.SweepInterval, logger.Component("scheduler")).Start(ctx)

	// --- HTTP server ---
	e := api.NewRouter(api.Deps{
		Attendance: attendanceService,
		Catalog:    catalogService,
		Auth:       authService,
		Roster:     rosterService,
		DB:         db,
		Redis:      rdb,
		JWTSecret:  cfg.JWTSecret,
		Logger:     log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting attendance server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
