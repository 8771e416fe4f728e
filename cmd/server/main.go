package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/ignatzorin/gigflow-backend/internal/app"
	"github.com/ignatzorin/gigflow-backend/internal/config"
	"github.com/ignatzorin/gigflow-backend/internal/db"
	"github.com/ignatzorin/gigflow-backend/internal/goroutine"
	"github.com/ignatzorin/gigflow-backend/internal/logger"
)

func main() {
	envFile := pflag.String("env-file", ".env", "путь к .env файлу")
	migrateOnly := pflag.Bool("migrate-only", false, "применить миграции и выйти")
	storage := pflag.String("storage", "", "хранилище: postgres или memory (перекрывает STORAGE_DRIVER)")
	pflag.Parse()

	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*envFile)
	if err != nil {
		logger.Log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}
	if *storage != "" {
		cfg.StorageDriver = *storage
	}

	log := logger.Init(cfg.LogLevel)
	if !cfg.IsProduction() {
		logger.SetTextFormatter()
	}

	if *migrateOnly {
		conn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("main: ошибка подключения к базе: %v", err)
		}
		defer conn.Close()

		if err := db.RunMigrations(conn); err != nil {
			log.Fatalf("main: ошибка миграций: %v", err)
		}
		log.Info("main: миграции применены")
		return
	}

	backend, err := app.OpenBackend(ctx, cfg)
	if err != nil {
		log.Fatalf("main: ошибка инициализации хранилища: %v", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.WithError(err).Warn("main: ошибка закрытия хранилища")
		}
	}()
	log.WithField("storage", backend.Name).Info("main: хранилище готово")

	application := app.New(cfg, backend, log)
	goroutine.SafeGoWithContext(ctx, application.Hub.Run)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           application.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	goroutine.SafeGo(func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("main: ошибка остановки http сервера")
		}
	})

	log.Infof("main: сервер слушает порт %s", cfg.HTTPPort)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}
