package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fadilmartias/esg-dashboard/internal/config"
	"github.com/fadilmartias/esg-dashboard/internal/domain/fiber/handler"
	"github.com/fadilmartias/esg-dashboard/internal/logger"
	"github.com/fadilmartias/esg-dashboard/internal/metrics"
	"github.com/fadilmartias/esg-dashboard/internal/middleware"
	"github.com/fadilmartias/esg-dashboard/internal/service"
	"github.com/fadilmartias/esg-dashboard/internal/usecase"
	"github.com/fadilmartias/esg-dashboard/internal/views"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()
	backendConfig := config.LoadBackendConfig()
	uploadConfig := config.LoadUploadConfig()

	appLog, err := logger.New(appConfig.LogLevel, appConfig.LogFile, appConfig.IsProduction())
	if err != nil {
		log.Fatal(err)
	}

	m, err := metrics.New()
	if err != nil {
		appLog.Fatal(err)
	}

	esg := service.NewESGService(backendConfig, m, appLog)
	upload := usecase.NewUploadUsecase(
		esg,
		usecase.NewUploadTracker(uploadConfig.SessionTTL, appLog),
		uploadConfig,
		m,
		appLog,
	)

	app := fiber.New(fiber.Config{
		AppName:      appConfig.Name,
		Views:        views.NewEngine(),
		ErrorHandler: handler.ErrorHandler(appLog),

		// request bodies above BodyLimit are streamed, so multipart files
		// spill to disk instead of being held in memory
		BodyLimit:         4 * 1024 * 1024,
		StreamRequestBody: true,
	})
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !appConfig.IsProduction(),
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // 1
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.IsProduction()
		},
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		// inline scripts and styles live in the templates
		ContentSecurityPolicy: "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'",
	}))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	app.Use(middleware.Session(appConfig.IsProduction()))

	handler.NewHomeHandler().RegisterRoutes(app)
	handler.NewDashboardHandler(
		usecase.NewDashboardUsecase(esg, appLog),
		usecase.NewCompaniesUsecase(esg, appLog),
		usecase.NewCompanyDetailUsecase(esg, appLog),
		usecase.NewNewsUsecase(esg, appLog),
	).RegisterRoutes(app)
	handler.NewPredictHandler(usecase.NewPredictUsecase(esg, backendConfig.Timeout, appLog)).RegisterRoutes(app)
	handler.NewUploadHandler(upload).RegisterRoutes(app)

	// Monitor goroutine count
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			appLog.Debugf("Active goroutines: %d", runtime.NumGoroutine())
		}
	}()

	go func() {
		appLog.WithField("backend", backendConfig.BaseURL).Infof("Server running on %s", appConfig.Port)
		if err := app.Listen(appConfig.Port); err != nil {
			appLog.Fatal(err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	appLog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLog.WithError(err).Error("shutdown failed")
	}
	upload.Wait()
}
