package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/stefankostic/efakture/internal/application/auth"
	"github.com/stefankostic/efakture/internal/application/invoicing"
	"github.com/stefankostic/efakture/internal/application/usecase"
	infraemail "github.com/stefankostic/efakture/internal/infrastructure/email"
	infrapdf "github.com/stefankostic/efakture/internal/infrastructure/pdf"
	"github.com/stefankostic/efakture/internal/infrastructure/postgres"
	httpRouter "github.com/stefankostic/efakture/internal/interfaces/http"
	"github.com/stefankostic/efakture/pkg/config"
	"github.com/stefankostic/efakture/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()

	if cfg.DB.Migrate {
		if err := postgres.RunMigrations(cfg.DB); err != nil {
			log.Fatal().Err(err).Msg("database migrations")
		}
		log.Info().Msg("database migrations applied")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("PostgreSQL connection")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.SiteName)
	mailer := infraemail.NewGomailSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From, cfg.SMTP.User, cfg.SMTP.Password)

	authUC := auth.NewUseCase(userRepo, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	userUC := usecase.NewUserUseCase(userRepo)
	productUC := usecase.NewProductUseCase(productRepo, userRepo)
	invoiceUC := invoicing.NewInvoiceUseCase(
		txRunner, invoiceRepo, productRepo, userRepo,
		invoicing.NewValidator(), pdfGenerator, mailer, cfg.App.SiteName,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    cfg.App.SiteName + " API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		UserUC:        userUC,
		ProductUC:     productUC,
		InvoiceUC:     invoiceUC,
		UserRepo:      userRepo,
		JWTSecret:     cfg.JWT.Secret,
		CookieName:    cfg.JWT.CookieName,
		CookieMinutes: cfg.JWT.Expiration,
		SecureCookie:  cfg.App.Env != "development",
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
