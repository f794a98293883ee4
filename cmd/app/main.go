package main

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/Mcdemzy/plenty-events-backend/external/abstractapi"
	"github.com/Mcdemzy/plenty-events-backend/external/resend"
	"github.com/Mcdemzy/plenty-events-backend/internal/config"
	"github.com/Mcdemzy/plenty-events-backend/internal/db"
	"github.com/Mcdemzy/plenty-events-backend/internal/logger"
	"github.com/Mcdemzy/plenty-events-backend/internal/middleware"
	"github.com/Mcdemzy/plenty-events-backend/internal/repository"
	"github.com/Mcdemzy/plenty-events-backend/internal/services"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// ======================
	// INFRA
	// ======================
	ctx := context.Background()
	if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	// ======================
	// EXTERNALS
	// ======================
	mailer, err := resend.NewResendMailer(cfg.ResendAPIKey, cfg.EmailFrom)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create mailer")
	}

	var emailValidator services.EmailValidator = services.NewLocalValidator()
	if cfg.UseEmailReputation {
		emailValidator, err = abstractapi.NewAbstractReputationValidator(cfg.AbstractEmailAPIKey)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create email reputation validator")
		}
	}

	// ======================
	// SERVICES
	// ======================
	accounts := repository.NewAccountRepository(pool)
	hasher := services.NewPasswordHasher(cfg.BcryptCost)
	tokens := services.NewTokenService([]byte(cfg.JWTSecret), cfg.JWTTTL)
	verifier := services.NewVerificationService(accounts, mailer, log, cfg.FrontendURL, cfg.VerificationTokenTTL)

	vendorAuth := services.NewAuthService(services.VendorRole, accounts, hasher, tokens, verifier, emailValidator, log)
	waiterAuth := services.NewAuthService(services.WaiterRole, accounts, hasher, tokens, verifier, emailValidator, log)

	guard := middleware.NewGuard(tokens, accounts, log)

	// ======================
	// ECHO
	// ======================
	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	api := e.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Server is running!"})
	})

	// ======================
	// ROUTES
	// ======================
	authLimiter := middleware.RateLimit(rate.Limit(10), 30)
	registerRoleAuthRoutes(api, "/vendors", vendorAuth, guard, authLimiter, log)
	registerRoleAuthRoutes(api, "/waiters", waiterAuth, guard, authLimiter, log)
	registerVerificationRoutes(api, verifier, log)

	// ======================
	// SERVER
	// ======================
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
