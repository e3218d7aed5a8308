// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	accountsfeature "github.com/dalemusser/tourhub/internal/app/features/accounts"
	errorsfeature "github.com/dalemusser/tourhub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/tourhub/internal/app/features/health"
	toursfeature "github.com/dalemusser/tourhub/internal/app/features/tours"
	usersfeature "github.com/dalemusser/tourhub/internal/app/features/users"
	tourstore "github.com/dalemusser/tourhub/internal/app/store/tours"
	userstore "github.com/dalemusser/tourhub/internal/app/store/users"
	"github.com/dalemusser/tourhub/internal/app/system/auth"
	"github.com/dalemusser/tourhub/internal/app/system/mailer"
	"github.com/dalemusser/tourhub/internal/app/system/requestid"
	"github.com/dalemusser/tourhub/internal/app/system/token"
)

// BuildHandler constructs the root HTTP handler (router) for this
// WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and the Startup hook have completed. It builds the stores, the token
// manager, the mailer, and the auth middleware, then mounts the API
// feature routers under /api/v1 alongside the health endpoint.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	tokens, err := token.NewManager(appCfg.JWTSecret, appCfg.JWTExpiresIn)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}

	users := userstore.New(deps.MongoDatabase, appCfg.ResetTokenExpiry)
	tours := tourstore.New(deps.MongoDatabase)
	mail := mailer.New(appCfg.MailSMTPHost, appCfg.MailSMTPPort,
		appCfg.MailSMTPUser, appCfg.MailSMTPPass,
		appCfg.MailFrom, appCfg.MailFromName)

	errLog := errorsfeature.NewErrorLogger(logger, coreCfg.Env == "prod")

	mw := &auth.Middleware{
		Tokens: tokens,
		Users:  users,
		Errors: errLog,
	}

	r := chi.NewRouter()

	// Request IDs tie every log line for a request together.
	r.Use(requestid.Middleware)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			accountsHandler := accountsfeature.NewHandler(users, tokens, mail,
				appCfg.BaseURL, appCfg.SiteName, errLog, logger)
			accountsfeature.Register(r, accountsHandler, mw)

			usersHandler := usersfeature.NewHandler(users, errLog, logger)
			usersfeature.Register(r, usersHandler, mw)
		})

		toursHandler := toursfeature.NewHandler(tours, errLog, logger)
		r.Mount("/tours", toursfeature.Routes(toursHandler, mw))
	})

	// Anything else is a JSON 404, never an HTML error page.
	r.NotFound(errLog.NotFoundHandler())

	return r, nil
}
