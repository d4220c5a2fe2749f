package setup

import (
	"github.com/techforum-dev/techforum/internal/config"
	"github.com/techforum-dev/techforum/internal/handler"
	"github.com/techforum-dev/techforum/internal/jwt"
	"github.com/techforum-dev/techforum/internal/markdown"
	"github.com/techforum-dev/techforum/internal/middleware"
	"github.com/techforum-dev/techforum/internal/middleware/metrics"
	"github.com/techforum-dev/techforum/internal/service"
	"github.com/techforum-dev/techforum/internal/storage/pg"
	"github.com/techforum-dev/techforum/internal/utils"
)

// Dependencies holds all initialized dependencies.
type Dependencies struct {
	Storage        *pg.Storage
	Handler        *handler.Handler
	AuthMiddleware *middleware.Auth
	Metrics        *metrics.Metrics
	Jwt            jwt.JwtService
	Config         *config.Config
}

// SetupDependencies initializes everything the application needs.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())

	thread := service.NewThread(storage, storage, &utils.ThreadValidator{}, &utils.CommentValidator{})
	user := service.NewUser(storage, &utils.UserValidator{}, jwtService)

	h := handler.New(thread, user, markdown.New(), cfg, storage)
	authMw := middleware.NewAuth(jwtService, cfg.Public.SecureCookies)

	return &Dependencies{
		Storage:        storage,
		Handler:        h,
		AuthMiddleware: authMw,
		Metrics:        metrics.New(),
		Jwt:            jwtService,
		Config:         cfg,
	}, nil
}
