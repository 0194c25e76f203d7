package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fohr/contracts-backend/internal/infrastructure/config"
	"github.com/fohr/contracts-backend/internal/infrastructure/logger"
	"github.com/fohr/contracts-backend/internal/interfaces/http/dto"
	"github.com/fohr/contracts-backend/internal/interfaces/http/middleware"
)

// RouteRegistrar defines the interface for registering routes. Routes
// mount at the engine root; the dashboard expects unversioned paths.
type RouteRegistrar interface {
	RegisterRoutes(r gin.IRouter)
}

// Router assembles the gin engine with the shared middleware chain.
type Router struct {
	engine     *gin.Engine
	registrars []RouteRegistrar
}

// New creates the router with the middleware chain configured from cfg.
func New(cfg *config.Config, log *zap.Logger) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsCfg))

	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "name": cfg.App.Name})
	})

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeNotFound, "Route not found"))
	})

	return &Router{engine: engine}
}

// Register adds a RouteRegistrar to be mounted by Setup.
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup mounts all registered routes and returns the engine.
func (r *Router) Setup() *gin.Engine {
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(r.engine)
	}
	return r.engine
}
