package router

import (
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"

	"github.com/ItumelengS/linac-qa-app-sub000/internal/config"
	"github.com/ItumelengS/linac-qa-app-sub000/internal/handlers"
	"github.com/ItumelengS/linac-qa-app-sub000/internal/models"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func errorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(429, gin.H{"error": "Too many requests. Try again later."})
}

// Setup wires middleware, handlers and routes into one engine.
func Setup(log *zap.Logger, catalogs models.CatalogSet) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	store := cookie.NewStore([]byte(config.Conf.Server.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7,
	})
	router.Use(sessions.Sessions("qasession", store))

	router.Use(CSRFProtection())
	router.Use(UserLoaderMiddleware(log))

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		err := secureMiddleware.Process(c.Writer, c.Request)
		if err != nil {
			c.Abort()
			return
		}
	})

	authHandler := handlers.NewAuthHandler(log)
	qaHandler := handlers.NewQAHandler(log, catalogs)
	equipmentHandler := handlers.NewEquipmentHandler(log)
	reportHandler := handlers.NewReportHandler(log)
	trendHandler := handlers.NewTrendHandler(log)
	adminHandler := handlers.NewAdminHandler(log)

	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 5,
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: errorHandler,
		KeyFunc:      keyFunc,
	})

	api := router.Group("/api")
	{
		api.GET("/csrf", CSRFToken)
		api.POST("/login", limiter, authHandler.Login)
		api.POST("/logout", authHandler.Logout)
	}

	authorized := api.Group("/")
	authorized.Use(AuthRequired())
	{
		authorized.GET("/qa/:frequency", qaHandler.FormData)
		authorized.POST("/qa/:frequency/submit", qaHandler.Submit)
		authorized.POST("/evaluate", qaHandler.Evaluate)

		authorized.GET("/baselines", qaHandler.Baselines)
		authorized.POST("/baselines", qaHandler.SaveBaseline)

		authorized.GET("/equipment", equipmentHandler.List)
		authorized.GET("/equipment/:id", equipmentHandler.Get)
		authorized.POST("/equipment", equipmentHandler.Save)

		authorized.GET("/reports", reportHandler.List)
		authorized.GET("/reports/:id", reportHandler.Get)

		authorized.POST("/readings", trendHandler.SaveReading)
		authorized.GET("/trends", trendHandler.Trend)
		authorized.GET("/trends/chart", trendHandler.TrendChart)
	}

	admin := api.Group("/admin")
	admin.Use(AuthRequired(), AdminRequired())
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.POST("/users", adminHandler.CreateUser)
		admin.PUT("/users/:id", adminHandler.UpdateUser)
		admin.GET("/audit", adminHandler.AuditLog)
		admin.GET("/export", reportHandler.Export)
	}

	return router
}
