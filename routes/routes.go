package routes

import (
	"net/http"

	"github.com/Govind-619/Threadly/config"
	"github.com/Govind-619/Threadly/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())
	router.Use(utils.CORSMiddleware(cfg.CORSOrigin))

	// Cookie session carrying the guest cart id for clients that don't send the header
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		MaxAge:   60 * 60 * 24 * 30,
		Path:     "/",
		Secure:   cfg.IsProduction(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions("threadly", store))

	router.GET("/health", func(c *gin.Context) {
		utils.Success(c, "OK", gin.H{"app": utils.AppName})
	})

	api := router.Group("/api")
	{
		initUserRoutes(api)
		initAdminRoutes(api)
	}

	return router
}
