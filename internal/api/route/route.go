package route

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vijayapps/vac_site/internal/api/middleware"
	"github.com/vijayapps/vac_site/internal/app"
	"github.com/vijayapps/vac_site/internal/logger"
)

// EventsPath is the SSE endpoint; it is exempt from the request timeout.
const EventsPath = "/api/site/events"

func SetupRoutes(r *gin.Engine, appCtx *app.App) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "UP",
		})
	})

	api := r.Group("/api")
	api.Use(middleware.RequestTimeout(appCtx.Config.Server.RequestTimeout, EventsPath))

	// Public site content
	NewSiteRouter(api, appCtx)

	// Content editor
	if appCtx.Config.AdminEnabled() {
		NewAdminRouter(api.Group("/admin"), appCtx)
	} else {
		logger.WithComponent("route").Info("admin API disabled: no admin password configured")
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}
