package route

import (
	"github.com/gin-gonic/gin"

	"github.com/vijayapps/vac_site/internal/api/controller"
	"github.com/vijayapps/vac_site/internal/api/middleware"
	"github.com/vijayapps/vac_site/internal/app"
)

func NewAdminRouter(group *gin.RouterGroup, appCtx *app.App) {
	ac := controller.NewAdminController(appCtx.Sessions, appCtx.Remote, appCtx)

	group.POST("/login", ac.Login)
	group.POST("/logout", ac.Logout)

	protected := group.Group("")
	protected.Use(middleware.AdminAuth(appCtx.Sessions))

	protected.GET("/settings", ac.GetSettings)
	protected.PUT("/settings", ac.PutSettings)

	protected.GET("/banners/:page", ac.GetBanner)
	protected.PUT("/banners/:page", ac.PutBanner)
	protected.DELETE("/banners/:page", ac.DeleteBanner)

	ac.Footer.RegisterCrudRoutes(protected, "footer")
	ac.Testimonials.RegisterCrudRoutes(protected, "testimonials")
	ac.Jobs.RegisterCrudRoutes(protected, "jobs")

	protected.GET("/contacts", ac.Contacts)
	protected.GET("/activity", ac.Activity)
}
