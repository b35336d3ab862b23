package route

import (
	"github.com/gin-gonic/gin"

	"github.com/vijayapps/vac_site/internal/api/controller"
	"github.com/vijayapps/vac_site/internal/app"
)

func NewSiteRouter(group *gin.RouterGroup, appCtx *app.App) {
	sc := controller.NewSiteController(appCtx.Catalog)
	ec := controller.NewEventsController(appCtx.Catalog, appCtx.Bus, 0)
	cc := controller.NewContactController(appCtx.Remote)

	s := group.Group("/site")
	s.GET("/settings", sc.Settings)
	s.GET("/features", sc.Features)
	s.GET("/footer", sc.Footer)
	s.GET("/footer/:section", sc.FooterSection)
	s.GET("/banners/:page", sc.Banner)
	s.GET("/testimonials", sc.Testimonials)
	s.GET("/jobs", sc.Jobs)
	s.GET("/events", ec.Stream)

	group.POST("/contact", cc.Submit)
}
