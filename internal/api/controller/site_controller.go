package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vijayapps/vac_site/internal/logger"
	"github.com/vijayapps/vac_site/internal/site"
)

// SiteController serves the public, cached content. Handlers never fail on a
// backend outage: they answer from the local snapshot or the built-in defaults.
type SiteController struct {
	catalog *site.Catalog
}

func NewSiteController(catalog *site.Catalog) *SiteController {
	return &SiteController{catalog: catalog}
}

// Settings handles GET /api/site/settings.
func (sc *SiteController) Settings(c *gin.Context) {
	v, prov := sc.catalog.Settings().LoadWithProvenance(c.Request.Context())
	respondContent(c, v, prov)
}

// Features handles GET /api/site/features.
func (sc *SiteController) Features(c *gin.Context) {
	v, prov := sc.catalog.FeatureFlags().LoadWithProvenance(c.Request.Context())
	respondContent(c, v, prov)
}

// Footer handles GET /api/site/footer.
func (sc *SiteController) Footer(c *gin.Context) {
	v, prov := sc.catalog.Footer().LoadWithProvenance(c.Request.Context())
	respondContent(c, v, prov)
}

// FooterSection handles GET /api/site/footer/:section.
func (sc *SiteController) FooterSection(c *gin.Context) {
	l, err := sc.catalog.FooterSection(c.Param("section"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown footer section"})
		return
	}
	v, prov := l.LoadWithProvenance(c.Request.Context())
	respondContent(c, v, prov)
}

// Banner handles GET /api/site/banners/:page.
func (sc *SiteController) Banner(c *gin.Context) {
	l, err := sc.catalog.Banner(c.Param("page"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown page"})
		return
	}
	v, prov := l.LoadWithProvenance(c.Request.Context())
	respondContent(c, v, prov)
}

// Testimonials handles GET /api/site/testimonials?featured=&min_rating=&limit=.
// The list is empty when the testimonials feature is switched off.
func (sc *SiteController) Testimonials(c *gin.Context) {
	var f site.TestimonialFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter"})
		return
	}
	ctx := c.Request.Context()
	list, prov := sc.catalog.Testimonials().LoadWithProvenance(ctx)
	if !sc.catalog.FeatureFlags().Load(ctx).Enabled("testimonials") {
		logger.WithComponent("site-controller").Debug("testimonials disabled")
		respondContent(c, []any{}, prov)
		return
	}
	respondContent(c, site.FilterTestimonials(list, f), prov)
}

type jobsResponse struct {
	Jobs        any      `json:"jobs"`
	Departments []string `json:"departments"`
}

// Jobs handles GET /api/site/jobs?department=&location=&type=&q=.
func (sc *SiteController) Jobs(c *gin.Context) {
	var f site.JobFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter"})
		return
	}
	ctx := c.Request.Context()
	jobs, prov := sc.catalog.Jobs().LoadWithProvenance(ctx)
	if !sc.catalog.FeatureFlags().Load(ctx).Enabled("careers") {
		respondContent(c, jobsResponse{Jobs: []any{}, Departments: []string{}}, prov)
		return
	}
	respondContent(c, jobsResponse{
		Jobs:        site.FilterJobs(jobs, f),
		Departments: site.Departments(jobs),
	}, prov)
}

