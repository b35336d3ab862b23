package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/vijayapps/vac_site/internal/api/middleware"
	"github.com/vijayapps/vac_site/internal/auth"
	"github.com/vijayapps/vac_site/internal/content"
	"github.com/vijayapps/vac_site/internal/logger"
	"github.com/vijayapps/vac_site/internal/remote"
	"github.com/vijayapps/vac_site/internal/site"
)

const defaultListLimit = 100

// AdminController handles the password-gated content editor API.
// Unlike the public handlers, every backend error is returned to the caller.
type AdminController struct {
	sessions  *auth.Sessions
	client    remote.Client
	changes   *ChangeRecorder
	validator *validator.Validate

	Footer       *CrudController[content.FooterItem]
	Testimonials *CrudController[content.Testimonial]
	Jobs         *CrudController[content.JobListing]
}

func NewAdminController(sessions *auth.Sessions, client remote.Client, publisher ChangePublisher) *AdminController {
	v := validator.New()
	changes := &ChangeRecorder{Activity: client, Publisher: publisher}

	footerKeys := []string{site.KeyFooter}
	for _, section := range content.FooterSections {
		footerKeys = append(footerKeys, site.FooterKey(section))
	}

	return &AdminController{
		sessions:  sessions,
		client:    client,
		changes:   changes,
		validator: v,
		Footer: &CrudController[content.FooterItem]{
			Service:   &FooterCrudService{Client: client},
			Validator: NewStructValidator[content.FooterItem](v),
			Changes:   changes,
			Resource:  "footer",
			Keys:      footerKeys,
		},
		Testimonials: &CrudController[content.Testimonial]{
			Service:   &TestimonialCrudService{Client: client},
			Validator: NewStructValidator[content.Testimonial](v),
			Changes:   changes,
			Resource:  "testimonial",
			Keys:      []string{site.KeyTestimonials},
		},
		Jobs: &CrudController[content.JobListing]{
			Service:   &JobCrudService{Client: client},
			Validator: NewStructValidator[content.JobListing](v),
			Changes:   changes,
			Resource:  "job",
			Keys:      []string{site.KeyJobs},
		},
	}
}

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/admin/login.
func (ac *AdminController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	sess, err := ac.sessions.Login(req.Password)
	switch {
	case errors.Is(err, auth.ErrAdminDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "admin access is not configured"})
		return
	case err != nil:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	ac.changes.Record(c.Request.Context(), "login", "session", "")
	c.JSON(http.StatusOK, sess)
}

// Logout handles POST /api/admin/logout.
func (ac *AdminController) Logout(c *gin.Context) {
	ac.sessions.Logout(middleware.BearerToken(c.Request))
	c.Status(http.StatusNoContent)
}

// GetSettings handles GET /api/admin/settings: the raw rows, not the merged snapshot.
func (ac *AdminController) GetSettings(c *gin.Context) {
	rows, err := ac.client.ListSettings(c.Request.Context())
	if err != nil {
		writeBackendError(c, "admin-controller", "read settings", err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// PutSettings handles PUT /api/admin/settings with a {"key": "value"} body.
// Keys are written one by one; the first failure stops the batch and is returned.
func (ac *AdminController) PutSettings(c *gin.Context) {
	var body map[string]string
	if err := c.ShouldBindJSON(&body); err != nil || len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	for key := range body {
		if err := ac.validator.Var(key, "required,max=128"); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid setting key: " + key})
			return
		}
	}

	ctx := c.Request.Context()
	written := 0
	for key, value := range body {
		if err := ac.client.UpsertSetting(ctx, key, value); err != nil {
			if written > 0 {
				ac.changes.Record(ctx, "update", "settings", "partial", site.KeySettings, site.KeyFeatureFlags)
			}
			writeBackendError(c, "admin-controller", "update settings", err)
			return
		}
		written++
	}
	ac.changes.Record(ctx, "update", "settings", strconv.Itoa(written)+" keys", site.KeySettings, site.KeyFeatureFlags)
	c.JSON(http.StatusOK, gin.H{"updated": written})
}

// GetBanner handles GET /api/admin/banners/:page.
func (ac *AdminController) GetBanner(c *gin.Context) {
	page := c.Param("page")
	if !site.ValidName(page) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page name"})
		return
	}
	b, err := ac.client.GetBanner(c.Request.Context(), page)
	if err != nil {
		writeBackendError(c, "admin-controller", "read banner", err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// PutBanner handles PUT /api/admin/banners/:page. The page in the path wins over the body.
func (ac *AdminController) PutBanner(c *gin.Context) {
	page := c.Param("page")
	if !site.ValidName(page) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page name"})
		return
	}
	var b content.HeroBanner
	if err := c.ShouldBindJSON(&b); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	b.PageName = page
	if err := ac.validator.Struct(b); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	saved, err := ac.client.UpsertBanner(ctx, b)
	if err != nil {
		writeBackendError(c, "admin-controller", "save banner", err)
		return
	}
	ac.changes.Record(ctx, "save", "banner", page, site.BannerKey(page))
	c.JSON(http.StatusOK, saved)
}

// DeleteBanner handles DELETE /api/admin/banners/:page.
func (ac *AdminController) DeleteBanner(c *gin.Context) {
	page := c.Param("page")
	if !site.ValidName(page) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page name"})
		return
	}
	ctx := c.Request.Context()
	if err := ac.client.DeleteBanner(ctx, page); err != nil {
		writeBackendError(c, "admin-controller", "delete banner", err)
		return
	}
	logger.WithComponent("admin-controller").Debugf("banner %s deleted", page)
	ac.changes.Record(ctx, "delete", "banner", page, site.BannerKey(page))
	c.JSON(http.StatusOK, gin.H{"deleted": page})
}

// Contacts handles GET /api/admin/contacts?limit=.
func (ac *AdminController) Contacts(c *gin.Context) {
	limit, ok := listLimit(c)
	if !ok {
		return
	}
	list, err := ac.client.ListContactSubmissions(c.Request.Context(), limit)
	if err != nil {
		writeBackendError(c, "admin-controller", "read contact submissions", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Activity handles GET /api/admin/activity?limit=.
func (ac *AdminController) Activity(c *gin.Context) {
	limit, ok := listLimit(c)
	if !ok {
		return
	}
	list, err := ac.client.ListActivity(c.Request.Context(), limit)
	if err != nil {
		writeBackendError(c, "admin-controller", "read activity log", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func listLimit(c *gin.Context) (int, bool) {
	raw := c.DefaultQuery("limit", strconv.Itoa(defaultListLimit))
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return 0, false
	}
	return limit, true
}
