package controller

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijayapps/vac_site/internal/api/middleware"
	"github.com/vijayapps/vac_site/internal/auth"
	"github.com/vijayapps/vac_site/internal/content"
	"github.com/vijayapps/vac_site/internal/remote"
	"github.com/vijayapps/vac_site/internal/site"
)

const testPassword = "s3cret"

func adminRouter(env *testEnv, sessions *auth.Sessions) *gin.Engine {
	ac := NewAdminController(sessions, env.client, env.publisher)
	r := gin.New()
	r.POST("/login", ac.Login)
	r.POST("/logout", ac.Logout)
	g := r.Group("")
	g.Use(middleware.AdminAuth(sessions))
	g.GET("/settings", ac.GetSettings)
	g.PUT("/settings", ac.PutSettings)
	g.GET("/banners/:page", ac.GetBanner)
	g.PUT("/banners/:page", ac.PutBanner)
	g.DELETE("/banners/:page", ac.DeleteBanner)
	ac.Footer.RegisterCrudRoutes(g, "footer")
	ac.Testimonials.RegisterCrudRoutes(g, "testimonials")
	ac.Jobs.RegisterCrudRoutes(g, "jobs")
	g.GET("/contacts", ac.Contacts)
	g.GET("/activity", ac.Activity)
	return r
}

func login(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := doRequest(r, http.MethodPost, "/login", map[string]string{"password": testPassword}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	sess := decode[auth.Session](t, w)
	require.NotEmpty(t, sess.Token)
	return sess.Token
}

func TestAdminController_Login(t *testing.T) {
	env := newTestEnv(t)
	r := adminRouter(env, auth.NewSessions(testPassword, time.Hour))

	w := doRequest(r, http.MethodPost, "/login", map[string]string{"password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(r, http.MethodPost, "/login", "{}", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	token := login(t, r)
	w = doRequest(r, http.MethodGet, "/settings", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodPost, "/logout", nil, token)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(r, http.MethodGet, "/settings", nil, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminController_LoginDisabled(t *testing.T) {
	env := newTestEnv(t)
	r := adminRouter(env, auth.NewSessions("", time.Hour))

	w := doRequest(r, http.MethodPost, "/login", map[string]string{"password": "anything"}, "")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAdminController_RequiresSession(t *testing.T) {
	env := newTestEnv(t)
	r := adminRouter(env, auth.NewSessions(testPassword, time.Hour))

	for _, path := range []string{"/settings", "/footer", "/testimonials", "/jobs", "/contacts", "/activity"} {
		w := doRequest(r, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestAdminController_PutSettingsRefreshesCache(t *testing.T) {
	env := newTestEnv(t)
	r := adminRouter(env, auth.NewSessions(testPassword, time.Hour))
	token := login(t, r)

	w := doRequest(r, http.MethodPut, "/settings", map[string]string{
		"company_name":    "Acme Oracle",
		"careers_enabled": "false",
	}, token)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"updated":2}`, w.Body.String())

	var cached content.Settings
	require.True(t, env.store.Load(site.KeySettings, &cached))
	assert.Equal(t, "Acme Oracle", cached["company_name"])

	var flags content.FeatureFlags
	require.True(t, env.store.Load(site.KeyFeatureFlags, &flags))
	assert.False(t, flags.Enabled("careers"))

	assert.Equal(t, []string{site.KeySettings, site.KeyFeatureFlags}, env.publisher.published())

	activity, err := env.client.ListActivity(context.Background(), 10)
	require.NoError(t, err)
	require.NotEmpty(t, activity)
	assert.Equal(t, "update", activity[0].Action)
	assert.Equal(t, "settings", activity[0].Resource)
}

func TestAdminController_PutSettingsInvalid(t *testing.T) {
	env := newTestEnv(t)
	r := adminRouter(env, auth.NewSessions(testPassword, time.Hour))
	token := login(t, r)

	w := doRequest(r, http.MethodPut, "/settings", map[string]string{}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodPut, "/settings", map[string]string{"": "x"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, env.client.Calls("UpsertSetting"))
}

func TestAdminController_BannerLifecycle(t *testing.T) {
	env := newTestEnv(t)
	r := adminRouter(env, auth.NewSessions(testPassword, time.Hour))
	token := login(t, r)

	w := doRequest(r, http.MethodGet, "/banners/home", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(r, http.MethodPut, "/banners/home", content.HeroBanner{
		PageName: "ignored", Title: "Oracle Cloud migrations", MediaType: "image", Active: true,
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "home", decode[content.HeroBanner](t, w).PageName)

	var cached content.HeroBanner
	require.True(t, env.store.Load(site.BannerKey("home"), &cached))
	assert.Equal(t, "Oracle Cloud migrations", cached.Title)

	w = doRequest(r, http.MethodDelete, "/banners/home", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var reset content.HeroBanner
	require.True(t, env.store.Load(site.BannerKey("home"), &reset))
	assert.Equal(t, site.DefaultBanner("home").Title, reset.Title)

	w = doRequest(r, http.MethodPut, "/banners/home", content.HeroBanner{MediaType: "gif"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodPut, "/banners/Bad%20Page", content.HeroBanner{Title: "x"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminController_FooterCrud(t *testing.T) {
	env := newTestEnv(t)
	r := adminRouter(env, auth.NewSessions(testPassword, time.Hour))
	token := login(t, r)

	w := doRequest(r, http.MethodPost, "/footer", content.FooterItem{
		SectionType: content.SectionContactInfo, Title: "info@example.com", URL: "mailto:info@example.com", Active: true,
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	saved := decode[content.FooterItem](t, w)
	require.NotEmpty(t, saved.ID)

	var footer content.Footer
	require.True(t, env.store.Load(site.KeyFooter, &footer))
	require.Len(t, footer[content.SectionContactInfo], 1)

	var section []content.FooterItem
	require.True(t, env.store.Load(site.FooterKey(content.SectionContactInfo), &section))
	assert.Len(t, section, 1)

	w = doRequest(r, http.MethodGet, "/footer", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]content.FooterItem](t, w), 1)

	w = doRequest(r, http.MethodDelete, "/footer/"+saved.ID, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var after content.Footer
	require.True(t, env.store.Load(site.KeyFooter, &after))
	assert.Empty(t, after[content.SectionContactInfo])

	w = doRequest(r, http.MethodDelete, "/footer/"+saved.ID, nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminController_CrudValidation(t *testing.T) {
	env := newTestEnv(t)
	r := adminRouter(env, auth.NewSessions(testPassword, time.Hour))
	token := login(t, r)

	tests := []struct {
		name string
		path string
		body any
	}{
		{"footer unknown section", "/footer", content.FooterItem{SectionType: "sidebar", Title: "x"}},
		{"testimonial rating", "/testimonials", content.Testimonial{ClientName: "A", Content: "B", Rating: 9}},
		{"job type", "/jobs", content.JobListing{Title: "DBA", Department: "IT", Location: "Remote", EmploymentType: "gig"}},
		{"malformed", "/jobs", "{"},
		{"footer id not a uuid", "/footer", content.FooterItem{ID: "1; drop", SectionType: content.SectionServices, Title: "x"}},
		{"testimonial id not a uuid", "/testimonials", content.Testimonial{ID: "t-1", ClientName: "A", Content: "B", Rating: 5}},
		{"job id not a uuid", "/jobs", content.JobListing{ID: "42", Title: "DBA", Department: "IT", Location: "Remote", EmploymentType: "contract"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodPost, tt.path, tt.body, token)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	assert.Empty(t, env.publisher.published())
}

func TestAdminController_DeleteRejectsMalformedID(t *testing.T) {
	env := newTestEnv(t)
	r := adminRouter(env, auth.NewSessions(testPassword, time.Hour))
	token := login(t, r)

	for _, path := range []string{"/footer/abc", "/testimonials/demo-1", "/jobs/42"} {
		t.Run(path, func(t *testing.T) {
			w := doRequest(r, http.MethodDelete, path, nil, token)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	assert.Empty(t, env.publisher.published())
}

func TestAdminController_TestimonialReplacesDemoEntries(t *testing.T) {
	env := newTestEnv(t)
	r := adminRouter(env, auth.NewSessions(testPassword, time.Hour))
	token := login(t, r)

	w := doRequest(r, http.MethodPost, "/testimonials", content.Testimonial{
		ClientName: "Alex", Content: "Great upgrade.", Rating: 5, Active: true,
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var cached []content.Testimonial
	require.True(t, env.store.Load(site.KeyTestimonials, &cached))
	require.Len(t, cached, 1)
	assert.Equal(t, "Alex", cached[0].ClientName)
}

func TestAdminController_BackendErrorsReachCaller(t *testing.T) {
	env := newTestEnv(t)
	r := adminRouter(env, auth.NewSessions(testPassword, time.Hour))
	token := login(t, r)

	env.client.SetFailure(fmt.Errorf("policy violation: %w", remote.ErrPermissionDenied))

	w := doRequest(r, http.MethodPut, "/banners/home", content.HeroBanner{Title: "x"}, token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(r, http.MethodPost, "/jobs", content.JobListing{
		Title: "DBA", Department: "IT", Location: "Remote", EmploymentType: "contract",
	}, token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(r, http.MethodGet, "/contacts", nil, token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	assert.Empty(t, env.publisher.published())
}

func TestAdminController_ListLimit(t *testing.T) {
	env := newTestEnv(t)
	r := adminRouter(env, auth.NewSessions(testPassword, time.Hour))
	token := login(t, r)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, env.client.AppendActivity(ctx, content.ActivityEntry{Action: "save", Resource: fmt.Sprintf("job-%d", i)}))
	}

	w := doRequest(r, http.MethodGet, "/activity?limit=2", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	entries := decode[[]content.ActivityEntry](t, w)
	require.Len(t, entries, 2)
	assert.Equal(t, "job-2", entries[0].Resource)

	w = doRequest(r, http.MethodGet, "/activity?limit=-1", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
