package controller

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijayapps/vac_site/internal/content"
	"github.com/vijayapps/vac_site/internal/loader"
)

func siteRouter(env *testEnv) *gin.Engine {
	sc := NewSiteController(env.catalog)
	r := gin.New()
	r.GET("/settings", sc.Settings)
	r.GET("/features", sc.Features)
	r.GET("/footer", sc.Footer)
	r.GET("/footer/:section", sc.FooterSection)
	r.GET("/banners/:page", sc.Banner)
	r.GET("/testimonials", sc.Testimonials)
	r.GET("/jobs", sc.Jobs)
	return r
}

func TestSiteController_SettingsFromBackend(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.client.UpsertSetting(ctx, "company_name", "Acme Oracle"))

	w := doRequest(siteRouter(env), http.MethodGet, "/settings", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(loader.ProvenanceRemote), w.Header().Get(ProvenanceHeader))
	got := decode[content.Settings](t, w)
	assert.Equal(t, "Acme Oracle", got["company_name"])
	assert.NotEmpty(t, got["tagline"], "unset keys come from the defaults")
}

func TestSiteController_OutageServesCachedThenDefault(t *testing.T) {
	env := newTestEnv(t)
	r := siteRouter(env)
	require.NoError(t, env.client.UpsertSetting(context.Background(), "company_name", "Acme Oracle"))

	w := doRequest(r, http.MethodGet, "/settings", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	env.client.SetFailure(errors.New("connection refused"))

	w = doRequest(r, http.MethodGet, "/settings", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(loader.ProvenanceCached), w.Header().Get(ProvenanceHeader))
	assert.Equal(t, "Acme Oracle", decode[content.Settings](t, w)["company_name"])

	w = doRequest(r, http.MethodGet, "/banners/home", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(loader.ProvenanceDefault), w.Header().Get(ProvenanceHeader))
	assert.Equal(t, "home", decode[content.HeroBanner](t, w).PageName)
}

func TestSiteController_Features(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.client.UpsertSetting(context.Background(), "careers_enabled", "false"))

	w := doRequest(siteRouter(env), http.MethodGet, "/features", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	flags := decode[content.FeatureFlags](t, w)
	assert.False(t, flags["careers"])
	assert.True(t, flags["testimonials"])
}

func TestSiteController_BannerMissingRowUsesDefault(t *testing.T) {
	env := newTestEnv(t)

	w := doRequest(siteRouter(env), http.MethodGet, "/banners/services", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(loader.ProvenanceRemote), w.Header().Get(ProvenanceHeader))
	assert.Equal(t, "Our services", decode[content.HeroBanner](t, w).Title)
}

func TestSiteController_BannerInvalidPage(t *testing.T) {
	env := newTestEnv(t)

	w := doRequest(siteRouter(env), http.MethodGet, "/banners/Not%20A%20Page", nil, "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSiteController_FooterSeedsQuickLinks(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.client.SaveFooterItem(context.Background(), content.FooterItem{
		SectionType: content.SectionServices, Title: "EBS Upgrades", URL: "/services/ebs", Active: true,
	})
	require.NoError(t, err)
	r := siteRouter(env)

	w := doRequest(r, http.MethodGet, "/footer", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	footer := decode[content.Footer](t, w)
	assert.Len(t, footer[content.SectionQuickLinks], 5)
	require.Len(t, footer[content.SectionServices], 1)
	assert.Equal(t, "EBS Upgrades", footer[content.SectionServices][0].Title)

	w = doRequest(r, http.MethodGet, "/footer/social_links", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]content.FooterItem](t, w))
}

func TestSiteController_Testimonials(t *testing.T) {
	env := newTestEnv(t)
	r := siteRouter(env)

	tests := []struct {
		name    string
		path    string
		wantIDs []string
	}{
		{"all demo entries", "/testimonials", []string{"demo-1", "demo-2", "demo-3"}},
		{"featured only", "/testimonials?featured=true", []string{"demo-1", "demo-2"}},
		{"limit", "/testimonials?limit=1", []string{"demo-1"}},
		{"min rating", "/testimonials?min_rating=5", []string{"demo-1", "demo-2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodGet, tt.path, nil, "")
			require.Equal(t, http.StatusOK, w.Code)
			var ids []string
			for _, tm := range decode[[]content.Testimonial](t, w) {
				ids = append(ids, tm.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}

	w := doRequest(r, http.MethodGet, "/testimonials?min_rating=9", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSiteController_TestimonialsDisabled(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.client.UpsertSetting(context.Background(), "testimonials_enabled", "false"))

	w := doRequest(siteRouter(env), http.MethodGet, "/testimonials", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestSiteController_JobsFiltered(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for _, j := range []content.JobListing{
		{Title: "Oracle Financials Consultant", Department: "Finance", Location: "Dallas", EmploymentType: "full-time", Active: true},
		{Title: "Oracle DBA", Department: "Technology", Location: "Remote", EmploymentType: "contract", Active: true},
		{Title: "Retired role", Department: "Technology", Location: "Remote", EmploymentType: "contract"},
	} {
		_, err := env.client.SaveJob(ctx, j)
		require.NoError(t, err)
	}
	r := siteRouter(env)

	w := doRequest(r, http.MethodGet, "/jobs?department=technology", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[struct {
		Jobs        []content.JobListing `json:"jobs"`
		Departments []string             `json:"departments"`
	}](t, w)
	require.Len(t, resp.Jobs, 1)
	assert.Equal(t, "Oracle DBA", resp.Jobs[0].Title)
	assert.Equal(t, []string{"Finance", "Technology"}, resp.Departments)

	require.NoError(t, env.client.UpsertSetting(ctx, "careers_enabled", "false"))
	w = doRequest(r, http.MethodGet, "/jobs", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"jobs":[],"departments":[]}`, w.Body.String())
}
