package content

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSettingsFromRows(t *testing.T) {
	rows := []Setting{
		{Key: "company_name", Value: "Acme"},
		{Key: "", Value: "ignored"},
		{Key: "logo_url", Value: "https://cdn.example.com/logo.png"},
		{Key: "company_name", Value: "Acme Oracle"},
	}

	s := SettingsFromRows(rows)

	assert.Len(t, s, 2)
	assert.Equal(t, "Acme Oracle", s["company_name"])
	assert.Equal(t, "https://cdn.example.com/logo.png", s.Get("logo_url", ""))
	assert.Equal(t, "fallback", s.Get("missing", "fallback"))
}

func TestSettings_GetEmptyValueUsesDefault(t *testing.T) {
	s := Settings{"tagline": ""}
	assert.Equal(t, "def", s.Get("tagline", "def"))
}

func TestSettings_CloneIsIndependent(t *testing.T) {
	s := Settings{"a": "1"}
	c := s.Clone()
	c["a"] = "2"
	assert.Equal(t, "1", s["a"])
}

func TestFlagsFromSettings(t *testing.T) {
	s := Settings{
		"testimonials_enabled": "true",
		"careers_enabled":      "FALSE",
		"blog_enabled":         "maybe",
		"_enabled":             "true",
		"company_name":         "Acme",
	}

	f := FlagsFromSettings(s)

	assert.Equal(t, FeatureFlags{"testimonials": true, "careers": false, "blog": false}, f)
	assert.True(t, f.Enabled("testimonials"))
	assert.False(t, f.Enabled("unknown"))
}

func TestGroupFooter(t *testing.T) {
	items := []FooterItem{
		{Title: "Contact", SectionType: SectionQuickLinks, DisplayOrder: 2, Active: true},
		{Title: "Home", SectionType: SectionQuickLinks, DisplayOrder: 0, Active: true},
		{Title: "Hidden", SectionType: SectionQuickLinks, DisplayOrder: 1, Active: false},
		{Title: "Oracle EBS", SectionType: SectionServices, DisplayOrder: 0, Active: true},
		{Title: "No section", Active: true},
	}

	f := GroupFooter(items)

	assert.Len(t, f, 2)
	if assert.Len(t, f[SectionQuickLinks], 2) {
		assert.Equal(t, "Home", f[SectionQuickLinks][0].Title)
		assert.Equal(t, "Contact", f[SectionQuickLinks][1].Title)
	}
	assert.Len(t, f[SectionServices], 1)
}

func TestActiveTestimonials(t *testing.T) {
	now := time.Now()
	list := []Testimonial{
		{ClientName: "old", DisplayOrder: 1, Active: true, CreatedAt: now.Add(-time.Hour)},
		{ClientName: "new", DisplayOrder: 1, Active: true, CreatedAt: now},
		{ClientName: "first", DisplayOrder: 0, Active: true, CreatedAt: now.Add(-48 * time.Hour)},
		{ClientName: "off", DisplayOrder: 0, Active: false},
	}

	got := ActiveTestimonials(list)

	names := make([]string, 0, len(got))
	for _, t := range got {
		names = append(names, t.ClientName)
	}
	assert.Equal(t, []string{"first", "new", "old"}, names)
}

func TestActiveJobs(t *testing.T) {
	now := time.Now()
	list := []JobListing{
		{Title: "DBA", Active: true, PostedAt: now.Add(-time.Hour)},
		{Title: "Closed", Active: false, PostedAt: now},
		{Title: "Developer", Active: true, PostedAt: now},
	}

	got := ActiveJobs(list)

	if assert.Len(t, got, 2) {
		assert.Equal(t, "Developer", got[0].Title)
		assert.NotNil(t, got[0].Requirements)
	}
}

func TestCloneAndEqual(t *testing.T) {
	orig := Footer{SectionQuickLinks: {{Title: "Home", URL: "/"}}}

	c, err := Clone(orig)
	assert.NoError(t, err)
	assert.True(t, Equal(orig, c))

	c[SectionQuickLinks][0].Title = "Changed"
	assert.Equal(t, "Home", orig[SectionQuickLinks][0].Title)
	assert.False(t, Equal(orig, c))
}
