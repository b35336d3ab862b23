package site

import (
	"strings"

	"github.com/vijayapps/vac_site/internal/content"
)

// Compiled-in defaults. They are used when neither the backend nor the local
// store can supply a resource, and are never mutated at runtime.

var defaultSettings = content.Settings{
	"company_name":         "Vijay Apps Consultants",
	"tagline":              "Oracle E-Business Suite and Cloud experts",
	"logo_url":             "",
	"contact_email":        "info@vijayappsconsultants.com",
	"contact_phone":        "+1 (555) 010-2024",
	"contact_address":      "Dallas, Texas, USA",
	"business_hours":       "Mon-Fri 9:00-18:00 CST",
	"theme":                "light",
	"testimonials_enabled": "true",
	"careers_enabled":      "true",
	"case_studies_enabled": "true",
	"consultation_enabled": "true",
}

var defaultQuickLinks = []content.FooterItem{
	{SectionType: content.SectionQuickLinks, Title: "Home", URL: "/", DisplayOrder: 0, Active: true},
	{SectionType: content.SectionQuickLinks, Title: "About Us", URL: "/about", DisplayOrder: 1, Active: true},
	{SectionType: content.SectionQuickLinks, Title: "Services", URL: "/services", DisplayOrder: 2, Active: true},
	{SectionType: content.SectionQuickLinks, Title: "Careers", URL: "/careers", DisplayOrder: 3, Active: true},
	{SectionType: content.SectionQuickLinks, Title: "Contact", URL: "/contact", DisplayOrder: 4, Active: true},
}

var defaultBanners = map[string]content.HeroBanner{
	"home": {
		PageName: "home",
		Title:    "Transform your business with Oracle expertise",
		Subtitle: "Implementation, upgrades and managed services for Oracle E-Business Suite and Oracle Cloud.",
		CTAText:  "Get a free consultation",
		CTAURL:   "/contact",
		Active:   true,
	},
	"about": {
		PageName: "about",
		Title:    "About Vijay Apps Consultants",
		Subtitle: "Two decades of Oracle delivery across finance, supply chain and HR.",
		Active:   true,
	},
	"services": {
		PageName: "services",
		Title:    "Our services",
		Subtitle: "From assessment to go-live and beyond.",
		CTAText:  "Talk to an expert",
		CTAURL:   "/contact",
		Active:   true,
	},
	"careers": {
		PageName: "careers",
		Title:    "Build your Oracle career with us",
		Subtitle: "We hire consultants, developers and DBAs who love solving hard problems.",
		CTAText:  "View open positions",
		CTAURL:   "/careers#openings",
		Active:   true,
	},
	"contact": {
		PageName: "contact",
		Title:    "Let's talk",
		Subtitle: "Tell us about your project and we will get back within one business day.",
		Active:   true,
	},
}

var defaultTestimonials = []content.Testimonial{
	{
		ID:           "demo-1",
		ClientName:   "Sarah Johnson",
		ClientRole:   "CFO",
		Company:      "Northwind Manufacturing",
		Content:      "Our R12 upgrade finished ahead of schedule with zero downtime at month end.",
		Rating:       5,
		Featured:     true,
		Active:       true,
		DisplayOrder: 0,
	},
	{
		ID:           "demo-2",
		ClientName:   "Michael Chen",
		ClientRole:   "IT Director",
		Company:      "Contoso Health",
		Content:      "Their managed services team keeps our Oracle Cloud tenancy running smoothly.",
		Rating:       5,
		Featured:     true,
		Active:       true,
		DisplayOrder: 1,
	},
	{
		ID:           "demo-3",
		ClientName:   "Priya Raman",
		ClientRole:   "Supply Chain Lead",
		Company:      "Fabrikam Retail",
		Content:      "Clear communication and deep functional knowledge of Oracle SCM.",
		Rating:       4,
		Active:       true,
		DisplayOrder: 2,
	},
}

// DefaultSettings returns a copy of the compiled-in site settings.
func DefaultSettings() content.Settings {
	return defaultSettings.Clone()
}

// DefaultFeatureFlags returns the flags derived from the default settings.
func DefaultFeatureFlags() content.FeatureFlags {
	return content.FlagsFromSettings(defaultSettings)
}

// DefaultQuickLinks returns the seed list shown when no quick links are configured.
func DefaultQuickLinks() []content.FooterItem {
	return append([]content.FooterItem(nil), defaultQuickLinks...)
}

// DefaultFooterSection returns the fallback for a footer section.
func DefaultFooterSection(section string) []content.FooterItem {
	if section == content.SectionQuickLinks {
		return DefaultQuickLinks()
	}
	return []content.FooterItem{}
}

// DefaultFooter returns the fallback for the whole footer.
func DefaultFooter() content.Footer {
	return content.Footer{content.SectionQuickLinks: DefaultQuickLinks()}
}

// DefaultBanner returns the compiled banner for page, or a generic one.
func DefaultBanner(page string) content.HeroBanner {
	if b, ok := defaultBanners[page]; ok {
		return b
	}
	return content.HeroBanner{
		PageName: page,
		Title:    titleCase(strings.NewReplacer("-", " ", "_", " ").Replace(page)),
		Subtitle: defaultSettings["tagline"],
		Active:   true,
	}
}

// DefaultTestimonials returns the demo testimonials.
func DefaultTestimonials() []content.Testimonial {
	out := make([]content.Testimonial, len(defaultTestimonials))
	copy(out, defaultTestimonials)
	return out
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
