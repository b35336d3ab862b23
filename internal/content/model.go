package content

import (
	"encoding/json"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Setting is a single row of the site_settings table.
type Setting struct {
	Key       string    `json:"setting_key" db:"setting_key" validate:"required,max=128"`
	Value     string    `json:"setting_value" db:"setting_value"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Settings is the canonical shape of the site_settings resource.
type Settings map[string]string

// FeatureFlags maps a feature name (setting key without the "_enabled" suffix) to its state.
type FeatureFlags map[string]bool

// HeroBanner is the banner shown at the top of a page. One row per page.
type HeroBanner struct {
	PageName  string    `json:"page_name" db:"page_name" validate:"required,max=64"`
	Title     string    `json:"title" db:"title" validate:"required"`
	Subtitle  string    `json:"subtitle" db:"subtitle"`
	MediaURL  string    `json:"media_url" db:"media_url" validate:"omitempty,url"`
	MediaType string    `json:"media_type" db:"media_type" validate:"omitempty,oneof=image video"`
	CTAText   string    `json:"cta_text" db:"cta_text"`
	CTAURL    string    `json:"cta_url" db:"cta_url"`
	Active    bool      `json:"is_active" db:"is_active"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Footer section types.
const (
	SectionQuickLinks  = "quick_links"
	SectionServices    = "services"
	SectionContactInfo = "contact_info"
	SectionSocialLinks = "social_links"
)

// FooterSections lists the known footer section types in render order.
var FooterSections = []string{SectionQuickLinks, SectionServices, SectionContactInfo, SectionSocialLinks}

// FooterItem is a single row of the footer_content table.
type FooterItem struct {
	ID           string `json:"id" db:"id" validate:"omitempty,uuid"`
	SectionType  string `json:"section_type" db:"section_type" validate:"required,oneof=quick_links services contact_info social_links"`
	Title        string `json:"title" db:"title" validate:"required"`
	URL          string `json:"url" db:"url"`
	DisplayOrder int    `json:"display_order" db:"display_order" validate:"min=0"`
	Active       bool   `json:"is_active" db:"is_active"`
}

// Footer is the canonical shape of the footer resource: items grouped by section type.
type Footer map[string][]FooterItem

// Testimonial is a single row of the testimonials table.
type Testimonial struct {
	ID           string    `json:"id" db:"id" validate:"omitempty,uuid"`
	ClientName   string    `json:"client_name" db:"client_name" validate:"required"`
	ClientRole   string    `json:"client_role" db:"client_role"`
	Company      string    `json:"company" db:"company"`
	Content      string    `json:"content" db:"content" validate:"required"`
	Rating       int       `json:"rating" db:"rating" validate:"min=1,max=5"`
	Featured     bool      `json:"is_featured" db:"is_featured"`
	Active       bool      `json:"is_active" db:"is_active"`
	DisplayOrder int       `json:"display_order" db:"display_order" validate:"min=0"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// JobListing is a single row of the job_listings table.
type JobListing struct {
	ID             string    `json:"id" db:"id" validate:"omitempty,uuid"`
	Title          string    `json:"title" db:"title" validate:"required"`
	Department     string    `json:"department" db:"department" validate:"required"`
	Location       string    `json:"location" db:"location" validate:"required"`
	EmploymentType string    `json:"employment_type" db:"employment_type" validate:"required,oneof=full-time part-time contract internship"`
	Experience     string    `json:"experience" db:"experience"`
	Description    string    `json:"description" db:"description"`
	Requirements   []string  `json:"requirements" db:"requirements"`
	Active         bool      `json:"is_active" db:"is_active"`
	PostedAt       time.Time `json:"posted_at" db:"posted_at"`
}

// ContactSubmission is a message sent from the contact page.
type ContactSubmission struct {
	ID                    string    `json:"id" db:"id"`
	Name                  string    `json:"name" db:"name" validate:"required,max=200"`
	Email                 string    `json:"email" db:"email" validate:"required,email"`
	Phone                 string    `json:"phone" db:"phone" validate:"max=40"`
	Company               string    `json:"company" db:"company"`
	Service               string    `json:"service" db:"service"`
	Message               string    `json:"message" db:"message" validate:"required,max=5000"`
	ConsultationRequested bool      `json:"consultation_requested" db:"consultation_requested"`
	CreatedAt             time.Time `json:"created_at" db:"created_at"`
}

// ActivityEntry is a write-once admin audit record.
type ActivityEntry struct {
	ID        string    `json:"id" db:"id"`
	Action    string    `json:"action" db:"action"`
	Resource  string    `json:"resource" db:"resource"`
	Detail    string    `json:"detail" db:"detail"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SettingsFromRows folds setting rows into the key-value snapshot.
// Later rows win when a key repeats.
func SettingsFromRows(rows []Setting) Settings {
	out := make(Settings, len(rows))
	for _, r := range rows {
		if r.Key == "" {
			continue
		}
		out[r.Key] = r.Value
	}
	return out
}

// Get returns the value for key or def when missing or empty.
func (s Settings) Get(key, def string) string {
	if v, ok := s[key]; ok && v != "" {
		return v
	}
	return def
}

// Clone returns an independent copy.
func (s Settings) Clone() Settings {
	out := make(Settings, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

const flagSuffix = "_enabled"

// FlagsFromSettings extracts every "<name>_enabled" setting as a boolean flag.
// Unparseable values are treated as disabled.
func FlagsFromSettings(s Settings) FeatureFlags {
	out := FeatureFlags{}
	for k, v := range s {
		name, ok := strings.CutSuffix(k, flagSuffix)
		if !ok || name == "" {
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		out[name] = err == nil && b
	}
	return out
}

// Enabled reports whether the named feature is on. Unknown features are off.
func (f FeatureFlags) Enabled(name string) bool {
	return f[name]
}

// GroupFooter groups active items by section type, each section ordered by display order then title.
func GroupFooter(items []FooterItem) Footer {
	out := Footer{}
	for _, it := range items {
		if !it.Active || it.SectionType == "" {
			continue
		}
		out[it.SectionType] = append(out[it.SectionType], it)
	}
	for section := range out {
		SortFooterItems(out[section])
	}
	return out
}

// SortFooterItems orders items in place by display order, then title.
func SortFooterItems(items []FooterItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].DisplayOrder != items[j].DisplayOrder {
			return items[i].DisplayOrder < items[j].DisplayOrder
		}
		return items[i].Title < items[j].Title
	})
}

// ActiveTestimonials drops inactive rows and orders by display order, newest first on ties.
func ActiveTestimonials(list []Testimonial) []Testimonial {
	out := make([]Testimonial, 0, len(list))
	for _, t := range list {
		if t.Active {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// ActiveJobs drops inactive listings and orders newest first.
func ActiveJobs(list []JobListing) []JobListing {
	out := make([]JobListing, 0, len(list))
	for _, j := range list {
		if !j.Active {
			continue
		}
		if j.Requirements == nil {
			j.Requirements = []string{}
		}
		out = append(out, j)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PostedAt.After(out[j].PostedAt)
	})
	return out
}

// Clone deep-copies any JSON-serialisable value.
// Used to hand out fallback defaults without sharing maps or slices.
func Clone[T any](v T) (T, error) {
	var out T
	b, err := json.Marshal(v)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, err
	}
	return out, nil
}

// Equal compares two values by their JSON form (map key order independent).
func Equal(a, b any) bool {
	ab, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	var av, bv any
	if err := json.Unmarshal(ab, &av); err != nil {
		return false
	}
	if err := json.Unmarshal(bb, &bv); err != nil {
		return false
	}
	return reflect.DeepEqual(av, bv)
}
