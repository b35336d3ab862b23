package site

import (
	"sort"
	"strings"

	"github.com/vijayapps/vac_site/internal/content"
)

// JobFilter narrows the careers listing. Empty fields match everything.
type JobFilter struct {
	Department     string `form:"department"`
	Location       string `form:"location"`
	EmploymentType string `form:"type"`
	Query          string `form:"q"`
}

// FilterJobs returns the listings matching f, preserving order.
// Department, location and type match case-insensitively; Query is a substring
// search over title, description and requirements.
func FilterJobs(jobs []content.JobListing, f JobFilter) []content.JobListing {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]content.JobListing, 0, len(jobs))
	for _, j := range jobs {
		if !matchField(j.Department, f.Department) ||
			!matchField(j.Location, f.Location) ||
			!matchField(j.EmploymentType, f.EmploymentType) {
			continue
		}
		if q != "" && !jobContains(j, q) {
			continue
		}
		out = append(out, j)
	}
	return out
}

func matchField(value, want string) bool {
	want = strings.TrimSpace(want)
	return want == "" || want == "all" || strings.EqualFold(value, want)
}

func jobContains(j content.JobListing, q string) bool {
	if strings.Contains(strings.ToLower(j.Title), q) || strings.Contains(strings.ToLower(j.Description), q) {
		return true
	}
	for _, r := range j.Requirements {
		if strings.Contains(strings.ToLower(r), q) {
			return true
		}
	}
	return false
}

// Departments lists the distinct departments in jobs, sorted.
func Departments(jobs []content.JobListing) []string {
	seen := map[string]struct{}{}
	for _, j := range jobs {
		if j.Department != "" {
			seen[j.Department] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// TestimonialFilter narrows the testimonials carousel.
type TestimonialFilter struct {
	FeaturedOnly bool `form:"featured"`
	MinRating    int  `form:"min_rating" binding:"omitempty,min=0,max=5"`
	Limit        int  `form:"limit" binding:"omitempty,min=0"`
}

// FilterTestimonials returns the testimonials matching f, preserving order.
// A zero Limit means no limit.
func FilterTestimonials(list []content.Testimonial, f TestimonialFilter) []content.Testimonial {
	out := make([]content.Testimonial, 0, len(list))
	for _, t := range list {
		if f.FeaturedOnly && !t.Featured {
			continue
		}
		if t.Rating < f.MinRating {
			continue
		}
		out = append(out, t)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out
}
