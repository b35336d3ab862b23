package site

import (
	"errors"
	"regexp"
	"strings"
)

// Resource keys. Parameterised resources use "<prefix>:<name>".
const (
	KeySettings     = "site_settings"
	KeyFeatureFlags = "feature_flags"
	KeyFooter       = "footer"
	KeyTestimonials = "testimonials"
	KeyJobs         = "jobs"

	footerPrefix = "footer:"
	bannerPrefix = "banner:"
)

// ErrUnknownResource is returned for keys no loader owns.
var ErrUnknownResource = errors.New("unknown resource")

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// ValidName reports whether name may be used as a page or section name.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// FooterKey is the resource key of one footer section.
func FooterKey(section string) string { return footerPrefix + section }

// BannerKey is the resource key of a page's hero banner.
func BannerKey(page string) string { return bannerPrefix + page }

// Resource identifies the loader that owns a key.
type Resource struct {
	Kind string
	Name string
}

// ParseKey splits a resource key into its kind and optional name.
func ParseKey(key string) (Resource, error) {
	switch key {
	case KeySettings, KeyFeatureFlags, KeyFooter, KeyTestimonials, KeyJobs:
		return Resource{Kind: key}, nil
	}
	for _, prefix := range []string{footerPrefix, bannerPrefix} {
		if name, ok := strings.CutPrefix(key, prefix); ok {
			if !ValidName(name) {
				return Resource{}, ErrUnknownResource
			}
			return Resource{Kind: strings.TrimSuffix(prefix, ":"), Name: name}, nil
		}
	}
	return Resource{}, ErrUnknownResource
}
