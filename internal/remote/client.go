// Package remote is the client for the hosted relational backend that owns the
// authoritative site content.
package remote

import (
	"context"
	"errors"

	"github.com/vijayapps/vac_site/internal/broadcast"
	"github.com/vijayapps/vac_site/internal/content"
)

var (
	// ErrNotFound reports a row that legitimately does not exist (e.g. a page without a banner).
	// It is an expected state, not a failure.
	ErrNotFound = errors.New("not found")
	// ErrPermissionDenied maps the backend's row-level security rejections.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrUnavailable is returned by clients that are deliberately offline.
	ErrUnavailable = errors.New("backend unavailable")
)

// Source is the read surface used by the loaders.
type Source interface {
	ListSettings(ctx context.Context) ([]content.Setting, error)
	GetBanner(ctx context.Context, page string) (content.HeroBanner, error)
	// ListFooterItems returns the rows of one section, or all rows when section is empty.
	ListFooterItems(ctx context.Context, section string) ([]content.FooterItem, error)
	ListTestimonials(ctx context.Context) ([]content.Testimonial, error)
	ListJobs(ctx context.Context) ([]content.JobListing, error)
}

// Writer is the write surface used by the admin panel and the contact form.
type Writer interface {
	UpsertSetting(ctx context.Context, key, value string) error
	UpsertBanner(ctx context.Context, b content.HeroBanner) (content.HeroBanner, error)
	DeleteBanner(ctx context.Context, page string) error
	SaveFooterItem(ctx context.Context, item content.FooterItem) (content.FooterItem, error)
	DeleteFooterItem(ctx context.Context, id string) error
	SaveTestimonial(ctx context.Context, t content.Testimonial) (content.Testimonial, error)
	DeleteTestimonial(ctx context.Context, id string) error
	SaveJob(ctx context.Context, j content.JobListing) (content.JobListing, error)
	DeleteJob(ctx context.Context, id string) error
	CreateContactSubmission(ctx context.Context, s content.ContactSubmission) (content.ContactSubmission, error)
	ListContactSubmissions(ctx context.Context, limit int) ([]content.ContactSubmission, error)
	AppendActivity(ctx context.Context, e content.ActivityEntry) error
	ListActivity(ctx context.Context, limit int) ([]content.ActivityEntry, error)
}

// Client is the full backend contract.
type Client interface {
	Source
	Writer
	broadcast.Relay
	Close()
}
