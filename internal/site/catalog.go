// Package site defines the cached resources of the marketing site: their keys,
// canonical shapes, compiled-in defaults and seeding rules.
package site

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vijayapps/vac_site/internal/content"
	"github.com/vijayapps/vac_site/internal/loader"
	"github.com/vijayapps/vac_site/internal/localstore"
	"github.com/vijayapps/vac_site/internal/logger"
	"github.com/vijayapps/vac_site/internal/remote"
)

// Refresher is satisfied by every loader regardless of its value type.
type Refresher interface {
	Key() string
	Refresh(ctx context.Context) bool
}

// Catalog owns one loader per resource key. Parameterised loaders (footer
// sections, banners) are created on first use.
type Catalog struct {
	src   remote.Source
	store localstore.Store
	opts  []loader.Option

	settings     *loader.Loader[content.Settings]
	flags        *loader.Loader[content.FeatureFlags]
	footer       *loader.Loader[content.Footer]
	testimonials *loader.Loader[[]content.Testimonial]
	jobs         *loader.Loader[[]content.JobListing]

	mu       sync.Mutex
	sections map[string]*loader.Loader[[]content.FooterItem]
	banners  map[string]*loader.Loader[content.HeroBanner]
}

// NewCatalog wires every fixed resource against src and store.
func NewCatalog(src remote.Source, store localstore.Store, opts ...loader.Option) (*Catalog, error) {
	if src == nil {
		return nil, fmt.Errorf("remote source is nil")
	}
	if store == nil {
		return nil, fmt.Errorf("local store is nil")
	}
	c := &Catalog{
		src:      src,
		store:    store,
		opts:     opts,
		sections: map[string]*loader.Loader[[]content.FooterItem]{},
		banners:  map[string]*loader.Loader[content.HeroBanner]{},
	}
	c.settings = loader.New(KeySettings, c.fetchSettings, store, DefaultSettings(), opts...)
	c.flags = loader.New(KeyFeatureFlags, c.fetchFlags, store, DefaultFeatureFlags(), opts...)
	c.footer = loader.New(KeyFooter, c.fetchFooter, store, DefaultFooter(), opts...)
	c.testimonials = loader.New(KeyTestimonials, c.fetchTestimonials, store, DefaultTestimonials(), opts...)
	c.jobs = loader.New(KeyJobs, c.fetchJobs, store, []content.JobListing{}, opts...)
	return c, nil
}

func (c *Catalog) Settings() *loader.Loader[content.Settings] { return c.settings }
func (c *Catalog) FeatureFlags() *loader.Loader[content.FeatureFlags] { return c.flags }
func (c *Catalog) Footer() *loader.Loader[content.Footer] { return c.footer }
func (c *Catalog) Testimonials() *loader.Loader[[]content.Testimonial] { return c.testimonials }
func (c *Catalog) Jobs() *loader.Loader[[]content.JobListing] { return c.jobs }

// FooterSection returns the loader of one footer section.
func (c *Catalog) FooterSection(section string) (*loader.Loader[[]content.FooterItem], error) {
	if !ValidName(section) {
		return nil, fmt.Errorf("footer section %q: %w", section, ErrUnknownResource)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.sections[section]; ok {
		return l, nil
	}
	l := loader.New(FooterKey(section), c.fetchFooterSection(section), c.store, DefaultFooterSection(section), c.opts...)
	c.sections[section] = l
	return l, nil
}

// Banner returns the loader of a page's hero banner.
func (c *Catalog) Banner(page string) (*loader.Loader[content.HeroBanner], error) {
	if !ValidName(page) {
		return nil, fmt.Errorf("banner page %q: %w", page, ErrUnknownResource)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.banners[page]; ok {
		return l, nil
	}
	l := loader.New(BannerKey(page), c.fetchBanner(page), c.store, DefaultBanner(page), c.opts...)
	c.banners[page] = l
	return l, nil
}

// Lookup returns the loader owning key.
func (c *Catalog) Lookup(key string) (Refresher, error) {
	res, err := ParseKey(key)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", key, err)
	}
	switch res.Kind {
	case KeySettings:
		return c.settings, nil
	case KeyFeatureFlags:
		return c.flags, nil
	case KeyFooter:
		if res.Name == "" {
			return c.footer, nil
		}
		l, err := c.FooterSection(res.Name)
		if err != nil {
			return nil, err
		}
		return l, nil
	case KeyTestimonials:
		return c.testimonials, nil
	case KeyJobs:
		return c.jobs, nil
	default:
		l, err := c.Banner(res.Name)
		if err != nil {
			return nil, err
		}
		return l, nil
	}
}

// Refresh re-runs the loader owning key. It reports whether the backend answered;
// the only error is an unknown key.
func (c *Catalog) Refresh(ctx context.Context, key string) (bool, error) {
	l, err := c.Lookup(key)
	if err != nil {
		return false, err
	}
	return l.Refresh(ctx), nil
}

// RefreshAll re-runs every loader created so far and returns how many reached the backend.
func (c *Catalog) RefreshAll(ctx context.Context) int {
	ok := 0
	for _, l := range c.loaders() {
		if ctx.Err() != nil {
			break
		}
		if l.Refresh(ctx) {
			ok++
		}
	}
	return ok
}

// Keys lists the keys of every loader created so far.
func (c *Catalog) Keys() []string {
	ls := c.loaders()
	keys := make([]string, 0, len(ls))
	for _, l := range ls {
		keys = append(keys, l.Key())
	}
	sort.Strings(keys)
	return keys
}

func (c *Catalog) loaders() []Refresher {
	out := []Refresher{c.settings, c.flags, c.footer, c.testimonials, c.jobs}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, l := range c.sections {
		out = append(out, l)
	}
	for _, l := range c.banners {
		out = append(out, l)
	}
	return out
}

// Settings are overlaid on the defaults so a partially configured backend
// still yields every key the pages read.
func (c *Catalog) fetchSettings(ctx context.Context) (content.Settings, error) {
	rows, err := c.src.ListSettings(ctx)
	if err != nil {
		return nil, err
	}
	out := DefaultSettings()
	for k, v := range content.SettingsFromRows(rows) {
		out[k] = v
	}
	return out, nil
}

func (c *Catalog) fetchFlags(ctx context.Context) (content.FeatureFlags, error) {
	s, err := c.fetchSettings(ctx)
	if err != nil {
		return nil, err
	}
	return content.FlagsFromSettings(s), nil
}

func (c *Catalog) fetchFooter(ctx context.Context) (content.Footer, error) {
	items, err := c.src.ListFooterItems(ctx, "")
	if err != nil {
		return nil, err
	}
	footer := content.GroupFooter(items)
	if len(footer[content.SectionQuickLinks]) == 0 {
		footer[content.SectionQuickLinks] = DefaultQuickLinks()
	}
	return footer, nil
}

// Quick links are seeded when empty; every other section may legitimately be empty.
func (c *Catalog) fetchFooterSection(section string) loader.FetchFunc[[]content.FooterItem] {
	return func(ctx context.Context) ([]content.FooterItem, error) {
		items, err := c.src.ListFooterItems(ctx, section)
		if err != nil {
			return nil, err
		}
		active := content.GroupFooter(items)[section]
		if len(active) == 0 {
			logger.WithResource("site", FooterKey(section)).Debug("no footer rows configured")
			return DefaultFooterSection(section), nil
		}
		return active, nil
	}
}

// Inactive banners read as absent so the page falls back to its compiled banner.
func (c *Catalog) fetchBanner(page string) loader.FetchFunc[content.HeroBanner] {
	return func(ctx context.Context) (content.HeroBanner, error) {
		b, err := c.src.GetBanner(ctx, page)
		if err != nil {
			return content.HeroBanner{}, err
		}
		if !b.Active {
			return content.HeroBanner{}, remote.ErrNotFound
		}
		return b, nil
	}
}

// The demo testimonials are shown until at least one real one is active.
func (c *Catalog) fetchTestimonials(ctx context.Context) ([]content.Testimonial, error) {
	list, err := c.src.ListTestimonials(ctx)
	if err != nil {
		return nil, err
	}
	active := content.ActiveTestimonials(list)
	if len(active) == 0 {
		return DefaultTestimonials(), nil
	}
	return active, nil
}

func (c *Catalog) fetchJobs(ctx context.Context) ([]content.JobListing, error) {
	list, err := c.src.ListJobs(ctx)
	if err != nil {
		return nil, err
	}
	return content.ActiveJobs(list), nil
}
