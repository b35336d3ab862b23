package remote

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vijayapps/vac_site/internal/content"
	"github.com/vijayapps/vac_site/internal/logger"
)

// MemoryClient keeps every table in memory. It backs local development
// (remote.type=memory) and the tests, and can simulate an outage.
type MemoryClient struct {
	mu           sync.RWMutex
	failure      error
	settings     map[string]content.Setting
	banners      map[string]content.HeroBanner
	footer       map[string]content.FooterItem
	testimonials map[string]content.Testimonial
	jobs         map[string]content.JobListing
	contacts     []content.ContactSubmission
	activity     []content.ActivityEntry

	listenMu  sync.Mutex
	listeners map[uint64]func(string)
	nextID    uint64

	calls map[string]int
}

var _ Client = (*MemoryClient)(nil)

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		settings:     map[string]content.Setting{},
		banners:      map[string]content.HeroBanner{},
		footer:       map[string]content.FooterItem{},
		testimonials: map[string]content.Testimonial{},
		jobs:         map[string]content.JobListing{},
		listeners:    map[uint64]func(string){},
		calls:        map[string]int{},
	}
}

// SetFailure makes every subsequent call return err; nil restores service.
func (m *MemoryClient) SetFailure(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failure = err
}

// Calls returns how many times the named operation was invoked.
func (m *MemoryClient) Calls(op string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[op]
}

// enter records a call and returns the injected failure, if any. Caller holds mu.
func (m *MemoryClient) enter(ctx context.Context, op string) error {
	m.calls[op]++
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.failure
}

func (m *MemoryClient) ListSettings(ctx context.Context) ([]content.Setting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "ListSettings"); err != nil {
		return nil, err
	}
	out := make([]content.Setting, 0, len(m.settings))
	for _, s := range m.settings {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *MemoryClient) GetBanner(ctx context.Context, page string) (content.HeroBanner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "GetBanner"); err != nil {
		return content.HeroBanner{}, err
	}
	b, ok := m.banners[page]
	if !ok {
		return content.HeroBanner{}, ErrNotFound
	}
	return b, nil
}

func (m *MemoryClient) ListFooterItems(ctx context.Context, section string) ([]content.FooterItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "ListFooterItems"); err != nil {
		return nil, err
	}
	out := []content.FooterItem{}
	for _, it := range m.footer {
		if section == "" || it.SectionType == section {
			out = append(out, it)
		}
	}
	content.SortFooterItems(out)
	return out, nil
}

func (m *MemoryClient) ListTestimonials(ctx context.Context) ([]content.Testimonial, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "ListTestimonials"); err != nil {
		return nil, err
	}
	out := make([]content.Testimonial, 0, len(m.testimonials))
	for _, t := range m.testimonials {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryClient) ListJobs(ctx context.Context) ([]content.JobListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "ListJobs"); err != nil {
		return nil, err
	}
	out := make([]content.JobListing, 0, len(m.jobs))
	for _, j := range m.jobs {
		out = append(out, j)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryClient) UpsertSetting(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "UpsertSetting"); err != nil {
		return err
	}
	m.settings[key] = content.Setting{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return nil
}

func (m *MemoryClient) UpsertBanner(ctx context.Context, b content.HeroBanner) (content.HeroBanner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "UpsertBanner"); err != nil {
		return content.HeroBanner{}, err
	}
	b.UpdatedAt = time.Now().UTC()
	m.banners[b.PageName] = b
	return b, nil
}

func (m *MemoryClient) DeleteBanner(ctx context.Context, page string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "DeleteBanner"); err != nil {
		return err
	}
	if _, ok := m.banners[page]; !ok {
		return ErrNotFound
	}
	delete(m.banners, page)
	return nil
}

func (m *MemoryClient) SaveFooterItem(ctx context.Context, item content.FooterItem) (content.FooterItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "SaveFooterItem"); err != nil {
		return content.FooterItem{}, err
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	m.footer[item.ID] = item
	return item, nil
}

func (m *MemoryClient) DeleteFooterItem(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "DeleteFooterItem"); err != nil {
		return err
	}
	if _, ok := m.footer[id]; !ok {
		return ErrNotFound
	}
	delete(m.footer, id)
	return nil
}

func (m *MemoryClient) SaveTestimonial(ctx context.Context, t content.Testimonial) (content.Testimonial, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "SaveTestimonial"); err != nil {
		return content.Testimonial{}, err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	m.testimonials[t.ID] = t
	return t, nil
}

func (m *MemoryClient) DeleteTestimonial(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "DeleteTestimonial"); err != nil {
		return err
	}
	if _, ok := m.testimonials[id]; !ok {
		return ErrNotFound
	}
	delete(m.testimonials, id)
	return nil
}

func (m *MemoryClient) SaveJob(ctx context.Context, j content.JobListing) (content.JobListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "SaveJob"); err != nil {
		return content.JobListing{}, err
	}
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	if j.PostedAt.IsZero() {
		j.PostedAt = time.Now().UTC()
	}
	m.jobs[j.ID] = j
	return j, nil
}

func (m *MemoryClient) DeleteJob(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "DeleteJob"); err != nil {
		return err
	}
	if _, ok := m.jobs[id]; !ok {
		return ErrNotFound
	}
	delete(m.jobs, id)
	return nil
}

func (m *MemoryClient) CreateContactSubmission(ctx context.Context, s content.ContactSubmission) (content.ContactSubmission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "CreateContactSubmission"); err != nil {
		return content.ContactSubmission{}, err
	}
	s.ID = uuid.NewString()
	s.CreatedAt = time.Now().UTC()
	m.contacts = append(m.contacts, s)
	return s, nil
}

func (m *MemoryClient) ListContactSubmissions(ctx context.Context, limit int) ([]content.ContactSubmission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "ListContactSubmissions"); err != nil {
		return nil, err
	}
	return newestFirst(m.contacts, limit), nil
}

func (m *MemoryClient) AppendActivity(ctx context.Context, e content.ActivityEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "AppendActivity"); err != nil {
		return err
	}
	e.ID = uuid.NewString()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	m.activity = append(m.activity, e)
	return nil
}

func (m *MemoryClient) ListActivity(ctx context.Context, limit int) ([]content.ActivityEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "ListActivity"); err != nil {
		return nil, err
	}
	return newestFirst(m.activity, limit), nil
}

// newestFirst returns the last limit entries of an append-only log in reverse order.
func newestFirst[T any](log []T, limit int) []T {
	if limit <= 0 || limit > len(log) {
		limit = len(log)
	}
	out := make([]T, 0, limit)
	for i := len(log) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, log[i])
	}
	return out
}

// Publish delivers a signal to every Listen callback registered on this client.
// All MemoryClient users share one process, so there is no sender to filter.
func (m *MemoryClient) Publish(ctx context.Context, resourceKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.listenMu.Lock()
	targets := make([]func(string), 0, len(m.listeners))
	for _, fn := range m.listeners {
		targets = append(targets, fn)
	}
	m.listenMu.Unlock()
	for _, fn := range targets {
		fn(resourceKey)
	}
	return nil
}

// Listen registers onSignal until ctx is cancelled. It blocks like the Postgres relay.
func (m *MemoryClient) Listen(ctx context.Context, onSignal func(string)) error {
	m.listenMu.Lock()
	m.nextID++
	id := m.nextID
	m.listeners[id] = onSignal
	m.listenMu.Unlock()
	logger.WithComponent("memory-remote").Debug("relay listener registered")

	<-ctx.Done()

	m.listenMu.Lock()
	delete(m.listeners, id)
	m.listenMu.Unlock()
	return ctx.Err()
}

func (m *MemoryClient) Close() {}
