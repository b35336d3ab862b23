package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vijayapps/vac_site/internal/content"
	"github.com/vijayapps/vac_site/internal/logger"
)

// sqlstateInsufficientPrivilege is raised by row-level security policies.
const sqlstateInsufficientPrivilege = "42501"

// PostgresClient reads and writes the site tables over a pgx pool, and relays
// invalidation signals between instances with LISTEN/NOTIFY.
type PostgresClient struct {
	pool       *pgxpool.Pool
	channel    string
	instanceID string
}

var _ Client = (*PostgresClient)(nil)

// NewConnectionPool creates a pgx pool from a PostgreSQL connection string.
func NewConnectionPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.ConnConfig.RuntimeParams["application_name"] = "vac_site"
	return pgxpool.NewWithConfig(ctx, cfg)
}

// NewPostgresClient wraps pool. channel is the NOTIFY channel; instanceID tags
// published signals so an instance ignores its own notifications.
func NewPostgresClient(pool *pgxpool.Pool, channel, instanceID string) *PostgresClient {
	return &PostgresClient{pool: pool, channel: channel, instanceID: instanceID}
}

// Pool exposes the underlying pool (migrations).
func (p *PostgresClient) Pool() *pgxpool.Pool {
	return p.pool
}

func (p *PostgresClient) Close() {
	p.pool.Close()
}

// mapError translates driver errors into the package sentinels.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == sqlstateInsufficientPrivilege {
		return fmt.Errorf("%s: %w: %s", op, ErrPermissionDenied, pgErr.Message)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func collect[T any](ctx context.Context, p *PostgresClient, op, sql string, args ...any) ([]T, error) {
	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, mapError(op, err)
	}
	return out, nil
}

func collectOne[T any](ctx context.Context, p *PostgresClient, op, sql string, args ...any) (T, error) {
	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		var zero T
		return zero, mapError(op, err)
	}
	out, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		var zero T
		return zero, mapError(op, err)
	}
	return out, nil
}

const (
	settingColumns     = `setting_key, setting_value, updated_at`
	bannerColumns      = `page_name, title, subtitle, media_url, media_type, cta_text, cta_url, is_active, updated_at`
	footerColumns      = `id::text AS id, section_type, title, url, display_order, is_active`
	testimonialColumns = `id::text AS id, client_name, client_role, company, content, rating, is_featured, is_active, display_order, created_at`
	jobColumns         = `id::text AS id, title, department, location, employment_type, experience, description, requirements, is_active, posted_at`
	contactColumns     = `id::text AS id, name, email, phone, company, service, message, consultation_requested, created_at`
	activityColumns    = `id::text AS id, action, resource, detail, created_at`
)

func (p *PostgresClient) ListSettings(ctx context.Context) ([]content.Setting, error) {
	return collect[content.Setting](ctx, p, "list settings",
		`SELECT `+settingColumns+` FROM site_settings ORDER BY setting_key`)
}

func (p *PostgresClient) GetBanner(ctx context.Context, page string) (content.HeroBanner, error) {
	return collectOne[content.HeroBanner](ctx, p, "get banner",
		`SELECT `+bannerColumns+` FROM hero_banners WHERE page_name = $1`, page)
}

func (p *PostgresClient) ListFooterItems(ctx context.Context, section string) ([]content.FooterItem, error) {
	if section == "" {
		return collect[content.FooterItem](ctx, p, "list footer",
			`SELECT `+footerColumns+` FROM footer_content ORDER BY section_type, display_order, title`)
	}
	return collect[content.FooterItem](ctx, p, "list footer section",
		`SELECT `+footerColumns+` FROM footer_content WHERE section_type = $1 ORDER BY display_order, title`, section)
}

func (p *PostgresClient) ListTestimonials(ctx context.Context) ([]content.Testimonial, error) {
	return collect[content.Testimonial](ctx, p, "list testimonials",
		`SELECT `+testimonialColumns+` FROM testimonials ORDER BY display_order, created_at DESC`)
}

func (p *PostgresClient) ListJobs(ctx context.Context) ([]content.JobListing, error) {
	return collect[content.JobListing](ctx, p, "list jobs",
		`SELECT `+jobColumns+` FROM job_listings ORDER BY posted_at DESC`)
}

func (p *PostgresClient) UpsertSetting(ctx context.Context, key, value string) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO site_settings (setting_key, setting_value, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (setting_key) DO UPDATE SET setting_value = EXCLUDED.setting_value, updated_at = now()`,
		key, value)
	return mapError("upsert setting", err)
}

func (p *PostgresClient) UpsertBanner(ctx context.Context, b content.HeroBanner) (content.HeroBanner, error) {
	return collectOne[content.HeroBanner](ctx, p, "upsert banner",
		`INSERT INTO hero_banners (page_name, title, subtitle, media_url, media_type, cta_text, cta_url, is_active, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		 ON CONFLICT (page_name) DO UPDATE SET
		   title = EXCLUDED.title, subtitle = EXCLUDED.subtitle, media_url = EXCLUDED.media_url,
		   media_type = EXCLUDED.media_type, cta_text = EXCLUDED.cta_text, cta_url = EXCLUDED.cta_url,
		   is_active = EXCLUDED.is_active, updated_at = now()
		 RETURNING `+bannerColumns,
		b.PageName, b.Title, b.Subtitle, b.MediaURL, b.MediaType, b.CTAText, b.CTAURL, b.Active)
}

func (p *PostgresClient) deleteRow(ctx context.Context, op, sql string, arg any) error {
	tag, err := p.pool.Exec(ctx, sql, arg)
	if err != nil {
		return mapError(op, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresClient) DeleteBanner(ctx context.Context, page string) error {
	return p.deleteRow(ctx, "delete banner", `DELETE FROM hero_banners WHERE page_name = $1`, page)
}

func (p *PostgresClient) SaveFooterItem(ctx context.Context, item content.FooterItem) (content.FooterItem, error) {
	return collectOne[content.FooterItem](ctx, p, "save footer item",
		`INSERT INTO footer_content (id, section_type, title, url, display_order, is_active)
		 VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
		   section_type = EXCLUDED.section_type, title = EXCLUDED.title, url = EXCLUDED.url,
		   display_order = EXCLUDED.display_order, is_active = EXCLUDED.is_active
		 RETURNING `+footerColumns,
		item.ID, item.SectionType, item.Title, item.URL, item.DisplayOrder, item.Active)
}

func (p *PostgresClient) DeleteFooterItem(ctx context.Context, id string) error {
	return p.deleteRow(ctx, "delete footer item", `DELETE FROM footer_content WHERE id = $1::uuid`, id)
}

func (p *PostgresClient) SaveTestimonial(ctx context.Context, t content.Testimonial) (content.Testimonial, error) {
	return collectOne[content.Testimonial](ctx, p, "save testimonial",
		`INSERT INTO testimonials (id, client_name, client_role, company, content, rating, is_featured, is_active, display_order)
		 VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
		   client_name = EXCLUDED.client_name, client_role = EXCLUDED.client_role, company = EXCLUDED.company,
		   content = EXCLUDED.content, rating = EXCLUDED.rating, is_featured = EXCLUDED.is_featured,
		   is_active = EXCLUDED.is_active, display_order = EXCLUDED.display_order
		 RETURNING `+testimonialColumns,
		t.ID, t.ClientName, t.ClientRole, t.Company, t.Content, t.Rating, t.Featured, t.Active, t.DisplayOrder)
}

func (p *PostgresClient) DeleteTestimonial(ctx context.Context, id string) error {
	return p.deleteRow(ctx, "delete testimonial", `DELETE FROM testimonials WHERE id = $1::uuid`, id)
}

func (p *PostgresClient) SaveJob(ctx context.Context, j content.JobListing) (content.JobListing, error) {
	if j.Requirements == nil {
		j.Requirements = []string{}
	}
	return collectOne[content.JobListing](ctx, p, "save job",
		`INSERT INTO job_listings (id, title, department, location, employment_type, experience, description, requirements, is_active)
		 VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
		   title = EXCLUDED.title, department = EXCLUDED.department, location = EXCLUDED.location,
		   employment_type = EXCLUDED.employment_type, experience = EXCLUDED.experience,
		   description = EXCLUDED.description, requirements = EXCLUDED.requirements, is_active = EXCLUDED.is_active
		 RETURNING `+jobColumns,
		j.ID, j.Title, j.Department, j.Location, j.EmploymentType, j.Experience, j.Description, j.Requirements, j.Active)
}

func (p *PostgresClient) DeleteJob(ctx context.Context, id string) error {
	return p.deleteRow(ctx, "delete job", `DELETE FROM job_listings WHERE id = $1::uuid`, id)
}

func (p *PostgresClient) CreateContactSubmission(ctx context.Context, s content.ContactSubmission) (content.ContactSubmission, error) {
	return collectOne[content.ContactSubmission](ctx, p, "create contact submission",
		`INSERT INTO contact_submissions (name, email, phone, company, service, message, consultation_requested)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+contactColumns,
		s.Name, s.Email, s.Phone, s.Company, s.Service, s.Message, s.ConsultationRequested)
}

func (p *PostgresClient) ListContactSubmissions(ctx context.Context, limit int) ([]content.ContactSubmission, error) {
	return collect[content.ContactSubmission](ctx, p, "list contact submissions",
		`SELECT `+contactColumns+` FROM contact_submissions ORDER BY created_at DESC LIMIT $1`, limitOrAll(limit))
}

func (p *PostgresClient) AppendActivity(ctx context.Context, e content.ActivityEntry) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO admin_activity_log (action, resource, detail) VALUES ($1, $2, $3)`,
		e.Action, e.Resource, e.Detail)
	return mapError("append activity", err)
}

func (p *PostgresClient) ListActivity(ctx context.Context, limit int) ([]content.ActivityEntry, error) {
	return collect[content.ActivityEntry](ctx, p, "list activity",
		`SELECT `+activityColumns+` FROM admin_activity_log ORDER BY created_at DESC LIMIT $1`, limitOrAll(limit))
}

// limitOrAll maps a non-positive limit to NULL, which LIMIT treats as no limit.
func limitOrAll(limit int) *int {
	if limit <= 0 {
		return nil
	}
	return &limit
}

const payloadSep = "|"

// Publish sends a NOTIFY tagged with this instance's id.
func (p *PostgresClient) Publish(ctx context.Context, resourceKey string) error {
	_, err := p.pool.Exec(ctx, `SELECT pg_notify($1, $2)`, p.channel, p.instanceID+payloadSep+resourceKey)
	return mapError("publish invalidation", err)
}

// Listen holds one pooled connection on LISTEN and calls onSignal for every
// notification sent by another instance. It returns when ctx is cancelled or the
// connection fails; callers decide whether to reconnect.
func (p *PostgresClient) Listen(ctx context.Context, onSignal func(string)) error {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return mapError("acquire listen connection", err)
	}
	defer func() {
		cleanup, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, _ = conn.Exec(cleanup, "UNLISTEN *")
		conn.Release()
	}()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{p.channel}.Sanitize()); err != nil {
		return mapError("listen", err)
	}

	log := logger.WithComponent("pg-relay")
	log.Infof("listening for invalidations on channel %q", p.channel)
	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return mapError("wait for notification", err)
		}
		sender, key, ok := strings.Cut(n.Payload, payloadSep)
		if !ok || key == "" {
			log.Warnf("ignoring malformed notification payload %q", n.Payload)
			continue
		}
		if sender == p.instanceID {
			continue
		}
		log.WithField("resource", key).Debug("invalidation from another instance")
		onSignal(key)
	}
}
