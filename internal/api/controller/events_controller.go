package controller

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vijayapps/vac_site/internal/broadcast"
	"github.com/vijayapps/vac_site/internal/consumer"
	"github.com/vijayapps/vac_site/internal/loader"
	"github.com/vijayapps/vac_site/internal/logger"
	"github.com/vijayapps/vac_site/internal/site"
)

const defaultHeartbeat = 25 * time.Second

// Snapshot is one server-sent update of a watched resource.
type Snapshot struct {
	Key        string            `json:"key"`
	Provenance loader.Provenance `json:"provenance"`
	Value      any               `json:"value"`
}

// EventsController streams invalidations to browsers over SSE.
type EventsController struct {
	catalog   *site.Catalog
	bus       *broadcast.Bus
	heartbeat time.Duration
}

func NewEventsController(catalog *site.Catalog, bus *broadcast.Bus, heartbeat time.Duration) *EventsController {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return &EventsController{catalog: catalog, bus: bus, heartbeat: heartbeat}
}

// Stream handles GET /api/site/events.
//
// Without parameters it sends an "invalidate" event carrying the key of every
// changed resource. With ?resource=<key> it mounts a view on that resource and
// sends a "snapshot" event with the freshly loaded value after each change,
// starting with the initial load.
func (ec *EventsController) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	key := c.Query("resource")

	var (
		updates <-chan Snapshot
		keys    <-chan string
	)
	if key != "" {
		ch := make(chan Snapshot, 1)
		closeView, err := ec.mount(ctx, key, ch)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown resource"})
			return
		}
		defer closeView()
		updates = ch
	} else {
		k, stop := ec.bus.Watch(broadcast.AllResources)
		defer stop()
		keys = k
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	log := logger.WithComponent("events")
	log.WithField("resource", key).Debug("event stream opened")
	defer log.WithField("resource", key).Debug("event stream closed")

	heartbeat := time.NewTicker(ec.heartbeat)
	defer heartbeat.Stop()

	c.Status(http.StatusOK)
	c.Writer.Flush()
	c.Stream(func(io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case k, ok := <-keys:
			if !ok {
				return false
			}
			c.SSEvent("invalidate", k)
		case s := <-updates:
			c.SSEvent("snapshot", s)
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().Unix())
		}
		return true
	})
}

// mount binds a view to the loader owning key and forwards its updates to out.
func (ec *EventsController) mount(ctx context.Context, key string, out chan Snapshot) (func(), error) {
	res, err := site.ParseKey(key)
	if err != nil {
		return nil, err
	}
	switch res.Kind {
	case site.KeySettings:
		return mountView(ctx, ec.catalog.Settings(), ec.bus, out), nil
	case site.KeyFeatureFlags:
		return mountView(ctx, ec.catalog.FeatureFlags(), ec.bus, out), nil
	case site.KeyTestimonials:
		return mountView(ctx, ec.catalog.Testimonials(), ec.bus, out), nil
	case site.KeyJobs:
		return mountView(ctx, ec.catalog.Jobs(), ec.bus, out), nil
	case site.KeyFooter:
		if res.Name == "" {
			return mountView(ctx, ec.catalog.Footer(), ec.bus, out), nil
		}
		l, err := ec.catalog.FooterSection(res.Name)
		if err != nil {
			return nil, err
		}
		return mountView(ctx, l, ec.bus, out), nil
	default:
		l, err := ec.catalog.Banner(res.Name)
		if err != nil {
			return nil, err
		}
		return mountView(ctx, l, ec.bus, out), nil
	}
}

// mountView keeps only the newest snapshot when the client reads slower than changes arrive.
func mountView[T any](ctx context.Context, src consumer.Source[T], bus broadcast.Subscriber, out chan Snapshot) func() {
	v := consumer.NewView[T](src, bus)
	v.OnChange(func(value T, prov loader.Provenance) {
		s := Snapshot{Key: src.Key(), Provenance: prov, Value: value}
		for {
			select {
			case out <- s:
				return
			case <-ctx.Done():
				return
			default:
			}
			select {
			case <-out:
			default:
			}
		}
	})
	v.Mount(ctx)
	return v.Close
}
