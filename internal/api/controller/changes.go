package controller

import (
	"context"

	"github.com/vijayapps/vac_site/internal/content"
	"github.com/vijayapps/vac_site/internal/logger"
)

// ActivityAppender stores admin audit entries.
type ActivityAppender interface {
	AppendActivity(ctx context.Context, e content.ActivityEntry) error
}

// ChangePublisher refreshes cached keys locally and announces them to other instances.
type ChangePublisher interface {
	PublishChange(ctx context.Context, keys ...string)
}

// ChangeRecorder runs the follow-up of every successful admin write.
// The write has already committed, so follow-up failures are only logged.
type ChangeRecorder struct {
	Activity  ActivityAppender
	Publisher ChangePublisher
}

// Record appends an activity entry and republishes keys. A nil recorder does nothing.
func (r *ChangeRecorder) Record(ctx context.Context, action, resource, detail string, keys ...string) {
	if r == nil {
		return
	}
	if r.Activity != nil {
		entry := content.ActivityEntry{Action: action, Resource: resource, Detail: detail}
		if err := r.Activity.AppendActivity(ctx, entry); err != nil {
			logger.WithComponent("admin").WithError(err).Warnf("activity log append failed for %s %s", action, resource)
		}
	}
	if r.Publisher != nil && len(keys) > 0 {
		r.Publisher.PublishChange(ctx, keys...)
	}
}
