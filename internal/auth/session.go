// Package auth gates the admin API behind a shared password and short-lived
// bearer sessions.
package auth

import (
	"crypto/subtle"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"

	"github.com/vijayapps/vac_site/internal/logger"
)

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrAdminDisabled   = errors.New("admin access is not configured")
)

type Session struct {
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Sessions issues and checks admin tokens. Tokens slide: every successful
// Validate extends the expiry by the configured TTL.
type Sessions struct {
	password []byte
	ttl      time.Duration
	cache    *ttlcache.Cache[string, Session]
	running  atomic.Bool
}

func NewSessions(password string, ttl time.Duration) *Sessions {
	return &Sessions{
		password: []byte(password),
		ttl:      ttl,
		cache:    ttlcache.New(ttlcache.WithTTL[string, Session](ttl)),
	}
}

// Start runs the expiry loop until Stop is called. Expired tokens are rejected
// even without it; the loop only reclaims memory.
func (s *Sessions) Start() {
	if s.running.CompareAndSwap(false, true) {
		go s.cache.Start()
	}
}

// Stop ends the expiry loop. It is a no-op when the loop is not running.
func (s *Sessions) Stop() {
	if s.running.CompareAndSwap(true, false) {
		s.cache.Stop()
	}
}

// Login exchanges the admin password for a new session.
func (s *Sessions) Login(password string) (Session, error) {
	if len(s.password) == 0 {
		return Session{}, ErrAdminDisabled
	}
	if subtle.ConstantTimeCompare(s.password, []byte(password)) != 1 {
		logger.WithComponent("auth").Warn("rejected admin login")
		return Session{}, ErrInvalidPassword
	}
	now := time.Now().UTC()
	sess := Session{Token: uuid.NewString(), CreatedAt: now, ExpiresAt: now.Add(s.ttl)}
	s.cache.Set(sess.Token, sess, ttlcache.DefaultTTL)
	logger.WithComponent("auth").Info("admin session opened")
	return sess, nil
}

// Validate reports whether token belongs to a live session.
func (s *Sessions) Validate(token string) (Session, bool) {
	if token == "" {
		return Session{}, false
	}
	item := s.cache.Get(token)
	if item == nil {
		return Session{}, false
	}
	sess := item.Value()
	sess.ExpiresAt = item.ExpiresAt()
	return sess, true
}

// Logout ends the session; unknown tokens are ignored.
func (s *Sessions) Logout(token string) {
	s.cache.Delete(token)
}

// Active returns the number of live sessions.
func (s *Sessions) Active() int {
	return s.cache.Len()
}
