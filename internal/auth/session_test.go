package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessions_LoginValidateLogout(t *testing.T) {
	s := NewSessions("hunter2", time.Hour)

	sess, err := s.Login("hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.True(t, sess.ExpiresAt.After(sess.CreatedAt))

	got, ok := s.Validate(sess.Token)
	require.True(t, ok)
	assert.Equal(t, sess.Token, got.Token)
	assert.Equal(t, 1, s.Active())

	s.Logout(sess.Token)
	s.Logout(sess.Token)
	_, ok = s.Validate(sess.Token)
	assert.False(t, ok)
}

func TestSessions_WrongPassword(t *testing.T) {
	s := NewSessions("hunter2", time.Hour)
	_, err := s.Login("hunter3")
	assert.ErrorIs(t, err, ErrInvalidPassword)
	assert.Equal(t, 0, s.Active())
}

func TestSessions_DisabledWithoutPassword(t *testing.T) {
	s := NewSessions("", time.Hour)
	_, err := s.Login("")
	assert.ErrorIs(t, err, ErrAdminDisabled)
}

func TestSessions_Expiry(t *testing.T) {
	s := NewSessions("pw", 30*time.Millisecond)
	sess, err := s.Login("pw")
	require.NoError(t, err)

	// Validate slides the expiry, so do not poll.
	time.Sleep(80 * time.Millisecond)
	_, ok := s.Validate(sess.Token)
	assert.False(t, ok)
}

func TestSessions_UnknownToken(t *testing.T) {
	s := NewSessions("pw", time.Hour)
	_, ok := s.Validate("")
	assert.False(t, ok)
	_, ok = s.Validate("nope")
	assert.False(t, ok)
}

func TestSessions_StartStop(t *testing.T) {
	s := NewSessions("pw", time.Hour)
	s.Start()
	_, err := s.Login("pw")
	require.NoError(t, err)
	s.Stop()
}

func TestSessions_StopWithoutStart(t *testing.T) {
	s := NewSessions("pw", time.Hour)
	done := make(chan struct{})
	go func() {
		s.Stop()
		s.Start()
		s.Stop()
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked")
	}
}
