package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijayapps/vac_site/internal/remote"
)

func contactRouter(client *remote.MemoryClient) *gin.Engine {
	r := gin.New()
	r.POST("/contact", NewContactController(client).Submit)
	return r
}

func TestContactController_Submit(t *testing.T) {
	client := remote.NewMemoryClient()
	r := contactRouter(client)

	w := doRequest(r, http.MethodPost, "/contact", map[string]any{
		"id":                     "client-chosen",
		"name":                   "Dana Smith",
		"email":                  "dana@example.com",
		"message":                "We are planning an R12.2 upgrade.",
		"consultation_requested": true,
	}, "")

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode[map[string]any](t, w)
	assert.NotEmpty(t, resp["id"])
	assert.NotEqual(t, "client-chosen", resp["id"])
	assert.NotEmpty(t, resp["created_at"])

	stored, err := client.ListContactSubmissions(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].ConsultationRequested)
}

func TestContactController_SubmitInvalid(t *testing.T) {
	client := remote.NewMemoryClient()
	r := contactRouter(client)

	tests := []struct {
		name string
		body any
	}{
		{"malformed json", "{"},
		{"missing message", map[string]any{"name": "Dana", "email": "dana@example.com"}},
		{"bad email", map[string]any{"name": "Dana", "email": "not-an-email", "message": "hi"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodPost, "/contact", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	assert.Equal(t, 0, client.Calls("CreateContactSubmission"))
}

func TestContactController_BackendErrors(t *testing.T) {
	valid := map[string]any{"name": "Dana", "email": "dana@example.com", "message": "hi"}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"outage", errors.New("connection reset"), http.StatusBadGateway},
		{"row level security", fmt.Errorf("insert contact: %w", remote.ErrPermissionDenied), http.StatusForbidden},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := remote.NewMemoryClient()
			client.SetFailure(tt.err)
			w := doRequest(contactRouter(client), http.MethodPost, "/contact", valid, "")
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
