package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vijayapps/vac_site/internal/loader"
	"github.com/vijayapps/vac_site/internal/logger"
	"github.com/vijayapps/vac_site/internal/remote"
)

// ProvenanceHeader tells clients which tier served a cached resource.
const ProvenanceHeader = "X-Content-Provenance"

func respondContent(c *gin.Context, value any, prov loader.Provenance) {
	c.Header(ProvenanceHeader, string(prov))
	c.JSON(http.StatusOK, value)
}

// writeBackendError maps a write-path failure to a status code. Write errors
// always reach the caller; nothing is retried here.
func writeBackendError(c *gin.Context, component, action string, err error) {
	log := logger.WithComponent(component).WithError(err)
	_ = c.Error(err)
	switch {
	case errors.Is(err, remote.ErrNotFound):
		log.Debugf("%s: not found", action)
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
	case errors.Is(err, remote.ErrPermissionDenied):
		log.Warnf("%s: permission denied", action)
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied by backend"})
	case errors.Is(err, context.DeadlineExceeded):
		log.Warnf("%s: timed out", action)
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "backend timeout"})
	default:
		log.Errorf("%s failed", action)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to " + action})
	}
}
