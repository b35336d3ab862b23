package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vijayapps/vac_site/internal/logger"
)

// CrudService is the backend surface of one admin-managed table.
type CrudService[T any] interface {
	All(ctx context.Context) ([]T, error)
	Save(ctx context.Context, item T) (T, error)
	Remove(ctx context.Context, id string) error
}

// CrudValidator defines the interface for validating a resource.
type CrudValidator[T any] interface {
	Validate(item T) error
}

// CrudController provides generic admin handlers for list-shaped resources.
// Every successful write is recorded and the cached keys it affects are refreshed.
type CrudController[T any] struct {
	Service   CrudService[T]
	Validator CrudValidator[T]
	Changes   *ChangeRecorder
	// Resource names the table in activity entries and logs.
	Resource string
	// Keys are the cached resource keys a write to this table invalidates.
	Keys []string
}

// RegisterCrudRoutes registers list, save and delete endpoints under /<path>.
func (cc *CrudController[T]) RegisterCrudRoutes(rg *gin.RouterGroup, path string) {
	rg.GET("/"+path, cc.GetAll)
	rg.POST("/"+path, cc.CreateOrUpdate)
	rg.DELETE("/"+path+"/:name", cc.Delete)
}

// GetAll lists every row, inactive ones included.
func (cc *CrudController[T]) GetAll(c *gin.Context) {
	items, err := cc.Service.All(c.Request.Context())
	if err != nil {
		writeBackendError(c, cc.component(), "read "+cc.Resource+" list", err)
		return
	}
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, items)
}

// CreateOrUpdate saves a row; a payload without id creates one.
func (cc *CrudController[T]) CreateOrUpdate(c *gin.Context) {
	var item T
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if cc.Validator != nil {
		if err := cc.Validator.Validate(item); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	ctx := c.Request.Context()
	saved, err := cc.Service.Save(ctx, item)
	if err != nil {
		writeBackendError(c, cc.component(), "save "+cc.Resource, err)
		return
	}
	cc.Changes.Record(ctx, "save", cc.Resource, "", cc.Keys...)
	c.JSON(http.StatusOK, saved)
}

// Delete removes a row by id. Ids are UUIDs; anything else is rejected before the backend sees it.
func (cc *CrudController[T]) Delete(c *gin.Context) {
	id := c.Param("name")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing resource id"})
		return
	}
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resource id"})
		return
	}
	ctx := c.Request.Context()
	if err := cc.Service.Remove(ctx, id); err != nil {
		writeBackendError(c, cc.component(), "delete "+cc.Resource, err)
		return
	}
	logger.WithComponent(cc.component()).Debugf("%s %s deleted", cc.Resource, id)
	cc.Changes.Record(ctx, "delete", cc.Resource, id, cc.Keys...)
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (cc *CrudController[T]) component() string {
	return cc.Resource + "-controller"
}
