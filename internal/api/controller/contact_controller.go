package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/vijayapps/vac_site/internal/content"
	"github.com/vijayapps/vac_site/internal/logger"
	"github.com/vijayapps/vac_site/internal/remote"
)

// ContactController accepts messages from the contact page.
type ContactController struct {
	writer    remote.Writer
	validator *validator.Validate
}

func NewContactController(writer remote.Writer) *ContactController {
	return &ContactController{writer: writer, validator: validator.New()}
}

// Submit handles POST /api/contact.
func (cc *ContactController) Submit(c *gin.Context) {
	var s content.ContactSubmission
	if err := c.ShouldBindJSON(&s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	s.ID = ""
	if err := cc.validator.Struct(s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	saved, err := cc.writer.CreateContactSubmission(c.Request.Context(), s)
	if err != nil {
		writeBackendError(c, "contact-controller", "send message", err)
		return
	}
	logger.WithComponent("contact-controller").WithField("consultation", saved.ConsultationRequested).Info("contact submission stored")
	c.JSON(http.StatusCreated, gin.H{"id": saved.ID, "created_at": saved.CreatedAt})
}
