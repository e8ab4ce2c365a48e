package api

import (
	"errors"
	"net/http"

	"github.com/gilby125/pelicans-place/contact"
	"github.com/gilby125/pelicans-place/pkg/logger"
	"github.com/gilby125/pelicans-place/pkg/middleware"
	"github.com/gilby125/pelicans-place/queue"
	"github.com/gin-gonic/gin"
)

const (
	contactSuccessMessage = "Thank you for your message! We typically reply within 24 hours."
	contactErrorMessage   = "Something went wrong sending your message. Please try again shortly."
)

// contactConfig handles GET /api/v1/contact/config
func contactConfig(v *contact.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		fields := make([]gin.H, 0, len(contact.FieldOrder))
		for _, f := range contact.FieldOrder {
			fields = append(fields, gin.H{"name": f, "required": v.IsRequired(f)})
		}
		c.JSON(http.StatusOK, gin.H{
			"fields":           fields,
			"maxMessageLength": v.MaxMessageLength(),
		})
	}
}

// FieldCheckRequest is the body of POST /api/v1/contact/validate.
type FieldCheckRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// validateContactField handles POST /api/v1/contact/validate
func validateContactField(v *contact.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req FieldCheckRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}
		field, ok := contact.ParseField(req.Field)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown field: " + req.Field})
			return
		}
		msg := v.ValidateField(field, req.Value)
		c.JSON(http.StatusOK, gin.H{"field": field, "valid": msg == "", "error": msg})
	}
}

// submitContact handles POST /api/v1/contact
func submitContact(v *contact.Validator, s contact.Submitter) gin.HandlerFunc {
	return func(c *gin.Context) {
		var data contact.FormData
		if err := c.ShouldBindJSON(&data); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}

		form := contact.NewForm(v)
		for _, f := range contact.FieldOrder {
			form.Change(f, data.Get(f))
		}

		ctx := queue.WithEnqueueMeta(c.Request.Context(), queue.EnqueueMeta{
			RequestID: middleware.GetRequestID(c),
			RemoteIP:  c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
		sub, err := form.Submit(ctx, s)

		var invalid *contact.InvalidFormError
		switch {
		case errors.As(err, &invalid):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":  "Please correct the highlighted fields",
				"errors": invalid.Errors,
				"status": form.Status(),
			})
		case err != nil:
			logger.WithContext(ctx).Error(err, "Contact submission failed")
			c.JSON(http.StatusBadGateway, gin.H{
				"error":  contactErrorMessage,
				"status": form.Status(),
			})
		default:
			logger.WithContext(ctx).WithFields(map[string]interface{}{
				"submission_id": sub.ID,
				"subject":       sub.Subject,
			}).Info("Contact form submitted")
			c.JSON(http.StatusAccepted, gin.H{
				"id":        sub.ID,
				"status":    form.Status(),
				"message":   contactSuccessMessage,
				"timestamp": sub.Timestamp,
			})
		}
	}
}
