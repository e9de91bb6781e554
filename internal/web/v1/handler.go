package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/duynhne/form-service/internal/core/domain"
	logicv1 "github.com/duynhne/form-service/internal/logic/v1"
	"github.com/duynhne/form-service/middleware"
)

// Response messages
const (
	msgFieldsRequired = "All fields are required"
	msgInvalidBody    = "Invalid request body"
	msgSubmitted      = "Form submitted successfully"
	msgUpdated        = "Form updated successfully"
	msgDeleted        = "Deleted successfully"
	msgNotFound       = "Form not found"
	msgServerError    = "Server error"
	msgFetchFailed    = "Error fetching forms"
	msgDeleteFailed   = "Error deleting form"
)

// FormHandler handles HTTP requests for form operations
type FormHandler struct {
	service      *logicv1.FormService
	exposeErrors bool
}

// NewFormHandler creates a new form handler.
// exposeErrors puts raw store errors into 500 responses (development only).
func NewFormHandler(service *logicv1.FormService, exposeErrors bool) *FormHandler {
	return &FormHandler{
		service:      service,
		exposeErrors: exposeErrors,
	}
}

// RegisterRoutes mounts the form API on r
func (h *FormHandler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/submit-form", h.CreateForm)
	r.GET("/forms", h.ListForms)
	r.PUT("/forms/:id", h.UpdateForm)
	r.DELETE("/forms/:id", h.DeleteForm)
}

func startRequestSpan(c *gin.Context) (context.Context, trace.Span, *zap.Logger) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.FullPath()),
	))
	return ctx, span, middleware.GetLoggerFromGinContext(c)
}

// CreateForm handles POST /submit-form
func (h *FormHandler) CreateForm(c *gin.Context) {
	ctx, span, logger := startRequestSpan(c)
	defer span.End()

	in, err := bindFormInput(c)
	if err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		logger.Warn("Invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidBody})
		return
	}

	form, err := h.service.CreateForm(ctx, in)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			span.SetAttributes(attribute.Bool("request.valid", false))
			logger.Warn("Rejected form submission", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"message": msgFieldsRequired})
			return
		}
		span.RecordError(err)
		logger.Error("Error saving form data", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgServerError})
		return
	}

	logger.Info("Form submitted", zap.String("form_id", form.ID))
	c.JSON(http.StatusCreated, gin.H{"message": msgSubmitted})
}

// ListForms handles GET /forms
func (h *FormHandler) ListForms(c *gin.Context) {
	ctx, span, logger := startRequestSpan(c)
	defer span.End()

	forms, err := h.service.ListForms(ctx)
	if err != nil {
		span.RecordError(err)
		logger.Error("Error fetching forms", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgFetchFailed, "error": h.errorDetail(err)})
		return
	}

	logger.Debug("Forms listed", zap.Int("count", len(forms)))
	c.JSON(http.StatusOK, forms)
}

// UpdateForm handles PUT /forms/:id
func (h *FormHandler) UpdateForm(c *gin.Context) {
	ctx, span, logger := startRequestSpan(c)
	defer span.End()

	id := c.Param("id")
	span.SetAttributes(attribute.String("form.id", id))

	in, err := bindFormInput(c)
	if err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		logger.Warn("Invalid request body", zap.String("form_id", id), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidBody})
		return
	}

	form, err := h.service.UpdateForm(ctx, id, in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			logger.Warn("Rejected form update", zap.String("form_id", id), zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"message": msgFieldsRequired})
		case errors.Is(err, domain.ErrFormNotFound):
			logger.Info("Form not found", zap.String("form_id", id))
			c.JSON(http.StatusNotFound, gin.H{"message": msgNotFound})
		default:
			span.RecordError(err)
			logger.Error("Error updating form data", zap.String("form_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": msgServerError, "error": h.errorDetail(err)})
		}
		return
	}

	logger.Info("Form updated", zap.String("form_id", id))
	c.JSON(http.StatusOK, gin.H{"message": msgUpdated, "form": form})
}

// DeleteForm handles DELETE /forms/:id
func (h *FormHandler) DeleteForm(c *gin.Context) {
	ctx, span, logger := startRequestSpan(c)
	defer span.End()

	id := c.Param("id")
	span.SetAttributes(attribute.String("form.id", id))
	logger.Info("Deleting form", zap.String("form_id", id))

	if err := h.service.DeleteForm(ctx, id); err != nil {
		if errors.Is(err, domain.ErrFormNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": msgNotFound})
			return
		}
		span.RecordError(err)
		logger.Error("Error deleting form", zap.String("form_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgDeleteFailed, "error": h.errorDetail(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msgDeleted})
}
