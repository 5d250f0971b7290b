package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/dentist-platform/internal/apperr"
	"github.com/harentsoaR/dentist-platform/internal/logger"
	"github.com/harentsoaR/dentist-platform/internal/services"
	"github.com/harentsoaR/dentist-platform/internal/uploads"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler groups the HTTP endpoints. Each method translates a request into a
// service call and the result into JSON.
type Handler struct {
	Services *services.Services
	Storage  uploads.Storage
	DB       Pinger
	Log      *logger.Logger
}

func NewHandler(svc *services.Services, storage uploads.Storage, db Pinger, log *logger.Logger) *Handler {
	return &Handler{
		Services: svc,
		Storage:  storage,
		DB:       db,
		Log:      log,
	}
}

// respondError writes err as {"message": ...}. Internal errors also carry the
// cause under "error" and are logged.
func (h *Handler) respondError(c *gin.Context, err error) {
	appErr := apperr.As(err)
	if appErr.Kind != apperr.KindInternal {
		c.JSON(appErr.Status(), gin.H{"message": appErr.Message})
		return
	}

	_ = c.Error(err)
	body := gin.H{"message": appErr.Message}
	if appErr.Cause != nil {
		body["error"] = appErr.Cause.Error()
	}
	h.Log.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
	c.JSON(http.StatusInternalServerError, body)
}

// bindJSON decodes an optional JSON body. An empty body leaves req untouched
// so that the service reports the missing fields.
func (h *Handler) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		h.respondError(c, apperr.BadRequest("Invalid request body"))
		return false
	}
	return true
}

func (h *Handler) idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		h.respondError(c, apperr.BadRequest("Invalid "+name))
		return 0, false
	}
	return uint(id), true
}

// formFile reads an optional upload field and applies the policy. A request
// that is not multipart, or has no such field, yields nil.
func formFile(c *gin.Context, field string, p uploads.Policy) (*uploads.File, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, apperr.BadRequest("Invalid multipart form")
	}
	return uploads.FromMultipart(fh, p)
}

// Health reports liveness and database reachability.
func (h *Handler) Health(c *gin.Context) {
	if err := h.DB.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ServeUpload streams a stored upload from the configured backend.
func (h *Handler) ServeUpload(c *gin.Context) {
	obj, err := h.Storage.Open(c.Request.Context(), c.Param("filepath"))
	if errors.Is(err, uploads.ErrNotStored) {
		c.JSON(http.StatusNotFound, gin.H{"message": "File not found"})
		return
	}
	if err != nil {
		h.respondError(c, apperr.Internal("Failed to read upload", err))
		return
	}
	defer obj.Body.Close()

	c.DataFromReader(http.StatusOK, obj.Size, obj.ContentType, obj.Body, map[string]string{
		"Cache-Control": "public, max-age=86400",
	})
}
