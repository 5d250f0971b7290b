package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/harentsoaR/dentist-platform/internal/apperr"
	"github.com/harentsoaR/dentist-platform/internal/middleware"
	"github.com/harentsoaR/dentist-platform/internal/models"
	"github.com/harentsoaR/dentist-platform/internal/services"
	"github.com/harentsoaR/dentist-platform/internal/uploads"
)

// dentistRequest accepts either a multipart form (with profile_photo) or a
// JSON body. services_offered may be an array or a JSON-encoded string.
type dentistRequest struct {
	Qualification   string          `json:"qualification" form:"qualification"`
	Experience      *int            `json:"experience" form:"experience"`
	ClinicName      string          `json:"clinic_name" form:"clinic_name"`
	ClinicAddress   string          `json:"clinic_address" form:"clinic_address"`
	Fees            *float64        `json:"fees" form:"fees"`
	Specialization  string          `json:"specialization" form:"specialization"`
	Latitude        *float64        `json:"latitude" form:"latitude"`
	Longitude       *float64        `json:"longitude" form:"longitude"`
	ServicesOffered json.RawMessage `json:"services_offered" form:"-"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// dentistInput decodes the profile fields and the optional photo.
func dentistInput(c *gin.Context) (services.DentistInput, *uploads.File, error) {
	var req dentistRequest
	multipartBody := c.ContentType() == binding.MIMEMultipartPOSTForm

	if multipartBody {
		if err := c.ShouldBindWith(&req, binding.FormMultipart); err != nil {
			return services.DentistInput{}, nil, apperr.BadRequest("Invalid request body")
		}
		req.ServicesOffered = json.RawMessage(c.PostForm("services_offered"))
	} else if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		return services.DentistInput{}, nil, apperr.BadRequest("Invalid request body")
	}

	offered, err := parseServices(req.ServicesOffered)
	if err != nil {
		return services.DentistInput{}, nil, err
	}

	var photo *uploads.File
	if multipartBody {
		if photo, err = formFile(c, "profile_photo", uploads.ImagePolicy); err != nil {
			return services.DentistInput{}, nil, err
		}
	}

	return services.DentistInput{
		Qualification:   req.Qualification,
		Experience:      req.Experience,
		ClinicName:      req.ClinicName,
		ClinicAddress:   req.ClinicAddress,
		Fees:            req.Fees,
		Specialization:  req.Specialization,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		ServicesOffered: offered,
	}, photo, nil
}

func parseServices(raw json.RawMessage) ([]models.ServiceItem, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, apperr.BadRequest("Invalid services_offered format")
		}
		if strings.TrimSpace(encoded) == "" {
			return nil, nil
		}
		raw = json.RawMessage(encoded)
	}

	var items []models.ServiceItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, apperr.BadRequest("Invalid services_offered format")
	}
	return items, nil
}

// --- PUBLIC DIRECTORY ---

func (h *Handler) ListDentists(c *gin.Context) {
	dentists, err := h.Services.Dentists.ListApproved(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dentists)
}

func (h *Handler) GetDentist(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	dentist, err := h.Services.Dentists.GetApproved(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dentist)
}

// --- OWN PROFILE ---

func (h *Handler) GetMyDentistProfile(c *gin.Context) {
	dentist, err := h.Services.Dentists.GetOwn(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dentist)
}

func (h *Handler) CreateDentistProfile(c *gin.Context) {
	in, photo, err := dentistInput(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	dentist, err := h.Services.Dentists.Create(c.Request.Context(), middleware.CurrentIdentity(c), in, photo)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":   "Profile submitted! Awaiting admin approval.",
		"dentistId": dentist.ID,
	})
}

func (h *Handler) UpdateDentistProfile(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	in, photo, err := dentistInput(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.Services.Dentists.Update(c.Request.Context(), middleware.CurrentIdentity(c), id, in, photo); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

func (h *Handler) DeleteDentistProfile(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Services.Dentists.Delete(c.Request.Context(), middleware.CurrentIdentity(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile deleted successfully"})
}
