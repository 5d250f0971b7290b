package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/dentist-platform/internal/middleware"
	"github.com/harentsoaR/dentist-platform/internal/models"
)

// --- ADMIN ---

func (h *Handler) AdminStats(c *gin.Context) {
	stats, err := h.Services.Admin.Stats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) AdminListDentists(c *gin.Context) {
	dentists, err := h.Services.Dentists.AdminList(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dentists)
}

func (h *Handler) AdminGetDentist(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	dentist, err := h.Services.Dentists.AdminGet(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dentist)
}

func (h *Handler) AdminUpdateDentistStatus(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	status := models.DentistStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if err := h.Services.Dentists.AdminUpdateStatus(c.Request.Context(), middleware.CurrentIdentity(c), id, status); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Dentist status updated to %s", status)})
}

func (h *Handler) AdminUpdateDentist(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	in, photo, err := dentistInput(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.Services.Dentists.AdminUpdate(c.Request.Context(), middleware.CurrentIdentity(c), id, in, photo); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dentist profile updated successfully"})
}

func (h *Handler) AdminDeleteDentist(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Services.Dentists.AdminDelete(c.Request.Context(), middleware.CurrentIdentity(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dentist deleted successfully"})
}

func (h *Handler) AdminListUsers(c *gin.Context) {
	users, err := h.Services.Admin.ListUsers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) AdminDeleteUser(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Services.Admin.DeleteUser(c.Request.Context(), middleware.CurrentIdentity(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
