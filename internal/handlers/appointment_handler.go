package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/dentist-platform/internal/middleware"
	"github.com/harentsoaR/dentist-platform/internal/models"
	"github.com/harentsoaR/dentist-platform/internal/services"
)

type bookRequest struct {
	DentistID       uint    `json:"dentist_id"`
	AppointmentDate string  `json:"appointment_date"`
	AppointmentTime string  `json:"appointment_time"`
	SlotID          *uint   `json:"slot_id"`
	Notes           *string `json:"notes"`
}

type rescheduleRequest struct {
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
}

// --- PATIENT ---

func (h *Handler) BookAppointment(c *gin.Context) {
	var req bookRequest
	if !h.bindJSON(c, &req) {
		return
	}

	apt, err := h.Services.Appointments.Book(c.Request.Context(), middleware.CurrentIdentity(c), services.BookInput{
		DentistID: req.DentistID,
		Date:      req.AppointmentDate,
		Time:      req.AppointmentTime,
		SlotID:    req.SlotID,
		Notes:     req.Notes,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Appointment booked successfully", "appointmentId": apt.ID})
}

func (h *Handler) ListMyAppointments(c *gin.Context) {
	appointments, err := h.Services.Appointments.ListMine(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appointments)
}

func (h *Handler) GetMyAppointment(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	apt, err := h.Services.Appointments.Get(c.Request.Context(), middleware.CurrentIdentity(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apt)
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Services.Appointments.Cancel(c.Request.Context(), middleware.CurrentIdentity(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment cancelled successfully"})
}

func (h *Handler) RescheduleAppointment(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	var req rescheduleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	err := h.Services.Appointments.Reschedule(c.Request.Context(), middleware.CurrentIdentity(c), id, req.AppointmentDate, req.AppointmentTime)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment rescheduled successfully"})
}

// --- DENTIST ---

func (h *Handler) ListDentistAppointments(c *gin.Context) {
	appointments, err := h.Services.Appointments.ListForDentist(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appointments)
}

func (h *Handler) UpdateAppointmentStatus(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	status := models.AppointmentStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if err := h.Services.Appointments.UpdateStatus(c.Request.Context(), middleware.CurrentIdentity(c), id, status); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Appointment marked as %s", status)})
}
