package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/dentist-platform/internal/middleware"
)

type slotRequest struct {
	SlotDate string `json:"slot_date"`
	SlotTime string `json:"slot_time"`
}

// --- TIME SLOTS ---

// ListDentistSlots returns the open future slots patients can pick from.
func (h *Handler) ListDentistSlots(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	slots, err := h.Services.Slots.ListAvailable(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

// ListMySlots returns the caller's future slots with the patient holding each one.
func (h *Handler) ListMySlots(c *gin.Context) {
	slots, err := h.Services.Slots.ListMine(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

func (h *Handler) AddSlot(c *gin.Context) {
	var req slotRequest
	if !h.bindJSON(c, &req) {
		return
	}

	slot, err := h.Services.Slots.Add(c.Request.Context(), middleware.CurrentIdentity(c), req.SlotDate, req.SlotTime)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Slot added successfully", "id": slot.ID})
}

func (h *Handler) DeleteSlot(c *gin.Context) {
	slotID, ok := h.idParam(c, "slotId")
	if !ok {
		return
	}
	if err := h.Services.Slots.Delete(c.Request.Context(), middleware.CurrentIdentity(c), slotID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Slot deleted successfully"})
}
