package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/harentsoaR/dentist-platform/internal/apperr"
	"github.com/harentsoaR/dentist-platform/internal/models"
	"github.com/harentsoaR/dentist-platform/internal/store"
)

type SlotService struct {
	deps Deps
	log  *logrus.Entry
}

// ListAvailable returns a dentist's open slots from today on.
func (s *SlotService) ListAvailable(ctx context.Context, dentistID uint) ([]models.TimeSlot, error) {
	slots, err := s.deps.Repo.ListSlots(ctx, dentistID, today(s.deps.Now), true)
	if err != nil {
		return nil, internal(err)
	}
	return slots, nil
}

// ListMine returns the caller's future slots, booked ones included, with the
// active booking and its patient attached.
func (s *SlotService) ListMine(ctx context.Context, id models.Identity) ([]models.SlotView, error) {
	d, err := ownProfile(ctx, s.deps.Repo, id)
	if err != nil {
		return nil, err
	}
	views, err := s.deps.Repo.ListSlotViews(ctx, d.ID, today(s.deps.Now))
	if err != nil {
		return nil, internal(err)
	}
	return views, nil
}

func (s *SlotService) Add(ctx context.Context, id models.Identity, date, clock string) (*models.TimeSlot, error) {
	if date == "" || clock == "" {
		return nil, apperr.BadRequest("slot_date and slot_time are required")
	}
	date, clock, ok := normalizeSchedule(date, clock)
	if !ok {
		return nil, apperr.BadRequest("slot_date must be YYYY-MM-DD and slot_time HH:MM")
	}

	d, err := ownProfile(ctx, s.deps.Repo, id)
	if err != nil {
		return nil, err
	}
	if date < today(s.deps.Now) {
		return nil, apperr.BadRequest("Cannot add slots in the past")
	}

	exists, err := s.deps.Repo.SlotExists(ctx, d.ID, date, clock)
	if err != nil {
		return nil, internal(err)
	}
	if exists {
		return nil, apperr.Conflict("This slot already exists")
	}

	// The unique index still catches a concurrent insert of the same slot.
	slot := &models.TimeSlot{DentistID: d.ID, SlotDate: date, SlotTime: clock, IsAvailable: true}
	if err := s.deps.Repo.CreateSlot(ctx, slot); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Conflict("This slot already exists")
		}
		return nil, internal(err)
	}
	return slot, nil
}

// Delete removes one of the caller's slots while it is still unbooked.
func (s *SlotService) Delete(ctx context.Context, id models.Identity, slotID uint) error {
	d, err := ownProfile(ctx, s.deps.Repo, id)
	if err != nil {
		return err
	}

	slot, err := s.deps.Repo.SlotForDentist(ctx, slotID, d.ID)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("Slot not found")
	}
	if err != nil {
		return internal(err)
	}
	if !slot.IsAvailable {
		return apperr.BadRequest("Cannot delete a booked slot")
	}

	if err := s.deps.Repo.DeleteSlot(ctx, slot.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return internal(err)
	}
	return nil
}

// ownProfile resolves the caller to their dentist profile.
func ownProfile(ctx context.Context, repo store.DentistRepository, id models.Identity) (*models.Dentist, error) {
	d, err := repo.DentistByUserID(ctx, id.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("Dentist profile not found")
	}
	if err != nil {
		return nil, internal(err)
	}
	return d, nil
}
