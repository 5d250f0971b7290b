package store

import (
	"context"

	"github.com/harentsoaR/dentist-platform/internal/models"
)

const slotViewQuery = `SELECT s.id, s.slot_date, s.slot_time, s.is_available,
	a.id AS appointment_id, a.status AS appointment_status, a.notes,
	u.name AS patient_name, u.email AS patient_email, u.phone AS patient_phone
FROM time_slots s
LEFT JOIN appointments a
	ON a.dentist_id = s.dentist_id
	AND a.appointment_date = s.slot_date
	AND a.appointment_time = s.slot_time
	AND a.status <> 'CANCELLED'
LEFT JOIN users u ON u.id = a.patient_id
WHERE s.dentist_id = ? AND s.slot_date >= ?
ORDER BY s.slot_date ASC, s.slot_time ASC`

func (s *GormStore) ListSlots(ctx context.Context, dentistID uint, fromDate string, onlyAvailable bool) ([]models.TimeSlot, error) {
	q := s.db.WithContext(ctx).Where("dentist_id = ? AND slot_date >= ?", dentistID, fromDate)
	if onlyAvailable {
		q = q.Where("is_available = ?", true)
	}
	var slots []models.TimeSlot
	err := q.Order("slot_date ASC, slot_time ASC").Find(&slots).Error
	return slots, translate(err)
}

func (s *GormStore) ListSlotViews(ctx context.Context, dentistID uint, fromDate string) ([]models.SlotView, error) {
	var views []models.SlotView
	err := s.db.WithContext(ctx).Raw(slotViewQuery, dentistID, fromDate).Scan(&views).Error
	return views, translate(err)
}

func (s *GormStore) SlotExists(ctx context.Context, dentistID uint, date, time string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.TimeSlot{}).
		Where("dentist_id = ? AND slot_date = ? AND slot_time = ?", dentistID, date, time).
		Count(&n).Error
	return n > 0, translate(err)
}

func (s *GormStore) CreateSlot(ctx context.Context, slot *models.TimeSlot) error {
	return translate(s.db.WithContext(ctx).Create(slot).Error)
}

func (s *GormStore) SlotForDentist(ctx context.Context, slotID, dentistID uint) (*models.TimeSlot, error) {
	var slot models.TimeSlot
	err := s.db.WithContext(ctx).Where("id = ? AND dentist_id = ?", slotID, dentistID).Take(&slot).Error
	if err != nil {
		return nil, translate(err)
	}
	return &slot, nil
}

func (s *GormStore) DeleteSlot(ctx context.Context, id uint) error {
	return affected(s.db.WithContext(ctx).Delete(&models.TimeSlot{}, id))
}

// MarkSlotBooked is a no-op when the slot belongs to another dentist or to
// another date and time.
func (s *GormStore) MarkSlotBooked(ctx context.Context, slotID, dentistID uint, date, time string) error {
	return translate(s.db.WithContext(ctx).Model(&models.TimeSlot{}).
		Where("id = ? AND dentist_id = ? AND slot_date = ? AND slot_time = ?", slotID, dentistID, date, time).
		Update("is_available", false).Error)
}

func (s *GormStore) SetSlotAvailability(ctx context.Context, dentistID uint, date, time string, available bool) error {
	return translate(s.db.WithContext(ctx).Model(&models.TimeSlot{}).
		Where("dentist_id = ? AND slot_date = ? AND slot_time = ?", dentistID, date, time).
		Update("is_available", available).Error)
}
