package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/harentsoaR/dentist-platform/internal/models"
)

func (s *GormStore) patientAppointments(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("appointments AS a").
		Select(`a.id, a.dentist_id, a.appointment_date, a.appointment_time, a.status, a.notes,
			d.clinic_name, d.clinic_address, d.fees, d.specialization,
			u.name AS dentist_name, u.phone AS dentist_phone, u.email AS dentist_email`).
		Joins("JOIN dentists d ON d.id = a.dentist_id").
		Joins("JOIN users u ON u.id = d.user_id")
}

func (s *GormStore) HasActiveAppointment(ctx context.Context, dentistID uint, date, time string, excludeID uint) (bool, error) {
	q := s.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("dentist_id = ? AND appointment_date = ? AND appointment_time = ?", dentistID, date, time).
		Where("status <> ?", models.AppointmentCancelled)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, translate(err)
}

func (s *GormStore) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error)
}

func (s *GormStore) AppointmentForPatient(ctx context.Context, id, patientID uint) (*models.Appointment, error) {
	var a models.Appointment
	err := s.db.WithContext(ctx).Where("id = ? AND patient_id = ?", id, patientID).Take(&a).Error
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (s *GormStore) AppointmentForDentist(ctx context.Context, id, dentistID uint) (*models.Appointment, error) {
	var a models.Appointment
	err := s.db.WithContext(ctx).Where("id = ? AND dentist_id = ?", id, dentistID).Take(&a).Error
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (s *GormStore) UpdateAppointmentStatus(ctx context.Context, id uint, status models.AppointmentStatus) error {
	return affected(s.db.WithContext(ctx).Model(&models.Appointment{}).Where("id = ?", id).Update("status", status))
}

func (s *GormStore) UpdateAppointmentSchedule(ctx context.Context, id uint, date, time string) error {
	return affected(s.db.WithContext(ctx).Model(&models.Appointment{}).Where("id = ?", id).
		Updates(map[string]interface{}{"appointment_date": date, "appointment_time": time}))
}

func (s *GormStore) ListPatientAppointments(ctx context.Context, patientID uint) ([]models.PatientAppointmentView, error) {
	var views []models.PatientAppointmentView
	err := s.patientAppointments(ctx).
		Where("a.patient_id = ?", patientID).
		Order("a.appointment_date DESC, a.appointment_time DESC").
		Scan(&views).Error
	return views, translate(err)
}

func (s *GormStore) PatientAppointment(ctx context.Context, id, patientID uint) (*models.PatientAppointmentView, error) {
	var views []models.PatientAppointmentView
	err := s.patientAppointments(ctx).
		Where("a.id = ? AND a.patient_id = ?", id, patientID).
		Limit(1).
		Scan(&views).Error
	if err != nil {
		return nil, translate(err)
	}
	if len(views) == 0 {
		return nil, ErrNotFound
	}
	return &views[0], nil
}

func (s *GormStore) ListDentistAppointments(ctx context.Context, dentistID uint) ([]models.DentistAppointmentView, error) {
	var views []models.DentistAppointmentView
	err := s.db.WithContext(ctx).
		Table("appointments AS a").
		Select(`a.id, a.patient_id, a.appointment_date, a.appointment_time, a.status, a.notes,
			u.name AS patient_name, u.phone AS patient_phone, u.email AS patient_email`).
		Joins("JOIN users u ON u.id = a.patient_id").
		Where("a.dentist_id = ?", dentistID).
		Order("a.appointment_date DESC, a.appointment_time DESC").
		Scan(&views).Error
	return views, translate(err)
}

func (s *GormStore) CountAppointments(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Appointment{}).Count(&n).Error
	return n, translate(err)
}
