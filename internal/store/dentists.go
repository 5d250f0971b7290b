package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/harentsoaR/dentist-platform/internal/models"
)

const dentistViewColumns = `d.id, d.user_id, u.name, u.email, u.phone, d.qualification, d.experience,
	d.clinic_name, d.clinic_address, d.fees, d.specialization, d.latitude, d.longitude,
	d.status, d.profile_photo, d.services_offered`

// dentistProfileFields are written by SaveDentist; status is left alone.
var dentistProfileFields = []string{
	"qualification", "experience", "clinic_name", "clinic_address", "fees",
	"specialization", "latitude", "longitude", "profile_photo", "services_offered",
}

func (s *GormStore) dentistViews(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("dentists AS d").
		Select(dentistViewColumns).
		Joins("JOIN users u ON u.id = d.user_id")
}

func (s *GormStore) CreateDentist(ctx context.Context, d *models.Dentist) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(d).Error)
}

func (s *GormStore) DentistByID(ctx context.Context, id uint) (*models.Dentist, error) {
	var d models.Dentist
	if err := s.db.WithContext(ctx).Take(&d, id).Error; err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

func (s *GormStore) DentistByUserID(ctx context.Context, userID uint) (*models.Dentist, error) {
	var d models.Dentist
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Take(&d).Error; err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

func (s *GormStore) LockDentist(ctx context.Context, id uint) (*models.Dentist, error) {
	var d models.Dentist
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Take(&d, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

func (s *GormStore) DentistView(ctx context.Context, id uint, status *models.DentistStatus) (*models.DentistView, error) {
	q := s.dentistViews(ctx).Where("d.id = ?", id)
	if status != nil {
		q = q.Where("d.status = ?", *status)
	}
	return firstView(q)
}

func (s *GormStore) DentistViewByUserID(ctx context.Context, userID uint) (*models.DentistView, error) {
	return firstView(s.dentistViews(ctx).Where("d.user_id = ?", userID))
}

func firstView(q *gorm.DB) (*models.DentistView, error) {
	var views []models.DentistView
	if err := q.Limit(1).Scan(&views).Error; err != nil {
		return nil, translate(err)
	}
	if len(views) == 0 {
		return nil, ErrNotFound
	}
	return &views[0], nil
}

func (s *GormStore) ListDentistViews(ctx context.Context, filter DentistFilter) ([]models.DentistView, error) {
	q := s.dentistViews(ctx)
	if filter.Status != nil {
		q = q.Where("d.status = ?", *filter.Status)
	}
	if filter.NewestFirst {
		q = q.Order("d.id DESC")
	} else {
		q = q.Order("d.id ASC")
	}
	var views []models.DentistView
	err := q.Scan(&views).Error
	return views, translate(err)
}

func (s *GormStore) SaveDentist(ctx context.Context, d *models.Dentist) error {
	return affected(s.db.WithContext(ctx).
		Model(&models.Dentist{ID: d.ID}).
		Select(dentistProfileFields).
		Updates(d))
}

func (s *GormStore) UpdateDentistStatus(ctx context.Context, id uint, status models.DentistStatus) error {
	return affected(s.db.WithContext(ctx).Model(&models.Dentist{}).Where("id = ?", id).Update("status", status))
}

// DeleteDentist removes the profile; slots, appointments, images,
// testimonials and reviews go with it through ON DELETE CASCADE.
func (s *GormStore) DeleteDentist(ctx context.Context, id uint) error {
	return affected(s.db.WithContext(ctx).Delete(&models.Dentist{}, id))
}

func (s *GormStore) CountDentists(ctx context.Context, status *models.DentistStatus) (int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Dentist{})
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var n int64
	err := q.Count(&n).Error
	return n, translate(err)
}
