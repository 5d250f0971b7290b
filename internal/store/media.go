package store

import (
	"context"

	"github.com/harentsoaR/dentist-platform/internal/models"
)

func (s *GormStore) ListClinicImages(ctx context.Context, dentistID uint) ([]models.ClinicImage, error) {
	var images []models.ClinicImage
	err := s.db.WithContext(ctx).
		Where("dentist_id = ?", dentistID).
		Order("created_at ASC, id ASC").
		Find(&images).Error
	return images, translate(err)
}

func (s *GormStore) CreateClinicImage(ctx context.Context, img *models.ClinicImage) error {
	return translate(s.db.WithContext(ctx).Create(img).Error)
}

func (s *GormStore) ClinicImageForOwner(ctx context.Context, imageID, ownerUserID uint) (*models.ClinicImage, error) {
	var img models.ClinicImage
	err := s.db.WithContext(ctx).
		Joins("JOIN dentists d ON d.id = clinic_images.dentist_id").
		Where("clinic_images.id = ? AND d.user_id = ?", imageID, ownerUserID).
		Take(&img).Error
	if err != nil {
		return nil, translate(err)
	}
	return &img, nil
}

func (s *GormStore) DeleteClinicImage(ctx context.Context, id uint) error {
	return affected(s.db.WithContext(ctx).Delete(&models.ClinicImage{}, id))
}

func (s *GormStore) ListTestimonials(ctx context.Context, dentistID uint) ([]models.Testimonial, error) {
	var out []models.Testimonial
	err := s.db.WithContext(ctx).
		Where("dentist_id = ?", dentistID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, translate(err)
}

func (s *GormStore) CreateTestimonial(ctx context.Context, t *models.Testimonial) error {
	return translate(s.db.WithContext(ctx).Create(t).Error)
}

func (s *GormStore) TestimonialForOwner(ctx context.Context, testimonialID, ownerUserID uint) (*models.Testimonial, error) {
	var t models.Testimonial
	err := s.db.WithContext(ctx).
		Joins("JOIN dentists d ON d.id = testimonials.dentist_id").
		Where("testimonials.id = ? AND d.user_id = ?", testimonialID, ownerUserID).
		Take(&t).Error
	if err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (s *GormStore) DeleteTestimonial(ctx context.Context, id uint) error {
	return affected(s.db.WithContext(ctx).Delete(&models.Testimonial{}, id))
}

func (s *GormStore) ListReviews(ctx context.Context, dentistID uint) ([]models.ReviewView, error) {
	var out []models.ReviewView
	err := s.db.WithContext(ctx).
		Table("reviews AS r").
		Select("r.id, r.user_id, u.name AS patient_name, r.rating, r.comment, r.created_at").
		Joins("JOIN users u ON u.id = r.user_id").
		Where("r.dentist_id = ?", dentistID).
		Order("r.created_at DESC, r.id DESC").
		Scan(&out).Error
	return out, translate(err)
}

func (s *GormStore) ReviewExists(ctx context.Context, dentistID, userID uint) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Review{}).
		Where("dentist_id = ? AND user_id = ?", dentistID, userID).
		Count(&n).Error
	return n > 0, translate(err)
}

func (s *GormStore) CreateReview(ctx context.Context, r *models.Review) error {
	return translate(s.db.WithContext(ctx).Create(r).Error)
}

func (s *GormStore) ReviewByID(ctx context.Context, id uint) (*models.Review, error) {
	var r models.Review
	if err := s.db.WithContext(ctx).Take(&r, id).Error; err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

func (s *GormStore) DeleteReview(ctx context.Context, id uint) error {
	return affected(s.db.WithContext(ctx).Delete(&models.Review{}, id))
}
