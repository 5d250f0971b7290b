package services

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/harentsoaR/dentist-platform/internal/apperr"
	"github.com/harentsoaR/dentist-platform/internal/models"
	"github.com/harentsoaR/dentist-platform/internal/store"
	"github.com/harentsoaR/dentist-platform/internal/uploads"
)

type MediaService struct {
	deps Deps
	log  *logrus.Entry
}

type TestimonialInput struct {
	PatientName  string
	ThumbnailURL *string
	Description  *string
}

// --- CLINIC IMAGES ---

func (s *MediaService) ListImages(ctx context.Context, dentistID uint) ([]models.ClinicImage, error) {
	images, err := s.deps.Repo.ListClinicImages(ctx, dentistID)
	if err != nil {
		return nil, internal(err)
	}
	return images, nil
}

func (s *MediaService) AddImage(ctx context.Context, id models.Identity, dentistID uint, caption *string, file *uploads.File) (*models.ClinicImage, error) {
	if !id.Authenticated() {
		return nil, apperr.Unauthorized("Unauthorized")
	}
	if file == nil {
		return nil, apperr.BadRequest("No image uploaded")
	}
	if err := s.requireOwner(ctx, id, dentistID); err != nil {
		return nil, err
	}

	p, err := s.deps.Storage.Save(ctx, file)
	if err != nil {
		return nil, apperr.Internal("Failed to store upload", err)
	}

	img := &models.ClinicImage{DentistID: dentistID, ImageURL: p, Caption: trimmed(caption)}
	if err := s.deps.Repo.CreateClinicImage(ctx, img); err != nil {
		removeFiles(ctx, s.deps.Storage, s.log, p)
		return nil, internal(err)
	}
	return img, nil
}

func (s *MediaService) DeleteImage(ctx context.Context, id models.Identity, imageID uint) error {
	if !id.Authenticated() {
		return apperr.Unauthorized("Unauthorized")
	}

	img, err := s.deps.Repo.ClinicImageForOwner(ctx, imageID, id.ID)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.Forbidden("Forbidden or not found")
	}
	if err != nil {
		return internal(err)
	}
	if err := s.deps.Repo.DeleteClinicImage(ctx, img.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return internal(err)
	}
	removeFiles(ctx, s.deps.Storage, s.log, img.ImageURL)
	return nil
}

// --- TESTIMONIALS ---

func (s *MediaService) ListTestimonials(ctx context.Context, dentistID uint) ([]models.Testimonial, error) {
	out, err := s.deps.Repo.ListTestimonials(ctx, dentistID)
	if err != nil {
		return nil, internal(err)
	}
	return out, nil
}

func (s *MediaService) AddTestimonial(ctx context.Context, id models.Identity, dentistID uint, in TestimonialInput, video *uploads.File) (*models.Testimonial, error) {
	if !id.Authenticated() {
		return nil, apperr.Unauthorized("Unauthorized")
	}
	if video == nil {
		return nil, apperr.BadRequest("No video uploaded")
	}
	if err := s.requireOwner(ctx, id, dentistID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.PatientName)
	if name == "" {
		return nil, apperr.BadRequest("patient_name is required")
	}

	p, err := s.deps.Storage.Save(ctx, video)
	if err != nil {
		return nil, apperr.Internal("Failed to store upload", err)
	}

	t := &models.Testimonial{
		DentistID:    dentistID,
		VideoURL:     p,
		PatientName:  name,
		ThumbnailURL: trimmed(in.ThumbnailURL),
		Description:  trimmed(in.Description),
	}
	if err := s.deps.Repo.CreateTestimonial(ctx, t); err != nil {
		removeFiles(ctx, s.deps.Storage, s.log, p)
		return nil, internal(err)
	}
	return t, nil
}

func (s *MediaService) DeleteTestimonial(ctx context.Context, id models.Identity, testimonialID uint) error {
	if !id.Authenticated() {
		return apperr.Unauthorized("Unauthorized")
	}

	t, err := s.deps.Repo.TestimonialForOwner(ctx, testimonialID, id.ID)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.Forbidden("Forbidden or not found")
	}
	if err != nil {
		return internal(err)
	}
	if err := s.deps.Repo.DeleteTestimonial(ctx, t.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return internal(err)
	}
	removeFiles(ctx, s.deps.Storage, s.log, t.VideoURL)
	return nil
}

// --- REVIEWS ---

// ListReviews returns the reviews newest first with their mean rating rounded
// to one decimal.
func (s *MediaService) ListReviews(ctx context.Context, dentistID uint) (*models.ReviewSummary, error) {
	reviews, err := s.deps.Repo.ListReviews(ctx, dentistID)
	if err != nil {
		return nil, internal(err)
	}
	return &models.ReviewSummary{Reviews: reviews, AverageRating: averageRating(reviews)}, nil
}

func averageRating(reviews []models.ReviewView) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := lo.SumBy(reviews, func(r models.ReviewView) int { return r.Rating })
	return math.Round(float64(sum)/float64(len(reviews))*10) / 10
}

func (s *MediaService) AddReview(ctx context.Context, id models.Identity, dentistID uint, rating int, comment string) (*models.Review, error) {
	if !id.Authenticated() {
		return nil, apperr.Unauthorized("Unauthorized")
	}
	comment = strings.TrimSpace(comment)
	if rating == 0 || comment == "" {
		return nil, apperr.BadRequest("Rating and comment are required")
	}
	if rating < 1 || rating > 5 {
		return nil, apperr.BadRequest("Rating must be between 1 and 5")
	}

	if _, err := s.deps.Repo.DentistByID(ctx, dentistID); errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("Dentist not found")
	} else if err != nil {
		return nil, internal(err)
	}

	exists, err := s.deps.Repo.ReviewExists(ctx, dentistID, id.ID)
	if err != nil {
		return nil, internal(err)
	}
	if exists {
		return nil, apperr.Conflict("You have already reviewed this dentist.")
	}

	r := &models.Review{DentistID: dentistID, UserID: id.ID, Rating: rating, Comment: comment}
	if err := s.deps.Repo.CreateReview(ctx, r); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Conflict("You have already reviewed this dentist.")
		}
		return nil, internal(err)
	}
	return r, nil
}

// DeleteReview lets the author or an admin remove a review.
func (s *MediaService) DeleteReview(ctx context.Context, id models.Identity, reviewID uint) error {
	if !id.Authenticated() {
		return apperr.Unauthorized("Unauthorized")
	}

	r, err := s.deps.Repo.ReviewByID(ctx, reviewID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return internal(err)
	}
	if r == nil || (r.UserID != id.ID && id.Role != models.RoleAdmin) {
		return apperr.Forbidden("Forbidden or not found")
	}

	if err := s.deps.Repo.DeleteReview(ctx, r.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return internal(err)
	}
	if id.Role == models.RoleAdmin {
		s.deps.Logger.Audit(id.ID, "delete", "review", r.ID, logrus.Fields{"dentist_id": r.DentistID})
	}
	return nil
}

func (s *MediaService) requireOwner(ctx context.Context, id models.Identity, dentistID uint) error {
	d, err := s.deps.Repo.DentistByID(ctx, dentistID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return internal(err)
	}
	if d == nil || d.UserID != id.ID {
		return apperr.Forbidden("Forbidden")
	}
	return nil
}
