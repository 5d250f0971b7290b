package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harentsoaR/dentist-platform/internal/apperr"
	"github.com/harentsoaR/dentist-platform/internal/models"
)

func TestClinicImages(t *testing.T) {
	f := newFixture(t)
	owner, d := f.dentist(models.DentistApproved)
	other := f.user(models.RoleDentist, "Dr Other")

	_, err := f.svc.Media.AddImage(f.ctx, models.Identity{}, d.ID, nil, f.image())
	assertKind(t, err, apperr.KindUnauthenticated, "")

	_, err = f.svc.Media.AddImage(f.ctx, owner, d.ID, nil, nil)
	assertKind(t, err, apperr.KindValidation, "No image uploaded")

	_, err = f.svc.Media.AddImage(f.ctx, other, d.ID, nil, f.image())
	assertKind(t, err, apperr.KindForbidden, "Forbidden")

	caption := "Waiting room"
	first, err := f.svc.Media.AddImage(f.ctx, owner, d.ID, &caption, f.image())
	require.NoError(t, err)
	second, err := f.svc.Media.AddImage(f.ctx, owner, d.ID, nil, f.image())
	require.NoError(t, err)

	images, err := f.svc.Media.ListImages(f.ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, first.ID, images[0].ID, "oldest first")

	err = f.svc.Media.DeleteImage(f.ctx, other, second.ID)
	assertKind(t, err, apperr.KindForbidden, "Forbidden or not found")
	assert.True(t, f.stored(second.ImageURL))

	require.NoError(t, f.svc.Media.DeleteImage(f.ctx, owner, second.ID))
	assert.False(t, f.stored(second.ImageURL))
}

func TestTestimonials(t *testing.T) {
	f := newFixture(t)
	owner, d := f.dentist(models.DentistApproved)

	_, err := f.svc.Media.AddTestimonial(f.ctx, owner, d.ID, TestimonialInput{}, f.video())
	assertKind(t, err, apperr.KindValidation, "patient_name is required")

	_, err = f.svc.Media.AddTestimonial(f.ctx, owner, d.ID, TestimonialInput{PatientName: "Pat"}, nil)
	assertKind(t, err, apperr.KindValidation, "No video uploaded")

	older, err := f.svc.Media.AddTestimonial(f.ctx, owner, d.ID, TestimonialInput{PatientName: "Pat"}, f.video())
	require.NoError(t, err)
	newer, err := f.svc.Media.AddTestimonial(f.ctx, owner, d.ID, TestimonialInput{PatientName: "Sam"}, f.video())
	require.NoError(t, err)

	list, err := f.svc.Media.ListTestimonials(f.ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID, "newest first")

	require.NoError(t, f.svc.Media.DeleteTestimonial(f.ctx, owner, older.ID))
	assert.False(t, f.stored(older.VideoURL))
}

func TestReviews(t *testing.T) {
	f := newFixture(t)
	_, d := f.dentist(models.DentistApproved)
	ann := f.user(models.RolePatient, "Ann")
	bob := f.user(models.RolePatient, "Bob")
	admin := f.user(models.RoleAdmin, "Root")

	_, err := f.svc.Media.AddReview(f.ctx, ann, d.ID, 6, "great")
	assertKind(t, err, apperr.KindValidation, "Rating must be between 1 and 5")
	_, err = f.svc.Media.AddReview(f.ctx, ann, d.ID, 4, "   ")
	assertKind(t, err, apperr.KindValidation, "Rating and comment are required")
	_, err = f.svc.Media.AddReview(f.ctx, ann, 999, 4, "great")
	assertKind(t, err, apperr.KindNotFound, "Dentist not found")

	first, err := f.svc.Media.AddReview(f.ctx, ann, d.ID, 4, " great ")
	require.NoError(t, err)
	assert.Equal(t, "great", first.Comment)

	_, err = f.svc.Media.AddReview(f.ctx, ann, d.ID, 1, "changed my mind")
	assertKind(t, err, apperr.KindConflict, "You have already reviewed this dentist.")

	summary, err := f.svc.Media.ListReviews(f.ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, summary.AverageRating, "only the first review counts")

	_, err = f.svc.Media.AddReview(f.ctx, bob, d.ID, 5, "excellent")
	require.NoError(t, err)
	summary, err = f.svc.Media.ListReviews(f.ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, summary.Reviews, 2)
	assert.Equal(t, "Bob", summary.Reviews[0].PatientName)
	assert.Equal(t, 4.5, summary.AverageRating)

	err = f.svc.Media.DeleteReview(f.ctx, bob, first.ID)
	assertKind(t, err, apperr.KindForbidden, "Forbidden or not found")
	require.NoError(t, f.svc.Media.DeleteReview(f.ctx, admin, first.ID))
	err = f.svc.Media.DeleteReview(f.ctx, ann, first.ID)
	assertKind(t, err, apperr.KindForbidden, "Forbidden or not found")
}

func TestAverageRating(t *testing.T) {
	reviews := func(ratings ...int) []models.ReviewView {
		out := make([]models.ReviewView, len(ratings))
		for i, r := range ratings {
			out[i].Rating = r
		}
		return out
	}
	assert.Equal(t, 0.0, averageRating(nil))
	assert.Equal(t, 3.7, averageRating(reviews(5, 4, 2)))
	assert.Equal(t, 4.3, averageRating(reviews(5, 4, 4)))
}
