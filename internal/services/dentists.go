package services

import (
	"context"
	"errors"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/harentsoaR/dentist-platform/internal/apperr"
	"github.com/harentsoaR/dentist-platform/internal/models"
	"github.com/harentsoaR/dentist-platform/internal/store"
	"github.com/harentsoaR/dentist-platform/internal/uploads"
)

type DentistService struct {
	deps Deps
	log  *logrus.Entry
}

// DentistInput carries the editable profile fields. Pointer fields are
// required when nil means "missing" rather than zero.
type DentistInput struct {
	Qualification   string
	Experience      *int
	ClinicName      string
	ClinicAddress   string
	Fees            *float64
	Specialization  string
	Latitude        *float64
	Longitude       *float64
	ServicesOffered []models.ServiceItem
}

func (in DentistInput) validate() error {
	for _, f := range []string{in.Qualification, in.ClinicName, in.ClinicAddress, in.Specialization} {
		if strings.TrimSpace(f) == "" {
			return apperr.BadRequest("Required fields are missing")
		}
	}
	if in.Experience == nil || in.Fees == nil {
		return apperr.BadRequest("Required fields are missing")
	}
	if *in.Experience < 0 {
		return apperr.BadRequest("experience cannot be negative")
	}
	if *in.Fees <= 0 {
		return apperr.BadRequest("fees must be greater than zero")
	}
	if lo.SomeBy(in.ServicesOffered, func(it models.ServiceItem) bool { return it.Fee < 0 }) {
		return apperr.BadRequest("Service fees cannot be negative")
	}
	return nil
}

// apply copies the input onto d. Status and photo are left alone.
func (in DentistInput) apply(d *models.Dentist) {
	d.Qualification = strings.TrimSpace(in.Qualification)
	d.Experience = *in.Experience
	d.ClinicName = strings.TrimSpace(in.ClinicName)
	d.ClinicAddress = strings.TrimSpace(in.ClinicAddress)
	d.Fees = *in.Fees
	d.Specialization = strings.TrimSpace(in.Specialization)
	d.Latitude = lo.FromPtr(in.Latitude)
	d.Longitude = lo.FromPtr(in.Longitude)
	d.ServicesOffered = in.ServicesOffered
	if d.ServicesOffered == nil {
		d.ServicesOffered = []models.ServiceItem{}
	}
}

func (s *DentistService) ListApproved(ctx context.Context) ([]models.DentistView, error) {
	status := models.DentistApproved
	views, err := s.deps.Repo.ListDentistViews(ctx, store.DentistFilter{Status: &status})
	if err != nil {
		return nil, internal(err)
	}
	return views, nil
}

// GetApproved hides pending and rejected profiles.
func (s *DentistService) GetApproved(ctx context.Context, id uint) (*models.DentistView, error) {
	status := models.DentistApproved
	view, err := s.deps.Repo.DentistView(ctx, id, &status)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("Dentist not found")
	}
	if err != nil {
		return nil, internal(err)
	}
	return view, nil
}

func (s *DentistService) GetOwn(ctx context.Context, id models.Identity) (*models.DentistView, error) {
	view, err := s.deps.Repo.DentistViewByUserID(ctx, id.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("No dentist profile found")
	}
	if err != nil {
		return nil, internal(err)
	}
	return view, nil
}

// Create submits a profile for review. It always starts PENDING.
func (s *DentistService) Create(ctx context.Context, id models.Identity, in DentistInput, photo *uploads.File) (*models.Dentist, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	if _, err := s.deps.Repo.DentistByUserID(ctx, id.ID); err == nil {
		return nil, apperr.Conflict("Dentist profile already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, internal(err)
	}

	d := &models.Dentist{UserID: id.ID, Status: models.DentistPending}
	in.apply(d)

	if photo != nil {
		p, err := s.deps.Storage.Save(ctx, photo)
		if err != nil {
			return nil, apperr.Internal("Failed to store upload", err)
		}
		d.ProfilePhoto = &p
	}

	if err := s.deps.Repo.CreateDentist(ctx, d); err != nil {
		removeFiles(ctx, s.deps.Storage, s.log, lo.FromPtr(d.ProfilePhoto))
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Conflict("Dentist profile already exists")
		}
		return nil, internal(err)
	}

	s.deps.Logger.Audit(id.ID, "create", "dentist", d.ID, nil)
	return d, nil
}

// Update edits the caller's own profile.
func (s *DentistService) Update(ctx context.Context, id models.Identity, dentistID uint, in DentistInput, photo *uploads.File) error {
	if err := in.validate(); err != nil {
		return err
	}
	d, err := s.owned(ctx, id, dentistID)
	if err != nil {
		return err
	}
	return s.save(ctx, id, d, in, photo)
}

func (s *DentistService) Delete(ctx context.Context, id models.Identity, dentistID uint) error {
	d, err := s.owned(ctx, id, dentistID)
	if err != nil {
		return err
	}
	return s.remove(ctx, id, d)
}

func (s *DentistService) AdminList(ctx context.Context) ([]models.DentistView, error) {
	views, err := s.deps.Repo.ListDentistViews(ctx, store.DentistFilter{NewestFirst: true})
	if err != nil {
		return nil, internal(err)
	}
	return views, nil
}

func (s *DentistService) AdminGet(ctx context.Context, dentistID uint) (*models.DentistView, error) {
	view, err := s.deps.Repo.DentistView(ctx, dentistID, nil)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("Dentist not found")
	}
	if err != nil {
		return nil, internal(err)
	}
	return view, nil
}

func (s *DentistService) AdminUpdateStatus(ctx context.Context, admin models.Identity, dentistID uint, status models.DentistStatus) error {
	if !lo.Contains(models.DentistStatuses, status) {
		return apperr.BadRequest("Status must be APPROVED, REJECTED, or PENDING")
	}

	err := s.deps.Repo.UpdateDentistStatus(ctx, dentistID, status)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("Dentist not found")
	}
	if err != nil {
		return internal(err)
	}

	s.deps.Logger.Audit(admin.ID, "update_status", "dentist", dentistID, logrus.Fields{"status": status})
	return nil
}

// AdminUpdate edits any profile. A nil ServicesOffered keeps the current
// catalogue; an empty one clears it.
func (s *DentistService) AdminUpdate(ctx context.Context, admin models.Identity, dentistID uint, in DentistInput, photo *uploads.File) error {
	if err := in.validate(); err != nil {
		return err
	}
	d, err := s.byID(ctx, dentistID)
	if err != nil {
		return err
	}
	if in.ServicesOffered == nil {
		in.ServicesOffered = d.ServicesOffered
	}
	return s.save(ctx, admin, d, in, photo)
}

func (s *DentistService) AdminDelete(ctx context.Context, admin models.Identity, dentistID uint) error {
	d, err := s.byID(ctx, dentistID)
	if err != nil {
		return err
	}
	return s.remove(ctx, admin, d)
}

func (s *DentistService) byID(ctx context.Context, dentistID uint) (*models.Dentist, error) {
	d, err := s.deps.Repo.DentistByID(ctx, dentistID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("Dentist not found")
	}
	if err != nil {
		return nil, internal(err)
	}
	return d, nil
}

// owned loads a profile the caller owns. A missing profile is reported the
// same way as someone else's.
func (s *DentistService) owned(ctx context.Context, id models.Identity, dentistID uint) (*models.Dentist, error) {
	d, err := s.deps.Repo.DentistByID(ctx, dentistID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, internal(err)
	}
	if d == nil || d.UserID != id.ID {
		return nil, apperr.Forbidden("Forbidden: You do not own this profile")
	}
	return d, nil
}

// save writes the new fields and swaps the photo. The old photo file is only
// removed once the row points at the new one.
func (s *DentistService) save(ctx context.Context, actor models.Identity, d *models.Dentist, in DentistInput, photo *uploads.File) error {
	in.apply(d)

	var oldPhoto, newPhoto string
	if photo != nil {
		p, err := s.deps.Storage.Save(ctx, photo)
		if err != nil {
			return apperr.Internal("Failed to store upload", err)
		}
		oldPhoto, newPhoto = lo.FromPtr(d.ProfilePhoto), p
		d.ProfilePhoto = &p
	}

	if err := s.deps.Repo.SaveDentist(ctx, d); err != nil {
		removeFiles(ctx, s.deps.Storage, s.log, newPhoto)
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("Dentist not found")
		}
		return internal(err)
	}
	removeFiles(ctx, s.deps.Storage, s.log, oldPhoto)

	s.deps.Logger.Audit(actor.ID, "update", "dentist", d.ID, nil)
	return nil
}

// remove deletes the profile row (the store cascades to slots, appointments,
// media and reviews) and then the profile's uploaded files.
func (s *DentistService) remove(ctx context.Context, actor models.Identity, d *models.Dentist) error {
	files, err := s.files(ctx, d)
	if err != nil {
		return err
	}

	err = s.deps.Repo.DeleteDentist(ctx, d.ID)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("Dentist not found")
	}
	if err != nil {
		return internal(err)
	}
	removeFiles(ctx, s.deps.Storage, s.log, files...)

	s.deps.Logger.Audit(actor.ID, "delete", "dentist", d.ID, logrus.Fields{"files": len(files)})
	return nil
}

// files lists every upload referenced by the profile.
func (s *DentistService) files(ctx context.Context, d *models.Dentist) ([]string, error) {
	images, err := s.deps.Repo.ListClinicImages(ctx, d.ID)
	if err != nil {
		return nil, internal(err)
	}
	testimonials, err := s.deps.Repo.ListTestimonials(ctx, d.ID)
	if err != nil {
		return nil, internal(err)
	}

	files := lo.Map(images, func(img models.ClinicImage, _ int) string { return img.ImageURL })
	files = append(files, lo.Map(testimonials, func(t models.Testimonial, _ int) string { return t.VideoURL })...)
	if d.ProfilePhoto != nil {
		files = append(files, *d.ProfilePhoto)
	}
	return files, nil
}
