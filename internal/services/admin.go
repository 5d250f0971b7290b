package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/harentsoaR/dentist-platform/internal/apperr"
	"github.com/harentsoaR/dentist-platform/internal/models"
	"github.com/harentsoaR/dentist-platform/internal/store"
)

type AdminService struct {
	deps     Deps
	dentists *DentistService
	log      *logrus.Entry
}

func (s *AdminService) Stats(ctx context.Context) (*models.AdminStats, error) {
	var (
		stats    models.AdminStats
		err      error
		pending  = models.DentistPending
		approved = models.DentistApproved
	)
	if stats.TotalUsers, err = s.deps.Repo.CountUsers(ctx, models.RoleAdmin); err != nil {
		return nil, internal(err)
	}
	if stats.TotalDentists, err = s.deps.Repo.CountDentists(ctx, nil); err != nil {
		return nil, internal(err)
	}
	if stats.PendingDentists, err = s.deps.Repo.CountDentists(ctx, &pending); err != nil {
		return nil, internal(err)
	}
	if stats.ApprovedDentists, err = s.deps.Repo.CountDentists(ctx, &approved); err != nil {
		return nil, internal(err)
	}
	if stats.TotalAppointments, err = s.deps.Repo.CountAppointments(ctx); err != nil {
		return nil, internal(err)
	}
	return &stats, nil
}

func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.deps.Repo.ListUsers(ctx)
	if err != nil {
		return nil, internal(err)
	}
	return users, nil
}

// DeleteUser removes a non-admin account with everything it owns, including
// the uploads of its dentist profile.
func (s *AdminService) DeleteUser(ctx context.Context, admin models.Identity, userID uint) error {
	user, err := s.deps.Repo.UserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("User not found")
	}
	if err != nil {
		return internal(err)
	}
	if user.Role == models.RoleAdmin {
		return apperr.Forbidden("Cannot delete an admin account")
	}

	var files []string
	if d, err := s.deps.Repo.DentistByUserID(ctx, user.ID); err == nil {
		if files, err = s.dentists.files(ctx, d); err != nil {
			return err
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		return internal(err)
	}

	err = s.deps.Repo.DeleteUser(ctx, user.ID)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("User not found")
	}
	if err != nil {
		return internal(err)
	}
	removeFiles(ctx, s.deps.Storage, s.log, files...)

	s.deps.Logger.Audit(admin.ID, "delete", "user", user.ID, logrus.Fields{"role": user.Role})
	return nil
}
