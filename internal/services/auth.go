package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/harentsoaR/dentist-platform/internal/apperr"
	"github.com/harentsoaR/dentist-platform/internal/models"
	"github.com/harentsoaR/dentist-platform/internal/store"
	"github.com/harentsoaR/dentist-platform/internal/utils"
)

type AuthService struct {
	deps Deps
	log  *logrus.Entry
}

func errPasswordTooLong() error {
	return apperr.BadRequest("Password must be at most 72 bytes")
}

func (s *AuthService) hash(password string) (string, error) {
	hash, err := s.deps.Hasher.Hash(password)
	if errors.Is(err, utils.ErrPasswordTooLong) {
		return "", errPasswordTooLong()
	}
	if err != nil {
		return "", apperr.Internal("Server error", err)
	}
	return hash, nil
}

type RegisterInput struct {
	Name     string
	Email    string
	Phone    *string
	Password string
	Role     models.Role
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" || email == "" || in.Password == "" {
		return nil, apperr.BadRequest("name, email, and password are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.BadRequest("email is not a valid address")
	}
	if len(in.Password) > utils.MaxPasswordBytes {
		return nil, errPasswordTooLong()
	}

	role := in.Role
	if role == "" {
		role = models.RolePatient
	}
	if !lo.Contains(models.RegistrableRoles, role) {
		return nil, apperr.BadRequest("role must be one of: PATIENT, DENTIST")
	}

	if _, err := s.deps.Repo.UserByEmail(ctx, email); err == nil {
		return nil, apperr.Conflict("User with this email already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, internal(err)
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Phone:    trimmed(in.Phone),
		Password: hash,
		Role:     role,
	}
	if err := s.deps.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Conflict("User with this email already exists")
		}
		return nil, internal(err)
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("User registered")
	return user, nil
}

// Login verifies the credentials and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, apperr.BadRequest("email and password are required")
	}

	user, err := s.deps.Repo.UserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		s.deps.Metrics.RecordAuthAttempt(false)
		return "", nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return "", nil, internal(err)
	}

	if !s.deps.Hasher.Compare(password, user.Password) {
		s.deps.Metrics.RecordAuthAttempt(false)
		s.log.WithField("user_id", user.ID).Warn("Failed login attempt")
		return "", nil, apperr.Unauthorized("Invalid credentials")
	}

	token, err := s.deps.JWT.GenerateJWT(user)
	if err != nil {
		return "", nil, apperr.Internal("Server error", err)
	}
	s.deps.Metrics.RecordAuthAttempt(true)
	return token, user, nil
}

func (s *AuthService) Me(ctx context.Context, id models.Identity) (*models.User, error) {
	user, err := s.deps.Repo.UserByID(ctx, id.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, internal(err)
	}
	return user, nil
}

// UpdateMe changes the caller's name and/or phone. Blank values are ignored.
func (s *AuthService) UpdateMe(ctx context.Context, id models.Identity, name, phone *string) error {
	name, phone = trimmed(name), trimmed(phone)
	if name == nil && phone == nil {
		return apperr.BadRequest("Provide at least one field to update (name, phone)")
	}

	err := s.deps.Repo.UpdateUserProfile(ctx, id.ID, name, phone)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("User not found")
	}
	if err != nil {
		return internal(err)
	}
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, id models.Identity, current, next string) error {
	if current == "" || next == "" {
		return apperr.BadRequest("current_password and new_password are required")
	}
	if len(next) > utils.MaxPasswordBytes {
		return errPasswordTooLong()
	}

	user, err := s.deps.Repo.UserByID(ctx, id.ID)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("User not found")
	}
	if err != nil {
		return internal(err)
	}
	if !s.deps.Hasher.Compare(current, user.Password) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	hash, err := s.hash(next)
	if err != nil {
		return err
	}
	if err := s.deps.Repo.UpdateUserPassword(ctx, user.ID, hash); err != nil {
		return internal(err)
	}

	s.deps.Logger.Audit(user.ID, "change_password", "user", user.ID, nil)
	return nil
}

// EnsureAdmin creates the bootstrap ADMIN account unless a user with that
// email already exists. It reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return false, nil
	}

	_, err := s.deps.Repo.UserByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, internal(err)
	}

	hash, err := s.hash(password)
	if err != nil {
		return false, err
	}
	if name = strings.TrimSpace(name); name == "" {
		name = "Administrator"
	}
	admin := &models.User{Name: name, Email: email, Password: hash, Role: models.RoleAdmin}
	if err := s.deps.Repo.CreateUser(ctx, admin); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return false, nil
		}
		return false, internal(err)
	}

	s.log.WithField("user_id", admin.ID).Info("Admin account created")
	return true, nil
}
