package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harentsoaR/dentist-platform/internal/apperr"
	"github.com/harentsoaR/dentist-platform/internal/models"
)

func TestRegister(t *testing.T) {
	f := newFixture(t)

	u, err := f.svc.Auth.Register(f.ctx, RegisterInput{Name: "Ann", Email: " Ann@Example.com ", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, models.RolePatient, u.Role)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.NotEqual(t, "secret", u.Password)

	t.Run("duplicate email regardless of role", func(t *testing.T) {
		_, err := f.svc.Auth.Register(f.ctx, RegisterInput{Name: "Other", Email: "ann@example.com", Password: "x", Role: models.RoleDentist})
		assertKind(t, err, apperr.KindConflict, "User with this email already exists")
	})

	t.Run("admin role rejected", func(t *testing.T) {
		_, err := f.svc.Auth.Register(f.ctx, RegisterInput{Name: "Eve", Email: "eve@example.com", Password: "x", Role: models.RoleAdmin})
		assertKind(t, err, apperr.KindValidation, "role must be one of: PATIENT, DENTIST")
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := f.svc.Auth.Register(f.ctx, RegisterInput{Email: "x@example.com", Password: "x"})
		assertKind(t, err, apperr.KindValidation, "name, email, and password are required")
	})

	t.Run("malformed email", func(t *testing.T) {
		_, err := f.svc.Auth.Register(f.ctx, RegisterInput{Name: "Bob", Email: "not-an-email", Password: "x"})
		assertKind(t, err, apperr.KindValidation, "")
	})

	t.Run("password longer than 72 bytes", func(t *testing.T) {
		_, err := f.svc.Auth.Register(f.ctx, RegisterInput{Name: "Bob", Email: "bob@example.com", Password: strings.Repeat("p", 73)})
		assertKind(t, err, apperr.KindValidation, "Password must be at most 72 bytes")

		_, err = f.repo.UserByEmail(f.ctx, "bob@example.com")
		assert.Error(t, err)
	})

	t.Run("password of exactly 72 bytes", func(t *testing.T) {
		_, err := f.svc.Auth.Register(f.ctx, RegisterInput{Name: "Cat", Email: "cat@example.com", Password: strings.Repeat("p", 72)})
		assert.NoError(t, err)
	})
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	registered, err := f.svc.Auth.Register(f.ctx, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret", Role: models.RoleDentist})
	require.NoError(t, err)

	token, user, err := f.svc.Auth.Login(f.ctx, "ann@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	claims, err := f.jwt.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, models.Identity{ID: user.ID, Name: "Ann", Email: "ann@example.com", Role: models.RoleDentist}, claims.Identity())

	_, _, err = f.svc.Auth.Login(f.ctx, "nobody@example.com", "secret")
	assertKind(t, err, apperr.KindNotFound, "User not found")

	_, _, err = f.svc.Auth.Login(f.ctx, "ann@example.com", "wrong")
	assertKind(t, err, apperr.KindUnauthenticated, "Invalid credentials")

	_, _, err = f.svc.Auth.Login(f.ctx, "", "")
	assertKind(t, err, apperr.KindValidation, "email and password are required")
}

func TestUpdateMe(t *testing.T) {
	f := newFixture(t)
	id := f.user(models.RolePatient, "Ann")

	blank := "  "
	err := f.svc.Auth.UpdateMe(f.ctx, id, &blank, nil)
	assertKind(t, err, apperr.KindValidation, "")

	phone := "+15551234"
	require.NoError(t, f.svc.Auth.UpdateMe(f.ctx, id, nil, &phone))

	me, err := f.svc.Auth.Me(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ann", me.Name)
	require.NotNil(t, me.Phone)
	assert.Equal(t, phone, *me.Phone)

	_, err = f.svc.Auth.Me(f.ctx, models.Identity{ID: 999})
	assertKind(t, err, apperr.KindNotFound, "User not found")
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	u, err := f.svc.Auth.Register(f.ctx, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "old"})
	require.NoError(t, err)
	id := models.Identity{ID: u.ID}

	err = f.svc.Auth.ChangePassword(f.ctx, id, "wrong", "new")
	assertKind(t, err, apperr.KindUnauthenticated, "Current password is incorrect")

	err = f.svc.Auth.ChangePassword(f.ctx, id, "", "new")
	assertKind(t, err, apperr.KindValidation, "")

	err = f.svc.Auth.ChangePassword(f.ctx, id, "old", strings.Repeat("n", 73))
	assertKind(t, err, apperr.KindValidation, "Password must be at most 72 bytes")
	_, _, err = f.svc.Auth.Login(f.ctx, "ann@example.com", "old")
	require.NoError(t, err)

	require.NoError(t, f.svc.Auth.ChangePassword(f.ctx, id, "old", "new"))
	_, _, err = f.svc.Auth.Login(f.ctx, "ann@example.com", "new")
	assert.NoError(t, err)
}

func TestEnsureAdmin(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.Auth.EnsureAdmin(f.ctx, "", "root@example.com", "pw")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.svc.Auth.EnsureAdmin(f.ctx, "", "root@example.com", "pw")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = f.svc.Auth.EnsureAdmin(f.ctx, "", "", "")
	require.NoError(t, err)
	assert.False(t, created)

	u, err := f.repo.UserByEmail(f.ctx, "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.Equal(t, "Administrator", u.Name)
}
