package store

import (
	"context"

	"github.com/harentsoaR/dentist-platform/internal/models"
)

func (s *GormStore) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Create(u).Error)
}

func (s *GormStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).Take(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *GormStore) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Take(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// UpdateUserProfile sets the non-nil fields.
func (s *GormStore) UpdateUserProfile(ctx context.Context, id uint, name, phone *string) error {
	updates := map[string]interface{}{}
	if name != nil {
		updates["name"] = *name
	}
	if phone != nil {
		updates["phone"] = *phone
	}
	if len(updates) == 0 {
		return nil
	}
	return affected(s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates))
}

func (s *GormStore) UpdateUserPassword(ctx context.Context, id uint, hash string) error {
	return affected(s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", hash))
}

func (s *GormStore) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Order("id DESC").Find(&users).Error
	return users, translate(err)
}

func (s *GormStore) DeleteUser(ctx context.Context, id uint) error {
	return affected(s.db.WithContext(ctx).Delete(&models.User{}, id))
}

func (s *GormStore) CountUsers(ctx context.Context, excludeRole models.Role) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("role <> ?", excludeRole).Count(&n).Error
	return n, translate(err)
}
