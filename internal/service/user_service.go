package service

import (
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/model"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/repository"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

type CreateUserInput struct {
	Name     string         `json:"name" binding:"required"`
	Email    string         `json:"email" binding:"required,email"`
	Password string         `json:"password" binding:"required,min=8"`
	Role     model.UserRole `json:"role" binding:"required,oneof=admin recruiter viewer"`
}

func (s *UserService) Create(input *CreateUserInput) (*model.User, error) {
	if _, err := s.userRepo.FindByEmail(input.Email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hashed),
		Role:     input.Role,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	user.Password = ""
	return user, nil
}

func (s *UserService) GetByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	user.Password = ""
	return user, nil
}

func (s *UserService) List(page, limit int, role, search string) ([]model.User, int64, error) {
	users, total, err := s.userRepo.List(page, limit, role, search)
	if err != nil {
		return nil, 0, err
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, total, nil
}

type UpdateUserInput struct {
	Name     string          `json:"name"`
	Role     *model.UserRole `json:"role"`
	Disabled *bool           `json:"disabled"`
}

func (s *UserService) Update(id uint, input *UpdateUserInput) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.Disabled != nil {
		user.Disabled = *input.Disabled
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	user.Password = ""
	return user, nil
}

func (s *UserService) Delete(id uint) error {
	if _, err := s.userRepo.FindByID(id); err != nil {
		return util.ErrUserNotFound
	}
	return s.userRepo.Delete(id)
}

// ResetPassword sets a new password without requiring the old one.
// Admin-only; the auth service handles self-service changes.
func (s *UserService) ResetPassword(id uint, newPassword string) error {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return util.ErrUserNotFound
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.Password = string(hashed)
	return s.userRepo.Update(user)
}
