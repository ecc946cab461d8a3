package service

import (
	"context"
	"dcasassess/internal/model"
	"dcasassess/internal/repository"
	"fmt"
	"strings"
)

// UserService manages assessment takers
type UserService struct {
	userRepo repository.UserRepo
}

func NewUserService(userRepo repository.UserRepo) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register creates a user or updates the name/phone of an existing one
func (s *UserService) Register(ctx context.Context, req model.RegisterUserRequest) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if existing != nil {
		changed := false
		if name := strings.TrimSpace(req.Name); name != "" && name != existing.Name {
			existing.Name = name
			changed = true
		}
		if phone := strings.TrimSpace(req.Phone); phone != "" && phone != existing.Phone {
			existing.Phone = phone
			changed = true
		}
		if changed {
			if err := s.userRepo.UpdateProfile(ctx, existing); err != nil {
				return nil, fmt.Errorf("failed to update user: %w", err)
			}
		}
		return existing, nil
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required for new users", ErrValidation)
	}
	user := &model.User{
		Email: email,
		Name:  name,
		Phone: strings.TrimSpace(req.Phone),
		Role:  model.RoleStudent,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// FindOrCreate resolves the session owner for a start request
func (s *UserService) FindOrCreate(ctx context.Context, name, email, phone, institution string) (*model.User, error) {
	user, err := s.Register(ctx, model.RegisterUserRequest{Name: name, Email: email, Phone: phone})
	if err != nil {
		return nil, err
	}
	if institution != "" && user.Meta.Institution == "" {
		user.Meta.Institution = institution
		if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	return user, nil
}
