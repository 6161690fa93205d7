package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexivanou/weather-requests-api/internal/apperr"
	"github.com/alexivanou/weather-requests-api/internal/auth"
	"github.com/alexivanou/weather-requests-api/internal/model"
	"github.com/alexivanou/weather-requests-api/internal/repository"
)

var errBadCredentials = apperr.New(apperr.Unauthorized, "Invalid credentials", "Invalid username or password")

// Signup registers a user and signs them in
func (s *Service) Signup(ctx context.Context, req model.SignupRequest) (*model.AuthResponse, error) {
	hash, err := auth.HashPassword(req.Password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return nil, apperr.Wrap(apperr.InvalidInput, err, "Invalid password",
			fmt.Sprintf("password must be at most %d bytes", auth.MaxPasswordBytes))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     req.Username,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.New(apperr.Conflict, "Username taken", "Username already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &model.AuthResponse{Token: token, User: *user}, nil
}

// Login checks credentials and opens a session
func (s *Service) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, errBadCredentials
	}

	ok, err := auth.CheckPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to check password: %w", err)
	}
	if !ok {
		return nil, errBadCredentials
	}

	token, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &model.AuthResponse{Token: token, User: *user}, nil
}

// Logout ends the session behind token
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

// Authenticate returns the user owning a live token
func (s *Service) Authenticate(ctx context.Context, token string) (*model.User, error) {
	userID, err := s.sessions.Lookup(ctx, token)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperr.New(apperr.Unauthorized, "Unauthorized", "invalid or expired token")
	}
	return user, nil
}
