// Package users handles staff sign-up.
package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/printcrm/internal/repo"
	"github.com/angelmondragon/printcrm/pkg/db"
	"github.com/angelmondragon/printcrm/pkg/db/models"
	pkgerrors "github.com/angelmondragon/printcrm/pkg/errors"
)

type userRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type passwordHasher interface {
	Hash(password string) (string, error)
}

// Service registers staff accounts.
type Service interface {
	Register(ctx context.Context, req SignupRequest) (*UserDTO, error)
}

type service struct {
	repo   userRepository
	hasher passwordHasher
}

// NewService wires the sign-up flow.
func NewService(repo userRepository, hasher passwordHasher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if hasher == nil {
		return nil, fmt.Errorf("password hasher required")
	}
	return &service{repo: repo, hasher: hasher}, nil
}

func (s *service) Register(ctx context.Context, req SignupRequest) (*UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	fullName := strings.TrimSpace(req.FullName)
	if email == "" || fullName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fullname and email are required")
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "user already exists")
	} else if !repo.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check user email")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid password")
	}

	user := &models.User{FullName: fullName, Email: email, PasswordHash: hash}
	if err := s.repo.Create(ctx, user); err != nil {
		// A concurrent sign-up can pass the lookup above.
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "user already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return FromModel(user), nil
}
