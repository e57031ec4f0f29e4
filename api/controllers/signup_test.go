package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/angelmondragon/printcrm/internal/users"
	pkgerrors "github.com/angelmondragon/printcrm/pkg/errors"
)

type stubSignup struct {
	taken map[string]bool
}

func (s stubSignup) Register(_ context.Context, req users.SignupRequest) (*users.UserDTO, error) {
	if s.taken[req.Email] {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "user already exists")
	}
	return &users.UserDTO{ID: 1, FullName: req.FullName, Email: req.Email}, nil
}

func TestAuthSignupCreatesUser(t *testing.T) {
	body := `{"fullname":"Kim Reyes","email":"kim@shop.test","password":"correct-horse"}`
	resp := serve(t, http.MethodPost, "/api/v1/auth/signup", "/api/v1/auth/signup", body, AuthSignup(stubSignup{}, nil))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	var user users.UserDTO
	decodeData(t, resp, &user)
	if user.Email != "kim@shop.test" {
		t.Fatalf("unexpected user %+v", user)
	}
}

func TestAuthSignupValidation(t *testing.T) {
	body := `{"fullname":"Kim","email":"not-an-email","password":"short"}`
	resp := serve(t, http.MethodPost, "/api/v1/auth/signup", "/api/v1/auth/signup", body, AuthSignup(stubSignup{}, nil))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAuthSignupDuplicate(t *testing.T) {
	body := `{"fullname":"Kim","email":"kim@shop.test","password":"correct-horse"}`
	svc := stubSignup{taken: map[string]bool{"kim@shop.test": true}}
	resp := serve(t, http.MethodPost, "/api/v1/auth/signup", "/api/v1/auth/signup", body, AuthSignup(svc, nil))

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	if code := errorCode(t, resp); code != string(pkgerrors.CodeConflict) {
		t.Fatalf("unexpected code %s", code)
	}
}
