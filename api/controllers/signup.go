package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/printcrm/api/responses"
	"github.com/angelmondragon/printcrm/api/validators"
	"github.com/angelmondragon/printcrm/internal/users"
	pkgerrors "github.com/angelmondragon/printcrm/pkg/errors"
	"github.com/angelmondragon/printcrm/pkg/logger"
)

// SignupService registers staff accounts.
type SignupService interface {
	Register(ctx context.Context, req users.SignupRequest) (*users.UserDTO, error)
}

func AuthSignup(svc SignupService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "signup service unavailable"))
			return
		}

		var payload users.SignupRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Register(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, user)
	}
}
