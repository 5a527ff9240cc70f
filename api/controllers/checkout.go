package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jsamongk12147998-oss/foodhub-sub000/api/middleware"
	"github.com/jsamongk12147998-oss/foodhub-sub000/api/responses"
	"github.com/jsamongk12147998-oss/foodhub-sub000/api/validators"
	checkoutsvc "github.com/jsamongk12147998-oss/foodhub-sub000/internal/checkout"
	pkgerrors "github.com/jsamongk12147998-oss/foodhub-sub000/pkg/errors"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/logger"
)

type checkoutRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
}

// Checkout places one order per vendor from the caller's cart.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		userID, err := userIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.PlaceOrder(r.Context(), userID, payload.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, "Order placed successfully", result)
	}
}

func userIDFromContext(r *http.Request) (uuid.UUID, error) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return userID, nil
}
