package main

import (
	"errors"

	"goblog/pkg/avatar"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// mutationsTotal counts mutation attempts by operation and outcome.
// Labels:
//   - op: post_create, post_update, post_delete, register, profile_update
//   - outcome: ok, auth_required, forbidden, not_found, conflict,
//     validation, invalid_image, error
var mutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "goblog",
		Name:      "mutations_total",
		Help:      "Total number of mutation attempts, labelled by operation and outcome.",
	},
	[]string{"op", "outcome"},
)

// countOutcome maps a service result onto the outcome label. Binding
// failures from the form layer count as validation outcomes too.
func countOutcome(op string, err error) {
	outcome := "ok"
	var verr *ValidationError
	var berr validator.ValidationErrors
	switch {
	case err == nil:
	case errors.Is(err, ErrAuthenticationRequired):
		outcome = "auth_required"
	case errors.Is(err, ErrForbidden):
		outcome = "forbidden"
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
	case errors.Is(err, ErrUniquenessConflict):
		outcome = "conflict"
	case errors.Is(err, avatar.ErrInvalidImage):
		outcome = "invalid_image"
	case errors.As(err, &verr), errors.As(err, &berr):
		outcome = "validation"
	default:
		outcome = "error"
	}
	mutationsTotal.WithLabelValues(op, outcome).Inc()
}
