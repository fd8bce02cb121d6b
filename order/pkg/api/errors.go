package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/mbakhodurov/week1/shared/pkg/apperr"
)

type errorResponse struct {
	Code    apperr.Code    `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func statusFor(e *apperr.Error) int {
	switch e.Kind {
	case apperr.KindPolicy:
		return http.StatusServiceUnavailable
	case apperr.KindValidation:
		if e.Code == apperr.CodeInsufficientStock {
			return http.StatusConflict
		}
		return http.StatusBadRequest
	case apperr.KindProvider:
		return http.StatusBadGateway
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as {code, message}. Internal causes are logged,
// never returned.
func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	e := apperr.From(err)
	status := statusFor(e)

	resp := errorResponse{Code: e.Code, Message: e.Message, Details: e.Fields}
	var typed *apperr.Error
	if status == http.StatusInternalServerError {
		resp = errorResponse{Code: apperr.CodeInternal, Message: "internal error"}
		log.ErrorContext(r.Context(), "request failed", "err", err, "request_id", middleware.GetReqID(r.Context()))
	} else if errors.As(err, &typed) && typed.Err != nil {
		log.WarnContext(r.Context(), "request rejected", "code", e.Code, "err", typed.Err)
	}

	render.Status(r, status)
	render.JSON(w, r, resp)
}
