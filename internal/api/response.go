package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alexivanou/weather-requests-api/internal/apperr"
	"github.com/alexivanou/weather-requests-api/internal/model"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Error encoding response", zap.Error(err))
	}
}

// statusOf maps an error kind to its HTTP status.
func statusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.InvalidInput:
		return http.StatusBadRequest
	case apperr.Unauthorized:
		return http.StatusUnauthorized
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Conflict:
		return http.StatusConflict
	case apperr.UpstreamUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	status := statusOf(err)
	title, message, ok := apperr.Describe(err)
	if !ok || status == http.StatusInternalServerError {
		title, message = "Internal server error", "an unexpected error occurred"
	}

	fields := []zap.Field{
		zap.String("request_id", RequestIDFrom(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", fields...)
	} else {
		logger.Debug("Request rejected", fields...)
	}

	writeJSON(w, logger, status, model.ErrorResponse{Error: title, Message: message})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return apperr.Wrap(apperr.InvalidInput, err, "Invalid request body", "request body is not valid JSON")
		}
		return apperr.Wrap(apperr.InvalidInput, err, "Invalid request body", err.Error())
	}
	return nil
}
