package common

import (
	"encoding/json"
	"net/http"

	apperrors "catalog-backend/pkg/errors"
)

// Envelope is the uniform response shape every endpoint returns.
type Envelope struct {
	StatusCode int `json:"statusCode"`
	Body       any `json:"body"`
}

// ErrorBody carries a human-readable error inside the envelope.
type ErrorBody struct {
	ErrorMessage string `json:"errorMessage"`
}

// RespondJSON writes a success envelope.
func RespondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Envelope{StatusCode: status, Body: body})
}

// RespondError maps an error onto the envelope. AppErrors carry their own
// HTTP status; anything else is an internal error.
func RespondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"
	if appErr := apperrors.GetAppError(err); appErr != nil {
		status = appErr.HTTPStatus
		message = appErr.Message
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Envelope{StatusCode: status, Body: ErrorBody{ErrorMessage: message}})
}
