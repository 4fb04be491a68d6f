package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/notewise/notewise-be/internal/apperrors"
	"github.com/rs/zerolog/log"
)

// apiResponse is the envelope every endpoint answers with.
type apiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func respondData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, apiResponse{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, apiResponse{Success: true, Message: message, Data: data})
}

func respondList(w http.ResponseWriter, count int, data interface{}) {
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Count: &count, Data: data})
}

// respondError converts any service error into the envelope. Unexpected
// errors are logged and surface as a generic 500.
func respondError(w http.ResponseWriter, err error) {
	status := apperrors.StatusOf(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("Unexpected request failure")
	}
	writeJSON(w, status, apiResponse{Success: false, Message: apperrors.MessageOf(err)})
}

func writeJSON(w http.ResponseWriter, status int, body apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
