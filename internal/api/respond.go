package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"linkup/infrastructure"
)

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// WriteError maps the domain error taxonomy to structured responses:
// validation failures carry a per-field error map, authorization refusals and
// missing resources get their own statuses, everything else is a 500 with a
// generic message.
func WriteError(w http.ResponseWriter, err error) {
	var ve *infrastructure.ValidationError
	if errors.As(err, &ve) {
		WriteJSON(w, http.StatusBadRequest, map[string]any{
			"message": "Validation errors",
			"errors":  ve.Fields,
		})
		return
	}
	if infrastructure.IsAuthorization(err) {
		WriteJSON(w, http.StatusForbidden, map[string]string{"message": err.Error()})
		return
	}
	if infrastructure.IsNotFound(err) {
		WriteJSON(w, http.StatusNotFound, map[string]string{"message": err.Error()})
		return
	}
	slog.Error("request failed", "error", err)
	WriteJSON(w, http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
}
