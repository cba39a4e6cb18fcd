package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"DocControl/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeDetail — единый формат ошибок API: {"detail": <сообщение>}.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeServiceError маппит ошибки сервисного слоя в HTTP-статусы.
// Для ресурсов по ID отказ владения маппится в 404 (ErrDocumentNotFound
// приходит уже замаскированным из AccessPolicy); для путей — 400/403.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		writeDetail(w, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrDocumentNotFound):
		writeDetail(w, http.StatusNotFound, "Document not found")
	case errors.Is(err, service.ErrFileMissing):
		writeDetail(w, http.StatusNotFound, "File not found")
	case errors.Is(err, service.ErrInvalidPath):
		writeDetail(w, http.StatusBadRequest, "Invalid file path")
	case errors.Is(err, service.ErrPathNotAllowed):
		writeDetail(w, http.StatusForbidden, "Access to this path is not allowed")
	case errors.Is(err, service.ErrForbidden):
		writeDetail(w, http.StatusForbidden, "Access denied")
	case errors.Is(err, service.ErrBadCredentials):
		writeDetail(w, http.StatusUnauthorized, "Invalid login or password")
	case errors.Is(err, service.ErrLoginTaken):
		writeDetail(w, http.StatusConflict, "Login already taken")
	default:
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}
