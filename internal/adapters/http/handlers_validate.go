package http

import (
	"errors"
	"net/http"

	"github.com/algonex/license-portal/internal/application"
	"github.com/algonex/license-portal/internal/domain"
)

// validateLicense is the product-facing check. Its responses carry only
// a status and, on success, the expiry date.
func (h *Handler) validateLicense(w http.ResponseWriter, r *http.Request) {
	var req application.ValidateLicenseRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"status":  "invalid",
			"message": "invalid request body",
		})
		return
	}

	res, err := h.service.ValidateLicense(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLicenseExpired):
			writeJSON(w, http.StatusForbidden, map[string]any{
				"status":  "expired",
				"message": "license is expired or inactive",
			})
		case errors.Is(err, domain.ErrLicenseInvalid):
			writeJSON(w, http.StatusForbidden, map[string]any{
				"status":  "invalid",
				"message": "license not found or does not match this account and terminal",
			})
		default:
			logHTTPOperationError(r.Context(), "validate_license", http.StatusInternalServerError, "Server error", "internal server error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"status":  "error",
				"message": "internal server error",
			})
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"expiry": res.ExpiryDate,
	})
}
