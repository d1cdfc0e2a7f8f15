package http

import (
	"net/http"

	"github.com/algonex/license-portal/internal/application"
)

func (h *Handler) requestLicense(w http.ResponseWriter, r *http.Request) {
	client, ok := clientFromContext(r.Context())
	if !ok {
		writeUnauthorized(r.Context(), w, "request_license", "client session required")
		return
	}

	var req application.RequestLicenseRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "request_license", err)
		return
	}
	if err := h.validateStruct(req); err != nil {
		writeValidationError(r.Context(), w, "request_license", err)
		return
	}

	res, err := h.service.RequestLicense(r.Context(), req, client)
	if err != nil {
		writeDomainError(r.Context(), w, "request_license", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":    true,
		"message":    "License request submitted for approval",
		"licenseKey": res.LicenseKey,
		"data":       res.License,
	})
}

func (h *Handler) myLicenses(w http.ResponseWriter, r *http.Request) {
	client, ok := clientFromContext(r.Context())
	if !ok {
		writeUnauthorized(r.Context(), w, "my_licenses", "client session required")
		return
	}

	licenses, err := h.service.MyLicenses(r.Context(), client)
	if err != nil {
		writeDomainError(r.Context(), w, "my_licenses", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"licenses": licenses,
	})
}
