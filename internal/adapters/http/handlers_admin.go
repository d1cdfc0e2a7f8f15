package http

import (
	"net/http"

	"github.com/algonex/license-portal/internal/application"
)

func (h *Handler) listLicenses(w http.ResponseWriter, r *http.Request) {
	licenses, err := h.service.ListLicenses(r.Context())
	if err != nil {
		writeDomainError(r.Context(), w, "list_licenses", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    licenses,
	})
}

func (h *Handler) createLicense(w http.ResponseWriter, r *http.Request) {
	var req application.CreateLicenseRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "create_license", err)
		return
	}
	if err := h.validateStruct(req); err != nil {
		writeValidationError(r.Context(), w, "create_license", err)
		return
	}

	license, err := h.service.CreateLicense(r.Context(), req)
	if err != nil {
		writeDomainError(r.Context(), w, "create_license", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "License created successfully",
		"data":    license,
	})
}

func (h *Handler) updateLicense(w http.ResponseWriter, r *http.Request) {
	var req application.UpdateLicenseRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "update_license", err)
		return
	}
	if err := h.validateStruct(req); err != nil {
		writeValidationError(r.Context(), w, "update_license", err)
		return
	}

	license, err := h.service.UpdateLicense(r.Context(), req)
	if err != nil {
		writeDomainError(r.Context(), w, "update_license", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "License updated successfully",
		"data":    license,
	})
}

func (h *Handler) deleteLicense(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("licenseKey")
	if err := h.service.DeleteLicense(r.Context(), key); err != nil {
		writeDomainError(r.Context(), w, "delete_license", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "License deleted successfully",
	})
}

func (h *Handler) listPending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.service.ListPending(r.Context())
	if err != nil {
		writeDomainError(r.Context(), w, "list_pending", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"pendingRequests": pending,
		"count":           len(pending),
	})
}

func (h *Handler) approveLicense(w http.ResponseWriter, r *http.Request) {
	var req application.ApproveLicenseRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "approve_license", err)
		return
	}

	license, err := h.service.ApproveLicense(r.Context(), req)
	if err != nil {
		writeDomainError(r.Context(), w, "approve_license", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "License approved successfully",
		"data":    license,
	})
}

func (h *Handler) rejectLicense(w http.ResponseWriter, r *http.Request) {
	var req application.RejectLicenseRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "reject_license", err)
		return
	}

	license, err := h.service.RejectLicense(r.Context(), req)
	if err != nil {
		writeDomainError(r.Context(), w, "reject_license", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "License request rejected",
		"data":    license,
	})
}
