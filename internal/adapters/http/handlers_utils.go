package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/algonex/license-portal/internal/domain"
)

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return errors.New("invalid JSON body")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}

// validateStruct flattens validator output into one caller-friendly
// message naming the offending fields.
func (h *Handler) validateStruct(payload any) error {
	err := h.validate.Struct(payload)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	missing := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			missing = append(missing, fe.Field()+" is required")
		case "oneof":
			missing = append(missing, fe.Field()+" must be one of: "+strings.ReplaceAll(fe.Param(), " ", ", "))
		default:
			missing = append(missing, fe.Field()+" is invalid")
		}
	}
	return errors.New(strings.Join(missing, "; "))
}

func readIP(r *http.Request) string {
	if xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	host := strings.TrimSpace(r.RemoteAddr)
	if idx := strings.LastIndex(host, ":"); idx > 0 {
		return host[:idx]
	}
	return host
}

// mapDomainError picks the HTTP status and error label for a service
// failure. Conflict payload extras are handled by writeDomainError.
func mapDomainError(err error) (int, string, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "Validation error", err.Error()
	case errors.Is(err, domain.ErrDuplicateKey):
		return http.StatusConflict, "Duplicate license key", err.Error()
	case errors.Is(err, domain.ErrDuplicatePending):
		return http.StatusConflict, "Duplicate request", err.Error()
	case errors.Is(err, domain.ErrDuplicateBinding):
		return http.StatusConflict, "Duplicate license", err.Error()
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, "Duplicate email", "an account with this email already exists"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Unauthorized", "invalid credentials"
	case errors.Is(err, domain.ErrAccountInactive):
		return http.StatusForbidden, "Account inactive", "this account is not active"
	case errors.Is(err, domain.ErrAccountLocked):
		return http.StatusTooManyRequests, "Too many attempts", "too many failed attempts, try again later"
	case errors.Is(err, domain.ErrSessionExpired):
		return http.StatusUnauthorized, "Session expired", "session expired, log in again"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized", "invalid or missing session"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "Not found", err.Error()
	case errors.Is(err, domain.ErrServerConfiguration):
		return http.StatusInternalServerError, "Server error", "server is not configured for this operation"
	default:
		return http.StatusInternalServerError, "Server error", "internal server error"
	}
}

// writeDomainError maps and emits a service failure, attaching the
// conflicting-record fields when the error carries them.
func writeDomainError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	status, label, msg := mapDomainError(err)

	var conflict *domain.BindingConflictError
	if errors.As(err, &conflict) {
		msg = conflict.Message
		logHTTPOperationError(ctx, operation, status, label, msg, err)
		body := map[string]any{
			"error":   label,
			"message": msg,
		}
		if conflict.ExistingKey != "" {
			body["existingLicenseKey"] = conflict.ExistingKey
		}
		if conflict.ExistingStatus != "" {
			body["existingStatus"] = conflict.ExistingStatus
		}
		if conflict.AutoRejected {
			body["autoRejected"] = true
		}
		writeJSON(w, status, body)
		return
	}

	logHTTPOperationError(ctx, operation, status, label, msg, err)
	writeError(w, status, label, msg)
}

func writeValidationError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	logHTTPOperationError(ctx, operation, http.StatusBadRequest, "Validation error", err.Error(), err)
	writeError(w, http.StatusBadRequest, "Validation error", err.Error())
}

func writeUnauthorized(ctx context.Context, w http.ResponseWriter, operation, message string) {
	logHTTPOperationError(ctx, operation, http.StatusUnauthorized, "Unauthorized", message, nil)
	writeError(w, http.StatusUnauthorized, "Unauthorized", message)
}
