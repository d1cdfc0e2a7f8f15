package http

import (
	"net/http"
	"time"

	"github.com/algonex/license-portal/internal/application"
)

func (h *Handler) adminLogin(w http.ResponseWriter, r *http.Request) {
	var req application.AdminLoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "admin_login", err)
		return
	}
	if err := h.validateStruct(req); err != nil {
		writeValidationError(r.Context(), w, "admin_login", err)
		return
	}
	req.IPAddress = readIP(r)

	res, err := h.service.AdminLogin(r.Context(), req)
	if err != nil {
		writeDomainError(r.Context(), w, "admin_login", err)
		return
	}

	h.setSessionCookie(w, adminCookieName, res.SessionToken, res.ExpiresAt)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"message":      "Login successful",
		"sessionToken": res.SessionToken,
		"expiresAt":    res.ExpiresAt,
	})
}

func (h *Handler) adminVerify(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"authenticated": true})
}

func (h *Handler) clientSignup(w http.ResponseWriter, r *http.Request) {
	var req application.SignupRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "client_signup", err)
		return
	}
	if err := h.validateStruct(req); err != nil {
		writeValidationError(r.Context(), w, "client_signup", err)
		return
	}

	client, err := h.service.ClientSignup(r.Context(), req)
	if err != nil {
		writeDomainError(r.Context(), w, "client_signup", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Account created successfully",
		"client":  client,
	})
}

func (h *Handler) clientLogin(w http.ResponseWriter, r *http.Request) {
	var req application.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "client_login", err)
		return
	}
	if err := h.validateStruct(req); err != nil {
		writeValidationError(r.Context(), w, "client_login", err)
		return
	}
	req.IPAddress = readIP(r)

	res, err := h.service.ClientLogin(r.Context(), req)
	if err != nil {
		writeDomainError(r.Context(), w, "client_login", err)
		return
	}

	h.setSessionCookie(w, clientCookieName, res.SessionToken, res.ExpiresAt)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"message":      "Login successful",
		"sessionToken": res.SessionToken,
		"expiresAt":    res.ExpiresAt,
		"client":       res.Client,
	})
}

func (h *Handler) clientVerify(w http.ResponseWriter, r *http.Request) {
	client, ok := clientFromContext(r.Context())
	if !ok {
		writeUnauthorized(r.Context(), w, "client_verify", "client session required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"client":        client,
	})
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, name, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.opts.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}
