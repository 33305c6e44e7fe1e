package http

import (
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/perfume-inventory/internal/service"
)

type authHandler struct {
	authSvc service.AuthService
}

func newAuthHandler(authSvc service.AuthService) *authHandler {
	return &authHandler{authSvc: authSvc}
}

func (h *authHandler) Register(w http.ResponseWriter, r *http.Request) error {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	user, err := h.authSvc.Register(r.Context(), service.Credentials(req))
	if err != nil {
		return fmt.Errorf("auth service register: %w", err)
	}

	return writeJSON(w, http.StatusCreated, user)
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) error {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	tok, err := h.authSvc.Login(r.Context(), service.Credentials(req))
	if err != nil {
		return fmt.Errorf("auth service login: %w", err)
	}

	return writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: tok.Token,
		TokenType:   "Bearer",
		ExpiresAt:   tok.ExpiresAt,
		User:        tok.User,
	})
}
