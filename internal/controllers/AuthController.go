package controllers

import (
	"errors"
	"net/http"
	"tourvisto/internal/clients"
	"tourvisto/internal/providers"
	"tourvisto/internal/services"
)

type AuthController struct {
	logger   providers.Logger
	identity services.IdentityServiceInterface
}

func NewAuthController(logger providers.Logger, identity services.IdentityServiceInterface) *AuthController {
	return &AuthController{
		logger:   logger,
		identity: identity,
	}
}

func (ac *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing session token")
		return
	}

	user, err := ac.identity.ResolveIdentity(r.Context(), token)
	if errors.Is(err, clients.ErrUnauthorized) {
		writeError(w, http.StatusUnauthorized, "no user session found")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, "failed to resolve user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	url, err := ac.identity.LoginURL()
	if err != nil {
		ac.logger.Errorf(providers.TypeGet, "Error during OAuth2 session creation: %s", err)
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	ac.identity.Logout(r.Context(), bearerToken(r))
	w.WriteHeader(http.StatusNoContent)
}
