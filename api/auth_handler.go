package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/rpupo63/portfolio-gallery-backend/errs"
)

type authHandler struct {
	responder    Responder
	logger       zerolog.Logger
	issuer       tokenIssuer
	passwordHash []byte
}

func newAuthHandler(issuer tokenIssuer, passwordHash []byte) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		issuer:       issuer,
		passwordHash: passwordHash,
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// login exchanges the admin password for a bearer token
// @Summary Admin login
// @Description Verifies the admin password and returns a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Admin password"
// @Success 200 {object} loginResponse "Bearer token"
// @Failure 401 {object} ErrorResponse "Unauthorized - wrong password"
// @Router /auth/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("login", err))
			return
		}

		if strings.TrimSpace(req.Password) == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("password"))
			return
		}

		if err := bcrypt.CompareHashAndPassword(h.passwordHash, []byte(req.Password)); err != nil {
			h.logger.Warn().Str("remote_addr", r.RemoteAddr).Msg("Rejected admin login attempt")
			h.responder.WriteError(w, errs.NewUnauthorizedError("invalid password"))
			return
		}

		token, expiresAt, err := h.issuer.issue()
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalError("failed to issue token"))
			return
		}

		h.responder.WriteJSON(w, loginResponse{Token: token, ExpiresAt: expiresAt})
	}
}

// me reports the authenticated subject behind the supplied token
// @Summary Current user
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]string "Authenticated subject"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /auth/me [get]
func (h authHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject, ok := ctxGetAdminSubject(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.NewUnauthorizedError("not authenticated"))
			return
		}
		h.responder.WriteJSON(w, map[string]string{"subject": subject})
	}
}

// logout acknowledges a sign-out. Tokens are stateless, so the client simply
// discards its copy.
// @Summary Admin logout
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]string "Success message"
// @Router /auth/logout [post]
func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "signed out",
		})
	}
}
