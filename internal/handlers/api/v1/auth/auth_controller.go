// file: internal/handlers/api/v1/auth/auth_controller.go
package auth

import (
	"encoding/json"
	"net/http"

	"castnfish/internal/contextutils"
	"castnfish/internal/response"
	"castnfish/internal/services"

	"go.uber.org/zap"
)

type AuthController struct {
	services *services.Collection
	logger   *zap.Logger
	builder  *response.Builder
}

// NewAuthController creates a new auth controller
func NewAuthController(sc *services.Collection, logger *zap.Logger, builder *response.Builder) *AuthController {
	return &AuthController{services: sc, logger: logger, builder: builder}
}

// Register handles account creation
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	resp, err := c.services.Auth.Register(r.Context(), &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteCreated(w, r, resp)
}

// Login handles credential verification
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	resp, err := c.services.Auth.Login(r.Context(), &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, resp)
}

// Me returns the authenticated user's own profile
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	userID := contextutils.GetUserID(r.Context())
	if userID == 0 {
		c.builder.WriteUnauthorized(w, r, "user not authenticated")
		return
	}

	profile, err := c.services.User.GetProfile(r.Context(), userID)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, profile)
}
