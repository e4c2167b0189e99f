// file: internal/handlers/api/v1/users/users_controller.go
package users

import (
	"encoding/json"
	"net/http"

	"castnfish/internal/contextutils"
	"castnfish/internal/response"
	"castnfish/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UserController struct {
	services *services.Collection
	logger   *zap.Logger
	builder  *response.Builder
}

// NewUserController creates a new user controller
func NewUserController(sc *services.Collection, logger *zap.Logger, builder *response.Builder) *UserController {
	return &UserController{services: sc, logger: logger, builder: builder}
}

// GetProfile returns a public profile by username
func (c *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		c.builder.WriteError(w, r, services.NewValidationError("username is required", nil))
		return
	}

	profile, err := c.services.User.GetProfileByUsername(r.Context(), username)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, profile)
}

// UpdateProfile edits the authenticated user's profile
func (c *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := contextutils.GetUserID(r.Context())
	if userID == 0 {
		c.builder.WriteUnauthorized(w, r, "user not authenticated")
		return
	}

	var req services.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}
	req.UserID = userID

	user, err := c.services.User.UpdateProfile(r.Context(), &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, user)
}

// UploadAvatar stores a new avatar for the authenticated user
func (c *UserController) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID := contextutils.GetUserID(r.Context())
	if userID == 0 {
		c.builder.WriteUnauthorized(w, r, "user not authenticated")
		return
	}

	if err := r.ParseMultipartForm(12 << 20); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("invalid multipart form", err))
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("avatar file is required", err))
		return
	}
	defer file.Close()

	user, err := c.services.User.UploadAvatar(r.Context(), &services.UploadAvatarRequest{
		UserID:      userID,
		File:        file,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	})
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, user)
}
