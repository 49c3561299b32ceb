package http

import (
	"net/http"
	"time"

	"github.com/atinyakov/MediaKeeper/internal/apperrors"
	"github.com/atinyakov/MediaKeeper/internal/middleware"
)

// UserHandler handles HTTP requests for the user profile.
type UserHandler struct{}

// profileResponse is the body returned by the profile endpoint.
type profileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Me handles GET /users/me.
// It returns the profile of the authenticated user resolved by the
// authentication middleware. The password hash is never included.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		apperrors.WriteMessage(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		ID:        user.ID,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	})
}
