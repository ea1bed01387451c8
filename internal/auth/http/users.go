package http

import (
	"net/http"

	"github.com/aussiebroadwan/doorman/internal/auth/domain"
	"github.com/aussiebroadwan/doorman/internal/auth/service"
	"github.com/aussiebroadwan/doorman/pkg/authsdk"
	"github.com/aussiebroadwan/doorman/pkg/httpx"
)

// UsersHandler serves GET /api/users.
type UsersHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		List users
//	@Description	Lists every registered user. Requires a session.
//	@Tags			Users
//	@Produce		json
//	@Success		200	{array}		authsdk.UserResponse	"id, username"
//	@Failure		401	{object}	authsdk.MessageResponse	"You shall not pass!"
//	@Failure		500	{object}	authsdk.MessageResponse	"Internal server error"
//	@Security		SessionCookie
//	@Router			/api/users [get].
func (h *UsersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sess := httpx.SessionFromContext[domain.Session](r.Context())

	users, err := h.AuthService.ListUsers(r.Context(), sess)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]authsdk.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, authsdk.UserResponse{ID: u.ID, Username: u.Username})
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
