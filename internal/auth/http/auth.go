package http

import (
	"net/http"

	"github.com/aussiebroadwan/doorman/internal/auth/guard"
	"github.com/aussiebroadwan/doorman/internal/auth/service"
	"github.com/aussiebroadwan/doorman/pkg/authsdk"
	"github.com/aussiebroadwan/doorman/pkg/httpx"
)

// AuthHandler serves the register, login and logout endpoints.
type AuthHandler struct {
	AuthService *service.AuthService
	Cookie      httpx.SessionCookie
}

func decodeCredentials(r *http.Request) (guard.Credentials, error) {
	var body authsdk.Credentials
	if err := httpx.DecodeJSON(r, &body); err != nil {
		return guard.Credentials{}, err
	}
	return guard.Credentials{Username: body.Username, Password: body.Password}, nil
}

// HandleRegister godoc
//
//	@Summary		Register
//	@Description	Creates a user. The username must be free and the password longer than 3 characters once surrounding whitespace is trimmed.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.Credentials		true	"username and password"
//	@Success		201		{object}	authsdk.UserResponse	"id, username"
//	@Failure		400		{object}	authsdk.MessageResponse	"Invalid request body"
//	@Failure		422		{object}	authsdk.MessageResponse	"Username taken | Password must be longer than 3 chars"
//	@Failure		500		{object}	authsdk.MessageResponse	"Internal server error"
//	@Router			/api/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	creds, err := decodeCredentials(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.AuthService.Register(r.Context(), creds)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.UserResponse{
		ID:       user.ID,
		Username: user.Username,
	})
}

// HandleLogin godoc
//
//	@Summary		Login
//	@Description	Verifies credentials and starts a session carried by an HttpOnly cookie.
//	@Description	An unknown username and a wrong password fail identically.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.Credentials		true	"username and password"
//	@Success		200		{object}	authsdk.MessageResponse	"Welcome {username}"
//	@Failure		400		{object}	authsdk.MessageResponse	"Invalid request body"
//	@Failure		401		{object}	authsdk.MessageResponse	"Invalid credentials"
//	@Failure		500		{object}	authsdk.MessageResponse	"Internal server error"
//	@Header			200		{string}	Set-Cookie				"session cookie"
//	@Router			/api/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	creds, err := decodeCredentials(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	sess, token, err := h.AuthService.Login(r.Context(), creds, h.Cookie.Read(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.Cookie.Set(w, token)
	httpx.WriteMessage(w, http.StatusOK, "Welcome "+sess.Username)
}

// HandleLogout godoc
//
//	@Summary		Logout
//	@Description	Ends the current session. Reports "no session" when there was none.
//	@Description	If the session cannot be destroyed the request fails and the session stays active.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	authsdk.MessageResponse	"logged out | no session"
//	@Failure		500	{object}	authsdk.MessageResponse	"Internal server error"
//	@Router			/api/auth/logout [get]
//	@Router			/api/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	token := h.Cookie.Read(r)
	msg, err := h.AuthService.Logout(r.Context(), token)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Drops stale cookies too.
	if token != "" {
		h.Cookie.Clear(w)
	}
	httpx.WriteMessage(w, http.StatusOK, msg)
}
