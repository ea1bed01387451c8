package authsdk

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogin_KeepsCookieForLaterCalls(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "abc", Path: "/"})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Welcome sue"}`))
	})
	mux.HandleFunc("GET /api/users", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("sid"); err != nil || c.Value != "abc" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"You shall not pass!"}`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":1,"username":"sue"}]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewSDKClient(srv.URL + "/")
	ctx := context.Background()

	_, err := client.ListUsers(ctx)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, "You shall not pass!", apiErr.Message)

	msg, err := client.Login(ctx, "sue", "1234")
	require.NoError(t, err)
	require.Equal(t, "Welcome sue", msg)

	users, err := client.ListUsers(ctx)
	require.NoError(t, err)
	require.Equal(t, []UserResponse{{ID: 1, Username: "sue"}}, users)
}

func TestParseErrorResponse_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewSDKClient(srv.URL).Register(context.Background(), "sue", "1234")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	require.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestAPIError_WriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	ErrInvalidRequestBody.WriteError(rec)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.JSONEq(t, `{"message":"Invalid request body"}`, rec.Body.String())
}
