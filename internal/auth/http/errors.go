package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/doorman/internal/auth/guard"
	"github.com/aussiebroadwan/doorman/pkg/authsdk"
	"github.com/aussiebroadwan/doorman/pkg/httpx"
	"github.com/aussiebroadwan/doorman/pkg/slogx"
)

// writeError is the error boundary. Guard failures go out verbatim; anything
// else is logged and reported as a generic server error.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if f, ok := guard.AsFailure(err); ok {
		httpx.WriteMessage(w, f.Status, f.Message)
		return
	}
	if errors.Is(err, httpx.ErrInvalidBody) {
		authsdk.ErrInvalidRequestBody.WriteError(w)
		return
	}

	slogx.FromContext(r.Context()).Error("request failed", "error", err)
	authsdk.ErrInternal.WriteError(w)
}
