package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/doorman/pkg/httpx"
)

// APIError is an error response from the service. It is written by the
// server and decoded by the client.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// WriteError writes e as a JSON response.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteMessage(w, e.StatusCode, e.Message)
}

var (
	// ErrInvalidRequestBody is returned for bodies that are not valid JSON.
	ErrInvalidRequestBody = &APIError{
		StatusCode: http.StatusBadRequest,
		Message:    "Invalid request body",
	}

	// ErrInternal hides infrastructure failures from callers.
	ErrInternal = &APIError{
		StatusCode: http.StatusInternalServerError,
		Message:    "Internal server error",
	}
)

// parseErrorResponse builds an APIError from a non-success response.
func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
