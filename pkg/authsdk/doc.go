/*
Package authsdk is a Go client for the Doorman authentication service.

The service keeps sessions server-side and identifies them with a cookie, so
the client carries a cookie jar and a login made through a Client applies to
every later call on that same Client:

	client := authsdk.NewSDKClient("http://localhost:8080")

	user, err := client.Register(ctx, "sue", "1234")

	welcome, err := client.Login(ctx, "sue", "1234")

	users, err := client.ListUsers(ctx) // requires a session

	msg, err := client.Logout(ctx) // "logged out", then "no session"

Failed requests return *APIError carrying the HTTP status and the server's
message:

	var apiErr *authsdk.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		// "Invalid credentials" or "You shall not pass!"
	}

The same error type is used by the server to write its responses, so both
sides agree on the wire format.
*/
package authsdk
