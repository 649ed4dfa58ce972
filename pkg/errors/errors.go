// Package errors holds the sentinel errors the middleware attaches to the
// gin context so the request log shows why a request was refused.
package errors

import "errors"

var (
	// ErrCSRFTokenInvalid the submitted form token does not match the session
	ErrCSRFTokenInvalid = errors.New("invalid or missing CSRF token")
	// ErrForbidden the signed-in role may not perform the action
	ErrForbidden = errors.New("you do not have permission to perform this action")
)
