package middleware

import "errors"

var (
	errMissingToken     = errors.New("missing or invalid token")
	errNoIdentity       = errors.New("forbidden")
	errInsufficientRole = errors.New("insufficient role")
)
