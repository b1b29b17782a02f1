package errors

import "errors"

// Session-level sentinels shared across packages.
var (
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)
