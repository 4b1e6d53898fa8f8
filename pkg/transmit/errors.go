package transmit

import "errors"

var (
	// ErrAuthentication means no session token could be obtained.
	ErrAuthentication = errors.New("authentication failed")
	// ErrUnauthorized means the collector refused the cached token.
	ErrUnauthorized = errors.New("collector rejected session token")
	ErrRejected     = errors.New("collector rejected reading")
)
