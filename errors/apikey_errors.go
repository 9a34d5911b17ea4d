// api/errors/apikey_errors.go
package errors

import "errors"

var (
	ErrAPIKeyNotFound = errors.New("api key not found")
	ErrAPIKeyInactive = errors.New("api key is inactive")
	ErrAPIKeyExpired  = errors.New("api key has expired")
)
