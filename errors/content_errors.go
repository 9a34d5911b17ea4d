// api/errors/content_errors.go
package errors

import "errors"

var (
	ErrContentNotFound    = errors.New("content not found")
	ErrInvalidContentData = errors.New("invalid content data")
)
