package errors

import (
	stderrors "errors"

	"golang.org/x/text/encoding"
)

// IsDecodeError reports whether err comes from rejecting non UTF-8 content.
func IsDecodeError(err error) bool {
	return stderrors.Is(err, encoding.ErrInvalidUTF8)
}
