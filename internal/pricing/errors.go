package pricing

import "errors"

// ErrInvalidContext wraps every validation failure returned by Context.Validate.
// The wrapped *validation.Error carries the offending fields.
var ErrInvalidContext = errors.New("invalid pricing context")
