package trigger

import "errors"

// ErrInvalidTrigger is returned when a trigger specification is malformed.
var ErrInvalidTrigger = errors.New("trigger: invalid")
