package region

import "errors"

// ErrUnknownMode is returned by ParseMode for unsupported region modes.
var ErrUnknownMode = errors.New("unknown region mode")
