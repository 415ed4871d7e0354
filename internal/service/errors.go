package service

import "errors"

// ErrNotFound signals an administrative mutation against a normalized key
// (or allocation pair) with zero matching rows. Handlers map it to 404; no
// partial state change has occurred.
var ErrNotFound = errors.New("not found")
