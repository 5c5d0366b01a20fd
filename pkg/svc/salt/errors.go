package salt

import "errors"

// ErrMalformedResponse indicates the dispatcher returned a per-node blob that
// is not shaped as expected (node value not an object, missing required
// fields, wrong value types).
var ErrMalformedResponse = errors.New("malformed dispatcher response")

// ErrInvalidField indicates a caller requested aggregation on a field key
// that is not a valid key.
var ErrInvalidField = errors.New("invalid aggregation field")

// ErrDispatchFailed indicates the salt-api call itself failed.
var ErrDispatchFailed = errors.New("salt dispatch failed")

// ErrAuthFailed indicates salt-api authentication failed.
var ErrAuthFailed = errors.New("salt-api authentication failed")
