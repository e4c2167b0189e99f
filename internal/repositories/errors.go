// internal/repositories/errors.go
package repositories

import "errors"

// Sentinel errors surfaced by repositories so services can map them to
// domain error codes without string matching.
var (
	ErrEventNotFound = errors.New("event not found")
	ErrEventFull     = errors.New("event is at capacity")
	ErrReplyNotFound = errors.New("reply not found")
)
