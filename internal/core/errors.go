package core

import "errors"

// Error codes for domain errors surfaced over the protocol.
const (
	ErrCodeBadRequest     = "bad_request"
	ErrCodeUnknownTool    = "unknown_tool"
	ErrCodeInvalidMessage = "invalid_message"
)

var ErrBadRequest = errors.New("bad request")

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}
