package contract

import "errors"

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrChannelUnavailable   = errors.New("no active session channel")
	ErrPublishFailed        = errors.New("event publish failed")
	ErrRetrievalUnavailable = errors.New("retrieval index unavailable")
	ErrModelInvoke          = errors.New("model invoke failed")
	ErrSchemaViolation      = errors.New("model response violates schema")
)
