package service

import "errors"

var (
	// ErrEmbeddingNotFound is returned when no script embedding has the id.
	ErrEmbeddingNotFound = errors.New("script embedding not found")

	// ErrVideoNotFound is returned when an operation names an unknown video.
	ErrVideoNotFound = errors.New("video not found")

	// ErrVideoAlreadyAssigned is returned when another embedding already
	// holds the video id.
	ErrVideoAlreadyAssigned = errors.New("video already has a script embedding")

	// ErrChatDisabled is returned when no language model API key is configured.
	ErrChatDisabled = errors.New("chatbot is not configured")

	// ErrChatFailed wraps failures of the language model endpoint.
	ErrChatFailed = errors.New("chat completion failed")
)

// ValidationError reports user input the service refuses to store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}
