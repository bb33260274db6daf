package kafka

import (
	"context"
	"encoding/json"
	"log"
)

// MessageHandler processes one consumed message.
//
// shouldMark controls offset commit: a false return leaves the message
// unmarked so it is redelivered, which is how transient failures retry.
type MessageHandler interface {
	HandleMessage(ctx context.Context, message []byte) (shouldMark bool, err error)
}

// TypedMessageHandler decodes JSON messages into T before processing.
type TypedMessageHandler[T any] struct {
	// Validate checks whether the decoded message should be processed.
	Validate func(msg *T) bool
	// Process handles the message.
	Process func(ctx context.Context, msg *T) error
	// AlwaysMark commits messages that fail decoding or validation, so
	// malformed jobs don't wedge the partition.
	AlwaysMark bool
}

// HandleMessage implements MessageHandler.
func (h *TypedMessageHandler[T]) HandleMessage(ctx context.Context, message []byte) (bool, error) {
	var msg T
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Printf("❌ Failed to unmarshal message: %v", err)
		return h.AlwaysMark, nil
	}

	if h.Validate != nil && !h.Validate(&msg) {
		return h.AlwaysMark, nil
	}

	if err := h.Process(ctx, &msg); err != nil {
		return false, err
	}

	return true, nil
}
