// Package chattypes defines the shared data model for the adchat client.
// This file contains the conversation message types exchanged with the
// analytics assistant and stored in the chat history.
package chattypes

import (
	"strconv"
	"time"
)

// Role identifies the author of a conversation message.
type Role string

// Message roles. The wire protocol only ever carries these two values.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single conversational turn. Messages are immutable
// once created; the chat history only appends them.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// ImageData holds an optional base64-encoded raster image rendered
	// inline as a chart in assistant replies.
	ImageData string `json:"imageData,omitempty"`
}

// NewUserMessage creates a user message stamped with the current time.
// The ID derives from the send time in unix milliseconds.
func NewUserMessage(content string) Message {
	now := time.Now()
	return Message{
		ID:        strconv.FormatInt(now.UnixMilli(), 10),
		Content:   content,
		Role:      RoleUser,
		Timestamp: now,
	}
}

// HasImage reports whether the message carries an embedded chart image.
func (m Message) HasImage() bool {
	return m.ImageData != ""
}
