// Package chattypes defines the shared data model for the adchat client.
// This file contains the wire envelope, the single unit of exchange over the
// WebSocket connection in both directions.
package chattypes

import (
	"encoding/json"
	"fmt"
)

// EnvelopeType discriminates the envelope payload variants.
type EnvelopeType string

// Envelope discriminator values.
const (
	EnvelopeMessage        EnvelopeType = "message"
	EnvelopeTyping         EnvelopeType = "typing"
	EnvelopeError          EnvelopeType = "error"
	EnvelopeSettingsUpdate EnvelopeType = "settings_update"
)

// Envelope is the tagged union exchanged over the realtime connection.
// Exactly one member of Data is populated, selected by Type. Outbound
// traffic from this client only ever constructs the message variant;
// settings_update is reserved for a future remote-push settings feature.
type Envelope struct {
	Type EnvelopeType `json:"type"`
	Data EnvelopeData `json:"data"`
}

// EnvelopeData carries the variant payloads. Optional members use pointers
// so absence is distinguishable on the wire.
type EnvelopeData struct {
	Message  *Message       `json:"message,omitempty"`
	IsTyping *bool          `json:"isTyping,omitempty"`
	Error    string         `json:"error,omitempty"`
	Settings *ModelSettings `json:"settings,omitempty"`
}

// NewMessageEnvelope wraps a message for transmission.
func NewMessageEnvelope(msg Message) Envelope {
	return Envelope{
		Type: EnvelopeMessage,
		Data: EnvelopeData{Message: &msg},
	}
}

// NewTypingEnvelope signals a change of the assistant's composing state.
func NewTypingEnvelope(isTyping bool) Envelope {
	return Envelope{
		Type: EnvelopeTyping,
		Data: EnvelopeData{IsTyping: &isTyping},
	}
}

// NewErrorEnvelope wraps a remote-reported application error.
func NewErrorEnvelope(description string) Envelope {
	return Envelope{
		Type: EnvelopeError,
		Data: EnvelopeData{Error: description},
	}
}

// Validate checks that the discriminator is known and the matching payload
// member is present.
func (e Envelope) Validate() error {
	switch e.Type {
	case EnvelopeMessage:
		if e.Data.Message == nil {
			return fmt.Errorf("message envelope missing message payload")
		}
	case EnvelopeTyping:
		if e.Data.IsTyping == nil {
			return fmt.Errorf("typing envelope missing isTyping payload")
		}
	case EnvelopeError:
		// An empty error description is tolerated; the variant itself is
		// the signal.
	case EnvelopeSettingsUpdate:
		if e.Data.Settings == nil {
			return fmt.Errorf("settings_update envelope missing settings payload")
		}
	default:
		return fmt.Errorf("unknown envelope type %q", string(e.Type))
	}
	return nil
}

// DecodeEnvelope parses and validates a wire payload.
func DecodeEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("failed to parse envelope: %w", err)
	}
	if err := env.Validate(); err != nil {
		return Envelope{}, err
	}
	return env, nil
}

// Encode serializes the envelope for transmission.
func (e Envelope) Encode() ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(e)
}
