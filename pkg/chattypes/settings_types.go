// Package chattypes defines the shared data model for the adchat client.
// This file contains the model configuration and linked advertising account
// types managed by the settings store.
package chattypes

import (
	"strings"
	"time"
)

// Default model settings restored by a reset.
const (
	DefaultModelName   = "anthropic/claude-3-haiku"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 4000
)

// ModelSettings is the singleton model configuration for a session.
// APIKey is sensitive and must never be logged or displayed unmasked.
type ModelSettings struct {
	ModelName   string  `json:"modelName"`
	APIKey      string  `json:"apiKey"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"maxTokens"`
}

// DefaultModelSettings returns the fixed default configuration.
func DefaultModelSettings() ModelSettings {
	return ModelSettings{
		ModelName:   DefaultModelName,
		APIKey:      "",
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	}
}

// ModelSettingsUpdate merges field-by-field into ModelSettings. Nil fields
// retain their prior values.
type ModelSettingsUpdate struct {
	ModelName   *string  `json:"modelName,omitempty"`
	APIKey      *string  `json:"apiKey,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"maxTokens,omitempty"`
}

// Apply returns a copy of s with the non-nil update fields merged in.
func (u ModelSettingsUpdate) Apply(s ModelSettings) ModelSettings {
	if u.ModelName != nil {
		s.ModelName = *u.ModelName
	}
	if u.APIKey != nil {
		s.APIKey = *u.APIKey
	}
	if u.Temperature != nil {
		s.Temperature = *u.Temperature
	}
	if u.MaxTokens != nil {
		s.MaxTokens = *u.MaxTokens
	}
	return s
}

// MaskSecret renders a credential for display: all but the last four
// characters are hidden. The single masking policy for API keys and tokens.
func MaskSecret(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 4 {
		return "****"
	}
	return strings.Repeat("*", 8) + secret[len(secret)-4:]
}

// LinkedAccount represents one external advertising account the assistant
// can query on the user's behalf. Token is sensitive.
type LinkedAccount struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Token     string    `json:"token"`
	ClientID  string    `json:"clientId"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// LinkedAccountInput carries the caller-supplied fields for account
// creation; the store generates the ID and creation timestamp.
type LinkedAccountInput struct {
	Name     string `json:"name"`
	Token    string `json:"token"`
	ClientID string `json:"clientId"`
	IsActive bool   `json:"isActive"`
}

// LinkedAccountUpdate merges field-by-field into a LinkedAccount. Nil
// fields retain their prior values.
type LinkedAccountUpdate struct {
	Name     *string `json:"name,omitempty"`
	Token    *string `json:"token,omitempty"`
	ClientID *string `json:"clientId,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// Apply returns a copy of a with the non-nil update fields merged in.
func (u LinkedAccountUpdate) Apply(a LinkedAccount) LinkedAccount {
	if u.Name != nil {
		a.Name = *u.Name
	}
	if u.Token != nil {
		a.Token = *u.Token
	}
	if u.ClientID != nil {
		a.ClientID = *u.ClientID
	}
	if u.IsActive != nil {
		a.IsActive = *u.IsActive
	}
	return a
}
