// Package chattypes defines the shared data model for the adchat client.
// This file contains the persisted state snapshots. Exactly what survives a
// reload is the contract spelled out here: connection and typing flags are
// session-local and never serialized.
package chattypes

// ChatSnapshot is the persisted partition of the chat store.
type ChatSnapshot struct {
	Messages      []Message `json:"messages"`
	CurrentChatID string    `json:"currentChatId"`
}

// SettingsSnapshot is the persisted partition of the settings store.
type SettingsSnapshot struct {
	ModelSettings ModelSettings   `json:"modelSettings"`
	Accounts      []LinkedAccount `json:"accounts"`
}
