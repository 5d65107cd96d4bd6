package chattypes

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelSettingsUpdate_ApplyMergesFieldByField(t *testing.T) {
	settings := DefaultModelSettings()

	newKey := "sk-test-123456"
	merged := ModelSettingsUpdate{APIKey: &newKey}.Apply(settings)

	assert.Equal(t, newKey, merged.APIKey)
	// Unspecified fields retain prior values.
	assert.Equal(t, DefaultModelName, merged.ModelName)
	assert.Equal(t, DefaultTemperature, merged.Temperature)
	assert.Equal(t, DefaultMaxTokens, merged.MaxTokens)
}

func TestLinkedAccountUpdate_ApplyMergesFieldByField(t *testing.T) {
	account := LinkedAccount{
		ID:       "acc-1",
		Name:     "Main account",
		Token:    "tok",
		ClientID: "client-1",
		IsActive: false,
	}

	active := true
	merged := LinkedAccountUpdate{IsActive: &active}.Apply(account)

	assert.True(t, merged.IsActive)
	assert.Equal(t, account.Name, merged.Name)
	assert.Equal(t, account.Token, merged.Token)
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "(not set)", MaskSecret(""))
	assert.Equal(t, "****", MaskSecret("ab"))
	assert.Equal(t, "****", MaskSecret("abcd"))
	assert.Equal(t, "********3456", MaskSecret("sk-live-123456"))
}

func TestSettingsSnapshot_RoundTripPreservesInstants(t *testing.T) {
	createdAt := time.Date(2025, 3, 2, 9, 30, 0, 0, time.UTC)
	snap := SettingsSnapshot{
		ModelSettings: ModelSettings{
			ModelName:   "anthropic/claude-3-haiku",
			APIKey:      "sk-secret",
			Temperature: 0.3,
			MaxTokens:   2000,
		},
		Accounts: []LinkedAccount{
			{ID: "a1", Name: "Main", Token: "t1", ClientID: "c1", IsActive: true, CreatedAt: createdAt},
			{ID: "a2", Name: "Backup", Token: "t2", ClientID: "c2", IsActive: false, CreatedAt: createdAt.Add(time.Hour)},
		},
	}

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var decoded SettingsSnapshot
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, snap.ModelSettings, decoded.ModelSettings)
	require.Len(t, decoded.Accounts, 2)
	for i := range snap.Accounts {
		assert.Equal(t, snap.Accounts[i].ID, decoded.Accounts[i].ID)
		assert.Equal(t, snap.Accounts[i].IsActive, decoded.Accounts[i].IsActive)
		assert.True(t, snap.Accounts[i].CreatedAt.Equal(decoded.Accounts[i].CreatedAt))
	}
}
