package chattypes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEnvelope_MessageVariant(t *testing.T) {
	raw := []byte(`{
		"type": "message",
		"data": {
			"message": {
				"id": "1700000000000",
				"content": "Spend is up 12% week over week",
				"role": "assistant",
				"timestamp": "2024-11-14T22:13:20Z",
				"imageData": "aGVsbG8="
			}
		}
	}`)

	env, err := DecodeEnvelope(raw)
	require.NoError(t, err)

	assert.Equal(t, EnvelopeMessage, env.Type)
	require.NotNil(t, env.Data.Message)
	assert.Equal(t, "1700000000000", env.Data.Message.ID)
	assert.Equal(t, RoleAssistant, env.Data.Message.Role)
	assert.True(t, env.Data.Message.HasImage())

	// Timestamp re-hydrates to the same instant.
	expected := time.Date(2024, 11, 14, 22, 13, 20, 0, time.UTC)
	assert.True(t, env.Data.Message.Timestamp.Equal(expected))
}

func TestDecodeEnvelope_TypingVariant(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"type":"typing","data":{"isTyping":true}}`))
	require.NoError(t, err)

	assert.Equal(t, EnvelopeTyping, env.Type)
	require.NotNil(t, env.Data.IsTyping)
	assert.True(t, *env.Data.IsTyping)
}

func TestDecodeEnvelope_ErrorVariant(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"type":"error","data":{"error":"account quota exceeded"}}`))
	require.NoError(t, err)

	assert.Equal(t, EnvelopeError, env.Type)
	assert.Equal(t, "account quota exceeded", env.Data.Error)
}

func TestDecodeEnvelope_SettingsUpdateVariant(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{
		"type": "settings_update",
		"data": {"settings": {"modelName":"anthropic/claude-3-haiku","apiKey":"","temperature":0.7,"maxTokens":4000}}
	}`))
	require.NoError(t, err)

	assert.Equal(t, EnvelopeSettingsUpdate, env.Type)
	require.NotNil(t, env.Data.Settings)
	assert.Equal(t, "anthropic/claude-3-haiku", env.Data.Settings.ModelName)
}

func TestDecodeEnvelope_RejectsMalformedJSON(t *testing.T) {
	_, err := DecodeEnvelope([]byte(`not json at all`))
	assert.Error(t, err)
}

func TestDecodeEnvelope_RejectsUnknownType(t *testing.T) {
	_, err := DecodeEnvelope([]byte(`{"type":"heartbeat","data":{}}`))
	assert.ErrorContains(t, err, "unknown envelope type")
}

func TestDecodeEnvelope_RejectsMissingPayload(t *testing.T) {
	_, err := DecodeEnvelope([]byte(`{"type":"message","data":{}}`))
	assert.ErrorContains(t, err, "missing message payload")

	_, err = DecodeEnvelope([]byte(`{"type":"typing","data":{}}`))
	assert.ErrorContains(t, err, "missing isTyping payload")
}

func TestEnvelope_EncodeDecodeRoundTrip(t *testing.T) {
	original := NewMessageEnvelope(NewUserMessage("how did campaign X perform?"))

	data, err := original.Encode()
	require.NoError(t, err)

	decoded, err := DecodeEnvelope(data)
	require.NoError(t, err)

	assert.Equal(t, original.Type, decoded.Type)
	require.NotNil(t, decoded.Data.Message)
	assert.Equal(t, original.Data.Message.ID, decoded.Data.Message.ID)
	assert.Equal(t, original.Data.Message.Content, decoded.Data.Message.Content)
	assert.Equal(t, RoleUser, decoded.Data.Message.Role)
	assert.True(t, original.Data.Message.Timestamp.Equal(decoded.Data.Message.Timestamp))
}
