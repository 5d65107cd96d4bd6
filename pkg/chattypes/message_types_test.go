package chattypes

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewUserMessage_IDDerivesFromSendTime(t *testing.T) {
	before := time.Now().UnixMilli()
	msg := NewUserMessage("hi")
	after := time.Now().UnixMilli()

	assert.Equal(t, RoleUser, msg.Role)
	assert.Equal(t, strconv.FormatInt(msg.Timestamp.UnixMilli(), 10), msg.ID)
	assert.GreaterOrEqual(t, msg.Timestamp.UnixMilli(), before)
	assert.LessOrEqual(t, msg.Timestamp.UnixMilli(), after)
}

func TestMessage_HasImage(t *testing.T) {
	assert.False(t, Message{Content: "plain"}.HasImage())
	assert.True(t, Message{Content: "chart", ImageData: "aGVsbG8="}.HasImage())
}
