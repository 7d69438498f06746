package anthropic

import (
	"testing"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSDKMessages(t *testing.T) {
	msgs := toSDKMessages([]Message{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi"},
	})

	require.Len(t, msgs, 2)
	assert.Equal(t, sdk.MessageParamRoleUser, msgs[0].Role)
	assert.Equal(t, sdk.MessageParamRoleAssistant, msgs[1].Role)
}

func TestFromSDKMessage_ConcatenatesTextBlocks(t *testing.T) {
	msg := &sdk.Message{
		ID:    "msg_1",
		Model: "claude-test",
		Content: []sdk.ContentBlockUnion{
			{Type: "text", Text: "part one "},
			{Type: "tool_use"},
			{Type: "text", Text: "part two"},
		},
		StopReason: "end_turn",
	}
	msg.Usage.InputTokens = 10
	msg.Usage.OutputTokens = 20

	resp := fromSDKMessage(msg)
	assert.Equal(t, "msg_1", resp.ID)
	assert.Equal(t, "part one part two", resp.Text)
	assert.Equal(t, "end_turn", resp.StopReason)
	assert.Equal(t, int64(10), resp.Usage.InputTokens)
	assert.Equal(t, int64(20), resp.Usage.OutputTokens)
}

func TestWithRateLimit(t *testing.T) {
	c := &sdkClient{}

	WithRateLimit(5)(c)
	require.NotNil(t, c.limiter)
	assert.InDelta(t, 5, float64(c.limiter.Limit()), 1e-9)

	WithRateLimit(0)(c)
	assert.Nil(t, c.limiter)
}
