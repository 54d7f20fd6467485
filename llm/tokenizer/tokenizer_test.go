package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ActraStride/xulcan/types"
)

func mustUser(t *testing.T, text string) types.UserMessage {
	t.Helper()
	msg, err := types.NewUserMessage(text)
	require.NoError(t, err)
	return msg
}

func TestEstimatorCountTokens(t *testing.T) {
	e := NewEstimatorTokenizer("any-model", 0)

	count, err := e.CountTokens("")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// 8 ASCII chars at ~4 chars/token.
	count, err = e.CountTokens("abcdefgh")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// 6 CJK chars at ~1.5 chars/token.
	count, err = e.CountTokens("你好世界你好")
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	// Never zero for non-empty input.
	count, err = e.CountTokens("a")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEstimatorCountMessages(t *testing.T) {
	e := NewEstimatorTokenizer("any-model", 0)

	sys, err := types.NewSystemMessage("You are a helpful assistant.")
	require.NoError(t, err)
	msgs := []types.UnifiedMessage{sys, mustUser(t, "What is the weather like?")}

	total, err := e.CountMessages(msgs)
	require.NoError(t, err)

	// 28 chars -> 7 tokens, 25 chars -> 6 tokens, plus 4 per message
	// framing and 3 conversation-end.
	assert.Equal(t, 7+6+2*4+3, total)
}

func TestEstimatorChargesMediaParts(t *testing.T) {
	e := NewEstimatorTokenizer("any-model", 0)

	img, err := types.NewImageDataPart("", "aGVsbG8=")
	require.NoError(t, err)
	text, err := types.NewTextPart("describe this")
	require.NoError(t, err)

	msg := types.UserMessage{Content: types.PartsContent(text, img)}
	require.NoError(t, msg.Validate())

	total, err := e.CountMessages([]types.UnifiedMessage{msg})
	require.NoError(t, err)

	// 13 chars -> 3 tokens, one media part flat charge, framing.
	assert.Equal(t, 3+mediaPartTokens+4+3, total)
}

func TestEstimatorCountsAssistantToolCalls(t *testing.T) {
	e := NewEstimatorTokenizer("any-model", 0)

	msg := types.AssistantMessage{
		ToolCalls: []types.ToolCall{{
			ID:        "call_1",
			Name:      "web-search",
			Arguments: map[string]any{"query": "golang"},
		}},
	}
	require.NoError(t, msg.Validate())

	total, err := e.CountMessages([]types.UnifiedMessage{msg})
	require.NoError(t, err)
	assert.Greater(t, total, 4+3)
}

func TestEstimatorDecodeUnsupported(t *testing.T) {
	e := NewEstimatorTokenizer("any-model", 0)
	_, err := e.Decode([]int{1, 2, 3})
	assert.Error(t, err)
}

func TestRegistryPrefixMatch(t *testing.T) {
	e := NewEstimatorTokenizer("claude-sonnet", 200000)
	RegisterTokenizer("claude-sonnet", e)

	got, err := GetTokenizer("claude-sonnet-4")
	require.NoError(t, err)
	assert.Equal(t, 200000, got.MaxTokens())

	_, err = GetTokenizer("nonexistent-model")
	assert.Error(t, err)

	// The fallback path always yields a usable tokenizer.
	fallback := GetTokenizerOrEstimator("nonexistent-model")
	assert.Equal(t, "estimator", fallback.Name())
}

func TestTiktokenModelTable(t *testing.T) {
	tk, err := NewTiktokenTokenizer("gpt-4o")
	require.NoError(t, err)
	assert.Equal(t, 128000, tk.MaxTokens())
	assert.Equal(t, "tiktoken[o200k_base]", tk.Name())

	// Prefix match covers dated snapshots.
	tk, err = NewTiktokenTokenizer("gpt-4o-2024-08-06")
	require.NoError(t, err)
	assert.Equal(t, 128000, tk.MaxTokens())

	// Unknown models fall back to cl100k_base.
	tk, err = NewTiktokenTokenizer("some-future-model")
	require.NoError(t, err)
	assert.Equal(t, "tiktoken[cl100k_base]", tk.Name())
	assert.Equal(t, 8192, tk.MaxTokens())
}
