package tokenizer

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ActraStride/xulcan/types"
)

// Tokenizer is the unified token counting interface.
type Tokenizer interface {
	// CountTokens returns the token count for text.
	CountTokens(text string) (int, error)

	// CountMessages returns the total token count for a conversation,
	// including per-message overhead (role markers, separators).
	CountMessages(messages []types.UnifiedMessage) (int, error)

	// Encode converts text to a list of token IDs.
	Encode(text string) ([]int, error)

	// Decode converts token IDs back to text.
	Decode(tokens []int) (string, error)

	// MaxTokens returns the model's maximum context length.
	MaxTokens() int

	// Name returns the tokenizer's name.
	Name() string
}

// Global tokenizer registry.
var (
	modelTokenizers   = make(map[string]Tokenizer)
	modelTokenizersMu sync.RWMutex
)

// RegisterTokenizer registers a tokenizer for the given model name.
func RegisterTokenizer(model string, t Tokenizer) {
	modelTokenizersMu.Lock()
	defer modelTokenizersMu.Unlock()
	modelTokenizers[model] = t
}

// GetTokenizer returns the tokenizer registered for model. Prefix
// matching applies, so "gpt-4o" serves "gpt-4o-mini" too.
func GetTokenizer(model string) (Tokenizer, error) {
	modelTokenizersMu.RLock()
	defer modelTokenizersMu.RUnlock()

	if t, ok := modelTokenizers[model]; ok {
		return t, nil
	}

	for prefix, t := range modelTokenizers {
		if len(model) >= len(prefix) && model[:len(prefix)] == prefix {
			return t, nil
		}
	}

	return nil, fmt.Errorf("no tokenizer registered for model: %s", model)
}

// GetTokenizerOrEstimator returns the registered tokenizer for model,
// falling back to the generic estimator when none is registered.
func GetTokenizerOrEstimator(model string) Tokenizer {
	t, err := GetTokenizer(model)
	if err != nil {
		return NewEstimatorTokenizer(model, 0)
	}
	return t
}

// mediaPartTokens is the flat charge for an image or audio part. Real
// multimodal token costs are provider-specific; a flat charge keeps
// budget checks conservative without provider lookups.
const mediaPartTokens = 85

// textSegments flattens a message into its countable text, charging
// media parts a flat token equivalent through the second return value.
func textSegments(msg types.UnifiedMessage) (texts []string, mediaTokens int) {
	switch m := msg.(type) {
	case types.SystemMessage:
		texts = append(texts, string(m.Content))
	case types.UserMessage:
		texts, mediaTokens = contentSegments(m.Content)
	case types.ToolMessage:
		texts, mediaTokens = contentSegments(m.Content)
		texts = append(texts, m.ToolCallID)
	case types.AssistantMessage:
		for _, t := range []types.SemanticText{m.Content, m.ReasoningContent, m.Refusal} {
			if t != "" {
				texts = append(texts, string(t))
			}
		}
		for _, call := range m.ToolCalls {
			texts = append(texts, string(call.Name))
			if args, err := json.Marshal(call.Arguments); err == nil {
				texts = append(texts, string(args))
			}
		}
	}
	return texts, mediaTokens
}

func contentSegments(c types.MessageContent) (texts []string, mediaTokens int) {
	if !c.IsParts() {
		return []string{string(c.Text())}, 0
	}
	for _, part := range c.Parts() {
		switch p := part.(type) {
		case types.TextPart:
			texts = append(texts, string(p.Text))
		default:
			mediaTokens += mediaPartTokens
		}
	}
	return texts, mediaTokens
}
