package types

import (
	"encoding/json"
	"strings"
)

// FinishReason explains why the model stopped generating.
type FinishReason string

const (
	// FinishStop is a natural end of generation.
	FinishStop FinishReason = "stop"
	// FinishLength means the token limit was hit mid-generation.
	FinishLength FinishReason = "length"
	// FinishToolCalls means the model stopped to request tool execution.
	FinishToolCalls FinishReason = "tool_calls"
	// FinishContentFilter means the provider's safety layer intervened.
	FinishContentFilter FinishReason = "content_filter"
	// FinishUnknown is the fallback for provider-specific reasons that do
	// not map onto the portable set.
	FinishUnknown FinishReason = "unknown"
)

// Validate checks that the reason is one of the portable values.
func (r FinishReason) Validate() error {
	switch r {
	case FinishStop, FinishLength, FinishToolCalls, FinishContentFilter, FinishUnknown:
		return nil
	default:
		return newValidationError("finish_reason", RuleDiscriminator,
			"unknown finish reason %q", string(r))
	}
}

// UnifiedResponse is the provider-agnostic shape of a completed model
// interaction: content, tool calls, usage accounting, and the stop reason.
// ProviderMetadata and Logprobs carry provider-specific extras opaquely.
type UnifiedResponse struct {
	Content          SemanticText    `json:"content,omitempty"`
	ReasoningContent SemanticText    `json:"reasoning_content,omitempty"`
	Refusal          SemanticText    `json:"refusal,omitempty"`
	ToolCalls        []ToolCall      `json:"tool_calls,omitempty"`
	Usage            UsageStats      `json:"usage"`
	FinishReason     FinishReason    `json:"finish_reason"`
	ProviderMetadata map[string]any  `json:"provider_metadata,omitempty"`
	Logprobs         json.RawMessage `json:"logprobs,omitempty"`
}

// NewUnifiedResponse validates r and returns it together with any advisory
// diagnostics from its usage record.
func NewUnifiedResponse(r UnifiedResponse) (UnifiedResponse, []Diagnostic, error) {
	if err := r.Validate(); err != nil {
		return UnifiedResponse{}, nil, err
	}
	return r, r.Usage.diagnostics(), nil
}

// Validate checks the substantive-field rule, the embedded usage record,
// the finish reason, and the metadata payload guards.
func (r UnifiedResponse) Validate() error {
	for _, f := range []struct {
		name  string
		value SemanticText
	}{
		{"content", r.Content},
		{"reasoning_content", r.ReasoningContent},
		{"refusal", r.Refusal},
	} {
		if err := f.value.Validate(); err != nil {
			return newValidationError(f.name, RuleTooLong,
				"text exceeds %d characters", MaxTextLength)
		}
	}
	for _, tc := range r.ToolCalls {
		if err := tc.Validate(); err != nil {
			return err
		}
	}
	if !hasSubstance(r.Content, r.ReasoningContent, r.Refusal, len(r.ToolCalls)) {
		return newValidationError("content", RuleSubstance,
			"response must have at least one substantive field: "+
				"content, reasoning_content, refusal, or tool_calls")
	}
	if err := r.Usage.Validate(); err != nil {
		return err
	}
	if err := r.FinishReason.Validate(); err != nil {
		return err
	}
	return validatePayload("provider_metadata", r.ProviderMetadata)
}

// Text returns the visible content, or the refusal when the model refused
// and produced no content.
func (r UnifiedResponse) Text() string {
	if strings.TrimSpace(string(r.Content)) == "" && r.Refusal != "" {
		return string(r.Refusal)
	}
	return string(r.Content)
}

// HasToolCalls reports whether the model requested tool execution.
func (r UnifiedResponse) HasToolCalls() bool { return len(r.ToolCalls) > 0 }

// AsMessage converts the response into the assistant message that continues
// the conversation.
func (r UnifiedResponse) AsMessage() AssistantMessage {
	return AssistantMessage{
		Content:          r.Content,
		ReasoningContent: r.ReasoningContent,
		Refusal:          r.Refusal,
		ToolCalls:        r.ToolCalls,
	}
}

func (r *UnifiedResponse) UnmarshalJSON(data []byte) error {
	type wire UnifiedResponse
	var w wire
	if err := decodeStrict(data, &w, "response"); err != nil {
		return err
	}
	out := UnifiedResponse(w)
	if err := out.Validate(); err != nil {
		return err
	}
	// Usage already warned during its own decode.
	*r = out
	return nil
}
