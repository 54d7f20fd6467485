package types

import (
	"encoding/json"
	"sort"
	"strings"
)

// ToolCallDelta is an incremental fragment of a streamed tool call. Index
// identifies which call the fragment belongs to when several stream in
// parallel; ID and Name arrive on the first fragment, Arguments accumulate
// as raw JSON text across fragments.
type ToolCallDelta struct {
	Index     int    `json:"index"`
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

// Validate checks the fragment's index bound.
func (d ToolCallDelta) Validate() error {
	if d.Index < 0 {
		return newValidationError("index", RuleNegative, "must be >= 0, got %d", d.Index)
	}
	return nil
}

// DeltaContent is the incremental payload of one stream chunk.
type DeltaContent struct {
	Content          string          `json:"content,omitempty"`
	ReasoningContent string          `json:"reasoning_content,omitempty"`
	Refusal          string          `json:"refusal,omitempty"`
	ToolCalls        []ToolCallDelta `json:"tool_calls,omitempty"`
}

// Validate checks the embedded tool-call fragments.
func (d DeltaContent) Validate() error {
	for _, tc := range d.ToolCalls {
		if err := tc.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// IsEmpty reports whether the delta carries nothing.
func (d DeltaContent) IsEmpty() bool {
	return d.Content == "" && d.ReasoningContent == "" && d.Refusal == "" &&
		len(d.ToolCalls) == 0
}

// UnifiedChunk is one frame of a streamed model response. Most chunks carry
// only a delta; the final chunk usually carries FinishReason and, for
// providers that report it, Usage.
type UnifiedChunk struct {
	ID               string          `json:"id,omitempty"`
	Delta            DeltaContent    `json:"delta"`
	FinishReason     *FinishReason   `json:"finish_reason,omitempty"`
	Usage            *UsageStats     `json:"usage,omitempty"`
	ProviderMetadata map[string]any  `json:"provider_metadata,omitempty"`
	Logprobs         json.RawMessage `json:"logprobs,omitempty"`
}

// Validate checks the delta, the optional finish reason and usage record,
// and the metadata payload guards.
func (c UnifiedChunk) Validate() error {
	if err := c.Delta.Validate(); err != nil {
		return err
	}
	if c.FinishReason != nil {
		if err := c.FinishReason.Validate(); err != nil {
			return err
		}
	}
	if c.Usage != nil {
		if err := c.Usage.Validate(); err != nil {
			return err
		}
	}
	return validatePayload("provider_metadata", c.ProviderMetadata)
}

func (c *UnifiedChunk) UnmarshalJSON(data []byte) error {
	type wire UnifiedChunk
	var w wire
	if err := decodeStrict(data, &w, "chunk"); err != nil {
		return err
	}
	out := UnifiedChunk(w)
	if err := out.Validate(); err != nil {
		return err
	}
	*c = out
	return nil
}

// StreamAccumulator folds a sequence of chunks into the complete response
// they describe. It is not safe for concurrent use; a stream is consumed by
// one goroutine.
type StreamAccumulator struct {
	content   strings.Builder
	reasoning strings.Builder
	refusal   strings.Builder
	calls     map[int]*toolCallBuild
	finish    FinishReason
	usage     UsageStats
	hasUsage  bool
	metadata  map[string]any
	logprobs  json.RawMessage
}

type toolCallBuild struct {
	id   string
	name string
	args strings.Builder
}

// NewStreamAccumulator returns an empty accumulator.
func NewStreamAccumulator() *StreamAccumulator {
	return &StreamAccumulator{calls: make(map[int]*toolCallBuild)}
}

// Push folds one chunk into the accumulator. Chunks must be pushed in
// stream order; argument fragments concatenate positionally.
func (a *StreamAccumulator) Push(chunk UnifiedChunk) error {
	if err := chunk.Validate(); err != nil {
		return err
	}
	a.content.WriteString(chunk.Delta.Content)
	a.reasoning.WriteString(chunk.Delta.ReasoningContent)
	a.refusal.WriteString(chunk.Delta.Refusal)
	for _, d := range chunk.Delta.ToolCalls {
		b, ok := a.calls[d.Index]
		if !ok {
			b = &toolCallBuild{}
			a.calls[d.Index] = b
		}
		if d.ID != "" {
			b.id = d.ID
		}
		if d.Name != "" {
			b.name = d.Name
		}
		b.args.WriteString(d.Arguments)
	}
	if chunk.FinishReason != nil {
		a.finish = *chunk.FinishReason
	}
	if chunk.Usage != nil {
		a.usage = *chunk.Usage
		a.hasUsage = true
	}
	if chunk.ProviderMetadata != nil {
		if a.metadata == nil {
			a.metadata = make(map[string]any, len(chunk.ProviderMetadata))
		}
		for k, v := range chunk.ProviderMetadata {
			a.metadata[k] = v
		}
	}
	if chunk.Logprobs != nil {
		a.logprobs = chunk.Logprobs
	}
	return nil
}

// Response assembles the accumulated stream into a validated
// UnifiedResponse. Tool-call argument fragments are parsed as JSON once the
// stream is complete; a stream whose fragments never formed a valid JSON
// object fails here. A stream that reported no finish reason yields
// FinishUnknown, and one that reported no usage yields ZeroUsage.
func (a *StreamAccumulator) Response() (UnifiedResponse, error) {
	indices := make([]int, 0, len(a.calls))
	for i := range a.calls {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	var toolCalls []ToolCall
	for _, i := range indices {
		b := a.calls[i]
		args := map[string]any{}
		if raw := b.args.String(); strings.TrimSpace(raw) != "" {
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				return UnifiedResponse{}, newValidationError("arguments", RuleNotSerializable,
					"tool call %d arguments did not assemble into valid JSON: %v", i, err)
			}
		}
		name, err := NewCanonicalIdentifier(b.name)
		if err != nil {
			return UnifiedResponse{}, err
		}
		tc, err := NewToolCall(b.id, name, args)
		if err != nil {
			return UnifiedResponse{}, err
		}
		toolCalls = append(toolCalls, tc)
	}

	finish := a.finish
	if finish == "" {
		finish = FinishUnknown
	}
	usage := ZeroUsage()
	if a.hasUsage {
		usage = a.usage
	}

	resp := UnifiedResponse{
		Content:          SemanticText(a.content.String()),
		ReasoningContent: SemanticText(a.reasoning.String()),
		Refusal:          SemanticText(a.refusal.String()),
		ToolCalls:        toolCalls,
		Usage:            usage,
		FinishReason:     finish,
		ProviderMetadata: a.metadata,
		Logprobs:         a.logprobs,
	}
	if err := resp.Validate(); err != nil {
		return UnifiedResponse{}, err
	}
	return resp, nil
}
