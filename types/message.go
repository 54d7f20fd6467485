package types

import (
	"encoding/json"
	"strings"
)

// Role identifies the author of a protocol message and doubles as the wire
// discriminator for the message union.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleTool      Role = "tool"
	RoleAssistant Role = "assistant"
)

// UnifiedMessage is the provider-agnostic message union. The concrete
// variants are SystemMessage, UserMessage, ToolMessage, and
// AssistantMessage, resolved from the wire by UnmarshalMessage.
type UnifiedMessage interface {
	// MessageRole returns the wire discriminator.
	MessageRole() Role
	// Validate checks the variant's invariants.
	Validate() error

	isUnifiedMessage()
}

// UnmarshalMessage resolves a role-tagged payload to its concrete message
// variant. A payload with a missing or unrecognized "role" fails
// resolution; the selected variant rejects fields belonging to other
// variants.
func UnmarshalMessage(data []byte) (UnifiedMessage, error) {
	var probe struct {
		Role *Role `json:"role"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, newValidationError("message", RuleSchema, "%v", err)
	}
	if probe.Role == nil {
		return nil, newValidationError("role", RuleDiscriminator,
			`message is missing the "role" discriminator`)
	}
	switch *probe.Role {
	case RoleSystem:
		var m SystemMessage
		if err := m.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return m, nil
	case RoleUser:
		var m UserMessage
		if err := m.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return m, nil
	case RoleTool:
		var m ToolMessage
		if err := m.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return m, nil
	case RoleAssistant:
		var m AssistantMessage
		if err := m.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, newValidationError("role", RuleDiscriminator,
			"unknown message role %q", string(*probe.Role))
	}
}

// UnmarshalMessages resolves a JSON array of role-tagged payloads.
func UnmarshalMessages(data []byte) ([]UnifiedMessage, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, newValidationError("messages", RuleSchema, "%v", err)
	}
	out := make([]UnifiedMessage, 0, len(raw))
	for _, r := range raw {
		m, err := UnmarshalMessage(r)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// MessageContent is the string-or-parts content union used by user and
// tool messages: either plain text or an ordered list of content parts.
type MessageContent struct {
	text  SemanticText
	parts []ContentPart
}

// TextContent wraps plain text as message content.
func TextContent(text SemanticText) MessageContent {
	return MessageContent{text: text}
}

// PartsContent wraps content parts as message content.
func PartsContent(parts ...ContentPart) MessageContent {
	if parts == nil {
		parts = []ContentPart{}
	}
	return MessageContent{parts: parts}
}

// IsParts reports whether the content is a part list rather than plain
// text.
func (c MessageContent) IsParts() bool { return c.parts != nil }

// Text returns the plain-text form; empty when the content is a part list.
func (c MessageContent) Text() SemanticText { return c.text }

// Parts returns the part list; nil when the content is plain text.
func (c MessageContent) Parts() []ContentPart { return c.parts }

// Validate checks whichever form the content takes.
func (c MessageContent) Validate() error {
	if c.parts != nil {
		for _, p := range c.parts {
			if err := p.Validate(); err != nil {
				return err
			}
		}
		return nil
	}
	return c.text.Validate()
}

func (c MessageContent) MarshalJSON() ([]byte, error) {
	if c.parts != nil {
		return json.Marshal(c.parts)
	}
	return json.Marshal(c.text)
}

func (c *MessageContent) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return newValidationError("content", RuleSchema, "%v", err)
		}
		parts := make([]ContentPart, 0, len(raw))
		for _, r := range raw {
			p, err := UnmarshalContentPart(r)
			if err != nil {
				return err
			}
			parts = append(parts, p)
		}
		*c = MessageContent{parts: parts}
		return nil
	}
	var text SemanticText
	if err := json.Unmarshal(data, &text); err != nil {
		if ve, ok := err.(*ValidationError); ok {
			return ve
		}
		return newValidationError("content", RuleSchema, "%v", err)
	}
	*c = MessageContent{text: text}
	return nil
}

// --- SystemMessage ---

// SystemMessage carries instructions or context that shape the model's
// behavior for the whole conversation.
type SystemMessage struct {
	Content  SemanticText   `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewSystemMessage validates content and wraps it.
func NewSystemMessage(content string) (SystemMessage, error) {
	t, err := NewSemanticText(content)
	if err != nil {
		return SystemMessage{}, err
	}
	m := SystemMessage{Content: t}
	if err := m.Validate(); err != nil {
		return SystemMessage{}, err
	}
	return m, nil
}

func (SystemMessage) MessageRole() Role  { return RoleSystem }
func (SystemMessage) isUnifiedMessage() {}

// Validate requires non-empty instructions.
func (m SystemMessage) Validate() error {
	if len(m.Content) == 0 {
		return newValidationError("content", RuleRequired,
			"system message content must not be empty")
	}
	if err := m.Content.Validate(); err != nil {
		return err
	}
	return validateMetadata(m.Metadata)
}

func (m SystemMessage) MarshalJSON() ([]byte, error) {
	type wire SystemMessage
	return json.Marshal(struct {
		Role Role `json:"role"`
		wire
	}{RoleSystem, wire(m)})
}

func (m *SystemMessage) UnmarshalJSON(data []byte) error {
	var w struct {
		Role     Role           `json:"role"`
		Content  SemanticText   `json:"content"`
		Metadata map[string]any `json:"metadata"`
	}
	if err := decodeStrict(data, &w, "system_message"); err != nil {
		return err
	}
	if err := checkRole(w.Role, RoleSystem); err != nil {
		return err
	}
	out := SystemMessage{Content: w.Content, Metadata: w.Metadata}
	if err := out.Validate(); err != nil {
		return err
	}
	*m = out
	return nil
}

// --- UserMessage ---

// UserMessage originates from the end user and may carry plain text or
// multimodal content. Name optionally distinguishes users in multi-user
// conversations.
type UserMessage struct {
	Content  MessageContent `json:"content"`
	Name     HumanLabel     `json:"name,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewUserMessage wraps plain text as a user message.
func NewUserMessage(content string) (UserMessage, error) {
	t, err := NewSemanticText(content)
	if err != nil {
		return UserMessage{}, err
	}
	m := UserMessage{Content: TextContent(t)}
	if err := m.Validate(); err != nil {
		return UserMessage{}, err
	}
	return m, nil
}

// NewUserPartsMessage wraps multimodal parts as a user message.
func NewUserPartsMessage(parts ...ContentPart) (UserMessage, error) {
	m := UserMessage{Content: PartsContent(parts...)}
	if err := m.Validate(); err != nil {
		return UserMessage{}, err
	}
	return m, nil
}

func (UserMessage) MessageRole() Role  { return RoleUser }
func (UserMessage) isUnifiedMessage() {}

func (m UserMessage) Validate() error {
	if err := m.Content.Validate(); err != nil {
		return err
	}
	if m.Name != "" {
		if err := m.Name.Validate(); err != nil {
			return err
		}
	}
	return validateMetadata(m.Metadata)
}

func (m UserMessage) MarshalJSON() ([]byte, error) {
	type wire UserMessage
	return json.Marshal(struct {
		Role Role `json:"role"`
		wire
	}{RoleUser, wire(m)})
}

func (m *UserMessage) UnmarshalJSON(data []byte) error {
	var w struct {
		Role     Role            `json:"role"`
		Content  *MessageContent `json:"content"`
		Name     HumanLabel      `json:"name"`
		Metadata map[string]any  `json:"metadata"`
	}
	if err := decodeStrict(data, &w, "user_message"); err != nil {
		return err
	}
	if err := checkRole(w.Role, RoleUser); err != nil {
		return err
	}
	// An absent or null content key is not the same as empty text.
	if w.Content == nil {
		return newValidationError("content", RuleRequired,
			"user message must carry a content field")
	}
	out := UserMessage{Content: *w.Content, Name: w.Name, Metadata: w.Metadata}
	if err := out.Validate(); err != nil {
		return err
	}
	*m = out
	return nil
}

// --- ToolMessage ---

// ToolMessage carries the result of a tool execution back to the model.
// ToolCallID must equal the ID of the ToolCall it answers; the correlation
// itself is enforced by the consumer, not by this type.
type ToolMessage struct {
	Content    MessageContent `json:"content"`
	ToolCallID string         `json:"tool_call_id"`
	Name       HumanLabel     `json:"name,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// NewToolMessage wraps a tool result. An empty content string is legal — a
// tool can legitimately produce no output.
func NewToolMessage(toolCallID, content string) (ToolMessage, error) {
	t, err := NewSemanticText(content)
	if err != nil {
		return ToolMessage{}, err
	}
	m := ToolMessage{Content: TextContent(t), ToolCallID: toolCallID}
	if err := m.Validate(); err != nil {
		return ToolMessage{}, err
	}
	return m, nil
}

func (ToolMessage) MessageRole() Role  { return RoleTool }
func (ToolMessage) isUnifiedMessage() {}

func (m ToolMessage) Validate() error {
	if strings.TrimSpace(m.ToolCallID) == "" {
		return newValidationError("tool_call_id", RuleRequired,
			"tool message must reference the tool call it answers")
	}
	if err := m.Content.Validate(); err != nil {
		return err
	}
	if m.Name != "" {
		if err := m.Name.Validate(); err != nil {
			return err
		}
	}
	return validateMetadata(m.Metadata)
}

func (m ToolMessage) MarshalJSON() ([]byte, error) {
	type wire ToolMessage
	return json.Marshal(struct {
		Role Role `json:"role"`
		wire
	}{RoleTool, wire(m)})
}

func (m *ToolMessage) UnmarshalJSON(data []byte) error {
	var w struct {
		Role       Role           `json:"role"`
		Content    MessageContent `json:"content"`
		ToolCallID string         `json:"tool_call_id"`
		Name       HumanLabel     `json:"name"`
		Metadata   map[string]any `json:"metadata"`
	}
	if err := decodeStrict(data, &w, "tool_message"); err != nil {
		return err
	}
	if err := checkRole(w.Role, RoleTool); err != nil {
		return err
	}
	out := ToolMessage{
		Content:    w.Content,
		ToolCallID: w.ToolCallID,
		Name:       w.Name,
		Metadata:   w.Metadata,
	}
	if err := out.Validate(); err != nil {
		return err
	}
	*m = out
	return nil
}

// --- AssistantMessage ---

// AssistantMessage is a model turn: visible content, internal reasoning,
// a refusal, tool calls, or any combination. At least one of the four must
// be substantive — an all-empty assistant message is a protocol violation.
type AssistantMessage struct {
	Content          SemanticText   `json:"content,omitempty"`
	ReasoningContent SemanticText   `json:"reasoning_content,omitempty"`
	Refusal          SemanticText   `json:"refusal,omitempty"`
	ToolCalls        []ToolCall     `json:"tool_calls,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

// NewAssistantMessage wraps visible response text.
func NewAssistantMessage(content string) (AssistantMessage, error) {
	t, err := NewSemanticText(content)
	if err != nil {
		return AssistantMessage{}, err
	}
	m := AssistantMessage{Content: t}
	if err := m.Validate(); err != nil {
		return AssistantMessage{}, err
	}
	return m, nil
}

// NewAssistantToolCalls wraps a set of requested tool invocations.
func NewAssistantToolCalls(calls ...ToolCall) (AssistantMessage, error) {
	m := AssistantMessage{ToolCalls: calls}
	if err := m.Validate(); err != nil {
		return AssistantMessage{}, err
	}
	return m, nil
}

// NewAssistantRefusal wraps a refusal explanation.
func NewAssistantRefusal(refusal string) (AssistantMessage, error) {
	t, err := NewSemanticText(refusal)
	if err != nil {
		return AssistantMessage{}, err
	}
	m := AssistantMessage{Refusal: t}
	if err := m.Validate(); err != nil {
		return AssistantMessage{}, err
	}
	return m, nil
}

func (AssistantMessage) MessageRole() Role  { return RoleAssistant }
func (AssistantMessage) isUnifiedMessage() {}

func (m AssistantMessage) Validate() error {
	for _, f := range []struct {
		name  string
		value SemanticText
	}{
		{"content", m.Content},
		{"reasoning_content", m.ReasoningContent},
		{"refusal", m.Refusal},
	} {
		if err := f.value.Validate(); err != nil {
			return newValidationError(f.name, RuleTooLong,
				"text exceeds %d characters", MaxTextLength)
		}
	}
	for _, tc := range m.ToolCalls {
		if err := tc.Validate(); err != nil {
			return err
		}
	}
	if !hasSubstance(m.Content, m.ReasoningContent, m.Refusal, len(m.ToolCalls)) {
		return newValidationError("content", RuleSubstance,
			"assistant message must have at least one substantive field: "+
				"content, reasoning_content, refusal, or tool_calls")
	}
	return validateMetadata(m.Metadata)
}

func (m AssistantMessage) MarshalJSON() ([]byte, error) {
	type wire AssistantMessage
	return json.Marshal(struct {
		Role Role `json:"role"`
		wire
	}{RoleAssistant, wire(m)})
}

func (m *AssistantMessage) UnmarshalJSON(data []byte) error {
	var w struct {
		Role             Role           `json:"role"`
		Content          SemanticText   `json:"content"`
		ReasoningContent SemanticText   `json:"reasoning_content"`
		Refusal          SemanticText   `json:"refusal"`
		ToolCalls        []ToolCall     `json:"tool_calls"`
		Metadata         map[string]any `json:"metadata"`
	}
	if err := decodeStrict(data, &w, "assistant_message"); err != nil {
		return err
	}
	if err := checkRole(w.Role, RoleAssistant); err != nil {
		return err
	}
	out := AssistantMessage{
		Content:          w.Content,
		ReasoningContent: w.ReasoningContent,
		Refusal:          w.Refusal,
		ToolCalls:        w.ToolCalls,
		Metadata:         w.Metadata,
	}
	if err := out.Validate(); err != nil {
		return err
	}
	*m = out
	return nil
}

// --- shared helpers ---

func checkRole(got, want Role) error {
	if got != "" && got != want {
		return newValidationError("role", RuleDiscriminator,
			"expected role %q, got %q", string(want), string(got))
	}
	return nil
}

// hasSubstance implements the substantive-field rule: a string counts only
// when non-empty after trimming, a tool-call list only when non-empty.
func hasSubstance(content, reasoning, refusal SemanticText, toolCalls int) bool {
	return strings.TrimSpace(string(content)) != "" ||
		strings.TrimSpace(string(reasoning)) != "" ||
		strings.TrimSpace(string(refusal)) != "" ||
		toolCalls > 0
}

// validateMetadata bounds tracing metadata the same way tool payloads are
// bounded.
func validateMetadata(md map[string]any) error {
	return validatePayload("metadata", md)
}
