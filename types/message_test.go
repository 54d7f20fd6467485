package types

import (
	"encoding/json"
	"testing"
)

func TestMessageDispatch(t *testing.T) {
	t.Parallel()

	msg, err := UnmarshalMessage([]byte(`{"role":"user","content":"hi"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	um, ok := msg.(UserMessage)
	if !ok {
		t.Fatalf("expected UserMessage, got %T", msg)
	}
	if um.Content.Text() != "hi" {
		t.Fatalf("unexpected content: %q", um.Content.Text())
	}

	if _, err := UnmarshalMessage([]byte(`{"content":"hi"}`)); err == nil {
		t.Fatal("expected missing role rejection")
	}
	if _, err := UnmarshalMessage([]byte(`{"role":"moderator","content":"hi"}`)); err == nil {
		t.Fatal("expected unknown role rejection")
	}
	// tool_call_id belongs to tool messages only.
	if _, err := UnmarshalMessage([]byte(`{"role":"user","content":"hi","tool_call_id":"tc1"}`)); err == nil {
		t.Fatal("expected cross-variant field rejection")
	}
}

func TestUnmarshalMessages(t *testing.T) {
	t.Parallel()

	payload := `[
		{"role":"system","content":"be brief"},
		{"role":"user","content":"weather in paris?"},
		{"role":"assistant","tool_calls":[{"id":"tc1","name":"web-search","arguments":{"q":"paris weather"}}]},
		{"role":"tool","tool_call_id":"tc1","content":"sunny, 22C"}
	]`
	msgs, err := UnmarshalMessages([]byte(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msgs) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(msgs))
	}
	wantRoles := []Role{RoleSystem, RoleUser, RoleAssistant, RoleTool}
	for i, m := range msgs {
		if m.MessageRole() != wantRoles[i] {
			t.Fatalf("message %d: expected role %q, got %q", i, wantRoles[i], m.MessageRole())
		}
	}
}

func TestMessageContentUnion(t *testing.T) {
	t.Parallel()

	var c MessageContent
	if err := json.Unmarshal([]byte(`"plain text"`), &c); err != nil {
		t.Fatalf("decode string: %v", err)
	}
	if c.IsParts() || c.Text() != "plain text" {
		t.Fatalf("unexpected content: %+v", c)
	}

	parts := `[{"type":"text","text":"look:"},{"type":"image","media_type":"image/png","url":"https://e.com/i.png"}]`
	if err := json.Unmarshal([]byte(parts), &c); err != nil {
		t.Fatalf("decode parts: %v", err)
	}
	if !c.IsParts() || len(c.Parts()) != 2 {
		t.Fatalf("unexpected parts: %+v", c)
	}
	if _, ok := c.Parts()[1].(ImagePart); !ok {
		t.Fatalf("expected ImagePart, got %T", c.Parts()[1])
	}
}

func TestUserMessageContentRequired(t *testing.T) {
	t.Parallel()

	// A missing or null content key is a schema violation; an explicit
	// empty string is fine.
	for _, raw := range []string{`{"role":"user"}`, `{"role":"user","content":null}`} {
		var m UserMessage
		err := json.Unmarshal([]byte(raw), &m)
		if err == nil {
			t.Fatalf("expected rejection for %s", raw)
		}
		if got := ruleOf(t, err); got != RuleRequired {
			t.Fatalf("expected rule %q, got %q for %s", RuleRequired, got, raw)
		}
	}

	var m UserMessage
	if err := json.Unmarshal([]byte(`{"role":"user","content":""}`), &m); err != nil {
		t.Fatalf("empty content string must be legal: %v", err)
	}
}

func TestToolMessage(t *testing.T) {
	t.Parallel()

	// A tool can legitimately produce empty output.
	m, err := NewToolMessage("tc1", "")
	if err != nil {
		t.Fatalf("empty tool output must be legal: %v", err)
	}
	if m.ToolCallID != "tc1" {
		t.Fatalf("unexpected id: %q", m.ToolCallID)
	}

	if _, err := NewToolMessage("   ", "result"); err == nil {
		t.Fatal("expected blank tool_call_id rejection")
	} else if got := ruleOf(t, err); got != RuleRequired {
		t.Fatalf("expected rule %q, got %q", RuleRequired, got)
	}
}

func TestAssistantMessageSubstance(t *testing.T) {
	t.Parallel()

	if _, err := NewAssistantMessage("the answer is 4"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Terse but real content is substantive.
	if _, err := NewAssistantRefusal("no"); err != nil {
		t.Fatalf("short refusal must be legal: %v", err)
	}
	tc, err := NewToolCall("tc1", "calc", map[string]any{"expr": "2+2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewAssistantToolCalls(tc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	empty := AssistantMessage{}
	if err := empty.Validate(); err == nil {
		t.Fatal("expected all-empty assistant message rejection")
	} else if got := ruleOf(t, err); got != RuleSubstance {
		t.Fatalf("expected rule %q, got %q", RuleSubstance, got)
	}

	// Whitespace-only fields do not count as substance.
	blank := AssistantMessage{Content: "   ", Refusal: "\n"}
	if err := blank.Validate(); err == nil {
		t.Fatal("expected whitespace-only assistant message rejection")
	}
}

func TestMessageRoundTrip(t *testing.T) {
	t.Parallel()

	orig, err := NewAssistantMessage("done")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := UnmarshalMessage(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	am, ok := back.(AssistantMessage)
	if !ok {
		t.Fatalf("expected AssistantMessage, got %T", back)
	}
	if am.Content != orig.Content {
		t.Fatalf("round trip changed content: %q", am.Content)
	}
}
