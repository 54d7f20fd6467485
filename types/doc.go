// Package types defines the canonical data contracts shared across the
// Xulcan framework: provider-agnostic chat messages, multimodal content
// parts, tool-calling constructs, usage accounting, budget constraints,
// streaming chunks, agent blueprints, and run events.
//
// This package has ZERO dependencies on other xulcan packages (and no
// third-party dependencies at all) to avoid circular imports. All other
// packages import their contract types from here.
//
// Every record is an immutable value with a closed schema:
//
//   - Construction goes through a validating constructor (NewUsageStats,
//     NewToolCall, ...) that either returns a fully valid value or a
//     *ValidationError naming the offending field and the rule violated.
//   - UnmarshalJSON on every record rejects unknown fields and runs the
//     same validators, so no invalid instance can enter from the wire.
//   - Records are plain value structs; copies are independent and there is
//     no shared mutable state. "Mutation" is always a new construction.
//
// The message, content-part, and tool-choice unions are discriminated by a
// tag field ("role" or "type") and resolved via UnmarshalMessage,
// UnmarshalContentPart, and ToolChoice respectively. Consumers switch on
// the concrete variant instead of inspecting tags.
//
// Non-fatal plausibility findings (for example a zero-latency report with
// nonzero tokens) are surfaced as Diagnostic values, never as errors; see
// SetWarnHandler.
package types
