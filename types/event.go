package types

import (
	"fmt"
	"strings"
	"time"
)

// RunStatus is the lifecycle state of an execution run, derived by
// replaying its event log.
type RunStatus string

const (
	RunCreated   RunStatus = "created"
	RunRunning   RunStatus = "running"
	RunPaused    RunStatus = "paused"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// Validate checks that the status is one of the known values.
func (s RunStatus) Validate() error {
	switch s {
	case RunCreated, RunRunning, RunPaused, RunCompleted, RunFailed:
		return nil
	default:
		return newValidationError("status", RuleDiscriminator,
			"unknown run status %q", string(s))
	}
}

// EventType classifies an entry in the execution log.
type EventType string

const (
	// Run lifecycle.
	EventRunCreated   EventType = "run_created"
	EventRunCompleted EventType = "run_completed"
	EventRunFailed    EventType = "run_failed"

	// Execution steps.
	EventStepStarted EventType = "step_started"

	// LLM interactions.
	EventLLMRequestSent      EventType = "llm_request_sent"
	EventLLMResponseReceived EventType = "llm_response_received"

	// Tool execution.
	EventToolCallDetected     EventType = "tool_call_detected"
	EventToolExecutionStarted EventType = "tool_execution_started"
	EventToolOutputReceived   EventType = "tool_output_received"

	// Human-in-the-loop.
	EventHumanInterventionRequired EventType = "human_intervention_required"
	EventHumanApproved             EventType = "human_approved"
)

// Validate checks that the type is one of the known values.
func (t EventType) Validate() error {
	switch t {
	case EventRunCreated, EventRunCompleted, EventRunFailed,
		EventStepStarted,
		EventLLMRequestSent, EventLLMResponseReceived,
		EventToolCallDetected, EventToolExecutionStarted, EventToolOutputReceived,
		EventHumanInterventionRequired, EventHumanApproved:
		return nil
	default:
		return newValidationError("type", RuleDiscriminator,
			"unknown event type %q", string(t))
	}
}

// RunEvent is one immutable entry in an execution run's append-only log.
// Events are never mutated or deleted; run state is derived by replaying
// them in order. Timestamps are normalized to UTC so replay is
// deterministic across hosts.
type RunEvent struct {
	ID        string         `json:"id"`
	RunID     string         `json:"run_id"`
	Timestamp time.Time      `json:"timestamp"`
	Type      EventType      `json:"type"`
	StepIndex int            `json:"step_index"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// NewRunEvent builds a log entry. The caller supplies the event ID and the
// clock reading so the log stays reproducible; ts is normalized to UTC.
func NewRunEvent(id string, ts time.Time, runID string, typ EventType, stepIndex int, payload map[string]any) (RunEvent, error) {
	e := RunEvent{
		ID:        id,
		RunID:     strings.TrimSpace(runID),
		Timestamp: ts.UTC(),
		Type:      typ,
		StepIndex: stepIndex,
		Payload:   payload,
	}
	if err := e.Validate(); err != nil {
		return RunEvent{}, err
	}
	return e, nil
}

// Validate checks the event's identity, timestamp discipline, type, and
// payload guards.
func (e RunEvent) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return newValidationError("id", RuleRequired, "event id must not be blank")
	}
	if strings.TrimSpace(e.RunID) == "" {
		return newValidationError("run_id", RuleRequired, "run_id must not be blank")
	}
	if e.Timestamp.IsZero() {
		return newValidationError("timestamp", RuleTimestamp, "timestamp must be set")
	}
	if e.Timestamp.Location() != time.UTC {
		return newValidationError("timestamp", RuleTimestamp, "timestamp must be UTC")
	}
	if err := e.Type.Validate(); err != nil {
		return err
	}
	if e.StepIndex < 0 {
		return newValidationError("step_index", RuleNegative, "must be >= 0, got %d", e.StepIndex)
	}
	return validatePayload("payload", e.Payload)
}

// IsTerminal reports whether the event ends its run.
func (e RunEvent) IsTerminal() bool {
	return e.Type == EventRunCompleted || e.Type == EventRunFailed
}

// IsLLMEvent reports whether the event records an LLM interaction.
func (e RunEvent) IsLLMEvent() bool {
	return e.Type == EventLLMRequestSent || e.Type == EventLLMResponseReceived
}

// IsToolEvent reports whether the event records tool execution.
func (e RunEvent) IsToolEvent() bool {
	switch e.Type {
	case EventToolCallDetected, EventToolExecutionStarted, EventToolOutputReceived:
		return true
	}
	return false
}

// IsHumanEvent reports whether the event records human intervention.
func (e RunEvent) IsHumanEvent() bool {
	return e.Type == EventHumanInterventionRequired || e.Type == EventHumanApproved
}

// String returns a short form for logs, truncating long run IDs.
func (e RunEvent) String() string {
	run := e.RunID
	if len(run) > 8 {
		run = run[:8] + "..."
	}
	return fmt.Sprintf("RunEvent(type=%s, run=%s, step=%d)", e.Type, run, e.StepIndex)
}

func (e *RunEvent) UnmarshalJSON(data []byte) error {
	var w struct {
		ID        string         `json:"id"`
		RunID     string         `json:"run_id"`
		Timestamp time.Time      `json:"timestamp"`
		Type      EventType      `json:"type"`
		StepIndex int            `json:"step_index"`
		Payload   map[string]any `json:"payload"`
	}
	if err := decodeStrict(data, &w, "event"); err != nil {
		return err
	}
	out := RunEvent{
		ID:        w.ID,
		RunID:     strings.TrimSpace(w.RunID),
		Timestamp: w.Timestamp.UTC(),
		Type:      w.Type,
		StepIndex: w.StepIndex,
		Payload:   w.Payload,
	}
	if err := out.Validate(); err != nil {
		return err
	}
	*e = out
	return nil
}
