package types

import (
	"encoding/json"
	"strings"
)

// ToolCall is a model-requested tool invocation. ID correlates the call
// with the ToolMessage that answers it; Arguments are already parsed from
// the provider's JSON fragment.
type ToolCall struct {
	ID        string              `json:"id"`
	Name      CanonicalIdentifier `json:"name"`
	Arguments map[string]any      `json:"arguments"`
}

// NewToolCall validates and builds a tool call.
func NewToolCall(id string, name CanonicalIdentifier, arguments map[string]any) (ToolCall, error) {
	tc := ToolCall{ID: id, Name: name, Arguments: arguments}
	if err := tc.Validate(); err != nil {
		return ToolCall{}, err
	}
	return tc, nil
}

// Validate checks the correlation ID, the function name, and the argument
// payload guards (depth, cycles, serializability).
func (tc ToolCall) Validate() error {
	if strings.TrimSpace(tc.ID) == "" {
		return newValidationError("id", RuleRequired, "tool call id must not be blank")
	}
	if err := revalidateIdentifier("name", string(tc.Name)); err != nil {
		return err
	}
	return validatePayload("arguments", tc.Arguments)
}

func (tc *ToolCall) UnmarshalJSON(data []byte) error {
	type wire ToolCall
	var w wire
	if err := decodeStrict(data, &w, "tool_call"); err != nil {
		return err
	}
	out := ToolCall(w)
	if err := out.Validate(); err != nil {
		return err
	}
	*tc = out
	return nil
}

// FunctionDef declares a callable function: name, optional description,
// and a JSON-Schema parameter object. Parameters is carried opaquely; only
// the structural guards apply, not JSON-Schema validation.
type FunctionDef struct {
	Name        CanonicalIdentifier `json:"name"`
	Description SemanticText        `json:"description,omitempty"`
	Parameters  map[string]any      `json:"parameters"`
}

// NewFunctionDef validates and builds a function declaration.
func NewFunctionDef(name CanonicalIdentifier, description SemanticText, parameters map[string]any) (FunctionDef, error) {
	fd := FunctionDef{Name: name, Description: description, Parameters: parameters}
	if err := fd.Validate(); err != nil {
		return FunctionDef{}, err
	}
	return fd, nil
}

// Validate checks the name against identifier rules and the reserved-name
// list, and the parameter schema against the payload guards.
func (fd FunctionDef) Validate() error {
	if err := revalidateIdentifier("name", string(fd.Name)); err != nil {
		return err
	}
	if isReservedFunctionName(string(fd.Name)) {
		return newValidationError("name", RuleReservedName,
			"function name %q is a reserved word", string(fd.Name))
	}
	if err := fd.Description.Validate(); err != nil {
		return err
	}
	return validatePayload("parameters", fd.Parameters)
}

func (fd *FunctionDef) UnmarshalJSON(data []byte) error {
	type wire FunctionDef
	var w wire
	if err := decodeStrict(data, &w, "function"); err != nil {
		return err
	}
	out := FunctionDef(w)
	if err := out.Validate(); err != nil {
		return err
	}
	*fd = out
	return nil
}

// ToolDefinition wraps a function declaration in the provider-neutral tool
// envelope. Type is always "function"; the field exists for wire
// compatibility and future tool kinds.
type ToolDefinition struct {
	Type     string      `json:"type"`
	Function FunctionDef `json:"function"`
}

// ToolTypeFunction is the only tool kind currently defined.
const ToolTypeFunction = "function"

// NewToolDefinition validates and wraps a function declaration.
func NewToolDefinition(fn FunctionDef) (ToolDefinition, error) {
	td := ToolDefinition{Type: ToolTypeFunction, Function: fn}
	if err := td.Validate(); err != nil {
		return ToolDefinition{}, err
	}
	return td, nil
}

func (td ToolDefinition) Validate() error {
	if td.Type != ToolTypeFunction {
		return newValidationError("type", RuleDiscriminator,
			"tool type must be %q, got %q", ToolTypeFunction, td.Type)
	}
	return td.Function.Validate()
}

func (td *ToolDefinition) UnmarshalJSON(data []byte) error {
	type wire ToolDefinition
	var w wire
	if err := decodeStrict(data, &w, "tool"); err != nil {
		return err
	}
	if w.Type == "" {
		w.Type = ToolTypeFunction
	}
	out := ToolDefinition(w)
	if err := out.Validate(); err != nil {
		return err
	}
	*td = out
	return nil
}

// NamedToolChoice forces the model to call one specific function. Function
// is a fixed-shape map carrying exactly the key "name".
type NamedToolChoice struct {
	Type     string            `json:"type"`
	Function map[string]string `json:"function"`
}

// NewNamedToolChoice builds a choice forcing the given function.
func NewNamedToolChoice(name CanonicalIdentifier) (NamedToolChoice, error) {
	c := NamedToolChoice{
		Type:     ToolTypeFunction,
		Function: map[string]string{"name": string(name)},
	}
	if err := c.Validate(); err != nil {
		return NamedToolChoice{}, err
	}
	return c, nil
}

// Name returns the forced function name.
func (c NamedToolChoice) Name() CanonicalIdentifier {
	return CanonicalIdentifier(c.Function["name"])
}

// Validate enforces the exact {"name": <identifier>} shape.
func (c NamedToolChoice) Validate() error {
	if c.Type != ToolTypeFunction {
		return newValidationError("type", RuleDiscriminator,
			"named tool choice type must be %q, got %q", ToolTypeFunction, c.Type)
	}
	name, ok := c.Function["name"]
	if !ok {
		return newValidationError("function", RuleRequired,
			`named tool choice must carry the "name" key`)
	}
	for k := range c.Function {
		if k != "name" {
			return newValidationError("function", RuleExtraKey,
				"unexpected key %q in named tool choice", k)
		}
	}
	return revalidateIdentifier("function.name", name)
}

func (c *NamedToolChoice) UnmarshalJSON(data []byte) error {
	type wire NamedToolChoice
	var w wire
	if err := decodeStrict(data, &w, "tool_choice"); err != nil {
		return err
	}
	if w.Type == "" {
		w.Type = ToolTypeFunction
	}
	out := NamedToolChoice(w)
	if err := out.Validate(); err != nil {
		return err
	}
	*c = out
	return nil
}

// ToolChoiceMode is the string form of a tool choice: let the model decide,
// forbid tools, require some tool call, or announce that a specific
// function is forced (the object form carries which one).
type ToolChoiceMode string

const (
	ToolChoiceAuto     ToolChoiceMode = "auto"
	ToolChoiceNone     ToolChoiceMode = "none"
	ToolChoiceRequired ToolChoiceMode = "required"
	ToolChoiceFunction ToolChoiceMode = "function"
)

// Validate checks that the mode is one of the known values.
func (m ToolChoiceMode) Validate() error {
	switch m {
	case ToolChoiceAuto, ToolChoiceNone, ToolChoiceRequired, ToolChoiceFunction:
		return nil
	default:
		return newValidationError("tool_choice", RuleDiscriminator,
			"unknown tool choice mode %q", string(m))
	}
}

// ToolChoice is the string-or-object union for tool selection: either a
// mode string ("auto", "none", "required", "function") or a
// NamedToolChoice object forcing a specific function. Exactly one form
// is set.
type ToolChoice struct {
	Mode  ToolChoiceMode
	Named *NamedToolChoice
}

// ModeToolChoice wraps a mode string as a tool choice.
func ModeToolChoice(mode ToolChoiceMode) (ToolChoice, error) {
	c := ToolChoice{Mode: mode}
	if err := c.Validate(); err != nil {
		return ToolChoice{}, err
	}
	return c, nil
}

// ForcedToolChoice wraps a named choice as a tool choice.
func ForcedToolChoice(named NamedToolChoice) (ToolChoice, error) {
	c := ToolChoice{Named: &named}
	if err := c.Validate(); err != nil {
		return ToolChoice{}, err
	}
	return c, nil
}

// IsZero reports whether no choice was expressed at all, the state an
// omitted wire field decodes to.
func (c ToolChoice) IsZero() bool { return c.Mode == "" && c.Named == nil }

// Validate enforces that exactly one of the two forms is set.
func (c ToolChoice) Validate() error {
	switch {
	case c.Mode != "" && c.Named != nil:
		return newValidationError("tool_choice", RuleSourceExclusive,
			"tool choice cannot be both a mode and a named function")
	case c.Named != nil:
		return c.Named.Validate()
	case c.Mode != "":
		return c.Mode.Validate()
	default:
		return newValidationError("tool_choice", RuleRequired,
			"tool choice must be a mode string or a named function")
	}
}

func (c ToolChoice) MarshalJSON() ([]byte, error) {
	if c.Named != nil {
		return json.Marshal(c.Named)
	}
	return json.Marshal(c.Mode)
}

func (c *ToolChoice) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var mode ToolChoiceMode
		if err := json.Unmarshal(data, &mode); err != nil {
			return newValidationError("tool_choice", RuleSchema, "%v", err)
		}
		if err := mode.Validate(); err != nil {
			return err
		}
		*c = ToolChoice{Mode: mode}
		return nil
	}
	var named NamedToolChoice
	if err := named.UnmarshalJSON(data); err != nil {
		return err
	}
	*c = ToolChoice{Named: &named}
	return nil
}
