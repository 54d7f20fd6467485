package types

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ModelProvider selects which LLM provider a blueprint routes to. The wire
// format carries string literals for stability; the type exists for
// validation and provider routing.
type ModelProvider string

const (
	ProviderOpenAI    ModelProvider = "openai"
	ProviderAnthropic ModelProvider = "anthropic"
	ProviderGoogle    ModelProvider = "google"
)

// Validate checks that the provider is one of the known values.
func (p ModelProvider) Validate() error {
	switch p {
	case ProviderOpenAI, ProviderAnthropic, ProviderGoogle:
		return nil
	default:
		return newValidationError("model_provider", RuleDiscriminator,
			"unknown model provider %q", string(p))
	}
}

// Blueprint bounds and defaults.
const (
	MaxToolNameLength       = 64
	MaxDescriptionLength    = 1024
	DefaultBlueprintVersion = "1.0.0"
	DefaultTimeoutSeconds   = 600
	MinTimeoutSeconds       = 1
	MaxTimeoutSeconds       = 3600
	MinTemperature          = 0.0
	MaxTemperature          = 2.0
)

var semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// AgentToolConfig names one tool available to an agent. Tools can be
// disabled without removing them from the configuration.
type AgentToolConfig struct {
	Name    CanonicalIdentifier `json:"name"`
	Enabled bool                `json:"enabled"`
}

// NewAgentToolConfig builds an enabled tool entry.
func NewAgentToolConfig(name CanonicalIdentifier) (AgentToolConfig, error) {
	c := AgentToolConfig{Name: name, Enabled: true}
	if err := c.Validate(); err != nil {
		return AgentToolConfig{}, err
	}
	return c, nil
}

// Validate checks the tool name against identifier rules plus the tighter
// tool-name length bound.
func (c AgentToolConfig) Validate() error {
	if err := revalidateIdentifier("name", string(c.Name)); err != nil {
		return err
	}
	if utf8.RuneCountInString(string(c.Name)) > MaxToolNameLength {
		return newValidationError("name", RuleTooLong,
			"tool name exceeds %d characters", MaxToolNameLength)
	}
	return nil
}

func (c *AgentToolConfig) UnmarshalJSON(data []byte) error {
	// Enabled defaults to true when omitted, so the wire form carries a
	// pointer to distinguish absence from an explicit false.
	var w struct {
		Name    CanonicalIdentifier `json:"name"`
		Enabled *bool               `json:"enabled"`
	}
	if err := decodeStrict(data, &w, "tool_config"); err != nil {
		return err
	}
	enabled := true
	if w.Enabled != nil {
		enabled = *w.Enabled
	}
	out := AgentToolConfig{Name: w.Name, Enabled: enabled}
	if err := out.Validate(); err != nil {
		return err
	}
	*c = out
	return nil
}

// AgentBlueprint is the static, versioned configuration of an agent: which
// model it runs, how it behaves, which tools it may use, and its execution
// constraints. Blueprints are data, not code; a deployed blueprint is never
// mutated, only superseded by a new version.
type AgentBlueprint struct {
	ID          CanonicalIdentifier `json:"id"`
	Name        HumanLabel          `json:"name"`
	Version     string              `json:"version"`
	Description string              `json:"description,omitempty"`

	ModelProvider ModelProvider `json:"model_provider"`
	ModelName     string        `json:"model_name"`
	Temperature   float64       `json:"temperature"`
	MaxTokens     *int          `json:"max_tokens,omitempty"`

	SystemPrompt SemanticText      `json:"system_prompt"`
	Tools        []AgentToolConfig `json:"tools,omitempty"`

	TimeoutSeconds int `json:"timeout_seconds"`
}

// NewAgentBlueprint applies defaults (version, timeout) to b and validates
// it.
func NewAgentBlueprint(b AgentBlueprint) (AgentBlueprint, error) {
	b.applyDefaults()
	if err := b.Validate(); err != nil {
		return AgentBlueprint{}, err
	}
	return b, nil
}

func (b *AgentBlueprint) applyDefaults() {
	if b.Version == "" {
		b.Version = DefaultBlueprintVersion
	}
	if b.TimeoutSeconds == 0 {
		b.TimeoutSeconds = DefaultTimeoutSeconds
	}
}

// Validate checks every blueprint invariant.
func (b AgentBlueprint) Validate() error {
	if err := revalidateIdentifier("id", string(b.ID)); err != nil {
		return err
	}
	if err := revalidateLabel("name", string(b.Name)); err != nil {
		return err
	}
	if !semverPattern.MatchString(b.Version) {
		return newValidationError("version", RulePattern,
			"version %q must be semantic (major.minor.patch)", b.Version)
	}
	if utf8.RuneCountInString(b.Description) > MaxDescriptionLength {
		return newValidationError("description", RuleTooLong,
			"description exceeds %d characters", MaxDescriptionLength)
	}
	if err := b.ModelProvider.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(b.ModelName) == "" {
		return newValidationError("model_name", RuleRequired, "model name must not be empty")
	}
	if utf8.RuneCountInString(b.ModelName) > MaxIdentifierLength {
		return newValidationError("model_name", RuleTooLong,
			"model name exceeds %d characters", MaxIdentifierLength)
	}
	if math.IsNaN(b.Temperature) || math.IsInf(b.Temperature, 0) {
		return newValidationError("temperature", RuleNonFinite, "temperature must be finite")
	}
	if b.Temperature < MinTemperature || b.Temperature > MaxTemperature {
		return newValidationError("temperature", RuleOutOfRange,
			"temperature must be in [%v, %v], got %v", MinTemperature, MaxTemperature, b.Temperature)
	}
	if b.MaxTokens != nil && *b.MaxTokens <= 0 {
		return newValidationError("max_tokens", RuleOutOfRange,
			"must be positive, got %d", *b.MaxTokens)
	}
	if strings.TrimSpace(string(b.SystemPrompt)) == "" {
		return newValidationError("system_prompt", RuleRequired,
			"system prompt must not be empty or whitespace")
	}
	if err := b.SystemPrompt.Validate(); err != nil {
		return err
	}
	for _, t := range b.Tools {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	if b.TimeoutSeconds < MinTimeoutSeconds || b.TimeoutSeconds > MaxTimeoutSeconds {
		return newValidationError("timeout_seconds", RuleOutOfRange,
			"timeout must be in [%d, %d] seconds, got %d",
			MinTimeoutSeconds, MaxTimeoutSeconds, b.TimeoutSeconds)
	}
	return nil
}

// EnabledTools returns the names of tools with enabled=true, in
// configuration order.
func (b AgentBlueprint) EnabledTools() []CanonicalIdentifier {
	var out []CanonicalIdentifier
	for _, t := range b.Tools {
		if t.Enabled {
			out = append(out, t.Name)
		}
	}
	return out
}

// HasTools reports whether at least one tool is enabled.
func (b AgentBlueprint) HasTools() bool {
	for _, t := range b.Tools {
		if t.Enabled {
			return true
		}
	}
	return false
}

func (b *AgentBlueprint) UnmarshalJSON(data []byte) error {
	type wire AgentBlueprint
	var w wire
	if err := decodeStrict(data, &w, "blueprint"); err != nil {
		return err
	}
	out := AgentBlueprint(w)
	out.applyDefaults()
	if err := out.Validate(); err != nil {
		return err
	}
	*b = out
	return nil
}
