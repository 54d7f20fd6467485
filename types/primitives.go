package types

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Length bounds for the three semantic string kinds.
const (
	MaxIdentifierLength = 128
	MaxLabelLength      = 256
	MaxTextLength       = 10_000_000
)

var identifierPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9_-]*[a-z0-9])?$`)

// CanonicalIdentifier is a machine-safe identifier: lowercase alphanumeric
// with interior hyphens or underscores. Identifiers are safe to use as
// routing keys and database keys without escaping.
type CanonicalIdentifier string

// HumanLabel is a short single-line string safe to render in UIs and logs:
// no newlines, no control characters.
type HumanLabel string

// SemanticText is free-form text (prompts, code, model output). It is
// preserved byte-for-byte — no trimming or normalization — because
// whitespace is significant to LLM calls. Only an upper length bound
// applies.
type SemanticText string

// NewCanonicalIdentifier trims s and validates it as an identifier.
func NewCanonicalIdentifier(s string) (CanonicalIdentifier, error) {
	v, err := validateIdentifier("identifier", s)
	if err != nil {
		return "", err
	}
	return CanonicalIdentifier(v), nil
}

// NewHumanLabel trims s and validates it as a display label.
func NewHumanLabel(s string) (HumanLabel, error) {
	v, err := validateLabel("label", s)
	if err != nil {
		return "", err
	}
	return HumanLabel(v), nil
}

// NewSemanticText validates the length bound on s. The content is not
// modified in any way.
func NewSemanticText(s string) (SemanticText, error) {
	if err := validateText("text", s); err != nil {
		return "", err
	}
	return SemanticText(s), nil
}

func (id CanonicalIdentifier) String() string { return string(id) }
func (l HumanLabel) String() string           { return string(l) }
func (t SemanticText) String() string         { return string(t) }

// Validate reports whether the identifier is already in canonical form.
// Values produced by NewCanonicalIdentifier or decoded from JSON always
// pass; a raw conversion of an untrimmed or malformed string does not.
func (id CanonicalIdentifier) Validate() error {
	return revalidateIdentifier("identifier", string(id))
}

// Validate reports whether the label is already in canonical (trimmed) form.
func (l HumanLabel) Validate() error {
	return revalidateLabel("label", string(l))
}

// Validate checks the length bound.
func (t SemanticText) Validate() error {
	return validateText("text", string(t))
}

func (id *CanonicalIdentifier) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return newValidationError("identifier", RuleSchema, "%v", err)
	}
	v, err := NewCanonicalIdentifier(s)
	if err != nil {
		return err
	}
	*id = v
	return nil
}

func (l *HumanLabel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return newValidationError("label", RuleSchema, "%v", err)
	}
	v, err := NewHumanLabel(s)
	if err != nil {
		return err
	}
	*l = v
	return nil
}

func (t *SemanticText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return newValidationError("text", RuleSchema, "%v", err)
	}
	v, err := NewSemanticText(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// --- normalizers ---
//
// Each normalizer is a pure function over a string, attributed to the field
// it validates so composite records report precise errors. The checks are
// independent; no normalizer depends on another's output.

func validateIdentifier(field, s string) (string, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", newValidationError(field, RuleRequired, "identifier must not be empty")
	}
	if utf8.RuneCountInString(trimmed) > MaxIdentifierLength {
		return "", newValidationError(field, RuleTooLong, "identifier exceeds %d characters", MaxIdentifierLength)
	}
	if !identifierPattern.MatchString(trimmed) {
		return "", newValidationError(field, RuleCharset,
			"identifier %q must match %s", trimmed, identifierPattern.String())
	}
	return trimmed, nil
}

func validateLabel(field, s string) (string, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", newValidationError(field, RuleRequired, "label must not be empty")
	}
	if strings.ContainsAny(trimmed, "\n\r") {
		return "", newValidationError(field, RuleSingleLine, "label must be a single line")
	}
	for _, r := range trimmed {
		if r < 32 {
			return "", newValidationError(field, RuleControlChar,
				"label contains control character U+%04X", r)
		}
	}
	if utf8.RuneCountInString(trimmed) > MaxLabelLength {
		return "", newValidationError(field, RuleTooLong, "label exceeds %d characters", MaxLabelLength)
	}
	return trimmed, nil
}

func validateText(field, s string) error {
	if utf8.RuneCountInString(s) > MaxTextLength {
		return newValidationError(field, RuleTooLong, "text exceeds %d characters", MaxTextLength)
	}
	return nil
}

// revalidateIdentifier checks that s is valid and already normalized.
func revalidateIdentifier(field, s string) error {
	norm, err := validateIdentifier(field, s)
	if err != nil {
		return err
	}
	if norm != s {
		return newValidationError(field, RuleNotNormalized, "identifier %q is not trimmed", s)
	}
	return nil
}

// revalidateLabel checks that s is valid and already normalized.
func revalidateLabel(field, s string) error {
	norm, err := validateLabel(field, s)
	if err != nil {
		return err
	}
	if norm != s {
		return newValidationError(field, RuleNotNormalized, "label %q is not trimmed", s)
	}
	return nil
}
