package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

// Validation rule identifiers. Every hard rejection carries one of these so
// callers can branch on the rule without parsing the message.
const (
	RuleSchema          = "schema"           // unknown field or malformed payload
	RuleRequired        = "required"         // empty or missing value
	RuleTooLong         = "too_long"         // length bound exceeded
	RuleCharset         = "charset"          // disallowed characters
	RuleSingleLine      = "single_line"      // embedded newline
	RuleControlChar     = "control_char"     // control character present
	RuleNegative        = "negative"         // counter below zero
	RuleNonFinite       = "non_finite"       // NaN or Infinity
	RuleOutOfRange      = "out_of_range"     // numeric bound violated
	RuleTokenMath       = "token_math"       // input + output != total
	RuleCacheOverrun    = "cache_overrun"    // cache reads exceed input
	RuleStrategy        = "strategy"         // budget strategy/limit incoherence
	RuleMediaType       = "media_type"       // MIME type not allow-listed
	RuleSourceExclusive = "source_exclusive" // data/url mutual exclusivity
	RuleSubstance       = "substance"        // all content fields empty
	RuleDiscriminator   = "discriminator"    // bad or missing union tag
	RuleExtraKey        = "extra_key"        // unexpected key in a fixed-shape map
	RuleDepthExceeded   = "depth_exceeded"   // nesting beyond MaxPayloadDepth
	RuleCyclicPayload   = "cyclic_payload"   // self-referential payload
	RuleNotSerializable = "not_serializable" // payload does not marshal to JSON
	RuleReservedName    = "reserved_name"    // function name collides with a keyword
	RulePattern         = "pattern"          // string does not match required pattern
	RuleNotNormalized   = "not_normalized"   // value differs from its canonical form
	RuleTimestamp       = "timestamp"        // zero or non-UTC timestamp
)

// ValidationError reports a single contract violation: which field broke
// which rule. Construction never yields a partially valid record; the first
// violation aborts it.
type ValidationError struct {
	Field   string
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s [%s]", e.Field, e.Message, e.Rule)
}

func newValidationError(field, rule, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Rule: rule, Message: fmt.Sprintf(format, args...)}
}

// Diagnostic is a non-fatal advisory produced during validation, such as a
// physically implausible latency report. Diagnostics never fail
// construction and must not be treated as errors by callers.
type Diagnostic struct {
	Field   string
	Message string
}

var (
	warnMu      sync.RWMutex
	warnHandler = func(d Diagnostic) {
		log.Printf("xulcan/types: %s: %s", d.Field, d.Message)
	}
)

// SetWarnHandler routes advisory diagnostics to the given sink. The server
// binds this to its structured logger at startup. Passing nil restores the
// default standard-log sink; diagnostics are never silently dropped.
func SetWarnHandler(fn func(Diagnostic)) {
	warnMu.Lock()
	defer warnMu.Unlock()
	if fn == nil {
		fn = func(d Diagnostic) {
			log.Printf("xulcan/types: %s: %s", d.Field, d.Message)
		}
	}
	warnHandler = fn
}

func warn(diags []Diagnostic) {
	if len(diags) == 0 {
		return
	}
	warnMu.RLock()
	fn := warnHandler
	warnMu.RUnlock()
	for _, d := range diags {
		fn(d)
	}
}

// decodeStrict unmarshals data into v rejecting unknown fields, mapping any
// decode failure to a ValidationError attributed to the given record name.
func decodeStrict(data []byte, v any, record string) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if ve, ok := err.(*ValidationError); ok {
			return ve
		}
		return newValidationError(record, RuleSchema, "%v", err)
	}
	return nil
}
