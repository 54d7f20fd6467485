package types

import (
	"encoding/json"
	"reflect"
)

// MaxPayloadDepth bounds the nesting of tool arguments and schema payloads.
// Payloads beyond this depth are rejected before they can consume stack or
// memory at a provider boundary.
const MaxPayloadDepth = 20

// validatePayload checks that payload is depth-bounded, acyclic, and
// JSON-serializable. The depth walk carries its own cycle detection and runs
// first, so cyclic payloads fail there deterministically instead of inside
// the marshaler.
func validatePayload(field string, payload map[string]any) error {
	if payload == nil {
		return nil
	}
	if err := validateDepth(field, payload); err != nil {
		return err
	}
	if _, err := json.Marshal(payload); err != nil {
		return newValidationError(field, RuleNotSerializable,
			"payload is not JSON-serializable: %v", err)
	}
	return nil
}

// validateDepth walks an arbitrary nested map/slice structure and rejects
// branches nested deeper than MaxPayloadDepth. Maps and non-empty slices on
// the current branch are tracked in a visited set so self-referential
// payloads fail with RuleCyclicPayload rather than hanging.
func validateDepth(field string, payload any) error {
	visited := make(map[uintptr]struct{})
	return walkDepth(field, reflect.ValueOf(payload), 1, visited)
}

func walkDepth(field string, v reflect.Value, depth int, visited map[uintptr]struct{}) error {
	for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return nil
	}

	switch v.Kind() {
	case reflect.Map, reflect.Slice:
		if depth > MaxPayloadDepth {
			return newValidationError(field, RuleDepthExceeded,
				"payload nesting exceeds %d levels", MaxPayloadDepth)
		}
		if v.Kind() == reflect.Map && v.IsNil() {
			return nil
		}
		// Empty slices may share the runtime's zero base address; only
		// containers with elements can participate in a cycle.
		if v.Len() > 0 {
			ptr := v.Pointer()
			if _, seen := visited[ptr]; seen {
				return newValidationError(field, RuleCyclicPayload,
					"payload contains a cyclic reference")
			}
			visited[ptr] = struct{}{}
			defer delete(visited, ptr)
		}
		if v.Kind() == reflect.Map {
			iter := v.MapRange()
			for iter.Next() {
				if err := walkDepth(field, iter.Value(), depth+1, visited); err != nil {
					return err
				}
			}
			return nil
		}
		for i := 0; i < v.Len(); i++ {
			if err := walkDepth(field, v.Index(i), depth+1, visited); err != nil {
				return err
			}
		}
		return nil

	case reflect.Array:
		if depth > MaxPayloadDepth {
			return newValidationError(field, RuleDepthExceeded,
				"payload nesting exceeds %d levels", MaxPayloadDepth)
		}
		for i := 0; i < v.Len(); i++ {
			if err := walkDepth(field, v.Index(i), depth+1, visited); err != nil {
				return err
			}
		}
		return nil

	default:
		return nil
	}
}

// reservedFunctionNames lists identifiers that collide with keywords or
// eval-adjacent builtins in runtimes that commonly consume tool schemas
// (Python, JavaScript, Go). Function names are already forced lowercase by
// the identifier rules, so the list is lowercase-only.
var reservedFunctionNames = map[string]struct{}{
	// Python keywords
	"and": {}, "as": {}, "assert": {}, "async": {}, "await": {}, "break": {},
	"class": {}, "continue": {}, "def": {}, "del": {}, "elif": {}, "else": {},
	"except": {}, "finally": {}, "for": {}, "from": {}, "global": {}, "if": {},
	"import": {}, "in": {}, "is": {}, "lambda": {}, "nonlocal": {}, "not": {},
	"or": {}, "pass": {}, "raise": {}, "return": {}, "try": {}, "while": {},
	"with": {}, "yield": {},
	// Python eval-adjacent builtins
	"eval": {}, "exec": {}, "compile": {}, "globals": {}, "locals": {},
	"open": {}, "input": {},
	// JavaScript keywords not covered above
	"case": {}, "catch": {}, "const": {}, "debugger": {}, "default": {},
	"delete": {}, "do": {}, "export": {}, "extends": {}, "function": {},
	"instanceof": {}, "let": {}, "new": {}, "super": {}, "switch": {},
	"this": {}, "throw": {}, "typeof": {}, "var": {}, "void": {},
	// Go keywords not covered above
	"chan": {}, "defer": {}, "fallthrough": {}, "func": {}, "go": {},
	"goto": {}, "interface": {}, "map": {}, "package": {}, "range": {},
	"select": {}, "struct": {}, "type": {},
}

func isReservedFunctionName(name string) bool {
	_, ok := reservedFunctionNames[name]
	return ok
}
