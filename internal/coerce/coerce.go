// Package coerce converts untyped payloads into typed variable values. It is
// the bridge between JSON-shaped data (snapshot stores, evaluator results)
// and the concrete value type a Var carries.
package coerce

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// To converts value into T. Values already of type T pass through untouched;
// everything else takes a JSON round trip so maps, numbers, and nested
// payloads land in the right shape. Conversion failure reports both types.
func To[T any](value any) (T, error) {
	var zero T
	if value == nil {
		return zero, nil
	}
	if typed, ok := value.(T); ok {
		return typed, nil
	}

	buffer, err := json.Marshal(value)
	if err != nil {
		return zero, fmt.Errorf("coerce: marshal %T: %w", value, err)
	}
	decoder := json.NewDecoder(bytes.NewReader(buffer))
	var result T
	if err := decoder.Decode(&result); err != nil {
		return zero, fmt.Errorf("coerce: decode %T into %T: %w", value, zero, err)
	}
	return result, nil
}
