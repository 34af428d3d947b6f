// Package normalizer turns test-case shorthand into canonical cases and
// expected messages into comparable field sets.
package normalizer

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/tylerbu/stylelint-test-lib/config"
	"github.com/tylerbu/stylelint-test-lib/types"
)

// NormalizeCase converts a raw case into a NormalizedCase. An explicit typ
// wins over a type already carried by c, which wins over inference. The
// input is never modified.
func NormalizeCase(c types.Case, filenames map[config.Dialect]string, typ types.CaseType) types.NormalizedCase {
	var normalized types.NormalizedCase
	switch v := c.(type) {
	case types.NormalizedCase:
		normalized = v
	case *types.NormalizedCase:
		if v != nil {
			normalized = *v
		}
	case *types.TestCase:
		if v != nil {
			normalized.TestCase = *v
		}
	default:
		normalized.TestCase = types.Raw(c)
	}

	switch {
	case typ != "":
		normalized.Type = typ
	case normalized.Type != "":
	case IsInvalid(normalized.TestCase):
		normalized.Type = types.Invalid
	default:
		normalized.Type = types.Valid
	}

	if normalized.Filename == "" {
		normalized.Filename = DefaultFilename(filenames)
	}
	return normalized
}

// DefaultFilename returns the CSS filename from filenames, or the built-in one.
func DefaultFilename(filenames map[config.Dialect]string) string {
	if name := filenames[config.DialectCSS]; name != "" {
		return name
	}
	return config.DefaultFilename
}

// IsInvalid infers polarity from presence alone: any set expectation or any
// output expectation (Unchanged included) makes a case invalid.
func IsInvalid(c types.TestCase) bool {
	return types.Present(c.Warnings) ||
		types.Present(c.Deprecations) ||
		types.Present(c.ParseErrors) ||
		types.Present(c.InvalidOptionWarnings) ||
		c.Output != nil
}

// NormalizeMessage converts an expected message into a field set: bare
// strings become {text: s}, maps and structs are flattened through JSON so
// numbers and nested values compare like the actual diagnostics do.
func NormalizeMessage(message any) (types.Partial, error) {
	if s, ok := message.(string); ok {
		return types.Partial{"text": s}, nil
	}
	if message == nil {
		return nil, fmt.Errorf("expected message is nil")
	}
	kind := reflect.Indirect(reflect.ValueOf(message)).Kind()
	if kind != reflect.Map && kind != reflect.Struct {
		return nil, fmt.Errorf("unsupported expected message of type %T", message)
	}
	return ToFields(message)
}

// ToFields flattens any JSON-encodable value into a field map.
func ToFields(v any) (types.Partial, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode message: %w", err)
	}
	return types.Partial(fields), nil
}
