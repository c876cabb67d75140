package llm

import (
	"errors"
	"fmt"

	"segcraft/internal/promptbuild"
	"segcraft/internal/schema"
)

// The error taxonomy: missing input (promptbuild.MissingInputError), network,
// parse, schema violation. All are inspectable with errors.As; none is fatal
// to the process.

// NetworkError wraps a transport-level failure talking to the provider.
// Surfaced immediately, never retried.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError means the model response contained no decodable JSON document,
// even after the repair attempt. Raw keeps the offending text for inspection.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse model response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError means the document decoded but failed schema validation after
// the repair attempt.
type SchemaError struct {
	Violations []schema.Violation
}

func (e *SchemaError) Error() string {
	if len(e.Violations) == 0 {
		return "schema violation"
	}
	return fmt.Sprintf("schema violation at %s: %s (%d violation(s) total)",
		e.Violations[0].Field, e.Violations[0].Message, len(e.Violations))
}

// Field names the first offending field, when known.
func (e *SchemaError) Field() string {
	if len(e.Violations) == 0 {
		return ""
	}
	return e.Violations[0].Field
}

// Outcome labels used by Classify and the history store.
const (
	OutcomeOK              = "ok"
	OutcomeMissingInput    = "missing_input"
	OutcomeNetworkError    = "network_error"
	OutcomeParseError      = "parse_error"
	OutcomeSchemaViolation = "schema_violation"
	OutcomeOtherError      = "error"
)

// Classify maps an error from Generate onto the taxonomy label.
func Classify(err error) string {
	if err == nil {
		return OutcomeOK
	}
	var missing *promptbuild.MissingInputError
	if errors.As(err, &missing) {
		return OutcomeMissingInput
	}
	var network *NetworkError
	if errors.As(err, &network) {
		return OutcomeNetworkError
	}
	var parse *ParseError
	if errors.As(err, &parse) {
		return OutcomeParseError
	}
	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) {
		return OutcomeSchemaViolation
	}
	return OutcomeOtherError
}
