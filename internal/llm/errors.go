package llm

import "fmt"

// ProviderError wraps a transport or provider failure. The operation is
// aborted and surfaced to the caller as a generic generation failure; the
// wrapped error stays internal for diagnostics.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("llm provider: %v", e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ParseError reports completion text that is not valid JSON. Label names
// the operation for diagnostics.
type ParseError struct {
	Label string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to parse %s JSON response: %v", e.Label, e.Err)
	}
	return fmt.Sprintf("failed to parse %s JSON response", e.Label)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ShapeError reports valid JSON of the wrong shape, either at the
// object-vs-array level or in a field-level constraint.
type ShapeError struct {
	Label  string
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s response %s", e.Label, e.Reason)
}
