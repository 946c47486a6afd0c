package types

import "fmt"

// ConfigError is a fatal startup problem: missing credential, bad flag,
// unreadable config file. Never retried.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return "config: " + e.Msg }

// SchemaError means a backend returned text that does not match the
// storyboard contract. Fatal for the run, never retried.
type SchemaError struct {
	Msg   string
	Cause error
}

func (e *SchemaError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("schema: %s: %v", e.Msg, e.Cause)
	}
	return "schema: " + e.Msg
}

func (e *SchemaError) Unwrap() error { return e.Cause }

// BackendError is a network/auth/quota failure calling an external service.
// Retryable where retrying is safe; routed to a fallback where one exists.
type BackendError struct {
	Backend string
	Cause   error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %s: %v", e.Backend, e.Cause)
}

func (e *BackendError) Unwrap() error { return e.Cause }

// RenderError is an encoder invocation failure. The encoder's diagnostic
// output is carried verbatim.
type RenderError struct {
	Msg    string
	Output string
	Cause  error
}

func (e *RenderError) Error() string {
	s := "render: " + e.Msg
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	if e.Output != "" {
		s += "\n" + e.Output
	}
	return s
}

func (e *RenderError) Unwrap() error { return e.Cause }

// MaterializationError is a disk write or asset-store consistency failure.
// Indicates an environment problem or a bug, not a backend failure.
type MaterializationError struct {
	Msg   string
	Cause error
}

func (e *MaterializationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("materialize: %s: %v", e.Msg, e.Cause)
	}
	return "materialize: " + e.Msg
}

func (e *MaterializationError) Unwrap() error { return e.Cause }
