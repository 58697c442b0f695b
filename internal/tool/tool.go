// Package tool implements the capability registry and dispatch layer shared
// by every transport in toolgate.
//
// A [Descriptor] declares one tool: its name, input schema, side-effect
// class, optional policy rule, and executor. Descriptors are collected into
// an immutable [Registry] at process start. Both the MCP stream transport
// and the HTTP REST transport dispatch through the same registry, so a tool
// behaves identically regardless of how it was called:
//
//	reg, err := tool.NewRegistry(descriptors)
//	res, err := reg.Dispatch(ctx, "add", map[string]any{"a": 2, "b": 3})
//
// Dispatch runs lookup → validation → policy gate → executor and normalises
// every outcome into either a [*Result] or a typed [*Error]. Validation and
// policy failures short-circuit before the executor runs, so a rejected call
// never touches an external collaborator.
package tool

import "context"

// Kind is the primitive type of a schema field.
type Kind string

const (
	KindString Kind = "string"
	KindNumber Kind = "number"

	// KindObject is an object with no declared fields. Used only by tools
	// that take no arguments.
	KindObject Kind = "object"
)

// SideEffect classifies a tool's external impact. The REST adapter uses it
// to choose the HTTP verb; the policy gate uses it to decide which rules
// apply.
type SideEffect string

const (
	EffectPure            SideEffect = "pure"
	EffectFilesystemRead  SideEffect = "filesystem-read"
	EffectFilesystemWrite SideEffect = "filesystem-write"
	EffectNetworkRead     SideEffect = "network-read"
	EffectDatabaseRead    SideEffect = "database-read"
)

// FieldSpec declares one named input field of a tool.
type FieldSpec struct {
	Name        string
	Kind        Kind
	Required    bool
	Description string
}

// Descriptor is the static definition of a single tool. Descriptors are
// built once at start-up and never mutated afterwards, so they are safe for
// unsynchronised concurrent reads.
type Descriptor struct {
	// Name uniquely identifies the tool across the registry.
	Name string

	// Description is the human-readable summary shown in tool listings.
	Description string

	// Schema is the ordered set of declared input fields.
	Schema []FieldSpec

	// Effect is the tool's side-effect class.
	Effect SideEffect

	// Policy is an optional semantic check applied to validated arguments
	// before execution. A nil Policy authorises every call.
	Policy func(args Args) error

	// Execute runs the tool against its external collaborator. It may
	// assume args has already passed validation and the policy gate.
	Execute func(ctx context.Context, args Args) (*Result, error)
}

// Args is the validated argument set for a single invocation. It is created
// per call and never shared across calls.
type Args map[string]any

// String returns the named field as a string. It must only be called for
// fields the schema declares as [KindString]; validation guarantees the
// dynamic type.
func (a Args) String(name string) string {
	s, _ := a[name].(string)
	return s
}

// Number returns the named field as a float64. It must only be called for
// fields the schema declares as [KindNumber].
func (a Args) Number(name string) float64 {
	switch n := a[name].(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	return 0
}
