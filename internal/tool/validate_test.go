package tool

import (
	"errors"
	"strings"
	"testing"
)

var testSchema = []FieldSpec{
	{Name: "path", Kind: KindString, Required: true},
	{Name: "count", Kind: KindNumber, Required: false},
}

func testDescriptor() *Descriptor {
	return &Descriptor{Name: "test", Schema: testSchema}
}

func TestValidate_RequiredFieldMissing(t *testing.T) {
	t.Parallel()

	_, err := Validate(testDescriptor(), map[string]any{"count": 3.0})
	var terr *Error
	if !errors.As(err, &terr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if terr.Kind != KindValidation {
		t.Errorf("kind = %q, want %q", terr.Kind, KindValidation)
	}
	if !strings.Contains(terr.Message, "path") {
		t.Errorf("message %q should name the missing field", terr.Message)
	}
}

func TestValidate_TypeMismatch(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  map[string]any
	}{
		{"string field with number", map[string]any{"path": 42.0}},
		{"number field with string", map[string]any{"path": "x", "count": "three"}},
		{"string field with bool", map[string]any{"path": true}},
		{"string field with null", map[string]any{"path": nil}},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(testDescriptor(), tt.raw)
			var terr *Error
			if !errors.As(err, &terr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if terr.Kind != KindValidation {
				t.Errorf("kind = %q, want %q", terr.Kind, KindValidation)
			}
		})
	}
}

func TestValidate_OK(t *testing.T) {
	t.Parallel()

	args, err := Validate(testDescriptor(), map[string]any{"path": "/tmp/x", "count": 2.0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := args.String("path"); got != "/tmp/x" {
		t.Errorf("path = %q", got)
	}
	if got := args.Number("count"); got != 2 {
		t.Errorf("count = %v", got)
	}
}

func TestValidate_OptionalFieldAbsent(t *testing.T) {
	t.Parallel()

	if _, err := Validate(testDescriptor(), map[string]any{"path": "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_UndeclaredFieldsIgnored(t *testing.T) {
	t.Parallel()

	args, err := Validate(testDescriptor(), map[string]any{"path": "x", "extra": []any{1, 2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Undeclared fields are carried through untouched, not rejected.
	if _, ok := args["extra"]; !ok {
		t.Error("undeclared field should remain in the argument set")
	}
}

func TestValidate_IntAcceptedForNumber(t *testing.T) {
	t.Parallel()

	// Callers constructing argument maps in Go often pass untyped ints.
	args, err := Validate(testDescriptor(), map[string]any{"path": "x", "count": 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := args.Number("count"); got != 7 {
		t.Errorf("count = %v, want 7", got)
	}
}
