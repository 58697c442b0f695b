// Package basic provides the pure built-in tools:
//   - "echo" — render the input message back, prefixed with "Echo: ".
//   - "add"  — sum two numbers and render "Result: <sum>".
//
// Neither tool touches an external collaborator, so neither can fail once
// its arguments have passed validation. Calling either twice with identical
// arguments yields identical results.
package basic

import (
	"context"
	"strconv"

	"github.com/arlberg/toolgate/internal/tool"
)

// NewTools returns the descriptors for the pure tools.
func NewTools() []tool.Descriptor {
	return []tool.Descriptor{
		{
			Name:        "echo",
			Description: "Echoes back the input message",
			Schema: []tool.FieldSpec{
				{Name: "message", Kind: tool.KindString, Required: true, Description: "Message to echo back"},
			},
			Effect:  tool.EffectPure,
			Execute: echo,
		},
		{
			Name:        "add",
			Description: "Adds two numbers",
			Schema: []tool.FieldSpec{
				{Name: "a", Kind: tool.KindNumber, Required: true, Description: "First number"},
				{Name: "b", Kind: tool.KindNumber, Required: true, Description: "Second number"},
			},
			Effect:  tool.EffectPure,
			Execute: add,
		},
	}
}

func echo(_ context.Context, args tool.Args) (*tool.Result, error) {
	return tool.TextResult("Echo: " + args.String("message")), nil
}

func add(_ context.Context, args tool.Args) (*tool.Result, error) {
	a, b := args.Number("a"), args.Number("b")
	sum := a + b

	// FormatFloat with precision -1 renders integral sums without a
	// trailing ".0" (2 + 3 → "5").
	rendered := strconv.FormatFloat(sum, 'f', -1, 64)

	return &tool.Result{
		Data: map[string]any{
			"result":      sum,
			"calculation": strconv.FormatFloat(a, 'f', -1, 64) + " + " + strconv.FormatFloat(b, 'f', -1, 64) + " = " + rendered,
		},
		Text: "Result: " + rendered,
	}, nil
}
