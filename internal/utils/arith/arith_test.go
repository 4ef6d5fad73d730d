package arith

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateString(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"1 + 2", "3"},
		{"2 + 3 * 4", "14"},
		{"(2 + 3) * 4", "20"},
		{"10 / 4", "2.5"},
		{"0.1 + 0.2", "0.3"},
		{"-5 + 2", "-3"},
		{"-(2 + 3)", "-5"},
		{"--4", "4"},
		{"+7", "7"},
		{"83.25 × 1000", "83250"},
		{"100 ÷ 8", "12.5"},
		{"1000 * 83.12 * 1.18", "98081.6"},
		{"((1))", "1"},
		{".5 * 4", "2"},
		{"8 - 2 - 1", "5"},
		{"16 / 4 / 2", "2"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := EvaluateString(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want error
	}{
		{name: "empty", expr: "   ", want: ErrEmpty},
		{name: "identifier", expr: "__import__('os')", want: ErrInvalidToken},
		{name: "function call", expr: "sqrt(4)", want: ErrInvalidToken},
		{name: "exponent operator", expr: "2 ** 3", want: ErrSyntax},
		{name: "power sign", expr: "2 ^ 3", want: ErrInvalidToken},
		{name: "double dot", expr: "1.2.3", want: ErrInvalidToken},
		{name: "lone dot", expr: ". + 1", want: ErrInvalidToken},
		{name: "trailing operator", expr: "1 +", want: ErrSyntax},
		{name: "unbalanced open", expr: "(1 + 2", want: ErrSyntax},
		{name: "unbalanced close", expr: "1 + 2)", want: ErrSyntax},
		{name: "adjacent numbers", expr: "1 2", want: ErrSyntax},
		{name: "division by zero", expr: "5 / (2 - 2)", want: ErrDivisionByZero},
		{name: "thousands separator", expr: "1,000 + 1", want: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(tt.expr)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestEvaluate_Limits(t *testing.T) {
	deep := ""
	for i := 0; i < 100; i++ {
		deep += "("
	}
	deep += "1"
	for i := 0; i < 100; i++ {
		deep += ")"
	}
	_, err := Evaluate(deep)
	assert.ErrorIs(t, err, ErrTooComplex)

	long := "1"
	for len(long) < 600 {
		long += "+1"
	}
	_, err = Evaluate(long)
	assert.ErrorIs(t, err, ErrTooComplex)
}
