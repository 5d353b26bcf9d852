package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"
)

// ParseNumber reads a form field as a number. Plain numbers pass through
// strconv; anything else is evaluated as an arithmetic expression, so a
// farmer can enter "50*20" for a 50x20 plot.
func ParseNumber(input string) (float64, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return 0, fmt.Errorf("nilai tidak boleh kosong")
	}
	if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return v, nil
	}

	expr, err := govaluate.NewEvaluableExpression(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%q bukan angka yang valid", input)
	}
	// Words like "banyak" parse as parameter references; evaluating them
	// with no parameter map panics inside govaluate.
	if len(expr.Vars()) > 0 {
		return 0, fmt.Errorf("%q bukan angka yang valid", input)
	}
	result, err := expr.Evaluate(nil)
	if err != nil {
		return 0, fmt.Errorf("%q bukan angka yang valid", input)
	}
	v, ok := result.(float64)
	if !ok {
		return 0, fmt.Errorf("%q bukan angka yang valid", input)
	}
	return v, nil
}

// ParsePositive is ParseNumber with a strictly-positive requirement.
func ParsePositive(input string) (float64, error) {
	v, err := ParseNumber(input)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("nilai harus lebih dari nol")
	}
	return v, nil
}
