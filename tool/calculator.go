package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
)

func init() {
	RegisterImpl("calculator", newCalculator)
}

// newCalculator builds the expression-evaluating implementation behind the
// calculator manifest. Arguments are re-joined with commas before evaluation
// because the directive parser splits on commas and expressions like
// "max(2, 3)" would otherwise arrive in pieces.
func newCalculator(_ map[string]any) (InvokeFunc, error) {
	return func(_ context.Context, args []string) (string, error) {
		expression := strings.TrimSpace(strings.Join(args, ","))
		if expression == "" {
			return "", NewError("calculator", "empty expression", "VALIDATION_ERROR")
		}

		program, err := expr.Compile(expression)
		if err != nil {
			return "", NewError("calculator", fmt.Sprintf("expression error: %v", err), "VALIDATION_ERROR")
		}

		result, err := expr.Run(program, nil)
		if err != nil {
			return "", NewError("calculator", fmt.Sprintf("evaluation error: %v", err), "EXECUTION_ERROR")
		}

		return fmt.Sprintf("%v", result), nil
	}, nil
}
