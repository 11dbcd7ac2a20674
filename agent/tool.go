package agent

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ollama/ollama/api"
)

const supplementToolName = "query_supplements"

// ErrToolArguments flags a model tool invocation whose argument
// payload is not well-formed. The invocation degrades to an empty
// grounding result instead of failing the request.
var ErrToolArguments = errors.New("malformed tool arguments")

// QuerySupplementsTool declares the single callable the model may
// invoke: a catalog lookup keyed by the user's health question.
func QuerySupplementsTool() api.Tool {
	tool := api.Tool{
		Type: "function",
		Function: api.ToolFunction{
			Name:        supplementToolName,
			Description: "Query the supplement database for relevant products based on a health-related question",
		},
	}

	tool.Function.Parameters.Type = "object"
	tool.Function.Parameters.Required = []string{"question"}
	tool.Function.Parameters.Properties = map[string]api.ToolProperty{
		"question": {
			Type:        api.PropertyType{"string"},
			Description: "The user's health-related question or concern",
		},
	}

	return tool
}

// parseToolQuestion validates the model-supplied arguments of a
// query_supplements invocation and extracts the question text.
func parseToolQuestion(args api.ToolCallFunctionArguments) (string, error) {
	if args == nil {
		return "", fmt.Errorf("%w: no argument payload", ErrToolArguments)
	}

	value, ok := args["question"]
	if !ok {
		return "", fmt.Errorf("%w: missing required parameter %q", ErrToolArguments, "question")
	}

	question, ok := value.(string)
	if !ok || strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("%w: parameter %q must be a non-empty string", ErrToolArguments, "question")
	}

	return question, nil
}
