package prompts

import (
	"embed"
	"strings"
	"sync"
)

//go:embed templates/*
var templatesFS embed.FS

var loadBasePrompt = sync.OnceValue(func() string {
	content, err := templatesFS.ReadFile("templates/system_prompt.md")
	if err != nil {
		// The template is compiled into the binary; a read failure is a
		// build defect, not a runtime condition.
		panic(err)
	}
	return strings.TrimRight(string(content), "\n")
})

// DefaultSystemPrompt returns the base assistant instruction.
func DefaultSystemPrompt() string {
	return loadBasePrompt()
}

// BuildSystemPrompt appends a personalization block rendered from quiz
// answers to the base instruction. Categories render in a fixed order
// (health goals, then symptoms, then dietary preferences) and an empty
// category is omitted entirely. With no usable answers the base
// instruction is returned unchanged.
func BuildSystemPrompt(base string, quizAnswers map[string]any) string {
	if len(quizAnswers) == 0 {
		return base
	}

	var context []string

	if goals := stringList(quizAnswers["health_goals"]); len(goals) > 0 {
		context = append(context, "Health goals: "+strings.Join(goals, ", "))
	}

	if symptoms := stringList(quizAnswers["symptoms"]); len(symptoms) > 0 {
		context = append(context, "Current symptoms: "+strings.Join(symptoms, ", "))
	}

	if preferences, ok := quizAnswers["preferences"].(map[string]any); ok {
		if dietary := stringList(preferences["dietary"]); len(dietary) > 0 {
			context = append(context, "Dietary preferences: "+strings.Join(dietary, ", "))
		}
	}

	if len(context) == 0 {
		return base
	}

	return base + "\n\nAdditional context:\n" + strings.Join(context, "\n")
}

// stringList coerces a quiz answer value into a string slice. JSON
// decoding hands lists over as []any, direct callers pass []string.
func stringList(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
