package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSystemPrompt(t *testing.T) {
	prompt := DefaultSystemPrompt()

	assert.Contains(t, prompt, "supplement recommendation assistant")
	assert.False(t, strings.HasSuffix(prompt, "\n"))
}

func TestBuildSystemPrompt(t *testing.T) {
	base := "You are a helpful assistant."

	tests := []struct {
		name        string
		quizAnswers map[string]any
		expected    []string
		notExpected []string
		unchanged   bool
	}{
		{
			name:        "nil answers leave base unchanged",
			quizAnswers: nil,
			unchanged:   true,
		},
		{
			name:        "empty answers leave base unchanged",
			quizAnswers: map[string]any{},
			unchanged:   true,
		},
		{
			name: "all categories empty leave base unchanged",
			quizAnswers: map[string]any{
				"health_goals": []string{},
				"symptoms":     []string{},
				"preferences":  map[string]any{"dietary": []string{}},
			},
			unchanged: true,
		},
		{
			name: "empty symptoms omitted",
			quizAnswers: map[string]any{
				"health_goals": []string{"energy", "sleep"},
				"symptoms":     []string{},
				"preferences":  map[string]any{"dietary": []string{"vegan"}},
			},
			expected: []string{
				"Additional context:",
				"Health goals: energy, sleep",
				"Dietary preferences: vegan",
			},
			notExpected: []string{"symptoms", "Symptoms"},
		},
		{
			name: "all categories present",
			quizAnswers: map[string]any{
				"health_goals": []string{"focus"},
				"symptoms":     []string{"fatigue", "brain fog"},
				"preferences":  map[string]any{"dietary": []string{"gluten-free", "vegan"}},
			},
			expected: []string{
				"Health goals: focus",
				"Current symptoms: fatigue, brain fog",
				"Dietary preferences: gluten-free, vegan",
			},
		},
		{
			name: "json-decoded lists accepted",
			quizAnswers: map[string]any{
				"health_goals": []any{"energy", "sleep"},
				"preferences":  map[string]any{"dietary": []any{"vegan"}},
			},
			expected: []string{
				"Health goals: energy, sleep",
				"Dietary preferences: vegan",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := BuildSystemPrompt(base, tt.quizAnswers)

			if tt.unchanged {
				assert.Equal(t, base, result)
				return
			}

			assert.True(t, strings.HasPrefix(result, base))
			for _, expected := range tt.expected {
				assert.Contains(t, result, expected)
			}
			for _, notExpected := range tt.notExpected {
				assert.NotContains(t, result, notExpected)
			}
		})
	}
}

func TestBuildSystemPrompt_CategoryOrder(t *testing.T) {
	result := BuildSystemPrompt("base", map[string]any{
		"health_goals": []string{"sleep"},
		"symptoms":     []string{"insomnia"},
		"preferences":  map[string]any{"dietary": []string{"vegan"}},
	})

	goalsPos := strings.Index(result, "Health goals:")
	symptomsPos := strings.Index(result, "Current symptoms:")
	dietaryPos := strings.Index(result, "Dietary preferences:")

	assert.True(t, goalsPos < symptomsPos)
	assert.True(t, symptomsPos < dietaryPos)
}
