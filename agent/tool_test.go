package agent

import (
	"testing"

	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuerySupplementsTool(t *testing.T) {
	tool := QuerySupplementsTool()

	assert.Equal(t, "function", tool.Type)
	assert.Equal(t, "query_supplements", tool.Function.Name)
	assert.Equal(t, []string{"question"}, tool.Function.Parameters.Required)

	prop, ok := tool.Function.Parameters.Properties["question"]
	require.True(t, ok)
	assert.Equal(t, api.PropertyType{"string"}, prop.Type)
}

func TestParseToolQuestion(t *testing.T) {
	tests := []struct {
		name    string
		args    api.ToolCallFunctionArguments
		want    string
		wantErr bool
	}{
		{
			name: "valid question",
			args: api.ToolCallFunctionArguments{"question": "what helps with sleep"},
			want: "what helps with sleep",
		},
		{
			name:    "nil arguments",
			args:    nil,
			wantErr: true,
		},
		{
			name:    "missing question",
			args:    api.ToolCallFunctionArguments{"query": "sleep"},
			wantErr: true,
		},
		{
			name:    "non-string question",
			args:    api.ToolCallFunctionArguments{"question": 42},
			wantErr: true,
		},
		{
			name:    "empty question",
			args:    api.ToolCallFunctionArguments{"question": "  "},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseToolQuestion(tt.args)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrToolArguments)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
