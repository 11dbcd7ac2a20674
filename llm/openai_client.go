package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

type OpenAIClient struct {
	apiKey     string
	httpClient *http.Client
	url        string
	model      string
}

func NewOpenAIClient(model string) LLMClient {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		logger.Fatal("OPENAI_API_KEY environment variable is not set")
		return nil
	}

	return &OpenAIClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		url:        "https://api.openai.com/v1/chat/completions",
		model:      model,
	}
}

func (c *OpenAIClient) Capabilities() Capability {
	return NativeToolCalling
}

func (c *OpenAIClient) GetModel() string {
	return c.model
}

func (c *OpenAIClient) GenerateInference(ctx context.Context, messages []Message, callback func(chunk string) error, opts ...LLMOption) error {
	// Default settings
	settings := LLMSettings{
		model:       c.model,
		temperature: 0.7,
		maxTokens:   4096,
	}

	// Apply options
	for _, opt := range opts {
		opt(&settings)
	}

	request := openaiRequest{
		Model:       settings.model,
		Messages:    messages,
		Temperature: settings.temperature,
		MaxTokens:   settings.maxTokens,
	}

	// OpenAI takes the system prompt as the leading message
	if settings.system != "" {
		systemMsg := Message{
			Role:    "system",
			Content: settings.system,
		}
		request.Messages = append([]Message{systemMsg}, request.Messages...)
	}

	return c.makeRequest(ctx, request, callback, nil)
}

func (c *OpenAIClient) GenerateInferenceWithTools(
	ctx context.Context,
	messages []Message,
	contentCallback func(chunk string) error,
	toolCallback func(toolCalls []api.ToolCall) error,
	opts ...LLMOption,
) error {
	// Default settings
	settings := LLMSettings{
		model:       c.model,
		temperature: 0.7,
		maxTokens:   4096,
	}

	// Apply options
	for _, opt := range opts {
		opt(&settings)
	}

	request := openaiRequest{
		Model:        settings.model,
		Messages:     messages,
		Temperature:  settings.temperature,
		MaxTokens:    settings.maxTokens,
		Functions:    convertToolsToOpenAIFormat(settings.tools),
		FunctionCall: "auto",
	}

	if settings.system != "" {
		systemMsg := Message{
			Role:    "system",
			Content: settings.system,
		}
		request.Messages = append([]Message{systemMsg}, request.Messages...)
	}

	return c.makeRequest(ctx, request, contentCallback, toolCallback)
}

func (c *OpenAIClient) makeRequest(
	ctx context.Context,
	request openaiRequest,
	contentCallback func(chunk string) error,
	toolCallback func(toolCalls []api.ToolCall) error,
) error {
	jsonData, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransientError{Err: fmt.Errorf("error making request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransientError{Err: fmt.Errorf("error reading response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		statusErr := fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
		if retryableStatus(resp.StatusCode) {
			return &TransientError{Err: statusErr}
		}
		return statusErr
	}

	var response openaiResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return fmt.Errorf("error unmarshaling response: %w", err)
	}

	if len(response.Choices) == 0 {
		return fmt.Errorf("no choices in response")
	}

	choice := response.Choices[0]

	// Handle function calls
	if choice.Message.FunctionCall != nil && toolCallback != nil {
		fc := choice.Message.FunctionCall

		// Parse the JSON arguments string into a map. A malformed payload
		// still surfaces the invocation; argument validation is the
		// caller's concern.
		var args map[string]any
		if err := json.Unmarshal([]byte(fc.Arguments), &args); err != nil {
			logger.Error("Failed to parse function call arguments",
				zap.String("function", fc.Name), zap.Error(err))
			args = nil
		}

		toolCalls := []api.ToolCall{{
			Function: api.ToolCallFunction{
				Name:      fc.Name,
				Arguments: api.ToolCallFunctionArguments(args),
			},
		}}
		return toolCallback(toolCalls)
	}

	// Handle regular content
	if choice.Message.Content != "" && contentCallback != nil {
		return contentCallback(choice.Message.Content)
	}

	return nil
}

// retryableStatus reports whether an HTTP status indicates a transient
// provider condition.
func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests ||
		status == http.StatusRequestTimeout ||
		status >= http.StatusInternalServerError
}

// convertToolsToOpenAIFormat converts Ollama tools to the OpenAI
// function-calling format
func convertToolsToOpenAIFormat(tools []api.Tool) []openaiFunction {
	if len(tools) == 0 {
		return nil
	}

	functions := make([]openaiFunction, len(tools))
	for i, tool := range tools {
		functions[i] = openaiFunction{
			Name:        tool.Function.Name,
			Description: tool.Function.Description,
			Parameters:  tool.Function.Parameters,
		}
	}
	return functions
}

// OpenAI API types
type openaiRequest struct {
	Model        string           `json:"model"`
	Messages     []Message        `json:"messages"`
	Temperature  float64          `json:"temperature,omitempty"`
	MaxTokens    int              `json:"max_tokens,omitempty"`
	Functions    []openaiFunction `json:"functions,omitempty"`
	FunctionCall string           `json:"function_call,omitempty"`
}

type openaiFunction struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  interface{} `json:"parameters"`
}

type openaiResponse struct {
	ID      string         `json:"id"`
	Object  string         `json:"object"`
	Created int64          `json:"created"`
	Model   string         `json:"model"`
	Choices []openaiChoice `json:"choices"`
	Usage   openaiUsage    `json:"usage"`
}

type openaiChoice struct {
	Index        int           `json:"index"`
	Message      openaiMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type openaiMessage struct {
	Role         string        `json:"role"`
	Content      string        `json:"content"`
	FunctionCall *FunctionCall `json:"function_call,omitempty"`
}

type openaiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
