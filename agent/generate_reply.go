package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/brightside-ai/supplement-chat/catalog"
	"github.com/brightside-ai/supplement-chat/llm"
	"github.com/brightside-ai/supplement-chat/memory"
	"github.com/brightside-ai/supplement-chat/prompts"
	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

// ErrMissingMessage rejects a request with no user content before any
// model call or store access happens.
var ErrMissingMessage = errors.New("message is required")

// supplementQueryLimit is the fixed top-K for tool-triggered catalog
// lookups.
const supplementQueryLimit = 3

// recommendKeywords drives the recommendation heuristic: the reply is
// flagged as recommending whenever the tool returned items OR the
// final text contains one of these, case-insensitively. A substring
// match is fuzzy on purpose; it is the behavior downstream clients
// were built against.
var recommendKeywords = []string{"recommend", "suggest", "try", "consider", "look at"}

// GenerateReply runs one chat turn. The model gets a single declared
// tool and decides itself whether to invoke it; when it does, the
// catalog lookup result is folded into a second generation call that
// produces the final reply. The two paths are mutually exclusive per
// request.
func (a *Agent) GenerateReply(ctx context.Context, req ReplyRequest) (*ChatReply, error) {
	if req.Message == "" {
		return nil, ErrMissingMessage
	}

	startTime := time.Now()

	systemPrompt := req.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = prompts.DefaultSystemPrompt()
	}

	messages := formatMessages(req.Message, req.History)

	// First pass: declare the tool, let the model choose.
	var directReply strings.Builder
	var toolCall *api.ToolCall

	err := a.withRetry(ctx, "generation", func(ctx context.Context) error {
		directReply.Reset()
		toolCall = nil

		return a.config.Model.GenerateInferenceWithTools(
			ctx, messages,
			func(chunk string) error {
				directReply.WriteString(chunk)
				return nil
			},
			func(calls []api.ToolCall) error {
				if len(calls) > 0 {
					toolCall = &calls[0]
				}
				return nil
			},
			llm.WithTools([]api.Tool{QuerySupplementsTool()}),
			llm.WithTemperature(a.config.Temperature),
			llm.WithMaxTokens(a.config.MaxTokens),
			llm.WithSystemPrompt(systemPrompt),
		)
	})
	if err != nil {
		return nil, err
	}

	if toolCall == nil {
		content := strings.TrimSpace(directReply.String())
		reply := &ChatReply{
			Role:      "assistant",
			Content:   content,
			Recommend: shouldRecommend(content, nil),
		}
		logReply(reply, time.Since(startTime))
		return reply, nil
	}

	// Tool pass: ground the reply with catalog items, then generate
	// once more over the extended message list, no tool declared.
	items, err := a.runSupplementQuery(ctx, toolCall)
	if err != nil {
		return nil, err
	}

	serializedItems, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("error serializing tool result: %w", err)
	}
	serializedArgs, err := json.Marshal(toolCall.Function.Arguments)
	if err != nil {
		return nil, fmt.Errorf("error serializing tool arguments: %w", err)
	}

	extended := append(messages,
		llm.Message{
			Role: "assistant",
			FunctionCall: &llm.FunctionCall{
				Name:      toolCall.Function.Name,
				Arguments: string(serializedArgs),
			},
		},
		llm.Message{
			Role:    "function",
			Name:    toolCall.Function.Name,
			Content: string(serializedItems),
		},
	)

	var finalReply strings.Builder
	err = a.withRetry(ctx, "generation", func(ctx context.Context) error {
		finalReply.Reset()

		return a.config.Model.GenerateInference(
			ctx, extended,
			func(chunk string) error {
				finalReply.WriteString(chunk)
				return nil
			},
			llm.WithTemperature(a.config.Temperature),
			llm.WithMaxTokens(a.config.MaxTokens),
			llm.WithSystemPrompt(systemPrompt),
		)
	})
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(finalReply.String())
	reply := &ChatReply{
		Role:        "assistant",
		Content:     content,
		Recommend:   shouldRecommend(content, items),
		Items:       items,
		ToolInvoked: true,
		ToolName:    toolCall.Function.Name,
	}
	logReply(reply, time.Since(startTime))
	return reply, nil
}

// runSupplementQuery executes the model's tool invocation. Malformed
// arguments and unknown tool names degrade to zero items so the user
// still gets a reply; embedding and search failures propagate.
func (a *Agent) runSupplementQuery(ctx context.Context, call *api.ToolCall) ([]catalog.Item, error) {
	if call.Function.Name != supplementToolName {
		logger.Error("Model invoked unknown tool, returning no items",
			zap.String("tool", call.Function.Name))
		return []catalog.Item{}, nil
	}

	question, err := parseToolQuestion(call.Function.Arguments)
	if err != nil {
		logger.Error("Tool invocation degraded to empty result", zap.Error(err))
		return []catalog.Item{}, nil
	}

	queryVector, err := a.embedQuestion(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("error embedding tool question: %w", err)
	}

	items, err := a.config.Catalog.Search(ctx, queryVector, supplementQueryLimit, nil)
	if err != nil {
		return nil, fmt.Errorf("supplement query failed: %w", err)
	}

	return items, nil
}

// formatMessages lays out prior turns (role and content only) followed
// by the new user turn. The system prompt travels as an option so each
// provider can place it where its API expects.
func formatMessages(message string, history []memory.Turn) []llm.Message {
	messages := make([]llm.Message, 0, len(history)+1)
	for _, turn := range history {
		messages = append(messages, llm.Message{Role: turn.Role, Content: turn.Content})
	}
	return append(messages, llm.Message{Role: "user", Content: message})
}

func shouldRecommend(content string, items []catalog.Item) bool {
	if len(items) > 0 {
		return true
	}

	lower := strings.ToLower(content)
	for _, keyword := range recommendKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func logReply(reply *ChatReply, elapsed time.Duration) {
	logger.Info("Generated chat reply",
		zap.Duration("elapsed", elapsed),
		zap.Int("contentLength", len(reply.Content)),
		zap.Bool("recommend", reply.Recommend),
		zap.Bool("toolInvoked", reply.ToolInvoked),
		zap.Int("items", len(reply.Items)))
}
