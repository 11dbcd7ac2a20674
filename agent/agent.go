package agent

import (
	"context"

	"github.com/SaiNageswarS/go-collection-boot/async"
	"github.com/brightside-ai/supplement-chat/catalog"
	"github.com/brightside-ai/supplement-chat/llm"
	"github.com/brightside-ai/supplement-chat/memory"
)

// CatalogSearcher is the grounding-data lookup the recommendation tool
// runs against.
type CatalogSearcher interface {
	Search(ctx context.Context, queryVector []float32, limit int, filters map[string]any) ([]catalog.Item, error)
}

// AgentConfig holds configuration for the agent
type AgentConfig struct {
	Model       llm.LLMClient
	Embedder    llm.Embedder
	Catalog     CatalogSearcher
	Retry       RetryConfig
	Temperature float64
	MaxTokens   int
}

// Agent orchestrates a single chat turn: one generation call with the
// supplement-query tool declared, an optional grounded second call
// when the model invokes the tool, and the recommendation decision.
type Agent struct {
	config AgentConfig
}

// ReplyRequest carries one inbound user message with its conversation
// context.
type ReplyRequest struct {
	Message      string
	History      []memory.Turn
	SystemPrompt string
	ClientID     string
}

// ChatReply is the structured result of one orchestrated chat turn.
type ChatReply struct {
	Role        string         `json:"role"`
	Content     string         `json:"content"`
	Recommend   bool           `json:"recommend"`
	Items       []catalog.Item `json:"products,omitempty"`
	ToolInvoked bool           `json:"function_called"`
	ToolName    string         `json:"function_name,omitempty"`
}

type AgentBuilder struct {
	config AgentConfig
}

func NewAgentBuilder() *AgentBuilder {
	return &AgentBuilder{
		config: AgentConfig{
			Retry:       DefaultRetryConfig(),
			Temperature: 0.7,
			MaxTokens:   250,
		},
	}
}

func (b *AgentBuilder) WithModel(client llm.LLMClient) *AgentBuilder {
	b.config.Model = client
	return b
}

func (b *AgentBuilder) WithEmbedder(embedder llm.Embedder) *AgentBuilder {
	b.config.Embedder = embedder
	return b
}

func (b *AgentBuilder) WithCatalog(searcher CatalogSearcher) *AgentBuilder {
	b.config.Catalog = searcher
	return b
}

func (b *AgentBuilder) WithRetry(retry RetryConfig) *AgentBuilder {
	b.config.Retry = retry
	return b
}

func (b *AgentBuilder) WithTemperature(temp float64) *AgentBuilder {
	b.config.Temperature = temp
	return b
}

func (b *AgentBuilder) WithMaxTokens(max int) *AgentBuilder {
	b.config.MaxTokens = max
	return b
}

func (b *AgentBuilder) Build() *Agent {
	return &Agent{config: b.config}
}

// embedQuestion resolves the tool question to its query vector.
func (a *Agent) embedQuestion(ctx context.Context, question string) ([]float32, error) {
	return async.Await(a.config.Embedder.GetEmbedding(ctx, question))
}
