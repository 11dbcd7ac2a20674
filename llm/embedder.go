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
	"github.com/SaiNageswarS/go-collection-boot/async"
)

// Embedder converts text into a fixed-length vector. The catalog index
// and the embedder must agree on dimensionality.
type Embedder interface {
	GetEmbedding(ctx context.Context, input string) <-chan async.Result[[]float32]
}

type OpenAIEmbeddingClient struct {
	apiKey     string
	httpClient *http.Client
	url        string
	model      string
}

func NewOpenAIEmbeddingClient(model string) *OpenAIEmbeddingClient {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		logger.Fatal("OPENAI_API_KEY environment variable is not set")
		return nil
	}

	return &OpenAIEmbeddingClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		url:        "https://api.openai.com/v1/embeddings",
		model:      model,
	}
}

func (c *OpenAIEmbeddingClient) GetEmbedding(ctx context.Context, input string) <-chan async.Result[[]float32] {
	return async.Go(func() ([]float32, error) {
		request := embeddingRequest{
			Model: c.model,
			Input: []string{input},
		}

		jsonData, err := json.Marshal(request)
		if err != nil {
			return nil, fmt.Errorf("error marshaling request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewBuffer(jsonData))
		if err != nil {
			return nil, fmt.Errorf("error creating request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, &TransientError{Err: fmt.Errorf("error making request: %w", err)}
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &TransientError{Err: fmt.Errorf("error reading response: %w", err)}
		}

		if resp.StatusCode != http.StatusOK {
			statusErr := fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
			if retryableStatus(resp.StatusCode) {
				return nil, &TransientError{Err: statusErr}
			}
			return nil, statusErr
		}

		var response embeddingResponse
		if err := json.Unmarshal(body, &response); err != nil {
			return nil, fmt.Errorf("error unmarshaling response: %w", err)
		}

		if len(response.Data) == 0 {
			return nil, fmt.Errorf("no embedding in response")
		}

		return response.Data[0].Embedding, nil
	})
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Model string `json:"model"`
}
