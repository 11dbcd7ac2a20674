package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/brightside-ai/supplement-chat/agent"
	"github.com/brightside-ai/supplement-chat/catalog"
	"github.com/brightside-ai/supplement-chat/memory"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReplier struct {
	reply    *agent.ChatReply
	err      error
	requests []agent.ReplyRequest
}

func (f *fakeReplier) GenerateReply(ctx context.Context, req agent.ReplyRequest) (*agent.ChatReply, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.reply, nil
}

func postChat(t *testing.T, svc *ChatService, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, svc.Chat(e.NewContext(req, rec)))
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestChat_MissingMessage(t *testing.T) {
	svc := NewChatService(memory.NewStore(), &fakeReplier{})

	rec := postChat(t, svc, `{"session_id": "abc"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "message is required")
}

func TestChat_NewSessionAndTurnsStored(t *testing.T) {
	store := memory.NewStore()
	replier := &fakeReplier{reply: &agent.ChatReply{Role: "assistant", Content: "Hello there!"}}
	svc := NewChatService(store, replier)

	rec := postChat(t, svc, `{"message": "hi"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	sessionID, _ := body["session_id"].(string)
	require.NotEmpty(t, sessionID, "a session is minted when none is given")
	assert.Equal(t, "Hello there!", body["content"])

	turns := store.Turns(sessionID)
	require.Len(t, turns, 2)
	assert.Equal(t, "user", turns[0].Role)
	assert.Equal(t, "hi", turns[0].Content)
	assert.Equal(t, "assistant", turns[1].Role)
	assert.Equal(t, "Hello there!", turns[1].Content)
}

func TestChat_HistoryExcludesCurrentMessage(t *testing.T) {
	store := memory.NewStore()
	sessionID := store.CreateSession("")
	require.NoError(t, store.AppendTurn(sessionID, memory.UserTurn("first")))
	require.NoError(t, store.AppendTurn(sessionID, memory.AssistantTurn("first answer")))

	replier := &fakeReplier{reply: &agent.ChatReply{Role: "assistant", Content: "second answer"}}
	svc := NewChatService(store, replier)

	rec := postChat(t, svc, `{"session_id": "`+sessionID+`", "message": "second"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, replier.requests, 1)
	history := replier.requests[0].History
	require.Len(t, history, 2, "history holds prior turns only")
	assert.Equal(t, "first", history[0].Content)
	assert.Equal(t, "second", replier.requests[0].Message)
	assert.Len(t, store.Turns(sessionID), 4)
}

func TestChat_MessagesArrayFallback(t *testing.T) {
	replier := &fakeReplier{reply: &agent.ChatReply{Role: "assistant", Content: "ok"}}
	svc := NewChatService(memory.NewStore(), replier)

	body := `{"messages": [{"role": "user", "content": "older"}, {"role": "user", "content": "latest question"}]}`
	rec := postChat(t, svc, body)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, replier.requests, 1)
	assert.Equal(t, "latest question", replier.requests[0].Message)
}

func TestChat_QuizAnswersShapeSystemPrompt(t *testing.T) {
	replier := &fakeReplier{reply: &agent.ChatReply{Role: "assistant", Content: "ok"}}
	store := memory.NewStore()
	svc := NewChatService(store, replier)

	body := `{"message": "hi", "quiz_answers": {"health_goals": ["better sleep"]}}`
	rec := postChat(t, svc, body)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, replier.requests, 1)
	prompt := replier.requests[0].SystemPrompt
	assert.Contains(t, prompt, "Additional context:")
	assert.Contains(t, prompt, "Health goals: better sleep")

	// Answers persist on the session for later turns.
	sessionID := decodeBody(t, rec)["session_id"].(string)
	assert.NotNil(t, store.Context(sessionID))
}

func TestChat_FallbackOnAgentFailure(t *testing.T) {
	store := memory.NewStore()
	replier := &fakeReplier{err: errors.New("model unreachable")}
	svc := NewChatService(store, replier)

	rec := postChat(t, svc, `{"message": "hi"}`)

	require.Equal(t, http.StatusOK, rec.Code, "pipeline failures never surface as HTTP errors")
	body := decodeBody(t, rec)
	assert.Equal(t, fallbackReply, body["content"])
	assert.Equal(t, false, body["recommend"])

	// The fallback still lands in the transcript.
	sessionID := body["session_id"].(string)
	turns := store.Turns(sessionID)
	require.Len(t, turns, 2)
	assert.Equal(t, fallbackReply, turns[1].Content)
}

func TestChat_ReplyWithProducts(t *testing.T) {
	replier := &fakeReplier{reply: &agent.ChatReply{
		Role:        "assistant",
		Content:     "Magnesium could help.",
		Recommend:   true,
		Items:       []catalog.Item{{ID: "prod-1", Name: "Magnesium", Brand: "Brightside", Currency: "USD"}},
		ToolInvoked: true,
		ToolName:    "query_supplements",
	}}
	svc := NewChatService(memory.NewStore(), replier)

	rec := postChat(t, svc, `{"message": "I can't sleep"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["recommend"])
	assert.Equal(t, true, body["function_called"])
	assert.Equal(t, "query_supplements", body["function_name"])

	products, ok := body["products"].([]any)
	require.True(t, ok)
	require.Len(t, products, 1)
	product := products[0].(map[string]any)
	assert.Equal(t, "prod-1", product["id"])
	assert.Equal(t, "Brightside", product["brand"])
}

func TestSessionEndpoints(t *testing.T) {
	store := memory.NewStore()
	sessionID := store.CreateSession("client-7")
	require.NoError(t, store.AppendTurn(sessionID, memory.UserTurn("hello")))
	svc := NewChatService(store, &fakeReplier{})
	e := echo.New()

	t.Run("list sessions", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions", nil)
		rec := httptest.NewRecorder()
		require.NoError(t, svc.ListSessions(e.NewContext(req, rec)))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), sessionID)
	})

	t.Run("session messages", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("session_id")
		c.SetParamValues(sessionID)
		require.NoError(t, svc.GetSessionMessages(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		messages := body["messages"].([]any)
		require.Len(t, messages, 1)
	})

	t.Run("clear session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("session_id")
		c.SetParamValues(sessionID)
		require.NoError(t, svc.ClearSession(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, store.Turns(sessionID))
	})

	t.Run("health", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		require.NoError(t, svc.Health(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
