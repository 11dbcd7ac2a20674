package services

import (
	"context"
	"net/http"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/brightside-ai/supplement-chat/agent"
	"github.com/brightside-ai/supplement-chat/memory"
	"github.com/brightside-ai/supplement-chat/prompts"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// fallbackReply is what the user sees when the model pipeline fails
// after all retries. It is never flagged as a recommendation.
const fallbackReply = "I'm sorry, I'm having trouble generating a response right now."

// ReplyGenerator is the part of the agent the HTTP layer depends on.
type ReplyGenerator interface {
	GenerateReply(ctx context.Context, req agent.ReplyRequest) (*agent.ChatReply, error)
}

// ChatService exposes the conversation over HTTP.
type ChatService struct {
	store *memory.Store
	agent ReplyGenerator
}

func NewChatService(store *memory.Store, replier ReplyGenerator) *ChatService {
	return &ChatService{store: store, agent: replier}
}

// RegisterRoutes registers routes with the echo server.
func (s *ChatService) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/chat", s.Chat)
	e.GET("/api/v1/sessions", s.ListSessions)
	e.GET("/api/v1/sessions/:session_id/messages", s.GetSessionMessages)
	e.POST("/api/v1/sessions/:session_id/clear", s.ClearSession)

	e.GET("/health", s.Health)
}

type incomingMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	SessionID   string            `json:"session_id"`
	ClientID    string            `json:"client_id"`
	Message     string            `json:"message"`
	Messages    []incomingMessage `json:"messages"`
	QuizAnswers map[string]any    `json:"quiz_answers"`
}

// userMessage returns the text to answer. The flat "message" field
// wins; older clients send a "messages" array and the last entry is
// taken instead.
func (r *chatRequest) userMessage() string {
	if r.Message != "" {
		return r.Message
	}
	if len(r.Messages) > 0 {
		return r.Messages[len(r.Messages)-1].Content
	}
	return ""
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	*agent.ChatReply
}

// Chat runs one conversation turn.
// POST /api/v1/chat
func (s *ChatService) Chat(c echo.Context) error {
	ctx := c.Request().Context()

	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	message := req.userMessage()
	if message == "" {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "message is required"})
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = s.store.CreateSession(req.ClientID)
	}

	if req.QuizAnswers != nil {
		if err := s.store.StoreContext(sessionID, req.QuizAnswers); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid quiz answers"})
		}
	}

	// History is captured before the new turn so the model does not
	// see the question twice.
	history := s.store.Turns(sessionID)
	systemPrompt := prompts.BuildSystemPrompt(prompts.DefaultSystemPrompt(), s.store.Context(sessionID))

	reply, err := s.agent.GenerateReply(ctx, agent.ReplyRequest{
		Message:      message,
		History:      history,
		SystemPrompt: systemPrompt,
		ClientID:     req.ClientID,
	})
	if err != nil {
		logger.Error("Reply generation failed, serving fallback",
			zap.String("sessionId", sessionID), zap.Error(err))
		reply = &agent.ChatReply{Role: "assistant", Content: fallbackReply}
	}

	if err := s.store.AppendTurn(sessionID, memory.UserTurn(message)); err != nil {
		logger.Error("Failed to record user turn", zap.String("sessionId", sessionID), zap.Error(err))
	}
	if err := s.store.AppendTurn(sessionID, memory.AssistantTurn(reply.Content)); err != nil {
		logger.Error("Failed to record assistant turn", zap.String("sessionId", sessionID), zap.Error(err))
	}

	return c.JSON(http.StatusOK, chatResponse{SessionID: sessionID, ChatReply: reply})
}

// ListSessions returns the IDs of all live sessions.
// GET /api/v1/sessions
func (s *ChatService) ListSessions(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"sessions": s.store.Sessions(),
	})
}

// GetSessionMessages returns the stored turns of one session in call
// order.
// GET /api/v1/sessions/:session_id/messages
func (s *ChatService) GetSessionMessages(c echo.Context) error {
	sessionID := c.Param("session_id")
	return c.JSON(http.StatusOK, map[string]any{
		"session_id": sessionID,
		"messages":   s.store.Turns(sessionID),
	})
}

// ClearSession drops a session's turns. The session itself and its
// quiz context survive.
// POST /api/v1/sessions/:session_id/clear
func (s *ChatService) ClearSession(c echo.Context) error {
	sessionID := c.Param("session_id")
	s.store.Clear(sessionID)
	return c.JSON(http.StatusOK, map[string]any{
		"session_id": sessionID,
		"cleared":    true,
	})
}

// Health returns health status.
func (s *ChatService) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}
