package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shortsboard/shorts-analytics/internal/models"
	"github.com/shortsboard/shorts-analytics/internal/service/llm"
)

// Assistant builds prompts and proxies chatbot conversations.
type Assistant interface {
	BuildPrompt(ctx context.Context, videoIDs []string, question string) (string, int, error)
	Chat(ctx context.Context, videoIDs []string, conversation []llm.Message) (string, string, error)
}

// AssistantHandler serves the prompt assistant and the chatbot.
type AssistantHandler struct {
	assistant Assistant
}

// NewAssistantHandler creates a new AssistantHandler instance.
func NewAssistantHandler(assistant Assistant) *AssistantHandler {
	return &AssistantHandler{assistant: assistant}
}

// BuildPrompt returns a context block to paste into an external chat tool.
func (h *AssistantHandler) BuildPrompt(c *gin.Context) {
	var req models.PromptRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	prompt, count, err := h.assistant.BuildPrompt(c.Request.Context(), req.VideoIDs, req.Question)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.PromptResponseDTO{
		Prompt:     prompt,
		VideoCount: count,
	})
}

// Chat forwards a conversation to the language model.
func (h *AssistantHandler) Chat(c *gin.Context) {
	var req models.ChatRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	conversation := make([]llm.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		conversation = append(conversation, llm.Message{Role: m.Role, Content: m.Content})
	}

	reply, model, err := h.assistant.Chat(c.Request.Context(), req.VideoIDs, conversation)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ChatResponseDTO{
		Reply: reply,
		Model: model,
	})
}
