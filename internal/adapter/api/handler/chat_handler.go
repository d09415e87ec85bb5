package handler

import (
	"github.com/labstack/echo/v4"

	"tallerhub/internal/usecase"
	"tallerhub/pkg/response"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type sendMessageRequest struct {
	Text    string `json:"text" validate:"required"`
	Channel string `json:"channel,omitempty"`
}

// GetChat lazily creates and returns the chat for a work order
func (h *ChatHandler) GetChat(c echo.Context) error {
	chat, err := h.chatUseCase.EnsureChat(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, chat)
}

// ListChats returns all chat summaries with the caller's unread flags
func (h *ChatHandler) ListChats(c echo.Context) error {
	userID := c.Get("uid").(string)

	chats, err := h.chatUseCase.ListChats(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, chats)
}

// SendMessage posts a message to a work order's chat
func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), userID, usecase.SendMessageInput{
		WorkOrderID: c.Param("id"),
		ChannelID:   req.Channel,
		Text:        req.Text,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

// GetMessages returns a channel's messages in creation order
func (h *ChatHandler) GetMessages(c echo.Context) error {
	messages, err := h.chatUseCase.ListMessages(c.Request().Context(), c.Param("id"), c.QueryParam("channel"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

// MarkRead advances the caller's read marker for a chat
func (h *ChatHandler) MarkRead(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.chatUseCase.MarkRead(c.Request().Context(), c.Param("id"), userID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "read"})
}
