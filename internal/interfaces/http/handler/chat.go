package handler

import (
	"github.com/gin-gonic/gin"

	"fastcrew-api/internal/application/chat"
	"fastcrew-api/internal/interfaces/http/dto"
	"fastcrew-api/pkg/errors"
)

// ChatHandler 聊天处理器
type ChatHandler struct {
	chatService *chat.Service
}

// NewChatHandler 创建聊天处理器
func NewChatHandler(chatService *chat.Service) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Chat 同步聊天接口
// @Summary 聊天问答
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "聊天请求"
// @Success 200 {object} dto.Response
// @Router /chat [post]
func (h *ChatHandler) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Error(c, errors.Wrap(err, errors.CodeInvalidParam, "invalid request body"))
		return
	}

	reply, err := h.chatService.Respond(c.Request.Context(), req.Message)
	if err != nil {
		dto.Error(c, err)
		return
	}

	dto.Success(c, dto.ChatResponse{Reply: reply})
}
