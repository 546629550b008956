package dto

// ChatRequest 聊天请求
type ChatRequest struct {
	Message string `json:"message" binding:"required,min=1"`
}

// ChatResponse 聊天答复
type ChatResponse struct {
	Reply string `json:"reply"`
}
