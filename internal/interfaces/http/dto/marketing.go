package dto

// ResearchRequest 市场调研请求
type ResearchRequest struct {
	Company       string   `json:"company" binding:"required,min=1"`
	Product       string   `json:"product" binding:"required,min=1"`
	TargetMarkets []string `json:"target_markets"`
}

// ResearchResponse 市场调研结果，附带下一步引导
type ResearchResponse struct {
	UserID     string `json:"user_id"`
	Insights   string `json:"insights"`
	Question   string `json:"question"`
	NextAction string `json:"next_action"`
}

// NewResearchResponse 构造带默认引导语的调研响应
func NewResearchResponse(userID, insights string) ResearchResponse {
	return ResearchResponse{
		UserID:     userID,
		Insights:   insights,
		Question:   "Do you want a business plan for that?",
		NextAction: `POST /marketing/plan/confirm with {"answer":"yes"}`,
	}
}

// PlanRequest 商业计划请求，research_insights 为空时使用保存的调研
type PlanRequest struct {
	Company          string `json:"company" binding:"required,min=1"`
	Product          string `json:"product" binding:"required,min=1"`
	ResearchInsights string `json:"research_insights"`
}

// PlanResponse 商业计划结果
type PlanResponse struct {
	UserID string `json:"user_id"`
	Plan   string `json:"plan"`
	Score  int    `json:"score"`
}

// PlanConfirmRequest 计划确认请求，answer 为 yes/y 时生成计划，
// 其余答复一律视为放弃
type PlanConfirmRequest struct {
	Answer string `json:"answer"`
}

// PlanConfirmResponse 计划确认结果
type PlanConfirmResponse struct {
	UserID    string `json:"user_id"`
	Confirmed bool   `json:"confirmed"`
	Message   string `json:"message,omitempty"`
	Plan      string `json:"plan,omitempty"`
	Score     *int   `json:"score,omitempty"`
}

// ContentRequest 内容生成请求
type ContentRequest struct {
	Company   string   `json:"company" binding:"required,min=1"`
	Product   string   `json:"product" binding:"required,min=1"`
	Plan      string   `json:"plan" binding:"required,min=1"`
	Platforms []string `json:"platforms"`
}

// ContentResponse 内容生成结果
type ContentResponse struct {
	UserID  string `json:"user_id"`
	Content string `json:"content"`
}

// ArtifactHistoryResponse 指定分类下的工件历史
type ArtifactHistoryResponse struct {
	UserID  string           `json:"user_id"`
	Kind    string           `json:"kind"`
	History []map[string]any `json:"history"`
}
