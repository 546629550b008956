package handler

import (
	"github.com/gin-gonic/gin"

	"fastcrew-api/internal/application/marketing"
	"fastcrew-api/internal/domain/entity"
	"fastcrew-api/internal/domain/repository"
	"fastcrew-api/internal/interfaces/http/dto"
	"fastcrew-api/internal/interfaces/http/middleware"
	"fastcrew-api/pkg/errors"
)

// MarketingHandler 营销工作流处理器
type MarketingHandler struct {
	marketingService *marketing.Service
	artifacts        repository.ArtifactRepository
}

// NewMarketingHandler 创建营销工作流处理器
func NewMarketingHandler(marketingService *marketing.Service, artifacts repository.ArtifactRepository) *MarketingHandler {
	return &MarketingHandler{
		marketingService: marketingService,
		artifacts:        artifacts,
	}
}

// Research 市场调研接口
// @Summary 市场调研
// @Tags Marketing
// @Accept json
// @Produce json
// @Param request body dto.ResearchRequest true "调研请求"
// @Success 200 {object} dto.Response
// @Router /marketing/research [post]
func (h *MarketingHandler) Research(c *gin.Context) {
	var req dto.ResearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Error(c, errors.Wrap(err, errors.CodeInvalidParam, "invalid request body"))
		return
	}

	userID := middleware.CurrentUserID(c)
	result, err := h.marketingService.Research(c.Request.Context(), userID, req.Company, req.Product, req.TargetMarkets)
	if err != nil {
		dto.Error(c, err)
		return
	}

	dto.Success(c, dto.NewResearchResponse(userID, result.Insights))
}

// Plan 商业计划接口
// @Summary 生成商业计划并打分
// @Tags Marketing
// @Accept json
// @Produce json
// @Param request body dto.PlanRequest true "计划请求"
// @Success 200 {object} dto.Response
// @Router /marketing/plan [post]
func (h *MarketingHandler) Plan(c *gin.Context) {
	var req dto.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Error(c, errors.Wrap(err, errors.CodeInvalidParam, "invalid request body"))
		return
	}

	userID := middleware.CurrentUserID(c)
	result, err := h.marketingService.CreatePlan(c.Request.Context(), userID, req.Company, req.Product, req.ResearchInsights)
	if err != nil {
		dto.Error(c, err)
		return
	}

	dto.Success(c, dto.PlanResponse{
		UserID: userID,
		Plan:   result.Plan,
		Score:  result.Score,
	})
}

// PlanConfirm 计划确认接口
// @Summary 确认是否生成商业计划
// @Tags Marketing
// @Accept json
// @Produce json
// @Param request body dto.PlanConfirmRequest true "确认请求"
// @Success 200 {object} dto.Response
// @Router /marketing/plan/confirm [post]
func (h *MarketingHandler) PlanConfirm(c *gin.Context) {
	var req dto.PlanConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Error(c, errors.Wrap(err, errors.CodeInvalidParam, "invalid request body"))
		return
	}

	userID := middleware.CurrentUserID(c)
	result, err := h.marketingService.ConfirmPlan(c.Request.Context(), userID, req.Answer)
	if err != nil {
		dto.Error(c, err)
		return
	}

	resp := dto.PlanConfirmResponse{
		UserID:    userID,
		Confirmed: result.Confirmed,
		Message:   result.Message,
	}
	if result.Confirmed {
		resp.Plan = result.Plan
		score := result.Score
		resp.Score = &score
	}
	dto.Success(c, resp)
}

// Content 内容生成接口
// @Summary 生成平台化内容
// @Tags Marketing
// @Accept json
// @Produce json
// @Param request body dto.ContentRequest true "内容请求"
// @Success 200 {object} dto.Response
// @Router /marketing/content [post]
func (h *MarketingHandler) Content(c *gin.Context) {
	var req dto.ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Error(c, errors.Wrap(err, errors.CodeInvalidParam, "invalid request body"))
		return
	}

	userID := middleware.CurrentUserID(c)
	content, err := h.marketingService.GenerateContent(c.Request.Context(), userID, req.Company, req.Product, req.Plan, req.Platforms)
	if err != nil {
		dto.Error(c, err)
		return
	}

	dto.Success(c, dto.ContentResponse{
		UserID:  userID,
		Content: content,
	})
}

// ArtifactHistory 工件历史接口
// @Summary 查询指定分类的工件历史
// @Tags Marketing
// @Produce json
// @Param kind path string true "工件分类"
// @Success 200 {object} dto.Response
// @Router /marketing/artifacts/{kind}/history [get]
func (h *MarketingHandler) ArtifactHistory(c *gin.Context) {
	kind, err := entity.ParseArtifactKind(c.Param("kind"))
	if err != nil {
		dto.Error(c, errors.Wrap(err, errors.CodeInvalidParam, "invalid artifact kind"))
		return
	}

	userID := middleware.CurrentUserID(c)
	history, err := h.artifacts.History(c.Request.Context(), kind, userID)
	if err != nil {
		dto.Error(c, errors.Wrap(err, errors.CodeStorageError, "failed to load artifact history"))
		return
	}
	if history == nil {
		history = []map[string]any{}
	}

	dto.Success(c, dto.ArtifactHistoryResponse{
		UserID:  userID,
		Kind:    string(kind),
		History: history,
	})
}
