// Package marketing 实现营销工作流：调研、计划、确认、内容生成
package marketing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fastcrew-api/internal/application/crew"
	"fastcrew-api/internal/domain/entity"
	"fastcrew-api/internal/domain/repository"
	"fastcrew-api/pkg/errors"
	"fastcrew-api/pkg/logger"
	"fastcrew-api/pkg/metrics"
)

const (
	workflowResearch = "marketing_research"
	workflowPlan     = "marketing_plan"
	workflowContent  = "marketing_content"
)

// DefaultPlatforms 内容生成未指定平台时的默认组合
var DefaultPlatforms = []string{"LinkedIn", "Facebook", "Blog"}

// Collaborator 抽象单 agent 任务的同步执行
type Collaborator interface {
	Kickoff(ctx context.Context, workflow string, agent crew.Agent, task crew.Task) (string, error)
}

// Service 编排营销工作流各步骤并持久化产出
type Service struct {
	runner Collaborator
	store  repository.ArtifactRepository
}

func NewService(runner Collaborator, store repository.ArtifactRepository) *Service {
	return &Service{runner: runner, store: store}
}

// ResearchResult 市场调研产出
type ResearchResult struct {
	Insights string
}

// PlanResult 商业计划产出及启发式评分
type PlanResult struct {
	Plan  string
	Score int
}

// ConfirmResult 计划确认步骤产出
//
// Confirmed 为 false 时仅携带 Message，不触发任何生成与持久化。
type ConfirmResult struct {
	Confirmed bool
	Message   string
	Plan      string
	Score     int
}

// Research 执行市场调研并持久化调研工件
func (s *Service) Research(ctx context.Context, userID, company, product string, targetMarkets []string) (*ResearchResult, error) {
	start := time.Now()

	insights, err := s.runResearch(ctx, company, product, targetMarkets)
	observeStep(workflowResearch, start, err)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeLLMCallFailed, "market research failed")
	}

	s.persist(ctx, entity.ArtifactKindResearch, userID, map[string]any{
		"company":        company,
		"product":        product,
		"target_markets": targetMarkets,
		"insights":       insights,
	})
	return &ResearchResult{Insights: insights}, nil
}

// CreatePlan 基于调研生成商业计划并打分
//
// researchInsights 为空时读取用户最近一次保存的调研结果。
func (s *Service) CreatePlan(ctx context.Context, userID, company, product, researchInsights string) (*PlanResult, error) {
	researchText := strings.TrimSpace(researchInsights)
	if researchText == "" {
		last, err := s.store.GetLatest(ctx, entity.ArtifactKindResearch, userID)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeStorageError, "failed to load saved research")
		}
		saved, _ := stringField(last, "insights")
		if saved == "" {
			return nil, errors.New(errors.CodePreconditionFailed, "No research provided and none found for user.")
		}
		researchText = saved
	}

	result, err := s.planAndScore(ctx, userID, company, product, researchText)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ConfirmPlan 根据用户确认答复决定是否基于保存的调研生成计划
func (s *Service) ConfirmPlan(ctx context.Context, userID, answer string) (*ConfirmResult, error) {
	normalized := strings.ToLower(strings.TrimSpace(answer))
	if normalized != "yes" && normalized != "y" {
		return &ConfirmResult{Confirmed: false, Message: "Skipped creating business plan."}, nil
	}

	last, err := s.store.GetLatest(ctx, entity.ArtifactKindResearch, userID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeStorageError, "failed to load saved research")
	}
	if last == nil {
		return nil, errors.New(errors.CodePreconditionFailed, "No saved research found for user.")
	}

	company, _ := stringField(last, "company")
	product, _ := stringField(last, "product")
	researchText, _ := stringField(last, "insights")
	if company == "" || product == "" || researchText == "" {
		return nil, errors.New(errors.CodePreconditionFailed, "Saved research is incomplete. Please run research again.")
	}

	result, err := s.planAndScore(ctx, userID, company, product, researchText)
	if err != nil {
		return nil, err
	}
	return &ConfirmResult{Confirmed: true, Plan: result.Plan, Score: result.Score}, nil
}

// GenerateContent 基于计划生成平台化内容并持久化
//
// platforms 缺省（nil）时使用默认平台组合；显式传入的空列表
// 原样透传并持久化。
func (s *Service) GenerateContent(ctx context.Context, userID, company, product, plan string, platforms []string) (string, error) {
	if platforms == nil {
		platforms = DefaultPlatforms
	}

	start := time.Now()
	content, err := s.runContent(ctx, plan, platforms)
	observeStep(workflowContent, start, err)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeLLMCallFailed, "content generation failed")
	}

	s.persist(ctx, entity.ArtifactKindContent, userID, map[string]any{
		"company":   company,
		"product":   product,
		"plan":      plan,
		"platforms": platforms,
		"content":   content,
	})
	return content, nil
}

func (s *Service) planAndScore(ctx context.Context, userID, company, product, researchText string) (*PlanResult, error) {
	start := time.Now()
	planText, err := s.runPlan(ctx, company, product, researchText)
	observeStep(workflowPlan, start, err)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeLLMCallFailed, "plan generation failed")
	}

	score := ScorePlan(planText, researchText)
	metrics.PlanScore.Observe(float64(score))

	s.persist(ctx, entity.ArtifactKindPlan, userID, map[string]any{
		"company": company,
		"product": product,
		"plan":    planText,
		"score":   score,
	})
	return &PlanResult{Plan: planText, Score: score}, nil
}

func (s *Service) runResearch(ctx context.Context, company, product string, targetMarkets []string) (string, error) {
	agent := crew.Agent{
		Role:      "Market Research Analyst",
		Goal:      fmt.Sprintf("Analyze the market for %s's %s across %s.", company, product, strings.Join(targetMarkets, ", ")),
		Backstory: "You specialize in competitive analysis, audience segmentation, and trend identification.",
	}
	task := crew.Task{
		Description: "Provide a succinct market research brief: audience segments, competitors, pricing, " +
			"channels, and top 5 actionable insights.",
		ExpectedOutput: "A concise research brief with 5 insights.",
	}
	return s.runner.Kickoff(ctx, workflowResearch, agent, task)
}

func (s *Service) runPlan(ctx context.Context, company, product, researchText string) (string, error) {
	agent := crew.Agent{
		Role:      "Go-To-Market Planner",
		Goal:      fmt.Sprintf("Create a 3-month GTM plan for %s's %s using provided research.", company, product),
		Backstory: "You are a strategic planner focusing on achievable, measurable marketing plans.",
	}
	task := crew.Task{
		Description: "Draft a 3-month marketing plan with weekly milestones, KPIs, and channels. " +
			"Return the plan.\n\nResearch input:\n" + researchText,
		ExpectedOutput: "A plan with measurable milestones.",
	}
	return s.runner.Kickoff(ctx, workflowPlan, agent, task)
}

func (s *Service) runContent(ctx context.Context, plan string, platforms []string) (string, error) {
	agent := crew.Agent{
		Role:      "Content Strategist",
		Goal:      "Generate LinkedIn, Facebook, and Blog posts based on the plan and current trends.",
		Backstory: "You create compelling copy aligned with brand voice and timely trends.",
	}
	task := crew.Task{
		Description: "Produce platform-specific posts for the next 1 day using the business plan. " +
			"Include: \n- LinkedIn post\n- Facebook post\n- Blog post outline (H2s + bullet points)." +
			"\n\nPlan:\n" + plan + "\n\nPlatforms: " + strings.Join(platforms, ", "),
		ExpectedOutput: "Distinct sections for LinkedIn, Facebook, Blog.",
	}
	return s.runner.Kickoff(ctx, workflowContent, agent, task)
}

// persist 尽力而为地落盘工件：失败只记录日志与指标，不影响请求结果
func (s *Service) persist(ctx context.Context, kind entity.ArtifactKind, userID string, payload map[string]any) {
	if err := s.store.Save(ctx, kind, userID, payload); err != nil {
		logger.Error(ctx, "工件持久化失败", err,
			slog.String("kind", string(kind)),
			slog.String("user_id", userID),
		)
		metrics.ArtifactPersistDropped.WithLabelValues(string(kind)).Inc()
	}
}

func observeStep(step string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.WorkflowStepTotal.WithLabelValues(step, status).Inc()
	metrics.WorkflowStepDuration.WithLabelValues(step).Observe(time.Since(start).Seconds())
}

func stringField(m map[string]any, key string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}
