package crew

import (
	"context"
	"fmt"
	"strings"

	"fastcrew-api/internal/config"
	"fastcrew-api/internal/infrastructure/llm"
	einoobs "fastcrew-api/internal/observability/eino"
	workflowprompt "fastcrew-api/internal/workflow/prompt"
)

// Runner 在配置的默认 provider 上执行 agent 任务
type Runner struct {
	factory  *llm.EinoFactory
	registry *workflowprompt.Registry
	provider string
}

// NewRunner 创建 agent 执行器
func NewRunner(cfg *config.Config, factory *llm.EinoFactory) *Runner {
	return &Runner{
		factory:  factory,
		registry: workflowprompt.NewRegistry(),
		provider: strings.TrimSpace(cfg.LLM.DefaultProvider),
	}
}

// Kickoff 同步执行一次 agent 任务，返回模型产出的纯文本
//
// workflow 仅作为指标与追踪标签，不影响调用语义。
func (r *Runner) Kickoff(ctx context.Context, workflow string, agent Agent, task Task) (string, error) {
	if r == nil || r.factory == nil {
		return "", fmt.Errorf("llm factory not configured")
	}
	if strings.TrimSpace(task.Description) == "" {
		return "", fmt.Errorf("task description is required")
	}

	ctx = einoobs.WithWorkflowProvider(ctx, workflow, r.provider)

	chatModel, err := r.factory.Get(ctx, r.provider)
	if err != nil {
		return "", err
	}

	tpl, err := r.registry.ChatTemplate(workflowprompt.PromptAgentTaskV1)
	if err != nil {
		return "", err
	}
	msgs, err := tpl.Format(ctx, map[string]any{
		"role":            strings.TrimSpace(agent.Role),
		"goal":            strings.TrimSpace(agent.Goal),
		"backstory":       strings.TrimSpace(agent.Backstory),
		"task":            strings.TrimSpace(task.Description),
		"expected_output": strings.TrimSpace(task.ExpectedOutput),
	})
	if err != nil {
		return "", err
	}

	outMsg, err := chatModel.Generate(ctx, msgs)
	if err != nil {
		return "", err
	}
	if outMsg == nil {
		return "", fmt.Errorf("empty llm response")
	}

	content := strings.TrimSpace(outMsg.Content)
	if content == "" {
		return "", fmt.Errorf("empty llm response content")
	}
	return content, nil
}
