// Package chat 实现通用聊天问答
package chat

import (
	"context"
	"time"

	"fastcrew-api/internal/application/crew"
	"fastcrew-api/pkg/errors"
	"fastcrew-api/pkg/metrics"
)

const workflowChat = "chat"

// Collaborator 抽象单 agent 任务的同步执行
type Collaborator interface {
	Kickoff(ctx context.Context, workflow string, agent crew.Agent, task crew.Task) (string, error)
}

// Service 将用户消息交给聊天助手 agent 并返回答复
type Service struct {
	runner Collaborator
}

func NewService(runner Collaborator) *Service {
	return &Service{runner: runner}
}

// Respond 同步生成一条聊天答复
func (s *Service) Respond(ctx context.Context, message string) (string, error) {
	agent := crew.Agent{
		Role: "Helpful Chat Assistant",
		Goal: "Provide concise, accurate, and friendly responses to user questions.",
		Backstory: "You are a helpful AI assistant. You answer clearly and briefly unless " +
			"the user asks for more details.",
	}
	task := crew.Task{
		Description: "Respond helpfully to the user's message. Keep it under 120 words unless " +
			"more detail is requested.\n\nUser message: " + message,
		ExpectedOutput: "A concise, helpful reply to the user.",
	}

	start := time.Now()
	reply, err := s.runner.Kickoff(ctx, workflowChat, agent, task)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.WorkflowStepTotal.WithLabelValues(workflowChat, status).Inc()
	metrics.WorkflowStepDuration.WithLabelValues(workflowChat).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", errors.Wrap(err, errors.CodeLLMCallFailed, "chat response failed")
	}
	return reply, nil
}
