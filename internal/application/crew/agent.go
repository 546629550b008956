// Package crew 提供基于 Eino ChatModel 的单 agent 执行模型
//
// Agent 用 role/goal/backstory 描述人设，Task 描述一次任务，
// Runner.Kickoff 把两者渲染成 system/user 消息并同步调用 LLM。
package crew

// Agent 一个 LLM agent 的人设描述
type Agent struct {
	Role      string
	Goal      string
	Backstory string
}

// Task 一次交给 agent 的任务
type Task struct {
	Description    string
	ExpectedOutput string
}
