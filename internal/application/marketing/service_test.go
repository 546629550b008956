package marketing

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastcrew-api/internal/application/crew"
	"fastcrew-api/internal/domain/entity"
	"fastcrew-api/internal/infrastructure/persistence/fsstore"
	apperrors "fastcrew-api/pkg/errors"
)

type stubRunner struct {
	output string
	err    error

	calls     int
	workflows []string
	tasks     []crew.Task
	agents    []crew.Agent
}

func (r *stubRunner) Kickoff(_ context.Context, workflow string, agent crew.Agent, task crew.Task) (string, error) {
	r.calls++
	r.workflows = append(r.workflows, workflow)
	r.agents = append(r.agents, agent)
	r.tasks = append(r.tasks, task)
	if r.err != nil {
		return "", r.err
	}
	return r.output, nil
}

func newTestService(t *testing.T, runner *stubRunner) (*Service, *fsstore.Store) {
	t.Helper()
	store := fsstore.NewStore(t.TempDir())
	return NewService(runner, store), store
}

func TestResearchPersistsArtifact(t *testing.T) {
	runner := &stubRunner{output: "five insights"}
	svc, store := newTestService(t, runner)
	ctx := context.Background()

	result, err := svc.Research(ctx, "u1", "Acme", "Widget", []string{"EU", "US"})
	require.NoError(t, err)
	assert.Equal(t, "five insights", result.Insights)
	assert.Equal(t, []string{"marketing_research"}, runner.workflows)
	assert.Contains(t, runner.agents[0].Goal, "Acme's Widget across EU, US")

	saved, err := store.GetLatest(ctx, entity.ArtifactKindResearch, "u1")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "five insights", saved["insights"])
	assert.Equal(t, "Acme", saved["company"])
}

func TestResearchLLMFailure(t *testing.T) {
	runner := &stubRunner{err: errors.New("model timeout")}
	svc, store := newTestService(t, runner)

	_, err := svc.Research(context.Background(), "u1", "Acme", "Widget", nil)
	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeLLMCallFailed, appErr.Code)

	// 失败时不落盘
	saved, _ := store.GetLatest(context.Background(), entity.ArtifactKindResearch, "u1")
	assert.Nil(t, saved)
}

func TestCreatePlanWithExplicitResearch(t *testing.T) {
	runner := &stubRunner{output: strings.Repeat("milestone kpi linkedin pricing ", 50)}
	svc, store := newTestService(t, runner)
	ctx := context.Background()

	result, err := svc.CreatePlan(ctx, "u1", "Acme", "Widget", "explicit research")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Plan)
	assert.GreaterOrEqual(t, result.Score, 0)
	assert.LessOrEqual(t, result.Score, 100)
	assert.Contains(t, runner.tasks[0].Description, "Research input:\nexplicit research")

	saved, err := store.GetLatest(ctx, entity.ArtifactKindPlan, "u1")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, result.Plan, saved["plan"])
}

func TestCreatePlanFallsBackToSavedResearch(t *testing.T) {
	runner := &stubRunner{output: "a short plan"}
	svc, store := newTestService(t, runner)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, entity.ArtifactKindResearch, "u1", map[string]any{
		"company":  "Acme",
		"product":  "Widget",
		"insights": "saved findings",
	}))

	_, err := svc.CreatePlan(ctx, "u1", "Acme", "Widget", "")
	require.NoError(t, err)
	assert.Contains(t, runner.tasks[0].Description, "saved findings")
}

func TestCreatePlanWithoutAnyResearch(t *testing.T) {
	runner := &stubRunner{output: "plan"}
	svc, _ := newTestService(t, runner)

	_, err := svc.CreatePlan(context.Background(), "u1", "Acme", "Widget", "  ")
	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodePreconditionFailed, appErr.Code)
	assert.Equal(t, "No research provided and none found for user.", appErr.Message)
	assert.Zero(t, runner.calls)
}

func TestConfirmPlanDeclined(t *testing.T) {
	runner := &stubRunner{output: "plan"}
	svc, store := newTestService(t, runner)
	ctx := context.Background()

	for _, answer := range []string{"no", "nope", "", "  maybe "} {
		result, err := svc.ConfirmPlan(ctx, "u1", answer)
		require.NoError(t, err)
		assert.False(t, result.Confirmed)
		assert.Equal(t, "Skipped creating business plan.", result.Message)
	}
	// 拒绝时既不调用模型也不落盘
	assert.Zero(t, runner.calls)
	saved, _ := store.GetLatest(ctx, entity.ArtifactKindPlan, "u1")
	assert.Nil(t, saved)
}

func TestConfirmPlanAcceptedVariants(t *testing.T) {
	for _, answer := range []string{"yes", "y", "YES", " Y "} {
		runner := &stubRunner{output: "the plan"}
		svc, store := newTestService(t, runner)
		ctx := context.Background()

		require.NoError(t, store.Save(ctx, entity.ArtifactKindResearch, "u1", map[string]any{
			"company":  "Acme",
			"product":  "Widget",
			"insights": "saved findings",
		}))

		result, err := svc.ConfirmPlan(ctx, "u1", answer)
		require.NoError(t, err, "answer=%q", answer)
		assert.True(t, result.Confirmed)
		assert.Equal(t, "the plan", result.Plan)

		saved, err := store.GetLatest(ctx, entity.ArtifactKindPlan, "u1")
		require.NoError(t, err)
		require.NotNil(t, saved)
	}
}

func TestConfirmPlanWithoutSavedResearch(t *testing.T) {
	runner := &stubRunner{output: "plan"}
	svc, _ := newTestService(t, runner)

	_, err := svc.ConfirmPlan(context.Background(), "u1", "yes")
	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "No saved research found for user.", appErr.Message)
}

func TestConfirmPlanIncompleteResearch(t *testing.T) {
	runner := &stubRunner{output: "plan"}
	svc, store := newTestService(t, runner)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, entity.ArtifactKindResearch, "u1", map[string]any{
		"company":  "Acme",
		"insights": "findings",
	}))

	_, err := svc.ConfirmPlan(ctx, "u1", "yes")
	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "Saved research is incomplete. Please run research again.", appErr.Message)
	assert.Zero(t, runner.calls)
}

func TestGenerateContentDefaultPlatforms(t *testing.T) {
	runner := &stubRunner{output: "posts"}
	svc, store := newTestService(t, runner)
	ctx := context.Background()

	content, err := svc.GenerateContent(ctx, "u1", "Acme", "Widget", "the plan", nil)
	require.NoError(t, err)
	assert.Equal(t, "posts", content)
	assert.Contains(t, runner.tasks[0].Description, "Platforms: LinkedIn, Facebook, Blog")

	saved, err := store.GetLatest(ctx, entity.ArtifactKindContent, "u1")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "posts", saved["content"])
}

func TestGenerateContentCustomPlatforms(t *testing.T) {
	runner := &stubRunner{output: "posts"}
	svc, _ := newTestService(t, runner)

	_, err := svc.GenerateContent(context.Background(), "u1", "Acme", "Widget", "the plan", []string{"X", "Newsletter"})
	require.NoError(t, err)
	assert.Contains(t, runner.tasks[0].Description, "Platforms: X, Newsletter")
}

func TestGenerateContentExplicitEmptyPlatforms(t *testing.T) {
	runner := &stubRunner{output: "posts"}
	svc, store := newTestService(t, runner)
	ctx := context.Background()

	// 显式空列表不替换为默认平台
	_, err := svc.GenerateContent(ctx, "u1", "Acme", "Widget", "the plan", []string{})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(runner.tasks[0].Description, "Platforms: "))
	assert.NotContains(t, runner.tasks[0].Description, "LinkedIn")

	saved, err := store.GetLatest(ctx, entity.ArtifactKindContent, "u1")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Empty(t, saved["platforms"])
}

type failingStore struct {
	saveCalls int
}

func (f *failingStore) Save(_ context.Context, _ entity.ArtifactKind, _ string, _ map[string]any) error {
	f.saveCalls++
	return errors.New("disk full")
}

func (f *failingStore) GetLatest(_ context.Context, _ entity.ArtifactKind, _ string) (map[string]any, error) {
	return nil, nil
}

func (f *failingStore) History(_ context.Context, _ entity.ArtifactKind, _ string) ([]map[string]any, error) {
	return nil, nil
}

// 持久化失败不影响业务结果，仅记录日志与指标
func TestWorkflowStepsSucceedWhenPersistFails(t *testing.T) {
	runner := &stubRunner{output: strings.Repeat("milestone kpi linkedin pricing ", 50)}
	store := &failingStore{}
	svc := NewService(runner, store)
	ctx := context.Background()

	research, err := svc.Research(ctx, "u1", "Acme", "Widget", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, research.Insights)
	assert.Equal(t, 1, store.saveCalls)

	plan, err := svc.CreatePlan(ctx, "u1", "Acme", "Widget", research.Insights)
	require.NoError(t, err)
	assert.NotEmpty(t, plan.Plan)
	assert.Equal(t, 2, store.saveCalls)

	content, err := svc.GenerateContent(ctx, "u1", "Acme", "Widget", plan.Plan, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, content)
	assert.Equal(t, 3, store.saveCalls)
}
