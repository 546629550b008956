package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastcrew-api/internal/application/chat"
	"fastcrew-api/internal/application/crew"
	"fastcrew-api/internal/application/marketing"
	"fastcrew-api/internal/domain/entity"
	"fastcrew-api/internal/infrastructure/persistence/fsstore"
	"fastcrew-api/internal/interfaces/http/middleware"
)

type fakeRunner struct {
	output string
	err    error
	calls  int
}

func (r *fakeRunner) Kickoff(_ context.Context, _ string, _ crew.Agent, _ crew.Task) (string, error) {
	r.calls++
	return r.output, r.err
}

type testEnv struct {
	engine *gin.Engine
	store  *fsstore.Store
	runner *fakeRunner
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	runner := &fakeRunner{output: "generated output"}
	store := fsstore.NewStore(t.TempDir())
	marketingSvc := marketing.NewService(runner, store)
	chatSvc := chat.NewService(runner)

	mh := NewMarketingHandler(marketingSvc, store)
	ch := NewChatHandler(chatSvc)

	engine := gin.New()
	identity := middleware.Identity("dev_user")
	engine.POST("/chat", identity, ch.Chat)
	m := engine.Group("/marketing", identity)
	{
		m.POST("/research", mh.Research)
		m.POST("/plan", mh.Plan)
		m.POST("/plan/confirm", mh.PlanConfirm)
		m.POST("/content", mh.Content)
		m.GET("/artifacts/:kind/history", mh.ArtifactHistory)
	}

	return &testEnv{engine: engine, store: store, runner: runner}
}

func (e *testEnv) post(t *testing.T, path string, body map[string]any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) (string, map[string]any) {
	t.Helper()
	var envelope struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Message, envelope.Data
}

func TestResearchEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.post(t, "/marketing/research", map[string]any{
		"company":        "Acme",
		"product":        "Widget",
		"target_markets": []string{"EU"},
	}, map[string]string{"X-User-ID": "alice"})

	require.Equal(t, http.StatusOK, w.Code)
	_, data := decodeEnvelope(t, w)
	assert.Equal(t, "alice", data["user_id"])
	assert.Equal(t, "generated output", data["insights"])
	assert.Equal(t, "Do you want a business plan for that?", data["question"])
	assert.Equal(t, `POST /marketing/plan/confirm with {"answer":"yes"}`, data["next_action"])

	saved, err := env.store.GetLatest(context.Background(), entity.ArtifactKindResearch, "alice")
	require.NoError(t, err)
	require.NotNil(t, saved)
}

func TestResearchValidation(t *testing.T) {
	env := newTestEnv(t)

	w := env.post(t, "/marketing/research", map[string]any{"product": "Widget"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, env.runner.calls)
}

func TestPlanWithoutResearchReturns400(t *testing.T) {
	env := newTestEnv(t)

	w := env.post(t, "/marketing/plan", map[string]any{
		"company": "Acme",
		"product": "Widget",
	}, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	message, _ := decodeEnvelope(t, w)
	assert.Equal(t, "No research provided and none found for user.", message)
}

func TestPlanWithExplicitResearch(t *testing.T) {
	env := newTestEnv(t)

	w := env.post(t, "/marketing/plan", map[string]any{
		"company":           "Acme",
		"product":           "Widget",
		"research_insights": "some findings",
	}, nil)

	require.Equal(t, http.StatusOK, w.Code)
	_, data := decodeEnvelope(t, w)
	assert.Equal(t, "dev_user", data["user_id"])
	assert.Equal(t, "generated output", data["plan"])
	score, ok := data["score"].(float64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, score, float64(0))
	assert.LessOrEqual(t, score, float64(100))
}

func TestPlanConfirmDeclined(t *testing.T) {
	env := newTestEnv(t)

	w := env.post(t, "/marketing/plan/confirm", map[string]any{"answer": "no"}, nil)

	require.Equal(t, http.StatusOK, w.Code)
	_, data := decodeEnvelope(t, w)
	assert.Equal(t, false, data["confirmed"])
	assert.Equal(t, "Skipped creating business plan.", data["message"])
	assert.NotContains(t, data, "plan")
	assert.NotContains(t, data, "score")
	assert.Zero(t, env.runner.calls)
}

func TestPlanConfirmAccepted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.store.Save(ctx, entity.ArtifactKindResearch, "alice", map[string]any{
		"company":  "Acme",
		"product":  "Widget",
		"insights": "findings",
	}))

	w := env.post(t, "/marketing/plan/confirm", map[string]any{"answer": "Yes"},
		map[string]string{"X-User-ID": "alice"})

	require.Equal(t, http.StatusOK, w.Code)
	_, data := decodeEnvelope(t, w)
	assert.Equal(t, true, data["confirmed"])
	assert.Equal(t, "generated output", data["plan"])
	assert.Contains(t, data, "score")
}

func TestPlanConfirmWithoutResearch(t *testing.T) {
	env := newTestEnv(t)

	w := env.post(t, "/marketing/plan/confirm", map[string]any{"answer": "yes"}, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	message, _ := decodeEnvelope(t, w)
	assert.Equal(t, "No saved research found for user.", message)
}

func TestContentEndpointDefaults(t *testing.T) {
	env := newTestEnv(t)

	w := env.post(t, "/marketing/content", map[string]any{
		"company": "Acme",
		"product": "Widget",
		"plan":    "the plan",
	}, nil)

	require.Equal(t, http.StatusOK, w.Code)
	_, data := decodeEnvelope(t, w)
	assert.Equal(t, "generated output", data["content"])

	saved, err := env.store.GetLatest(context.Background(), entity.ArtifactKindContent, "dev_user")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, []any{"LinkedIn", "Facebook", "Blog"}, saved["platforms"])
}

func TestArtifactHistoryEndpoint(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.store.Save(ctx, entity.ArtifactKindPlan, "alice", map[string]any{"plan": "a"}))
	require.NoError(t, env.store.Save(ctx, entity.ArtifactKindPlan, "alice", map[string]any{"plan": "b"}))

	req := httptest.NewRequest(http.MethodGet, "/marketing/artifacts/plan/history", nil)
	req.Header.Set("X-User-ID", "alice")
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	_, data := decodeEnvelope(t, w)
	assert.Equal(t, "marketing_plan", data["kind"])
	history, ok := data["history"].([]any)
	require.True(t, ok)
	assert.Len(t, history, 2)
}

func TestArtifactHistoryInvalidKind(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/marketing/artifacts/bogus/history", nil)
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.post(t, "/chat", map[string]any{"message": "hello"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, data := decodeEnvelope(t, w)
	assert.Equal(t, "generated output", data["reply"])

	w = env.post(t, "/chat", map[string]any{}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
