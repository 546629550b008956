package marketing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func longPlan(base string) string {
	// 凑够 150 词以避开短计划扣分
	return base + " " + strings.Repeat("word ", 160)
}

func TestScorePlanBaseline(t *testing.T) {
	// 长文本、无任何命中：只剩基础分
	plan := strings.Repeat("lorem ", 160)
	assert.Equal(t, 50, ScorePlan(plan, ""))
}

func TestScorePlanShortPenalty(t *testing.T) {
	assert.Equal(t, 40, ScorePlan("too short", ""))
}

func TestScorePlanCategoryBonuses(t *testing.T) {
	plan := longPlan("We will track one KPI and a milestone.")
	// 结构 +10，无渠道/策略命中
	assert.Equal(t, 60, ScorePlan(plan, ""))

	plan = longPlan("Launch on LinkedIn with a pricing experiment and KPI goals.")
	// 结构 +10 渠道 +10 策略 +10，趋势关键词 linkedin 不在列表里
	assert.Equal(t, 80, ScorePlan(plan, ""))
}

func TestScorePlanTrendKeywords(t *testing.T) {
	plan := longPlan("Use AI and focus on retention plus churn reduction.")
	// AI、retention、churn 各 +1
	assert.Equal(t, 53, ScorePlan(plan, ""))
}

func TestScorePlanResearchContributesMatches(t *testing.T) {
	plan := longPlan("A generic document with no special terms.")
	research := "Competitor landscape on TikTok with strong SEO trends."
	// 渠道(tiktok/seo) +10 策略(competitor) +10，趋势 TikTok+SEO +2
	assert.Equal(t, 72, ScorePlan(plan, research))
}

func TestScorePlanCaseInsensitive(t *testing.T) {
	plan := longPlan("OKRS drive everything; EMAIL and PERSONA work included.")
	// okr 子串命中 okrs，三类各 +10
	assert.Equal(t, 80, ScorePlan(plan, ""))
}

func TestScorePlanClampUpper(t *testing.T) {
	var b strings.Builder
	b.WriteString("kpi linkedin pricing ")
	for _, kw := range trendKeywords {
		b.WriteString(kw)
		b.WriteString(" ")
	}
	plan := longPlan(b.String())
	got := ScorePlan(plan, "")
	assert.LessOrEqual(t, got, 100)
	assert.Equal(t, 100, got)
}
