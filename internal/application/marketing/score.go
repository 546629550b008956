package marketing

import "strings"

var (
	structureTerms = []string{"kpi", "metric", "milestone", "okr"}

	channelTerms = []string{
		"linkedin", "facebook", "tiktok", "youtube",
		"blog", "seo", "sem", "email",
	}

	strategyTerms = []string{
		"pricing", "positioning", "competitor", "segment", "persona",
	}

	trendKeywords = []string{
		"AI", "LLM", "GenAI", "sustainability", "climate",
		"privacy", "security", "short-form", "video", "TikTok",
		"Reels", "SEO", "SEM", "influencer", "B2B", "B2C",
		"omnichannel", "CAC", "LTV", "retention", "churn", "AR",
	}
)

// ScorePlan 对生成的商业计划做启发式打分，范围 [0,100]
//
// 基础分 50：结构、渠道、策略三类术语各命中任意一个加 10 分，
// 趋势关键词每命中一个加 1 分，计划正文不足 150 词扣 10 分。
// 匹配对 plan 与 research 拼接后的文本做大小写不敏感的子串查找。
func ScorePlan(planText, researchText string) int {
	score := 50

	combined := strings.ToLower(planText + "\n" + researchText)

	if containsAny(combined, structureTerms) {
		score += 10
	}
	if containsAny(combined, channelTerms) {
		score += 10
	}
	if containsAny(combined, strategyTerms) {
		score += 10
	}

	for _, kw := range trendKeywords {
		if strings.Contains(combined, strings.ToLower(kw)) {
			score++
		}
	}

	if len(strings.Fields(planText)) < 150 {
		score -= 10
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
