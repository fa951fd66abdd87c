package critique

import (
	"math"
	"strings"
)

// maxListedKeywords caps how many matched keywords a criterion detail shows.
const maxListedKeywords = 3

// KeywordCritique approximates a critique by keyword coverage. It needs no
// model and never fails.
func KeywordCritique(intro string) Critique {
	lower := strings.ToLower(intro)
	mentionsTech := containsAny(lower, techTerms)

	c := Critique{Method: MethodKeyword}
	covered := 0
	for _, item := range rubric {
		found := matchKeywords(item, lower, mentionsTech)

		cr := Criterion{Key: item.Key, Name: item.Name}
		if len(found) > 0 {
			covered++
			cr.Present = true
			cr.Score = 10
			cr.Detail = "已提及 - " + strings.Join(found, ", ")
			c.Strengths = append(c.Strengths, "已涵蓋"+item.Name)
		} else {
			cr.Detail = "缺少相關內容"
			c.Suggestions = append(c.Suggestions, "建議補充"+item.Name+"的內容")
		}
		c.Criteria = append(c.Criteria, cr)
	}

	c.OverallScore = math.Round(float64(covered)/float64(len(rubric))*100) / 10
	return c
}

func matchKeywords(item rubricItem, lower string, mentionsTech bool) []string {
	var found []string
	for _, kw := range item.Keywords {
		hit := strings.Contains(lower, strings.ToLower(kw))
		if !hit && item.Key == CriterionSkills && skillVerbs[kw] {
			hit = mentionsTech
		}
		if hit {
			found = append(found, kw)
			if len(found) == maxListedKeywords {
				break
			}
		}
	}
	return found
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
