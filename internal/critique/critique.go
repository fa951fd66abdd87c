// Package critique reviews a candidate's self-introduction against a
// six-part structure: opening, background, core skills, achievements,
// fit to the role and closing.
package critique

import (
	"fmt"
	"strings"
)

// Method records which tier produced a Critique.
type Method string

const (
	MethodSemanticModel Method = "semantic_model"
	MethodKeyword       Method = "keyword"
)

// Criterion is the verdict on one rubric item.
type Criterion struct {
	Key     CriterionKey `json:"key"`
	Name    string       `json:"name"`
	Present bool         `json:"present"`
	Detail  string       `json:"detail"`
	Score   int          `json:"score"` // 0-10
}

// Critique is the full self-introduction review.
type Critique struct {
	Criteria     []Criterion `json:"criteria"`
	OverallScore float64     `json:"overall_score"` // 0-10
	Strengths    []string    `json:"strengths"`
	Suggestions  []string    `json:"suggestions"`
	Method       Method      `json:"method"`
}

// Missing returns the rubric items the introduction did not cover.
func (c Critique) Missing() []Criterion {
	var out []Criterion
	for _, cr := range c.Criteria {
		if !cr.Present {
			out = append(out, cr)
		}
	}
	return out
}

// Report renders the critique as reply text.
func (c Critique) Report() string {
	var b strings.Builder

	title := "AI 智能分析"
	if c.Method == MethodKeyword {
		title = "關鍵字分析"
	}
	fmt.Fprintf(&b, "📝 自我介紹分析（%s）\n\n", title)
	fmt.Fprintf(&b, "整體評分：%.1f/10\n\n", c.OverallScore)

	b.WriteString("評估結果：\n")
	for _, cr := range c.Criteria {
		mark := "❌"
		if cr.Present {
			mark = "✅"
		}
		fmt.Fprintf(&b, "%s %s：%s\n", mark, cr.Name, cr.Detail)
	}

	if len(c.Strengths) > 0 {
		b.WriteString("\n您的優點：\n")
		for _, s := range c.Strengths {
			fmt.Fprintf(&b, "• %s\n", s)
		}
	}

	b.WriteString("\n改進建議：\n")
	if len(c.Suggestions) == 0 {
		b.WriteString("• 您的自我介紹已經很完整，繼續保持！\n")
	}
	for _, s := range c.Suggestions {
		fmt.Fprintf(&b, "• %s\n", s)
	}

	b.WriteString("\n參考範例結構：\n")
	for i, item := range rubric {
		fmt.Fprintf(&b, "%d. %s：「%s」\n", i+1, item.Name, item.Example)
	}
	return strings.TrimRight(b.String(), "\n")
}
