package scoring

import (
	"fmt"
	"strings"
)

// Grade is the coarse band a score falls into.
type Grade string

const (
	GradeExcellent        Grade = "Excellent"
	GradeGood             Grade = "Good"
	GradeFair             Grade = "Fair"
	GradeNeedsImprovement Grade = "NeedsImprovement"
)

// Label is the display name shown to candidates.
func (g Grade) Label() string {
	switch g {
	case GradeExcellent:
		return "優秀"
	case GradeGood:
		return "良好"
	case GradeFair:
		return "一般"
	default:
		return "需要改進"
	}
}

// GradeFor maps a 0-100 score onto a grade band.
func GradeFor(score int) Grade {
	switch {
	case score >= 80:
		return GradeExcellent
	case score >= 60:
		return GradeGood
	case score >= 40:
		return GradeFair
	default:
		return GradeNeedsImprovement
	}
}

var gradeAliases = map[string]Grade{
	"excellent":         GradeExcellent,
	"優秀":                GradeExcellent,
	"优秀":                GradeExcellent,
	"good":              GradeGood,
	"良好":                GradeGood,
	"fair":              GradeFair,
	"average":           GradeFair,
	"一般":                GradeFair,
	"尚可":                GradeFair,
	"needsimprovement":  GradeNeedsImprovement,
	"needs improvement": GradeNeedsImprovement,
	"needs_improvement": GradeNeedsImprovement,
	"poor":              GradeNeedsImprovement,
	"需要改進":              GradeNeedsImprovement,
	"需要改进":              GradeNeedsImprovement,
}

// ParseGrade normalizes a model-supplied grade label in English or Chinese.
func ParseGrade(s string) (Grade, bool) {
	g, ok := gradeAliases[strings.ToLower(strings.TrimSpace(s))]
	return g, ok
}

// Method records which tier produced a Result.
type Method string

const (
	MethodSemanticModel Method = "semantic_model"
	MethodDeterministic Method = "deterministic"
)

// Result is the outcome of scoring one answer.
type Result struct {
	Score       int      `json:"score"`
	Grade       Grade    `json:"grade"`
	Similarity  float64  `json:"similarity"`
	Feedback    string   `json:"feedback"`
	Differences []string `json:"differences"`
	Strengths   []string `json:"strengths,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	Method      Method   `json:"method"`
}

// clamp bounds Score to [0,100] and Similarity to [0,1].
func (r *Result) clamp() {
	r.Score = max(0, min(100, r.Score))
	r.Similarity = max(0, min(1, r.Similarity))
}

// Report renders the result as the interviewer's reply text.
func (r Result) Report() string {
	var b strings.Builder

	method := "AI 語意分析"
	if r.Method == MethodDeterministic {
		method = "文字相似度分析"
	}

	fmt.Fprintf(&b, "📊 分析結果（%s）\n\n", method)
	fmt.Fprintf(&b, "評分：%d/100\n", r.Score)
	fmt.Fprintf(&b, "等級：%s\n", r.Grade.Label())
	fmt.Fprintf(&b, "相似度：%.1f%%\n", r.Similarity*100)
	fmt.Fprintf(&b, "回饋：%s\n", r.Feedback)

	writeList(&b, "差異", r.Differences)
	writeList(&b, "優點", r.Strengths)
	writeList(&b, "建議", r.Suggestions)
	return strings.TrimRight(b.String(), "\n")
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s：\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "• %s\n", item)
	}
}
