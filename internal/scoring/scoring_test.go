package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/interviewer/internal/llm"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"", "", 1.0},
		{"abc", "abc", 1.0},
		{"ABC", "abc", 1.0},
		{"abc", "", 0.0},
		{"abcd", "abed", 0.75},
		{"xyz", "abc", 0.0},
		{"我熟悉 Go", "我熟悉 Golang", 2 * 6.0 / 16.0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9, "Similarity(%q, %q)", tt.a, tt.b)
	}
}

func TestGradeFor(t *testing.T) {
	tests := []struct {
		score int
		want  Grade
	}{
		{100, GradeExcellent},
		{80, GradeExcellent},
		{79, GradeGood},
		{60, GradeGood},
		{59, GradeFair},
		{40, GradeFair},
		{39, GradeNeedsImprovement},
		{0, GradeNeedsImprovement},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GradeFor(tt.score), "GradeFor(%d)", tt.score)
	}
}

func TestParseGrade(t *testing.T) {
	for label, want := range map[string]Grade{
		"Excellent":         GradeExcellent,
		" good ":            GradeGood,
		"良好":                GradeGood,
		"尚可":                GradeFair,
		"Needs Improvement": GradeNeedsImprovement,
		"需要改進":              GradeNeedsImprovement,
	} {
		got, ok := ParseGrade(label)
		assert.True(t, ok, label)
		assert.Equal(t, want, got, label)
	}

	_, ok := ParseGrade("outstanding")
	assert.False(t, ok)
}

func TestDifferences(t *testing.T) {
	got := Differences("go is fast", "Go is simple and fast")
	assert.Equal(t, []string{
		"缺少關鍵字: and, simple",
		"回答過於簡短，建議提供更多細節",
	}, got)

	got = Differences("channels pass values between goroutines safely and also block", "channels pass values")
	assert.Equal(t, []string{
		"多餘的關鍵字: also, and, between, block, goroutines, safely",
		"回答過於冗長，建議簡潔明瞭",
	}, got)

	assert.Empty(t, Differences("same words here", "same words here"))
}

func TestDeterministic(t *testing.T) {
	r := Deterministic("Goroutines are cheap", "goroutines are cheap")
	assert.Equal(t, 100, r.Score)
	assert.Equal(t, GradeExcellent, r.Grade)
	assert.Equal(t, 1.0, r.Similarity)
	assert.Empty(t, r.Differences)
	assert.Empty(t, r.Suggestions)
	assert.Equal(t, MethodDeterministic, r.Method)

	r = Deterministic("", "reference text here")
	assert.Equal(t, 0, r.Score)
	assert.Equal(t, GradeNeedsImprovement, r.Grade)
	assert.Equal(t, []string{"建議多練習相關概念", "可以參考標準答案學習", "建議重新學習基礎知識"}, r.Suggestions)
}

func TestDeterministic_EmptyReference(t *testing.T) {
	r := Deterministic("I would use a mutex", "")
	assert.Equal(t, 0, r.Score)
	assert.Equal(t, []string{"多餘的關鍵字: a, i, mutex, use, would"}, r.Differences)
}

func TestScorer_ModelTier(t *testing.T) {
	mock := llm.NewMockJSON(`{"score":86,"grade":"Excellent","similarity":0.9,"feedback":"Clear and accurate.","differences":[],"strengths":["precise"],"suggestions":["mention GOMAXPROCS"]}`)
	s := NewScorer(mock, DefaultConfig(), nil)

	r := s.Score(context.Background(), "goroutines are multiplexed onto OS threads", "goroutines are lightweight threads", "What is a goroutine?")
	assert.Equal(t, 86, r.Score)
	assert.Equal(t, GradeExcellent, r.Grade)
	assert.Equal(t, 0.9, r.Similarity)
	assert.Equal(t, MethodSemanticModel, r.Method)
	assert.Equal(t, []string{"precise"}, r.Strengths)

	req := mock.LastRequest()
	assert.Equal(t, EvaluationSchema, req.Schema)
	require.Len(t, req.Messages, 1)
	assert.Contains(t, req.Messages[0].Content, "What is a goroutine?")
	assert.Contains(t, req.Messages[0].Content, "goroutines are lightweight threads")
}

func TestScorer_NoProviderIsDeterministic(t *testing.T) {
	r := NewScorer(nil, DefaultConfig(), nil).Score(context.Background(), "abc", "abc", "")
	assert.Equal(t, MethodDeterministic, r.Method)
	assert.Equal(t, 100, r.Score)
}

func TestScorer_FallsBackOnError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{}})
	r := NewScorer(mock, DefaultConfig(), nil).Score(context.Background(), "abcd", "abed", "")
	assert.Equal(t, MethodDeterministic, r.Method)
	assert.Equal(t, 75, r.Score)
	assert.Equal(t, GradeGood, r.Grade)
}

func TestScorer_FallsBackOnTimeout(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"score":99,"grade":"Excellent","similarity":1,"feedback":"","differences":[],"strengths":[],"suggestions":[]}`),
		Delay:   time.Second,
	})
	cfg := DefaultConfig()
	cfg.Timeout = 20 * time.Millisecond

	start := time.Now()
	r := NewScorer(mock, cfg, nil).Score(context.Background(), "abc", "abc", "")
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, MethodDeterministic, r.Method)
}

func TestScorer_FallsBackOnSchemaViolation(t *testing.T) {
	mock := llm.NewMockJSON(`{"score":"high"}`)
	r := NewScorer(mock, DefaultConfig(), nil).Score(context.Background(), "abc", "abc", "")
	assert.Equal(t, MethodDeterministic, r.Method)
}

// rawProvider returns content verbatim, the way a provider without
// structured output support would.
type rawProvider struct {
	content string
	err     error
}

func (p rawProvider) Generate(context.Context, llm.Request) (*llm.Response, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &llm.Response{Content: json.RawMessage(p.content)}, nil
}

func (p rawProvider) ModelID() string { return "raw" }

func TestScorer_PermissiveParse(t *testing.T) {
	content := "好的，以下是評分結果：\n```json\n{\"score\": 72, \"grade\": \"良好\", \"similarity\": 0.7, \"feedback\": \"回答正確但缺少細節 {例如範例}\", \"differences\": [\"缺少範例\"], \"strengths\": [], \"suggestions\": []}\n```\n希望有幫助！"
	r := NewScorer(rawProvider{content: content}, DefaultConfig(), nil).Score(context.Background(), "a", "b", "q")

	assert.Equal(t, MethodSemanticModel, r.Method)
	assert.Equal(t, 72, r.Score)
	assert.Equal(t, GradeGood, r.Grade)
	assert.Equal(t, "回答正確但缺少細節 {例如範例}", r.Feedback)
}

func TestScorer_ClampsModelOutput(t *testing.T) {
	content := `{"score": 150, "grade": "unheard-of", "similarity": 1.7, "feedback": "", "differences": [], "strengths": [], "suggestions": []}`
	r := NewScorer(rawProvider{content: content}, DefaultConfig(), nil).Score(context.Background(), "a", "b", "")

	assert.Equal(t, 100, r.Score)
	assert.Equal(t, 1.0, r.Similarity)
	assert.Equal(t, GradeExcellent, r.Grade, "unknown grade is recomputed from the score")

	content = `{"score": -12, "grade": "Fair", "similarity": -0.3, "feedback": "", "differences": [], "strengths": [], "suggestions": []}`
	r = NewScorer(rawProvider{content: content}, DefaultConfig(), nil).Score(context.Background(), "a", "b", "")
	assert.Equal(t, 0, r.Score)
	assert.Equal(t, 0.0, r.Similarity)
}

func TestScorer_ClampsHugeModelScore(t *testing.T) {
	mock := llm.NewMockJSON(`{"score":1e20,"grade":"Excellent","similarity":3,"feedback":"ok","differences":[],"strengths":[],"suggestions":[]}`)
	r := NewScorer(mock, DefaultConfig(), nil).Score(context.Background(), "a", "b", "q")

	assert.Equal(t, MethodSemanticModel, r.Method)
	assert.Equal(t, 100, r.Score)
	assert.Equal(t, 1.0, r.Similarity)
	assert.Equal(t, GradeExcellent, r.Grade)

	mock = llm.NewMockJSON(`{"score":-1e20,"grade":"NeedsImprovement","similarity":0.1,"feedback":"ok","differences":[],"strengths":[],"suggestions":[]}`)
	r = NewScorer(mock, DefaultConfig(), nil).Score(context.Background(), "a", "b", "q")
	assert.Equal(t, 0, r.Score)
}

func TestScorer_ChineseGradeLabelPassesSchema(t *testing.T) {
	mock := llm.NewMockJSON(`{"score":72,"grade":"良好","similarity":0.7,"feedback":"不錯","differences":[],"strengths":[],"suggestions":[]}`)
	r := NewScorer(mock, DefaultConfig(), nil).Score(context.Background(), "a", "b", "q")

	assert.Equal(t, MethodSemanticModel, r.Method)
	assert.Equal(t, GradeGood, r.Grade)
	assert.Equal(t, 72, r.Score)
}

func TestEvaluationSchemaGradesParse(t *testing.T) {
	enum := EvaluationSchema.Definition["properties"].(map[string]any)["grade"].(map[string]any)["enum"].([]any)
	for _, label := range enum {
		_, ok := ParseGrade(label.(string))
		assert.True(t, ok, label)
	}
}

func TestScorer_ProseOnlyReplyFallsBack(t *testing.T) {
	r := NewScorer(rawProvider{content: "I think this answer deserves about 70 points."}, DefaultConfig(), nil).
		Score(context.Background(), "abc", "abc", "")
	assert.Equal(t, MethodDeterministic, r.Method)

	r = NewScorer(rawProvider{err: errors.New("connection reset")}, DefaultConfig(), nil).
		Score(context.Background(), "abc", "abc", "")
	assert.Equal(t, MethodDeterministic, r.Method)
}

func TestResultReport(t *testing.T) {
	r := Result{
		Score:       82,
		Grade:       GradeExcellent,
		Similarity:  0.815,
		Feedback:    "很好",
		Differences: []string{"缺少範例"},
		Method:      MethodSemanticModel,
	}
	out := r.Report()
	assert.Contains(t, out, "評分：82/100")
	assert.Contains(t, out, "等級：優秀")
	assert.Contains(t, out, "• 缺少範例")
	assert.NotContains(t, out, "優點")
}
