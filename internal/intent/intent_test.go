package intent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/interviewer/internal/llm"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "startinterview", Normalize("  Start\tInterview \n"))
	assert.Equal(t, "開始面試", Normalize("開始 面試"))
	assert.Equal(t, "", Normalize(" 　 "))
}

func TestPhraseSet(t *testing.T) {
	ps := NewPhraseSet("Next Question", "下一題", "  ")
	assert.True(t, ps.Match("ok, NEXT   question please"))
	assert.True(t, ps.Match("好，下 一題"))
	assert.False(t, ps.Match("question next"))
	assert.False(t, ps.Match(""), "blank phrases are dropped")
}

func TestPhraseSet_LatinWordBoundaries(t *testing.T) {
	ps := NewPhraseSet("quit", "end interview", "let's start")
	tests := []struct {
		message string
		want    bool
	}{
		{"quit", true},
		{"OK, Quit.", true},
		{"I am quite sure", false},
		{"please END   the interview", false},
		{"can we end interview now", true},
		{"Let’s start", true},
		{"restart", false},
		{"退出quit", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ps.Match(tt.message), tt.message)
	}
}

func TestPhraseSet_ChineseSubstrings(t *testing.T) {
	ps := NewPhraseSet("結束面試")
	assert.True(t, ps.Match("好的，結束 面試吧"))
	assert.False(t, ps.Match("面試尚未結束"))
}

func TestCommandSet(t *testing.T) {
	cs := NewCommandSet("exit", "i'm done", "重來")
	assert.True(t, cs.Match("  EXIT! "))
	assert.True(t, cs.Match("I'm done."))
	assert.True(t, cs.Match("重來！"))
	assert.False(t, cs.Match("let the program exit cleanly"))
	assert.False(t, cs.Match("once I'm done with it"))
	assert.False(t, cs.Match("失敗就重來"))
	assert.False(t, cs.Match("exit 面試"))
}

func TestParse(t *testing.T) {
	for _, in := range All {
		got, err := Parse(" " + string(in) + " ")
		assert.NoError(t, err)
		assert.Equal(t, in, got)
	}
	_, err := Parse("order_pizza")
	assert.Error(t, err)
}

func TestRouter_KeywordLayer(t *testing.T) {
	r := NewRouter(nil, nil)
	tests := []struct {
		message string
		want    Intent
	}{
		{"請給我問題", GetQuestion},
		{"Give me a question", GetQuestion},
		{"這題的標準答案是什麼？", GetStandardAnswer},
		{"下一題的參考答案", GetStandardAnswer},
		{"開始 面試", StartInterview},
		{"Let's start!", StartInterview},
		{"我想練習自我介紹", Introduction},
		{"這是我的回答：用 mutex", AnalyzeAnswer},
	}
	for _, tt := range tests {
		d := r.Route(context.Background(), tt.message)
		assert.Equal(t, tt.want, d.Intent, tt.message)
		assert.Equal(t, "keyword", d.Layer, tt.message)
	}
}

func TestRouter_ModelLayer(t *testing.T) {
	mock := llm.NewMockJSON(`{"intent":"get_standard_answer"}`)
	r := NewRouter(NewModelClassifier(mock, 0, nil), nil)

	d := r.Route(context.Background(), "what should I have said?")
	assert.Equal(t, Decision{Intent: GetStandardAnswer, Layer: "model"}, d)
	assert.Equal(t, IntentSchema, mock.LastRequest().Schema)
}

func TestRouter_ModelLayerSkippedOnKeywordHit(t *testing.T) {
	mock := llm.NewMockJSON(`{"intent":"general_chat"}`)
	r := NewRouter(NewModelClassifier(mock, 0, nil), nil)

	d := r.Route(context.Background(), "next question")
	assert.Equal(t, GetQuestion, d.Intent)
	assert.Empty(t, mock.Calls)
}

func TestRouter_InvalidModelLabelFallsThrough(t *testing.T) {
	long := "I think the garbage collector uses a tri-color mark and sweep algorithm"

	tests := []struct {
		name     string
		provider llm.Provider
	}{
		{"label outside enum", llm.NewMockJSON(`{"intent":"order_pizza"}`)},
		{"provider error", llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{}})},
		{"garbage", llm.NewMockJSON(`not json`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRouter(NewModelClassifier(tt.provider, 0, nil), nil)
			d := r.Route(context.Background(), long)
			assert.Equal(t, Decision{Intent: AnalyzeAnswer, Layer: "heuristic"}, d)
		})
	}
}

func TestHeuristicClassifier(t *testing.T) {
	tests := []struct {
		message string
		want    Intent
	}{
		{"我認為 goroutine 比執行緒輕量很多，因為它的堆疊可以動態成長", AnalyzeAnswer},
		{"In my experience channels work best for ownership transfer", AnalyzeAnswer},
		{"I’ve used sync.Pool to reduce allocations in hot paths", AnalyzeAnswer},
		{"I agree", GeneralChat},
		{"The weather is nice today, isn't it?", GeneralChat},
		{"Mesmerizing immersive memes everywhere", GeneralChat},
		{"", GeneralChat},
	}
	for _, tt := range tests {
		got, ok := HeuristicClassifier{}.Classify(context.Background(), tt.message)
		assert.True(t, ok)
		assert.Equal(t, tt.want, got, tt.message)
	}
}

func TestNewModelClassifier_NilProvider(t *testing.T) {
	assert.Nil(t, NewModelClassifier(nil, 0, nil))
}
