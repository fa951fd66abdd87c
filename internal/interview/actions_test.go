package interview

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/interviewer/internal/critique"
	"github.com/abhisek/interviewer/internal/intent"
	"github.com/abhisek/interviewer/internal/llm"
	"github.com/abhisek/interviewer/internal/question"
	"github.com/abhisek/interviewer/internal/scoring"
)

func TestEveryActionHasHandler(t *testing.T) {
	m := New(Deps{})
	for _, a := range Actions {
		_, found := m.actions[a]
		assert.True(t, found, "no handler for %s", a)
	}
	assert.Len(t, m.actions, len(Actions))
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("analyze_answer")
	require.NoError(t, err)
	assert.Equal(t, ActionAnalyzeAnswer, a)

	_, err = ParseAction("drop_tables")
	assert.Error(t, err)
}

func TestDispatch_UnknownAction(t *testing.T) {
	res := New(Deps{}).Dispatch(context.Background(), Call{Name: "drop_tables"})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "unknown action")
}

func TestDispatch_MissingArguments(t *testing.T) {
	m := New(Deps{})
	tests := []struct {
		action Action
		args   map[string]string
		want   string
	}{
		{ActionAnalyzeAnswer, nil, "user_answer"},
		{ActionAnalyzeAnswer, map[string]string{"user_answer": "   "}, "user_answer"},
		{ActionStartInterview, nil, "user_id"},
		{ActionIntroCollector, map[string]string{"user_id": "u"}, "message"},
		{ActionAnalyzeIntro, nil, "intro"},
		{ActionGenerateFinalSummary, nil, "user_id"},
		{ActionInterviewSystem, map[string]string{"message": "hi"}, "user_id"},
	}
	for _, tt := range tests {
		res := m.Dispatch(context.Background(), Call{Name: string(tt.action), Args: tt.args})
		assert.False(t, res.Success, tt.action)
		assert.Contains(t, res.Error, "missing required argument", tt.action)
		assert.Contains(t, res.Error, tt.want, tt.action)
	}
}

func TestDispatch_GetQuestionStoresForUser(t *testing.T) {
	f := newFixture()

	res := f.m.Dispatch(context.Background(), Call{Name: "get_question", Args: map[string]string{"user_id": "u"}})
	require.True(t, res.Success)
	iq, isQuestion := res.Result.(IssuedQuestion)
	require.True(t, isQuestion)
	assert.Equal(t, qGoroutine, iq.Question)
	assert.Equal(t, "簡單", iq.Difficulty)
	assert.Equal(t, qGoroutine, *f.session(t, "u").CurrentQuestion)

	res = f.m.Dispatch(context.Background(), Call{Name: "get_question"})
	require.True(t, res.Success)
	assert.Equal(t, qChannel, res.Result.(IssuedQuestion).Question)
}

func TestDispatch_AnalyzeAnswer(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res := f.m.Dispatch(ctx, Call{Name: "analyze_answer", Args: map[string]string{
		"user_answer":     "abc",
		"standard_answer": "abc",
	}})
	require.True(t, res.Success)
	assert.Equal(t, 100, res.Result.(scoring.Result).Score)

	// Without a reference the user's current question is used.
	s := f.seed(t, "u", Questioning)
	s.CurrentQuestion = &qChannel
	res = f.m.Dispatch(ctx, Call{Name: "analyze_answer", Args: map[string]string{"user_id": "u", "user_answer": "用來通訊"}})
	require.True(t, res.Success)
	last := f.scorer.calls[len(f.scorer.calls)-1]
	assert.Equal(t, scoreCall{"用來通訊", qChannel.StandardAnswer, qChannel.Text}, last)
}

func TestDispatch_GetStandardAnswer(t *testing.T) {
	f := newFixture()
	s := f.seed(t, "u", Questioning)
	s.CurrentQuestion = &qChannel

	res := f.m.Dispatch(context.Background(), Call{Name: "get_standard_answer", Args: map[string]string{"user_id": "u"}})
	require.True(t, res.Success)
	assert.Equal(t, qChannel, res.Result)

	res = f.m.Dispatch(context.Background(), Call{Name: "get_standard_answer"})
	require.True(t, res.Success)
	assert.IsType(t, question.Question{}, res.Result)
}

func TestDispatch_StartInterview(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	args := map[string]string{"user_id": "u"}

	res := f.m.Dispatch(ctx, Call{Name: "start_interview", Args: args})
	require.True(t, res.Success)
	assert.Equal(t, "intro", res.Result.(Reply).CurrentState)

	res = f.m.Dispatch(ctx, Call{Name: "start_interview", Args: args})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "already in progress")

	f.session(t, "u").State = Completed
	res = f.m.Dispatch(ctx, Call{Name: "start_interview", Args: args})
	require.True(t, res.Success)
	assert.Equal(t, "intro", res.Result.(Reply).CurrentState)
}

func TestDispatch_IntroCollectorAndSummary(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res := f.m.Dispatch(ctx, Call{Name: "intro_collector", Args: map[string]string{"user_id": "u", "message": "我是小明"}})
	assert.False(t, res.Success, "not in intro yet")

	f.send(t, "u", "開始面試")
	res = f.m.Dispatch(ctx, Call{Name: "intro_collector", Args: map[string]string{"user_id": "u", "message": "我是小明"}})
	require.True(t, res.Success)
	assert.Equal(t, []string{"我是小明"}, f.session(t, "u").IntroFragments)

	res = f.m.Dispatch(ctx, Call{Name: "interview_system", Args: map[string]string{"user_id": "u", "message": "介紹完了"}})
	require.True(t, res.Success)
	assert.Equal(t, "questioning", res.Result.(Reply).CurrentState)

	res = f.m.Dispatch(ctx, Call{Name: "generate_final_summary", Args: map[string]string{"user_id": "u"}})
	require.True(t, res.Success)
	assert.Contains(t, res.Result.(string), "面試總結報告")
}

func TestDispatch_AnalyzeIntro(t *testing.T) {
	f := newFixture()
	res := f.m.Dispatch(context.Background(), Call{Name: "analyze_intro", Args: map[string]string{"intro": "我是工程師，期待加入"}})
	require.True(t, res.Success)
	c := res.Result.(critique.Critique)
	assert.Len(t, c.Criteria, 6)
	assert.Equal(t, []string{"我是工程師，期待加入"}, f.critic.intros)
}

func TestConverse(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res := f.m.Converse(ctx, "u", "請給我問題")
	require.True(t, res.Success)
	assert.Equal(t, qGoroutine, res.Result.(IssuedQuestion).Question)

	res = f.m.Converse(ctx, "u", "I think a goroutine is a lightweight thread managed by the runtime")
	require.True(t, res.Success)
	assert.IsType(t, scoring.Result{}, res.Result)
	last := f.scorer.calls[len(f.scorer.calls)-1]
	assert.Equal(t, qGoroutine.StandardAnswer, last.reference, "open dialogue answers use the stored question")

	res = f.m.Converse(ctx, "u", "這題的標準答案？")
	require.True(t, res.Success)
	assert.Equal(t, qGoroutine, res.Result)

	res = f.m.Converse(ctx, "u", "thanks")
	require.True(t, res.Success)
	assert.Equal(t, generalChatText, res.Result)
}

func TestConverse_ModelRouting(t *testing.T) {
	f := newFixture()
	mock := llm.NewMockJSON(`{"intent":"introduction"}`)
	f.m.router = intent.NewRouter(intent.NewModelClassifier(mock, 0, nil), nil)

	res := f.m.Converse(context.Background(), "u", "Hello, Wang here, backend engineer")
	require.True(t, res.Success)
	assert.IsType(t, critique.Critique{}, res.Result)
	assert.Len(t, f.critic.intros, 1)
}
