package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/interviewer/internal/question"
)

func intPtr(v int) *int { return &v }

func TestNew(t *testing.T) {
	s := New("alice")
	assert.Equal(t, "alice", s.UserID)
	assert.Equal(t, StateWaiting, s.State)
	assert.NotEmpty(t, s.InterviewID)
	assert.NotEqual(t, s.InterviewID, New("alice").InterviewID)
}

func TestReset(t *testing.T) {
	s := New("bob")
	id := s.InterviewID
	s.State = StateQuestioning
	s.IntroFragments = []string{"hi"}
	s.CurrentQuestion = &question.Question{Text: "q"}
	s.Transcript = []Turn{{UserMessage: "x"}}

	s.Reset()
	assert.Equal(t, "bob", s.UserID)
	assert.Equal(t, StateWaiting, s.State)
	assert.Empty(t, s.IntroFragments)
	assert.Nil(t, s.CurrentQuestion)
	assert.Empty(t, s.Transcript)
	assert.NotEqual(t, id, s.InterviewID)
}

func TestScores(t *testing.T) {
	s := New("u")
	s.Transcript = []Turn{
		{UserMessage: "next question"},
		{UserMessage: "a1", Score: intPtr(70)},
		{UserMessage: "a2", Score: intPtr(90)},
	}
	assert.Equal(t, []int{70, 90}, s.Scores())
}

func storeContract(t *testing.T, st Store) {
	t.Helper()
	ctx := context.Background()

	_, err := st.Get(ctx, "carol")
	assert.ErrorIs(t, err, ErrNotFound)

	s, err := Load(ctx, st, "carol")
	require.NoError(t, err)
	assert.Equal(t, StateWaiting, s.State)

	s.State = StateQuestioning
	s.CurrentQuestion = &question.Question{Text: "什麼是 channel？", StandardAnswer: "通訊管道", Source: "go"}
	s.Transcript = append(s.Transcript, Turn{State: StateQuestioning, UserMessage: "ans", Score: intPtr(55), At: time.Now()})
	require.NoError(t, st.Save(ctx, s))

	got, err := Load(ctx, st, "carol")
	require.NoError(t, err)
	assert.Equal(t, StateQuestioning, got.State)
	assert.Equal(t, s.InterviewID, got.InterviewID)
	require.NotNil(t, got.CurrentQuestion)
	assert.Equal(t, "通訊管道", got.CurrentQuestion.StandardAnswer)
	assert.Equal(t, []int{55}, got.Scores())

	require.NoError(t, st.Delete(ctx, "carol"))
	_, err = st.Get(ctx, "carol")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestMemoryStore_ConcurrentUsers(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := New(string(rune('a' + i%26)) + "-user")
			_ = st.Save(ctx, s)
			_, _ = st.Get(ctx, s.UserID)
		}()
	}
	wg.Wait()
	assert.Equal(t, 26, st.Len())
}

func TestGet_RecordSharing(t *testing.T) {
	ctx := context.Background()

	mem := NewMemoryStore()
	require.NoError(t, mem.Save(ctx, New("u1")))
	a, err := mem.Get(ctx, "u1")
	require.NoError(t, err)
	b, err := mem.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Same(t, a, b, "memory store hands out the live record")

	mr := miniredis.RunT(t)
	rs := NewRedisStore(RedisOptions{Address: mr.Addr()})
	t.Cleanup(func() { rs.Close() })
	require.NoError(t, rs.Save(ctx, New("u1")))
	c, err := rs.Get(ctx, "u1")
	require.NoError(t, err)
	d, err := rs.Get(ctx, "u1")
	require.NoError(t, err)
	assert.NotSame(t, c, d, "redis store decodes a fresh copy per read")
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	st := NewRedisStore(RedisOptions{Address: mr.Addr()})
	t.Cleanup(func() { st.Close() })

	require.NoError(t, st.Ping(context.Background()))
	storeContract(t, st)
}

func TestRedisStore_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	st := NewRedisStore(RedisOptions{Address: mr.Addr(), TTL: time.Hour})
	t.Cleanup(func() { st.Close() })
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, New("dave")))
	assert.Equal(t, time.Hour, mr.TTL(keyPrefix+"dave"))

	mr.FastForward(2 * time.Hour)
	_, err := st.Get(ctx, "dave")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_CorruptRecord(t *testing.T) {
	mr := miniredis.RunT(t)
	st := NewRedisStore(RedisOptions{Address: mr.Addr()})
	t.Cleanup(func() { st.Close() })

	require.NoError(t, mr.Set(keyPrefix+"eve", "{not json"))
	_, err := st.Get(context.Background(), "eve")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
