// Package session holds per-user interview state. Records are keyed by an
// opaque user identifier and concurrent requests for the same user are not
// serialized: RedisStore copies are last-write-wins, MemoryStore records
// are shared and race.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/interviewer/internal/question"
)

// State is the interview phase.
type State string

const (
	StateWaiting       State = "waiting"
	StateIntro         State = "intro"
	StateIntroAnalysis State = "intro_analysis"
	StateQuestioning   State = "questioning"
	StateCompleted     State = "completed"
)

// Turn is one handled message.
type Turn struct {
	State       State     `json:"state"`
	UserMessage string    `json:"user_message"`
	Reply       string    `json:"reply"`
	Score       *int      `json:"score,omitempty"`
	At          time.Time `json:"at"`
}

// Session is one user's interview.
type Session struct {
	UserID      string `json:"user_id"`
	InterviewID string `json:"interview_id"`
	State       State  `json:"state"`

	// IntroFragments are appended in order while introducing and cleared
	// once the critique consumes them.
	IntroFragments []string `json:"intro_fragments,omitempty"`
	IntroText      string   `json:"intro_text,omitempty"`
	IntroCritique  string   `json:"intro_critique,omitempty"`

	// CurrentQuestion awaits an answer. A new question replaces it; scoring
	// an answer leaves it in place.
	CurrentQuestion *question.Question `json:"current_question,omitempty"`
	QuestionsAsked  int                `json:"questions_asked"`

	Transcript []Turn    `json:"transcript,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// New creates a waiting session for userID.
func New(userID string) *Session {
	return &Session{
		UserID:      userID,
		InterviewID: uuid.NewString(),
		State:       StateWaiting,
		UpdatedAt:   time.Now(),
	}
}

// Reset starts a fresh interview for the same user.
func (s *Session) Reset() {
	*s = *New(s.UserID)
}

// Scores returns the scores recorded in the transcript, in order.
func (s *Session) Scores() []int {
	var out []int
	for _, t := range s.Transcript {
		if t.Score != nil {
			out = append(out, *t.Score)
		}
	}
	return out
}

// ErrNotFound is returned by Get when no session exists.
var ErrNotFound = errors.New("session not found")

// Store persists sessions.
type Store interface {
	// Get returns the user's session or ErrNotFound.
	Get(ctx context.Context, userID string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, userID string) error
}

// Load returns the user's session, creating a waiting one on first contact.
func Load(ctx context.Context, st Store, userID string) (*Session, error) {
	s, err := st.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return New(userID), nil
	}
	return s, err
}
