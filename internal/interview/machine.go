// Package interview runs the interview state machine. Each user moves
// through waiting, intro, intro_analysis, questioning and completed,
// driven by trigger phrases in their messages.
package interview

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/interviewer/internal/critique"
	"github.com/abhisek/interviewer/internal/intent"
	"github.com/abhisek/interviewer/internal/llm"
	"github.com/abhisek/interviewer/internal/logger"
	"github.com/abhisek/interviewer/internal/metrics"
	"github.com/abhisek/interviewer/internal/question"
	"github.com/abhisek/interviewer/internal/scoring"
	"github.com/abhisek/interviewer/internal/session"
	"github.com/abhisek/interviewer/internal/store"
)

// State aliases the session phase.
type State = session.State

const (
	Waiting       = session.StateWaiting
	Intro         = session.StateIntro
	IntroAnalysis = session.StateIntroAnalysis
	Questioning   = session.StateQuestioning
	Completed     = session.StateCompleted
)

// AnswerScorer grades an answer. It never fails.
type AnswerScorer interface {
	Score(ctx context.Context, answer, reference, question string) scoring.Result
}

// IntroCritic reviews a self-introduction. It never fails.
type IntroCritic interface {
	Analyze(ctx context.Context, intro string) critique.Critique
}

// IntentRouter classifies open-dialogue messages.
type IntentRouter interface {
	Route(ctx context.Context, message string) intent.Decision
}

// Sink durably records each exchange.
type Sink interface {
	AppendExchange(ctx context.Context, data store.ExchangeData) error
}

// Reply is the outward response for one message.
type Reply struct {
	Success      bool   `json:"success"`
	Response     string `json:"response"`
	CurrentState string `json:"current_state"`
	SessionID    string `json:"session_id"`
}

// Deps wires the machine's collaborators. Nil fields get offline defaults:
// in-memory sessions, the built-in question, deterministic scoring and
// keyword critique. A nil Sink disables the exchange log.
type Deps struct {
	Sessions  session.Store
	Questions question.Source
	Scorer    AnswerScorer
	Critic    IntroCritic
	Router    IntentRouter
	Sink      Sink
	Log       *zap.Logger
}

// Machine is the interview state machine.
type Machine struct {
	sessions  session.Store
	questions question.Source
	scorer    AnswerScorer
	critic    IntroCritic
	router    IntentRouter
	sink      Sink
	log       *zap.Logger
	actions   map[Action]actionHandler
}

// New creates a Machine.
func New(deps Deps) *Machine {
	log := logger.OrNop(deps.Log)
	m := &Machine{
		sessions:  deps.Sessions,
		questions: deps.Questions,
		scorer:    deps.Scorer,
		critic:    deps.Critic,
		router:    deps.Router,
		sink:      deps.Sink,
		log:       log,
	}
	if m.sessions == nil {
		m.sessions = session.NewMemoryStore()
	}
	if m.questions == nil {
		m.questions = question.NewCorpus(nil, log)
	}
	if m.scorer == nil {
		m.scorer = scoring.NewScorer(nil, scoring.DefaultConfig(), log)
	}
	if m.critic == nil {
		m.critic = critique.NewCritic(nil, critique.DefaultConfig(), log)
	}
	if m.router == nil {
		m.router = intent.NewRouter(nil, log)
	}
	m.actions = m.registerActions()
	return m
}

type turn struct {
	text  string
	score *int
}

// Handle processes one message from userID.
func (m *Machine) Handle(ctx context.Context, userID, message string) Reply {
	s, err := session.Load(ctx, m.sessions, userID)
	if err != nil {
		m.log.Error("load session failed", zap.String("user", userID), zap.Error(err))
		return Reply{Success: false, Response: storeFailedText, CurrentState: string(Waiting)}
	}
	ctx = llm.WithSession(ctx, s.InterviewID)

	out := m.step(ctx, s, message)

	reply := Reply{
		Success:      true,
		Response:     out.text,
		CurrentState: string(s.State),
		SessionID:    s.InterviewID,
	}
	if err := m.record(ctx, s, message, out); err != nil {
		m.log.Error("save session failed", zap.String("user", userID), zap.Error(err))
		reply.Success = false
	}
	return reply
}

func (m *Machine) step(ctx context.Context, s *session.Session, message string) turn {
	in := intent.Prepare(message)

	if isRestart(in) {
		from := s.State
		s.Reset()
		m.observeTransition(s.UserID, from, Waiting)
		return turn{text: restartPrefix + welcomeText}
	}

	switch s.State {
	case Waiting:
		if startPhrases.MatchText(in) {
			m.transition(s, Intro)
			return turn{text: introInstructions}
		}
		return turn{text: welcomeText}

	case Intro:
		if introDonePhrases.MatchText(in) {
			m.transition(s, IntroAnalysis)
			return m.analyzeIntro(ctx, s)
		}
		s.IntroFragments = append(s.IntroFragments, message)
		return turn{text: introAck(len(s.IntroFragments))}

	case IntroAnalysis:
		// Only reachable when a previous request stopped mid-analysis.
		return m.analyzeIntro(ctx, s)

	case Questioning:
		return m.questioning(ctx, s, message, in)

	case Completed:
		return turn{text: completedText}

	default:
		m.log.Warn("unknown session state, resetting", zap.String("user", s.UserID), zap.String("state", string(s.State)))
		s.Reset()
		return turn{text: welcomeText}
	}
}

// analyzeIntro critiques the collected fragments and hops straight on to
// the first question.
func (m *Machine) analyzeIntro(ctx context.Context, s *session.Session) turn {
	text := strings.Join(s.IntroFragments, " ")
	c := m.critic.Analyze(ctx, text)

	s.IntroText = text
	s.IntroCritique = c.Report()
	s.IntroFragments = nil

	m.transition(s, Questioning)
	q := m.issueQuestion(ctx, s)

	return turn{text: s.IntroCritique + "\n\n" + toQuestioningText + "\n\n" + formatQuestion(q)}
}

func (m *Machine) questioning(ctx context.Context, s *session.Session, message string, in intent.Text) turn {
	switch {
	case isExit(in):
		m.transition(s, Completed)
		return turn{text: Summarize(s)}

	case referencePhrases.MatchText(in):
		if s.CurrentQuestion == nil {
			return turn{text: noQuestionText}
		}
		return turn{text: formatReference(*s.CurrentQuestion)}

	case nextQuestionPhrases.MatchText(in):
		return turn{text: formatQuestion(m.issueQuestion(ctx, s))}
	}

	r := m.scoreAnswer(ctx, s, message)
	text := r.Report() + "\n\n" + answerFollowUp
	if s.CurrentQuestion == nil {
		text = noQuestionScored + "\n\n" + text
	}
	score := r.Score
	return turn{text: text, score: &score}
}

// scoreAnswer grades message against the current question. The question
// stays in place, so answering twice scores twice.
func (m *Machine) scoreAnswer(ctx context.Context, s *session.Session, answer string) scoring.Result {
	var reference, questionText string
	if q := s.CurrentQuestion; q != nil {
		reference, questionText = q.StandardAnswer, q.Text
	}
	return m.scorer.Score(ctx, answer, reference, questionText)
}

// issueQuestion replaces the current question with a fresh one.
func (m *Machine) issueQuestion(ctx context.Context, s *session.Session) question.Question {
	q := m.questions.Next(ctx)
	s.CurrentQuestion = &q
	s.QuestionsAsked++
	return q
}

func (m *Machine) transition(s *session.Session, to State) {
	m.observeTransition(s.UserID, s.State, to)
	s.State = to
}

func (m *Machine) observeTransition(userID string, from, to State) {
	m.log.Debug("state transition",
		zap.String("user", userID),
		zap.String("from", string(from)),
		zap.String("to", string(to)))
	metrics.StateTransitions.WithLabelValues(string(from), string(to)).Inc()
}

// record appends the turn to the transcript, saves the session and logs
// the exchange. Sink failures never fail the turn.
func (m *Machine) record(ctx context.Context, s *session.Session, message string, out turn) error {
	now := time.Now()
	s.Transcript = append(s.Transcript, session.Turn{
		State:       s.State,
		UserMessage: message,
		Reply:       out.text,
		Score:       out.score,
		At:          now,
	})
	if err := m.sessions.Save(ctx, s); err != nil {
		return err
	}

	if m.sink != nil {
		err := m.sink.AppendExchange(ctx, store.ExchangeData{
			UserID:      s.UserID,
			SessionID:   s.InterviewID,
			UserMessage: message,
			AIResponse:  out.text,
			State:       string(s.State),
			Score:       out.score,
			Timestamp:   now,
		})
		if err != nil {
			m.log.Warn("append exchange failed", zap.String("user", s.UserID), zap.Error(err))
		}
	}
	return nil
}
