package interview

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/interviewer/internal/question"
	"github.com/abhisek/interviewer/internal/session"
)

// Action names a dispatchable interview operation.
type Action string

const (
	ActionGetQuestion          Action = "get_question"
	ActionAnalyzeAnswer        Action = "analyze_answer"
	ActionGetStandardAnswer    Action = "get_standard_answer"
	ActionStartInterview       Action = "start_interview"
	ActionIntroCollector       Action = "intro_collector"
	ActionAnalyzeIntro         Action = "analyze_intro"
	ActionGenerateFinalSummary Action = "generate_final_summary"
	ActionInterviewSystem      Action = "interview_system"
)

// Actions lists every action in registry order.
var Actions = []Action{
	ActionGetQuestion,
	ActionAnalyzeAnswer,
	ActionGetStandardAnswer,
	ActionStartInterview,
	ActionIntroCollector,
	ActionAnalyzeIntro,
	ActionGenerateFinalSummary,
	ActionInterviewSystem,
}

// ParseAction validates an action name.
func ParseAction(name string) (Action, error) {
	for _, a := range Actions {
		if string(a) == name {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown action %q", name)
}

// Call is a named action invocation.
type Call struct {
	Name string            `json:"name"`
	Args map[string]string `json:"args,omitempty"`
}

// ActionResult is the dispatch outcome. Result holds a string or a
// structured value depending on the action.
type ActionResult struct {
	Success bool   `json:"success"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

func succeed(result any) ActionResult { return ActionResult{Success: true, Result: result} }

func fail(format string, args ...any) ActionResult {
	return ActionResult{Success: false, Error: fmt.Sprintf(format, args...)}
}

// IssuedQuestion is a question with its display labels.
type IssuedQuestion struct {
	question.Question
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
}

func issued(q question.Question) IssuedQuestion {
	return IssuedQuestion{Question: q, Category: q.Category(), Difficulty: q.Difficulty()}
}

type actionHandler func(ctx context.Context, args map[string]string) ActionResult

func (m *Machine) registerActions() map[Action]actionHandler {
	return map[Action]actionHandler{
		ActionGetQuestion:          m.actionGetQuestion,
		ActionAnalyzeAnswer:        m.actionAnalyzeAnswer,
		ActionGetStandardAnswer:    m.actionGetStandardAnswer,
		ActionStartInterview:       m.actionStartInterview,
		ActionIntroCollector:       m.actionIntroCollector,
		ActionAnalyzeIntro:         m.actionAnalyzeIntro,
		ActionGenerateFinalSummary: m.actionGenerateFinalSummary,
		ActionInterviewSystem:      m.actionInterviewSystem,
	}
}

// Dispatch runs a named action. Unknown names and missing arguments come
// back as unsuccessful results.
func (m *Machine) Dispatch(ctx context.Context, call Call) ActionResult {
	a, err := ParseAction(call.Name)
	if err != nil {
		return fail("%v", err)
	}
	h, found := m.actions[a]
	if !found {
		return fail("action %q has no handler", a)
	}
	args := call.Args
	if args == nil {
		args = map[string]string{}
	}
	return h(ctx, args)
}

func requireArgs(args map[string]string, names ...string) error {
	var missing []string
	for _, n := range names {
		if strings.TrimSpace(args[n]) == "" {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required argument: %s", strings.Join(missing, ", "))
	}
	return nil
}

// withSession loads the user's session, applies fn and saves it.
func (m *Machine) withSession(ctx context.Context, userID string, fn func(*session.Session) ActionResult) ActionResult {
	s, err := session.Load(ctx, m.sessions, userID)
	if err != nil {
		return fail("load session: %v", err)
	}
	res := fn(s)
	if err := m.sessions.Save(ctx, s); err != nil {
		return fail("save session: %v", err)
	}
	return res
}

// get_question draws a question. With user_id it becomes that user's
// current question.
func (m *Machine) actionGetQuestion(ctx context.Context, args map[string]string) ActionResult {
	userID := args["user_id"]
	if userID == "" {
		return succeed(issued(m.questions.Next(ctx)))
	}
	return m.withSession(ctx, userID, func(s *session.Session) ActionResult {
		return succeed(issued(m.issueQuestion(ctx, s)))
	})
}

// analyze_answer scores user_answer against standard_answer, or against
// the user's current question when no reference is given.
func (m *Machine) actionAnalyzeAnswer(ctx context.Context, args map[string]string) ActionResult {
	if err := requireArgs(args, "user_answer"); err != nil {
		return fail("%v", err)
	}
	reference, questionText := args["standard_answer"], args["question"]

	if reference == "" && args["user_id"] != "" {
		s, err := session.Load(ctx, m.sessions, args["user_id"])
		if err != nil {
			return fail("load session: %v", err)
		}
		if q := s.CurrentQuestion; q != nil {
			reference = q.StandardAnswer
			if questionText == "" {
				questionText = q.Text
			}
		}
	}
	return succeed(m.scorer.Score(ctx, args["user_answer"], reference, questionText))
}

// get_standard_answer returns the user's current question with its
// reference answer, or a fresh question when there is none.
func (m *Machine) actionGetStandardAnswer(ctx context.Context, args map[string]string) ActionResult {
	if userID := args["user_id"]; userID != "" {
		s, err := session.Load(ctx, m.sessions, userID)
		if err != nil {
			return fail("load session: %v", err)
		}
		if s.CurrentQuestion != nil {
			return succeed(*s.CurrentQuestion)
		}
	}
	return succeed(m.questions.Next(ctx))
}

// start_interview begins a new interview for a user who is not mid-way
// through one.
func (m *Machine) actionStartInterview(ctx context.Context, args map[string]string) ActionResult {
	if err := requireArgs(args, "user_id"); err != nil {
		return fail("%v", err)
	}
	userID := args["user_id"]

	s, err := session.Load(ctx, m.sessions, userID)
	if err != nil {
		return fail("load session: %v", err)
	}
	switch s.State {
	case Waiting:
	case Completed:
		s.Reset()
		if err := m.sessions.Save(ctx, s); err != nil {
			return fail("save session: %v", err)
		}
	default:
		return fail("interview already in progress (state %s); send 重新開始 to restart", s.State)
	}
	return succeed(m.Handle(ctx, userID, startPhraseCanonical))
}

const startPhraseCanonical = "開始面試"

// intro_collector adds one introduction fragment while the user is
// introducing themselves.
func (m *Machine) actionIntroCollector(ctx context.Context, args map[string]string) ActionResult {
	if err := requireArgs(args, "user_id", "message"); err != nil {
		return fail("%v", err)
	}
	s, err := session.Load(ctx, m.sessions, args["user_id"])
	if err != nil {
		return fail("load session: %v", err)
	}
	if s.State != Intro {
		return fail("not collecting an introduction (state %s)", s.State)
	}
	return succeed(m.Handle(ctx, args["user_id"], args["message"]))
}

// analyze_intro critiques an introduction without touching any session.
func (m *Machine) actionAnalyzeIntro(ctx context.Context, args map[string]string) ActionResult {
	if err := requireArgs(args, "intro"); err != nil {
		return fail("%v", err)
	}
	return succeed(m.critic.Analyze(ctx, args["intro"]))
}

func (m *Machine) actionGenerateFinalSummary(ctx context.Context, args map[string]string) ActionResult {
	if err := requireArgs(args, "user_id"); err != nil {
		return fail("%v", err)
	}
	s, err := session.Load(ctx, m.sessions, args["user_id"])
	if err != nil {
		return fail("load session: %v", err)
	}
	return succeed(Summarize(s))
}

// interview_system feeds one message through the state machine.
func (m *Machine) actionInterviewSystem(ctx context.Context, args map[string]string) ActionResult {
	if err := requireArgs(args, "user_id", "message"); err != nil {
		return fail("%v", err)
	}
	reply := m.Handle(ctx, args["user_id"], args["message"])
	if !reply.Success {
		return ActionResult{Success: false, Result: reply, Error: reply.Response}
	}
	return succeed(reply)
}
