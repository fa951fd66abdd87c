package interview

import (
	"context"

	"go.uber.org/zap"

	"github.com/abhisek/interviewer/internal/intent"
)

// Converse handles a free-text message outside the guided flow: the
// message is classified and the matching action runs against the user's
// session.
func (m *Machine) Converse(ctx context.Context, userID, message string) ActionResult {
	d := m.router.Route(ctx, message)
	m.log.Debug("conversing",
		zap.String("user", userID),
		zap.String("intent", string(d.Intent)),
		zap.String("layer", d.Layer))

	args := map[string]string{"user_id": userID}
	switch d.Intent {
	case intent.GetQuestion:
		return m.Dispatch(ctx, Call{Name: string(ActionGetQuestion), Args: args})
	case intent.AnalyzeAnswer:
		args["user_answer"] = message
		return m.Dispatch(ctx, Call{Name: string(ActionAnalyzeAnswer), Args: args})
	case intent.GetStandardAnswer:
		return m.Dispatch(ctx, Call{Name: string(ActionGetStandardAnswer), Args: args})
	case intent.StartInterview:
		return m.Dispatch(ctx, Call{Name: string(ActionStartInterview), Args: args})
	case intent.Introduction:
		return m.Dispatch(ctx, Call{Name: string(ActionAnalyzeIntro), Args: map[string]string{"intro": message}})
	default:
		return succeed(generalChatText)
	}
}
