package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Exchange records one user message and the interviewer's reply.
type Exchange struct {
	ent.Schema
}

func (Exchange) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (Exchange) Fields() []ent.Field {
	return []ent.Field{
		field.String("user_id").
			NotEmpty().
			Comment("Candidate the session belongs to"),
		field.String("session_id").
			NotEmpty().
			Comment("Interview ID, regenerated on restart"),
		field.String("state").
			Comment("Interview state after the message was handled"),
		field.Text("user_message").
			Comment("What the candidate sent"),
		field.Text("ai_response").
			Comment("The reply shown to the candidate"),
		field.Int("score").
			Optional().
			Nillable().
			Comment("Answer score 0-100 when the message was graded"),
	}
}

func (Exchange) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id"),
		index.Fields("session_id"),
	}
}
