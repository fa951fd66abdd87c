// Package metrics declares the Prometheus collectors exported by the interviewer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StateTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interviewer_state_transitions_total",
			Help: "Interview state transitions by source and target state",
		},
		[]string{"from", "to"},
	)

	AnswersScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interviewer_answers_scored_total",
			Help: "Answers scored, labelled by the tier that produced the score",
		},
		[]string{"method"},
	)

	AnswerScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "interviewer_answer_score",
			Help:    "Distribution of answer scores (0-100)",
			Buckets: []float64{20, 40, 60, 80, 90, 100},
		},
		[]string{"method"},
	)

	IntentsRouted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interviewer_intents_routed_total",
			Help: "Messages routed, labelled by intent and deciding layer",
		},
		[]string{"intent", "layer"},
	)

	IntroCritiques = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interviewer_intro_critiques_total",
			Help: "Self-introduction critiques, labelled by method",
		},
		[]string{"method"},
	)

	QuestionsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interviewer_questions_served_total",
			Help: "Questions served, labelled by origin (corpus or builtin)",
		},
		[]string{"origin"},
	)

	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "interviewer_llm_request_duration_seconds",
			Help: "Duration of model calls in seconds",
		},
		[]string{"purpose", "outcome"},
	)

	LLMRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interviewer_llm_retries_total",
			Help: "Model call retries by purpose and the outcome that triggered them",
		},
		[]string{"purpose", "outcome"},
	)
)
