package question

import (
	"context"
	"math/rand/v2"
)

// Static is an in-memory Backend over a fixed document list.
type Static struct {
	docs []Document
}

// NewStatic creates a Backend that draws from docs.
func NewStatic(docs ...Document) *Static {
	return &Static{docs: docs}
}

func (s *Static) RandomDocument(_ context.Context) (Document, error) {
	if len(s.docs) == 0 {
		return Document{}, ErrEmptyCorpus
	}
	return s.docs[rand.IntN(len(s.docs))], nil
}

// Len returns the number of documents.
func (s *Static) Len() int { return len(s.docs) }
