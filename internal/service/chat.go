package service

import (
	"context"

	"github.com/fundlens/fundlens/internal/dataset"
	"github.com/fundlens/fundlens/internal/llm"
	"github.com/fundlens/fundlens/internal/logger"
	"github.com/fundlens/fundlens/internal/query"
)

// FallbackAnswer is returned whenever planning or execution fails.
// Reasons are logged, never leaked to the client.
const FallbackAnswer = "Sorry can not find the answer"

// ChatService answers natural-language questions about the loaded datasets.
// This decouples HTTP handlers from the plan/execute/explain pipeline.
type ChatService interface {
	Answer(ctx context.Context, question string) (string, error)
}

type chatService struct {
	store     *dataset.Store
	planner   *llm.Planner
	explainer *llm.Explainer
}

func NewChatService(store *dataset.Store, planner *llm.Planner, explainer *llm.Explainer) ChatService {
	return &chatService{store: store, planner: planner, explainer: explainer}
}

// Answer runs the question through plan → execute → explain.
// A nil plan or a failed execution yields the fixed fallback answer with a
// nil error; the error return is reserved for internal faults.
func (s *chatService) Answer(ctx context.Context, question string) (string, error) {
	plan := s.planner.GeneratePlan(ctx, question, s.store.Columns())
	if plan == nil {
		return FallbackAnswer, nil
	}

	result := query.Execute(s.store, plan)
	if !result.Success {
		logger.L().Info().Str("reason", result.Error).Msg("plan rejected or failed")
		return FallbackAnswer, nil
	}

	return s.explainer.Explain(ctx, question, plan, result), nil
}
