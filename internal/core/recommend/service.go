// Package recommend orchestrates the recommendation-candidate curation
// pipeline: history, generation, verification, assembly.
package recommend

import (
	"context"
	"fmt"
	"sync"

	"media-tracker/internal/core/catalog"
	"media-tracker/internal/core/history"
	"media-tracker/internal/pkg/common"

	"go.uber.org/zap"
)

const (
	gateMessage      = "Recommendations are a premium feature. Upgrade to get personalized picks."
	noHistoryMessage = "Not enough history yet. Register a few titles first, then come back for recommendations."
)

// CandidateGenerator proposes unverified candidates from history.
type CandidateGenerator interface {
	Generate(ctx context.Context, contentType common.ContentType, history []string) ([]common.Candidate, error)
}

// Result is the terminal outcome of one curation run.
type Result struct {
	Recommendations []common.Recommendation `json:"recommendations"`
	Message         string                  `json:"message,omitempty"`
	PremiumGate     bool                    `json:"is_premium_gate"`
}

// Service runs the curation pipeline.
type Service struct {
	store        history.Store
	generator    CandidateGenerator
	verifier     catalog.Verifier
	historyLimit int
}

// NewService wires the curator with its collaborators.
func NewService(store history.Store, generator CandidateGenerator, verifier catalog.Verifier, historyLimit int) *Service {
	return &Service{
		store:        store,
		generator:    generator,
		verifier:     verifier,
		historyLimit: historyLimit,
	}
}

// Curate produces verified recommendations for a user. Non-premium callers
// and users without history get an empty successful result with a message;
// only a generation failure is returned as an error.
func (s *Service) Curate(ctx context.Context, userID string, contentType common.ContentType, isPremium bool) (*Result, error) {
	if !isPremium {
		return &Result{
			Recommendations: []common.Recommendation{},
			Message:         gateMessage,
			PremiumGate:     true,
		}, nil
	}

	items, err := s.store.Recent(ctx, userID, contentType, s.historyLimit)
	if err != nil {
		// A store failure is treated the same as having no history.
		common.LogWarn("history read failed, treating as empty",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		items = nil
	}
	if len(items) == 0 {
		return &Result{
			Recommendations: []common.Recommendation{},
			Message:         noHistoryMessage,
		}, nil
	}

	resolved := resolveContentType(contentType, items)

	candidates, err := s.generator.Generate(ctx, resolved, common.FormatHistory(items))
	if err != nil {
		return nil, fmt.Errorf("candidate generation failed: %w", err)
	}

	verified := s.verifyAll(ctx, resolved, candidates)

	recommendations := make([]common.Recommendation, 0, len(candidates))
	for i, candidate := range candidates {
		if len(verified[i]) == 0 {
			common.LogDebug("dropping unverified candidate",
				zap.String("title", candidate.Title),
				zap.String("content_type", string(resolved)),
			)
			continue
		}
		recommendations = append(recommendations, common.Recommendation{
			Title:       candidate.Title,
			Description: candidate.Description,
			Links:       verified[i],
		})
	}

	common.LogInfo("curation completed",
		zap.String("user_id", userID),
		zap.String("content_type", string(resolved)),
		zap.Int("candidates", len(candidates)),
		zap.Int("verified", len(recommendations)),
	)

	return &Result{Recommendations: recommendations}, nil
}

// verifyAll checks every candidate concurrently. Results are keyed by
// candidate index so assembly preserves generator order.
func (s *Service) verifyAll(ctx context.Context, contentType common.ContentType, candidates []common.Candidate) [][]common.Link {
	verified := make([][]common.Link, len(candidates))

	var wg sync.WaitGroup
	for i, candidate := range candidates {
		wg.Add(1)
		go func(i int, title string) {
			defer wg.Done()
			verified[i] = s.verifier.Verify(ctx, title, contentType)
		}(i, candidate.Title)
	}
	wg.Wait()

	return verified
}

// resolveContentType falls back to the newest history item's type when the
// caller did not pin one, and to movie as a last resort.
func resolveContentType(requested common.ContentType, items []common.HistoryItem) common.ContentType {
	if requested != "" {
		return requested
	}
	if len(items) > 0 && items[0].Type != "" {
		return items[0].Type
	}
	return common.ContentTypeMovie
}
