package pipeline

import (
	"context"
	"strings"
	"unicode"

	"github.com/spec-kit/ticket-triage/internal/capability"
	"github.com/spec-kit/ticket-triage/internal/domain"
)

// solutionFromSearch converts one retrieval hit into a recommended
// solution, synthesizing steps from the snippet when the source carries
// none.
func solutionFromSearch(r capability.SearchResult) domain.Solution {
	steps := r.Steps
	if len(steps) == 0 && r.ContentSnippet != "" {
		steps = extractNumberedSteps(r.ContentSnippet)
	}
	if len(steps) == 0 {
		steps = []string{"Refer to knowledge base article for details"}
	}

	title := r.Title
	if title == "" {
		title = "Similar Case"
	}
	desc := r.ContentSnippet
	if len(desc) > 300 {
		desc = desc[:300]
	}
	estTime := r.EstimatedTimeMinutes
	if estTime == 0 {
		estTime = 15
	}
	successRate := r.SuccessRate
	if successRate == 0 {
		successRate = 0.7
	}
	source := r.Source
	if source == "" {
		source = "knowledge_base"
	}

	return domain.Solution{
		SolutionID:           r.ID,
		Title:                title,
		Description:          desc,
		Steps:                steps,
		SimilarityScore:      r.Score,
		EstimatedTimeMinutes: estTime,
		SuccessRate:          successRate,
		Source:               source,
	}
}

// extractNumberedSteps keeps snippet lines that open with an enumerator.
func extractNumberedSteps(snippet string) []string {
	var steps []string
	for _, line := range strings.Split(snippet, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		head := line
		if len(head) > 3 {
			head = head[:3]
		}
		if strings.ContainsFunc(head, unicode.IsDigit) {
			steps = append(steps, line)
		}
	}
	return steps
}

// recommendSolutions runs the widening three-tier search. Tier one filters
// by category with a high similarity floor, tier two drops the filter and
// lowers the floor, tier three falls back to static runbooks. The result is
// never empty.
func (o *Orchestrator) recommendSolutions(ctx context.Context, state *domain.TicketState) ([]domain.Solution, error) {
	query := state.Text()
	var category string
	if state.Classification != nil {
		category = string(state.Classification.Category)
	}

	results, err := o.retriever.Search(ctx, query, category, o.cfg.MaxSolutions, o.cfg.MinSimilarity)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		o.logger.Info("no high-confidence solutions, widening search")
		results, err = o.retriever.Search(ctx, query, "", o.cfg.MaxSolutions, o.cfg.WideMinSimilarity)
		if err != nil {
			return nil, err
		}
	}

	solutions := make([]domain.Solution, 0, len(results))
	for _, r := range results {
		solutions = append(solutions, solutionFromSearch(r))
	}
	if len(solutions) == 0 {
		o.logger.Info("no knowledge base results, using runbook steps")
		var cat domain.TicketCategory
		if state.Classification != nil {
			cat = state.Classification.Category
		}
		solutions = append(solutions, runbookSolution(cat, query))
	}
	return solutions, nil
}

// summarizeSolutions derives the presentation fields that always accompany
// recommendations: the overall confidence flag, a short summary from the
// top titles, and per-solution action items.
func summarizeSolutions(solutions []domain.Solution) (lowConfidence bool, summary string, actions []domain.ActionItem) {
	lowConfidence = true
	for _, s := range solutions {
		if s.SimilarityScore >= 0.4 {
			lowConfidence = false
			break
		}
	}

	titles := make([]string, 0, 2)
	for _, s := range solutions {
		titles = append(titles, s.Title)
		if len(titles) == 2 {
			break
		}
	}
	summary = strings.Join(titles, "; ")

	for i, s := range solutions {
		urgency := "Medium/As needed"
		if i == 0 {
			urgency = "High/Immediate"
		}
		for j, step := range s.Steps {
			if j == 2 {
				break
			}
			actions = append(actions, domain.ActionItem{Action: step, Urgency: urgency})
		}
	}
	return lowConfidence, summary, actions
}
