package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/ticket-triage/internal/capability"
	"github.com/spec-kit/ticket-triage/internal/domain"
)

func TestExtractNumberedSteps(t *testing.T) {
	snippet := "Troubleshooting guide\n1. Restart the router\n2. Check cables\nSome prose in between\n10. Call IT"
	steps := extractNumberedSteps(snippet)
	assert.Equal(t, []string{"1. Restart the router", "2. Check cables", "10. Call IT"}, steps)

	assert.Empty(t, extractNumberedSteps("no enumerated lines here"))
}

func TestSolutionFromSearchDefaults(t *testing.T) {
	sol := solutionFromSearch(capability.SearchResult{ID: "kb-1", Score: 0.42})
	assert.Equal(t, "kb-1", sol.SolutionID)
	assert.Equal(t, "Similar Case", sol.Title)
	assert.Equal(t, []string{"Refer to knowledge base article for details"}, sol.Steps)
	assert.Equal(t, 15, sol.EstimatedTimeMinutes)
	assert.InDelta(t, 0.7, sol.SuccessRate, 1e-9)
	assert.Equal(t, "knowledge_base", sol.Source)
}

func TestSolutionFromSearchSynthesizesSteps(t *testing.T) {
	sol := solutionFromSearch(capability.SearchResult{
		ID:             "kb-2",
		Title:          "WiFi fixes",
		ContentSnippet: "Intro\n1. Forget the network\n2. Reconnect",
		Score:          0.5,
	})
	assert.Equal(t, []string{"1. Forget the network", "2. Reconnect"}, sol.Steps)
}

func TestSolutionFromSearchKeepsSourceSteps(t *testing.T) {
	sol := solutionFromSearch(capability.SearchResult{
		ID:                   "kb-3",
		Title:                "Printer queue reset",
		Steps:                []string{"Open spooler", "Clear queue"},
		EstimatedTimeMinutes: 25,
		SuccessRate:          0.92,
		Source:               "runbook",
		Score:                0.8,
	})
	assert.Equal(t, []string{"Open spooler", "Clear queue"}, sol.Steps)
	assert.Equal(t, 25, sol.EstimatedTimeMinutes)
	assert.InDelta(t, 0.92, sol.SuccessRate, 1e-9)
	assert.Equal(t, "runbook", sol.Source)
}

func TestRunbookSolutionSelection(t *testing.T) {
	cases := []struct {
		name     string
		category domain.TicketCategory
		text     string
		title    string
	}{
		{"mobile email", domain.CategoryEmailIssues, "mail broken on my iphone", "Mobile Email Sync Troubleshooting"},
		{"outlook", domain.CategoryEmailIssues, "outlook hangs on startup", "Outlook/Email Client Troubleshooting"},
		{"wifi", domain.CategoryNetworkIssues, "wifi keeps dropping", "WiFi Connection Troubleshooting"},
		{"vpn", domain.CategoryNetworkIssues, "vpn rejected my login", "VPN Connection Troubleshooting"},
		{"network general", domain.CategoryNetworkIssues, "no connectivity at my desk", "General Network Troubleshooting"},
		{"printer", domain.CategoryPrinterProblems, "printer shows offline", "Printer Troubleshooting"},
		{"hardware", domain.CategoryHardwareFailures, "strange noise from the tower", "Hardware Troubleshooting"},
		{"software", domain.CategorySoftwareProblems, "the program crashes", "Software/Application Troubleshooting"},
		{"access", domain.CategoryAccountAccess, "cannot reach my files", "Account Access Troubleshooting"},
		{"generic", domain.CategoryGeneralSupport, "something is off", "General IT Support Steps"},
		{"empty category", "", "nothing matches anything", "General IT Support Steps"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sol := runbookSolution(tc.category, tc.text)
			assert.Equal(t, tc.title, sol.Title)
			assert.NotEmpty(t, sol.Steps)
			assert.Equal(t, "heuristic", sol.Source)
			assert.InDelta(t, 0.35, sol.SimilarityScore, 1e-9)
			assert.Greater(t, sol.EstimatedTimeMinutes, 0)
		})
	}
}

func TestSummarizeSolutions(t *testing.T) {
	solutions := []domain.Solution{
		{Title: "First fix", SimilarityScore: 0.8, Steps: []string{"a", "b", "c"}},
		{Title: "Second fix", SimilarityScore: 0.5, Steps: []string{"d"}},
		{Title: "Third fix", SimilarityScore: 0.3, Steps: []string{"e", "f"}},
	}

	lowConfidence, summary, actions := summarizeSolutions(solutions)
	assert.False(t, lowConfidence)
	assert.Equal(t, "First fix; Second fix", summary)

	// First solution's items are immediate, the rest queue behind them.
	assert.Equal(t, []domain.ActionItem{
		{Action: "a", Urgency: "High/Immediate"},
		{Action: "b", Urgency: "High/Immediate"},
		{Action: "d", Urgency: "Medium/As needed"},
		{Action: "e", Urgency: "Medium/As needed"},
		{Action: "f", Urgency: "Medium/As needed"},
	}, actions)
}

func TestSummarizeSolutionsLowConfidence(t *testing.T) {
	lowConfidence, _, _ := summarizeSolutions([]domain.Solution{
		{Title: "Weak", SimilarityScore: 0.35, Steps: []string{"x"}},
		{Title: "Weaker", SimilarityScore: 0.1, Steps: []string{"y"}},
	})
	assert.True(t, lowConfidence)

	lowConfidence, _, _ = summarizeSolutions([]domain.Solution{
		{Title: "Strong", SimilarityScore: 0.4, Steps: []string{"x"}},
	})
	assert.False(t, lowConfidence)
}
