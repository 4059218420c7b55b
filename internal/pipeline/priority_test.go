package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

func TestPredictPriorityTiers(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		expected domain.PriorityLevel
		hours    float64
	}{
		{"outage", "The file server is down for everyone", domain.PriorityCritical, 2},
		{"ransomware", "We found ransomware on a workstation", domain.PriorityCritical, 2},
		{"data loss", "Possible data loss after the crash", domain.PriorityCritical, 2},
		{"payroll", "Payroll export is failing", domain.PriorityHigh, 8},
		{"executive", "The executive dashboard will not load", domain.PriorityHigh, 8},
		{"workaround", "Monitor flickers but a workaround exists", domain.PriorityMedium, 24},
		{"slow", "My laptop is very slow since Monday", domain.PriorityMedium, 24},
		{"default", "Could somebody install a second screen next month", domain.PriorityLow, 72},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pred := PredictPriority(tc.text, domain.RequesterInfo{})
			assert.Equal(t, tc.expected, pred.Priority)
			assert.InDelta(t, tc.hours, pred.EstimatedResolutionHours, 1e-9)
			assert.InDelta(t, 0.7, pred.Confidence, 1e-9)
			assert.NotEmpty(t, pred.Factors)
			assert.NotEmpty(t, pred.Reasoning)
		})
	}
}

func TestPredictPriorityDepartmentTier(t *testing.T) {
	pred := PredictPriority("Need a new mouse pad", domain.RequesterInfo{Department: "Finance"})
	assert.Equal(t, domain.PriorityHigh, pred.Priority)

	pred = PredictPriority("Need a new mouse pad", domain.RequesterInfo{Department: "Executive"})
	assert.Equal(t, domain.PriorityHigh, pred.Priority)
}

func TestPredictPriorityCriticalKeywordAlwaysWins(t *testing.T) {
	// Critical keywords outrank every department.
	for _, dept := range []string{"", "Finance", "HR", "Legal", "Sales"} {
		pred := PredictPriority("ransomware detected on shared drive", domain.RequesterInfo{Department: dept})
		assert.Equal(t, domain.PriorityCritical, pred.Priority, "department %q", dept)
	}
}

func TestPredictPrioritySecurityEscalation(t *testing.T) {
	pred := PredictPriority("I got a phishing mail, just letting you know", domain.RequesterInfo{})
	assert.Equal(t, domain.PriorityHigh, pred.Priority)
	assert.Contains(t, pred.Factors, "Security-related language")

	// Already Critical stays Critical.
	pred = PredictPriority("security breach in progress", domain.RequesterInfo{})
	assert.Equal(t, domain.PriorityCritical, pred.Priority)
}

func TestPredictPrioritySensitiveDepartmentFloor(t *testing.T) {
	pred := PredictPriority("Question about a form", domain.RequesterInfo{Department: "HR"})
	assert.Equal(t, domain.PriorityMedium, pred.Priority)

	pred = PredictPriority("Question about a form", domain.RequesterInfo{Department: "legal"})
	assert.Equal(t, domain.PriorityMedium, pred.Priority)

	// Medium is already at the floor.
	pred = PredictPriority("Intermittent screen flicker", domain.RequesterInfo{Department: "HR"})
	assert.Equal(t, domain.PriorityMedium, pred.Priority)
}

func TestPredictPriorityVIPFloor(t *testing.T) {
	pred := PredictPriority("Question about printing labels", domain.RequesterInfo{VIP: true})
	assert.Equal(t, domain.PriorityMedium, pred.Priority)
}

func TestPredictPriorityDeterminism(t *testing.T) {
	text := "VPN cannot connect from home office"
	first := PredictPriority(text, domain.RequesterInfo{Department: "Sales"})
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, PredictPriority(text, domain.RequesterInfo{Department: "Sales"}))
	}
}
