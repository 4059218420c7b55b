package capability

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// categoryKeywords drives the deterministic classifier. Scoring is a plain
// keyword count, so the same text always classifies identically.
var categoryKeywords = map[string][]string{
	"Network Issues":        {"network", "internet", "wifi", "connection", "router", "switch", "ip", "dns", "vpn"},
	"Software Problems":     {"software", "application", "app", "program", "install", "update", "bug", "crash"},
	"Hardware Failures":     {"hardware", "computer", "laptop", "desktop", "monitor", "keyboard", "mouse", "hard drive"},
	"Security Incidents":    {"security", "virus", "malware", "hack", "breach", "suspicious", "ransomware", "phishing"},
	"Account Access":        {"account", "login", "password", "access", "locked", "username", "authentication"},
	"Email Issues":          {"email", "outlook", "mail", "smtp", "inbox", "attachment", "send", "receive"},
	"Printer Problems":      {"printer", "print", "paper", "toner", "scan", "fax", "queue"},
	"Application Errors":    {"error", "exception", "crash", "freeze", "hang", "not responding"},
	"System Performance":    {"slow", "performance", "memory", "cpu", "disk", "space", "lag"},
	"Mobile Device Support": {"mobile", "phone", "tablet", "ios", "android", "sync"},
	"Database Issues":       {"database", "sql", "query", "data", "backup", "restore"},
	"General Support":       {"help", "question", "how to", "support", "assistance"},
}

// KeywordClassifier is a deterministic, dependency-free classifier used as
// the configured fallback backend and by the orchestration-level fallback
// path. It never returns an error for a non-empty vocabulary.
type KeywordClassifier struct{}

// NewKeywordClassifier builds the classifier.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

// Classify scores each supplied category by keyword hits and picks the best.
func (c *KeywordClassifier) Classify(_ context.Context, text string, categories []string) (ClassifierResult, error) {
	if len(categories) == 0 {
		return ClassifierResult{}, errors.New("no categories supplied")
	}

	lower := strings.ToLower(text)
	best := categories[0]
	bestScore := 0
	for _, category := range categories {
		score := 0
		for _, keyword := range categoryKeywords[category] {
			if strings.Contains(lower, keyword) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = category
		}
	}

	confidence := 0.5 + float64(bestScore)*0.1
	if confidence > 0.9 {
		confidence = 0.9
	}
	return ClassifierResult{
		Category:   best,
		Confidence: confidence,
		Reasoning:  fmt.Sprintf("keyword classification: matched %s with %d keywords", best, bestScore),
	}, nil
}
