package capability

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClassifier selects a category via a chat-completion call. It works
// against any OpenAI-compatible endpoint (Groq, Ollama's compat API, OpenAI
// itself) through the BaseURL override.
type OpenAIClassifier struct {
	client        *openai.Client
	model         string
	maxInputChars int
}

// NewOpenAIClassifier builds a classifier backed by a chat-completion model.
func NewOpenAIClassifier(apiKey, baseURL, model string, maxInputChars int) *OpenAIClassifier {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if maxInputChars <= 0 {
		maxInputChars = 1800
	}
	return &OpenAIClassifier{
		client:        openai.NewClientWithConfig(cfg),
		model:         model,
		maxInputChars: maxInputChars,
	}
}

// Classify asks the model for the single best category and matches the reply
// against the supplied vocabulary.
func (c *OpenAIClassifier) Classify(ctx context.Context, text string, categories []string) (ClassifierResult, error) {
	if len(categories) == 0 {
		return ClassifierResult{}, errors.New("no categories supplied")
	}

	prompt := fmt.Sprintf(
		"Classify this IT support ticket into one of these categories:\nCategories: %s\n\nTicket: %s\n\nReturn only the most appropriate category name.",
		strings.Join(categories, ", "),
		condense(text, c.maxInputChars),
	)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: prompt}},
		MaxTokens:   48,
		Temperature: 0.1,
	})
	if err != nil {
		return ClassifierResult{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return ClassifierResult{}, errors.New("empty completion response")
	}

	predicted := strings.TrimSpace(resp.Choices[0].Message.Content)
	return MatchCategory(predicted, categories), nil
}

// MatchCategory maps a raw model reply onto the vocabulary, defaulting to the
// first category at reduced confidence when nothing matches.
func MatchCategory(predicted string, categories []string) ClassifierResult {
	lower := strings.ToLower(predicted)
	for _, category := range categories {
		if strings.Contains(lower, strings.ToLower(category)) {
			return ClassifierResult{
				Category:   category,
				Confidence: 0.9,
				Reasoning:  fmt.Sprintf("model classification: %s (matched %s)", predicted, category),
			}
		}
	}
	return ClassifierResult{
		Category:   categories[0],
		Confidence: 0.6,
		Reasoning:  fmt.Sprintf("model reply %q matched no category; defaulted", predicted),
	}
}

// condense collapses whitespace and keeps head+tail so long tickets stay
// within the model input budget.
func condense(text string, maxChars int) string {
	compact := strings.Join(strings.Fields(text), " ")
	if len(compact) <= maxChars {
		return compact
	}
	half := maxChars / 2
	return compact[:half] + "\n...\n" + compact[len(compact)-half:]
}
