package nlp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// sentimentSystemPrompt instructs the model to behave like a star-rating
// sentiment classifier and answer in strict JSON so the rating is parseable.
const sentimentSystemPrompt = `You are a sentiment rating model.
Rate the emotional tone of the user's message on a 1-5 scale:
1 = very negative, 2 = somewhat negative, 3 = neutral, 4 = positive, 5 = very positive.
Respond ONLY with JSON of the form {"rating": <integer 1-5>}. No other text.`

// sentimentProvider implements SentimentProvider on the chat completions
// API with JSON-mode output.
type sentimentProvider struct {
	cfg    Config
	client *http.Client
}

// NewSentiment returns a SentimentProvider backed by the OpenAI (or
// compatible) chat API. The returned provider is safe for concurrent use.
func NewSentiment(cfg Config) SentimentProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBase
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &sentimentProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type ratingPayload struct {
	Rating int `json:"rating"`
}

// Rate returns the 1 to 5 intensity rating for text. A structurally valid
// response carrying a rating outside 1..5 is treated as malformed output.
func (p *sentimentProvider) Rate(ctx context.Context, text string) (int, error) {
	req := oaiRequest{
		Model: p.cfg.Model,
		Messages: []oaiMessage{
			{Role: "system", Content: sentimentSystemPrompt},
			{Role: "user", Content: text},
		},
		MaxTokens:      16,
		ResponseFormat: &oaiFormat{Type: "json_object"},
	}

	resp, err := complete(ctx, p.client, p.cfg, req)
	if err != nil {
		return 0, err
	}

	var payload ratingPayload
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &payload); err != nil {
		return 0, fmt.Errorf("%w: rating payload: %v", ErrMalformedOutput, err)
	}
	if payload.Rating < 1 || payload.Rating > 5 {
		return 0, fmt.Errorf("%w: rating %d outside 1..5", ErrMalformedOutput, payload.Rating)
	}
	return payload.Rating, nil
}

var _ SentimentProvider = (*sentimentProvider)(nil)
