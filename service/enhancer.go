package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"finplan-agent/config"
	"finplan-agent/metrics"
)

// ResponseEnhancer optionally rewrites a computed response in a friendlier
// tone. Enhancement is never load-bearing: any failure returns the base
// text unchanged.
type ResponseEnhancer interface {
	Enhance(ctx context.Context, question, baseResponse string) string
}

// NopEnhancer passes the base response through untouched.
type NopEnhancer struct{}

func (NopEnhancer) Enhance(_ context.Context, _, baseResponse string) string {
	return baseResponse
}

type LLMEnhancer struct {
	apiKey     string
	apiURL     string
	model      string
	enabled    bool
	httpClient *http.Client
	logger     *zap.Logger
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func NewLLMEnhancer(cfg config.EnhancerConfig, logger *zap.Logger) *LLMEnhancer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMEnhancer{
		apiKey:  cfg.APIKey,
		apiURL:  cfg.APIURL,
		model:   cfg.Model,
		enabled: cfg.APIKey != "",
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// Enhance asks the model to polish the base response while keeping every
// number and command hint intact. On any failure the base response is
// returned and the failure is counted.
func (e *LLMEnhancer) Enhance(ctx context.Context, question, baseResponse string) string {
	if !e.enabled {
		return baseResponse
	}

	prompt := fmt.Sprintf(`The user asked: %q

A financial planning assistant computed this answer:

%s

Rewrite the answer in a warm, concise tone. Keep every number, currency
amount, plan id and suggested command phrase exactly as written. Do not
add financial advice that is not already present.`, question, baseResponse)

	enhanced, err := e.callModel(ctx, prompt)
	if err != nil {
		metrics.EnhancerFailures.Inc()
		e.logger.Warn("response enhancement failed, using base response", zap.Error(err))
		return baseResponse
	}
	return enhanced
}

func (e *LLMEnhancer) callModel(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: e.model,
		Messages: []chatMessage{
			{
				Role: "system",
				Content: "You polish responses from an Indian consumer-finance assistant. " +
					"You never change amounts, rates, tenures or plan ids, and you keep responses short.",
			},
			{
				Role:    "user",
				Content: prompt,
			},
		},
		MaxTokens: 400,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("enhancer API status %d: %s", resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("enhancer returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
