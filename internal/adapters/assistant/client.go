// Package assistant is the outbound adapter to the AI text-generation
// service. The contract is deliberately narrow: prompts in, free text or a
// schema-checked JSON payload out. Transport failures, non-2xx statuses and
// schema violations all surface as apperrors.ErrRemoteService.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/goldenlabs/golden_gold_app/internal/apperrors"
	"github.com/goldenlabs/golden_gold_app/internal/core/domain"
	portssvc "github.com/goldenlabs/golden_gold_app/internal/core/ports/services"
	"github.com/goldenlabs/golden_gold_app/internal/dto"
	"github.com/goldenlabs/golden_gold_app/pkg/config"
)

// generateRequest is the wire request to the text-generation endpoint.
type generateRequest struct {
	System         string `json:"system,omitempty"`
	Prompt         string `json:"prompt"`
	ResponseFormat string `json:"responseFormat,omitempty"` // "json" for structured replies
}

// generateResponse is the wire response.
type generateResponse struct {
	Text string `json:"text"`
}

// HTTPClient talks to the AI collaborator over JSON/HTTP.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient creates the adapter. With an empty base URL the client is
// disabled and every call reports ErrRemoteService, which the services
// degrade to their fallbacks.
func NewHTTPClient(cfg *config.Config) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.AssistantBaseURL, "/"),
		apiKey:  cfg.AssistantAPIKey,
		client:  &http.Client{Timeout: cfg.AssistantTimeout},
	}
}

var _ portssvc.AssistantClient = (*HTTPClient)(nil)

func (c *HTTPClient) generate(ctx context.Context, req generateRequest) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("%w: assistant is not configured", apperrors.ErrRemoteService)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", apperrors.ErrRemoteService, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", apperrors.ErrRemoteService, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrRemoteService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: unexpected status %d", apperrors.ErrRemoteService, resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", apperrors.ErrRemoteService, err)
	}
	if strings.TrimSpace(out.Text) == "" {
		return "", fmt.Errorf("%w: empty response", apperrors.ErrRemoteService)
	}
	return out.Text, nil
}

// Chat answers a free-form user question given session context.
func (c *HTTPClient) Chat(ctx context.Context, sessionContext string, message string) (string, error) {
	return c.generate(ctx, generateRequest{System: sessionContext, Prompt: message})
}

// Summarize produces the structured behavioral summary. The reply must be a
// JSON object with summary, key_observations and potential_risks; anything
// else is a remote service error, never valid business data.
func (c *HTTPClient) Summarize(ctx context.Context, user domain.User, transactions []domain.Transaction) (*dto.BehaviorSummary, error) {
	prompt, err := buildSummaryPrompt(user, transactions)
	if err != nil {
		return nil, err
	}

	text, err := c.generate(ctx, generateRequest{
		System:         "You analyze digital gold account activity for an admin console. Reply with a single JSON object with keys: summary (string), key_observations (array of strings), potential_risks (array of strings).",
		Prompt:         prompt,
		ResponseFormat: "json",
	})
	if err != nil {
		return nil, err
	}

	var summary dto.BehaviorSummary
	if err := json.Unmarshal([]byte(text), &summary); err != nil {
		return nil, fmt.Errorf("%w: summary is not valid JSON: %v", apperrors.ErrRemoteService, err)
	}
	if strings.TrimSpace(summary.Summary) == "" || summary.KeyObservations == nil || summary.PotentialRisks == nil {
		return nil, fmt.Errorf("%w: summary violates required schema", apperrors.ErrRemoteService)
	}
	return &summary, nil
}

func buildSummaryPrompt(user domain.User, transactions []domain.Transaction) (string, error) {
	type promptTx struct {
		Type        domain.TransactionType   `json:"type"`
		Status      domain.TransactionStatus `json:"status"`
		AmountGrams string                   `json:"amountGrams"`
		AmountETB   string                   `json:"amountETB,omitempty"`
		Date        string                   `json:"date"`
	}
	lines := make([]promptTx, len(transactions))
	for i, txn := range transactions {
		lines[i] = promptTx{
			Type:        txn.Type,
			Status:      txn.Status,
			AmountGrams: txn.AmountGrams.String(),
			AmountETB:   txn.AmountETB.String(),
			Date:        txn.Date.Format("2006-01-02"),
		}
	}
	payload, err := json.Marshal(struct {
		Name        string     `json:"name"`
		GoldBalance string     `json:"goldBalance"`
		ETBBalance  string     `json:"etbBalance"`
		History     []promptTx `json:"history"`
	}{
		Name:        user.Name,
		GoldBalance: user.GoldBalance.String(),
		ETBBalance:  user.ETBBalance.String(),
		History:     lines,
	})
	if err != nil {
		return "", fmt.Errorf("%w: encode prompt: %v", apperrors.ErrRemoteService, err)
	}
	return string(payload), nil
}
